package store

import (
	"context"
	"strconv"

	"github.com/rushteam/movierec/core"
)

// RatingAdapter 是基于 core.KeyValueStore 的评分存储适配器，实现 core.RatingStore。
//
// 布局：
//   - 全量三元组：{KeyPrefix}:all（JSON 数组）
//   - 评分总数：{KeyPrefix}:count（独立 key，新鲜度检查走这里，比拉全量便宜）
//   - 热门排序：{KeyPrefix}:popular（zset，member 为电影 ID，score 为评分次数）
type RatingAdapter struct {
	store core.KeyValueStore

	KeyPrefix string
}

// NewRatingAdapter 创建评分适配器。
func NewRatingAdapter(s core.KeyValueStore, keyPrefix string) *RatingAdapter {
	if keyPrefix == "" {
		keyPrefix = "ratings"
	}
	return &RatingAdapter{store: s, KeyPrefix: keyPrefix}
}

func (a *RatingAdapter) Name() string { return "rating_adapter" }

func (a *RatingAdapter) allKey() string     { return a.KeyPrefix + ":all" }
func (a *RatingAdapter) countKey() string   { return a.KeyPrefix + ":count" }
func (a *RatingAdapter) popularKey() string { return a.KeyPrefix + ":popular" }

// PopularKey 返回热门 zset 的 key（供热门召回使用）。
func (a *RatingAdapter) PopularKey() string { return a.popularKey() }

// AllRatings 实现 core.RatingStore。
func (a *RatingAdapter) AllRatings(ctx context.Context) ([]core.Rating, error) {
	data, err := a.store.Get(ctx, a.allKey())
	if err != nil {
		if core.IsStoreNotFound(err) {
			return []core.Rating{}, nil
		}
		return nil, err
	}
	var ratings []core.Rating
	if err := unmarshal(data, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

// CountRatings 实现 core.RatingStore。
func (a *RatingAdapter) CountRatings(ctx context.Context) (int, error) {
	data, err := a.store.Get(ctx, a.countKey())
	if err != nil {
		if core.IsStoreNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return strconv.Atoi(string(data))
}

// AddRatings 追加评分并同步维护总数与热门 zset。
// 批量导入场景用；这里不做同 (user, movie) 去重，与数据源保持一致。
func (a *RatingAdapter) AddRatings(ctx context.Context, ratings ...core.Rating) error {
	existing, err := a.AllRatings(ctx)
	if err != nil {
		return err
	}
	existing = append(existing, ratings...)

	data, err := marshal(existing)
	if err != nil {
		return err
	}
	if err := a.store.Set(ctx, a.allKey(), data); err != nil {
		return err
	}
	if err := a.store.Set(ctx, a.countKey(), []byte(strconv.Itoa(len(existing)))); err != nil {
		return err
	}

	// 热门 zset：score 为每部电影的累计评分次数
	counts := make(map[int64]int, len(existing))
	for _, r := range existing {
		counts[r.MovieID]++
	}
	for _, r := range ratings {
		member := strconv.FormatInt(r.MovieID, 10)
		if err := a.store.ZAdd(ctx, a.popularKey(), float64(counts[r.MovieID]), member); err != nil {
			return err
		}
	}
	return nil
}

var _ core.RatingStore = (*RatingAdapter)(nil)
