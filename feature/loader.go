package feature

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/movierec/core"
)

// Loader 按电影 ID 批量获取特征，返回 movieID -> 特征名 -> 特征值。
// 缺失的电影不出现在结果里，调用方自行兜底。
type Loader interface {
	// Name 返回加载器名称
	Name() string
	// Load 批量获取电影特征
	Load(ctx context.Context, movieIDs []int64) (map[int64]map[string]any, error)
}

// StoreLoader 从 KeyValueStore 的 Hash 读取电影特征。
// 每部电影一个 field（十进制 ID），值为特征 map 的 JSON。
type StoreLoader struct {
	Store core.KeyValueStore

	// Key Hash 键名，为空时取 "movie:features"
	Key string
}

func (l *StoreLoader) Name() string { return "feature.store" }

func (l *StoreLoader) Load(ctx context.Context, movieIDs []int64) (map[int64]map[string]any, error) {
	if l.Store == nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput, "feature store is required")
	}
	key := l.Key
	if key == "" {
		key = "movie:features"
	}

	out := make(map[int64]map[string]any, len(movieIDs))
	for _, id := range movieIDs {
		raw, err := l.Store.HGet(ctx, key, fmt.Sprintf("%d", id))
		if err != nil {
			if core.IsStoreNotFound(err) {
				continue
			}
			return nil, err
		}
		var values map[string]any
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			continue
		}
		out[id] = values
	}
	return out, nil
}

var _ Loader = (*StoreLoader)(nil)
