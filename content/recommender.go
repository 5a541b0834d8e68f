package content

import (
	"context"
	"math"
	"strings"
)

// SelectedItem 是一条选片输入：ID > 0 时按 ID 解析，否则按标题文本解析。
type SelectedItem struct {
	ID    int64
	Title string
}

// Result 是一条内容推荐结果。
type Result struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Genres string  `json:"genres"`
	Score  float64 `json:"score"`
}

// Recommender 基于内容向量索引做语义相似推荐。
type Recommender struct {
	Cache *Cache
}

// Recommend 对一组选片做相似推荐。
//
// 解析规则：ID 直接查映射；标题先做不区分大小写的精确匹配，
// 再退化为片库下标序（构建时固定的 ID 升序）里第一个子串命中。
// 解析失败的输入静默丢弃；全部失败时返回空列表，不报错。
//
// 查询：取已解析向量的均值并重新归一化，向索引要
// topK + 已解析数 + 余量 个候选（余量吸收被排除的输入本身），
// 剔除输入下标后按索引自身的距离升序输出，score = max(0, 1-距离)。
func (r *Recommender) Recommend(ctx context.Context, selected []SelectedItem, topK int) ([]Result, error) {
	if topK <= 0 {
		topK = 10
	}

	arts, err := r.Cache.Artifacts(ctx)
	if err != nil {
		return nil, err
	}

	indices := resolveSelected(selected, arts.Meta)
	if len(indices) == 0 {
		return []Result{}, nil
	}

	dim := len(arts.Embeddings[indices[0]])
	mean := make([]float64, dim)
	for _, idx := range indices {
		for d, v := range arts.Embeddings[idx] {
			mean[d] += v
		}
	}
	for d := range mean {
		mean[d] /= float64(len(indices))
	}
	mean = normalize(mean)

	nQuery := topK + len(indices) + 10
	if nQuery > 50 {
		nQuery = 50
	}
	dists, inds := arts.Index.Kneighbors(mean, nQuery)

	seen := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		seen[idx] = struct{}{}
	}

	out := make([]Result, 0, topK)
	for i, idx := range inds {
		if _, ok := seen[idx]; ok {
			continue
		}
		score := math.Max(0, 1-dists[i])
		out = append(out, Result{
			ID:     arts.Meta.MovieIDs[idx],
			Title:  arts.Meta.Titles[idx],
			Genres: arts.Meta.Genres[idx],
			Score:  math.Round(score*10000) / 10000,
		})
		if len(out) >= topK {
			break
		}
	}
	return out, nil
}

// SimilarToMovie 对单部电影做相似推荐（"看了这部还可能看"场景）。
// 电影不在索引中时返回空列表。
func (r *Recommender) SimilarToMovie(ctx context.Context, movieID int64, topK int) ([]Result, error) {
	return r.Recommend(ctx, []SelectedItem{{ID: movieID}}, topK)
}

// resolveSelected 将选片输入解析为产物数组下标。
func resolveSelected(selected []SelectedItem, meta Metadata) []int {
	idToIndex := make(map[int64]int, len(meta.MovieIDs))
	for idx, mid := range meta.MovieIDs {
		idToIndex[mid] = idx
	}
	titleToIndex := make(map[string]int, len(meta.Titles))
	for idx, t := range meta.Titles {
		key := strings.ToLower(strings.TrimSpace(t))
		if _, ok := titleToIndex[key]; !ok {
			titleToIndex[key] = idx
		}
	}

	indices := make([]int, 0, len(selected))
	for _, s := range selected {
		if s.ID > 0 {
			if idx, ok := idToIndex[s.ID]; ok {
				indices = append(indices, idx)
			}
			continue
		}
		key := strings.ToLower(strings.TrimSpace(s.Title))
		if key == "" {
			continue
		}
		if idx, ok := titleToIndex[key]; ok {
			indices = append(indices, idx)
			continue
		}
		// 子串匹配：片库下标序（构建时固定）里第一个命中者
		for idx, t := range meta.Titles {
			if strings.Contains(strings.ToLower(t), key) {
				indices = append(indices, idx)
				break
			}
		}
	}
	return indices
}
