package content

import (
	"math"
	"sort"
)

// NearestNeighbors 是暴力余弦最近邻索引。
//
// Fit 接收已 L2 归一化的向量集，Kneighbors 返回按余弦距离升序的
// (距离, 下标) 对。小中规模片库下暴力检索足够，且结构可直接 JSON 持久化。
type NearestNeighbors struct {
	Vectors [][]float64 `json:"vectors"`
}

// Fit 装载归一化后的向量集。
func (nn *NearestNeighbors) Fit(vectors [][]float64) {
	nn.Vectors = vectors
}

// Len 返回索引内向量数。
func (nn *NearestNeighbors) Len() int { return len(nn.Vectors) }

// Kneighbors 返回查询向量的前 n 个最近邻。
// 距离 = 1 - dot（向量已归一化，点积即余弦相似度）；
// 升序稳定排序，距离相同的保持下标序；n 超出向量数时取全部。
func (nn *NearestNeighbors) Kneighbors(query []float64, n int) ([]float64, []int) {
	if n <= 0 || n > len(nn.Vectors) {
		n = len(nn.Vectors)
	}

	dists := make([]float64, len(nn.Vectors))
	order := make([]int, len(nn.Vectors))
	for i, v := range nn.Vectors {
		dists[i] = 1 - dot(query, v)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return dists[order[a]] < dists[order[b]]
	})

	outDists := make([]float64, n)
	outIdx := make([]int, n)
	for i := 0; i < n; i++ {
		outIdx[i] = order[i]
		outDists[i] = dists[order[i]]
	}
	return outDists, outIdx
}

func dot(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// normalize 将向量 L2 归一化；零向量原样返回。
func normalize(v []float64) []float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return v
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
