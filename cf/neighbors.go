package cf

import "sort"

// Neighbor 是一次请求内的临时结构：矩阵行号 + 相似度，不落盘。
type Neighbor struct {
	Index      int
	Similarity float64
}

// neighbors 返回用户 uIdx 的 Top-K 相似邻居。
// 只保留严格正相似度；降序稳定排序，相似度相同的保持矩阵行序。
func (m *Matrix) neighbors(uIdx int, selected []int64, k int) []Neighbor {
	return m.neighborsForRow(m.R[uIdx], uIdx, selected, k)
}

func (m *Matrix) neighborsForRow(row []float64, exclude int, selected []int64, k int) []Neighbor {
	sims := make([]Neighbor, 0)
	for v := range m.R {
		if v == exclude {
			continue
		}
		sim := m.similarityRows(row, m.R[v], selected)
		if sim > 0 {
			sims = append(sims, Neighbor{Index: v, Similarity: sim})
		}
	}

	sort.SliceStable(sims, func(i, j int) bool {
		return sims[i].Similarity > sims[j].Similarity
	})
	if k > 0 && len(sims) > k {
		sims = sims[:k]
	}
	return sims
}
