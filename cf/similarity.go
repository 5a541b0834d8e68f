package cf

import "math"

// similarity 计算用户 u 与 v 的加成余弦相似度，取值 [0,1]。
//
// 基础相似度 = 双方都有评分的列上的余弦相似度；
// 重叠列少于 2 或范数乘积为 0 时返回 0（排除出邻居集合，不报错）。
//
// 加成规则：仅当 selected 非空且一致分 > 0 时生效。
// 对每部双方都评过的选中电影：|Δ| ≤ 0.5 记 2.0 分，≤ 1.5 记 1.0 分；
// boost = min(0.3, 一致分 * 0.05)，最终值 clamp 到 [0,1]。
// 加成对换序输入按同样规则计算，结果保持对称。
func (m *Matrix) similarity(u, v int, selected []int64) float64 {
	return m.similarityRows(m.R[u], m.R[v], selected)
}

// similarityRows 是 similarity 的行向量形式，供单点预测用掩码行复用。
func (m *Matrix) similarityRows(a, b []float64, selected []int64) float64 {
	var dot, normA, normB float64
	overlap := 0
	for j := range a {
		if math.IsNaN(a[j]) || math.IsNaN(b[j]) {
			continue
		}
		overlap++
		dot += a[j] * b[j]
		normA += a[j] * a[j]
		normB += b[j] * b[j]
	}
	if overlap < 2 {
		return 0
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	base := dot / denom

	if len(selected) == 0 {
		return base
	}

	var agreement float64
	for _, mid := range selected {
		j, ok := m.MovieIndex[mid]
		if !ok {
			continue
		}
		ru, rv := a[j], b[j]
		if math.IsNaN(ru) || math.IsNaN(rv) {
			continue
		}
		diff := math.Abs(ru - rv)
		switch {
		case diff <= 0.5:
			agreement += 2.0
		case diff <= 1.5:
			agreement += 1.0
		}
	}
	if agreement <= 0 {
		return base
	}

	boost := math.Min(0.3, agreement*0.05)
	return clamp01(base + boost)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
