package cf

import "math"

// weightedDelta 汇总邻居在第 j 列上的均值中心化贡献。
// 邻居没评过第 j 列的跳过，不算失败。
func (m *Matrix) weightedDelta(j int, neighbors []Neighbor) (num, den float64) {
	for _, nb := range neighbors {
		r := m.R[nb.Index][j]
		if math.IsNaN(r) {
			continue
		}
		num += nb.Similarity * (r - m.UserMeans[nb.Index])
		den += math.Abs(nb.Similarity)
	}
	return num, den
}

// PredictSingle 预测 userID 对 movieID 的评分（离线评估用，不做选片加成）。
//
// 目标格即便已有真实评分也要当缺失处理，避免把真值泄漏进自身的预测。
// 掩码打在行的副本上，共享矩阵从不被修改，并发评估无重入风险。
// 返回 (预测值, true)；用户/电影不在矩阵、无邻居或无邻居评过该片时返回 (0, false)。
func (m *Matrix) PredictSingle(userID, movieID int64) (float64, bool) {
	uIdx, ok := m.UserIndex[userID]
	if !ok {
		return 0, false
	}
	j, ok := m.MovieIndex[movieID]
	if !ok {
		return 0, false
	}

	row := m.R[uIdx]
	if !math.IsNaN(row[j]) {
		masked := make([]float64, len(row))
		copy(masked, row)
		masked[j] = math.NaN()
		row = masked
	}

	neighbors := m.neighborsForRow(row, uIdx, nil, m.cfg.KNeighbors)
	if len(neighbors) == 0 {
		return 0, false
	}

	num, den := m.weightedDelta(j, neighbors)
	if den <= 0 {
		return 0, false
	}
	return m.UserMeans[uIdx] + num/den, true
}
