package cf

import (
	"math"
	"sort"

	"github.com/rushteam/movierec/core"
)

// confidenceSimSum 是置信度归一化的相似度总量：Σsim 达到该值视为满置信。
const confidenceSimSum = 15.0

// TrustMetrics 解释一条推荐的可靠程度，只基于评过该片的邻居计算。
type TrustMetrics struct {
	// NeighborCount 评过候选电影的邻居数
	NeighborCount int

	// Variance 这些邻居评分的总体方差；HasVariance 为 false 表示无邻居评过（未定义）
	Variance    float64
	HasVariance bool

	// Confidence = min(1, Σsimilarity / 15)
	Confidence float64

	// Category 信任档位：High / Medium / Low
	Category string
}

// Candidate 是一条排好序的协同过滤推荐候选。
type Candidate struct {
	MovieID   int64
	Predicted float64 // 预测评分，保留两位小数
	Score     float64 // 归一化分数 clamp(Predicted/5, 0, 1)
	Trust     TrustMetrics
	Badge     string
	Reason    string
}

// Recommend 为目标用户生成 Top-K 推荐。
//
// 邻居搜索只做一次，selected 驱动选片一致性加成；对用户每部未评分电影套用
// 均值中心化加权平均；没有任何邻居评过的候选被丢弃；按预测值降序稳定排序，
// 剔除已选中的电影后截断到 topK。
func (m *Matrix) Recommend(userID int64, selected []int64, topK int) ([]Candidate, error) {
	uIdx, ok := m.UserIndex[userID]
	if !ok {
		return nil, core.NewDomainError(core.ModuleCF, core.ErrorCodeUnknownUser,
			"cf: user lacks enough ratings to run collaborative filtering")
	}
	if topK <= 0 {
		topK = 16
	}

	neighbors := m.neighbors(uIdx, selected, m.cfg.KNeighbors)
	if len(neighbors) == 0 {
		return nil, core.NewDomainError(core.ModuleCF, core.ErrorCodeNoNeighbors,
			"cf: could not find similar users")
	}

	row := m.R[uIdx]
	mean := m.UserMeans[uIdx]

	type prediction struct {
		col  int
		pred float64
	}
	preds := make([]prediction, 0, len(row))
	for j := range row {
		if !math.IsNaN(row[j]) {
			continue
		}
		num, den := m.weightedDelta(j, neighbors)
		if den <= 0 {
			continue
		}
		preds = append(preds, prediction{col: j, pred: mean + num/den})
	}
	if len(preds) == 0 {
		return nil, core.NewDomainError(core.ModuleCF, core.ErrorCodeNoPredictions,
			"cf: no predictions generated")
	}

	sort.SliceStable(preds, func(i, j int) bool { return preds[i].pred > preds[j].pred })

	selectedSet := make(map[int64]struct{}, len(selected))
	for _, id := range selected {
		selectedSet[id] = struct{}{}
	}

	out := make([]Candidate, 0, topK)
	for _, p := range preds {
		mid := m.MovieIDs[p.col]
		if _, ok := selectedSet[mid]; ok {
			continue
		}
		trust := m.trustFor(p.col, neighbors)
		badge, reason := buildInsight(trust)
		out = append(out, Candidate{
			MovieID:   mid,
			Predicted: math.Round(p.pred*100) / 100,
			Score:     clamp01(p.pred / 5.0),
			Trust:     trust,
			Badge:     badge,
			Reason:    reason,
		})
		if len(out) >= topK {
			break
		}
	}
	return out, nil
}

// trustFor 基于评过第 j 列的邻居构建信任指标。
func (m *Matrix) trustFor(j int, neighbors []Neighbor) TrustMetrics {
	var simSum float64
	ratings := make([]float64, 0, len(neighbors))
	for _, nb := range neighbors {
		r := m.R[nb.Index][j]
		if math.IsNaN(r) {
			continue
		}
		simSum += nb.Similarity
		ratings = append(ratings, r)
	}

	t := TrustMetrics{
		NeighborCount: len(ratings),
		Confidence:    math.Min(1.0, simSum/confidenceSimSum),
	}
	if len(ratings) > 0 {
		var mean float64
		for _, r := range ratings {
			mean += r
		}
		mean /= float64(len(ratings))
		var v float64
		for _, r := range ratings {
			v += (r - mean) * (r - mean)
		}
		t.Variance = v / float64(len(ratings))
		t.HasVariance = true
	}

	switch {
	case t.Confidence >= 0.8 && t.HasVariance && t.Variance < 0.12:
		t.Category = "High"
	case t.Confidence >= 0.6:
		t.Category = "Medium"
	default:
		t.Category = "Low"
	}
	return t
}

// buildInsight 给出推荐理由徽章。档位阈值与信任 Category 是两套独立规则。
func buildInsight(t TrustMetrics) (badge, reason string) {
	if t.NeighborCount >= 5 && t.Confidence >= 0.45 && t.HasVariance && t.Variance < 0.15 {
		return "Strong Match", "People with taste similar to yours consistently enjoyed this movie."
	}
	if t.NeighborCount >= 3 && t.Confidence >= 0.20 {
		return "Good Match", "Viewers with similar preferences generally rated this movie well."
	}
	return "Soft Suggestion", "This title was liked by a small number of viewers similar to you."
}
