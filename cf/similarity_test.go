package cf

import (
	"math"
	"testing"

	"github.com/rushteam/movierec/core"
)

func TestSimilarityCosine(t *testing.T) {
	m, err := BuildMatrix(baseRatings(), Config{})
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}

	// u1 与 u2 在 m1/m2 上的评分完全一致，余弦为 1
	got := m.similarity(m.UserIndex[1], m.UserIndex[2], nil)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("similarity(u1, u2) = %v, want 1.0", got)
	}

	// u1 与 u3 只有 m1 一个重叠列，不足 2 → 0
	got = m.similarity(m.UserIndex[1], m.UserIndex[3], nil)
	if got != 0 {
		t.Errorf("similarity(u1, u3) = %v, want 0 (overlap < 2)", got)
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	m, err := BuildMatrix(baseRatings(), Config{})
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}

	for _, selected := range [][]int64{nil, {1}, {1, 2}} {
		for u := range m.UserIDs {
			for v := range m.UserIDs {
				a := m.similarity(u, v, selected)
				b := m.similarity(v, u, selected)
				if math.Abs(a-b) > 1e-12 {
					t.Errorf("similarity not symmetric for (%d,%d) selected=%v: %v vs %v",
						u, v, selected, a, b)
				}
			}
		}
	}
}

// boostRatings 构造 base 相似度明显小于 1 的两个用户，加成可观测。
// u1: m1=5, m2=1; u2: m1=4, m2=5（m1 差 1 → 一致分 1）
// 再加 u3 让电影评分计数过阈值。
func boostRatings() []core.Rating {
	return []core.Rating{
		{UserID: 1, MovieID: 1, Rating: 5},
		{UserID: 1, MovieID: 2, Rating: 1},
		{UserID: 2, MovieID: 1, Rating: 4},
		{UserID: 2, MovieID: 2, Rating: 5},
		{UserID: 3, MovieID: 1, Rating: 3},
		{UserID: 3, MovieID: 2, Rating: 3},
	}
}

func TestSimilaritySelectedBoost(t *testing.T) {
	m, err := BuildMatrix(boostRatings(), Config{})
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	u1, u2 := m.UserIndex[1], m.UserIndex[2]

	base := m.similarity(u1, u2, nil)
	if base <= 0 || base >= 1 {
		t.Fatalf("base similarity = %v, expected in (0, 1)", base)
	}

	// m1 上 |5-4| = 1 ≤ 1.5 → 一致分 1 → boost 0.05
	boosted := m.similarity(u1, u2, []int64{1})
	if math.Abs(boosted-(base+0.05)) > 1e-9 {
		t.Errorf("boosted = %v, want base+0.05 = %v", boosted, base+0.05)
	}

	// m2 上 |1-5| = 4 → 无一致分，加成不生效
	same := m.similarity(u1, u2, []int64{2})
	if math.Abs(same-base) > 1e-9 {
		t.Errorf("similarity with disagreeing selection = %v, want base %v", same, base)
	}

	// 选片不在矩阵中时按没有加成处理
	same = m.similarity(u1, u2, []int64{999})
	if math.Abs(same-base) > 1e-9 {
		t.Errorf("similarity with unknown selection = %v, want base %v", same, base)
	}
}

func TestSimilarityBoostCapAndClamp(t *testing.T) {
	// u1/u2 在 4 部电影上完全一致：base = 1，一致分 8 → boost 封顶 0.3，
	// 最终值 clamp 回 1。
	ratings := []core.Rating{}
	for mid := int64(1); mid <= 4; mid++ {
		ratings = append(ratings,
			core.Rating{UserID: 1, MovieID: mid, Rating: 4},
			core.Rating{UserID: 2, MovieID: mid, Rating: 4},
		)
	}
	m, err := BuildMatrix(ratings, Config{})
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}

	got := m.similarity(m.UserIndex[1], m.UserIndex[2], []int64{1, 2, 3, 4})
	if got != 1.0 {
		t.Errorf("boosted similarity = %v, want clamped to 1.0", got)
	}
}

func TestNeighborsOrderingAndK(t *testing.T) {
	m, err := BuildMatrix(baseRatings(), Config{KNeighbors: 1})
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}

	// u2 与 u1 相似度 1；u2 与 u3 重叠 m1/m3 但评分方向相反，余弦仍为正
	nbs := m.neighbors(m.UserIndex[2], nil, m.cfg.KNeighbors)
	if len(nbs) != 1 {
		t.Fatalf("len(neighbors) = %d, want 1 (k=1)", len(nbs))
	}
	if nbs[0].Index != m.UserIndex[1] {
		t.Errorf("top neighbor = row %d, want u1 row %d", nbs[0].Index, m.UserIndex[1])
	}

	// 自身永远不会出现在邻居里
	for _, nb := range m.neighbors(m.UserIndex[1], nil, 10) {
		if nb.Index == m.UserIndex[1] {
			t.Error("user must not be its own neighbor")
		}
		if nb.Similarity <= 0 {
			t.Errorf("neighbor similarity = %v, want > 0", nb.Similarity)
		}
	}
}
