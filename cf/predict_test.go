package cf

import (
	"math"
	"testing"

	"github.com/rushteam/movierec/core"
)

func TestPredictSingle(t *testing.T) {
	m, err := BuildMatrix(baseRatings(), Config{})
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}

	// u1 未评分 m3：pred = mean(u1) + (5 - mean(u2)) = 4.5 + 1/3
	pred, ok := m.PredictSingle(1, 3)
	if !ok {
		t.Fatal("PredictSingle(u1, m3) should succeed")
	}
	want := 4.5 + 1.0/3.0
	if math.Abs(pred-want) > 1e-9 {
		t.Errorf("pred = %v, want %v", pred, want)
	}
}

func TestPredictSingleMasksKnownCell(t *testing.T) {
	// u1 已评分 m1。预测该格时自身真值必须被掩码，不能泄漏进结果。
	ratings := []core.Rating{
		{UserID: 1, MovieID: 1, Rating: 5},
		{UserID: 1, MovieID: 2, Rating: 4},
		{UserID: 1, MovieID: 3, Rating: 3},
		{UserID: 2, MovieID: 1, Rating: 1},
		{UserID: 2, MovieID: 2, Rating: 4},
		{UserID: 2, MovieID: 3, Rating: 3},
	}
	m, err := BuildMatrix(ratings, Config{})
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}

	pred, ok := m.PredictSingle(1, 1)
	if !ok {
		t.Fatal("PredictSingle(u1, m1) should succeed via u2")
	}
	// 掩码后 u1 只剩 m2/m3，与 u2 在这两列完全一致 → sim 1
	// pred = mean(u1) + (r(u2,m1) - mean(u2)) = 4 + (1 - 8/3) = 7/3
	want := 4 + (1 - 8.0/3.0)
	if math.Abs(pred-want) > 1e-9 {
		t.Errorf("pred = %v, want %v", pred, want)
	}
	if pred == 5 {
		t.Error("prediction equals the true rating, mask leaked")
	}

	// 共享矩阵不能被修改
	if got := m.R[m.UserIndex[1]][m.MovieIndex[1]]; got != 5 {
		t.Errorf("R[u1][m1] = %v after PredictSingle, want 5 (unchanged)", got)
	}
}

func TestPredictSingleUnknownInputs(t *testing.T) {
	m, err := BuildMatrix(baseRatings(), Config{})
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}

	tests := []struct {
		name    string
		userID  int64
		movieID int64
	}{
		{"unknown user", 999, 1},
		{"unknown movie", 1, 999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := m.PredictSingle(tt.userID, tt.movieID); ok {
				t.Error("expected ok = false")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	// 10 用户 × 5 电影全量评分，结构有规律，留出法能产出预测
	ratings := make([]core.Rating, 0, 50)
	for u := int64(1); u <= 10; u++ {
		for mid := int64(1); mid <= 5; mid++ {
			ratings = append(ratings, core.Rating{
				UserID:  u,
				MovieID: mid,
				Rating:  float64(3 + (u+mid)%3),
			})
		}
	}

	report, err := Validate(ratings, Config{}, 0.2, 42)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if report.TotalTested == 0 {
		t.Fatal("TotalTested = 0, want > 0")
	}
	if report.RMSE < 0 || report.MAE < 0 {
		t.Errorf("negative error metrics: %+v", report)
	}
	// RMSE ≥ MAE 恒成立
	if report.RMSE+1e-9 < report.MAE {
		t.Errorf("RMSE %v < MAE %v", report.RMSE, report.MAE)
	}

	// 相同 seed 结果可复现
	again, err := Validate(ratings, Config{}, 0.2, 42)
	if err != nil {
		t.Fatalf("Validate again: %v", err)
	}
	if again.TotalTested != report.TotalTested || again.RMSE != report.RMSE || again.MAE != report.MAE {
		t.Errorf("same seed produced different reports: %+v vs %+v", report, again)
	}
}

func TestValidateEmptyInput(t *testing.T) {
	if _, err := Validate(nil, Config{}, 0.2, 1); !core.IsInsufficientData(err) {
		t.Errorf("err = %v, want INSUFFICIENT_DATA", err)
	}
}
