package cf

import (
	"math"
	"math/rand"

	"github.com/rushteam/movierec/core"
)

// ValidationReport 是留出法评估结果。
type ValidationReport struct {
	TotalTested int
	RMSE        float64
	MAE         float64
}

// Validate 用留出法评估预测精度：按 testRatio 切分训练/测试集，
// 用训练集单独构建矩阵，对测试集中训练矩阵认识的 (user, movie) 对做
// 单点预测，汇总 RMSE / MAE。切分由 seed 决定，结果可复现。
func Validate(ratings []core.Rating, cfg Config, testRatio float64, seed int64) (*ValidationReport, error) {
	if len(ratings) == 0 {
		return nil, core.NewDomainError(core.ModuleCF, core.ErrorCodeInsufficientData,
			"cf: no ratings, cannot validate")
	}
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = 0.2
	}

	shuffled := make([]core.Rating, len(ratings))
	copy(shuffled, ratings)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	testSize := int(float64(len(shuffled)) * testRatio)
	if testSize == 0 {
		testSize = 1
	}
	test := shuffled[:testSize]
	train := shuffled[testSize:]

	m, err := BuildMatrix(train, cfg)
	if err != nil {
		return nil, err
	}

	var sqSum, absSum float64
	var n int
	for _, r := range test {
		// 只评估训练矩阵认识的用户和电影
		if _, ok := m.UserIndex[r.UserID]; !ok {
			continue
		}
		if _, ok := m.MovieIndex[r.MovieID]; !ok {
			continue
		}
		pred, ok := m.PredictSingle(r.UserID, r.MovieID)
		if !ok {
			continue
		}
		diff := r.Rating - pred
		sqSum += diff * diff
		absSum += math.Abs(diff)
		n++
	}
	if n == 0 {
		return nil, core.NewDomainError(core.ModuleCF, core.ErrorCodeNoPredictions,
			"cf: no overlapping data to validate")
	}

	return &ValidationReport{
		TotalTested: n,
		RMSE:        math.Sqrt(sqSum / float64(n)),
		MAE:         absSum / float64(n),
	}, nil
}
