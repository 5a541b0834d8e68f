package cf

import (
	"context"
	"sync"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/utils"
)

// Engine 是带缓存的协同过滤引擎。
//
// 缓存策略是粗粒度的：每个公开入口先做新鲜度检查，实时评分总数与构建时
// 记录的总数不一致就同步全量重建。任何评分变化都会使整个矩阵失效，用重建
// 成本换取简单与正确（不存在增量更新路径）。
//
// 并发模型：矩阵构建后只读，重建产出新快照后整体替换指针，读者不会看到
// 半成品矩阵；重建本身由互斥锁保护，避免并发重建风暴。
// Engine 由调用方显式构造和持有（服务启动时创建），不是包级单例。
type Engine struct {
	ratings core.RatingStore
	catalog core.MovieCatalog
	cfg     Config

	mu      sync.Mutex   // 串行化重建
	matrixV sync.RWMutex // 保护 matrix 指针
	matrix  *Matrix
}

// NewEngine 创建协同过滤引擎。矩阵在第一次使用时惰性构建。
func NewEngine(ratings core.RatingStore, catalog core.MovieCatalog, cfg Config) *Engine {
	return &Engine{
		ratings: ratings,
		catalog: catalog,
		cfg:     cfg.withDefaults(),
	}
}

func (e *Engine) current() *Matrix {
	e.matrixV.RLock()
	defer e.matrixV.RUnlock()
	return e.matrix
}

func (e *Engine) swap(m *Matrix) {
	e.matrixV.Lock()
	e.matrix = m
	e.matrixV.Unlock()
}

// ensureFresh 返回新鲜的矩阵快照：矩阵缺失或评分总数漂移时同步重建。
func (e *Engine) ensureFresh(ctx context.Context) (*Matrix, error) {
	count, err := e.ratings.CountRatings(ctx)
	if err != nil {
		return nil, err
	}
	if m := e.current(); m != nil && m.RatingCount == count {
		return m, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// 等锁期间可能已有别的请求完成了重建
	if m := e.current(); m != nil && m.RatingCount == count {
		return m, nil
	}
	return e.rebuild(ctx)
}

// rebuild 调用前必须持有 e.mu。
func (e *Engine) rebuild(ctx context.Context) (*Matrix, error) {
	all, err := e.ratings.AllRatings(ctx)
	if err != nil {
		return nil, err
	}
	m, err := BuildMatrix(all, e.cfg)
	if err != nil {
		return nil, err
	}
	e.swap(m)
	return m, nil
}

// Rebuild 强制全量重建矩阵（评分批量导入后调用）。
func (e *Engine) Rebuild(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.rebuild(ctx)
	return err
}

// Recommend 为目标用户生成 Top-K 推荐，附带片库元数据与信任指标。
//
// userID <= 0 在触碰矩阵之前就以 AUTH_REQUIRED 拒绝。
// 片库中查不到的候选电影被跳过（与预测排名无关的数据问题）。
func (e *Engine) Recommend(ctx context.Context, userID int64, selected []int64, topK int) ([]*core.Item, error) {
	if userID <= 0 {
		return nil, core.NewDomainError(core.ModuleCF, core.ErrorCodeAuthRequired,
			"cf: collaborative filtering requires an identified user")
	}

	m, err := e.ensureFresh(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := m.Recommend(userID, selected, topK)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.MovieID
	}
	movies, err := e.catalog.MoviesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]core.Movie, len(movies))
	for _, mv := range movies {
		byID[mv.ID] = mv
	}

	out := make([]*core.Item, 0, len(candidates))
	for _, c := range candidates {
		mv, ok := byID[c.MovieID]
		if !ok {
			continue
		}
		it := core.NewItem(c.MovieID)
		it.Score = c.Score
		it.PutMeta("title", mv.Title)
		it.PutMeta("genres", mv.Genres)
		if mv.Year > 0 {
			it.PutMeta("year", mv.Year)
		}
		it.PutMeta("predicted_rating", c.Predicted)
		it.PutMeta("badge", c.Badge)
		it.PutMeta("reason", c.Reason)
		it.PutMeta("neighbor_count", c.Trust.NeighborCount)
		it.PutMeta("confidence", c.Trust.Confidence)
		if c.Trust.HasVariance {
			it.PutMeta("variance", c.Trust.Variance)
		}
		it.PutLabel("recall_source", utils.Label{Value: "cf", Source: "recall"})
		it.PutLabel("trust_category", utils.Label{Value: c.Trust.Category, Source: "recall"})
		it.PutLabel("badge", utils.Label{Value: c.Badge, Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// PredictSingle 预测单格评分（离线评估用，不做选片加成）。
// 返回 (预测值, true)；无法预测时返回 (0, false)，不视为错误。
func (e *Engine) PredictSingle(ctx context.Context, userID, movieID int64) (float64, bool, error) {
	m, err := e.ensureFresh(ctx)
	if err != nil {
		return 0, false, err
	}
	pred, ok := m.PredictSingle(userID, movieID)
	return pred, ok, nil
}

// Matrix 返回当前矩阵快照（可能为 nil，用于观测/调试）。
func (e *Engine) Matrix() *Matrix { return e.current() }
