package recall

import (
	"context"

	"github.com/rushteam/movierec/cf"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/conv"
)

// CF 是用户协同过滤召回源（User-based Collaborative Filtering）。
//
// 核心思想："兴趣相似的用户，喜欢相似的物品"——这里的相似度还会被
// 当前选片上的一致性加成，邻居不只是全局口味接近，还要在用户此刻的
// 片单上意见一致。
//
// 数据不足类错误（UNKNOWN_USER / NO_NEIGHBORS / NO_PREDICTIONS）按类型化
// 错误上抛，由边界层决定是否降级为空结果；单独使用时直接感知失败原因，
// 在 Fanout 里则由 fanout 统一吞掉换取其他召回源的可用性。
type CF struct {
	Engine *cf.Engine

	// TopK 最终返回的候选数，<= 0 时优先读 rctx.Params["top_k"]，再退到 16
	TopK int
}

func (r *CF) Name() string        { return "recall.cf" }
func (r *CF) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *CF) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *CF) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Engine == nil || rctx == nil {
		return nil, nil
	}

	topK := r.TopK
	if topK <= 0 {
		topK = conv.ConfigGetInt(rctx.Params, "top_k", 16)
	}
	return r.Engine.Recommend(ctx, rctx.UserID, rctx.Selected, topK)
}

var (
	_ Source        = (*CF)(nil)
	_ pipeline.Node = (*CF)(nil)
)
