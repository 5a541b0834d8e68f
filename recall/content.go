package recall

import (
	"context"

	"github.com/rushteam/movierec/content"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/conv"
	"github.com/rushteam/movierec/pkg/utils"
)

// Content 是基于内容的召回源（语义向量相似）。
//
// 把当前选片（ID 或标题文本）解析到向量索引里，取均值向量查最近邻。
// 解析不到任何输入时返回空集而非错误——这是刻意的产品取舍，不是失败。
type Content struct {
	Recommender *content.Recommender

	// TopK 最终返回的候选数，<= 0 时优先读 rctx.Params["top_k"]，再退到 10
	TopK int
}

func (r *Content) Name() string        { return "recall.content" }
func (r *Content) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Content) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Content) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Recommender == nil || rctx == nil {
		return nil, nil
	}

	selected := make([]content.SelectedItem, 0, len(rctx.Selected)+len(rctx.SelectedTitles))
	for _, id := range rctx.Selected {
		selected = append(selected, content.SelectedItem{ID: id})
	}
	for _, title := range rctx.SelectedTitles {
		selected = append(selected, content.SelectedItem{Title: title})
	}
	if len(selected) == 0 {
		return nil, nil
	}

	topK := r.TopK
	if topK <= 0 {
		topK = conv.ConfigGetInt(rctx.Params, "top_k", 10)
	}

	results, err := r.Recommender.Recommend(ctx, selected, topK)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(results))
	for _, res := range results {
		it := core.NewItem(res.ID)
		it.Score = res.Score
		it.PutMeta("title", res.Title)
		it.PutMeta("genres", res.Genres)
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var (
	_ Source        = (*Content)(nil)
	_ pipeline.Node = (*Content)(nil)
)
