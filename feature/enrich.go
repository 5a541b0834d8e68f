package feature

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
)

// EnrichNode 是特征注入节点：在重排之后为候选电影补充在线特征，
// 写入 item.Meta，供前端展示或下游 CEL 过滤使用。
//
// 特征获取失败时不中断推荐流程，候选原样返回。
type EnrichNode struct {
	// Loader 特征加载器（Store 或 Feast）
	Loader Loader

	// Prefix 写入 Meta 时的特征名前缀，为空时直接使用特征名
	Prefix string
}

func (n *EnrichNode) Name() string        { return "feature.enrich" }
func (n *EnrichNode) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *EnrichNode) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Loader == nil || len(items) == 0 {
		return items, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if it != nil {
			ids = append(ids, it.ID)
		}
	}

	features, err := n.Loader.Load(ctx, ids)
	if err != nil {
		// 特征只是锦上添花，加载失败时降级为原候选
		return items, nil
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		values, ok := features[it.ID]
		if !ok {
			continue
		}
		for name, v := range values {
			it.PutMeta(n.Prefix+name, v)
		}
	}
	return items, nil
}

var _ pipeline.Node = (*EnrichNode)(nil)
