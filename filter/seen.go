package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// SeenFilter 剔除当前选片里已有的电影。
// 协同过滤内部已做同样的排除；此过滤器兜住其他召回源（内容/热门）
// 把选中电影再召回回来的情况。
type SeenFilter struct{}

func (f *SeenFilter) Name() string { return "filter.seen" }

func (f *SeenFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if rctx == nil || item == nil {
		return false, nil
	}
	return rctx.HasSelected(item.ID), nil
}

var _ Filter = (*SeenFilter)(nil)
