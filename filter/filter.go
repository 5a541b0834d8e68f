package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// Filter 判断单个候选是否应被过滤掉。
type Filter interface {
	Name() string

	// ShouldFilter 返回 true 表示该候选要被剔除
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}
