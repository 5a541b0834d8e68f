package filter

import (
	"context"
	"sync"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/dsl"
)

// CELFilter 用 CEL 表达式驱动过滤：表达式求值为 true 的候选被保留。
//
// 示例：
//   - `item.score >= 0.5`                     只保留分数达标的候选
//   - `label.recall_source != "popular"`       剔除纯热门兜底
//   - `"year" in item.meta && item.meta.year >= 1990`
type CELFilter struct {
	// Expr CEL 表达式；空表达式恒保留
	Expr string

	once sync.Once
	prg  *dsl.Program
	err  error
}

func (f *CELFilter) Name() string { return "filter.cel" }

func (f *CELFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	f.once.Do(func() {
		f.prg, f.err = dsl.Compile(f.Expr)
	})
	if f.err != nil {
		return false, f.err
	}

	keep, err := f.prg.Eval(item, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}

var _ Filter = (*CELFilter)(nil)
