// Package dsl 是基于 CEL (Common Expression Language) 的规则解释器，
// 用于以表达式驱动候选过滤与策略。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/movierec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的 CEL 表达式，可跨请求复用。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：item.score > 0.7 / item.meta.year >= 1990
//   - 标签：label.recall_source == "cf"
//   - 逻辑：label.badge == "Strong Match" && item.score > 0.8
//   - 包含：label.recall_source.contains("content")
//
// 注意：CEL 访问不存在的 key 会报错，存在性检查请用 key in item.meta。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式。空表达式编译为恒真程序。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return &Program{expr: expr}, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// Eval 对单个候选求值，返回布尔结果。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if p.prg == nil {
		return true, nil
	}

	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	labelAccessor := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = map[string]any{"value": v.Value, "source": v.Source}
		// label.recall_source 直接取 value，兼容简写
		labelAccessor[k] = v.Value
	}

	input := map[string]any{
		"item": map[string]any{
			"id":     item.ID,
			"score":  item.Score,
			"meta":   item.Meta,
			"labels": labels,
		},
		"label": labelAccessor,
	}
	if rctx != nil {
		input["rctx"] = map[string]any{
			"user_id":  rctx.UserID,
			"selected": rctx.Selected,
			"params":   rctx.Params,
		}
	} else {
		input["rctx"] = map[string]any{}
	}
	return input
}
