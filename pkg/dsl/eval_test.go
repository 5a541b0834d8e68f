package dsl

import (
	"testing"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/utils"
)

func testItem() *core.Item {
	it := core.NewItem(42)
	it.Score = 0.75
	it.PutMeta("year", 2010)
	it.PutLabel("recall_source", utils.Label{Value: "cf", Source: "recall"})
	it.PutLabel("badge", utils.Label{Value: "Good Match", Source: "recall"})
	return it
}

func TestProgramEval(t *testing.T) {
	rctx := &core.RecommendContext{
		UserID:   7,
		Selected: []int64{1, 2},
		Params:   map[string]any{"scene": "feed"},
	}

	tests := []struct {
		expr string
		want bool
	}{
		{`item.id == 42`, true},
		{`item.score > 0.5`, true},
		{`item.score > 0.9`, false},
		{`item.meta.year >= 2000`, true},
		{`label.recall_source == "cf"`, true},
		{`label.badge.contains("Match")`, true},
		{`item.labels.recall_source.value == "cf"`, true},
		{`rctx.user_id == 7`, true},
		{`rctx.params.scene == "feed"`, true},
		{`label.recall_source == "cf" && item.score > 0.5`, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			prg, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile(%q): %v", tt.expr, err)
			}
			got, err := prg.Eval(testItem(), rctx)
			if err != nil {
				t.Fatalf("Eval(%q): %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCompileEmptyExprAlwaysTrue(t *testing.T) {
	prg, err := Compile("")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	got, err := prg.Eval(testItem(), nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !got {
		t.Error("empty expression should evaluate to true")
	}
}

func TestCompileError(t *testing.T) {
	if _, err := Compile("((("); err == nil {
		t.Error("expected compile error for invalid expression")
	}
}

func TestEvalNonBooleanResult(t *testing.T) {
	prg, err := Compile("item.score")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, err := prg.Eval(testItem(), nil); err == nil {
		t.Error("non-boolean expression should fail at eval")
	}
}
