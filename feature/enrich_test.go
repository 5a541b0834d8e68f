package feature

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/store"
)

func TestStoreLoader(t *testing.T) {
	ms := store.NewMemoryStore()
	t.Cleanup(func() { ms.Close() })
	ctx := context.Background()

	for id, avg := range map[int64]float64{1: 4.2, 2: 3.8} {
		raw, _ := json.Marshal(map[string]any{"avg_rating": avg})
		if err := ms.HSet(ctx, "movie:features", strconv.FormatInt(id, 10), raw); err != nil {
			t.Fatal(err)
		}
	}

	loader := &StoreLoader{Store: ms}
	got, err := loader.Load(ctx, []int64{1, 2, 99})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2 (missing movie skipped)", len(got))
	}
	if got[1]["avg_rating"] != 4.2 {
		t.Errorf("got[1] = %v", got[1])
	}
	if _, ok := got[99]; ok {
		t.Error("missing movie 99 should not appear in result")
	}
}

func TestStoreLoaderRequiresStore(t *testing.T) {
	loader := &StoreLoader{}
	if _, err := loader.Load(context.Background(), []int64{1}); err == nil {
		t.Error("expected error without a backing store")
	}
}

type stubLoader struct {
	features map[int64]map[string]any
	err      error
}

func (l *stubLoader) Name() string { return "feature.stub" }

func (l *stubLoader) Load(ctx context.Context, ids []int64) (map[int64]map[string]any, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.features, nil
}

func TestEnrichNode(t *testing.T) {
	node := &EnrichNode{
		Loader: &stubLoader{features: map[int64]map[string]any{
			1: {"avg_rating": 4.5, "rating_count": 120.0},
		}},
	}

	items := []*core.Item{core.NewItem(1), core.NewItem(2)}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}

	if out[0].Meta["avg_rating"] != 4.5 {
		t.Errorf("avg_rating = %v, want 4.5", out[0].Meta["avg_rating"])
	}
	if _, ok := out[1].Meta["avg_rating"]; ok {
		t.Error("item 2 has no features, meta should stay clean")
	}
}

func TestEnrichNodePrefix(t *testing.T) {
	node := &EnrichNode{
		Loader: &stubLoader{features: map[int64]map[string]any{
			1: {"avg_rating": 4.5},
		}},
		Prefix: "stats_",
	}

	out, err := node.Process(context.Background(), nil, []*core.Item{core.NewItem(1)})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out[0].Meta["stats_avg_rating"] != 4.5 {
		t.Errorf("meta = %v, want stats_avg_rating", out[0].Meta)
	}
}

func TestEnrichNodeDegradesOnLoaderError(t *testing.T) {
	node := &EnrichNode{Loader: &stubLoader{err: errors.New("feast down")}}

	items := []*core.Item{core.NewItem(1)}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process should not fail: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("len(out) = %d, want 1 (degraded, not dropped)", len(out))
	}
}
