package recall

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/utils"
)

type stubSource struct {
	name  string
	ids   []int64
	err   error
	delay time.Duration
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*core.Item, 0, len(s.ids))
	for _, id := range s.ids {
		it := core.NewItem(id)
		it.PutLabel("origin", utils.Label{Value: s.name, Source: "test"})
		out = append(out, it)
	}
	return out, nil
}

func TestFanoutMergesInSourceOrder(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&stubSource{name: "a", ids: []int64{1, 2}},
			&stubSource{name: "b", ids: []int64{2, 3}},
		},
		Dedup: true,
	}

	out, err := fanout.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	wantIDs := []int64{1, 2, 3}
	if len(out) != len(wantIDs) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(wantIDs))
	}
	for i, want := range wantIDs {
		if out[i].ID != want {
			t.Errorf("out[%d].ID = %d, want %d", i, out[i].ID, want)
		}
	}

	// 去重保留先出现的（源 a），但标签合并了两个来源
	var dup *core.Item
	for _, it := range out {
		if it.ID == 2 {
			dup = it
		}
	}
	if dup == nil {
		t.Fatal("item 2 missing")
	}
	if lbl := dup.Labels["recall_source"]; lbl.Value != "a|b" {
		t.Errorf("merged recall_source = %q, want a|b", lbl.Value)
	}
}

func TestFanoutFailedSourceDoesNotAbort(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&stubSource{name: "broken", err: errors.New("boom")},
			&stubSource{name: "ok", ids: []int64{5}},
		},
		Dedup: true,
	}

	out, err := fanout.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 1 || out[0].ID != 5 {
		t.Errorf("out = %v, want single item 5", out)
	}
}

func TestFanoutTimeout(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&stubSource{name: "slow", ids: []int64{1}, delay: 200 * time.Millisecond},
			&stubSource{name: "fast", ids: []int64{2}},
		},
		Dedup:   true,
		Timeout: 20 * time.Millisecond,
	}

	out, err := fanout.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 1 || out[0].ID != 2 {
		t.Errorf("out = %v, want only the fast source's item 2", out)
	}
}

func TestFanoutNoDedup(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&stubSource{name: "a", ids: []int64{1}},
			&stubSource{name: "b", ids: []int64{1}},
		},
	}

	out, err := fanout.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("len(out) = %d, want 2 without dedup", len(out))
	}
}

func TestFanoutEmptySources(t *testing.T) {
	fanout := &Fanout{}
	out, err := fanout.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("len(out) = %d, want 0", len(out))
	}
}
