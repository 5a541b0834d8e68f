package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/movierec/core"
)

func itemWithGenres(id int64, genres string) *core.Item {
	it := core.NewItem(id)
	if genres != "" {
		it.PutMeta("genres", genres)
	}
	return it
}

func TestTopNNode(t *testing.T) {
	items := []*core.Item{core.NewItem(1), core.NewItem(2), core.NewItem(3)}

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"truncate", 2, 2},
		{"n zero keeps all", 0, 3},
		{"n beyond length keeps all", 10, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopNNode{N: tt.n}
			out, err := node.Process(context.Background(), nil, items)
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if len(out) != tt.want {
				t.Errorf("len(out) = %d, want %d", len(out), tt.want)
			}
		})
	}
}

func TestDiversityCapsPrimaryGenre(t *testing.T) {
	node := &Diversity{MaxPerGenre: 2}
	items := []*core.Item{
		itemWithGenres(1, "Action|Comedy"),
		itemWithGenres(2, "Action|Sci-Fi"),
		itemWithGenres(3, "Action"),     // 第 3 个 Action 主题材，被挤掉
		itemWithGenres(4, "Drama"),
		itemWithGenres(5, ""),           // 无题材信息不受限制
	}

	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	wantIDs := []int64{1, 2, 4, 5}
	if len(out) != len(wantIDs) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(wantIDs))
	}
	for i, want := range wantIDs {
		if out[i].ID != want {
			t.Errorf("out[%d].ID = %d, want %d", i, out[i].ID, want)
		}
	}
}

func TestPrimaryGenre(t *testing.T) {
	tests := []struct {
		genres string
		want   string
	}{
		{"Action|Comedy", "Action"},
		{"Drama", "Drama"},
		{"", ""},
	}
	for _, tt := range tests {
		got := primaryGenre(itemWithGenres(1, tt.genres))
		if got != tt.want {
			t.Errorf("primaryGenre(%q) = %q, want %q", tt.genres, got, tt.want)
		}
	}
}
