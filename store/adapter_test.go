package store

import (
	"context"
	"testing"

	"github.com/rushteam/movierec/core"
)

func TestRatingAdapter(t *testing.T) {
	ms := newTestStore(t)
	ctx := context.Background()
	adapter := NewRatingAdapter(ms, "")

	if adapter.KeyPrefix != "ratings" {
		t.Errorf("default KeyPrefix = %q, want ratings", adapter.KeyPrefix)
	}

	// 空存储：空结果而非错误
	all, err := adapter.AllRatings(ctx)
	if err != nil || len(all) != 0 {
		t.Errorf("AllRatings on empty store = %v, %v", all, err)
	}
	count, err := adapter.CountRatings(ctx)
	if err != nil || count != 0 {
		t.Errorf("CountRatings on empty store = %d, %v", count, err)
	}

	ratings := []core.Rating{
		{UserID: 1, MovieID: 10, Rating: 5},
		{UserID: 2, MovieID: 10, Rating: 4},
		{UserID: 1, MovieID: 20, Rating: 3},
	}
	if err := adapter.AddRatings(ctx, ratings...); err != nil {
		t.Fatalf("AddRatings: %v", err)
	}

	all, err = adapter.AllRatings(ctx)
	if err != nil {
		t.Fatalf("AllRatings: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(AllRatings) = %d, want 3", len(all))
	}
	if all[0] != ratings[0] {
		t.Errorf("AllRatings[0] = %+v, want %+v", all[0], ratings[0])
	}

	count, err = adapter.CountRatings(ctx)
	if err != nil || count != 3 {
		t.Errorf("CountRatings = %d, %v, want 3, nil", count, err)
	}

	// 热门 zset：m10 两条评分排在 m20 前面
	members, err := ms.ZRange(ctx, adapter.PopularKey(), 0, -1)
	if err != nil {
		t.Fatalf("ZRange: %v", err)
	}
	if len(members) != 2 || members[0] != "10" {
		t.Errorf("popular zset = %v, want [10 20]", members)
	}

	// 追加写入累积总数
	if err := adapter.AddRatings(ctx, core.Rating{UserID: 3, MovieID: 20, Rating: 4}); err != nil {
		t.Fatalf("AddRatings append: %v", err)
	}
	count, _ = adapter.CountRatings(ctx)
	if count != 4 {
		t.Errorf("CountRatings after append = %d, want 4", count)
	}
}

func TestCatalogAdapter(t *testing.T) {
	ms := newTestStore(t)
	ctx := context.Background()
	adapter := NewCatalogAdapter(ms, "")

	movies := []core.Movie{
		{ID: 1, Title: "The Matrix", Genres: "Action|Sci-Fi", Year: 1999},
		{ID: 2, Title: "Inception", Genres: "Action|Sci-Fi|Thriller", Year: 2010},
	}
	if err := adapter.AddMovies(ctx, movies...); err != nil {
		t.Fatalf("AddMovies: %v", err)
	}

	all, err := adapter.AllMovies(ctx)
	if err != nil {
		t.Fatalf("AllMovies: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(AllMovies) = %d, want 2", len(all))
	}

	// 不存在的 ID 跳过
	got, err := adapter.MoviesByIDs(ctx, []int64{2, 999, 1})
	if err != nil {
		t.Fatalf("MoviesByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(MoviesByIDs) = %d, want 2", len(got))
	}
	if got[0].ID != 2 || got[0].Title != "Inception" {
		t.Errorf("MoviesByIDs[0] = %+v, want Inception", got[0])
	}
	if got[1].ID != 1 {
		t.Errorf("MoviesByIDs[1].ID = %d, want 1", got[1].ID)
	}
}
