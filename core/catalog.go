package core

import "context"

// Movie 是片库中的一部电影。
// Genres 沿用数据源的 "Action|Comedy" 竖线分隔格式；Year 可能缺失（0 表示未知）。
type Movie struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Genres      string `json:"genres"`
	Year        int    `json:"year,omitempty"`
	Description string `json:"description,omitempty"`
	Director    string `json:"director,omitempty"`
	Actors      string `json:"actors,omitempty"`
	Tag         string `json:"tag,omitempty"`
}

// Rating 是一条显式评分，1~5 分。
type Rating struct {
	UserID  int64   `json:"user_id"`
	MovieID int64   `json:"movie_id"`
	Rating  float64 `json:"rating"`
}

// RatingStore 是评分数据的领域接口（外部协作者）。
//
// 协同过滤引擎通过它获取全量评分三元组；CountRatings 用于缓存新鲜度检查，
// 实现方应保证它比 AllRatings 便宜。
type RatingStore interface {
	// AllRatings 获取全量评分三元组
	AllRatings(ctx context.Context) ([]Rating, error)

	// CountRatings 获取当前评分总数
	CountRatings(ctx context.Context) (int, error)
}

// MovieCatalog 是片库数据的领域接口（外部协作者）。
type MovieCatalog interface {
	// AllMovies 获取全量电影元数据
	AllMovies(ctx context.Context) ([]Movie, error)

	// MoviesByIDs 按 ID 集合获取电影元数据
	MoviesByIDs(ctx context.Context, ids []int64) ([]Movie, error)
}
