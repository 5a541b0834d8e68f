package cf

import (
	"math"
	"sort"

	"github.com/rushteam/movierec/core"
)

// Config 是协同过滤引擎的构建参数。
type Config struct {
	// MinMovieRatings 电影进入矩阵所需的最少评分数
	MinMovieRatings int

	// MinUserRatings 用户进入矩阵所需的最少评分数
	MinUserRatings int

	// KNeighbors 预测时考虑的相似用户数
	KNeighbors int
}

func (c Config) withDefaults() Config {
	if c.MinMovieRatings <= 0 {
		c.MinMovieRatings = 2
	}
	if c.MinUserRatings <= 0 {
		c.MinUserRatings = 2
	}
	if c.KNeighbors <= 0 {
		c.KNeighbors = 30
	}
	return c
}

// Matrix 是一次性构建的用户×电影评分矩阵快照。
//
// 约定：
//   - R[u][m] 为评分（1~5），缺失格为 NaN
//   - UserIDs / MovieIDs 按外部 ID 升序排列，行列与索引映射同时构建、同时失效
//   - 构建后只读；重建通过整体替换完成，不做原地修改
type Matrix struct {
	R          [][]float64
	UserIDs    []int64
	MovieIDs   []int64
	UserIndex  map[int64]int
	MovieIndex map[int64]int
	UserMeans  []float64

	// RatingCount 构建时的评分总数，用于缓存新鲜度判断
	RatingCount int

	cfg Config
}

// BuildMatrix 将评分三元组转为稠密矩阵。
//
// 步骤：按原始数据统计每个用户/电影的评分次数；丢弃低于阈值的行列；
// 过滤后为空则返回 INSUFFICIENT_DATA；索引映射按外部 ID 升序保证确定性；
// 均值只在已知格上计算。
func BuildMatrix(ratings []core.Rating, cfg Config) (*Matrix, error) {
	cfg = cfg.withDefaults()

	userCounts := make(map[int64]int)
	movieCounts := make(map[int64]int)
	for _, r := range ratings {
		userCounts[r.UserID]++
		movieCounts[r.MovieID]++
	}

	// 阈值过滤基于原始计数，先于索引构建，被剔除的实体不会出现在映射中
	kept := make([]core.Rating, 0, len(ratings))
	userSet := make(map[int64]struct{})
	movieSet := make(map[int64]struct{})
	for _, r := range ratings {
		if movieCounts[r.MovieID] < cfg.MinMovieRatings || userCounts[r.UserID] < cfg.MinUserRatings {
			continue
		}
		kept = append(kept, r)
		userSet[r.UserID] = struct{}{}
		movieSet[r.MovieID] = struct{}{}
	}
	if len(kept) == 0 {
		return nil, core.NewDomainError(core.ModuleCF, core.ErrorCodeInsufficientData,
			"cf: filtering removed too much data, matrix cannot be built")
	}

	userIDs := sortedIDs(userSet)
	movieIDs := sortedIDs(movieSet)

	m := &Matrix{
		UserIDs:    userIDs,
		MovieIDs:   movieIDs,
		UserIndex:  make(map[int64]int, len(userIDs)),
		MovieIndex: make(map[int64]int, len(movieIDs)),
		cfg:        cfg,
	}
	for i, uid := range userIDs {
		m.UserIndex[uid] = i
	}
	for j, mid := range movieIDs {
		m.MovieIndex[mid] = j
	}

	m.R = make([][]float64, len(userIDs))
	for u := range m.R {
		row := make([]float64, len(movieIDs))
		for j := range row {
			row[j] = math.NaN()
		}
		m.R[u] = row
	}
	for _, r := range kept {
		m.R[m.UserIndex[r.UserID]][m.MovieIndex[r.MovieID]] = r.Rating
	}

	m.UserMeans = make([]float64, len(userIDs))
	for u, row := range m.R {
		var sum float64
		var n int
		for _, v := range row {
			if !math.IsNaN(v) {
				sum += v
				n++
			}
		}
		// 阈值保证每个保留用户至少有一条评分
		m.UserMeans[u] = sum / float64(n)
	}

	m.RatingCount = len(ratings)
	return m, nil
}

func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
