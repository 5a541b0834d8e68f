package store

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/rushteam/movierec/core"
)

func marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// CatalogAdapter 是基于 core.KeyValueStore 的片库适配器，实现 core.MovieCatalog。
//
// 布局：Hash {KeyPrefix}，field 为电影 ID，value 为 JSON 编码的电影元数据。
// 全量读取走 HGetAll，按 ID 集合读取走逐条 HGet。
type CatalogAdapter struct {
	store core.KeyValueStore

	KeyPrefix string
}

// NewCatalogAdapter 创建片库适配器。
func NewCatalogAdapter(s core.KeyValueStore, keyPrefix string) *CatalogAdapter {
	if keyPrefix == "" {
		keyPrefix = "movies"
	}
	return &CatalogAdapter{store: s, KeyPrefix: keyPrefix}
}

func (a *CatalogAdapter) Name() string { return "catalog_adapter" }

// AllMovies 实现 core.MovieCatalog。返回顺序不保证，需要确定性的调用方自行排序。
func (a *CatalogAdapter) AllMovies(ctx context.Context) ([]core.Movie, error) {
	fields, err := a.store.HGetAll(ctx, a.KeyPrefix)
	if err != nil {
		return nil, err
	}
	movies := make([]core.Movie, 0, len(fields))
	for _, data := range fields {
		var m core.Movie
		if err := unmarshal(data, &m); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, nil
}

// MoviesByIDs 实现 core.MovieCatalog。不存在的 ID 跳过，不报错。
func (a *CatalogAdapter) MoviesByIDs(ctx context.Context, ids []int64) ([]core.Movie, error) {
	movies := make([]core.Movie, 0, len(ids))
	for _, id := range ids {
		data, err := a.store.HGet(ctx, a.KeyPrefix, strconv.FormatInt(id, 10))
		if err != nil {
			if core.IsStoreNotFound(err) {
				continue
			}
			return nil, err
		}
		var m core.Movie
		if err := unmarshal(data, &m); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, nil
}

// AddMovies 写入电影元数据（批量导入场景用）。
func (a *CatalogAdapter) AddMovies(ctx context.Context, movies ...core.Movie) error {
	for _, m := range movies {
		data, err := marshal(m)
		if err != nil {
			return err
		}
		if err := a.store.HSet(ctx, a.KeyPrefix, strconv.FormatInt(m.ID, 10), data); err != nil {
			return err
		}
	}
	return nil
}

var _ core.MovieCatalog = (*CatalogAdapter)(nil)
