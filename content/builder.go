package content

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/movierec/core"
)

// Builder 从片库构建内容向量索引：
// 每部电影拼一条元数据文本（标题 + 竖线转空格的题材 + 可选标签），
// 批量编码为句向量，逐条 L2 归一化，装入暴力余弦索引，三个产物一并持久化。
type Builder struct {
	Catalog core.MovieCatalog
	Encoder core.Encoder
	Store   core.Store

	// EncodeBatch 单批编码的文本条数，<= 0 时取 64
	EncodeBatch int

	// EncodeConcurrency 并发编码批数，<= 0 时取 4
	EncodeConcurrency int
}

// metadataText 构建单部电影的元数据文本。
func metadataText(m core.Movie) string {
	genres := strings.ReplaceAll(m.Genres, "|", " ")
	parts := []string{m.Title, genres}
	if m.Tag != "" {
		parts = append(parts, m.Tag)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Build 构建产物但不持久化。片库为空时返回 EMPTY_CATALOG。
func (b *Builder) Build(ctx context.Context) (*Artifacts, error) {
	movies, err := b.Catalog.AllMovies(ctx)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, core.NewDomainError(core.ModuleContent, core.ErrorCodeEmptyCatalog,
			"content: no movies in catalog to build the index")
	}

	// 固定按 ID 升序，产物下标在重建之间保持可复现
	sort.Slice(movies, func(i, j int) bool { return movies[i].ID < movies[j].ID })

	meta := Metadata{
		MovieIDs: make([]int64, len(movies)),
		Titles:   make([]string, len(movies)),
		Genres:   make([]string, len(movies)),
	}
	texts := make([]string, len(movies))
	for i, m := range movies {
		meta.MovieIDs[i] = m.ID
		meta.Titles[i] = m.Title
		meta.Genres[i] = m.Genres
		texts[i] = metadataText(m)
	}

	embeddings, err := b.encodeAll(ctx, texts)
	if err != nil {
		return nil, err
	}
	for i := range embeddings {
		embeddings[i] = normalize(embeddings[i])
	}

	index := &NearestNeighbors{}
	index.Fit(embeddings)

	return &Artifacts{Embeddings: embeddings, Index: index, Meta: meta}, nil
}

// BuildAndPersist 构建并持久化三个产物。
func (b *Builder) BuildAndPersist(ctx context.Context) (*Artifacts, error) {
	arts, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	if err := saveArtifacts(ctx, b.Store, arts); err != nil {
		return nil, err
	}
	return arts, nil
}

// encodeAll 分批并发编码，结果按原始顺序写入预分配切片。
func (b *Builder) encodeAll(ctx context.Context, texts []string) ([][]float64, error) {
	batch := b.EncodeBatch
	if batch <= 0 {
		batch = 64
	}
	concurrency := b.EncodeConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	out := make([][]float64, len(texts))
	eg, egCtx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, concurrency)

	for start := 0; start < len(texts); start += batch {
		start := start
		end := start + batch
		if end > len(texts) {
			end = len(texts)
		}
		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			vecs, err := b.Encoder.Encode(egCtx, texts[start:end])
			if err != nil {
				return err
			}
			copy(out[start:end], vecs)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
