package content

import (
	"context"
	"encoding/json"

	"github.com/rushteam/movierec/core"
)

// 三个产物 blob 共存于同一 Store，要么全在且互相一致，要么整体视为缺失。
const (
	keyEmbeddings = "content:embeddings"
	keyIndex      = "content:index"
	keyMetadata   = "content:metadata"
)

// Metadata 是与向量矩阵平行的元数据束：下标 i 在三个数组里指同一部电影。
type Metadata struct {
	MovieIDs []int64  `json:"movie_ids"`
	Titles   []string `json:"titles"`
	Genres   []string `json:"genres"`
}

// Artifacts 是一次片库快照构建出的全部产物。
type Artifacts struct {
	Embeddings [][]float64
	Index      *NearestNeighbors
	Meta       Metadata
}

func missingErr(msg string) error {
	return core.NewDomainError(core.ModuleContent, core.ErrorCodeArtifactsMissing, msg)
}

// saveArtifacts 将三个产物一次性写入存储。
func saveArtifacts(ctx context.Context, s core.Store, arts *Artifacts) error {
	embData, err := json.Marshal(arts.Embeddings)
	if err != nil {
		return err
	}
	idxData, err := json.Marshal(arts.Index)
	if err != nil {
		return err
	}
	metaData, err := json.Marshal(arts.Meta)
	if err != nil {
		return err
	}
	return s.BatchSet(ctx, map[string][]byte{
		keyEmbeddings: embData,
		keyIndex:      idxData,
		keyMetadata:   metaData,
	})
}

// loadArtifacts 从存储加载产物。
// 任一 blob 缺失或数组长度不平行，整组按 ARTIFACTS_MISSING 处理。
func loadArtifacts(ctx context.Context, s core.Store) (*Artifacts, error) {
	blobs, err := s.BatchGet(ctx, []string{keyEmbeddings, keyIndex, keyMetadata})
	if err != nil {
		return nil, err
	}
	embData, ok1 := blobs[keyEmbeddings]
	idxData, ok2 := blobs[keyIndex]
	metaData, ok3 := blobs[keyMetadata]
	if !ok1 || !ok2 || !ok3 {
		return nil, missingErr("content: artifacts not found, run build first")
	}

	arts := &Artifacts{Index: &NearestNeighbors{}}
	if err := json.Unmarshal(embData, &arts.Embeddings); err != nil {
		return nil, missingErr("content: embeddings artifact corrupted")
	}
	if err := json.Unmarshal(idxData, arts.Index); err != nil {
		return nil, missingErr("content: index artifact corrupted")
	}
	if err := json.Unmarshal(metaData, &arts.Meta); err != nil {
		return nil, missingErr("content: metadata artifact corrupted")
	}

	n := len(arts.Embeddings)
	if arts.Index.Len() != n ||
		len(arts.Meta.MovieIDs) != n ||
		len(arts.Meta.Titles) != n ||
		len(arts.Meta.Genres) != n {
		return nil, missingErr("content: artifact arrays are not parallel")
	}
	return arts, nil
}
