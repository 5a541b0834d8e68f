// Package model 提供 core.Encoder 的本地实现。
package model

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/rushteam/movierec/core"
)

// HashingEncoder 是基于特征哈希的本地句向量编码器。
//
// 核心思想：分词后把每个 token 哈希到固定维度的桶上，第二个哈希位决定符号。
// 同一文本永远得到同一向量，token 重叠的文本向量相近——对"标题 + 题材"
// 这类短元数据文本，足以支撑测试/开发/小规模场景的语义相似检索。
// 生产环境可换接外部 SBERT 推理服务，实现同一 core.Encoder 接口。
type HashingEncoder struct {
	// Dim 向量维度，<= 0 时取 256
	Dim int
}

// NewHashingEncoder 创建特征哈希编码器。
func NewHashingEncoder(dim int) *HashingEncoder {
	if dim <= 0 {
		dim = 256
	}
	return &HashingEncoder{Dim: dim}
}

func (e *HashingEncoder) Dimension() int {
	if e.Dim <= 0 {
		return 256
	}
	return e.Dim
}

// Encode 实现 core.Encoder 接口。
func (e *HashingEncoder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dim := e.Dimension()
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, dim)
		for _, tok := range tokenize(text) {
			bucket, sign := hashToken(tok, dim)
			vec[bucket] += sign
		}
		out[i] = vec
	}
	return out, nil
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// hashToken 返回 token 的桶下标与符号（±1）。
func hashToken(tok string, dim int) (int, float64) {
	h := fnv.New64a()
	h.Write([]byte(tok))
	sum := h.Sum64()

	bucket := int(sum % uint64(dim))
	sign := 1.0
	if (sum>>63)&1 == 1 {
		sign = -1.0
	}
	return bucket, sign
}

var _ core.Encoder = (*HashingEncoder)(nil)
