package core

import "context"

// Encoder 是句向量编码的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由 model 包实现
//   - 内容推荐只依赖"文本 → 定长向量"这一能力，不关心模型来源
//
// 实现：
//   - model.HashingEncoder：本地确定性编码（特征哈希），用于测试/开发/小规模场景
//   - 生产环境可接入外部推理服务（SBERT 等），实现同一接口即可
type Encoder interface {
	// Encode 批量编码文本为向量，返回与输入等长的向量列表
	Encode(ctx context.Context, texts []string) ([][]float64, error)

	// Dimension 返回向量维度
	Dimension() int
}
