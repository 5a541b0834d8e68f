package feature

import (
	"context"
	"fmt"
	"time"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	"github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/movierec/core"
)

// FeastLoader 通过官方 Feast Go SDK 从 Feature Server 在线获取电影特征。
//
// 实体键固定为 movie_id（int64），特征名由 Features 指定，例如
// ["movie_stats:avg_rating", "movie_stats:rating_count"]。
//
// 工程特征：
//   - 实时性：优秀（gRPC 低延迟、连接复用）
//   - 功能：只做在线特征获取，训练侧特征不在此层
type FeastLoader struct {
	client *feastsdk.GrpcClient

	// Project Feast 项目名称
	Project string

	// Features 要获取的特征全名列表
	Features []string

	// Timeout 单次请求超时，<= 0 时取 30s
	Timeout time.Duration
}

// NewFeastLoader 创建 Feast 在线特征加载器。
// port 为 0 时使用默认 gRPC 端口 6565。
func NewFeastLoader(host string, port int, project string, features []string) (*FeastLoader, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("连接 Feast Feature Server 失败: %w", err)
	}
	return &FeastLoader{
		client:   client,
		Project:  project,
		Features: features,
	}, nil
}

func (l *FeastLoader) Name() string { return "feature.feast" }

func (l *FeastLoader) Load(ctx context.Context, movieIDs []int64) (map[int64]map[string]any, error) {
	if len(movieIDs) == 0 || len(l.Features) == 0 {
		return map[int64]map[string]any{}, nil
	}

	timeout := l.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entityRows := make([]feastsdk.Row, len(movieIDs))
	for i, id := range movieIDs {
		entityRows[i] = feastsdk.Row{"movie_id": feastsdk.Int64Val(id)}
	}

	resp, err := l.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: l.Features,
		Entities: entityRows,
		Project:  l.Project,
	})
	if err != nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInternalError,
			fmt.Sprintf("feast get online features failed: %v", err))
	}

	rows := resp.Rows()
	if len(rows) != len(movieIDs) {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInternalError,
			fmt.Sprintf("feast response row count mismatch: expected %d, got %d", len(movieIDs), len(rows)))
	}

	out := make(map[int64]map[string]any, len(movieIDs))
	for i, row := range rows {
		values := make(map[string]any, len(l.Features))
		for _, name := range l.Features {
			if v, ok := row[name]; ok {
				if cv := convertFeastValue(v); cv != nil {
					values[name] = cv
				}
			}
		}
		if len(values) > 0 {
			out[movieIDs[i]] = values
		}
	}
	return out, nil
}

// convertFeastValue 把 Feast 的 protobuf Value 转成通用的 Go 值。
// 整数统一转 float64，方便下游直接参与计算。
func convertFeastValue(v *types.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Val.(type) {
	case *types.Value_StringVal:
		return val.StringVal
	case *types.Value_Int32Val:
		return float64(val.Int32Val)
	case *types.Value_Int64Val:
		return float64(val.Int64Val)
	case *types.Value_FloatVal:
		return float64(val.FloatVal)
	case *types.Value_DoubleVal:
		return val.DoubleVal
	case *types.Value_BoolVal:
		if val.BoolVal {
			return float64(1)
		}
		return float64(0)
	case *types.Value_BytesVal:
		return string(val.BytesVal)
	default:
		return nil
	}
}

var _ Loader = (*FeastLoader)(nil)
