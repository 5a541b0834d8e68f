package config

import (
	"fmt"
	"time"

	"github.com/rushteam/movierec/cf"
	"github.com/rushteam/movierec/content"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/feature"
	"github.com/rushteam/movierec/filter"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/conv"
	"github.com/rushteam/movierec/recall"
	"github.com/rushteam/movierec/rerank"
)

// Deps 是配置驱动构建时的运行期依赖。
// 引擎/存储这类带状态的对象无法从 YAML 构造，只能注入。
type Deps struct {
	CFEngine           *cf.Engine
	ContentRecommender *content.Recommender
	Store              core.Store
	FeatureLoader      feature.Loader
}

// RegisterBuilders 注册全部内置 Node 构建器。
// 对应的依赖缺失时，构建该类 Node 会返回错误，而不是注册失败。
func RegisterBuilders(deps Deps) {
	Register("recall.cf", func(cfg map[string]any) (pipeline.Node, error) {
		return deps.buildCF(cfg)
	})
	Register("recall.content", func(cfg map[string]any) (pipeline.Node, error) {
		return deps.buildContent(cfg)
	})
	Register("recall.popular", func(cfg map[string]any) (pipeline.Node, error) {
		return deps.buildPopular(cfg)
	})
	Register("recall.fanout", func(cfg map[string]any) (pipeline.Node, error) {
		return deps.buildFanout(cfg)
	})
	Register("filter", BuildFilterNode)
	Register("rerank.topn", BuildTopNNode)
	Register("rerank.diversity", BuildDiversityNode)
	Register("feature.enrich", func(cfg map[string]any) (pipeline.Node, error) {
		return deps.buildFeatureEnrich(cfg)
	})
}

func (d Deps) buildCF(cfg map[string]any) (pipeline.Node, error) {
	if d.CFEngine == nil {
		return nil, fmt.Errorf("recall.cf requires a cf engine")
	}
	return &recall.CF{
		Engine: d.CFEngine,
		TopK:   conv.ConfigGetInt(cfg, "top_k", 0),
	}, nil
}

func (d Deps) buildContent(cfg map[string]any) (pipeline.Node, error) {
	if d.ContentRecommender == nil {
		return nil, fmt.Errorf("recall.content requires a content recommender")
	}
	return &recall.Content{
		Recommender: d.ContentRecommender,
		TopK:        conv.ConfigGetInt(cfg, "top_k", 0),
	}, nil
}

func (d Deps) buildPopular(cfg map[string]any) (pipeline.Node, error) {
	return &recall.Popular{
		Store: d.Store,
		Key:   conv.ConfigGet(cfg, "key", ""),
		IDs:   conv.SliceAnyToInt64(cfg["ids"]),
		TopN:  conv.ConfigGetInt(cfg, "top_n", 0),
	}, nil
}

func (d Deps) buildFanout(cfg map[string]any) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]any)
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}

	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet(sourceMap, "type", "")
		node, err := d.buildSource(sourceType, sourceMap)
		if err != nil {
			return nil, err
		}
		sources = append(sources, node)
	}

	fanout := &recall.Fanout{
		Sources:       sources,
		Dedup:         conv.ConfigGet(cfg, "dedup", true),
		MergeStrategy: conv.ConfigGet(cfg, "merge_strategy", ""),
	}
	if sec := conv.ConfigGetInt(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = n
	}
	return fanout, nil
}

func (d Deps) buildSource(sourceType string, cfg map[string]any) (recall.Source, error) {
	switch sourceType {
	case "cf":
		node, err := d.buildCF(cfg)
		if err != nil {
			return nil, err
		}
		return node.(recall.Source), nil
	case "content":
		node, err := d.buildContent(cfg)
		if err != nil {
			return nil, err
		}
		return node.(recall.Source), nil
	case "popular":
		node, err := d.buildPopular(cfg)
		if err != nil {
			return nil, err
		}
		return node.(recall.Source), nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", sourceType)
	}
}

func (d Deps) buildFeatureEnrich(cfg map[string]any) (pipeline.Node, error) {
	if d.FeatureLoader == nil {
		return nil, fmt.Errorf("feature.enrich requires a feature loader")
	}
	return &feature.EnrichNode{
		Loader: d.FeatureLoader,
		Prefix: conv.ConfigGet(cfg, "prefix", ""),
	}, nil
}

// BuildFilterNode 从配置构建过滤节点。
//
//	type: filter
//	config:
//	  seen: true
//	  expr: 'item.score >= 0.5'
func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filters := make([]filter.Filter, 0, 2)
	if conv.ConfigGet(cfg, "seen", false) {
		filters = append(filters, &filter.SeenFilter{})
	}
	if expr := conv.ConfigGet(cfg, "expr", ""); expr != "" {
		filters = append(filters, &filter.CELFilter{Expr: expr})
	}
	return &filter.Node{Filters: filters}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}

func BuildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{MaxPerGenre: conv.ConfigGetInt(cfg, "max_per_genre", 0)}, nil
}
