package rerank

import (
	"context"
	"strings"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
)

// Diversity 是一个简单的题材多样性重排：限制每个主题材的连续霸榜。
// 主题材取 meta["genres"]（"Action|Comedy" 取第一段）；每个主题材最多保留
// MaxPerGenre 个候选，没有题材信息的候选不受限制。
type Diversity struct {
	// MaxPerGenre 每个主题材最多保留的候选数，<= 0 时取 3
	MaxPerGenre int
}

func (n *Diversity) Name() string        { return "rerank.diversity" }
func (n *Diversity) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	maxPer := n.MaxPerGenre
	if maxPer <= 0 {
		maxPer = 3
	}

	counts := make(map[string]int, 16)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		genre := primaryGenre(it)
		if genre == "" {
			out = append(out, it)
			continue
		}
		if counts[genre] >= maxPer {
			continue
		}
		counts[genre]++
		out = append(out, it)
	}
	return out, nil
}

func primaryGenre(it *core.Item) string {
	if it.Meta == nil {
		return ""
	}
	v, ok := it.Meta["genres"]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return ""
	}
	if i := strings.IndexByte(s, '|'); i >= 0 {
		return s[:i]
	}
	return s
}

var _ pipeline.Node = (*Diversity)(nil)
