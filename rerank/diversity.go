package rerank

import (
	"context"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/pipeline"
)

// Diversity 限制同一分类的结果数：每个分类最多保留 MaxPerCategory 个，保持原有顺序。
// 无分类的内容不受限制。应放在 TopN 之前，否则截断后的结果可能不足 limit。
type Diversity struct {
	// MaxPerCategory 默认 1
	MaxPerCategory int
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	limit := n.MaxPerCategory
	if limit <= 0 {
		limit = 1
	}

	seen := make(map[string]int, 32)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		cate := ""
		if it.Candidate != nil {
			cate = it.Candidate.CategoryID
		}
		if cate == "" {
			out = append(out, it)
			continue
		}
		if seen[cate] >= limit {
			continue
		}
		seen[cate]++
		out = append(out, it)
	}
	return out, nil
}
