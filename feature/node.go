package feature

import (
	"context"
	"fmt"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/pipeline"
)

// VectorNode 为每个候选构建特征向量，目录取自 rctx.Catalog。
// 任一候选失败则整个节点失败。同一次调用内相同标签集合的热度只查询一次。
type VectorNode struct {
	Extractor *Extractor
}

func (n *VectorNode) Name() string {
	return "feature.vector"
}

func (n *VectorNode) Kind() pipeline.Kind {
	return pipeline.KindFeature
}

func (n *VectorNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	if rctx == nil {
		return nil, fmt.Errorf("feature.vector: nil recommend context")
	}
	ext := n.Extractor
	if ext == nil {
		ext = NewExtractor(core.DefaultScoringConfig())
	}

	var catalog core.CatalogReader
	if rctx.Catalog != nil {
		catalog = newCallCache(rctx.Catalog)
	}

	for _, it := range items {
		if it == nil || it.Candidate == nil {
			continue
		}
		v, err := ext.Build(ctx, catalog, *it.Candidate, rctx.Now)
		if err != nil {
			return nil, err
		}
		it.Vector = v
	}
	return items, nil
}
