package filter

import (
	"context"
	"fmt"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/pipeline"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该物品就会被过滤掉。
// 过滤器出错时整个 Node 失败。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		drop := false
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				return nil, fmt.Errorf("%s on item %s: %w", f.Name(), item.ID, err)
			}
			if ok {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, item)
		}
	}
	return out, nil
}
