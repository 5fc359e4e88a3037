package filter

import (
	"context"

	"github.com/rushteam/contentrec/core"
)

// ExcludeHistoryFilter 过滤掉用户历史中的内容。
// 目录召回已经按历史排除，这里再检查一次，保证历史内容不会出现在结果中。
type ExcludeHistoryFilter struct{}

func (f *ExcludeHistoryFilter) Name() string {
	return "filter.exclude_history"
}

func (f *ExcludeHistoryFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	return rctx.InHistory(item.ID), nil
}
