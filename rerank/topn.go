// Package rerank 提供排序之后的截断与多样性调整节点。
package rerank

import (
	"context"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个物品。
// 通常在排序（Rank）节点之后使用，用于限制返回结果数量。
//
// 示例：
//
//	p := pipeline.New(
//	    &rank.SimilarityNode{...}, // 排序
//	    &rerank.TopNNode{},        // 截取 rctx.Limit 个
//	)
type TopNNode struct {
	// N 要保留的物品数量（Top N）
	// 如果 N <= 0，使用 rctx.Limit；rctx.Limit 也 <= 0 时返回空结果
	// 如果 N > len(items)，则返回所有物品
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.Limit
	}
	if limit <= 0 {
		return []*core.Item{}, nil
	}

	if len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
