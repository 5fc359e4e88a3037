package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/contentrec/core"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链。
//
// 任一 Node 出错即整体失败，不返回部分结果。
// 日志取自 ctx（zerolog.Ctx），未设置时不输出。
type Pipeline struct {
	Nodes []Node
}

// New 创建 Pipeline。
func New(nodes ...Node) *Pipeline {
	return &Pipeline{Nodes: nodes}
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	logger := zerolog.Ctx(ctx)
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		logger.Debug().
			Str("node", node.Name()).
			Str("kind", string(node.Kind())).
			Int("in", len(cur)).
			Int("out", len(next)).
			Msg("node processed")
		cur = next
	}
	return cur, nil
}
