package recall

import (
	"context"
	"fmt"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/pipeline"
)

// DefaultPool 是未配置时每次从目录读取的候选上限。
const DefaultPool = 100

// CatalogRecall 从 rctx.Catalog 召回不在用户历史中的候选。
// 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type CatalogRecall struct {
	// Pool 是候选池大小，<= 0 时使用 DefaultPool
	Pool int
}

func (r *CatalogRecall) Name() string        { return "recall.catalog" }
func (r *CatalogRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *CatalogRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。目录错误原样向上返回。
func (r *CatalogRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil || rctx.Catalog == nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "recall.catalog: catalog is nil")
	}
	pool := r.Pool
	if pool <= 0 {
		pool = DefaultPool
	}

	candidates, err := rctx.Catalog.FindCandidates(ctx, rctx.History, pool)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	out := make([]*core.Item, 0, len(candidates))
	for _, c := range candidates {
		it := core.NewItem(c)
		it.PutLabel("recall_source", core.Label{Value: r.Name(), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*CatalogRecall)(nil)
