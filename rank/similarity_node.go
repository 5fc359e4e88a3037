package rank

import (
	"context"
	"strconv"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/metrics"
	"github.com/rushteam/contentrec/pipeline"
)

// SimilarityNode 用 rctx.Profile 对候选打分、过滤相关性下限并排序。
// 截断交给 rerank.TopNNode。
type SimilarityNode struct {
	Ranker *Ranker
}

func (n *SimilarityNode) Name() string {
	return "rank.similarity"
}

func (n *SimilarityNode) Kind() pipeline.Kind {
	return pipeline.KindRank
}

func (n *SimilarityNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	r := n.Ranker
	if r == nil {
		r = NewRanker(core.DefaultScoringConfig())
	}
	var p *core.UserProfile
	if rctx != nil {
		p = rctx.Profile
	}

	out := r.Rank(p, items)
	metrics.CandidatesScored.Add(float64(len(items)))
	metrics.CandidatesBelowThreshold.Add(float64(len(items) - len(out)))
	for _, it := range out {
		it.PutLabel("rank_score", core.Label{Value: strconv.FormatFloat(it.Score, 'f', 4, 64), Source: "rank"})
	}
	return out, nil
}
