package rank

import (
	"sort"

	"github.com/rushteam/contentrec/core"
)

// Rank 为带向量的候选打分并生成理由，丢弃分数不超过下限的候选，
// 按分数降序稳定排序（同分保持输入顺序）。没有向量的候选被丢弃。
func (r *Ranker) Rank(p *core.UserProfile, items []*core.Item) []*core.Item {
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.Vector == nil {
			continue
		}
		it.Score = r.Score(p, it.Vector)
		if it.Score <= r.Config.Threshold {
			continue
		}
		it.Reason = r.Explain(p, it.Vector)
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Recommend 排序并截断到 limit；limit <= 0 返回空结果，结果不足 limit 时不补齐。
func (r *Ranker) Recommend(p *core.UserProfile, items []*core.Item, limit int) []core.ScoredRecommendation {
	if limit <= 0 {
		return []core.ScoredRecommendation{}
	}
	ranked := r.Rank(p, items)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]core.ScoredRecommendation, 0, len(ranked))
	for _, it := range ranked {
		if rec, ok := it.ToScored(); ok {
			out = append(out, rec)
		}
	}
	return out
}
