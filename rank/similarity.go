// Package rank 实现画像与特征向量的相似度打分、排序与推荐理由生成。
package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/rushteam/contentrec/core"
)

// Ranker 是相似度打分与排序器，无状态，可并发使用。
//
// 打分公式（线性加权，结果截断到 [0,1]）：
//
//	tagScore      = Σ profile.tags[t]，t ∈ 画像标签 ∩ 候选标签
//	typeScore     = profile.types[候选类型]
//	categoryScore = profile.categories[候选分类]，无分类为 0
//	score = min(1, wTag*tagScore + wType*typeScore + wCat*categoryScore
//	               + wPop*popularity + wRec*recency)
type Ranker struct {
	Config core.ScoringConfig
}

// NewRanker 创建排序器。
func NewRanker(cfg core.ScoringConfig) *Ranker {
	return &Ranker{Config: cfg}
}

// Score 计算画像与向量的相似度，范围 [0,1]。
func (r *Ranker) Score(p *core.UserProfile, v *core.ContentVector) float64 {
	if v == nil {
		return 0
	}
	w := r.Config.Weights

	var tagScore float64
	for _, t := range sortedTags(v.Tags) {
		tagScore += p.TagWeight(t)
	}
	typeScore := p.TypeWeight(v.ContentType)
	categoryScore := p.CategoryWeight(v.CategoryID)

	score := w.Tag*tagScore +
		w.Type*typeScore +
		w.Category*categoryScore +
		w.Popularity*v.Popularity +
		w.Recency*v.Recency
	return math.Max(0, math.Min(1.0, score))
}

// SharedTags 返回画像与向量共有的标签，按画像权重降序，同权重按名称升序。
func SharedTags(p *core.UserProfile, v *core.ContentVector) []string {
	if p == nil || v == nil {
		return nil
	}
	shared := make([]string, 0)
	for t := range v.Tags {
		if _, ok := p.TagWeights[t]; ok {
			shared = append(shared, t)
		}
	}
	sort.Slice(shared, func(i, j int) bool {
		wi, wj := p.TagWeights[shared[i]], p.TagWeights[shared[j]]
		if wi != wj {
			return wi > wj
		}
		return strings.Compare(shared[i], shared[j]) < 0
	})
	return shared
}

// sortedTags 固定求和顺序，保证同样输入得到同样的浮点结果。
func sortedTags(tags map[string]struct{}) []string {
	out := make([]string, 0, len(tags))
	for t := range tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
