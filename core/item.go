package core

// Item 是推荐链路中的统一承载结构：候选内容、特征向量、分数、理由与标签。
// Score 用于排序决策；Reason 是面向用户的解释；Labels 用于观测与策略驱动。
type Item struct {
	ID        string
	Candidate *CandidateItem
	Vector    *ContentVector
	Score     float64
	Reason    string
	Labels    map[string]Label
}

// NewItem 用候选内容创建 Item。
func NewItem(c CandidateItem) *Item {
	cand := c
	return &Item{
		ID:        c.ID,
		Candidate: &cand,
		Labels:    make(map[string]Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl Label) {
	it.Labels = putLabel(it.Labels, key, lbl)
}

// ToScored 转换为输出结构；缺少候选内容时返回 false。
func (it *Item) ToScored() (ScoredRecommendation, bool) {
	if it == nil || it.Candidate == nil {
		return ScoredRecommendation{}, false
	}
	return ScoredRecommendation{
		Item:   *it.Candidate,
		Score:  it.Score,
		Reason: it.Reason,
	}, true
}
