package core

// ContentVector 是候选内容的可比较特征表示。
// Popularity 与 Recency 均在 [0,1] 内。
type ContentVector struct {
	Tags        map[string]struct{}
	ContentType ContentType
	CategoryID  string
	Popularity  float64
	Recency     float64
}

// NewContentVector 以标签列表创建向量（自动去重）。
func NewContentVector(tags []string, ct ContentType, categoryID string) *ContentVector {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		set[t] = struct{}{}
	}
	return &ContentVector{
		Tags:        set,
		ContentType: ct,
		CategoryID:  categoryID,
	}
}

func (v *ContentVector) HasTag(tag string) bool {
	if v == nil || v.Tags == nil {
		return false
	}
	_, ok := v.Tags[tag]
	return ok
}
