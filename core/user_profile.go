package core

// UserProfile 是一次打分调用内的用户兴趣画像。
//
// 三个分布均已归一化：非空时各自权重之和为 1，无历史时为空 map。
// 画像每次调用重新构建，用完即弃，不做持久化。
//
//	分布              来源
//	TagWeights        历史内容的标签
//	TypeWeights       历史内容的类型
//	CategoryWeights   历史内容的分类（无分类的记录不计入）
type UserProfile struct {
	TagWeights      map[string]float64      `json:"tag_weights"`
	TypeWeights     map[ContentType]float64 `json:"type_weights"`
	CategoryWeights map[string]float64      `json:"category_weights"`

	// TotalItems 是参与构建的交互记录数
	TotalItems int `json:"total_items"`
}

// NewUserProfile 创建一个空画像。
func NewUserProfile() *UserProfile {
	return &UserProfile{
		TagWeights:      make(map[string]float64),
		TypeWeights:     make(map[ContentType]float64),
		CategoryWeights: make(map[string]float64),
	}
}

// IsEmpty 判断画像是否没有任何兴趣信号。
func (p *UserProfile) IsEmpty() bool {
	return p == nil || (len(p.TagWeights) == 0 && len(p.TypeWeights) == 0 && len(p.CategoryWeights) == 0)
}

func (p *UserProfile) TagWeight(tag string) float64 {
	if p == nil || p.TagWeights == nil {
		return 0
	}
	return p.TagWeights[tag]
}

func (p *UserProfile) TypeWeight(ct ContentType) float64 {
	if p == nil || p.TypeWeights == nil {
		return 0
	}
	return p.TypeWeights[ct]
}

// CategoryWeight 获取分类权重，空分类恒为 0。
func (p *UserProfile) CategoryWeight(categoryID string) float64 {
	if p == nil || p.CategoryWeights == nil || categoryID == "" {
		return 0
	}
	return p.CategoryWeights[categoryID]
}
