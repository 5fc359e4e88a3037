package core

import "time"

// RecommendContext 承载一次推荐调用的用户/时间/协作方信息，贯穿整个 Pipeline 透传。
//
// 所有字段只在本次调用内有效，调用结束即丢弃。
type RecommendContext struct {
	UserID string

	// Profile 是本次调用构建的兴趣画像
	Profile *UserProfile

	// History 是用户历史内容 ID 集合，召回与过滤都会排除它
	History map[string]struct{}

	// Now 是本次调用的参考时间，保证同一次调用内的时间衰减一致
	Now time.Time

	// Limit 是本次请求的结果数上限
	Limit int

	// Catalog 是本次调用使用的目录能力（显式注入）
	Catalog CatalogReader

	// Params 请求级参数，例如 rule 过滤表达式中可引用的变量
	Params map[string]any

	// Labels 是用户级标签，例如 cold_start
	Labels map[string]Label
}

// InHistory 判断内容是否在用户历史中。
func (rctx *RecommendContext) InHistory(itemID string) bool {
	if rctx == nil || rctx.History == nil {
		return false
	}
	_, ok := rctx.History[itemID]
	return ok
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl Label) {
	rctx.Labels = putLabel(rctx.Labels, key, lbl)
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (Label, bool) {
	if rctx.Labels == nil {
		return Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
