// Package profile 把用户的历史交互构建为归一化的兴趣画像。
package profile

import (
	"math"
	"time"

	"github.com/rushteam/contentrec/core"
)

// Builder 根据历史交互构建 UserProfile。
//
// 每条记录的权重 = 时间衰减 × 状态权重：
//
//	timeWeight   = exp(-days / DecayDays)
//	statusWeight = StatusWeights[status]（未知状态取 DefaultStatusWeight）
//
// 权重累加到记录的每个标签、内容类型以及分类（若有），最后各分布按自身总量归一化。
type Builder struct {
	Config core.ScoringConfig
}

// NewBuilder 创建画像构建器。
func NewBuilder(cfg core.ScoringConfig) *Builder {
	return &Builder{Config: cfg}
}

// Build 使用默认策略构建画像。
func Build(history []core.EngagementRecord, now time.Time) *core.UserProfile {
	return NewBuilder(core.DefaultScoringConfig()).Build(history, now)
}

// Build 构建画像，不会失败；空历史返回空分布、TotalItems = 0。
func (b *Builder) Build(history []core.EngagementRecord, now time.Time) *core.UserProfile {
	p := core.NewUserProfile()
	p.TotalItems = len(history)
	if len(history) == 0 {
		return p
	}

	// 累加时只遍历切片，保证浮点求和顺序固定
	tagOrder := make([]string, 0)
	typeOrder := make([]core.ContentType, 0)
	catOrder := make([]string, 0)

	for _, rec := range history {
		w := b.TimeWeight(rec.CreatedAt, now) * b.Config.StatusWeight(rec.Status)

		for _, tag := range core.DedupTags(rec.Tags) {
			if _, ok := p.TagWeights[tag]; !ok {
				tagOrder = append(tagOrder, tag)
			}
			p.TagWeights[tag] += w
		}

		if _, ok := p.TypeWeights[rec.ContentType]; !ok {
			typeOrder = append(typeOrder, rec.ContentType)
		}
		p.TypeWeights[rec.ContentType] += w

		if rec.CategoryID != "" {
			if _, ok := p.CategoryWeights[rec.CategoryID]; !ok {
				catOrder = append(catOrder, rec.CategoryID)
			}
			p.CategoryWeights[rec.CategoryID] += w
		}
	}

	normalize(p.TagWeights, tagOrder)
	normalize(p.TypeWeights, typeOrder)
	normalize(p.CategoryWeights, catOrder)
	return p
}

// TimeWeight 返回时间衰减权重，未来时间按 0 天处理。
func (b *Builder) TimeWeight(createdAt, now time.Time) float64 {
	return math.Exp(-core.DaysSince(createdAt, now) / b.Config.DecayDays)
}

// normalize 按总量归一化；总量为 0 时除数取 1。
func normalize[K comparable](m map[K]float64, order []K) {
	var total float64
	for _, k := range order {
		total += m[k]
	}
	if total == 0 {
		total = 1
	}
	for _, k := range order {
		m[k] /= total
	}
}
