package core

import (
	"fmt"
	"math"
)

// Weights 是打分公式中各项的权重，合计必须为 1。
type Weights struct {
	Tag        float64 `koanf:"tag" json:"tag" yaml:"tag" validate:"gte=0,lte=1"`
	Type       float64 `koanf:"type" json:"type" yaml:"type" validate:"gte=0,lte=1"`
	Category   float64 `koanf:"category" json:"category" yaml:"category" validate:"gte=0,lte=1"`
	Popularity float64 `koanf:"popularity" json:"popularity" yaml:"popularity" validate:"gte=0,lte=1"`
	Recency    float64 `koanf:"recency" json:"recency" yaml:"recency" validate:"gte=0,lte=1"`
}

// Sum 返回权重之和。
func (w Weights) Sum() float64 {
	return w.Tag + w.Type + w.Category + w.Popularity + w.Recency
}

// ScoringConfig 是画像、特征与打分的策略常量。
//
// 默认值是经验取值而非数据推导，可以调参，但文档中的示例场景依赖这些默认值。
type ScoringConfig struct {
	Weights Weights `koanf:"weights" json:"weights" yaml:"weights"`

	// Threshold 是相关性下限，分数必须严格大于它才会被推荐
	Threshold float64 `koanf:"threshold" json:"threshold" yaml:"threshold" validate:"gte=0,lt=1"`

	// 理由生成的门槛
	ReasonTypeMin     float64 `koanf:"reason_type_min" json:"reason_type_min" yaml:"reason_type_min" validate:"gte=0,lte=1"`
	ReasonCategoryMin float64 `koanf:"reason_category_min" json:"reason_category_min" yaml:"reason_category_min" validate:"gte=0,lte=1"`
	FreshRecency      float64 `koanf:"fresh_recency" json:"fresh_recency" yaml:"fresh_recency" validate:"gte=0,lte=1"`
	MaxReasonTags     int     `koanf:"max_reason_tags" json:"max_reason_tags" yaml:"max_reason_tags" validate:"gte=1"`
	MaxReasonClauses  int     `koanf:"max_reason_clauses" json:"max_reason_clauses" yaml:"max_reason_clauses" validate:"gte=1"`

	// DecayDays 是画像时间衰减常数：weight = exp(-days / DecayDays)
	DecayDays float64 `koanf:"decay_days" json:"decay_days" yaml:"decay_days" validate:"gt=0"`

	// RecencyHorizonDays 之后的内容新鲜度为 0
	RecencyHorizonDays float64 `koanf:"recency_horizon_days" json:"recency_horizon_days" yaml:"recency_horizon_days" validate:"gt=0"`

	// PopularitySaturation 个共享标签的内容即视为热度饱和
	PopularitySaturation float64 `koanf:"popularity_saturation" json:"popularity_saturation" yaml:"popularity_saturation" validate:"gt=0"`

	StatusWeights       map[Status]float64 `koanf:"status_weights" json:"status_weights" yaml:"status_weights"`
	DefaultStatusWeight float64            `koanf:"default_status_weight" json:"default_status_weight" yaml:"default_status_weight" validate:"gte=0"`

	// CandidatePool 是每次调用从目录读取的候选上限
	CandidatePool int `koanf:"candidate_pool" json:"candidate_pool" yaml:"candidate_pool" validate:"gte=1"`

	// DefaultLimit 是未指定 limit 时的默认结果数
	DefaultLimit int `koanf:"default_limit" json:"default_limit" yaml:"default_limit" validate:"gte=1"`
}

// DefaultScoringConfig 返回默认策略。
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights: Weights{
			Tag:        0.40,
			Type:       0.30,
			Category:   0.20,
			Popularity: 0.05,
			Recency:    0.05,
		},
		Threshold:            0.1,
		ReasonTypeMin:        0.1,
		ReasonCategoryMin:    0.1,
		FreshRecency:         0.8,
		MaxReasonTags:        2,
		MaxReasonClauses:     2,
		DecayDays:            30,
		RecencyHorizonDays:   90,
		PopularitySaturation: 10,
		StatusWeights: map[Status]float64{
			StatusCompleted:  1.0,
			StatusInProgress: 0.8,
			StatusNew:        0.6,
			StatusPostponed:  0.3,
		},
		DefaultStatusWeight: 0.5,
		CandidatePool:       100,
		DefaultLimit:        10,
	}
}

// StatusWeight 返回状态权重，未知状态使用默认值。
func (c *ScoringConfig) StatusWeight(s Status) float64 {
	if w, ok := c.StatusWeights[s]; ok {
		return w
	}
	return c.DefaultStatusWeight
}

// Validate 检查权重合计为 1，以及热度+新鲜度不会单独越过相关性下限。
func (c *ScoringConfig) Validate() error {
	if sum := c.Weights.Sum(); math.Abs(sum-1) > 1e-9 {
		return NewDomainError(ModuleConfig, ErrorCodeInvalidInput,
			fmt.Sprintf("config: scoring weights must sum to 1, got %.4f", sum))
	}
	// 无历史用户只有热度与新鲜度两项得分，必须被下限过滤
	if c.Weights.Popularity+c.Weights.Recency > c.Threshold+1e-12 {
		return NewDomainError(ModuleConfig, ErrorCodeInvalidInput,
			fmt.Sprintf("config: popularity+recency weight %.4f exceeds threshold %.4f",
				c.Weights.Popularity+c.Weights.Recency, c.Threshold))
	}
	return nil
}
