// Package feature 把候选内容转换为可比较的特征向量。
package feature

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rushteam/contentrec/core"
)

// Extractor 是候选内容的特征抽取器。
//
//	tags        原样（去重）
//	contentType 原样
//	categoryID  原样，可为空
//	popularity  min(1, 共享任一标签的其他内容数 / PopularitySaturation)
//	recency     max(0, 1 - days / RecencyHorizonDays)
//
// popularity 需要读取目录，读取失败直接返回错误，不做重试。
type Extractor struct {
	Config core.ScoringConfig
}

// NewExtractor 创建特征抽取器。
func NewExtractor(cfg core.ScoringConfig) *Extractor {
	return &Extractor{Config: cfg}
}

// Build 构建特征向量。
func (e *Extractor) Build(
	ctx context.Context,
	catalog core.CatalogReader,
	item core.CandidateItem,
	now time.Time,
) (*core.ContentVector, error) {
	v := core.NewContentVector(item.Tags, item.ContentType, item.CategoryID)
	v.Recency = e.Recency(item.CreatedAt, now)

	pop, err := e.Popularity(ctx, catalog, v.Tags)
	if err != nil {
		return nil, fmt.Errorf("popularity of item %s: %w", item.ID, err)
	}
	v.Popularity = pop
	return v, nil
}

// Popularity 计算热度。候选自身一定带有自己的标签，因此计数减 1。
// 无标签时不读取目录；有标签但没有目录时返回 INVALID_INPUT。
func (e *Extractor) Popularity(ctx context.Context, catalog core.CatalogReader, tags map[string]struct{}) (float64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	if catalog == nil {
		return 0, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "feature: catalog is nil")
	}
	list := make([]string, 0, len(tags))
	for t := range tags {
		list = append(list, t)
	}
	n, err := catalog.CountItemsSharingAnyTag(ctx, list)
	if err != nil {
		return 0, err
	}
	others := n - 1
	if others <= 0 {
		return 0, nil
	}
	return math.Min(1.0, float64(others)/e.Config.PopularitySaturation), nil
}

// Recency 计算新鲜度，超过 RecencyHorizonDays 的内容为 0。
func (e *Extractor) Recency(createdAt, now time.Time) float64 {
	return math.Max(0.0, 1-core.DaysSince(createdAt, now)/e.Config.RecencyHorizonDays)
}
