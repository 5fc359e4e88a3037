package core

import "context"

// CatalogReader 是内容目录的只读能力，由调用方注入，不是全局单例。
//
// 引擎把它当作同步阻塞调用，不做重试；超时与重试由实现方负责。
type CatalogReader interface {
	// FindCandidates 返回不在 exclude 中的候选内容，最多 limit 条，顺序稳定
	FindCandidates(ctx context.Context, exclude map[string]struct{}, limit int) ([]CandidateItem, error)

	// CountItemsSharingAnyTag 返回至少带有其中一个标签的内容数（去重计数）
	CountItemsSharingAnyTag(ctx context.Context, tags []string) (int, error)
}

// HistoryReader 提供用户的历史交互记录。
type HistoryReader interface {
	GetEngagementRecords(ctx context.Context, userID string) ([]EngagementRecord, error)
}

// RecommendationSink 由调用方使用，把推荐结果写入持久化存储。
type RecommendationSink interface {
	SaveRecommendations(ctx context.Context, recs []Recommendation) error
}

// HistoryIDs 返回历史记录中的内容 ID 集合。
func HistoryIDs(history []EngagementRecord) map[string]struct{} {
	ids := make(map[string]struct{}, len(history))
	for _, rec := range history {
		if rec.ItemID == "" {
			continue
		}
		ids[rec.ItemID] = struct{}{}
	}
	return ids
}
