package core

import (
	"time"

	"github.com/google/uuid"
)

// ScoredRecommendation 是引擎的输出：候选内容、分数 [0,1] 与推荐理由。
type ScoredRecommendation struct {
	Item   CandidateItem `json:"item"`
	Score  float64       `json:"score"`
	Reason string        `json:"reason"`
}

// Recommendation 是调用方持久化的推荐记录，引擎本身不写入。
type Recommendation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ItemID    string    `json:"item_id"`
	Score     float64   `json:"score"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// ToRecommendations 把打分结果转换为待持久化的记录。
func ToRecommendations(userID string, recs []ScoredRecommendation, now time.Time) []Recommendation {
	out := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		out = append(out, Recommendation{
			ID:        uuid.NewString(),
			UserID:    userID,
			ItemID:    r.Item.ID,
			Score:     r.Score,
			Reason:    r.Reason,
			CreatedAt: now,
		})
	}
	return out
}

// Summary 是一组推荐结果的汇总，按理由分组。
type Summary struct {
	Total        int                 `json:"total"`
	TopScore     float64             `json:"top_score"`
	AverageScore float64             `json:"average_score"`
	ByReason     map[string][]string `json:"grouped_by_reason"`
}

// Summarize 汇总推荐结果。recs 需已按分数降序排列。
func Summarize(recs []ScoredRecommendation) Summary {
	s := Summary{
		Total:    len(recs),
		ByReason: make(map[string][]string),
	}
	if len(recs) == 0 {
		return s
	}
	s.TopScore = recs[0].Score
	var sum float64
	for _, r := range recs {
		sum += r.Score
		s.ByReason[r.Reason] = append(s.ByReason[r.Reason], r.Item.ID)
	}
	s.AverageScore = sum / float64(len(recs))
	return s
}
