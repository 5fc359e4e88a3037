package core

import "time"

// ContentType 是内容类型（固定的小集合）。
type ContentType string

const (
	ContentArticle ContentType = "article"
	ContentVideo   ContentType = "video"
	ContentBook    ContentType = "book"
	ContentPodcast ContentType = "podcast"
	ContentCourse  ContentType = "course"
)

// ContentTypes 返回全部已知内容类型，顺序固定。
func ContentTypes() []ContentType {
	return []ContentType{ContentArticle, ContentVideo, ContentBook, ContentPodcast, ContentCourse}
}

// Valid 判断是否为已知内容类型。
func (t ContentType) Valid() bool {
	for _, ct := range ContentTypes() {
		if ct == t {
			return true
		}
	}
	return false
}

// Status 是用户对内容的处理状态。
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusPostponed  Status = "postponed"
)

// CandidateItem 是目录中的一条内容，由 CatalogReader 提供。
// CategoryID 为空表示没有分类。
type CandidateItem struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	URL         string      `json:"url,omitempty" yaml:"url,omitempty"`
	Tags        []string    `json:"tags" yaml:"tags"`
	ContentType ContentType `json:"content_type" yaml:"content_type"`
	CategoryID  string      `json:"category_id,omitempty" yaml:"category_id,omitempty"`
	Status      Status      `json:"status,omitempty" yaml:"status,omitempty"`
	OwnerID     string      `json:"owner_id,omitempty" yaml:"owner_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at" yaml:"created_at"`
}

// EngagementRecord 是用户与某条内容的一次历史交互快照。
// 引擎只读，不会修改。
type EngagementRecord struct {
	ItemID      string      `json:"item_id"`
	Tags        []string    `json:"tags"`
	ContentType ContentType `json:"content_type"`
	CategoryID  string      `json:"category_id,omitempty"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// EngagementFromItem 以用户自己保存的内容构建交互记录。
func EngagementFromItem(it CandidateItem) EngagementRecord {
	return EngagementRecord{
		ItemID:      it.ID,
		Tags:        DedupTags(it.Tags),
		ContentType: it.ContentType,
		CategoryID:  it.CategoryID,
		Status:      it.Status,
		CreatedAt:   it.CreatedAt,
	}
}

// DedupTags 去重并去掉空标签，保留首次出现的顺序。
func DedupTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// DaysSince 返回 t 到 now 之间经过的整天数（向下取整），未来时间按 0 处理。
func DaysSince(t, now time.Time) float64 {
	d := now.Sub(t)
	if d <= 0 {
		return 0
	}
	return float64(int64(d / (24 * time.Hour)))
}
