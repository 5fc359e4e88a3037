package sqlite

import (
	"context"
	"time"

	"github.com/rushteam/contentrec/core"
)

// SampleCategories 是示例目录的分类。
var SampleCategories = []Category{
	{ID: "programming", Name: "Programming"},
	{ID: "science", Name: "Science"},
	{ID: "business", Name: "Business"},
	{ID: "design", Name: "Design"},
	{ID: "psychology", Name: "Psychology"},
}

type sampleItem struct {
	id       string
	owner    string
	title    string
	ct       core.ContentType
	category string
	status   core.Status
	tags     []string
	ageDays  int
}

var sampleItems = []sampleItem{
	{"item-01", "alice", "Learning Django effectively", core.ContentArticle, "programming", core.StatusCompleted, []string{"django", "python", "web-development"}, 3},
	{"item-02", "alice", "Python packaging in practice", core.ContentArticle, "programming", core.StatusInProgress, []string{"python", "packaging"}, 12},
	{"item-03", "alice", "Designing REST APIs", core.ContentBook, "programming", core.StatusNew, []string{"api", "web-development"}, 40},
	{"item-04", "bob", "Introduction to machine learning", core.ContentVideo, "science", core.StatusCompleted, []string{"ai", "machine-learning", "data-science"}, 5},
	{"item-05", "bob", "Statistics for data science", core.ContentCourse, "science", core.StatusInProgress, []string{"statistics", "data-science"}, 20},
	{"item-06", "bob", "Habits of focused teams", core.ContentPodcast, "psychology", core.StatusPostponed, []string{"productivity", "teams"}, 70},
	{"item-07", "carol", "Async views in Django", core.ContentArticle, "programming", core.StatusNew, []string{"django", "python", "async"}, 2},
	{"item-08", "carol", "Type hints for large Python codebases", core.ContentArticle, "programming", core.StatusNew, []string{"python", "typing"}, 8},
	{"item-09", "carol", "Neural networks from scratch", core.ContentVideo, "science", core.StatusNew, []string{"ai", "machine-learning", "python"}, 15},
	{"item-10", "carol", "Pricing strategy for SaaS", core.ContentBook, "business", core.StatusNew, []string{"saas", "pricing"}, 30},
	{"item-11", "carol", "Design systems at scale", core.ContentCourse, "design", core.StatusNew, []string{"design-systems", "ui"}, 45},
	{"item-12", "carol", "Cognitive biases in product decisions", core.ContentPodcast, "psychology", core.StatusNew, []string{"psychology", "product"}, 60},
	{"item-13", "carol", "Deploying web apps with containers", core.ContentVideo, "", core.StatusNew, []string{"web-development", "docker"}, 1},
	{"item-14", "carol", "Reading research papers quickly", core.ContentArticle, "science", core.StatusNew, []string{"research", "data-science"}, 100},
}

// SampleItems 返回示例内容，创建时间相对 now 计算。OwnerID 即保存该内容的用户。
func SampleItems(now time.Time) []core.CandidateItem {
	out := make([]core.CandidateItem, 0, len(sampleItems))
	for _, it := range sampleItems {
		out = append(out, core.CandidateItem{
			ID:          it.id,
			OwnerID:     it.owner,
			Title:       it.title,
			URL:         "https://example.com/" + it.id,
			Tags:        it.tags,
			ContentType: it.ct,
			CategoryID:  it.category,
			Status:      it.status,
			CreatedAt:   now.Add(-time.Duration(it.ageDays) * 24 * time.Hour),
		})
	}
	return out
}

// Seed 写入示例目录：三位用户、五个分类与带标签的内容。可重复执行。
func (s *Store) Seed(ctx context.Context, now time.Time) error {
	for _, c := range SampleCategories {
		if err := s.PutCategory(ctx, c); err != nil {
			return err
		}
	}
	for _, it := range SampleItems(now) {
		if err := s.PutItem(ctx, it); err != nil {
			return err
		}
	}
	return nil
}
