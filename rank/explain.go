package rank

import (
	"strings"

	"github.com/rushteam/contentrec/core"
)

const (
	// ReasonSeparator 连接多个理由子句
	ReasonSeparator = " • "

	ReasonFavoriteCategory = "matches a favorite category"
	ReasonFresh            = "fresh content"
	ReasonFallback         = "recommended based on your activity"

	sharedTagsPrefix = "shared tags: "
)

// typePlurals 是内容类型在理由中的名称
var typePlurals = map[core.ContentType]string{
	core.ContentArticle: "articles",
	core.ContentVideo:   "videos",
	core.ContentBook:    "books",
	core.ContentPodcast: "podcasts",
	core.ContentCourse:  "courses",
}

// TypeReason 返回内容类型对应的理由子句。
func TypeReason(ct core.ContentType) string {
	name, ok := typePlurals[ct]
	if !ok {
		name = "this kind of content"
	}
	return "you often save " + name
}

// Explain 生成推荐理由，只依赖同一对画像/向量，结果确定。
//
// 子句按优先级收集：共享标签 → 常看的类型 → 喜欢的分类 → 新鲜内容，
// 取前 MaxReasonClauses 个用分隔符连接；都不满足时返回兜底理由。
func (r *Ranker) Explain(p *core.UserProfile, v *core.ContentVector) string {
	if v == nil {
		return ReasonFallback
	}
	cfg := r.Config
	clauses := make([]string, 0, 4)

	if shared := SharedTags(p, v); len(shared) > 0 {
		if len(shared) > cfg.MaxReasonTags {
			shared = shared[:cfg.MaxReasonTags]
		}
		clauses = append(clauses, sharedTagsPrefix+strings.Join(shared, ", "))
	}
	if p.TypeWeight(v.ContentType) > cfg.ReasonTypeMin {
		clauses = append(clauses, TypeReason(v.ContentType))
	}
	if v.CategoryID != "" && p.CategoryWeight(v.CategoryID) > cfg.ReasonCategoryMin {
		clauses = append(clauses, ReasonFavoriteCategory)
	}
	if v.Recency > cfg.FreshRecency {
		clauses = append(clauses, ReasonFresh)
	}

	if len(clauses) == 0 {
		return ReasonFallback
	}
	if len(clauses) > cfg.MaxReasonClauses {
		clauses = clauses[:cfg.MaxReasonClauses]
	}
	return strings.Join(clauses, ReasonSeparator)
}
