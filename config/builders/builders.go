// Package builders 注册内置 Node 的配置构建器。
//
//	import _ "github.com/rushteam/contentrec/config/builders"
//
// 打分相关的 Node 以一份基础 core.ScoringConfig 为起点，节点配置中出现的字段覆盖它。
// init 注册的构建器以 core.DefaultScoringConfig() 为基础；运行时应使用 LoadPipeline，
// 传入已加载的 Settings.Scoring，使画像与打分使用同一份策略。
package builders

import (
	"fmt"

	"github.com/rushteam/contentrec/config"
	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/feature"
	"github.com/rushteam/contentrec/filter"
	"github.com/rushteam/contentrec/pipeline"
	"github.com/rushteam/contentrec/pkg/conv"
	"github.com/rushteam/contentrec/rank"
	"github.com/rushteam/contentrec/recall"
	"github.com/rushteam/contentrec/rerank"
)

func init() {
	defaults := core.DefaultScoringConfig()
	config.Register("recall.catalog", CatalogRecallBuilder(defaults))
	config.Register("filter", BuildFilterNode)
	config.Register("feature.vector", VectorBuilder(defaults))
	config.Register("rank.similarity", SimilarityBuilder(defaults))
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
}

// NewFactory 返回注册表中的全部 Node，其中打分相关的 Node 以 base 为基础构建。
func NewFactory(base core.ScoringConfig) *pipeline.NodeFactory {
	f := config.DefaultFactory()
	f.Register("recall.catalog", CatalogRecallBuilder(base))
	f.Register("feature.vector", VectorBuilder(base))
	f.Register("rank.similarity", SimilarityBuilder(base))
	return f
}

// LoadPipeline 从 YAML 构建 Pipeline，打分相关的 Node 以 base 为基础。
func LoadPipeline(path string, base core.ScoringConfig) (*pipeline.Pipeline, error) {
	return config.LoadPipelineWith(path, NewFactory(base))
}

// CatalogRecallBuilder 的 pool 默认取 base.CandidatePool。
func CatalogRecallBuilder(base core.ScoringConfig) pipeline.NodeBuilder {
	return func(cfg map[string]interface{}) (pipeline.Node, error) {
		def := base.CandidatePool
		if def <= 0 {
			def = recall.DefaultPool
		}
		pool := conv.ConfigGetInt(cfg, "pool", def)
		if pool <= 0 {
			return nil, fmt.Errorf("pool must be positive, got %d", pool)
		}
		return &recall.CatalogRecall{Pool: pool}, nil
	}
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig := conv.SliceOfMaps(cfg["filters"])
	if len(filtersConfig) == 0 {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterType := conv.ConfigGet(fc, "type", "")
		switch filterType {
		case "exclude_history":
			filters = append(filters, &filter.ExcludeHistoryFilter{})
		case "rule":
			expr := conv.ConfigGet(fc, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("rule filter: expr is required")
			}
			rf, err := filter.NewRuleFilter(expr)
			if err != nil {
				return nil, fmt.Errorf("rule filter: %w", err)
			}
			filters = append(filters, rf)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func VectorBuilder(base core.ScoringConfig) pipeline.NodeBuilder {
	return func(cfg map[string]interface{}) (pipeline.Node, error) {
		sc := base
		sc.RecencyHorizonDays = conv.ConfigGetFloat64(cfg, "recency_horizon_days", sc.RecencyHorizonDays)
		sc.PopularitySaturation = conv.ConfigGetFloat64(cfg, "popularity_saturation", sc.PopularitySaturation)
		if sc.RecencyHorizonDays <= 0 || sc.PopularitySaturation <= 0 {
			return nil, fmt.Errorf("recency_horizon_days and popularity_saturation must be positive")
		}
		return &feature.VectorNode{Extractor: feature.NewExtractor(sc)}, nil
	}
}

func SimilarityBuilder(base core.ScoringConfig) pipeline.NodeBuilder {
	return func(cfg map[string]interface{}) (pipeline.Node, error) {
		sc := base
		if raw, ok := cfg["weights"].(map[string]interface{}); ok {
			for key, val := range conv.MapToFloat64(raw) {
				switch key {
				case "tag":
					sc.Weights.Tag = val
				case "type":
					sc.Weights.Type = val
				case "category":
					sc.Weights.Category = val
				case "popularity":
					sc.Weights.Popularity = val
				case "recency":
					sc.Weights.Recency = val
				default:
					return nil, fmt.Errorf("unknown weight: %s", key)
				}
			}
		}
		sc.Threshold = conv.ConfigGetFloat64(cfg, "threshold", sc.Threshold)
		sc.MaxReasonTags = conv.ConfigGetInt(cfg, "max_reason_tags", sc.MaxReasonTags)
		sc.MaxReasonClauses = conv.ConfigGetInt(cfg, "max_reason_clauses", sc.MaxReasonClauses)
		if err := sc.Validate(); err != nil {
			return nil, err
		}
		return &rank.SimilarityNode{Ranker: rank.NewRanker(sc)}, nil
	}
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}

func BuildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Diversity{MaxPerCategory: conv.ConfigGetInt(cfg, "max_per_category", 1)}, nil
}
