// Package engine 组装画像构建、候选召回、特征提取与排序，对外提供推荐入口。
//
// Engine 在两次调用之间不保存状态：画像、向量与中间结果都在单次调用内分配，
// 因此可以被多个 goroutine 同时用于不同用户。
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/feature"
	"github.com/rushteam/contentrec/filter"
	"github.com/rushteam/contentrec/metrics"
	"github.com/rushteam/contentrec/pipeline"
	"github.com/rushteam/contentrec/profile"
	"github.com/rushteam/contentrec/rank"
	"github.com/rushteam/contentrec/recall"
	"github.com/rushteam/contentrec/rerank"
)

// DefaultBatchConcurrency 是批量推荐的默认并发数。
const DefaultBatchConcurrency = 8

// Engine 是推荐入口。
type Engine struct {
	cfg         core.ScoringConfig
	catalog     core.CatalogReader
	history     core.HistoryReader
	logger      zerolog.Logger
	profiles    *profile.Builder
	pipeline    *pipeline.Pipeline
	clock       func() time.Time
	concurrency int
	params      map[string]any
}

// Option 配置 Engine。
type Option func(*Engine)

// WithClock 替换时间来源，测试中用于固定 now。
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithPipeline 替换默认链路，例如从 YAML 构建的 Pipeline。
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(e *Engine) {
		if p != nil {
			e.pipeline = p
		}
	}
}

// WithBatchConcurrency 设置 RecommendBatch 的并发上限。
func WithBatchConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithParams 设置请求级参数，rule 过滤表达式可以通过 params.<key> 引用。
func WithParams(params map[string]any) Option {
	return func(e *Engine) {
		e.params = params
	}
}

// New 创建 Engine。目录与历史由调用方注入，打分策略在创建时校验。
func New(cfg core.ScoringConfig, catalog core.CatalogReader, history core.HistoryReader, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if catalog == nil || history == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "engine: catalog and history are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:         cfg,
		catalog:     catalog,
		history:     history,
		logger:      logger,
		profiles:    profile.NewBuilder(cfg),
		clock:       time.Now,
		concurrency: DefaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pipeline == nil {
		e.pipeline = DefaultPipeline(cfg)
	}
	return e, nil
}

// DefaultPipeline 返回内置链路：
//
//	recall.catalog → filter(exclude_history) → feature.vector → rank.similarity → rerank.topn
func DefaultPipeline(cfg core.ScoringConfig) *pipeline.Pipeline {
	return pipeline.New(
		&recall.CatalogRecall{Pool: cfg.CandidatePool},
		&filter.FilterNode{Filters: []filter.Filter{&filter.ExcludeHistoryFilter{}}},
		&feature.VectorNode{Extractor: feature.NewExtractor(cfg)},
		&rank.SimilarityNode{Ranker: rank.NewRanker(cfg)},
		&rerank.TopNNode{},
	)
}

// Config 返回打分策略。
func (e *Engine) Config() core.ScoringConfig {
	return e.cfg
}

// Profile 只构建用户画像。
func (e *Engine) Profile(ctx context.Context, userID string) (*core.UserProfile, error) {
	history, err := e.history.GetEngagementRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read history for %s: %w", userID, err)
	}
	return e.profiles.Build(history, e.clock()), nil
}

// Recommend 为用户返回最多 limit 条推荐，按分数降序。
//
// limit <= 0 时直接返回空结果，不读取目录与历史。
// 目录或历史读取失败时整体失败，不返回部分结果。
func (e *Engine) Recommend(ctx context.Context, userID string, limit int) (recs []core.ScoredRecommendation, err error) {
	if limit <= 0 {
		metrics.RecommendRequests.WithLabelValues("empty").Inc()
		return []core.ScoredRecommendation{}, nil
	}

	start := time.Now()
	logger := e.logger.With().
		Str("request_id", uuid.NewString()).
		Str("user_id", userID).
		Int("limit", limit).
		Logger()
	ctx = logger.WithContext(ctx)

	defer func() {
		metrics.RecommendDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.RecommendRequests.WithLabelValues("error").Inc()
			logger.Error().Err(err).Msg("recommend failed")
			return
		}
		metrics.RecommendRequests.WithLabelValues("ok").Inc()
		logger.Debug().
			Int("results", len(recs)).
			Dur("elapsed", time.Since(start)).
			Msg("recommend done")
	}()

	history, err := e.history.GetEngagementRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read history for %s: %w", userID, err)
	}
	now := e.clock()
	p := e.profiles.Build(history, now)

	rctx := &core.RecommendContext{
		UserID:  userID,
		Profile: p,
		History: core.HistoryIDs(history),
		Now:     now,
		Limit:   limit,
		Catalog: e.catalog,
		Params:  e.params,
	}
	if p.IsEmpty() {
		rctx.PutLabel("cold_start", core.Label{Value: "true", Source: "engine"})
		logger.Debug().Msg("empty profile")
	}

	items, err := e.pipeline.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	recs = make([]core.ScoredRecommendation, 0, min(len(items), limit))
	for _, it := range items {
		if len(recs) == limit {
			break
		}
		if rec, ok := it.ToScored(); ok {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

// RecommendBatch 并发为多个用户推荐。任一用户失败则整体失败。
func (e *Engine) RecommendBatch(ctx context.Context, userIDs []string, limit int) (map[string][]core.ScoredRecommendation, error) {
	results := make([][]core.ScoredRecommendation, len(userIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, userID := range userIDs {
		g.Go(func() error {
			recs, err := e.Recommend(gctx, userID, limit)
			if err != nil {
				return fmt.Errorf("user %s: %w", userID, err)
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]core.ScoredRecommendation, len(userIDs))
	for i, userID := range userIDs {
		out[userID] = results[i]
	}
	return out, nil
}
