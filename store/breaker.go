package store

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/metrics"
)

// Catalog 是同时提供目录与历史读取的后端。
type Catalog interface {
	core.CatalogReader
	core.HistoryReader
}

// BreakerSettings 是熔断参数。
type BreakerSettings struct {
	Name                string
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// BreakerCatalog 用熔断器包装目录与历史读取。
// 熔断打开或半开限流时返回 UNAVAILABLE 领域错误，底层错误原样返回。
//
// 熔断器使用真实时间计算 Interval/Timeout。
type BreakerCatalog struct {
	next Catalog
	cb   *gobreaker.CircuitBreaker[any]
	name string
	log  zerolog.Logger
}

// NewBreakerCatalog 创建熔断包装。
func NewBreakerCatalog(next Catalog, s BreakerSettings, logger zerolog.Logger) *BreakerCatalog {
	if s.Name == "" {
		s.Name = "catalog"
	}
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	threshold := s.ConsecutiveFailures

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)

	b := &BreakerCatalog{next: next, name: s.Name, log: logger}
	b.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// 调用方取消不计为后端失败
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
	return b
}

// State 返回当前熔断状态。
func (b *BreakerCatalog) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerCatalog) FindCandidates(ctx context.Context, exclude map[string]struct{}, limit int) ([]core.CandidateItem, error) {
	res, err := b.execute(core.ModuleCatalog, func() (any, error) {
		return b.next.FindCandidates(ctx, exclude, limit)
	})
	if err != nil {
		return nil, err
	}
	return res.([]core.CandidateItem), nil
}

func (b *BreakerCatalog) CountItemsSharingAnyTag(ctx context.Context, tags []string) (int, error) {
	res, err := b.execute(core.ModuleCatalog, func() (any, error) {
		return b.next.CountItemsSharingAnyTag(ctx, tags)
	})
	if err != nil {
		return 0, err
	}
	return res.(int), nil
}

func (b *BreakerCatalog) GetEngagementRecords(ctx context.Context, userID string) ([]core.EngagementRecord, error) {
	res, err := b.execute(core.ModuleHistory, func() (any, error) {
		return b.next.GetEngagementRecords(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return res.([]core.EngagementRecord), nil
}

func (b *BreakerCatalog) execute(module string, fn func() (any, error)) (any, error) {
	res, err := b.cb.Execute(fn)
	if err == nil {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		return res, nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		return nil, core.WrapDomainError(module, core.ErrorCodeUnavailable, module+": circuit breaker "+b.name+" is open", err)
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	return nil, err
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

var _ Catalog = (*BreakerCatalog)(nil)
