package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rushteam/contentrec/config"
	"github.com/rushteam/contentrec/config/builders"
	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/engine"
	"github.com/rushteam/contentrec/pkg/logging"
	"github.com/rushteam/contentrec/store"
	"github.com/rushteam/contentrec/store/sqlite"
)

// app 持有一次命令执行所需的配置、存储与引擎。
type app struct {
	settings *config.Settings
	logger   zerolog.Logger

	// backend 是未经熔断包装的存储，seed 直接写入它
	backend store.Catalog
	sink    core.RecommendationSink
	seed    func(ctx context.Context, now time.Time) error

	engine *engine.Engine
	close  func() error
}

func loadSettings(opts *rootOptions) (*config.Settings, error) {
	s, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		s.Store.SQLitePath = opts.dbPath
	}
	if opts.driver != "" {
		s.Store.Driver = opts.driver
	}
	if opts.logLevel != "" {
		s.Log.Level = opts.logLevel
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// openApp 打开存储并创建引擎，日志写到命令的 stderr。
func openApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	ctx := cmd.Context()
	s, err := loadSettings(opts)
	if err != nil {
		return nil, err
	}
	s.Log.Output = cmd.ErrOrStderr()
	a := &app{settings: s, logger: logging.New(s.Log)}

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	var catalog store.Catalog = a.backend
	if s.Breaker.Enabled {
		catalog = store.NewBreakerCatalog(a.backend, store.BreakerSettings{
			Name:                s.Store.Driver,
			MaxRequests:         s.Breaker.MaxRequests,
			Interval:            s.Breaker.Interval,
			Timeout:             s.Breaker.Timeout,
			ConsecutiveFailures: s.Breaker.ConsecutiveFailures,
		}, a.logger)
	}

	engineOpts := []engine.Option{engine.WithBatchConcurrency(s.BatchConcurrency)}
	if s.PipelinePath != "" {
		p, err := builders.LoadPipeline(s.PipelinePath, s.Scoring)
		if err != nil {
			_ = a.close()
			return nil, fmt.Errorf("load pipeline %s: %w", s.PipelinePath, err)
		}
		engineOpts = append(engineOpts, engine.WithPipeline(p))
	}

	a.engine, err = engine.New(s.Scoring, catalog, catalog, a.logger, engineOpts...)
	if err != nil {
		_ = a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	s := a.settings
	switch s.Store.Driver {
	case "sqlite":
		db, err := sqlite.Open(ctx, s.Store.SQLitePath)
		if err != nil {
			return err
		}
		a.backend, a.sink, a.seed, a.close = db, db, db.Seed, db.Close
		a.logger.Debug().Str("path", s.Store.SQLitePath).Msg("sqlite store opened")

	case "redis":
		kv, err := store.NewRedisStore(ctx, s.Store.RedisAddr, s.Store.RedisDB)
		if err != nil {
			return err
		}
		cat := store.NewKVCatalog(kv, s.Store.Prefix)
		a.backend, a.seed, a.close = cat, seedKV(cat), kv.Close
		a.logger.Debug().Str("addr", s.Store.RedisAddr).Msg("redis store opened")

	case "memory":
		// 进程内存储不跨命令保留数据，打开时写入示例目录
		kv := store.NewMemoryStore()
		cat := store.NewKVCatalog(kv, s.Store.Prefix)
		a.backend, a.seed, a.close = cat, seedKV(cat), kv.Close
		if err := a.seed(ctx, time.Now()); err != nil {
			_ = kv.Close()
			return err
		}

	default:
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeNotSupported,
			fmt.Sprintf("store: unknown driver %q", s.Store.Driver))
	}
	return nil
}

// seedKV 写入示例内容，并把每条内容记为其所有者的一次交互。
func seedKV(cat *store.KVCatalog) func(ctx context.Context, now time.Time) error {
	return func(ctx context.Context, now time.Time) error {
		for _, it := range sqlite.SampleItems(now) {
			if err := cat.PutItem(ctx, it); err != nil {
				return err
			}
			if err := cat.AddEngagement(ctx, it.OwnerID, core.EngagementFromItem(it)); err != nil {
				return err
			}
		}
		return nil
	}
}
