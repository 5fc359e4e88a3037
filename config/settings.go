package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/pkg/logging"
)

// EnvPrefix 是环境变量前缀，层级用双下划线分隔：
//
//	CONTENTREC_SCORING__WEIGHTS__TAG=0.5  -> scoring.weights.tag
//	CONTENTREC_STORE__DRIVER=redis        -> store.driver
const EnvPrefix = "CONTENTREC_"

// Settings 是引擎与命令行的运行配置。
//
// 加载顺序（后者覆盖前者）：结构体默认值 → YAML 文件 → 环境变量。
type Settings struct {
	Scoring core.ScoringConfig `koanf:"scoring"`
	Store   StoreConfig        `koanf:"store"`
	Breaker BreakerConfig      `koanf:"breaker"`
	Log     logging.Config     `koanf:"log"`

	// PipelinePath 非空时从 YAML 构建 Pipeline，否则使用内置的默认链路
	PipelinePath string `koanf:"pipeline_path"`

	// BatchConcurrency 是批量推荐的并发上限
	BatchConcurrency int `koanf:"batch_concurrency" validate:"gte=1,lte=256"`
}

// StoreConfig 选择目录与历史的存储后端。
type StoreConfig struct {
	Driver     string `koanf:"driver" validate:"oneof=memory redis sqlite"`
	Prefix     string `koanf:"prefix" validate:"required_unless=Driver sqlite"`
	RedisAddr  string `koanf:"redis_addr" validate:"required_if=Driver redis"`
	RedisDB    int    `koanf:"redis_db" validate:"gte=0"`
	SQLitePath string `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
}

// BreakerConfig 是目录读取的熔断参数。
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`
	// MaxRequests 是半开状态允许通过的请求数
	MaxRequests uint32 `koanf:"max_requests" validate:"gte=1"`
	// Interval 是闭合状态下清零计数的周期
	Interval time.Duration `koanf:"interval"`
	// Timeout 是打开状态持续多久后进入半开
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
	// ConsecutiveFailures 连续失败多少次后打开
	ConsecutiveFailures uint32 `koanf:"consecutive_failures" validate:"gte=1"`
}

// DefaultSettings 返回默认配置。
func DefaultSettings() *Settings {
	return &Settings{
		Scoring: core.DefaultScoringConfig(),
		Store: StoreConfig{
			Driver:     "sqlite",
			Prefix:     "contentrec",
			RedisAddr:  "127.0.0.1:6379",
			SQLitePath: "contentrec.db",
		},
		Breaker: BreakerConfig{
			Enabled:             true,
			MaxRequests:         1,
			Interval:            time.Minute,
			Timeout:             30 * time.Second,
			ConsecutiveFailures: 5,
		},
		Log: logging.Config{
			Level:  "info",
			Format: "console",
		},
		BatchConcurrency: 8,
	}
}

// Load 加载配置；path 为空时只使用默认值与环境变量。
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(DefaultSettings(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Settings{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// envTransformFunc: CONTENTREC_SCORING__DECAY_DAYS -> scoring.decay_days
func envTransformFunc(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate 校验字段约束与打分权重。
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return core.WrapDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, "config: invalid settings", err)
	}
	return s.Scoring.Validate()
}
