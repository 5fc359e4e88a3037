// Package logging 提供基于 zerolog 的日志初始化。
//
// 组件按值接收 zerolog.Logger，测试中使用 zerolog.Nop()。
//
//	logger := logging.New(logging.Config{Level: "debug", Format: "console"})
//	logger.Info().Str("user", userID).Msg("recommend")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config 是日志配置。
type Config struct {
	// Level: trace / debug / info / warn / error，默认 info
	Level string `koanf:"level" yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`

	// Format: json / console，默认 json
	Format string `koanf:"format" yaml:"format" validate:"omitempty,oneof=json console"`

	// Output 默认 os.Stderr
	Output io.Writer `koanf:"-" yaml:"-"`
}

// New 按配置创建 logger。
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel 解析日志级别，无法识别时返回 info。
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
