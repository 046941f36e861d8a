// Package logging 基于 zerolog 构建推荐服务使用的 Logger。
//
//	logger := logging.New(logging.Config{Level: "debug", Format: "console"})
//	logger.Info().Str("user", userID).Int("count", n).Msg("recommend done")
//
// 组件按值接收 zerolog.Logger，并通过 With().Str("component", ...) 派生子 Logger；
// 测试中使用 zerolog.Nop()。
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Config 是日志配置。
type Config struct {
	// Level: trace, debug, info, warn, error, disabled（默认 info）
	Level string `yaml:"level" env:"MOVIEREC_LOG_LEVEL"`

	// Format: json 或 console（默认 json）
	Format string `yaml:"format" env:"MOVIEREC_LOG_FORMAT"`

	// Caller 是否输出调用位置
	Caller bool `yaml:"caller" env:"MOVIEREC_LOG_CALLER"`

	// Output 默认 os.Stderr
	Output io.Writer `yaml:"-"`
}

// New 按配置创建 Logger。
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	logger := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
	if cfg.Caller {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// ParseLevel 把字符串转为 zerolog.Level，无法识别时返回 InfoLevel。
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
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
