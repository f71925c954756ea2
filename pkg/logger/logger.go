// Package logger 提供统一的日志框架
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Level 日志级别
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config 日志配置
type Config struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"` // json/console
	Output     string `yaml:"output" json:"output"` // stdout/stderr/file
	FilePath   string `yaml:"file_path,omitempty" json:"file_path,omitempty"`
	TimeFormat string `yaml:"time_format,omitempty" json:"time_format,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stderr",
		TimeFormat: time.RFC3339,
	}
}

// Init 初始化日志器
func Init(cfg Config) {
	once.Do(func() {
		zerolog.SetGlobalLevel(parseLevel(cfg.Level))

		var output io.Writer
		switch cfg.Output {
		case "stdout":
			output = os.Stdout
		case "file":
			if cfg.FilePath != "" {
				f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err == nil {
					output = f
				} else {
					output = os.Stderr
				}
			} else {
				output = os.Stderr
			}
		default:
			output = os.Stderr
		}

		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{
				Out:        output,
				TimeFormat: cfg.TimeFormat,
			}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

// parseLevel 解析日志级别
func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get 获取日志器
func Get() *zerolog.Logger {
	if logger.GetLevel() == zerolog.Disabled {
		Init(DefaultConfig())
	}
	return &logger
}

// Debug 记录调试日志
func Debug() *zerolog.Event {
	return Get().Debug()
}

// Info 记录信息日志
func Info() *zerolog.Event {
	return Get().Info()
}

// Warn 记录警告日志
func Warn() *zerolog.Event {
	return Get().Warn()
}

// Error 记录错误日志
func Error() *zerolog.Event {
	return Get().Error()
}

// Fatal 记录致命错误日志
func Fatal() *zerolog.Event {
	return Get().Fatal()
}

// WithError 添加错误信息
func WithError(err error) *zerolog.Event {
	return Get().Error().Err(err)
}

// SolverLogger 求解器专用日志器
type SolverLogger struct {
	base *zerolog.Logger
}

// NewSolverLogger 创建求解器日志器
func NewSolverLogger(runID, instance string) *SolverLogger {
	l := Get().With().
		Str("component", "solver").
		Str("run_id", runID).
		Str("instance", instance).
		Logger()
	return &SolverLogger{base: &l}
}

// StartSolve 记录求解开始
func (l *SolverLogger) StartSolve(algorithm string, nurses int, seed int64, timeout time.Duration) {
	l.base.Info().
		Str("algorithm", algorithm).
		Int("nurses", nurses).
		Int64("seed", seed).
		Dur("timeout", timeout).
		Msg("开始求解")
}

// NewOptima 记录发现新的全局最优
func (l *SolverLogger) NewOptima(iter int64, objValue float64) {
	l.base.Debug().
		Int64("iter", iter).
		Float64("obj", objValue).
		Msg("发现更优解")
}

// ConstructFailed 记录初始解构造失败
func (l *SolverLogger) ConstructFailed(attempt int) {
	l.base.Warn().
		Int("attempt", attempt).
		Msg("贪心构造失败，准备重试")
}

// RepairDone 记录修复流程结束
func (l *SolverLogger) RepairDone(feasible bool, steps int) {
	l.base.Info().
		Bool("feasible", feasible).
		Int("steps", steps).
		Msg("修复流程结束")
}

// SolveComplete 记录求解完成
func (l *SolverLogger) SolveComplete(duration time.Duration, iter int64, gen int, objValue float64, feasible bool) {
	l.base.Info().
		Dur("duration", duration).
		Int64("iter", iter).
		Int("generation", gen).
		Float64("obj", objValue).
		Bool("feasible", feasible).
		Msg("求解完成")
}
