package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents log level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var zapLevels = map[Level]zapcore.Level{
	DEBUG: zapcore.DebugLevel,
	INFO:  zapcore.InfoLevel,
	WARN:  zapcore.WarnLevel,
	ERROR: zapcore.ErrorLevel,
	FATAL: zapcore.FatalLevel,
}

// Context keys understood by WithContext
type ctxKey string

const (
	RequestIDKey ctxKey = "requestID"
	UserKey      ctxKey = "username"
)

// Config holds logger configuration
type Config struct {
	Level       Level
	Output      io.Writer
	JSONFormat  bool
	EnableColor bool
	ShowCaller  bool
	TimeFormat  string
	ServiceName string
}

// DefaultConfig returns default logger configuration
func DefaultConfig() *Config {
	level := INFO
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		level = ParseLevel(lvl)
	}

	return &Config{
		Level:       level,
		Output:      os.Stdout,
		JSONFormat:  os.Getenv("LOG_FORMAT") == "json",
		EnableColor: colorEnabled(os.Getenv("LOG_COLOR"), isatty.IsTerminal(os.Stdout.Fd())),
		ShowCaller:  true,
		TimeFormat:  "2006-01-02T15:04:05.000Z07:00",
		ServiceName: os.Getenv("SERVICE_NAME"),
	}
}

// Logger is a leveled, field-carrying logger backed by zap
type Logger struct {
	sugar *zap.SugaredLogger
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// New creates a new logger with given config
func New(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.MessageKey = "message"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(config.TimeFormat)

	var encoder zapcore.Encoder
	if config.JSONFormat {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		if config.EnableColor {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(config.Output), zapLevels[config.Level])

	opts := []zap.Option{}
	if config.ShowCaller {
		// skip the facade frame so the caller is the code that logged
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	}

	base := zap.New(core, opts...)
	if config.ServiceName != "" {
		base = base.With(zap.String("service", config.ServiceName))
	}

	return &Logger{sugar: base.Sugar()}
}

// Default returns the process-wide logger. Until SetDefault is called it is
// built lazily from DefaultConfig.
func Default() *Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(nil)
	}
	return defaultLogger
}

// SetDefault installs l as the process-wide logger. Loggers already derived
// from the previous default keep their old configuration.
func SetDefault(l *Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Configure builds a logger from the app settings and installs it as default
func Configure(level, format, serviceName string) *Logger {
	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level)
	cfg.JSONFormat = format == "json"
	cfg.ServiceName = serviceName
	if cfg.JSONFormat {
		cfg.EnableColor = false
	}

	l := New(cfg)
	SetDefault(l)
	return l
}

// colorEnabled honours an explicit LOG_COLOR=true/false and otherwise
// colours only terminal output.
func colorEnabled(setting string, terminal bool) bool {
	switch strings.ToLower(setting) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return terminal
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// With creates a child logger with an additional field
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(key, value)}
}

// WithFields creates a child logger with multiple additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{sugar: l.sugar.With(args...)}
}

// WithError adds error field to logger
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.With("error", err.Error())
}

// WithContext extracts request-scoped fields from context
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	child := l
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		child = child.With("request_id", requestID)
	}
	if user, ok := ctx.Value(UserKey).(string); ok && user != "" {
		child = child.With("user", user)
	}
	return child
}

// Log methods. Trailing args are key/value pairs.

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.sugar.Fatalw(msg, keysAndValues...)
}

// Infof logs a printf-style message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

// ============================================================
// Request Logger - HTTP request/response logging
// ============================================================

// RequestLog represents an HTTP request log
type RequestLog struct {
	Method       string
	Path         string
	Status       int
	Duration     time.Duration
	ClientIP     string
	UserAgent    string
	RequestID    string
	ResponseSize int64
}

// LogRequest logs an HTTP request
func (l *Logger) LogRequest(req RequestLog) {
	msg := fmt.Sprintf("%s %s -> %d (%s)", req.Method, req.Path, req.Status, req.Duration)

	child := l.WithFields(map[string]interface{}{
		"method":        req.Method,
		"path":          req.Path,
		"status":        req.Status,
		"duration_ms":   req.Duration.Milliseconds(),
		"client_ip":     req.ClientIP,
		"user_agent":    req.UserAgent,
		"request_id":    req.RequestID,
		"response_size": req.ResponseSize,
	})

	switch {
	case req.Status >= 500:
		child.sugar.Error(msg)
	case req.Status >= 400:
		child.sugar.Warn(msg)
	default:
		child.sugar.Info(msg)
	}
}

// ============================================================
// Business Event Logger
// ============================================================

// EventLog represents a business event log
type EventLog struct {
	Event    string
	Actor    string
	Entity   string
	EntityID string
	Action   string
	Success  bool
	Metadata map[string]interface{}
	Error    string
}

// LogEvent logs a business event
func (l *Logger) LogEvent(evt EventLog) {
	msg := fmt.Sprintf("[%s] %s %s (ID: %s)", evt.Event, evt.Action, evt.Entity, evt.EntityID)

	fields := map[string]interface{}{
		"event":     evt.Event,
		"action":    evt.Action,
		"entity":    evt.Entity,
		"entity_id": evt.EntityID,
		"success":   evt.Success,
	}
	if evt.Actor != "" {
		fields["actor"] = evt.Actor
	}
	for k, v := range evt.Metadata {
		fields[k] = v
	}
	if evt.Error != "" {
		fields["error"] = evt.Error
	}

	child := l.WithFields(fields)
	if evt.Success {
		child.sugar.Info(msg)
	} else {
		child.sugar.Error(msg)
	}
}

// ============================================================
// Helper functions
// ============================================================

// ParseLevel maps a level name to a Level, defaulting to INFO
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

// ============================================================
// Package-level convenience functions
// ============================================================

func Debug(msg string, kv ...interface{}) { Default().Debug(msg, kv...) }
func Info(msg string, kv ...interface{})  { Default().Info(msg, kv...) }
func Warn(msg string, kv ...interface{})  { Default().Warn(msg, kv...) }
func Error(msg string, kv ...interface{}) { Default().Error(msg, kv...) }
func Fatal(msg string, kv ...interface{}) { Default().Fatal(msg, kv...) }

func With(key string, value interface{}) *Logger       { return Default().With(key, value) }
func WithFields(fields map[string]interface{}) *Logger { return Default().WithFields(fields) }
func WithError(err error) *Logger                      { return Default().WithError(err) }
func WithContext(ctx context.Context) *Logger          { return Default().WithContext(ctx) }
