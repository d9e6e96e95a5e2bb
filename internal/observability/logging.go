package observability

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/helpdesk-client/internal/config"
)

// NewLogger builds the JSON logger shared by the CLI and the mock API. Every
// record carries the app name, environment and version. Records go to stderr
// so stdout only holds command output.
func NewLogger(cfg config.LoggerConfig, app config.AppConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	fields := map[string]any{}
	if app.Name != "" {
		fields["app"] = app.Name
	}
	if app.Env != "" {
		fields["env"] = app.Env
	}
	if app.Version != "" {
		fields["version"] = app.Version
	}

	return zap.Config{
		Level:    zap.NewAtomicLevelAt(level),
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:  "message",
			LevelKey:    "level",
			TimeKey:     "ts",
			NameKey:     "component",
			EncodeLevel: zapcore.LowercaseLevelEncoder,
			EncodeTime:  zapcore.ISO8601TimeEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields:    fields,
	}.Build()
}

// Named returns logger scoped to component, or a no-op logger when logger is nil.
func Named(logger *zap.Logger, component string) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger.Named(component)
}
