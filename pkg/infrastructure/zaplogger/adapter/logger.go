package adapter

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mateusmacedo/go-eventaggregator/pkg/application"
)

// Options configura o logger de produção.
type Options struct {
	App      string
	Level    string // debug, info, warn, error
	Encoding string // json, console
}

type zapAppLoggerAdapter struct {
	zapLogger *zap.Logger
}

func NewZapAppLogger(opts Options) (application.AppLogger, error) {
	config := zap.NewProductionConfig()
	if opts.App != "" {
		config.InitialFields = map[string]interface{}{"app": opts.App}
	}
	config.Level = zap.NewAtomicLevelAt(parseLevel(opts.Level))
	if opts.Encoding != "" {
		config.Encoding = strings.ToLower(opts.Encoding)
	}
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return NewZapAppLoggerFromZap(zapLogger), nil
}

// NewZapAppLoggerFromZap envolve um *zap.Logger existente.
func NewZapAppLoggerFromZap(zapLogger *zap.Logger) application.AppLogger {
	return &zapAppLoggerAdapter{zapLogger: zapLogger.WithOptions(zap.AddCallerSkip(1))}
}

func (l *zapAppLoggerAdapter) Info(ctx context.Context, msg string, fields application.Fields) {
	l.zapLogger.Info(msg, convertFields(ctx, fields)...)
}

func (l *zapAppLoggerAdapter) Debug(ctx context.Context, msg string, fields application.Fields) {
	l.zapLogger.Debug(msg, convertFields(ctx, fields)...)
}

func (l *zapAppLoggerAdapter) Warn(ctx context.Context, msg string, fields application.Fields) {
	l.zapLogger.Warn(msg, convertFields(ctx, fields)...)
}

func (l *zapAppLoggerAdapter) Error(ctx context.Context, msg string, fields application.Fields) {
	l.zapLogger.Error(msg, convertFields(ctx, fields)...)
}

// Trace vira debug; o zap não tem nível trace.
func (l *zapAppLoggerAdapter) Trace(ctx context.Context, msg string, fields application.Fields) {
	l.zapLogger.Debug(msg, convertFields(ctx, fields)...)
}

func convertFields(ctx context.Context, fields application.Fields) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields)+1)

	if requestID, ok := application.RequestIDFromContext(ctx); ok {
		zapFields = append(zapFields, zap.String("request_id", requestID))
	}

	for k, v := range fields {
		if err, ok := v.(error); ok && k == "error" {
			zapFields = append(zapFields, zap.Error(err))
			continue
		}
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return zapFields
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
