package application

import (
	"context"
	"encoding/json"
)

// Fields são os campos estruturados de uma entrada de log.
type Fields = map[string]interface{}

type AppLogger interface {
	Info(ctx context.Context, msg string, fields Fields)
	Debug(ctx context.Context, msg string, fields Fields)
	Warn(ctx context.Context, msg string, fields Fields)
	Error(ctx context.Context, msg string, fields Fields)
	Trace(ctx context.Context, msg string, fields Fields)
}

func LogError(ctx context.Context, logger AppLogger, message string, err error, fields Fields) {
	logData := copyFields(fields)
	if err != nil {
		logData["error"] = err
	}
	logger.Error(ctx, message, logData)
}

func LogWarn(ctx context.Context, logger AppLogger, message string, err error, fields Fields) {
	logData := copyFields(fields)
	if err != nil {
		logData["error"] = err
	}
	logger.Warn(ctx, message, logData)
}

func LogInfo(ctx context.Context, logger AppLogger, message string, fields Fields) {
	logger.Info(ctx, message, copyFields(fields))
}

func LogDebug(ctx context.Context, logger AppLogger, message string, fields Fields) {
	logger.Debug(ctx, message, copyFields(fields))
}

func copyFields(fields Fields) Fields {
	logData := make(Fields, len(fields)+1)
	for k, v := range fields {
		logData[k] = v
	}
	return logData
}

// NopLogger descarta todas as entradas.
type NopLogger struct{}

func (NopLogger) Info(context.Context, string, Fields)  {}
func (NopLogger) Debug(context.Context, string, Fields) {}
func (NopLogger) Warn(context.Context, string, Fields)  {}
func (NopLogger) Error(context.Context, string, Fields) {}
func (NopLogger) Trace(context.Context, string, Fields) {}

func MarshalPayload[T any](payload T) ([]byte, error) {
	return json.Marshal(payload)
}
