package adapter

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/mateusmacedo/go-eventaggregator/pkg/application"
)

type watermillLoggerAdapter struct {
	appLogger application.AppLogger
	fields    watermill.LogFields
}

// NewWatermillLoggerAdapter expõe um AppLogger como watermill.LoggerAdapter.
func NewWatermillLoggerAdapter(appLogger application.AppLogger) watermill.LoggerAdapter {
	return &watermillLoggerAdapter{
		appLogger: appLogger,
		fields:    watermill.LogFields{},
	}
}

func (a *watermillLoggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	application.LogError(context.Background(), a.appLogger, msg, err, a.combineFields(fields))
}

func (a *watermillLoggerAdapter) Info(msg string, fields watermill.LogFields) {
	a.appLogger.Info(context.Background(), msg, a.combineFields(fields))
}

func (a *watermillLoggerAdapter) Debug(msg string, fields watermill.LogFields) {
	a.appLogger.Debug(context.Background(), msg, a.combineFields(fields))
}

func (a *watermillLoggerAdapter) Trace(msg string, fields watermill.LogFields) {
	a.appLogger.Trace(context.Background(), msg, a.combineFields(fields))
}

func (a *watermillLoggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLoggerAdapter{
		appLogger: a.appLogger,
		fields:    a.combineFields(fields),
	}
}

func (a *watermillLoggerAdapter) combineFields(fields watermill.LogFields) application.Fields {
	allFields := make(application.Fields, len(a.fields)+len(fields))
	for k, v := range a.fields {
		allFields[k] = v
	}
	for k, v := range fields {
		allFields[k] = v
	}
	return allFields
}
