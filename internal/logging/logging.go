package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var logger *zap.Logger = zap.NewNop()

// Init replaces the package logger. Call once from main before anything logs.
func Init(serviceName string) func() {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	logger = l.With(zap.String("service", serviceName))
	return func() { _ = logger.Sync() }
}

// L exposes the underlying logger for collaborators that want to carry one.
func L() *zap.Logger {
	return logger
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	logger.Info(msg, withTrace(ctx, fields)...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	logger.Warn(msg, withTrace(ctx, fields)...)
}

func Error(ctx context.Context, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	logger.Error(msg, withTrace(ctx, fields)...)
}

func Fatal(ctx context.Context, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	logger.Fatal(msg, withTrace(ctx, fields)...)
}

// withTrace stamps the active span's identifiers on every record so log lines
// can be joined with traces in the backend.
func withTrace(ctx context.Context, fields []zap.Field) []zap.Field {
	span := trace.SpanFromContext(ctx)
	if sc := span.SpanContext(); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return fields
}
