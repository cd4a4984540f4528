package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type scopeKey struct{}

// scope is what a request or background run carries for its log entries
type scope struct {
	log       *zap.Logger
	requestID string
	job       string
}

func scopeOf(ctx context.Context) scope {
	if ctx == nil {
		return scope{}
	}
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

// WithRequestID binds an HTTP request id to ctx and returns the request logger
func WithRequestID(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	log = log.With(zap.String("request_id", requestID))
	s := scopeOf(ctx)
	s.log, s.requestID = log, requestID
	return context.WithValue(ctx, scopeKey{}, s), log
}

// WithJob binds a background run (scheduler tick, CLI command) to ctx
func WithJob(ctx context.Context, log *zap.Logger, job string) (context.Context, *zap.Logger) {
	log = log.With(zap.String("job", job))
	s := scopeOf(ctx)
	s.log, s.job = log, job
	return context.WithValue(ctx, scopeKey{}, s), log
}

// FromContext returns the logger bound to ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l := scopeOf(ctx).log; l != nil {
		return l
	}
	return zap.NewNop()
}

// GetRequestID returns the request id bound to ctx
func GetRequestID(ctx context.Context) string { return scopeOf(ctx).requestID }

// GetJob returns the background job name bound to ctx
func GetJob(ctx context.Context) string { return scopeOf(ctx).job }

// ContextLogger writes through a service logger, adding the trace, request
// and job of the context it was created for.
type ContextLogger struct {
	ctx context.Context
	log *zap.Logger
}

// WithLogger pairs a service logger with the context of the current call
func WithLogger(ctx context.Context, log *zap.Logger) *ContextLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContextLogger{ctx: ctx, log: log}
}

// Zap returns the enriched logger
func (cl *ContextLogger) Zap() *zap.Logger {
	fields := make([]zap.Field, 0, 4)
	if sc := trace.SpanContextFromContext(cl.ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	s := scopeOf(cl.ctx)
	if s.requestID != "" {
		fields = append(fields, zap.String("request_id", s.requestID))
	}
	if s.job != "" {
		fields = append(fields, zap.String("job", s.job))
	}
	if len(fields) == 0 {
		return cl.log
	}
	return cl.log.With(fields...)
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) { cl.Zap().Debug(msg, fields...) }
func (cl *ContextLogger) Info(msg string, fields ...zap.Field)  { cl.Zap().Info(msg, fields...) }
func (cl *ContextLogger) Warn(msg string, fields ...zap.Field)  { cl.Zap().Warn(msg, fields...) }
func (cl *ContextLogger) Error(msg string, fields ...zap.Field) { cl.Zap().Error(msg, fields...) }
