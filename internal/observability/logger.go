package observability

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
)

// global structured logger, JSON to stdout.
var logger = newLogger()

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		// zap's production config only fails on bad output paths; fall back
		// to a no-op logger rather than crash the host process.
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

func Logger() *zap.SugaredLogger {
	return logger
}

// WithFields returns a logger with additional key/value fields.
func WithFields(kv ...any) *zap.SugaredLogger {
	return logger.With(kv...)
}

// WithRequestID stores a request_id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// LoggerFromContext adds request_id if present.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	reqID, _ := ctx.Value(ctxKeyRequestID).(string)
	if reqID == "" {
		return logger
	}
	return logger.With("request_id", reqID)
}
