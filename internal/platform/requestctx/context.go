// Package requestctx carries per-request and per-run metadata on a context.Context.
package requestctx

import (
	"context"

	"go.uber.org/zap"
)

type key int

const (
	loggerKey key = iota
	traceKey
	runKey
)

var noopLogger = zap.NewNop()

// TraceInfo is the Cloud Trace position of the current request.
type TraceInfo struct {
	TraceID   string
	SpanID    string
	Sampled   bool
	ProjectID string
}

// RunInfo identifies the repricing run a product computation belongs to.
type RunInfo struct {
	RunID   string
	SlowRun bool
}

func with(ctx context.Context, k key, v any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, k, v)
}

func lookup[T any](ctx context.Context, k key) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	v, ok := ctx.Value(k).(T)
	return v, ok
}

// WithLogger stores logger on ctx. A nil logger is replaced by a no-op logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if logger == nil {
		logger = noopLogger
	}
	return with(ctx, loggerKey, logger)
}

// Logger returns the stored logger or a no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	if logger, ok := lookup[*zap.Logger](ctx, loggerKey); ok && logger != nil {
		return logger
	}
	return noopLogger
}

func WithTrace(ctx context.Context, info TraceInfo) context.Context {
	return with(ctx, traceKey, info)
}

func Trace(ctx context.Context) (TraceInfo, bool) {
	return lookup[TraceInfo](ctx, traceKey)
}

// WithRun tags ctx with the run being computed. Blank run ids are ignored.
func WithRun(ctx context.Context, info RunInfo) context.Context {
	if info.RunID == "" {
		if ctx == nil {
			return context.Background()
		}
		return ctx
	}
	return with(ctx, runKey, info)
}

func Run(ctx context.Context) (RunInfo, bool) {
	return lookup[RunInfo](ctx, runKey)
}
