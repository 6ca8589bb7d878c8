package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/requestctx"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/services"
)

// RepricingTelemetry records a span and metrics for every repriced product.
type RepricingTelemetry struct {
	tracer    trace.Tracer
	decisions metric.Int64Counter
	duration  metric.Float64Histogram
	logger    *zap.Logger
}

var _ services.RepricingTelemetry = (*RepricingTelemetry)(nil)

// NewRepricingTelemetry wires the telemetry to the global otel providers.
func NewRepricingTelemetry(logger *zap.Logger) (*RepricingTelemetry, error) {
	return NewRepricingTelemetryWithProviders(otel.GetTracerProvider(), otel.GetMeterProvider(), logger)
}

// NewRepricingTelemetryWithProviders wires the telemetry to explicit providers.
func NewRepricingTelemetryWithProviders(tp trace.TracerProvider, mp metric.MeterProvider, logger *zap.Logger) (*RepricingTelemetry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	meter := mp.Meter(instrumentationName)
	decisions, err := meter.Int64Counter("repricer.decisions",
		metric.WithDescription("Repricing decisions by result code"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("repricer.product.duration_ms",
		metric.WithDescription("Time spent computing decisions for one product"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	return &RepricingTelemetry{
		tracer:    tp.Tracer(instrumentationName),
		decisions: decisions,
		duration:  duration,
		logger:    logger,
	}, nil
}

// ObserveProduct opens the span for one product and returns the function that closes it.
func (t *RepricingTelemetry) ObserveProduct(ctx context.Context, productID string, offers int) (context.Context, func([]services.Decision, error)) {
	start := time.Now()
	productID = logSafe(productID, maxProductIDLength)
	attrs := []attribute.KeyValue{
		attribute.String("repricer.product_id", productID),
		attribute.Int("repricer.offer_count", offers),
	}
	run, _ := requestctx.Run(ctx)
	if run.RunID != "" {
		attrs = append(attrs, attribute.String("repricer.run_id", run.RunID))
	}
	ctx, span := t.tracer.Start(ctx, "repricing.ComputeDecisions", trace.WithAttributes(attrs...))

	return ctx, func(decisions []services.Decision, err error) {
		defer span.End()
		elapsed := float64(time.Since(start).Microseconds()) / 1000
		t.duration.Record(ctx, elapsed)

		span.SetAttributes(attribute.Int("repricer.decision_count", len(decisions)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return
		}
		for _, decision := range decisions {
			t.decisions.Add(ctx, 1, metric.WithAttributes(
				attribute.String("result", string(decision.Result)),
				attribute.Bool("valid", decision.Valid),
				attribute.Bool("slow_run", run.SlowRun),
			))
		}
		t.logger.Debug("product repriced",
			zap.String("productId", productID),
			zap.String("runId", run.RunID),
			zap.Int("decisions", len(decisions)),
			zap.Float64("elapsedMs", elapsed),
		)
	}
}
