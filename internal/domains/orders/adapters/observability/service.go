package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

const tracerName = "github.com/openlmis/fulfillment/internal/domains/orders/adapters/observability"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// Save runs the full dispatch pipeline with instrumentation.
func (s *Service) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.Save", orderAttr(order))
	defer span.End()

	externalID := ""
	if order != nil {
		externalID = order.ExternalID.String()
	}
	s.logInfo(ctx, "saving order", slog.String("order.external_id", externalID))
	result, err := s.inner.Save(ctx, order)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to save order", slog.String("order.external_id", externalID))
	}
	if result != nil {
		s.metrics.recordSaved(ctx, result.Status)
		s.logInfo(ctx, "order saved",
			slog.String("order.code", result.OrderCode),
			slog.String("order.status", string(result.Status)))
	}
	return result, nil
}

// Get loads one order aggregate.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.Get", attribute.String("order.id", id.String()))
	defer span.End()

	result, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id.String()))
	}
	return result, nil
}

// List exposes all orders.
func (s *Service) List(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.List")
	defer span.End()

	result, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, nil
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.startSpan(ctx, "Service.Delete", attribute.String("order.id", id.String()))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.String("order.id", id.String()))
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.String("order.id", id.String()))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.String("order.id", id.String()))
	return nil
}

// Search runs the conjunctive order filter.
func (s *Service) Search(ctx context.Context, query ports.SearchQuery) ([]*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.Search", attribute.StringSlice("order.statuses.requested", query.Statuses))
	defer span.End()

	result, err := s.inner.Search(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search orders", slog.Any("statuses", query.Statuses))
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, nil
}

// Finalize ships an ordered order.
func (s *Service) Finalize(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.Finalize", attribute.String("order.id", id.String()))
	defer span.End()

	s.logInfo(ctx, "finalizing order", slog.String("order.id", id.String()))
	result, err := s.inner.Finalize(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to finalize order", slog.String("order.id", id.String()))
	}
	if result != nil {
		s.logInfo(ctx, "order finalized",
			slog.String("order.code", result.OrderCode),
			slog.String("order.status", string(result.Status)))
	}
	return result, nil
}

// Retry re-runs the transfer for a failed order.
func (s *Service) Retry(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, span := s.startSpan(ctx, "Service.Retry", attribute.String("order.id", id.String()))
	defer span.End()

	s.logInfo(ctx, "retrying order transfer", slog.String("order.id", id.String()))
	sent, err := s.inner.Retry(ctx, id)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to retry order transfer", slog.String("order.id", id.String()))
	}
	s.metrics.recordRetried(ctx, sent)
	span.SetAttributes(attribute.Bool("order.transfer.sent", sent))
	s.logInfo(ctx, "order transfer retried", slog.String("order.id", id.String()), slog.Bool("sent", sent))
	return sent, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func orderAttr(order *domain.Order) attribute.KeyValue {
	if order == nil {
		return attribute.String("order.external_id", "")
	}
	return attribute.String("order.external_id", order.ExternalID.String())
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersSaved   metric.Int64Counter
	ordersDeleted metric.Int64Counter
	retries       metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersSaved, _ := m.Int64Counter("orders.service.saved", metric.WithDescription("Number of orders saved"))
	ordersDeleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders deleted"))
	retries, _ := m.Int64Counter("orders.service.transfer_retries", metric.WithDescription("Number of transfer retries"))
	return serviceMetrics{
		ordersSaved:   ordersSaved,
		ordersDeleted: ordersDeleted,
		retries:       retries,
	}
}

func (m serviceMetrics) recordSaved(ctx context.Context, status domain.OrderStatus) {
	addCounter(ctx, m.ordersSaved, 1, attribute.String("order.status", string(status)))
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.ordersDeleted, 1)
}

func (m serviceMetrics) recordRetried(ctx context.Context, sent bool) {
	addCounter(ctx, m.retries, 1, attribute.Bool("order.transfer.sent", sent))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
