package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

// NotificationConfig drives the best-effort order notifications. Subject and
// body templates may contain the literal placeholders {id} and {status}.
type NotificationConfig struct {
	From            string
	SubjectTemplate string
	BodyTemplate    string
}

// Service orchestrates the order lifecycle: number generation, persistence,
// staging, outbound transfer, status transitions and notifications.
type Service struct {
	orders       ports.OrderRepository
	pods         ports.ProofOfDeliveryRepository
	refdata      ports.ReferenceDataClient
	storage      ports.OrderStorage
	sender       ports.OrderSender
	notifier     ports.NotificationDispatcher
	numberConfig domain.OrderNumberConfiguration
	notification NotificationConfig
	logger       *slog.Logger
	now          func() time.Time
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithLogger injects a slog logger; notifications failures are logged there.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the clock, used by tests for stable created dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires the order lifecycle service. It fails when the order
// number configuration is invalid, since no order can be saved without it.
func NewService(
	orders ports.OrderRepository,
	pods ports.ProofOfDeliveryRepository,
	refdata ports.ReferenceDataClient,
	storage ports.OrderStorage,
	sender ports.OrderSender,
	notifier ports.NotificationDispatcher,
	numberConfig domain.OrderNumberConfiguration,
	notification NotificationConfig,
	opts ...Option,
) (*Service, error) {
	if err := numberConfig.Validate(); err != nil {
		return nil, err
	}
	s := &Service{
		orders:       orders,
		pods:         pods,
		refdata:      refdata,
		storage:      storage,
		sender:       sender,
		notifier:     notifier,
		numberConfig: numberConfig,
		notification: notification,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Save persists a new order and runs the dispatch pipeline. Staging always
// precedes the send; the staged artifact is deleted if and only if the send
// succeeds. A send that returns false leaves the artifact for retry and marks
// the order TRANSFER_FAILED; a send that errors aborts without a status
// transition.
func (s *Service) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, fmt.Errorf("%w: order is nil", ErrInvalidInput)
	}
	if err := order.UpdateStatus(order.Status); err != nil {
		return nil, mapError(err)
	}
	if order.CreatedDate.IsZero() {
		order.CreatedDate = s.now()
	}
	if err := order.Validate(); err != nil {
		return nil, mapError(err)
	}

	program, err := s.refdata.FindProgram(ctx, order.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("resolve program %s: %w", order.ProgramID, err)
	}
	if program == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingProgram, order.ProgramID)
	}
	order.OrderCode = s.numberConfig.Generate(order, program.Code)

	saved, err := s.orders.Save(ctx, order)
	if err != nil {
		return nil, err
	}

	if _, err := s.dispatch(ctx, saved); err != nil {
		return nil, err
	}
	updated, err := s.orders.Save(ctx, saved)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, updated)
	return updated, nil
}

// dispatch stages the order, attempts the outbound transfer, and applies the
// resulting status transition on the given order in place. The staged
// artifact is removed only after a successful send.
func (s *Service) dispatch(ctx context.Context, order *domain.Order) (bool, error) {
	if err := s.storage.Store(ctx, order); err != nil {
		return false, fmt.Errorf("%w: stage order %s: %w", ErrSaveFailed, order.ID, err)
	}
	sent, err := s.sender.Send(ctx, order)
	if err != nil {
		return false, fmt.Errorf("%w: send order %s: %w", ErrSaveFailed, order.ID, err)
	}
	if sent {
		if err := s.storage.Delete(ctx, order); err != nil {
			return false, fmt.Errorf("%w: remove staged order %s: %w", ErrSaveFailed, order.ID, err)
		}
		order.Status = domain.StatusInRoute
	} else {
		order.Status = domain.StatusTransferFailed
	}
	return sent, nil
}

// Get loads one order.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// List returns every order.
func (s *Service) List(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.List(ctx)
}

// Delete removes an order unless a proof of delivery references it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	pod, err := s.pods.FindByOrderID(ctx, order.ID)
	if err != nil {
		return err
	}
	if pod != nil {
		return fmt.Errorf("%w: order %s", ErrOrderInUse, order.ID)
	}
	return s.orders.Delete(ctx, order.ID)
}

// Search validates status strings and forwards the conjunctive filter to the
// repository. Unknown statuses are rejected before any query runs.
func (s *Service) Search(ctx context.Context, query ports.SearchQuery) ([]*domain.Order, error) {
	params := ports.SearchParams{
		SupplyingFacilityID:  query.SupplyingFacilityID,
		RequestingFacilityID: query.RequestingFacilityID,
		ProgramID:            query.ProgramID,
		ProcessingPeriodID:   query.ProcessingPeriodID,
	}
	for _, raw := range query.Statuses {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
		}
		params.Statuses = append(params.Statuses, status)
	}
	return s.orders.Search(ctx, params)
}

// Finalize transitions an ORDERED order into the downstream SHIPPED state.
func (s *Service) Finalize(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusOrdered {
		return nil, fmt.Errorf("%w: finalize requires ORDERED, order %s is %s",
			ErrInvalidTransition, order.ID, order.Status)
	}
	order.Status = domain.StatusShipped
	return s.orders.Save(ctx, order)
}

// Retry re-runs the transfer for a TRANSFER_FAILED order. The boolean result
// is the send outcome; the order transitions exactly as in Save.
func (s *Service) Retry(ctx context.Context, id uuid.UUID) (bool, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if order.Status != domain.StatusTransferFailed {
		return false, fmt.Errorf("%w: retry requires TRANSFER_FAILED, order %s is %s",
			ErrInvalidTransition, order.ID, order.Status)
	}
	sent, err := s.dispatch(ctx, order)
	if err != nil {
		return false, err
	}
	if _, err := s.orders.Save(ctx, order); err != nil {
		return false, err
	}
	s.notify(ctx, order)
	return sent, nil
}

// notify sends a best-effort notification about the order's outcome to its
// creator. Failures are logged and swallowed; they never affect the caller.
func (s *Service) notify(ctx context.Context, order *domain.Order) {
	if s.notifier == nil || order.CreatedByID == uuid.Nil {
		return
	}
	user, err := s.refdata.FindUser(ctx, order.CreatedByID)
	if err != nil || user == nil || user.Email == "" {
		s.logger.Warn("skipping order notification, creator unresolved",
			slog.String("order.id", order.ID.String()), errAttr(err))
		return
	}
	notification := ports.Notification{
		From:    s.notification.From,
		To:      user.Email,
		Subject: substitute(s.notification.SubjectTemplate, order),
		Content: substitute(s.notification.BodyTemplate, order),
	}
	if err := s.notifier.Send(ctx, notification); err != nil {
		s.logger.Error("failed to send order notification",
			slog.String("order.id", order.ID.String()), slog.String("error", err.Error()))
	}
}

func substitute(template string, order *domain.Order) string {
	out := strings.ReplaceAll(template, "{id}", order.ID.String())
	return strings.ReplaceAll(out, "{status}", string(order.Status))
}

func errAttr(err error) slog.Attr {
	if err == nil {
		return slog.String("reason", "user missing or has no email")
	}
	return slog.String("error", err.Error())
}

var _ ports.Service = (*Service)(nil)
