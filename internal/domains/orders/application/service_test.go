package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

type fakeOrderRepo struct {
	orders map[uuid.UUID]*domain.Order
	saves  int
	events *[]string
}

func newFakeOrderRepo(events *[]string) *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]*domain.Order{}, events: events}
}

func (f *fakeOrderRepo) record(event string) {
	if f.events != nil {
		*f.events = append(*f.events, event)
	}
}

func (f *fakeOrderRepo) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	f.saves++
	f.record("save")
	clone := *order
	if clone.ID == uuid.Nil {
		clone.ID = uuid.New()
	}
	f.orders[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	if order, ok := f.orders[id]; ok {
		clone := *order
		return &clone, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeOrderRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.orders[id]
	return ok, nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderRepo) List(_ context.Context) ([]*domain.Order, error) {
	var list []*domain.Order
	for _, order := range f.orders {
		clone := *order
		list = append(list, &clone)
	}
	return list, nil
}

func (f *fakeOrderRepo) Search(_ context.Context, params ports.SearchParams) ([]*domain.Order, error) {
	f.record("search")
	var list []*domain.Order
	for _, order := range f.orders {
		if len(params.Statuses) > 0 {
			match := false
			for _, status := range params.Statuses {
				if order.Status == status {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		clone := *order
		list = append(list, &clone)
	}
	return list, nil
}

type fakePodRepo struct {
	byOrder map[uuid.UUID]*domain.ProofOfDelivery
}

func (f *fakePodRepo) Save(_ context.Context, pod *domain.ProofOfDelivery) (*domain.ProofOfDelivery, error) {
	return pod, nil
}

func (f *fakePodRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.ProofOfDelivery, error) {
	return nil, ports.ErrNotFound
}

func (f *fakePodRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) (*domain.ProofOfDelivery, error) {
	if f.byOrder == nil {
		return nil, nil
	}
	return f.byOrder[orderID], nil
}

type fakeRefData struct {
	program *ports.Program
	user    *ports.User
}

func (f *fakeRefData) FindFacility(context.Context, uuid.UUID) (*ports.Facility, error) {
	return nil, nil
}

func (f *fakeRefData) FindProgram(context.Context, uuid.UUID) (*ports.Program, error) {
	return f.program, nil
}

func (f *fakeRefData) FindOrderable(context.Context, uuid.UUID) (*ports.Orderable, error) {
	return nil, nil
}

func (f *fakeRefData) FindUser(context.Context, uuid.UUID) (*ports.User, error) {
	return f.user, nil
}

func (f *fakeRefData) FindPeriod(context.Context, uuid.UUID) (*ports.ProcessingPeriod, error) {
	return nil, nil
}

type fakeStorage struct {
	events *[]string
	stored map[string]bool
}

func newFakeStorage(events *[]string) *fakeStorage {
	return &fakeStorage{events: events, stored: map[string]bool{}}
}

func (f *fakeStorage) Store(_ context.Context, order *domain.Order) error {
	*f.events = append(*f.events, "store")
	f.stored[order.OrderCode] = true
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, order *domain.Order) error {
	*f.events = append(*f.events, "delete")
	delete(f.stored, order.OrderCode)
	return nil
}

type fakeSender struct {
	events *[]string
	sent   bool
	err    error
}

func (f *fakeSender) Send(context.Context, *domain.Order) (bool, error) {
	*f.events = append(*f.events, "send")
	return f.sent, f.err
}

type fakeNotifier struct {
	notifications []ports.Notification
	err           error
}

func (f *fakeNotifier) Send(_ context.Context, n ports.Notification) error {
	f.notifications = append(f.notifications, n)
	return f.err
}

type serviceFixture struct {
	service  *Service
	repo     *fakeOrderRepo
	pods     *fakePodRepo
	storage  *fakeStorage
	sender   *fakeSender
	notifier *fakeNotifier
	events   []string
}

func newFixture(t *testing.T, sent bool, sendErr error) *serviceFixture {
	t.Helper()
	f := &serviceFixture{}
	f.repo = newFakeOrderRepo(&f.events)
	f.pods = &fakePodRepo{}
	f.storage = newFakeStorage(&f.events)
	f.sender = &fakeSender{events: &f.events, sent: sent, err: sendErr}
	f.notifier = &fakeNotifier{}
	refdata := &fakeRefData{
		program: &ports.Program{ID: uuid.New(), Code: "PRG"},
		user:    &ports.User{ID: uuid.New(), Email: "clerk@example.org"},
	}
	service, err := NewService(
		f.repo,
		f.pods,
		refdata,
		f.storage,
		f.sender,
		f.notifier,
		domain.OrderNumberConfiguration{
			Prefix:             "O",
			IncludePrefix:      true,
			IncludeProgramCode: true,
			IncludeTypeSuffix:  true,
		},
		NotificationConfig{
			From:            "noreply@openlmis.org",
			SubjectTemplate: "Create an order: {id} with status: {status}",
			BodyTemplate:    "Create an order: {id} with status: {status}",
		},
		WithClock(func() time.Time { return time.Date(2017, 3, 29, 0, 0, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)
	f.service = service
	return f
}

func validOrder() *domain.Order {
	return &domain.Order{
		ExternalID:           uuid.New(),
		Emergency:            true,
		ProgramID:            uuid.New(),
		FacilityID:           uuid.New(),
		ProcessingPeriodID:   uuid.New(),
		CreatedByID:          uuid.New(),
		RequestingFacilityID: uuid.New(),
		ReceivingFacilityID:  uuid.New(),
		SupplyingFacilityID:  uuid.New(),
		LineItems: []domain.OrderLineItem{
			{OrderableID: uuid.New(), OrderedQuantity: 30, FilledQuantity: 20},
		},
	}
}

func TestSave_SuccessfulTransfer(t *testing.T) {
	f := newFixture(t, true, nil)
	order := validOrder()

	saved, err := f.service.Save(context.Background(), order)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInRoute, saved.Status)
	require.Equal(t, "OPRG"+order.ExternalID.String()+"E", saved.OrderCode)
	require.Equal(t, []string{"save", "store", "send", "delete", "save"}, f.events)
	require.Empty(t, f.storage.stored, "staged artifact must be removed after a successful send")
}

func TestSave_TransferFailureKeepsArtifact(t *testing.T) {
	f := newFixture(t, false, nil)

	saved, err := f.service.Save(context.Background(), validOrder())
	require.NoError(t, err)
	require.Equal(t, domain.StatusTransferFailed, saved.Status)
	require.Equal(t, []string{"save", "store", "send", "save"}, f.events)
	require.Len(t, f.storage.stored, 1, "staged artifact must survive a failed send")
}

func TestSave_SenderErrorAbortsWithoutTransition(t *testing.T) {
	f := newFixture(t, false, errors.New("no transfer properties"))

	_, err := f.service.Save(context.Background(), validOrder())
	require.ErrorIs(t, err, ErrSaveFailed)
	require.NotContains(t, f.events, "delete")
	// The first persist happened, but no status transition was recorded.
	for _, order := range f.repo.orders {
		require.Equal(t, domain.StatusOrdered, order.Status)
	}
	require.Empty(t, f.notifier.notifications)
}

func TestSave_NotificationContent(t *testing.T) {
	f := newFixture(t, true, nil)

	saved, err := f.service.Save(context.Background(), validOrder())
	require.NoError(t, err)
	require.Len(t, f.notifier.notifications, 1)
	n := f.notifier.notifications[0]
	require.Equal(t, "noreply@openlmis.org", n.From)
	require.Equal(t, "clerk@example.org", n.To)
	require.Contains(t, n.Content, saved.ID.String())
	require.Contains(t, n.Content, "IN_ROUTE")
	require.False(t, strings.Contains(n.Content, "{id}"), "placeholders must be substituted")
}

func TestSave_NotificationFailureIsSwallowed(t *testing.T) {
	f := newFixture(t, true, nil)
	f.notifier.err = errors.New("notification service down")

	saved, err := f.service.Save(context.Background(), validOrder())
	require.NoError(t, err)
	require.Equal(t, domain.StatusInRoute, saved.Status)
}

func TestSave_NilOrder(t *testing.T) {
	f := newFixture(t, true, nil)

	_, err := f.service.Save(context.Background(), nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSave_UnknownProgram(t *testing.T) {
	f := newFixture(t, true, nil)
	refdata := &fakeRefData{program: nil}
	service, err := NewService(
		f.repo, f.pods, refdata, f.storage, f.sender, f.notifier,
		domain.OrderNumberConfiguration{},
		NotificationConfig{},
	)
	require.NoError(t, err)

	_, err = service.Save(context.Background(), validOrder())
	require.ErrorIs(t, err, ErrMissingProgram)
}

func TestSave_NegativeQuantityRejected(t *testing.T) {
	f := newFixture(t, true, nil)
	order := validOrder()
	order.LineItems[0].OrderedQuantity = -1

	_, err := f.service.Save(context.Background(), order)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Empty(t, f.events, "nothing persists for invalid input")
}

func TestNewService_InvalidNumberConfig(t *testing.T) {
	f := newFixture(t, true, nil)
	_, err := NewService(
		f.repo, f.pods, &fakeRefData{}, f.storage, f.sender, f.notifier,
		domain.OrderNumberConfiguration{IncludePrefix: true, Prefix: "  "},
		NotificationConfig{},
	)
	require.ErrorIs(t, err, domain.ErrOrderNumberConfig)
}

func TestDelete_BlockedByProofOfDelivery(t *testing.T) {
	f := newFixture(t, true, nil)
	saved, err := f.service.Save(context.Background(), validOrder())
	require.NoError(t, err)
	f.pods.byOrder = map[uuid.UUID]*domain.ProofOfDelivery{
		saved.ID: {ID: uuid.New(), OrderID: saved.ID},
	}

	err = f.service.Delete(context.Background(), saved.ID)
	require.ErrorIs(t, err, ErrOrderInUse)
	_, err = f.repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err, "blocked delete must leave the order in place")
}

func TestDelete_RemovesOrder(t *testing.T) {
	f := newFixture(t, true, nil)
	saved, err := f.service.Save(context.Background(), validOrder())
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(context.Background(), saved.ID))
	_, err = f.repo.GetByID(context.Background(), saved.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDelete_MissingOrder(t *testing.T) {
	f := newFixture(t, true, nil)
	err := f.service.Delete(context.Background(), uuid.New())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSearch_InvalidStatusRejectedBeforeQuery(t *testing.T) {
	f := newFixture(t, true, nil)

	_, err := f.service.Search(context.Background(), ports.SearchQuery{Statuses: []string{"NOT_A_STATUS"}})
	require.ErrorIs(t, err, ErrInvalidStatus)
	require.NotContains(t, f.events, "search", "invalid input must not reach the repository")
}

func TestSearch_FiltersByStatus(t *testing.T) {
	f := newFixture(t, true, nil)
	saved, err := f.service.Save(context.Background(), validOrder())
	require.NoError(t, err)

	found, err := f.service.Search(context.Background(), ports.SearchQuery{Statuses: []string{"IN_ROUTE"}})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, saved.ID, found[0].ID)

	none, err := f.service.Search(context.Background(), ports.SearchQuery{Statuses: []string{"SHIPPED"}})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestFinalize_RequiresOrderedStatus(t *testing.T) {
	f := newFixture(t, true, nil)
	order := validOrder()
	order.Status = domain.StatusShipped
	saved, err := f.repo.Save(context.Background(), order)
	require.NoError(t, err)

	_, err = f.service.Finalize(context.Background(), saved.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestFinalize_ShipsOrderedOrder(t *testing.T) {
	f := newFixture(t, true, nil)
	order := validOrder()
	order.Status = domain.StatusOrdered
	saved, err := f.repo.Save(context.Background(), order)
	require.NoError(t, err)

	finalized, err := f.service.Finalize(context.Background(), saved.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, finalized.Status)
}

func TestFinalize_MissingOrder(t *testing.T) {
	f := newFixture(t, true, nil)
	_, err := f.service.Finalize(context.Background(), uuid.New())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRetry_RequiresTransferFailed(t *testing.T) {
	f := newFixture(t, true, nil)
	saved, err := f.service.Save(context.Background(), validOrder())
	require.NoError(t, err)

	_, err = f.service.Retry(context.Background(), saved.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRetry_SuccessfulSecondAttempt(t *testing.T) {
	f := newFixture(t, false, nil)
	saved, err := f.service.Save(context.Background(), validOrder())
	require.NoError(t, err)
	require.Equal(t, domain.StatusTransferFailed, saved.Status)

	f.sender.sent = true
	sent, err := f.service.Retry(context.Background(), saved.ID)
	require.NoError(t, err)
	require.True(t, sent)

	reloaded, err := f.repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInRoute, reloaded.Status)
}

func TestRetry_StillFailing(t *testing.T) {
	f := newFixture(t, false, nil)
	saved, err := f.service.Save(context.Background(), validOrder())
	require.NoError(t, err)

	sent, err := f.service.Retry(context.Background(), saved.ID)
	require.NoError(t, err)
	require.False(t, sent)

	reloaded, err := f.repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusTransferFailed, reloaded.Status)
}
