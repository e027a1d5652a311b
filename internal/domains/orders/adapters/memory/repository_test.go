package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

func testOrder(status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ExternalID:          uuid.New(),
		ProgramID:           uuid.New(),
		Status:              status,
		SupplyingFacilityID: uuid.New(),
		LineItems: []domain.OrderLineItem{
			{OrderableID: uuid.New(), OrderedQuantity: 10},
		},
	}
}

func TestOrderRepository_SaveAssignsIDs(t *testing.T) {
	repo := NewOrderRepository()
	saved, err := repo.Save(context.Background(), testOrder(domain.StatusOrdered))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, saved.ID)
	require.NotEqual(t, uuid.Nil, saved.LineItems[0].ID)
	require.Equal(t, saved.ID, saved.LineItems[0].OrderID)
}

func TestOrderRepository_CloneSemantics(t *testing.T) {
	repo := NewOrderRepository()
	saved, err := repo.Save(context.Background(), testOrder(domain.StatusOrdered))
	require.NoError(t, err)

	// Mutating a returned order must not leak into the store.
	saved.Status = domain.StatusShipped
	saved.LineItems[0].OrderedQuantity = 999

	reloaded, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusOrdered, reloaded.Status)
	require.EqualValues(t, 10, reloaded.LineItems[0].OrderedQuantity)
}

func TestOrderRepository_DeleteAndExists(t *testing.T) {
	repo := NewOrderRepository()
	saved, err := repo.Save(context.Background(), testOrder(domain.StatusOrdered))
	require.NoError(t, err)

	exists, err := repo.Exists(context.Background(), saved.ID)
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, repo.Delete(context.Background(), saved.ID))
	require.ErrorIs(t, repo.Delete(context.Background(), saved.ID), ports.ErrNotFound)

	exists, err = repo.Exists(context.Background(), saved.ID)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestOrderRepository_SearchIsConjunctive(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	first := testOrder(domain.StatusOrdered)
	second := testOrder(domain.StatusShipped)
	second.SupplyingFacilityID = first.SupplyingFacilityID
	third := testOrder(domain.StatusShipped)

	for _, order := range []*domain.Order{first, second, third} {
		_, err := repo.Save(ctx, order)
		require.NoError(t, err)
	}

	byStatus, err := repo.Search(ctx, ports.SearchParams{Statuses: []domain.OrderStatus{domain.StatusShipped}})
	require.NoError(t, err)
	require.Len(t, byStatus, 2)

	facility := first.SupplyingFacilityID
	both, err := repo.Search(ctx, ports.SearchParams{
		SupplyingFacilityID: &facility,
		Statuses:            []domain.OrderStatus{domain.StatusShipped},
	})
	require.NoError(t, err)
	require.Len(t, both, 1)
	require.Equal(t, second.ExternalID, both[0].ExternalID)

	all, err := repo.Search(ctx, ports.SearchParams{})
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestTransferPropertiesRepository_DuplicateFacility(t *testing.T) {
	repo := NewTransferPropertiesRepository()
	ctx := context.Background()
	facility := uuid.New()

	props := &domain.TransferProperties{
		FacilityID: facility,
		Protocol:   domain.ProtocolLocal,
		Local:      &domain.LocalProperties{Path: "/var/lib/orders"},
	}
	saved, err := repo.Save(ctx, props)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, saved.ID)

	duplicate := &domain.TransferProperties{
		FacilityID: facility,
		Protocol:   domain.ProtocolLocal,
		Local:      &domain.LocalProperties{Path: "/tmp/orders"},
	}
	_, err = repo.Save(ctx, duplicate)
	require.ErrorIs(t, err, ports.ErrDuplicateFacility)

	// Re-saving the same record under its own id is an update, not a duplicate.
	saved.Local.Path = "/var/lib/orders/outbound"
	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/orders/outbound", updated.Local.Path)
}

func TestTransferPropertiesRepository_FindByFacilityID(t *testing.T) {
	repo := NewTransferPropertiesRepository()
	ctx := context.Background()

	found, err := repo.FindByFacilityID(ctx, uuid.New())
	require.NoError(t, err)
	require.Nil(t, found, "an unconfigured facility resolves to nil, not an error")

	props := &domain.TransferProperties{
		FacilityID: uuid.New(),
		Protocol:   domain.ProtocolLocal,
		Local:      &domain.LocalProperties{Path: "/out"},
	}
	saved, err := repo.Save(ctx, props)
	require.NoError(t, err)

	found, err = repo.FindByFacilityID(ctx, props.FacilityID)
	require.NoError(t, err)
	require.Equal(t, saved.ID, found.ID)
}

func TestProofOfDeliveryRepository_FindByOrderID(t *testing.T) {
	repo := NewProofOfDeliveryRepository()
	ctx := context.Background()

	missing, err := repo.FindByOrderID(ctx, uuid.New())
	require.NoError(t, err)
	require.Nil(t, missing)

	pod := &domain.ProofOfDelivery{
		OrderID:     uuid.New(),
		DeliveredBy: "driver",
		ReceivedBy:  "storekeeper",
	}
	saved, err := repo.Save(ctx, pod)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, saved.ID)

	found, err := repo.FindByOrderID(ctx, pod.OrderID)
	require.NoError(t, err)
	require.Equal(t, saved.ID, found.ID)
}

func TestFileTemplateRepository_SingleTemplate(t *testing.T) {
	repo := NewOrderFileTemplateRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx)
	require.ErrorIs(t, err, ports.ErrNotFound)

	first := domain.DefaultTemplate()
	saved, err := repo.Save(ctx, first)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, saved.ID)

	second := domain.DefaultTemplate()
	second.FilePrefix = "ORD"
	_, err = repo.Save(ctx, second)
	require.NoError(t, err)

	current, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "ORD", current.FilePrefix, "saving replaces the single template")
}
