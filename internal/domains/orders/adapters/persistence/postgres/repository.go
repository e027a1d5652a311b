// Package postgres persists the fulfillment aggregates in PostgreSQL
// using GORM.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository stores the order aggregate across the orders and
// order_line_items tables.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository wires a PostgreSQL-backed order repository. Caller
// manages the DB lifecycle.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	repo := &OrderRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &orderLineItemRecord{})
	}
	return repo
}

type orderRecord struct {
	ID                   uuid.UUID       `gorm:"primaryKey;column:id;type:uuid"`
	ExternalID           uuid.UUID       `gorm:"column:external_id;type:uuid;index"`
	Emergency            bool            `gorm:"column:emergency"`
	FacilityID           uuid.UUID       `gorm:"column:facility_id;type:uuid"`
	ProgramID            uuid.UUID       `gorm:"column:program_id;type:uuid;index"`
	ProcessingPeriodID   uuid.UUID       `gorm:"column:processing_period_id;type:uuid;index"`
	SupervisoryNodeID    uuid.UUID       `gorm:"column:supervisory_node_id;type:uuid"`
	OrderCode            string          `gorm:"column:order_code;type:varchar(64);uniqueIndex"`
	QuotedCost           decimal.Decimal `gorm:"column:quoted_cost;type:numeric(19,4)"`
	Status               string          `gorm:"column:status;type:varchar(32);index"`
	CreatedByID          uuid.UUID       `gorm:"column:created_by_id;type:uuid"`
	CreatedDate          time.Time       `gorm:"column:created_date"`
	RequestingFacilityID uuid.UUID       `gorm:"column:requesting_facility_id;type:uuid;index"`
	ReceivingFacilityID  uuid.UUID       `gorm:"column:receiving_facility_id;type:uuid"`
	SupplyingFacilityID  uuid.UUID       `gorm:"column:supplying_facility_id;type:uuid;index"`
	UpdatedAt            time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderLineItemRecord struct {
	ID               uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	OrderID          uuid.UUID `gorm:"column:order_id;type:uuid;index"`
	OrderableID      uuid.UUID `gorm:"column:orderable_id;type:uuid"`
	OrderedQuantity  int64     `gorm:"column:ordered_quantity"`
	FilledQuantity   int64     `gorm:"column:filled_quantity"`
	ApprovedQuantity int64     `gorm:"column:approved_quantity"`
	PacksToShip      int64     `gorm:"column:packs_to_ship"`
}

func (orderLineItemRecord) TableName() string { return "order_line_items" }

// Save upserts the order and replaces its line items in one transaction.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toOrderRecord(order)
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	items := make([]orderLineItemRecord, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		rec := toLineItemRecord(&item)
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		rec.OrderID = record.ID
		items = append(items, rec)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&record).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", record.ID).Delete(&orderLineItemRecord{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order together with its line items.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var items []orderLineItemRecord
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Find(&items).Error; err != nil {
		return nil, err
	}
	return record.toDomain(items), nil
}

func (r *OrderRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&orderLineItemRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&orderRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("created_date").Find(&records).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, records)
}

// Search applies the conjunctive filter set as WHERE clauses.
func (r *OrderRepository) Search(ctx context.Context, params ports.SearchParams) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&orderRecord{})
	if params.SupplyingFacilityID != nil {
		query = query.Where("supplying_facility_id = ?", *params.SupplyingFacilityID)
	}
	if params.RequestingFacilityID != nil {
		query = query.Where("requesting_facility_id = ?", *params.RequestingFacilityID)
	}
	if params.ProgramID != nil {
		query = query.Where("program_id = ?", *params.ProgramID)
	}
	if params.ProcessingPeriodID != nil {
		query = query.Where("processing_period_id = ?", *params.ProcessingPeriodID)
	}
	if len(params.Statuses) > 0 {
		statuses := make([]string, 0, len(params.Statuses))
		for _, status := range params.Statuses {
			statuses = append(statuses, string(status))
		}
		query = query.Where("status IN ?", statuses)
	}
	var records []orderRecord
	if err := query.Order("created_date").Find(&records).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, records)
}

func (r *OrderRepository) hydrate(ctx context.Context, records []orderRecord) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		var items []orderLineItemRecord
		if err := r.db.WithContext(ctx).Where("order_id = ?", records[i].ID).Find(&items).Error; err != nil {
			return nil, err
		}
		orders = append(orders, records[i].toDomain(items))
	}
	return orders, nil
}

func (r *OrderRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toOrderRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:                   order.ID,
		ExternalID:           order.ExternalID,
		Emergency:            order.Emergency,
		FacilityID:           order.FacilityID,
		ProgramID:            order.ProgramID,
		ProcessingPeriodID:   order.ProcessingPeriodID,
		SupervisoryNodeID:    order.SupervisoryNodeID,
		OrderCode:            order.OrderCode,
		QuotedCost:           order.QuotedCost,
		Status:               string(order.Status),
		CreatedByID:          order.CreatedByID,
		CreatedDate:          order.CreatedDate,
		RequestingFacilityID: order.RequestingFacilityID,
		ReceivingFacilityID:  order.ReceivingFacilityID,
		SupplyingFacilityID:  order.SupplyingFacilityID,
	}
}

func toLineItemRecord(item *domain.OrderLineItem) orderLineItemRecord {
	return orderLineItemRecord{
		ID:               item.ID,
		OrderID:          item.OrderID,
		OrderableID:      item.OrderableID,
		OrderedQuantity:  item.OrderedQuantity,
		FilledQuantity:   item.FilledQuantity,
		ApprovedQuantity: item.ApprovedQuantity,
		PacksToShip:      item.PacksToShip,
	}
}

func (r orderRecord) toDomain(items []orderLineItemRecord) *domain.Order {
	order := &domain.Order{
		ID:                   r.ID,
		ExternalID:           r.ExternalID,
		Emergency:            r.Emergency,
		FacilityID:           r.FacilityID,
		ProgramID:            r.ProgramID,
		ProcessingPeriodID:   r.ProcessingPeriodID,
		SupervisoryNodeID:    r.SupervisoryNodeID,
		OrderCode:            r.OrderCode,
		QuotedCost:           r.QuotedCost,
		Status:               domain.OrderStatus(r.Status),
		CreatedByID:          r.CreatedByID,
		CreatedDate:          r.CreatedDate,
		RequestingFacilityID: r.RequestingFacilityID,
		ReceivingFacilityID:  r.ReceivingFacilityID,
		SupplyingFacilityID:  r.SupplyingFacilityID,
	}
	for _, item := range items {
		order.LineItems = append(order.LineItems, domain.OrderLineItem{
			ID:               item.ID,
			OrderID:          item.OrderID,
			OrderableID:      item.OrderableID,
			OrderedQuantity:  item.OrderedQuantity,
			FilledQuantity:   item.FilledQuantity,
			ApprovedQuantity: item.ApprovedQuantity,
			PacksToShip:      item.PacksToShip,
		})
	}
	return order
}
