package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

var _ ports.ProofOfDeliveryRepository = (*ProofOfDeliveryRepository)(nil)

// ProofOfDeliveryRepository stores proofs of delivery and their lines.
type ProofOfDeliveryRepository struct {
	db *gorm.DB
}

func NewProofOfDeliveryRepository(db *gorm.DB) *ProofOfDeliveryRepository {
	repo := &ProofOfDeliveryRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&podRecord{}, &podLineItemRecord{})
	}
	return repo
}

type podRecord struct {
	ID                 uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	OrderID            uuid.UUID `gorm:"column:order_id;type:uuid;uniqueIndex"`
	DeliveredBy        string    `gorm:"column:delivered_by;type:varchar(255)"`
	ReceivedBy         string    `gorm:"column:received_by;type:varchar(255)"`
	ReceivedDate       time.Time `gorm:"column:received_date"`
	TotalShippedPacks  int64     `gorm:"column:total_shipped_packs"`
	TotalReceivedPacks int64     `gorm:"column:total_received_packs"`
	TotalReturnedPacks int64     `gorm:"column:total_returned_packs"`
}

func (podRecord) TableName() string { return "proofs_of_delivery" }

type podLineItemRecord struct {
	ID                  uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	ProofOfDeliveryID   uuid.UUID `gorm:"column:proof_of_delivery_id;type:uuid;index"`
	OrderableID         uuid.UUID `gorm:"column:orderable_id;type:uuid"`
	PackToShip          int64     `gorm:"column:pack_to_ship"`
	QuantityShipped     int64     `gorm:"column:quantity_shipped"`
	QuantityReceived    int64     `gorm:"column:quantity_received"`
	QuantityReturned    int64     `gorm:"column:quantity_returned"`
	ReplacedProductCode string    `gorm:"column:replaced_product_code;type:varchar(64)"`
	Notes               string    `gorm:"column:notes;type:text"`
}

func (podLineItemRecord) TableName() string { return "proof_of_delivery_line_items" }

func (r *ProofOfDeliveryRepository) Save(ctx context.Context, pod *domain.ProofOfDelivery) (*domain.ProofOfDelivery, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if pod == nil {
		return nil, errors.New("proof of delivery is nil")
	}
	record := toPodRecord(pod)
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	items := make([]podLineItemRecord, 0, len(pod.LineItems))
	for _, item := range pod.LineItems {
		rec := toPodLineItemRecord(&item)
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		rec.ProofOfDeliveryID = record.ID
		items = append(items, rec)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&record).Error; err != nil {
			return err
		}
		if err := tx.Where("proof_of_delivery_id = ?", record.ID).Delete(&podLineItemRecord{}).Error; err != nil {
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

func (r *ProofOfDeliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProofOfDelivery, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record podRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return r.hydrate(ctx, record)
}

func (r *ProofOfDeliveryRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.ProofOfDelivery, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record podRecord
	if err := r.db.WithContext(ctx).First(&record, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.hydrate(ctx, record)
}

func (r *ProofOfDeliveryRepository) hydrate(ctx context.Context, record podRecord) (*domain.ProofOfDelivery, error) {
	var items []podLineItemRecord
	if err := r.db.WithContext(ctx).Where("proof_of_delivery_id = ?", record.ID).Find(&items).Error; err != nil {
		return nil, err
	}
	return record.toDomain(items), nil
}

func (r *ProofOfDeliveryRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres proof of delivery repository not configured")
	}
	return nil
}

func toPodRecord(pod *domain.ProofOfDelivery) podRecord {
	return podRecord{
		ID:                 pod.ID,
		OrderID:            pod.OrderID,
		DeliveredBy:        pod.DeliveredBy,
		ReceivedBy:         pod.ReceivedBy,
		ReceivedDate:       pod.ReceivedDate,
		TotalShippedPacks:  pod.TotalShippedPacks,
		TotalReceivedPacks: pod.TotalReceivedPacks,
		TotalReturnedPacks: pod.TotalReturnedPacks,
	}
}

func toPodLineItemRecord(item *domain.ProofOfDeliveryLineItem) podLineItemRecord {
	return podLineItemRecord{
		ID:                  item.ID,
		ProofOfDeliveryID:   item.ProofOfDeliveryID,
		OrderableID:         item.OrderableID,
		PackToShip:          item.PackToShip,
		QuantityShipped:     item.QuantityShipped,
		QuantityReceived:    item.QuantityReceived,
		QuantityReturned:    item.QuantityReturned,
		ReplacedProductCode: item.ReplacedProductCode,
		Notes:               item.Notes,
	}
}

func (r podRecord) toDomain(items []podLineItemRecord) *domain.ProofOfDelivery {
	pod := &domain.ProofOfDelivery{
		ID:                 r.ID,
		OrderID:            r.OrderID,
		DeliveredBy:        r.DeliveredBy,
		ReceivedBy:         r.ReceivedBy,
		ReceivedDate:       r.ReceivedDate,
		TotalShippedPacks:  r.TotalShippedPacks,
		TotalReceivedPacks: r.TotalReceivedPacks,
		TotalReturnedPacks: r.TotalReturnedPacks,
	}
	for _, item := range items {
		pod.LineItems = append(pod.LineItems, domain.ProofOfDeliveryLineItem{
			ID:                  item.ID,
			ProofOfDeliveryID:   item.ProofOfDeliveryID,
			OrderableID:         item.OrderableID,
			PackToShip:          item.PackToShip,
			QuantityShipped:     item.QuantityShipped,
			QuantityReceived:    item.QuantityReceived,
			QuantityReturned:    item.QuantityReturned,
			ReplacedProductCode: item.ReplacedProductCode,
			Notes:               item.Notes,
		})
	}
	return pod
}
