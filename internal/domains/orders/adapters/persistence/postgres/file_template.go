package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

var _ ports.OrderFileTemplateRepository = (*OrderFileTemplateRepository)(nil)

// OrderFileTemplateRepository stores the single order file template. The
// column definitions are kept as position-aligned array columns so the
// template reads and writes as one row.
type OrderFileTemplateRepository struct {
	db *gorm.DB
}

func NewOrderFileTemplateRepository(db *gorm.DB) *OrderFileTemplateRepository {
	repo := &OrderFileTemplateRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&fileTemplateRecord{})
	}
	return repo
}

type fileTemplateRecord struct {
	ID            uuid.UUID      `gorm:"primaryKey;column:id;type:uuid"`
	FilePrefix    string         `gorm:"column:file_prefix;type:varchar(16)"`
	HeaderInFile  bool           `gorm:"column:header_in_file"`
	ColumnIDs     pq.StringArray `gorm:"column:column_ids;type:text[]"`
	ColumnOpen    pq.BoolArray   `gorm:"column:column_open;type:boolean[]"`
	ColumnLabels  pq.StringArray `gorm:"column:column_labels;type:text[]"`
	ColumnKeys    pq.StringArray `gorm:"column:column_keys;type:text[]"`
	ColumnFormats pq.StringArray `gorm:"column:column_formats;type:text[]"`
	Positions     pq.Int64Array  `gorm:"column:column_positions;type:integer[]"`
}

func (fileTemplateRecord) TableName() string { return "order_file_templates" }

func (r *OrderFileTemplateRepository) Get(ctx context.Context) (*domain.OrderFileTemplate, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record fileTemplateRecord
	if err := r.db.WithContext(ctx).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

func (r *OrderFileTemplateRepository) Save(ctx context.Context, template *domain.OrderFileTemplate) (*domain.OrderFileTemplate, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if template == nil {
		return nil, errors.New("order file template is nil")
	}
	record := toFileTemplateRecord(template)
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Single-template invariant: replace whatever row exists.
		if err := tx.Where("id <> ?", record.ID).Delete(&fileTemplateRecord{}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx)
}

func (r *OrderFileTemplateRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order file template repository not configured")
	}
	return nil
}

func toFileTemplateRecord(template *domain.OrderFileTemplate) fileTemplateRecord {
	record := fileTemplateRecord{
		ID:           template.ID,
		FilePrefix:   template.FilePrefix,
		HeaderInFile: template.HeaderInFile,
	}
	for _, col := range template.Columns {
		id := col.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		record.ColumnIDs = append(record.ColumnIDs, id.String())
		record.ColumnOpen = append(record.ColumnOpen, col.Open)
		record.ColumnLabels = append(record.ColumnLabels, col.ColumnLabel)
		record.ColumnKeys = append(record.ColumnKeys, col.DataFieldKey)
		record.ColumnFormats = append(record.ColumnFormats, col.Format)
		record.Positions = append(record.Positions, int64(col.Position))
	}
	return record
}

func (r fileTemplateRecord) toDomain() (*domain.OrderFileTemplate, error) {
	if len(r.ColumnIDs) != len(r.ColumnOpen) ||
		len(r.ColumnIDs) != len(r.ColumnLabels) ||
		len(r.ColumnIDs) != len(r.ColumnKeys) ||
		len(r.ColumnIDs) != len(r.ColumnFormats) ||
		len(r.ColumnIDs) != len(r.Positions) {
		return nil, errors.New("order file template row has misaligned column arrays")
	}
	template := &domain.OrderFileTemplate{
		ID:           r.ID,
		FilePrefix:   r.FilePrefix,
		HeaderInFile: r.HeaderInFile,
	}
	for i := range r.ColumnIDs {
		id, err := uuid.Parse(r.ColumnIDs[i])
		if err != nil {
			return nil, err
		}
		template.Columns = append(template.Columns, domain.OrderFileColumn{
			ID:           id,
			Open:         r.ColumnOpen[i],
			ColumnLabel:  r.ColumnLabels[i],
			DataFieldKey: r.ColumnKeys[i],
			Format:       r.ColumnFormats[i],
			Position:     int(r.Positions[i]),
		})
	}
	return template, nil
}
