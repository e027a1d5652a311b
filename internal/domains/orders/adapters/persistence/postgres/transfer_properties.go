package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

var _ ports.TransferPropertiesRepository = (*TransferPropertiesRepository)(nil)

// TransferPropertiesRepository stores per-facility transfer configuration.
// Both protocol variants share one table; the protocol column tells which
// fields are meaningful.
type TransferPropertiesRepository struct {
	db *gorm.DB
}

func NewTransferPropertiesRepository(db *gorm.DB) *TransferPropertiesRepository {
	repo := &TransferPropertiesRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&transferPropertiesRecord{})
	}
	return repo
}

type transferPropertiesRecord struct {
	ID              uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	FacilityID      uuid.UUID `gorm:"column:facility_id;type:uuid;uniqueIndex"`
	Protocol        string    `gorm:"column:protocol;type:varchar(16)"`
	Host            string    `gorm:"column:host;type:varchar(255)"`
	Port            int       `gorm:"column:port"`
	Username        string    `gorm:"column:username;type:varchar(255)"`
	Password        string    `gorm:"column:password;type:varchar(255)"`
	RemoteDirectory string    `gorm:"column:remote_directory;type:varchar(255)"`
	LocalDirectory  string    `gorm:"column:local_directory;type:varchar(255)"`
	PassiveMode     bool      `gorm:"column:passive_mode"`
	LocalPath       string    `gorm:"column:local_path;type:varchar(255)"`
}

func (transferPropertiesRecord) TableName() string { return "transfer_properties" }

func (r *TransferPropertiesRepository) Save(ctx context.Context, props *domain.TransferProperties) (*domain.TransferProperties, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if props == nil {
		return nil, errors.New("transfer properties are nil")
	}
	record := toTransferPropertiesRecord(props)
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	var existing transferPropertiesRecord
	err := r.db.WithContext(ctx).First(&existing, "facility_id = ? AND id <> ?", record.FacilityID, record.ID).Error
	if err == nil {
		return nil, ports.ErrDuplicateFacility
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *TransferPropertiesRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TransferProperties, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record transferPropertiesRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *TransferPropertiesRepository) FindByFacilityID(ctx context.Context, facilityID uuid.UUID) (*domain.TransferProperties, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record transferPropertiesRecord
	if err := r.db.WithContext(ctx).First(&record, "facility_id = ?", facilityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *TransferPropertiesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&transferPropertiesRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *TransferPropertiesRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres transfer properties repository not configured")
	}
	return nil
}

func toTransferPropertiesRecord(props *domain.TransferProperties) transferPropertiesRecord {
	record := transferPropertiesRecord{
		ID:         props.ID,
		FacilityID: props.FacilityID,
		Protocol:   string(props.Protocol),
	}
	if props.FTP != nil {
		record.Host = props.FTP.Host
		record.Port = props.FTP.Port
		record.Username = props.FTP.Username
		record.Password = props.FTP.Password
		record.RemoteDirectory = props.FTP.RemoteDirectory
		record.LocalDirectory = props.FTP.LocalDirectory
		record.PassiveMode = props.FTP.PassiveMode
	}
	if props.Local != nil {
		record.LocalPath = props.Local.Path
	}
	return record
}

func (r transferPropertiesRecord) toDomain() *domain.TransferProperties {
	props := &domain.TransferProperties{
		ID:         r.ID,
		FacilityID: r.FacilityID,
		Protocol:   domain.TransferProtocol(r.Protocol),
	}
	switch props.Protocol {
	case domain.ProtocolFTP:
		props.FTP = &domain.FTPProperties{
			Host:            r.Host,
			Port:            r.Port,
			Username:        r.Username,
			Password:        r.Password,
			RemoteDirectory: r.RemoteDirectory,
			LocalDirectory:  r.LocalDirectory,
			PassiveMode:     r.PassiveMode,
		}
	case domain.ProtocolLocal:
		props.Local = &domain.LocalProperties{Path: r.LocalPath}
	}
	return props
}
