package migrations

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the fulfillment schema. Intended to replace adapter-level
// automigrate in deployments that want a single migration entry point.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&orderLineItemRecord{},
		&podRecord{},
		&podLineItemRecord{},
		&transferPropertiesRecord{},
		&fileTemplateRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter.
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

// Proof of delivery schema mirrors the orders Postgres adapter.
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

// Transfer properties hold both protocol variants in one row.
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

// The order file template stores its columns as position-aligned arrays.
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
