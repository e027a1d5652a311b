package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Reference-data projections of entities owned by the external
// reference-data service. Only the fields this service reads are carried.

type Facility struct {
	ID   uuid.UUID
	Code string
	Name string
}

type Program struct {
	ID   uuid.UUID
	Code string
	Name string
}

type Orderable struct {
	ID          uuid.UUID
	ProductCode string
	Name        string
}

type User struct {
	ID       uuid.UUID
	Username string
	Email    string
}

type ProcessingPeriod struct {
	ID        uuid.UUID
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// ReferenceDataClient looks up reference entities by id. A (nil, nil) return
// means the entity does not exist; callers decide whether absence is an
// error.
type ReferenceDataClient interface {
	FindFacility(ctx context.Context, id uuid.UUID) (*Facility, error)
	FindProgram(ctx context.Context, id uuid.UUID) (*Program, error)
	FindOrderable(ctx context.Context, id uuid.UUID) (*Orderable, error)
	FindUser(ctx context.Context, id uuid.UUID) (*User, error)
	FindPeriod(ctx context.Context, id uuid.UUID) (*ProcessingPeriod, error)
}
