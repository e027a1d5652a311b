package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

var _ ports.OrderFileTemplateRepository = (*OrderFileTemplateRepository)(nil)

// OrderFileTemplateRepository holds the single order file template in memory.
type OrderFileTemplateRepository struct {
	mu       sync.RWMutex
	template *domain.OrderFileTemplate
}

func NewOrderFileTemplateRepository() *OrderFileTemplateRepository {
	return &OrderFileTemplateRepository{}
}

func cloneTemplate(template *domain.OrderFileTemplate) *domain.OrderFileTemplate {
	clone := *template
	clone.Columns = make([]domain.OrderFileColumn, len(template.Columns))
	copy(clone.Columns, template.Columns)
	return &clone
}

func (r *OrderFileTemplateRepository) Get(_ context.Context) (*domain.OrderFileTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.template == nil {
		return nil, ports.ErrNotFound
	}
	return cloneTemplate(r.template), nil
}

func (r *OrderFileTemplateRepository) Save(_ context.Context, template *domain.OrderFileTemplate) (*domain.OrderFileTemplate, error) {
	if template == nil {
		return nil, errors.New("order file template is nil")
	}
	clone := cloneTemplate(template)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == uuid.Nil {
		clone.ID = uuid.New()
	}
	for i := range clone.Columns {
		if clone.Columns[i].ID == uuid.Nil {
			clone.Columns[i].ID = uuid.New()
		}
	}
	r.template = clone
	return cloneTemplate(clone), nil
}
