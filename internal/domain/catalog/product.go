package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gemstok/inventory/internal/domain/shared"
)

// ProductStatus marks whether a product is sellable.
type ProductStatus int

const (
	ProductStatusInactive ProductStatus = 0
	ProductStatusActive   ProductStatus = 1
)

// Product is the locally-owned product master. Barcoded pieces of a product
// live in the inventory package as product codes.
type Product struct {
	shared.BaseAggregateRoot
	Code        string        `json:"code"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProductStatus `json:"status"`
	TypeID      uuid.UUID     `json:"type_id"`
	StoreID     uuid.UUID     `json:"store_id"`
	DeletedAt   *time.Time    `json:"deleted_at"`
}

// NewProduct creates an active product and raises the created event.
func NewProduct(code, name, description string, typeID, storeID, actorID uuid.UUID) (*Product, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "product code is required")
	}
	if name == "" {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "product name is required")
	}
	if typeID == uuid.Nil || storeID == uuid.Nil {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "product type and store are required")
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Description:       description,
		Status:            ProductStatusActive,
		TypeID:            typeID,
		StoreID:           storeID,
	}
	p.AddDomainEvent(NewProductCreatedEvent(p, actorID))
	return p, nil
}

// Update applies new master data and raises the updated event.
func (p *Product) Update(name, description string, status ProductStatus, actorID uuid.UUID) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(shared.ErrCodeInvalidInput, "product name is required")
	}
	if p.DeletedAt != nil {
		return shared.NewDomainError(shared.ErrCodeInvalidState, "product %s is deleted", p.Code)
	}
	p.Name = name
	p.Description = description
	p.Status = status
	p.IncrementVersion()
	p.AddDomainEvent(NewProductUpdatedEvent(p, actorID))
	return nil
}

// MarkDeleted soft-deletes the product and raises the deleted event.
func (p *Product) MarkDeleted(actorID uuid.UUID) error {
	if p.DeletedAt != nil {
		return shared.NewDomainError(shared.ErrCodeInvalidState, "product %s is already deleted", p.Code)
	}
	now := time.Now()
	p.DeletedAt = &now
	p.IncrementVersion()
	p.AddDomainEvent(NewProductDeletedEvent(p, actorID))
	return nil
}

// ProductRepository persists owned products.
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Product], error)
	Delete(ctx context.Context, id uuid.UUID) error
}
