package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/gemstok/inventory/internal/domain/shared"
)

// Product event routing keys.
const (
	EventTypeProductCreated = "product.created"
	EventTypeProductUpdated = "product.updated"
	EventTypeProductDeleted = "product.deleted"
)

// ProductState is the full entity state carried by product events. Consumers
// upsert the whole record, so every replicated field is present.
type ProductState struct {
	ID          uuid.UUID     `json:"id"`
	Code        string        `json:"code"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProductStatus `json:"status"`
	TypeID      uuid.UUID     `json:"type_id"`
	StoreID     uuid.UUID     `json:"store_id"`
	DeletedAt   *time.Time    `json:"deleted_at"`
	Version     int           `json:"version"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func stateOf(p *Product) ProductState {
	return ProductState{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		TypeID:      p.TypeID,
		StoreID:     p.StoreID,
		DeletedAt:   p.DeletedAt,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProductCreatedEvent is published when a product is created.
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Data ProductState `json:"data"`
}

func NewProductCreatedEvent(p *Product, actorID uuid.UUID) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, p.ID, "Product", actorID),
		Data:            stateOf(p),
	}
}

func (e *ProductCreatedEvent) EventType() string { return EventTypeProductCreated }

// ProductUpdatedEvent is published when product master data changes.
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	Data ProductState `json:"data"`
}

func NewProductUpdatedEvent(p *Product, actorID uuid.UUID) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, p.ID, "Product", actorID),
		Data:            stateOf(p),
	}
}

func (e *ProductUpdatedEvent) EventType() string { return EventTypeProductUpdated }

// ProductDeletedEvent is published when a product is soft-deleted.
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	Data ProductState `json:"data"`
}

func NewProductDeletedEvent(p *Product, actorID uuid.UUID) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, p.ID, "Product", actorID),
		Data:            stateOf(p),
	}
}

func (e *ProductDeletedEvent) EventType() string { return EventTypeProductDeleted }
