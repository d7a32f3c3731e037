package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gemstok/inventory/internal/domain/shared"
)

// Product code event routing keys.
const (
	EventTypeProductCodeCreated = "product.code.created"
	EventTypeProductCodeUpdated = "product.code.updated"
	EventTypeProductCodeDeleted = "product.code.deleted"
)

// ProductCodeState is the full entity state carried by product code events.
type ProductCodeState struct {
	ID             uuid.UUID       `json:"id"`
	Barcode        string          `json:"barcode"`
	ProductID      uuid.UUID       `json:"product_id"`
	Status         CodeStatus      `json:"status"`
	Weight         decimal.Decimal `json:"weight"`
	FixedPrice     decimal.Decimal `json:"fixed_price"`
	BuyPrice       decimal.Decimal `json:"buy_price"`
	TakenOutReason TakenOutReason  `json:"taken_out_reason"`
	TakenOutBy     *uuid.UUID      `json:"taken_out_by"`
	TakenOutAt     *time.Time      `json:"taken_out_at"`
	DeletedAt      *time.Time      `json:"deleted_at"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// State snapshots the current entity fields. Event payloads and the
// reconciliation engine both read codes through this shape.
func (c *ProductCode) State() ProductCodeState {
	return ProductCodeState{
		ID:             c.ID,
		Barcode:        c.Barcode,
		ProductID:      c.ProductID,
		Status:         c.Status,
		Weight:         c.Weight,
		FixedPrice:     c.FixedPrice,
		BuyPrice:       c.BuyPrice,
		TakenOutReason: c.TakenOutReason,
		TakenOutBy:     c.TakenOutBy,
		TakenOutAt:     c.TakenOutAt,
		DeletedAt:      c.DeletedAt,
		Version:        c.Version,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ProductCodeCreatedEvent is published when a piece is minted.
type ProductCodeCreatedEvent struct {
	shared.BaseDomainEvent
	Data ProductCodeState `json:"data"`
}

func NewProductCodeCreatedEvent(c *ProductCode, actorID uuid.UUID) *ProductCodeCreatedEvent {
	return &ProductCodeCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCodeCreated, c.ID, "ProductCode", actorID),
		Data:            c.State(),
	}
}

func (e *ProductCodeCreatedEvent) EventType() string { return EventTypeProductCodeCreated }

// ProductCodeUpdatedEvent is published on every state change of a piece,
// including audit take-outs and their reverts.
type ProductCodeUpdatedEvent struct {
	shared.BaseDomainEvent
	Data ProductCodeState `json:"data"`
}

func NewProductCodeUpdatedEvent(c *ProductCode, actorID uuid.UUID) *ProductCodeUpdatedEvent {
	return &ProductCodeUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCodeUpdated, c.ID, "ProductCode", actorID),
		Data:            c.State(),
	}
}

func (e *ProductCodeUpdatedEvent) EventType() string { return EventTypeProductCodeUpdated }

// ProductCodeDeletedEvent is published when a piece is soft-deleted.
type ProductCodeDeletedEvent struct {
	shared.BaseDomainEvent
	Data ProductCodeState `json:"data"`
}

func NewProductCodeDeletedEvent(c *ProductCode, actorID uuid.UUID) *ProductCodeDeletedEvent {
	return &ProductCodeDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCodeDeleted, c.ID, "ProductCode", actorID),
		Data:            c.State(),
	}
}

func (e *ProductCodeDeletedEvent) EventType() string { return EventTypeProductCodeDeleted }
