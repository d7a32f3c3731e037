package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/gemstok/inventory/internal/domain/shared"
)

// Stock opname event routing keys.
const (
	EventTypeStockOpnameCreated       = "stock.opname.created"
	EventTypeStockOpnameUpdated       = "stock.opname.updated"
	EventTypeStockOpnameDeleted       = "stock.opname.deleted"
	EventTypeStockOpnameDetailCreated = "stock.opname.detail.created"
	EventTypeStockOpnameDetailUpdated = "stock.opname.detail.updated"
	EventTypeStockOpnameApproved      = "stock.opname.approved"
	EventTypeStockOpnameDisapproved   = "stock.opname.disapproved"
)

// StockOpnameState is the full opname state carried by replication events.
type StockOpnameState struct {
	ID          uuid.UUID    `json:"id"`
	StoreID     uuid.UUID    `json:"store_id"`
	CategoryID  uuid.UUID    `json:"category_id"`
	TransDate   time.Time    `json:"trans_date"`
	Status      OpnameStatus `json:"status"`
	Description string       `json:"description"`
	CreatedBy   uuid.UUID    `json:"created_by"`
	ApproveBy   *uuid.UUID   `json:"approve_by"`
	ApproveAt   *time.Time   `json:"approve_at"`
	Version     int          `json:"version"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// StockOpnameDetailState is the full detail state carried by detail events.
type StockOpnameDetailState struct {
	ID            uuid.UUID `json:"id"`
	StockOpnameID uuid.UUID `json:"stock_opname_id"`
	ProductCodeID uuid.UUID `json:"product_code_id"`
	Scanned       bool      `json:"scanned"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func opnameStateOf(o *StockOpname) StockOpnameState {
	return StockOpnameState{
		ID:          o.ID,
		StoreID:     o.StoreID,
		CategoryID:  o.CategoryID,
		TransDate:   o.TransDate,
		Status:      o.Status,
		Description: o.Description,
		CreatedBy:   o.CreatedBy,
		ApproveBy:   o.ApproveBy,
		ApproveAt:   o.ApproveAt,
		Version:     o.Version,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func detailStateOf(d *StockOpnameDetail) StockOpnameDetailState {
	return StockOpnameDetailState{
		ID:            d.ID,
		StockOpnameID: d.StockOpnameID,
		ProductCodeID: d.ProductCodeID,
		Scanned:       d.Scanned,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// StockOpnameCreatedEvent replicates a newly opened audit.
type StockOpnameCreatedEvent struct {
	shared.BaseDomainEvent
	Data StockOpnameState `json:"data"`
}

func NewStockOpnameCreatedEvent(o *StockOpname, actorID uuid.UUID) *StockOpnameCreatedEvent {
	return &StockOpnameCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockOpnameCreated, o.ID, "StockOpname", actorID),
		Data:            opnameStateOf(o),
	}
}

func (e *StockOpnameCreatedEvent) EventType() string { return EventTypeStockOpnameCreated }

// StockOpnameUpdatedEvent replicates the opname header after a change.
type StockOpnameUpdatedEvent struct {
	shared.BaseDomainEvent
	Data StockOpnameState `json:"data"`
}

func NewStockOpnameUpdatedEvent(o *StockOpname, actorID uuid.UUID) *StockOpnameUpdatedEvent {
	return &StockOpnameUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockOpnameUpdated, o.ID, "StockOpname", actorID),
		Data:            opnameStateOf(o),
	}
}

func (e *StockOpnameUpdatedEvent) EventType() string { return EventTypeStockOpnameUpdated }

// StockOpnameDeletedEvent replicates an audit deletion.
type StockOpnameDeletedEvent struct {
	shared.BaseDomainEvent
	Data StockOpnameState `json:"data"`
}

func NewStockOpnameDeletedEvent(o *StockOpname, actorID uuid.UUID) *StockOpnameDeletedEvent {
	return &StockOpnameDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockOpnameDeleted, o.ID, "StockOpname", actorID),
		Data:            opnameStateOf(o),
	}
}

func (e *StockOpnameDeletedEvent) EventType() string { return EventTypeStockOpnameDeleted }

// StockOpnameDetailCreatedEvent replicates one frozen candidate.
type StockOpnameDetailCreatedEvent struct {
	shared.BaseDomainEvent
	Data StockOpnameDetailState `json:"data"`
}

func NewStockOpnameDetailCreatedEvent(o *StockOpname, d *StockOpnameDetail, actorID uuid.UUID) *StockOpnameDetailCreatedEvent {
	return &StockOpnameDetailCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockOpnameDetailCreated, o.ID, "StockOpname", actorID),
		Data:            detailStateOf(d),
	}
}

func (e *StockOpnameDetailCreatedEvent) EventType() string { return EventTypeStockOpnameDetailCreated }

// StockOpnameDetailUpdatedEvent replicates a scan result.
type StockOpnameDetailUpdatedEvent struct {
	shared.BaseDomainEvent
	Data StockOpnameDetailState `json:"data"`
}

func NewStockOpnameDetailUpdatedEvent(o *StockOpname, d *StockOpnameDetail, actorID uuid.UUID) *StockOpnameDetailUpdatedEvent {
	return &StockOpnameDetailUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockOpnameDetailUpdated, o.ID, "StockOpname", actorID),
		Data:            detailStateOf(d),
	}
}

func (e *StockOpnameDetailUpdatedEvent) EventType() string { return EventTypeStockOpnameDetailUpdated }

// StockOpnameApprovedData is the approved notification payload.
type StockOpnameApprovedData struct {
	OpnameID  uuid.UUID          `json:"opname_id"`
	TransDate time.Time          `json:"trans_date"`
	Lost      []ProductCodeState `json:"lost"`
}

// StockOpnameApprovedEvent notifies that an audit closed, carrying the pieces
// flagged as lost.
type StockOpnameApprovedEvent struct {
	shared.BaseDomainEvent
	Data StockOpnameApprovedData `json:"data"`
}

func NewStockOpnameApprovedEvent(o *StockOpname, lost []ProductCodeState, actorID uuid.UUID) *StockOpnameApprovedEvent {
	return &StockOpnameApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockOpnameApproved, o.ID, "StockOpname", actorID),
		Data: StockOpnameApprovedData{
			OpnameID:  o.ID,
			TransDate: o.TransDate,
			Lost:      lost,
		},
	}
}

func (e *StockOpnameApprovedEvent) EventType() string { return EventTypeStockOpnameApproved }

// StockOpnameDisapprovedData is the disapproved notification payload.
type StockOpnameDisapprovedData struct {
	OpnameID uuid.UUID          `json:"opname_id"`
	Reverted []ProductCodeState `json:"reverted"`
}

// StockOpnameDisapprovedEvent notifies that an approved audit was rolled
// back, carrying the pieces restored to stock.
type StockOpnameDisapprovedEvent struct {
	shared.BaseDomainEvent
	Data StockOpnameDisapprovedData `json:"data"`
}

func NewStockOpnameDisapprovedEvent(o *StockOpname, reverted []ProductCodeState, actorID uuid.UUID) *StockOpnameDisapprovedEvent {
	return &StockOpnameDisapprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockOpnameDisapproved, o.ID, "StockOpname", actorID),
		Data: StockOpnameDisapprovedData{
			OpnameID: o.ID,
			Reverted: reverted,
		},
	}
}

func (e *StockOpnameDisapprovedEvent) EventType() string { return EventTypeStockOpnameDisapproved }
