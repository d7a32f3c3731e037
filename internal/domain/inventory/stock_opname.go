package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gemstok/inventory/internal/domain/shared"
)

// OpnameStatus is the stock opname lifecycle state.
type OpnameStatus int

const (
	OpnameStatusOpen     OpnameStatus = 0
	OpnameStatusApproved OpnameStatus = 1
)

// StockOpnameDetail is one candidate piece frozen into an opname at creation.
// The candidate set never changes afterwards; scanning only toggles Scanned.
type StockOpnameDetail struct {
	shared.BaseEntity
	StockOpnameID uuid.UUID `json:"stock_opname_id"`
	ProductCodeID uuid.UUID `json:"product_code_id"`
	Scanned       bool      `json:"scanned"`
}

// StockOpname is a physical stock audit over one store and category.
type StockOpname struct {
	shared.BaseAggregateRoot
	StoreID     uuid.UUID            `json:"store_id"`
	CategoryID  uuid.UUID            `json:"category_id"`
	TransDate   time.Time            `json:"trans_date"`
	Status      OpnameStatus         `json:"status"`
	Description string               `json:"description"`
	CreatedBy   uuid.UUID            `json:"created_by"`
	ApproveBy   *uuid.UUID           `json:"approve_by"`
	ApproveAt   *time.Time           `json:"approve_at"`
	Details     []*StockOpnameDetail `json:"details"`
}

// NewStockOpname opens an audit. Candidates are added afterwards with
// AddCandidate, then the created event is raised by Freeze.
func NewStockOpname(storeID, categoryID uuid.UUID, transDate time.Time, description string, actorID uuid.UUID) (*StockOpname, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "store is required")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "category is required")
	}
	if transDate.IsZero() {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "transaction date is required")
	}
	return &StockOpname{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		CategoryID:        categoryID,
		TransDate:         transDate,
		Status:            OpnameStatusOpen,
		Description:       description,
		CreatedBy:         actorID,
	}, nil
}

// AddCandidate freezes one product code into the audit.
func (o *StockOpname) AddCandidate(productCodeID uuid.UUID) error {
	if o.Status != OpnameStatusOpen {
		return shared.NewDomainError(shared.ErrCodeInvalidState, "stock opname is not open")
	}
	if o.DetailFor(productCodeID) != nil {
		return shared.NewDomainError(shared.ErrCodeAlreadyExists, "product code already part of this opname")
	}
	o.Details = append(o.Details, &StockOpnameDetail{
		BaseEntity:    shared.NewBaseEntity(),
		StockOpnameID: o.ID,
		ProductCodeID: productCodeID,
	})
	return nil
}

// Freeze raises the created event plus one detail event per candidate.
// Called once, after all candidates are added.
func (o *StockOpname) Freeze(actorID uuid.UUID) {
	o.AddDomainEvent(NewStockOpnameCreatedEvent(o, actorID))
	for _, d := range o.Details {
		o.AddDomainEvent(NewStockOpnameDetailCreatedEvent(o, d, actorID))
	}
}

// DetailFor returns the detail for a product code, or nil when the code was
// not a candidate at creation time.
func (o *StockOpname) DetailFor(productCodeID uuid.UUID) *StockOpnameDetail {
	for _, d := range o.Details {
		if d.ProductCodeID == productCodeID {
			return d
		}
	}
	return nil
}

// SetScanned records a scan result for a candidate. Repeating the same scan
// is a no-op, so redelivered or double-submitted scans converge.
func (o *StockOpname) SetScanned(productCodeID uuid.UUID, scanned bool, actorID uuid.UUID) error {
	if o.Status != OpnameStatusOpen {
		return shared.NewDomainError(shared.ErrCodeInvalidState, "stock opname is not open")
	}
	d := o.DetailFor(productCodeID)
	if d == nil {
		return shared.NewDomainError(shared.ErrCodeNotFound, "product code is not part of this opname")
	}
	if d.Scanned == scanned {
		return nil
	}
	d.Scanned = scanned
	d.Touch()
	o.AddDomainEvent(NewStockOpnameDetailUpdatedEvent(o, d, actorID))
	return nil
}

// UpdateInfo changes the editable header fields while the audit is open.
func (o *StockOpname) UpdateInfo(transDate time.Time, description string, actorID uuid.UUID) error {
	if o.Status != OpnameStatusOpen {
		return shared.NewDomainError(shared.ErrCodeInvalidState, "stock opname is not open")
	}
	if transDate.IsZero() {
		return shared.NewDomainError(shared.ErrCodeInvalidInput, "transaction date is required")
	}
	o.TransDate = transDate
	o.Description = description
	o.IncrementVersion()
	o.Touch()
	o.AddDomainEvent(NewStockOpnameUpdatedEvent(o, actorID))
	return nil
}

// UnscannedCodeIDs lists the candidates that were never scanned.
func (o *StockOpname) UnscannedCodeIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, d := range o.Details {
		if !d.Scanned {
			ids = append(ids, d.ProductCodeID)
		}
	}
	return ids
}

// Approve closes the audit. The lost list carries the pieces the caller
// flagged as audit-lost; it is embedded in the approved notification.
func (o *StockOpname) Approve(lost []ProductCodeState, actorID uuid.UUID, at time.Time) error {
	if o.Status != OpnameStatusOpen {
		return shared.NewDomainError(shared.ErrCodeInvalidState, "only an open stock opname can be approved")
	}
	o.Status = OpnameStatusApproved
	o.ApproveBy = &actorID
	o.ApproveAt = &at
	o.IncrementVersion()
	o.AddDomainEvent(NewStockOpnameApprovedEvent(o, lost, actorID))
	o.AddDomainEvent(NewStockOpnameUpdatedEvent(o, actorID))
	return nil
}

// Disapprove reopens an approved audit. The reverted list carries the pieces
// restored to stock. ApproveBy/ApproveAt are overwritten with the reopening
// actor and time so the audit trail records who rolled the approval back.
func (o *StockOpname) Disapprove(reverted []ProductCodeState, actorID uuid.UUID, at time.Time) error {
	if o.Status != OpnameStatusApproved {
		return shared.NewDomainError(shared.ErrCodeInvalidState, "only an approved stock opname can be disapproved")
	}
	o.Status = OpnameStatusOpen
	o.ApproveBy = &actorID
	o.ApproveAt = &at
	o.IncrementVersion()
	o.AddDomainEvent(NewStockOpnameDisapprovedEvent(o, reverted, actorID))
	o.AddDomainEvent(NewStockOpnameUpdatedEvent(o, actorID))
	return nil
}

// MarkDeleted raises the deleted event. Approved audits cannot be deleted;
// they must be disapproved first.
func (o *StockOpname) MarkDeleted(actorID uuid.UUID) error {
	if o.Status != OpnameStatusOpen {
		return shared.NewDomainError(shared.ErrCodeInvalidState, "only an open stock opname can be deleted")
	}
	o.AddDomainEvent(NewStockOpnameDeletedEvent(o, actorID))
	return nil
}

// StockOpnameRepository persists opnames together with their details.
type StockOpnameRepository interface {
	Save(ctx context.Context, opname *StockOpname) error
	// Update persists the header with an optimistic version check and returns
	// shared.ErrConcurrencyConflict when another writer got there first.
	Update(ctx context.Context, opname *StockOpname) error
	SaveDetail(ctx context.Context, detail *StockOpnameDetail) error
	Upsert(ctx context.Context, opname *StockOpname) error
	UpsertDetail(ctx context.Context, detail *StockOpnameDetail) error
	FindByID(ctx context.Context, id uuid.UUID) (*StockOpname, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*StockOpname], error)
	Delete(ctx context.Context, id uuid.UUID) error
}
