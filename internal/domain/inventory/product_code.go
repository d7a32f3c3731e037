package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gemstok/inventory/internal/domain/shared"
)

// CodeStatus tracks where a barcoded piece currently is.
type CodeStatus int

const (
	CodeStatusAvailable     CodeStatus = 0
	CodeStatusSold          CodeStatus = 1
	CodeStatusInTransaction CodeStatus = 2
	CodeStatusTakenOut      CodeStatus = 3
)

// TakenOutReason records why a piece left stock.
type TakenOutReason int

const (
	TakenOutReasonNone   TakenOutReason = 0
	TakenOutReasonManual TakenOutReason = 1
	TakenOutReasonRepair TakenOutReason = 2
	// TakenOutReasonAuditLost is reserved for the stock opname engine. The
	// disapprove path reverts only codes carrying this reason, so manual
	// removals survive an audit rollback.
	TakenOutReasonAuditLost TakenOutReason = 4
)

// ProductCode is one physical, barcoded piece of a product.
type ProductCode struct {
	shared.BaseAggregateRoot
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
}

// NewProductCode mints a piece for a product. The barcode is the product code
// followed by a zero-padded sequence.
func NewProductCode(productID uuid.UUID, productCode string, sequence int, weight, fixedPrice, buyPrice decimal.Decimal, actorID uuid.UUID) (*ProductCode, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "product is required")
	}
	if productCode == "" {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "product code is required")
	}
	if sequence < 1 {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "sequence must be positive")
	}
	if weight.IsNegative() || fixedPrice.IsNegative() || buyPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "weight and prices must not be negative")
	}

	c := &ProductCode{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Barcode:           fmt.Sprintf("%s%04d", productCode, sequence),
		ProductID:         productID,
		Status:            CodeStatusAvailable,
		Weight:            weight,
		FixedPrice:        fixedPrice,
		BuyPrice:          buyPrice,
		TakenOutReason:    TakenOutReasonNone,
	}
	c.AddDomainEvent(NewProductCodeCreatedEvent(c, actorID))
	return c, nil
}

// TakeOut removes an available piece from stock with a manual reason.
func (c *ProductCode) TakeOut(reason TakenOutReason, actorID uuid.UUID, at time.Time) error {
	if reason != TakenOutReasonManual && reason != TakenOutReasonRepair {
		return shared.NewDomainError(shared.ErrCodeInvalidInput, "reason %d is not a manual take-out reason", reason)
	}
	if c.Status != CodeStatusAvailable {
		return shared.NewDomainError(shared.ErrCodeInvalidState, "product code %s is not available for stock out", c.Barcode)
	}
	c.takeOut(reason, actorID, at)
	c.AddDomainEvent(NewProductCodeUpdatedEvent(c, actorID))
	return nil
}

// Restore returns a manually taken-out piece to stock.
func (c *ProductCode) Restore(actorID uuid.UUID) error {
	if c.Status != CodeStatusTakenOut {
		return shared.NewDomainError(shared.ErrCodeInvalidState, "product code %s is not taken out", c.Barcode)
	}
	c.restore()
	c.AddDomainEvent(NewProductCodeUpdatedEvent(c, actorID))
	return nil
}

// MarkLostByAudit flags an available piece as lost during a stock opname.
// Callers must re-check the live status right before this transition; pieces
// sold or reserved since the opname snapshot must not be flagged.
func (c *ProductCode) MarkLostByAudit(actorID uuid.UUID, at time.Time) error {
	if c.Status != CodeStatusAvailable {
		return shared.NewDomainError(shared.ErrCodeInvalidState, "product code %s is no longer available", c.Barcode)
	}
	c.takeOut(TakenOutReasonAuditLost, actorID, at)
	c.AddDomainEvent(NewProductCodeUpdatedEvent(c, actorID))
	return nil
}

// RestoreFromAudit reverts an audit-lost piece when the opname is disapproved.
// Pieces taken out for any other reason are left untouched.
func (c *ProductCode) RestoreFromAudit(actorID uuid.UUID) error {
	if c.TakenOutReason != TakenOutReasonAuditLost {
		return shared.NewDomainError(shared.ErrCodeInvalidState, "product code %s was not taken out by an audit", c.Barcode)
	}
	c.restore()
	c.AddDomainEvent(NewProductCodeUpdatedEvent(c, actorID))
	return nil
}

func (c *ProductCode) takeOut(reason TakenOutReason, actorID uuid.UUID, at time.Time) {
	c.Status = CodeStatusTakenOut
	c.TakenOutReason = reason
	c.TakenOutBy = &actorID
	c.TakenOutAt = &at
	c.IncrementVersion()
}

func (c *ProductCode) restore() {
	c.Status = CodeStatusAvailable
	c.TakenOutReason = TakenOutReasonNone
	c.TakenOutBy = nil
	c.TakenOutAt = nil
	c.IncrementVersion()
}

// ProductCodeRepository persists product codes. Upsert is the replica apply
// path and must be idempotent on the originating ID.
type ProductCodeRepository interface {
	Save(ctx context.Context, code *ProductCode) error
	SaveAll(ctx context.Context, codes []*ProductCode) error
	Upsert(ctx context.Context, code *ProductCode) error
	FindByID(ctx context.Context, id uuid.UUID) (*ProductCode, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*ProductCode, error)
	FindByBarcode(ctx context.Context, barcode string) (*ProductCode, error)
	FindByStoreAndCategory(ctx context.Context, storeID, categoryID uuid.UUID) ([]*ProductCode, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*ProductCode], error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
