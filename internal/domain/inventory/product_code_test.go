package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCode(t *testing.T) *ProductCode {
	t.Helper()
	c, err := NewProductCode(uuid.New(), "PRD01", 7,
		decimal.NewFromFloat(4.25), decimal.NewFromInt(1200000), decimal.NewFromInt(950000), uuid.New())
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestNewProductCode(t *testing.T) {
	actor := uuid.New()
	c, err := NewProductCode(uuid.New(), "PRD01", 7,
		decimal.NewFromFloat(4.25), decimal.NewFromInt(1200000), decimal.NewFromInt(950000), actor)
	require.NoError(t, err)

	assert.Equal(t, "PRD010007", c.Barcode)
	assert.Equal(t, CodeStatusAvailable, c.Status)
	assert.Equal(t, TakenOutReasonNone, c.TakenOutReason)

	events := c.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeProductCodeCreated, events[0].EventType())
}

func TestNewProductCode_Validation(t *testing.T) {
	_, err := NewProductCode(uuid.Nil, "PRD01", 1, decimal.Zero, decimal.Zero, decimal.Zero, uuid.New())
	assert.Error(t, err)

	_, err = NewProductCode(uuid.New(), "", 1, decimal.Zero, decimal.Zero, decimal.Zero, uuid.New())
	assert.Error(t, err)

	_, err = NewProductCode(uuid.New(), "PRD01", 0, decimal.Zero, decimal.Zero, decimal.Zero, uuid.New())
	assert.Error(t, err)

	_, err = NewProductCode(uuid.New(), "PRD01", 1, decimal.NewFromInt(-1), decimal.Zero, decimal.Zero, uuid.New())
	assert.Error(t, err)
}

func TestProductCode_TakeOutAndRestore(t *testing.T) {
	c := newTestCode(t)
	actor := uuid.New()
	at := time.Now()

	require.NoError(t, c.TakeOut(TakenOutReasonManual, actor, at))
	assert.Equal(t, CodeStatusTakenOut, c.Status)
	assert.Equal(t, TakenOutReasonManual, c.TakenOutReason)
	require.NotNil(t, c.TakenOutBy)
	assert.Equal(t, actor, *c.TakenOutBy)
	require.Len(t, c.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeProductCodeUpdated, c.GetDomainEvents()[0].EventType())

	assert.Error(t, c.TakeOut(TakenOutReasonManual, actor, at), "already taken out")

	require.NoError(t, c.Restore(actor))
	assert.Equal(t, CodeStatusAvailable, c.Status)
	assert.Equal(t, TakenOutReasonNone, c.TakenOutReason)
	assert.Nil(t, c.TakenOutBy)
	assert.Nil(t, c.TakenOutAt)
}

func TestProductCode_TakeOutRejectsAuditReason(t *testing.T) {
	c := newTestCode(t)
	err := c.TakeOut(TakenOutReasonAuditLost, uuid.New(), time.Now())
	assert.Error(t, err, "audit reason is reserved for the opname engine")
}

func TestProductCode_MarkLostByAudit(t *testing.T) {
	c := newTestCode(t)
	actor := uuid.New()

	require.NoError(t, c.MarkLostByAudit(actor, time.Now()))
	assert.Equal(t, CodeStatusTakenOut, c.Status)
	assert.Equal(t, TakenOutReasonAuditLost, c.TakenOutReason)

	sold := newTestCode(t)
	sold.Status = CodeStatusSold
	assert.Error(t, sold.MarkLostByAudit(actor, time.Now()), "sold pieces are never flagged lost")

	reserved := newTestCode(t)
	reserved.Status = CodeStatusInTransaction
	assert.Error(t, reserved.MarkLostByAudit(actor, time.Now()))
}

func TestProductCode_RestoreFromAudit(t *testing.T) {
	actor := uuid.New()

	c := newTestCode(t)
	require.NoError(t, c.MarkLostByAudit(actor, time.Now()))
	require.NoError(t, c.RestoreFromAudit(actor))
	assert.Equal(t, CodeStatusAvailable, c.Status)
	assert.Equal(t, TakenOutReasonNone, c.TakenOutReason)

	manual := newTestCode(t)
	require.NoError(t, manual.TakeOut(TakenOutReasonManual, actor, time.Now()))
	assert.Error(t, manual.RestoreFromAudit(actor), "manual take-outs survive an audit rollback")
	assert.Equal(t, CodeStatusTakenOut, manual.Status)
	assert.Equal(t, TakenOutReasonManual, manual.TakenOutReason)
}
