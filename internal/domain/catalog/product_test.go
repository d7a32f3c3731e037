package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	actor := uuid.New()
	p, err := NewProduct("PRDGLD01", "Gold Ring 24K", "", uuid.New(), uuid.New(), actor)
	require.NoError(t, err)

	assert.Equal(t, ProductStatusActive, p.Status)
	assert.Equal(t, 1, p.Version)

	events := p.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeProductCreated, events[0].EventType())
	assert.Equal(t, actor, events[0].ActorID())
}

func TestNewProduct_Validation(t *testing.T) {
	_, err := NewProduct("", "Gold Ring", "", uuid.New(), uuid.New(), uuid.New())
	assert.Error(t, err)

	_, err = NewProduct("PRD01", "  ", "", uuid.New(), uuid.New(), uuid.New())
	assert.Error(t, err)

	_, err = NewProduct("PRD01", "Gold Ring", "", uuid.Nil, uuid.New(), uuid.New())
	assert.Error(t, err)
}

func TestProduct_Update(t *testing.T) {
	p, err := NewProduct("PRD01", "Gold Ring", "", uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	p.ClearDomainEvents()

	err = p.Update("Gold Ring 22K", "resized", ProductStatusInactive, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "Gold Ring 22K", p.Name)
	assert.Equal(t, ProductStatusInactive, p.Status)
	assert.Equal(t, 2, p.Version)
	require.Len(t, p.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeProductUpdated, p.GetDomainEvents()[0].EventType())
}

func TestProduct_MarkDeleted(t *testing.T) {
	p, err := NewProduct("PRD01", "Gold Ring", "", uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	p.ClearDomainEvents()

	require.NoError(t, p.MarkDeleted(uuid.New()))
	require.NotNil(t, p.DeletedAt)
	assert.Equal(t, EventTypeProductDeleted, p.GetDomainEvents()[0].EventType())

	assert.Error(t, p.MarkDeleted(uuid.New()), "double delete is rejected")
	assert.Error(t, p.Update("x", "", ProductStatusActive, uuid.New()))
}
