package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemstok/inventory/internal/domain/catalog"
	"github.com/gemstok/inventory/internal/domain/inventory"
	"github.com/gemstok/inventory/internal/domain/shared"
)

// seedProduct inserts a product wired to a type and category so the
// store+category join has something to resolve.
func seedProduct(t *testing.T, repo *GormProductRepository, typeRepo catalog.ReplicaRepository[catalog.ProductType], storeID, categoryID uuid.UUID, code string) *catalog.Product {
	t.Helper()

	typeID := uuid.New()
	require.NoError(t, typeRepo.Upsert(context.Background(), &catalog.ProductType{
		ID:         typeID,
		CategoryID: categoryID,
		Code:       code + "-T",
		Name:       "type " + code,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}))

	p, err := catalog.NewProduct(code, "product "+code, "", typeID, storeID, uuid.New())
	require.NoError(t, err)
	p.ClearDomainEvents()
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}

func mintCode(t *testing.T, repo *GormProductCodeRepository, product *catalog.Product, sequence int) *inventory.ProductCode {
	t.Helper()
	c, err := inventory.NewProductCode(product.ID, product.Code, sequence,
		decimal.NewFromFloat(1.5), decimal.NewFromInt(100), decimal.NewFromInt(80), uuid.New())
	require.NoError(t, err)
	c.ClearDomainEvents()
	require.NoError(t, repo.Save(context.Background(), c))
	return c
}

func TestGormProductCodeRepository_SaveAndFindByBarcode(t *testing.T) {
	db := setupTestDB(t)
	products := NewGormProductRepository(db)
	types := NewProductTypeReplicaRepository(db)
	codes := NewGormProductCodeRepository(db)

	product := seedProduct(t, products, types, uuid.New(), uuid.New(), "GLD")
	minted := mintCode(t, codes, product, 1)

	got, err := codes.FindByBarcode(context.Background(), "GLD0001")
	require.NoError(t, err)
	assert.Equal(t, minted.ID, got.ID)
	assert.Equal(t, inventory.CodeStatusAvailable, got.Status)
	assert.True(t, got.FixedPrice.Equal(decimal.NewFromInt(100)))

	_, err = codes.FindByBarcode(context.Background(), "GLD9999")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductCodeRepository_SaveReplaysIdempotently(t *testing.T) {
	db := setupTestDB(t)
	products := NewGormProductRepository(db)
	types := NewProductTypeReplicaRepository(db)
	codes := NewGormProductCodeRepository(db)

	product := seedProduct(t, products, types, uuid.New(), uuid.New(), "GLD")
	minted := mintCode(t, codes, product, 1)

	// a second save of the same row must not duplicate or error
	require.NoError(t, codes.Save(context.Background(), minted))

	count, err := codes.CountByProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormProductCodeRepository_FindByStoreAndCategory(t *testing.T) {
	db := setupTestDB(t)
	products := NewGormProductRepository(db)
	types := NewProductTypeReplicaRepository(db)
	codes := NewGormProductCodeRepository(db)

	storeID := uuid.New()
	categoryID := uuid.New()

	inScope := seedProduct(t, products, types, storeID, categoryID, "GLD")
	otherStore := seedProduct(t, products, types, uuid.New(), categoryID, "SLV")
	otherCategory := seedProduct(t, products, types, storeID, uuid.New(), "PLT")

	want := mintCode(t, codes, inScope, 1)
	sold := mintCode(t, codes, inScope, 2)
	sold.Status = inventory.CodeStatusSold
	require.NoError(t, codes.Save(context.Background(), sold))
	mintCode(t, codes, otherStore, 1)
	mintCode(t, codes, otherCategory, 1)

	found, err := codes.FindByStoreAndCategory(context.Background(), storeID, categoryID)
	require.NoError(t, err)

	// membership is store+category only; the sold piece is still a candidate
	require.Len(t, found, 2)
	ids := []uuid.UUID{found[0].ID, found[1].ID}
	assert.Contains(t, ids, want.ID)
	assert.Contains(t, ids, sold.ID)
}

func TestGormProductCodeRepository_CountByProductIncludesDeleted(t *testing.T) {
	db := setupTestDB(t)
	products := NewGormProductRepository(db)
	types := NewProductTypeReplicaRepository(db)
	codes := NewGormProductCodeRepository(db)

	product := seedProduct(t, products, types, uuid.New(), uuid.New(), "GLD")
	first := mintCode(t, codes, product, 1)
	mintCode(t, codes, product, 2)

	require.NoError(t, codes.Delete(context.Background(), first.ID))

	// the deleted piece keeps its sequence slot
	count, err := codes.CountByProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = codes.FindByID(context.Background(), first.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductCodeRepository_FindByIDs(t *testing.T) {
	db := setupTestDB(t)
	products := NewGormProductRepository(db)
	types := NewProductTypeReplicaRepository(db)
	codes := NewGormProductCodeRepository(db)

	product := seedProduct(t, products, types, uuid.New(), uuid.New(), "GLD")
	a := mintCode(t, codes, product, 1)
	b := mintCode(t, codes, product, 2)

	found, err := codes.FindByIDs(context.Background(), []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	empty, err := codes.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGormProductCodeRepository_SaveAllEmpty(t *testing.T) {
	db := setupTestDB(t)
	codes := NewGormProductCodeRepository(db)

	assert.NoError(t, codes.SaveAll(context.Background(), nil))
}

func TestGormProductCodeRepository_FindAllFilters(t *testing.T) {
	db := setupTestDB(t)
	products := NewGormProductRepository(db)
	types := NewProductTypeReplicaRepository(db)
	codes := NewGormProductCodeRepository(db)

	product := seedProduct(t, products, types, uuid.New(), uuid.New(), "GLD")
	mintCode(t, codes, product, 1)
	out := mintCode(t, codes, product, 2)
	out.Status = inventory.CodeStatusTakenOut
	require.NoError(t, codes.Save(context.Background(), out))

	page, err := codes.FindAll(context.Background(), shared.Filter{
		Filters: map[string]interface{}{"status": int(inventory.CodeStatusTakenOut)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, out.ID, page.Items[0].ID)
}
