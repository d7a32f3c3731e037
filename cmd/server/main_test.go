package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogapp "github.com/gemstok/inventory/internal/application/catalog"
	inventoryapp "github.com/gemstok/inventory/internal/application/inventory"
	"github.com/gemstok/inventory/internal/domain/catalog"
	"github.com/gemstok/inventory/internal/domain/inventory"
	"github.com/gemstok/inventory/internal/domain/shared"
	"github.com/gemstok/inventory/internal/infrastructure/cache"
	"github.com/gemstok/inventory/internal/infrastructure/messaging"
)

type wiringCodeRepo struct {
	codes map[uuid.UUID]*inventory.ProductCode
}

func (r *wiringCodeRepo) Save(_ context.Context, c *inventory.ProductCode) error {
	r.codes[c.ID] = c
	return nil
}

func (r *wiringCodeRepo) SaveAll(_ context.Context, codes []*inventory.ProductCode) error {
	for _, c := range codes {
		r.codes[c.ID] = c
	}
	return nil
}

func (r *wiringCodeRepo) Upsert(_ context.Context, c *inventory.ProductCode) error {
	r.codes[c.ID] = c
	return nil
}

func (r *wiringCodeRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.ProductCode, error) {
	if c, ok := r.codes[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *wiringCodeRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*inventory.ProductCode, error) {
	var out []*inventory.ProductCode
	for _, id := range ids {
		if c, ok := r.codes[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *wiringCodeRepo) FindByBarcode(_ context.Context, barcode string) (*inventory.ProductCode, error) {
	for _, c := range r.codes {
		if c.Barcode == barcode {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *wiringCodeRepo) FindByStoreAndCategory(_ context.Context, _, _ uuid.UUID) ([]*inventory.ProductCode, error) {
	return nil, nil
}

func (r *wiringCodeRepo) FindAll(_ context.Context, _ shared.Filter) (*shared.Paginated[*inventory.ProductCode], error) {
	return &shared.Paginated[*inventory.ProductCode]{}, nil
}

func (r *wiringCodeRepo) CountByProduct(_ context.Context, _ uuid.UUID) (int64, error) {
	return int64(len(r.codes)), nil
}

func (r *wiringCodeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.codes[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.codes, id)
	return nil
}

type wiringOpnameRepo struct {
	opnames map[uuid.UUID]*inventory.StockOpname
	details map[uuid.UUID]*inventory.StockOpnameDetail
}

func (r *wiringOpnameRepo) Save(_ context.Context, o *inventory.StockOpname) error {
	r.opnames[o.ID] = o
	return nil
}

func (r *wiringOpnameRepo) Update(_ context.Context, o *inventory.StockOpname) error {
	r.opnames[o.ID] = o
	return nil
}

func (r *wiringOpnameRepo) SaveDetail(_ context.Context, d *inventory.StockOpnameDetail) error {
	r.details[d.ID] = d
	return nil
}

func (r *wiringOpnameRepo) Upsert(_ context.Context, o *inventory.StockOpname) error {
	r.opnames[o.ID] = o
	return nil
}

func (r *wiringOpnameRepo) UpsertDetail(_ context.Context, d *inventory.StockOpnameDetail) error {
	r.details[d.ID] = d
	return nil
}

func (r *wiringOpnameRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockOpname, error) {
	if o, ok := r.opnames[id]; ok {
		return o, nil
	}
	return nil, shared.ErrNotFound
}

func (r *wiringOpnameRepo) FindAll(_ context.Context, _ shared.Filter) (*shared.Paginated[*inventory.StockOpname], error) {
	return &shared.Paginated[*inventory.StockOpname]{}, nil
}

func (r *wiringOpnameRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.opnames[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.opnames, id)
	return nil
}

type wiringProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func (r *wiringProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *wiringProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *wiringProductRepo) FindByCode(_ context.Context, _ uuid.UUID, code string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *wiringProductRepo) FindAll(_ context.Context, _ shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	return &shared.Paginated[*catalog.Product]{}, nil
}

func (r *wiringProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

type wiringReplicaRepo[T any] struct {
	last    *T
	deleted []uuid.UUID
}

func (r *wiringReplicaRepo[T]) Upsert(_ context.Context, e *T) error {
	r.last = e
	return nil
}

func (r *wiringReplicaRepo[T]) FindByID(_ context.Context, _ uuid.UUID) (*T, error) {
	return nil, shared.ErrNotFound
}

func (r *wiringReplicaRepo[T]) Delete(_ context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return nil
}

// wiringFixture builds the registry exactly as main does, with idempotent
// dispatch and the production key-to-handler table, over in-memory repos.
type wiringFixture struct {
	registry *messaging.Registry
	codes    *wiringCodeRepo
	opnames  *wiringOpnameRepo
	products *wiringProductRepo
	stores   *wiringReplicaRepo[catalog.Store]
}

func newWiringFixture(t *testing.T) *wiringFixture {
	t.Helper()
	log := zap.NewNop()

	codes := &wiringCodeRepo{codes: map[uuid.UUID]*inventory.ProductCode{}}
	opnames := &wiringOpnameRepo{
		opnames: map[uuid.UUID]*inventory.StockOpname{},
		details: map[uuid.UUID]*inventory.StockOpnameDetail{},
	}
	products := &wiringProductRepo{products: map[uuid.UUID]*catalog.Product{}}
	stores := &wiringReplicaRepo[catalog.Store]{}

	scope := catalogapp.NewNoOpTransactionScope(products)
	set := eventHandlerSet{
		products:    catalogapp.NewProductService(scope, products, log),
		replicas:    inventoryapp.NewReplicaService(codes, opnames, log),
		company:     catalogapp.NewReplicator[catalog.Company]("company", &wiringReplicaRepo[catalog.Company]{}, log),
		store:       catalogapp.NewReplicator[catalog.Store]("store", stores, log),
		category:    catalogapp.NewReplicator[catalog.Category]("category", &wiringReplicaRepo[catalog.Category]{}, log),
		productType: catalogapp.NewReplicator[catalog.ProductType]("product_type", &wiringReplicaRepo[catalog.ProductType]{}, log),
		price:       catalogapp.NewReplicator[catalog.Price]("price", &wiringReplicaRepo[catalog.Price]{}, log),
		account:     catalogapp.NewReplicator[catalog.Account]("account", &wiringReplicaRepo[catalog.Account]{}, log),
	}

	idem := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idem.Close() })

	registry := messaging.NewRegistry()
	err := set.registerAll(registry, func(h messaging.HandlerFunc) messaging.HandlerFunc {
		return messaging.Idempotent(idem, shared.DefaultIdempotencyTTL, log, h)
	})
	require.NoError(t, err)

	return &wiringFixture{
		registry: registry,
		codes:    codes,
		opnames:  opnames,
		products: products,
		stores:   stores,
	}
}

// dispatch feeds an emitted domain event through the registry the way the
// consumer does: marshal the published form, parse the envelope, resolve the
// handler by routing key, handle.
func (f *wiringFixture) dispatch(t *testing.T, ev shared.DomainEvent) {
	t.Helper()
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	env, err := messaging.ParseEnvelope(body)
	require.NoError(t, err)
	h, ok := f.registry.Resolve(ev.EventType())
	require.True(t, ok, "no handler bound for %s", ev.EventType())
	require.NoError(t, h(context.Background(), env))
}

func TestEventWiring_OpnameLifecycleConverges(t *testing.T) {
	f := newWiringFixture(t)
	actor := uuid.New()

	source, err := inventory.NewStockOpname(uuid.New(), uuid.New(), time.Now(), "monthly audit", actor)
	require.NoError(t, err)
	codeA, codeB := uuid.New(), uuid.New()
	require.NoError(t, source.AddCandidate(codeA))
	require.NoError(t, source.AddCandidate(codeB))
	source.Freeze(actor)

	for _, ev := range source.GetDomainEvents() {
		f.dispatch(t, ev)
	}
	source.ClearDomainEvents()

	replica, ok := f.opnames.opnames[source.ID]
	require.True(t, ok)
	assert.Equal(t, source.StoreID, replica.StoreID)
	assert.Equal(t, inventory.OpnameStatusOpen, replica.Status)
	assert.Len(t, f.opnames.details, 2)

	require.NoError(t, source.SetScanned(codeA, true, actor))
	for _, ev := range source.GetDomainEvents() {
		f.dispatch(t, ev)
	}
	source.ClearDomainEvents()

	scanned := 0
	for _, d := range f.opnames.details {
		if d.Scanned {
			scanned++
		}
	}
	assert.Equal(t, 1, scanned)

	approvedAt := time.Now()
	require.NoError(t, source.Approve(nil, actor, approvedAt))
	for _, ev := range source.GetDomainEvents() {
		if _, ok := f.registry.Resolve(ev.EventType()); ok {
			f.dispatch(t, ev)
		}
	}
	source.ClearDomainEvents()

	replica = f.opnames.opnames[source.ID]
	assert.Equal(t, inventory.OpnameStatusApproved, replica.Status)
	require.NotNil(t, replica.ApproveBy)
	assert.Equal(t, actor, *replica.ApproveBy)
	assert.Equal(t, source.Version, replica.Version)

	reopener := uuid.New()
	require.NoError(t, source.Disapprove(nil, reopener, time.Now()))
	for _, ev := range source.GetDomainEvents() {
		if _, ok := f.registry.Resolve(ev.EventType()); ok {
			f.dispatch(t, ev)
		}
	}
	source.ClearDomainEvents()

	replica = f.opnames.opnames[source.ID]
	assert.Equal(t, inventory.OpnameStatusOpen, replica.Status)
	require.NotNil(t, replica.ApproveBy)
	assert.Equal(t, reopener, *replica.ApproveBy)

	// The notification payloads must never reach the header upsert.
	_, corrupt := f.opnames.opnames[uuid.Nil]
	assert.False(t, corrupt, "zero-ID row means a notification was applied as state")
	assert.Len(t, f.opnames.opnames, 1)

	require.NoError(t, source.MarkDeleted(actor))
	for _, ev := range source.GetDomainEvents() {
		f.dispatch(t, ev)
	}
	assert.Empty(t, f.opnames.opnames)
}

func TestEventWiring_ApprovalEventsAreNotificationsOnly(t *testing.T) {
	f := newWiringFixture(t)

	// Approved and disapproved carry lost/reverted payloads, not opname state.
	// Binding them as state would upsert a zero-value header, so no handler is
	// bound and the consumer acks them unresolved.
	_, ok := f.registry.Resolve(inventory.EventTypeStockOpnameApproved)
	assert.False(t, ok)
	_, ok = f.registry.Resolve(inventory.EventTypeStockOpnameDisapproved)
	assert.False(t, ok)
}

func TestEventWiring_ProductCodeConverges(t *testing.T) {
	f := newWiringFixture(t)
	actor := uuid.New()

	source, err := inventory.NewProductCode(uuid.New(), "GLD", 7,
		decimal.NewFromFloat(2.5), decimal.NewFromInt(150), decimal.NewFromInt(100), actor)
	require.NoError(t, err)

	f.dispatch(t, inventory.NewProductCodeCreatedEvent(source, actor))

	replica, ok := f.codes.codes[source.ID]
	require.True(t, ok)
	assert.Equal(t, source.Barcode, replica.Barcode)
	assert.Equal(t, source.Status, replica.Status)
	assert.True(t, source.BuyPrice.Equal(replica.BuyPrice))

	f.dispatch(t, inventory.NewProductCodeDeletedEvent(source, actor))
	assert.Empty(t, f.codes.codes)
}

func TestEventWiring_ProductConverges(t *testing.T) {
	f := newWiringFixture(t)
	actor := uuid.New()

	source, err := catalog.NewProduct("GLD", "Gold Ring", "", uuid.New(), uuid.New(), actor)
	require.NoError(t, err)
	source.ClearDomainEvents()

	f.dispatch(t, catalog.NewProductCreatedEvent(source, actor))

	replica, ok := f.products.products[source.ID]
	require.True(t, ok)
	assert.Equal(t, source.Code, replica.Code)
	assert.Equal(t, source.Name, replica.Name)

	f.dispatch(t, catalog.NewProductDeletedEvent(source, actor))
	assert.Empty(t, f.products.products)
}

func TestEventWiring_StoreReplicaApplied(t *testing.T) {
	f := newWiringFixture(t)

	store := catalog.Store{
		ID:         uuid.New(),
		CompanyID:  uuid.New(),
		Code:       "ST1",
		Name:       "Main Store",
		IsActive:   true,
		Percentage: decimal.NewFromInt(10),
	}
	data, err := json.Marshal(store)
	require.NoError(t, err)
	body, err := json.Marshal(map[string]interface{}{
		"event_id": uuid.New(),
		"actor_id": uuid.New(),
		"data":     json.RawMessage(data),
	})
	require.NoError(t, err)

	env, err := messaging.ParseEnvelope(body)
	require.NoError(t, err)
	h, ok := f.registry.Resolve("store.created")
	require.True(t, ok)
	require.NoError(t, h(context.Background(), env))

	require.NotNil(t, f.stores.last)
	assert.Equal(t, store.ID, f.stores.last.ID)
	assert.Equal(t, store.Name, f.stores.last.Name)
	assert.True(t, store.Percentage.Equal(f.stores.last.Percentage))
}
