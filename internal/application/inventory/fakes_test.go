package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/gemstok/inventory/internal/domain/catalog"
	"github.com/gemstok/inventory/internal/domain/inventory"
	"github.com/gemstok/inventory/internal/domain/shared"
)

// fakeProductCodeRepo is a map-backed ProductCodeRepository. Store and
// category membership is resolved through the seeded product repo.
type fakeProductCodeRepo struct {
	codes    map[uuid.UUID]*inventory.ProductCode
	products *fakeProductRepo
	saveErr  error
}

func newFakeProductCodeRepo(products *fakeProductRepo) *fakeProductCodeRepo {
	return &fakeProductCodeRepo{codes: map[uuid.UUID]*inventory.ProductCode{}, products: products}
}

func (r *fakeProductCodeRepo) Save(_ context.Context, code *inventory.ProductCode) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.codes[code.ID] = code
	return nil
}

func (r *fakeProductCodeRepo) SaveAll(ctx context.Context, codes []*inventory.ProductCode) error {
	for _, c := range codes {
		if err := r.Save(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeProductCodeRepo) Upsert(ctx context.Context, code *inventory.ProductCode) error {
	return r.Save(ctx, code)
}

func (r *fakeProductCodeRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.ProductCode, error) {
	c, ok := r.codes[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *fakeProductCodeRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*inventory.ProductCode, error) {
	var out []*inventory.ProductCode
	for _, id := range ids {
		if c, ok := r.codes[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeProductCodeRepo) FindByBarcode(_ context.Context, barcode string) (*inventory.ProductCode, error) {
	for _, c := range r.codes {
		if c.Barcode == barcode {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductCodeRepo) FindByStoreAndCategory(_ context.Context, storeID, categoryID uuid.UUID) ([]*inventory.ProductCode, error) {
	var out []*inventory.ProductCode
	for _, c := range r.codes {
		p, ok := r.products.products[c.ProductID]
		if !ok {
			continue
		}
		if p.StoreID == storeID && r.products.categories[p.TypeID] == categoryID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeProductCodeRepo) FindAll(_ context.Context, filter shared.Filter) (*shared.Paginated[*inventory.ProductCode], error) {
	filter.Normalize()
	var items []*inventory.ProductCode
	for _, c := range r.codes {
		items = append(items, c)
	}
	return &shared.Paginated[*inventory.ProductCode]{Items: items, Total: int64(len(items)), Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (r *fakeProductCodeRepo) CountByProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	var n int64
	for _, c := range r.codes {
		if c.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r *fakeProductCodeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.codes[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.codes, id)
	return nil
}

// fakeStockOpnameRepo is a map-backed StockOpnameRepository.
type fakeStockOpnameRepo struct {
	opnames   map[uuid.UUID]*inventory.StockOpname
	updateErr error
}

func newFakeStockOpnameRepo() *fakeStockOpnameRepo {
	return &fakeStockOpnameRepo{opnames: map[uuid.UUID]*inventory.StockOpname{}}
}

func (r *fakeStockOpnameRepo) Save(_ context.Context, o *inventory.StockOpname) error {
	r.opnames[o.ID] = o
	return nil
}

func (r *fakeStockOpnameRepo) Update(_ context.Context, o *inventory.StockOpname) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.opnames[o.ID] = o
	return nil
}

func (r *fakeStockOpnameRepo) SaveDetail(_ context.Context, _ *inventory.StockOpnameDetail) error {
	return nil
}

func (r *fakeStockOpnameRepo) Upsert(_ context.Context, o *inventory.StockOpname) error {
	if existing, ok := r.opnames[o.ID]; ok {
		o.Details = existing.Details
	}
	r.opnames[o.ID] = o
	return nil
}

func (r *fakeStockOpnameRepo) UpsertDetail(_ context.Context, d *inventory.StockOpnameDetail) error {
	o, ok := r.opnames[d.StockOpnameID]
	if !ok {
		return shared.ErrNotFound
	}
	for i, existing := range o.Details {
		if existing.ID == d.ID {
			o.Details[i] = d
			return nil
		}
	}
	o.Details = append(o.Details, d)
	return nil
}

func (r *fakeStockOpnameRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockOpname, error) {
	o, ok := r.opnames[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *fakeStockOpnameRepo) FindAll(_ context.Context, filter shared.Filter) (*shared.Paginated[*inventory.StockOpname], error) {
	filter.Normalize()
	var items []*inventory.StockOpname
	for _, o := range r.opnames {
		items = append(items, o)
	}
	return &shared.Paginated[*inventory.StockOpname]{Items: items, Total: int64(len(items)), Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (r *fakeStockOpnameRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.opnames[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.opnames, id)
	return nil
}

// fakeProductRepo is a map-backed catalog.ProductRepository. The categories
// map resolves a product type to its category for store+category snapshots.
type fakeProductRepo struct {
	products   map[uuid.UUID]*catalog.Product
	categories map[uuid.UUID]uuid.UUID
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uuid.UUID]*catalog.Product{}, categories: map[uuid.UUID]uuid.UUID{}}
}

func (r *fakeProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindByCode(_ context.Context, storeID uuid.UUID, code string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.StoreID == storeID && p.Code == code {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(_ context.Context, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	filter.Normalize()
	var items []*catalog.Product
	for _, p := range r.products {
		items = append(items, p)
	}
	return &shared.Paginated[*catalog.Product]{Items: items, Total: int64(len(items)), Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}
