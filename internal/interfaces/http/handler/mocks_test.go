package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/gemstok/inventory/internal/domain/catalog"
	"github.com/gemstok/inventory/internal/domain/inventory"
	"github.com/gemstok/inventory/internal/domain/shared"
)

// Mock implementations for the repositories behind the handlers

type mockProductCodeRepo struct {
	codes      map[uuid.UUID]*inventory.ProductCode
	candidates []*inventory.ProductCode
}

func newMockProductCodeRepo() *mockProductCodeRepo {
	return &mockProductCodeRepo{codes: make(map[uuid.UUID]*inventory.ProductCode)}
}

func (m *mockProductCodeRepo) Save(ctx context.Context, code *inventory.ProductCode) error {
	m.codes[code.ID] = code
	return nil
}

func (m *mockProductCodeRepo) SaveAll(ctx context.Context, codes []*inventory.ProductCode) error {
	for _, c := range codes {
		m.codes[c.ID] = c
	}
	return nil
}

func (m *mockProductCodeRepo) Upsert(ctx context.Context, code *inventory.ProductCode) error {
	return m.Save(ctx, code)
}

func (m *mockProductCodeRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductCode, error) {
	if c, ok := m.codes[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (m *mockProductCodeRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*inventory.ProductCode, error) {
	var out []*inventory.ProductCode
	for _, id := range ids {
		if c, ok := m.codes[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockProductCodeRepo) FindByBarcode(ctx context.Context, barcode string) (*inventory.ProductCode, error) {
	for _, c := range m.codes {
		if c.Barcode == barcode {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockProductCodeRepo) FindByStoreAndCategory(ctx context.Context, storeID, categoryID uuid.UUID) ([]*inventory.ProductCode, error) {
	return m.candidates, nil
}

func (m *mockProductCodeRepo) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*inventory.ProductCode], error) {
	var items []*inventory.ProductCode
	for _, c := range m.codes {
		items = append(items, c)
	}
	return &shared.Paginated[*inventory.ProductCode]{
		Items:    items,
		Total:    int64(len(items)),
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (m *mockProductCodeRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var n int64
	for _, c := range m.codes {
		if c.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (m *mockProductCodeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.codes[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.codes, id)
	return nil
}

type mockStockOpnameRepo struct {
	opnames map[uuid.UUID]*inventory.StockOpname
}

func newMockStockOpnameRepo() *mockStockOpnameRepo {
	return &mockStockOpnameRepo{opnames: make(map[uuid.UUID]*inventory.StockOpname)}
}

func (m *mockStockOpnameRepo) Save(ctx context.Context, opname *inventory.StockOpname) error {
	m.opnames[opname.ID] = opname
	return nil
}

func (m *mockStockOpnameRepo) Update(ctx context.Context, opname *inventory.StockOpname) error {
	m.opnames[opname.ID] = opname
	return nil
}

func (m *mockStockOpnameRepo) SaveDetail(ctx context.Context, detail *inventory.StockOpnameDetail) error {
	return nil
}

func (m *mockStockOpnameRepo) Upsert(ctx context.Context, opname *inventory.StockOpname) error {
	return m.Save(ctx, opname)
}

func (m *mockStockOpnameRepo) UpsertDetail(ctx context.Context, detail *inventory.StockOpnameDetail) error {
	return nil
}

func (m *mockStockOpnameRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockOpname, error) {
	if o, ok := m.opnames[id]; ok {
		return o, nil
	}
	return nil, shared.ErrNotFound
}

func (m *mockStockOpnameRepo) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*inventory.StockOpname], error) {
	var items []*inventory.StockOpname
	for _, o := range m.opnames {
		items = append(items, o)
	}
	return &shared.Paginated[*inventory.StockOpname]{
		Items:    items,
		Total:    int64(len(items)),
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (m *mockStockOpnameRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.opnames[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.opnames, id)
	return nil
}

type mockProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (m *mockProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (m *mockProductRepo) FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*catalog.Product, error) {
	for _, p := range m.products {
		if p.StoreID == storeID && p.Code == code {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockProductRepo) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	var items []*catalog.Product
	for _, p := range m.products {
		items = append(items, p)
	}
	return &shared.Paginated[*catalog.Product]{
		Items:    items,
		Total:    int64(len(items)),
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (m *mockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.products, id)
	return nil
}
