package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gemstok/inventory/internal/domain/catalog"
	"github.com/gemstok/inventory/internal/domain/shared"
)

// ===================== Product DTOs =====================

// CreateProductRequest registers a new product master record.
type CreateProductRequest struct {
	Code        string    `json:"code" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	TypeID      uuid.UUID `json:"type_id" binding:"required"`
	StoreID     uuid.UUID `json:"store_id" binding:"required"`
}

// UpdateProductRequest edits product master data.
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      int    `json:"status"`
}

// ProductListFilter narrows product listings.
type ProductListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir"`
	Search   string     `form:"search"`
	StoreID  *uuid.UUID `form:"store_id"`
	TypeID   *uuid.UUID `form:"type_id"`
	Status   *int       `form:"status"`
}

// ProductResponse is the product read model.
type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      int       `json:"status"`
	TypeID      uuid.UUID `json:"type_id"`
	StoreID     uuid.UUID `json:"store_id"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProductResponse converts a domain product to its read model.
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Status:      int(p.Status),
		TypeID:      p.TypeID,
		StoreID:     p.StoreID,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products.
func ToProductResponses(products []*catalog.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductResponse(p))
	}
	return out
}

// ===================== Service =====================

// ProductService manages the locally-owned product master. Commands write the
// product row and its events in one transaction; sibling services pick the
// events up from the bus.
type ProductService struct {
	scope  TransactionScope
	reader catalog.ProductRepository
	logger *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(scope TransactionScope, reader catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{scope: scope, reader: reader, logger: logger}
}

// GetByID retrieves one product.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.reader.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// List retrieves a paginated list of products.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]interface{}{},
	}
	if filter.StoreID != nil {
		domainFilter.Filters["store_id"] = *filter.StoreID
	}
	if filter.TypeID != nil {
		domainFilter.Filters["type_id"] = *filter.TypeID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}

	page, err := s.reader.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(page.Items), page.Total, nil
}

// Create registers a product. The code must be unique within the store.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest, actorID uuid.UUID) (*ProductResponse, error) {
	var product *catalog.Product
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.ProductRepo().FindByCode(ctx, req.StoreID, req.Code)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError(shared.ErrCodeAlreadyExists, "product code %s already exists in this store", req.Code)
		}

		p, err := catalog.NewProduct(req.Code, req.Name, req.Description, req.TypeID, req.StoreID, actorID)
		if err != nil {
			return err
		}
		if err := repos.ProductRepo().Save(ctx, p); err != nil {
			return err
		}
		if err := repos.SaveEvents(ctx, p.GetDomainEvents()); err != nil {
			return err
		}
		p.ClearDomainEvents()
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code))

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update edits product master data.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest, actorID uuid.UUID) (*ProductResponse, error) {
	var product *catalog.Product
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.ProductRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := p.Update(req.Name, req.Description, catalog.ProductStatus(req.Status), actorID); err != nil {
			return err
		}
		if err := repos.ProductRepo().Save(ctx, p); err != nil {
			return err
		}
		if err := repos.SaveEvents(ctx, p.GetDomainEvents()); err != nil {
			return err
		}
		p.ClearDomainEvents()
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete soft-deletes a product.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.ProductRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := p.MarkDeleted(actorID); err != nil {
			return err
		}
		if err := repos.SaveEvents(ctx, p.GetDomainEvents()); err != nil {
			return err
		}
		p.ClearDomainEvents()
		return repos.ProductRepo().Delete(ctx, id)
	})
}

// ApplyProduct is the replica entry point for product events originated by
// another instance. Same upsert, no event republication.
func (s *ProductService) ApplyProduct(ctx context.Context, state catalog.ProductState) error {
	product := &catalog.Product{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        state.ID,
				CreatedAt: state.CreatedAt,
				UpdatedAt: state.UpdatedAt,
			},
			Version: state.Version,
		},
		Code:        state.Code,
		Name:        state.Name,
		Description: state.Description,
		Status:      state.Status,
		TypeID:      state.TypeID,
		StoreID:     state.StoreID,
		DeletedAt:   state.DeletedAt,
	}
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.ProductRepo().Save(ctx, product)
	})
}

// ApplyProductDelete is the replica entry point for a product.deleted event.
// A row already gone counts as applied.
func (s *ProductService) ApplyProductDelete(ctx context.Context, id uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.ProductRepo().Delete(ctx, id)
	})
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return nil
}
