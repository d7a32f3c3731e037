package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gemstok/inventory/internal/domain/inventory"
	"github.com/gemstok/inventory/internal/domain/shared"
)

// ProductCodeService manages barcoded pieces: minting new barcodes for a
// product and taking pieces in and out of stock by hand.
type ProductCodeService struct {
	scope  TransactionScope
	reader inventory.ProductCodeRepository
	logger *zap.Logger
}

// NewProductCodeService creates a new ProductCodeService.
func NewProductCodeService(scope TransactionScope, reader inventory.ProductCodeRepository, logger *zap.Logger) *ProductCodeService {
	return &ProductCodeService{scope: scope, reader: reader, logger: logger}
}

// ===================== Query Methods =====================

// GetByID retrieves one product code.
func (s *ProductCodeService) GetByID(ctx context.Context, id uuid.UUID) (*ProductCodeResponse, error) {
	c, err := s.reader.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductCodeResponse(c)
	return &resp, nil
}

// GetByBarcode retrieves one product code by its barcode.
func (s *ProductCodeService) GetByBarcode(ctx context.Context, barcode string) (*ProductCodeResponse, error) {
	c, err := s.reader.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	resp := ToProductCodeResponse(c)
	return &resp, nil
}

// List retrieves a paginated list of product codes.
func (s *ProductCodeService) List(ctx context.Context, filter ProductCodeListFilter) ([]ProductCodeResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]interface{}{},
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}

	page, err := s.reader.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductCodeResponses(page.Items), page.Total, nil
}

// ===================== Command Methods =====================

// Generate mints new barcodes for a product. Sequences continue from the
// number of codes the product already has, so barcodes never collide.
func (s *ProductCodeService) Generate(ctx context.Context, req GenerateCodesRequest, actorID uuid.UUID) ([]ProductCodeResponse, error) {
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	var codes []*inventory.ProductCode
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}

		count, err := repos.ProductCodeRepo().CountByProduct(ctx, product.ID)
		if err != nil {
			return err
		}

		var events []shared.DomainEvent
		for i := 0; i < quantity; i++ {
			c, err := inventory.NewProductCode(product.ID, product.Code, int(count)+i+1, req.Weight, req.FixedPrice, req.BuyPrice, actorID)
			if err != nil {
				return err
			}
			codes = append(codes, c)
			events = append(events, c.GetDomainEvents()...)
			c.ClearDomainEvents()
		}

		if err := repos.ProductCodeRepo().SaveAll(ctx, codes); err != nil {
			return err
		}
		return repos.SaveEvents(ctx, events)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product codes generated",
		zap.String("product_id", req.ProductID.String()),
		zap.Int("quantity", len(codes)))

	return ToProductCodeResponses(codes), nil
}

// StockOut takes pieces out of stock with a manual reason. All pieces go out
// in one transaction; one bad piece rejects the whole request.
func (s *ProductCodeService) StockOut(ctx context.Context, req StockOutRequest, actorID uuid.UUID) ([]ProductCodeResponse, error) {
	if len(req.ProductCodeIDs) == 0 {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "at least one product code is required")
	}
	at := time.Now()
	if req.Date != nil {
		at = *req.Date
	}

	var codes []*inventory.ProductCode
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.ProductCodeRepo().FindByIDs(ctx, req.ProductCodeIDs)
		if err != nil {
			return err
		}
		if len(found) != len(req.ProductCodeIDs) {
			return shared.NewDomainError(shared.ErrCodeNotFound, "one or more product codes do not exist")
		}

		var events []shared.DomainEvent
		for _, c := range found {
			product, err := repos.ProductRepo().FindByID(ctx, c.ProductID)
			if err != nil {
				return err
			}
			if product.StoreID != req.StoreID {
				return shared.NewDomainError(shared.ErrCodeForbidden, "product code %s belongs to another store", c.Barcode)
			}
			if err := c.TakeOut(req.Reason, actorID, at); err != nil {
				return err
			}
			events = append(events, c.GetDomainEvents()...)
			c.ClearDomainEvents()
		}

		if err := repos.ProductCodeRepo().SaveAll(ctx, found); err != nil {
			return err
		}
		if err := repos.SaveEvents(ctx, events); err != nil {
			return err
		}
		codes = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock out",
		zap.String("store_id", req.StoreID.String()),
		zap.Int("pieces", len(codes)))

	return ToProductCodeResponses(codes), nil
}

// UnstockOut returns a manually taken-out piece to stock.
func (s *ProductCodeService) UnstockOut(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*ProductCodeResponse, error) {
	var code *inventory.ProductCode
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		c, err := repos.ProductCodeRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if c.TakenOutReason == inventory.TakenOutReasonAuditLost {
			return shared.NewDomainError(shared.ErrCodeInvalidState, "product code %s was taken out by an audit; disapprove the opname instead", c.Barcode)
		}
		if err := c.Restore(actorID); err != nil {
			return err
		}
		if err := repos.ProductCodeRepo().Save(ctx, c); err != nil {
			return err
		}
		if err := repos.SaveEvents(ctx, c.GetDomainEvents()); err != nil {
			return err
		}
		c.ClearDomainEvents()
		code = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToProductCodeResponse(code)
	return &resp, nil
}
