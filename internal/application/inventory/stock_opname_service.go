package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gemstok/inventory/internal/domain/inventory"
	"github.com/gemstok/inventory/internal/domain/shared"
)

// StockOpnameService drives the stock audit lifecycle. Every command runs in
// one transaction together with its outbox writes, so an audit state change
// and the events announcing it either both happen or neither does.
type StockOpnameService struct {
	scope  TransactionScope
	reader inventory.StockOpnameRepository
	logger *zap.Logger
}

// NewStockOpnameService creates a new StockOpnameService.
func NewStockOpnameService(scope TransactionScope, reader inventory.StockOpnameRepository, logger *zap.Logger) *StockOpnameService {
	return &StockOpnameService{scope: scope, reader: reader, logger: logger}
}

// ===================== Query Methods =====================

// GetByID retrieves one opname with its detail rows.
func (s *StockOpnameService) GetByID(ctx context.Context, id uuid.UUID) (*StockOpnameResponse, error) {
	o, err := s.reader.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStockOpnameResponse(o)
	return &resp, nil
}

// List retrieves a paginated list of opname headers.
func (s *StockOpnameService) List(ctx context.Context, filter StockOpnameListFilter) ([]StockOpnameResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  map[string]interface{}{},
	}
	if filter.StoreID != nil {
		domainFilter.Filters["store_id"] = *filter.StoreID
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.StartDate != nil {
		domainFilter.Filters["trans_date_from"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["trans_date_to"] = *filter.EndDate
	}

	page, err := s.reader.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToStockOpnameListResponses(page.Items), page.Total, nil
}

// ===================== Command Methods =====================

// Create opens an audit and freezes its candidate set: every product code of
// the requested store and category that exists at this moment.
func (s *StockOpnameService) Create(ctx context.Context, req CreateStockOpnameRequest, actorID uuid.UUID) (*StockOpnameResponse, error) {
	var opname *inventory.StockOpname
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		candidates, err := repos.ProductCodeRepo().FindByStoreAndCategory(ctx, req.StoreID, req.CategoryID)
		if err != nil {
			return err
		}

		o, err := inventory.NewStockOpname(req.StoreID, req.CategoryID, req.TransDate, req.Description, actorID)
		if err != nil {
			return err
		}
		for _, c := range candidates {
			if err := o.AddCandidate(c.ID); err != nil {
				return err
			}
		}
		o.Freeze(actorID)

		if err := repos.StockOpnameRepo().Save(ctx, o); err != nil {
			return err
		}
		if err := repos.SaveEvents(ctx, o.GetDomainEvents()); err != nil {
			return err
		}
		o.ClearDomainEvents()
		opname = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock opname created",
		zap.String("opname_id", opname.ID.String()),
		zap.String("store_id", opname.StoreID.String()),
		zap.Int("candidates", len(opname.Details)))

	resp := ToStockOpnameResponse(opname)
	return &resp, nil
}

// Update edits the header of an open audit.
func (s *StockOpnameService) Update(ctx context.Context, id uuid.UUID, req UpdateStockOpnameRequest, actorID uuid.UUID) (*StockOpnameResponse, error) {
	var opname *inventory.StockOpname
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.StockOpnameRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := o.UpdateInfo(req.TransDate, req.Description, actorID); err != nil {
			return err
		}
		if err := repos.StockOpnameRepo().Update(ctx, o); err != nil {
			return err
		}
		if err := repos.SaveEvents(ctx, o.GetDomainEvents()); err != nil {
			return err
		}
		o.ClearDomainEvents()
		opname = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToStockOpnameResponse(opname)
	return &resp, nil
}

// Scan marks one candidate piece as seen (or unseen) by barcode. Scanning the
// same piece twice with the same flag changes nothing and emits nothing.
func (s *StockOpnameService) Scan(ctx context.Context, id uuid.UUID, req ScanRequest, actorID uuid.UUID) (*StockOpnameResponse, error) {
	var opname *inventory.StockOpname
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.StockOpnameRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		code, err := repos.ProductCodeRepo().FindByBarcode(ctx, req.Barcode)
		if err != nil {
			return err
		}
		if err := o.SetScanned(code.ID, req.Scanned, actorID); err != nil {
			return err
		}
		if d := o.DetailFor(code.ID); d != nil {
			if err := repos.StockOpnameRepo().SaveDetail(ctx, d); err != nil {
				return err
			}
		}
		if err := repos.SaveEvents(ctx, o.GetDomainEvents()); err != nil {
			return err
		}
		o.ClearDomainEvents()
		opname = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToStockOpnameResponse(opname)
	return &resp, nil
}

// Approve closes the audit. Candidates that were never scanned AND are still
// available right now are flagged as audit-lost; pieces sold or reserved since
// the snapshot are left alone. The live re-check is what makes approval safe
// against sales that raced the audit.
func (s *StockOpnameService) Approve(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*StockOpnameResponse, error) {
	now := time.Now()
	var opname *inventory.StockOpname
	var lostCount int
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.StockOpnameRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		unscanned := o.UnscannedCodeIDs()
		codes, err := repos.ProductCodeRepo().FindByIDs(ctx, unscanned)
		if err != nil {
			return err
		}

		var lost []*inventory.ProductCode
		var lostStates []inventory.ProductCodeState
		for _, c := range codes {
			if c.Status != inventory.CodeStatusAvailable {
				continue
			}
			if err := c.MarkLostByAudit(actorID, now); err != nil {
				return err
			}
			lost = append(lost, c)
			lostStates = append(lostStates, c.State())
		}

		if err := o.Approve(lostStates, actorID, now); err != nil {
			return err
		}

		if err := repos.ProductCodeRepo().SaveAll(ctx, lost); err != nil {
			return err
		}
		if err := repos.StockOpnameRepo().Update(ctx, o); err != nil {
			return err
		}

		events := o.GetDomainEvents()
		for _, c := range lost {
			events = append(events, c.GetDomainEvents()...)
		}
		if err := repos.SaveEvents(ctx, events); err != nil {
			return err
		}
		o.ClearDomainEvents()
		for _, c := range lost {
			c.ClearDomainEvents()
		}

		opname = o
		lostCount = len(lost)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock opname approved",
		zap.String("opname_id", opname.ID.String()),
		zap.Int("lost", lostCount))

	resp := ToStockOpnameResponse(opname)
	return &resp, nil
}

// Disapprove reopens an approved audit and restores the pieces it flagged as
// lost. Only codes taken out with the audit reason are reverted; manual
// removals that happened to the same pieces stay removed.
func (s *StockOpnameService) Disapprove(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*StockOpnameResponse, error) {
	now := time.Now()
	var opname *inventory.StockOpname
	var revertedCount int
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.StockOpnameRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(o.Details))
		for _, d := range o.Details {
			ids = append(ids, d.ProductCodeID)
		}
		codes, err := repos.ProductCodeRepo().FindByIDs(ctx, ids)
		if err != nil {
			return err
		}

		var reverted []*inventory.ProductCode
		var revertedStates []inventory.ProductCodeState
		for _, c := range codes {
			if c.TakenOutReason != inventory.TakenOutReasonAuditLost {
				continue
			}
			if err := c.RestoreFromAudit(actorID); err != nil {
				return err
			}
			reverted = append(reverted, c)
			revertedStates = append(revertedStates, c.State())
		}

		if err := o.Disapprove(revertedStates, actorID, now); err != nil {
			return err
		}

		if err := repos.ProductCodeRepo().SaveAll(ctx, reverted); err != nil {
			return err
		}
		if err := repos.StockOpnameRepo().Update(ctx, o); err != nil {
			return err
		}

		events := o.GetDomainEvents()
		for _, c := range reverted {
			events = append(events, c.GetDomainEvents()...)
		}
		if err := repos.SaveEvents(ctx, events); err != nil {
			return err
		}
		o.ClearDomainEvents()
		for _, c := range reverted {
			c.ClearDomainEvents()
		}

		opname = o
		revertedCount = len(reverted)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock opname disapproved",
		zap.String("opname_id", opname.ID.String()),
		zap.Int("reverted", revertedCount))

	resp := ToStockOpnameResponse(opname)
	return &resp, nil
}

// Delete removes an open audit together with its detail rows.
func (s *StockOpnameService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.StockOpnameRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := o.MarkDeleted(actorID); err != nil {
			return err
		}
		if err := repos.SaveEvents(ctx, o.GetDomainEvents()); err != nil {
			return err
		}
		o.ClearDomainEvents()
		return repos.StockOpnameRepo().Delete(ctx, id)
	})
}
