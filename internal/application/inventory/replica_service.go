package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gemstok/inventory/internal/domain/inventory"
	"github.com/gemstok/inventory/internal/domain/shared"
)

// ReplicaService is the consumer-side apply path for inventory entities.
// Remote events carry full entity state; applying one is an upsert keyed by
// the originating ID, so any replay order converges on the same rows. Nothing
// on this path raises domain events or writes the outbox, which is what keeps
// consumed events from being re-published.
type ReplicaService struct {
	codeRepo   inventory.ProductCodeRepository
	opnameRepo inventory.StockOpnameRepository
	logger     *zap.Logger
}

// NewReplicaService creates a new ReplicaService.
func NewReplicaService(codeRepo inventory.ProductCodeRepository, opnameRepo inventory.StockOpnameRepository, logger *zap.Logger) *ReplicaService {
	return &ReplicaService{codeRepo: codeRepo, opnameRepo: opnameRepo, logger: logger}
}

// ApplyProductCode upserts the local copy of a product code from event state.
func (s *ReplicaService) ApplyProductCode(ctx context.Context, state inventory.ProductCodeState) error {
	code := &inventory.ProductCode{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        state.ID,
				CreatedAt: state.CreatedAt,
				UpdatedAt: state.UpdatedAt,
			},
			Version: state.Version,
		},
		Barcode:        state.Barcode,
		ProductID:      state.ProductID,
		Status:         state.Status,
		Weight:         state.Weight,
		FixedPrice:     state.FixedPrice,
		BuyPrice:       state.BuyPrice,
		TakenOutReason: state.TakenOutReason,
		TakenOutBy:     state.TakenOutBy,
		TakenOutAt:     state.TakenOutAt,
		DeletedAt:      state.DeletedAt,
	}
	if err := s.codeRepo.Upsert(ctx, code); err != nil {
		return err
	}
	s.logger.Debug("product code replica applied", zap.String("id", state.ID.String()))
	return nil
}

// DeleteProductCode removes the local copy. Deleting a copy that was never
// replicated (or is already gone) succeeds, so deletes replay safely.
func (s *ReplicaService) DeleteProductCode(ctx context.Context, id uuid.UUID) error {
	if err := s.codeRepo.Delete(ctx, id); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return nil
}

// ApplyStockOpname upserts the local copy of an opname header.
func (s *ReplicaService) ApplyStockOpname(ctx context.Context, state inventory.StockOpnameState) error {
	opname := &inventory.StockOpname{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        state.ID,
				CreatedAt: state.CreatedAt,
				UpdatedAt: state.UpdatedAt,
			},
			Version: state.Version,
		},
		StoreID:     state.StoreID,
		CategoryID:  state.CategoryID,
		TransDate:   state.TransDate,
		Status:      state.Status,
		Description: state.Description,
		CreatedBy:   state.CreatedBy,
		ApproveBy:   state.ApproveBy,
		ApproveAt:   state.ApproveAt,
	}
	if err := s.opnameRepo.Upsert(ctx, opname); err != nil {
		return err
	}
	s.logger.Debug("stock opname replica applied", zap.String("id", state.ID.String()))
	return nil
}

// DeleteStockOpname removes the local copy of an opname and its details.
func (s *ReplicaService) DeleteStockOpname(ctx context.Context, id uuid.UUID) error {
	if err := s.opnameRepo.Delete(ctx, id); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return nil
}

// ApplyStockOpnameDetail upserts one detail row from event state.
func (s *ReplicaService) ApplyStockOpnameDetail(ctx context.Context, state inventory.StockOpnameDetailState) error {
	detail := &inventory.StockOpnameDetail{
		BaseEntity: shared.BaseEntity{
			ID:        state.ID,
			CreatedAt: state.CreatedAt,
			UpdatedAt: state.UpdatedAt,
		},
		StockOpnameID: state.StockOpnameID,
		ProductCodeID: state.ProductCodeID,
		Scanned:       state.Scanned,
	}
	return s.opnameRepo.UpsertDetail(ctx, detail)
}
