package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gemstok/inventory/internal/domain/inventory"
)

// ===================== Product Code DTOs =====================

// GenerateCodesRequest mints new barcoded pieces for a product.
type GenerateCodesRequest struct {
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	Quantity   int             `json:"quantity"`
	Weight     decimal.Decimal `json:"weight"`
	FixedPrice decimal.Decimal `json:"fixed_price"`
	BuyPrice   decimal.Decimal `json:"buy_price"`
}

// StockOutRequest takes pieces out of stock with a manual reason.
type StockOutRequest struct {
	StoreID        uuid.UUID                `json:"store_id" binding:"required"`
	ProductCodeIDs []uuid.UUID              `json:"product_code_ids" binding:"required"`
	Reason         inventory.TakenOutReason `json:"reason"`
	Date           *time.Time               `json:"date"`
}

// ProductCodeListFilter narrows product code listings.
type ProductCodeListFilter struct {
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir"`
	Search    string     `form:"search"`
	ProductID *uuid.UUID `form:"product_id"`
	Status    *int       `form:"status"`
}

// ProductCodeResponse is the read model for one piece.
type ProductCodeResponse struct {
	ID             uuid.UUID       `json:"id"`
	Barcode        string          `json:"barcode"`
	ProductID      uuid.UUID       `json:"product_id"`
	Status         int             `json:"status"`
	Weight         decimal.Decimal `json:"weight"`
	FixedPrice     decimal.Decimal `json:"fixed_price"`
	BuyPrice       decimal.Decimal `json:"buy_price"`
	TakenOutReason int             `json:"taken_out_reason"`
	TakenOutBy     *uuid.UUID      `json:"taken_out_by"`
	TakenOutAt     *time.Time      `json:"taken_out_at"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToProductCodeResponse converts a domain product code to its read model.
func ToProductCodeResponse(c *inventory.ProductCode) ProductCodeResponse {
	return ProductCodeResponse{
		ID:             c.ID,
		Barcode:        c.Barcode,
		ProductID:      c.ProductID,
		Status:         int(c.Status),
		Weight:         c.Weight,
		FixedPrice:     c.FixedPrice,
		BuyPrice:       c.BuyPrice,
		TakenOutReason: int(c.TakenOutReason),
		TakenOutBy:     c.TakenOutBy,
		TakenOutAt:     c.TakenOutAt,
		Version:        c.Version,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ToProductCodeResponses converts a slice of product codes.
func ToProductCodeResponses(codes []*inventory.ProductCode) []ProductCodeResponse {
	out := make([]ProductCodeResponse, 0, len(codes))
	for _, c := range codes {
		out = append(out, ToProductCodeResponse(c))
	}
	return out
}

// ===================== Stock Opname DTOs =====================

// CreateStockOpnameRequest opens a new audit over one store and category.
type CreateStockOpnameRequest struct {
	StoreID     uuid.UUID `json:"store_id" binding:"required"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	TransDate   time.Time `json:"trans_date" binding:"required"`
	Description string    `json:"description"`
}

// UpdateStockOpnameRequest edits the header of an open audit.
type UpdateStockOpnameRequest struct {
	TransDate   time.Time `json:"trans_date" binding:"required"`
	Description string    `json:"description"`
}

// ScanRequest records one barcode scan against an open audit.
type ScanRequest struct {
	Barcode string `json:"barcode" binding:"required"`
	Scanned bool   `json:"scanned"`
}

// StockOpnameListFilter narrows opname listings.
type StockOpnameListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
	StoreID    *uuid.UUID `form:"store_id"`
	CategoryID *uuid.UUID `form:"category_id"`
	Status     *int       `form:"status"`
	StartDate  *time.Time `form:"start_date"`
	EndDate    *time.Time `form:"end_date"`
}

// StockOpnameDetailResponse is the read model for one frozen candidate.
type StockOpnameDetailResponse struct {
	ID            uuid.UUID `json:"id"`
	ProductCodeID uuid.UUID `json:"product_code_id"`
	Scanned       bool      `json:"scanned"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StockOpnameResponse is the read model for one audit.
type StockOpnameResponse struct {
	ID           uuid.UUID                   `json:"id"`
	StoreID      uuid.UUID                   `json:"store_id"`
	CategoryID   uuid.UUID                   `json:"category_id"`
	TransDate    time.Time                   `json:"trans_date"`
	Status       int                         `json:"status"`
	Description  string                      `json:"description"`
	CreatedBy    uuid.UUID                   `json:"created_by"`
	ApproveBy    *uuid.UUID                  `json:"approve_by"`
	ApproveAt    *time.Time                  `json:"approve_at"`
	Version      int                         `json:"version"`
	TotalCodes   int                         `json:"total_codes"`
	ScannedCodes int                         `json:"scanned_codes"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
	Details      []StockOpnameDetailResponse `json:"details,omitempty"`
}

// ToStockOpnameResponse converts a domain opname, including its details.
func ToStockOpnameResponse(o *inventory.StockOpname) StockOpnameResponse {
	resp := toStockOpnameHeader(o)
	resp.Details = make([]StockOpnameDetailResponse, 0, len(o.Details))
	for _, d := range o.Details {
		resp.Details = append(resp.Details, StockOpnameDetailResponse{
			ID:            d.ID,
			ProductCodeID: d.ProductCodeID,
			Scanned:       d.Scanned,
			UpdatedAt:     d.UpdatedAt,
		})
	}
	return resp
}

// ToStockOpnameListResponses converts opnames without their detail rows.
func ToStockOpnameListResponses(opnames []*inventory.StockOpname) []StockOpnameResponse {
	out := make([]StockOpnameResponse, 0, len(opnames))
	for _, o := range opnames {
		out = append(out, toStockOpnameHeader(o))
	}
	return out
}

func toStockOpnameHeader(o *inventory.StockOpname) StockOpnameResponse {
	scanned := 0
	for _, d := range o.Details {
		if d.Scanned {
			scanned++
		}
	}
	return StockOpnameResponse{
		ID:           o.ID,
		StoreID:      o.StoreID,
		CategoryID:   o.CategoryID,
		TransDate:    o.TransDate,
		Status:       int(o.Status),
		Description:  o.Description,
		CreatedBy:    o.CreatedBy,
		ApproveBy:    o.ApproveBy,
		ApproveAt:    o.ApproveAt,
		Version:      o.Version,
		TotalCodes:   len(o.Details),
		ScannedCodes: scanned,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
