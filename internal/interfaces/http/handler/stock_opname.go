package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/gemstok/inventory/internal/application/inventory"
	"github.com/gemstok/inventory/internal/interfaces/http/dto"
)

// StockOpnameHandler handles stock opname API endpoints
type StockOpnameHandler struct {
	BaseHandler
	opnameService *inventoryapp.StockOpnameService
}

// NewStockOpnameHandler creates a new StockOpnameHandler
func NewStockOpnameHandler(opnameService *inventoryapp.StockOpnameService) *StockOpnameHandler {
	return &StockOpnameHandler{opnameService: opnameService}
}

// RegisterRoutes registers stock opname routes
func (h *StockOpnameHandler) RegisterRoutes(rg *gin.RouterGroup) {
	opnames := rg.Group("/inventory/stock-opnames")
	{
		opnames.GET("", h.List)
		opnames.GET("/:id", h.GetByID)
		opnames.POST("", h.Create)
		opnames.PUT("/:id", h.Update)
		opnames.POST("/:id/scan", h.Scan)
		opnames.POST("/:id/approve", h.Approve)
		opnames.POST("/:id/disapprove", h.Disapprove)
		opnames.DELETE("/:id", h.Delete)
	}
}

// ===================== Query Handlers =====================

// GetByID retrieves a stock opname with its detail rows.
func (h *StockOpnameHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock opname ID format")
		return
	}

	result, err := h.opnameService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// List retrieves a paginated list of stock opnames with optional filtering.
func (h *StockOpnameHandler) List(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	listReq.Normalize()

	filter := inventoryapp.StockOpnameListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
	}

	if storeIDStr := c.Query("store_id"); storeIDStr != "" {
		storeID, err := uuid.Parse(storeIDStr)
		if err != nil {
			h.BadRequest(c, "Invalid store ID format")
			return
		}
		filter.StoreID = &storeID
	}

	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		categoryID, err := uuid.Parse(categoryIDStr)
		if err != nil {
			h.BadRequest(c, "Invalid category ID format")
			return
		}
		filter.CategoryID = &categoryID
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status, err := strconv.Atoi(statusStr)
		if err != nil {
			h.BadRequest(c, "Invalid status value")
			return
		}
		filter.Status = &status
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		startDate, err := parseDateTime(startDateStr)
		if err != nil {
			h.BadRequest(c, "Invalid start_date format")
			return
		}
		filter.StartDate = &startDate
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		endDate, err := parseDateTime(endDateStr)
		if err != nil {
			h.BadRequest(c, "Invalid end_date format")
			return
		}
		filter.EndDate = &endDate
	}

	results, total, err := h.opnameService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, listReq.Page, listReq.PageSize)
}

// ===================== Command Handlers =====================

// Create opens a new stock opname and freezes its candidate snapshot.
func (h *StockOpnameHandler) Create(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	var req inventoryapp.CreateStockOpnameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.opnameService.Create(c.Request.Context(), req, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// Update edits the header of an open stock opname.
func (h *StockOpnameHandler) Update(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock opname ID format")
		return
	}

	var req inventoryapp.UpdateStockOpnameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.opnameService.Update(c.Request.Context(), id, req, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Scan records one barcode scan against an open stock opname.
func (h *StockOpnameHandler) Scan(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock opname ID format")
		return
	}

	var req inventoryapp.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.opnameService.Scan(c.Request.Context(), id, req, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Approve closes the opname and flags unscanned available pieces as lost.
func (h *StockOpnameHandler) Approve(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock opname ID format")
		return
	}

	result, err := h.opnameService.Approve(c.Request.Context(), id, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Disapprove reopens an approved opname and restores its audit-lost pieces.
func (h *StockOpnameHandler) Disapprove(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock opname ID format")
		return
	}

	result, err := h.opnameService.Disapprove(c.Request.Context(), id, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes an open stock opname.
func (h *StockOpnameHandler) Delete(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock opname ID format")
		return
	}

	if err := h.opnameService.Delete(c.Request.Context(), id, actorID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// parseDateTime accepts both date-only and RFC 3339 timestamps.
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
