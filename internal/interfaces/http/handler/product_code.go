package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/gemstok/inventory/internal/application/inventory"
	"github.com/gemstok/inventory/internal/interfaces/http/dto"
)

// ProductCodeHandler handles product code API endpoints
type ProductCodeHandler struct {
	BaseHandler
	codeService *inventoryapp.ProductCodeService
}

// NewProductCodeHandler creates a new ProductCodeHandler
func NewProductCodeHandler(codeService *inventoryapp.ProductCodeService) *ProductCodeHandler {
	return &ProductCodeHandler{codeService: codeService}
}

// RegisterRoutes registers product code routes
func (h *ProductCodeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	codes := rg.Group("/inventory/product-codes")
	{
		codes.GET("", h.List)
		codes.GET("/:id", h.GetByID)
		codes.GET("/by-barcode/:barcode", h.GetByBarcode)
		codes.POST("/generate", h.Generate)
		codes.POST("/stock-out", h.StockOut)
		codes.POST("/:id/unstock-out", h.UnstockOut)
	}
}

// ===================== Query Handlers =====================

// GetByID retrieves a product code by its ID.
func (h *ProductCodeHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product code ID format")
		return
	}

	result, err := h.codeService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByBarcode retrieves a product code by its barcode.
func (h *ProductCodeHandler) GetByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		h.BadRequest(c, "Barcode is required")
		return
	}

	result, err := h.codeService.GetByBarcode(c.Request.Context(), barcode)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// List retrieves a paginated list of product codes with optional filtering.
func (h *ProductCodeHandler) List(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	listReq.Normalize()

	filter := inventoryapp.ProductCodeListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
	}

	if productIDStr := c.Query("product_id"); productIDStr != "" {
		productID, err := uuid.Parse(productIDStr)
		if err != nil {
			h.BadRequest(c, "Invalid product ID format")
			return
		}
		filter.ProductID = &productID
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status, err := strconv.Atoi(statusStr)
		if err != nil {
			h.BadRequest(c, "Invalid status value")
			return
		}
		filter.Status = &status
	}

	results, total, err := h.codeService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, listReq.Page, listReq.PageSize)
}

// ===================== Command Handlers =====================

// Generate mints new barcoded pieces for a product.
func (h *ProductCodeHandler) Generate(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	var req inventoryapp.GenerateCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	results, err := h.codeService.Generate(c.Request.Context(), req, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, results)
}

// StockOut takes pieces out of stock with a manual reason.
func (h *ProductCodeHandler) StockOut(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	var req inventoryapp.StockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	results, err := h.codeService.StockOut(c.Request.Context(), req, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, results)
}

// UnstockOut returns a manually taken-out piece to stock.
func (h *ProductCodeHandler) UnstockOut(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product code ID format")
		return
	}

	result, err := h.codeService.UnstockOut(c.Request.Context(), id, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
