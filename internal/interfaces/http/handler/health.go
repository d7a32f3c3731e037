package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gemstok/inventory/internal/interfaces/http/dto"
)

// DatabaseChecker reports database connectivity and pool statistics.
type DatabaseChecker interface {
	Ping() error
	ConnectionStats() (map[string]interface{}, error)
}

// HealthHandler handles health and system API endpoints
type HealthHandler struct {
	BaseHandler
	db        DatabaseChecker
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabaseChecker) *HealthHandler {
	return &HealthHandler{db: db, startTime: time.Now()}
}

// RegisterRoutes registers health routes
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/health/ready", h.Ready)
	rg.GET("/system/info", h.SystemInfo)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string                 `json:"status"`
	Database map[string]interface{} `json:"database,omitempty"`
}

// SystemInfoResponse represents basic process information
type SystemInfoResponse struct {
	Name      string `json:"name"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// Health reports liveness. It always returns 200 while the process runs.
func (h *HealthHandler) Health(c *gin.Context) {
	h.Success(c, HealthResponse{Status: "ok"})
}

// Ready reports readiness. It fails when the database is unreachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeInternal,
			"Database unreachable",
			getRequestID(c),
		))
		return
	}

	stats, err := h.db.ConnectionStats()
	if err != nil {
		stats = nil
	}
	h.Success(c, HealthResponse{Status: "ready", Database: stats})
}

// SystemInfo returns process information.
func (h *HealthHandler) SystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      "inventory-service",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}
