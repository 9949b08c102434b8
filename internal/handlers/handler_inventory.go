package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// inventoryHandler exposes the stock ledger.
type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

// RegisterInventoryRoutes registers stock routes under a business group.
func RegisterInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := &inventoryHandler{inventoryService: inventoryService}

	rg.POST("/stock/adjust", h.adjustStock)

	warehouses := rg.Group("/warehouses/:warehouseID")
	{
		warehouses.GET("/stock", h.getWarehouseStock)
		warehouses.GET("/items/:itemID/movements", h.listMovements)
		warehouses.GET("/items/:itemID/as-of", h.stockAsOf)
	}
}

func (h *inventoryHandler) adjustStock(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}
	change, err := h.inventoryService.AdjustStock(c.Request.Context(), c.Param("businessID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to adjust stock")
		return
	}
	c.JSON(http.StatusOK, change)
}

func (h *inventoryHandler) getWarehouseStock(c *gin.Context) {
	stock, err := h.inventoryService.GetWarehouseStock(c.Request.Context(), c.Param("businessID"), c.Param("warehouseID"))
	if err != nil {
		respondError(c, err, "Failed to get warehouse stock")
		return
	}
	c.JSON(http.StatusOK, stock)
}

func (h *inventoryHandler) listMovements(c *gin.Context) {
	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Failed to bind query for ListMovements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	resp, err := h.inventoryService.ListMovements(c.Request.Context(), c.Param("businessID"), c.Param("warehouseID"), c.Param("itemID"), params)
	if err != nil {
		respondError(c, err, "Failed to list movements")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *inventoryHandler) stockAsOf(c *gin.Context) {
	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be an RFC3339 timestamp"})
			return
		}
		asOf = parsed
	}
	resp, err := h.inventoryService.StockAsOf(c.Request.Context(), c.Param("businessID"), c.Param("warehouseID"), c.Param("itemID"), asOf)
	if err != nil {
		respondError(c, err, "Failed to compute stock as of date")
		return
	}
	c.JSON(http.StatusOK, resp)
}
