package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/gin-gonic/gin"
)

type catalogHandler struct {
	catalogService portssvc.CatalogSvcFacade
}

// RegisterCatalogRoutes registers item and warehouse routes under a business group.
func RegisterCatalogRoutes(rg *gin.RouterGroup, catalogService portssvc.CatalogSvcFacade) {
	h := &catalogHandler{catalogService: catalogService}

	rg.POST("/items", h.createItem)
	rg.GET("/items", h.listItems)
	rg.GET("/items/:itemID", h.getItem)

	rg.POST("/warehouses", h.createWarehouse)
	rg.GET("/warehouses", h.listWarehouses)
}

func (h *catalogHandler) createItem(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req dto.CreateItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.catalogService.CreateItem(c.Request.Context(), c.Param("businessID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *catalogHandler) listItems(c *gin.Context) {
	resp, err := h.catalogService.ListItems(c.Request.Context(), c.Param("businessID"))
	if err != nil {
		respondError(c, err, "Failed to list items")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *catalogHandler) getItem(c *gin.Context) {
	item, err := h.catalogService.GetItem(c.Request.Context(), c.Param("businessID"), c.Param("itemID"))
	if err != nil {
		respondError(c, err, "Failed to get item")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *catalogHandler) createWarehouse(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req dto.CreateWarehouseRequest
	if !bindJSON(c, &req) {
		return
	}
	wh, err := h.catalogService.CreateWarehouse(c.Request.Context(), c.Param("businessID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create warehouse")
		return
	}
	c.JSON(http.StatusCreated, wh)
}

func (h *catalogHandler) listWarehouses(c *gin.Context) {
	resp, err := h.catalogService.ListWarehouses(c.Request.Context(), c.Param("businessID"))
	if err != nil {
		respondError(c, err, "Failed to list warehouses")
		return
	}
	c.JSON(http.StatusOK, resp)
}
