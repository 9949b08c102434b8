package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/gin-gonic/gin"
)

// transactionHandler exposes the orchestrated business transactions.
type transactionHandler struct {
	saleService       portssvc.SaleSvcFacade
	purchaseService   portssvc.PurchaseSvcFacade
	returnService     portssvc.ReturnSvcFacade
	adjustmentService portssvc.AdjustmentSvcFacade
}

// RegisterTransactionRoutes registers sale, purchase, return and adjustment routes under a business group.
func RegisterTransactionRoutes(
	rg *gin.RouterGroup,
	saleService portssvc.SaleSvcFacade,
	purchaseService portssvc.PurchaseSvcFacade,
	returnService portssvc.ReturnSvcFacade,
	adjustmentService portssvc.AdjustmentSvcFacade,
) {
	h := &transactionHandler{
		saleService:       saleService,
		purchaseService:   purchaseService,
		returnService:     returnService,
		adjustmentService: adjustmentService,
	}

	rg.POST("/sales", h.createSale)
	rg.GET("/sales/:saleID", h.getSale)
	rg.POST("/purchases", h.createPurchase)
	rg.POST("/returns", h.processReturn)
	rg.POST("/adjustments", h.createAdjustment)
}

func (h *transactionHandler) createSale(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req dto.CreateSaleRequest
	if !bindJSON(c, &req) {
		return
	}
	sale, err := h.saleService.CreateSale(c.Request.Context(), c.Param("businessID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create sale")
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *transactionHandler) getSale(c *gin.Context) {
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("businessID"), c.Param("saleID"))
	if err != nil {
		respondError(c, err, "Failed to get sale")
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *transactionHandler) createPurchase(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req dto.CreatePurchaseRequest
	if !bindJSON(c, &req) {
		return
	}
	purchase, err := h.purchaseService.CreatePurchase(c.Request.Context(), c.Param("businessID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create purchase")
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

func (h *transactionHandler) processReturn(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req dto.ProcessReturnRequest
	if !bindJSON(c, &req) {
		return
	}
	ret, err := h.returnService.ProcessReturn(c.Request.Context(), c.Param("businessID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to process return")
		return
	}
	c.JSON(http.StatusCreated, ret)
}

func (h *transactionHandler) createAdjustment(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req dto.CreateAdjustmentRequest
	if !bindJSON(c, &req) {
		return
	}
	adj, err := h.adjustmentService.CreateAdjustment(c.Request.Context(), c.Param("businessID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create adjustment")
		return
	}
	c.JSON(http.StatusCreated, adj)
}
