package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/gin-gonic/gin"
)

// systemHandler exposes approval keys and the business day.
type systemHandler struct {
	systemService portssvc.SystemSvcFacade
}

// RegisterSystemRoutes registers approval-key and day-control routes under a business group.
func RegisterSystemRoutes(rg *gin.RouterGroup, systemService portssvc.SystemSvcFacade) {
	h := &systemHandler{systemService: systemService}

	system := rg.Group("/system")
	{
		system.POST("/keys", h.generateKey)
		system.GET("/day", h.getDay)
		system.POST("/day/open", h.openDay)
		system.POST("/day/close", h.closeDay)
	}
}

func (h *systemHandler) generateKey(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req dto.GenerateKeyRequest
	if !bindJSON(c, &req) {
		return
	}
	key, err := h.systemService.GenerateKey(c.Request.Context(), c.Param("businessID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to generate key")
		return
	}
	c.JSON(http.StatusCreated, key)
}

func (h *systemHandler) getDay(c *gin.Context) {
	day, err := h.systemService.CurrentDay(c.Request.Context(), c.Param("businessID"))
	if err != nil {
		respondError(c, err, "Failed to get business day")
		return
	}
	c.JSON(http.StatusOK, dto.DayStatusResponse{IsOpen: day != nil, Day: day})
}

func (h *systemHandler) openDay(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req dto.DayTransitionRequest
	if !bindJSON(c, &req) {
		return
	}
	day, err := h.systemService.OpenDay(c.Request.Context(), c.Param("businessID"), userID, req)
	if err != nil {
		respondError(c, err, "Failed to open day")
		return
	}
	c.JSON(http.StatusOK, dto.DayStatusResponse{IsOpen: true, Day: day})
}

func (h *systemHandler) closeDay(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req dto.DayTransitionRequest
	if !bindJSON(c, &req) {
		return
	}
	day, err := h.systemService.CloseDay(c.Request.Context(), c.Param("businessID"), userID, req)
	if err != nil {
		respondError(c, err, "Failed to close day")
		return
	}
	c.JSON(http.StatusOK, dto.DayStatusResponse{IsOpen: false, Day: day})
}
