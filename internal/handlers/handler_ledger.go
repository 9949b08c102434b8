package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler exposes the chart of accounts and journal entries.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// RegisterLedgerRoutes registers account and journal routes under a business group.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService}

	rg.POST("/accounts", h.createAccount)
	rg.GET("/accounts", h.listAccounts)
	rg.GET("/accounts/:accountID", h.getAccount)
	rg.POST("/accounts/provision", h.provisionAccounts)

	rg.GET("/journal", h.listJournals)
	rg.GET("/journal/:entryID", h.getJournalEntry)
	rg.POST("/journal/:entryID/reverse", h.reverseJournalEntry)
}

func (h *ledgerHandler) createAccount(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := h.ledgerService.CreateAccount(c.Request.Context(), c.Param("businessID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *ledgerHandler) listAccounts(c *gin.Context) {
	resp, err := h.ledgerService.ListAccounts(c.Request.Context(), c.Param("businessID"))
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ledgerHandler) getAccount(c *gin.Context) {
	account, err := h.ledgerService.GetAccount(c.Request.Context(), c.Param("businessID"), c.Param("accountID"))
	if err != nil {
		respondError(c, err, "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *ledgerHandler) provisionAccounts(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	resp, err := h.ledgerService.ProvisionDefaultAccounts(c.Request.Context(), c.Param("businessID"), userID)
	if err != nil {
		respondError(c, err, "Failed to provision accounts")
		return
	}
	status := http.StatusOK
	if resp.Created > 0 {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

func (h *ledgerHandler) getJournalEntry(c *gin.Context) {
	entry, err := h.ledgerService.GetJournalEntry(c.Request.Context(), c.Param("businessID"), c.Param("entryID"))
	if err != nil {
		respondError(c, err, "Failed to get journal entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *ledgerHandler) listJournals(c *gin.Context) {
	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Failed to bind query for ListJournals", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	resp, err := h.ledgerService.ListJournals(c.Request.Context(), c.Param("businessID"), params)
	if err != nil {
		respondError(c, err, "Failed to list journals")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ledgerHandler) reverseJournalEntry(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	entry, err := h.ledgerService.ReverseJournalEntry(c.Request.Context(), c.Param("businessID"), c.Param("entryID"), userID)
	if err != nil {
		respondError(c, err, "Failed to reverse journal entry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}
