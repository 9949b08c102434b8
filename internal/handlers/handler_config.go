package handlers

import (
	"net/http"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/gin-gonic/gin"
)

// configHandler exposes tenant configuration.
type configHandler struct {
	configService portssvc.ConfigSvcFacade
	ruleService   portssvc.RuleSvcFacade
}

// RegisterConfigRoutes registers configuration routes under a business group.
func RegisterConfigRoutes(rg *gin.RouterGroup, configService portssvc.ConfigSvcFacade, ruleService portssvc.RuleSvcFacade) {
	h := &configHandler{configService: configService, ruleService: ruleService}

	cfg := rg.Group("/config")
	{
		cfg.GET("", h.getConfig)
		cfg.PUT("/features/:featureKey", h.setFeature)
		cfg.PUT("/rules/:ruleKey", h.setRule)
		cfg.POST("/rules/:ruleKey/evaluate", h.evaluateRule)
	}
}

func toConfigResponse(cfg domain.EffectiveConfig) dto.ConfigResponse {
	tree := cfg.Tree()
	features, _ := tree["features"].(map[string]any)
	rules, _ := tree["rules"].(map[string]any)
	return dto.ConfigResponse{BusinessID: cfg.BusinessID, Features: features, Rules: rules}
}

func (h *configHandler) getConfig(c *gin.Context) {
	cfg, err := h.configService.ResolveConfig(c.Request.Context(), c.Param("businessID"))
	if err != nil {
		respondError(c, err, "Failed to resolve configuration")
		return
	}
	c.JSON(http.StatusOK, toConfigResponse(cfg))
}

func (h *configHandler) setFeature(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req dto.SetFeatureRequest
	if !bindJSON(c, &req) {
		return
	}
	feature, err := h.configService.SetFeature(c.Request.Context(), c.Param("businessID"), c.Param("featureKey"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to set feature")
		return
	}
	c.JSON(http.StatusOK, feature)
}

func (h *configHandler) setRule(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req dto.SetRuleRequest
	if !bindJSON(c, &req) {
		return
	}
	rule, err := h.configService.SetRule(c.Request.Context(), c.Param("businessID"), c.Param("ruleKey"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to set rule")
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (h *configHandler) evaluateRule(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req dto.EvaluateRuleRequest
	if !bindJSON(c, &req) {
		return
	}
	ruleKey := c.Param("ruleKey")
	allowed, err := h.ruleService.EvaluateRule(c.Request.Context(), domain.RuleContext{
		BusinessID: c.Param("businessID"),
		UserID:     userID,
		Value:      req.Value,
	}, ruleKey)
	if err != nil {
		respondError(c, err, "Failed to evaluate rule")
		return
	}
	c.JSON(http.StatusOK, dto.EvaluateRuleResponse{RuleKey: ruleKey, Allowed: allowed})
}
