package handlers

import (
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the tenant-scoped /api/v1 group and delegates to specific route registrations
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	business := r.Group("/api/v1/businesses/:businessID", middleware.ActorMiddleware())

	RegisterConfigRoutes(business, services.Config, services.Rule)
	RegisterLedgerRoutes(business, services.Ledger)
	RegisterCatalogRoutes(business, services.Catalog)
	RegisterInventoryRoutes(business, services.Inventory)
	RegisterTransactionRoutes(business, services.Sale, services.Purchase, services.Return, services.Adjustment)
	RegisterSystemRoutes(business, services.System)
}
