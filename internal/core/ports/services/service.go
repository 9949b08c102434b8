package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Config     ConfigSvcFacade
	Rule       RuleSvcFacade
	Unit       UnitSvcFacade
	Inventory  InventorySvcFacade
	Ledger     LedgerSvcFacade
	Catalog    CatalogSvcFacade
	Sale       SaleSvcFacade
	Purchase   PurchaseSvcFacade
	Return     ReturnSvcFacade
	Adjustment AdjustmentSvcFacade
	System     SystemSvcFacade
}
