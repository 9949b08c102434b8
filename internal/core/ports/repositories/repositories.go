package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Inside UnitOfWork.WithinTx every member shares the caller's transaction.
type RepositoryProvider struct {
	BusinessRepo   BusinessRepositoryFacade
	ConfigRepo     ConfigRepositoryFacade
	ItemRepo       ItemRepositoryFacade
	UnitRepo       UnitRepositoryFacade
	StockRepo      StockRepositoryFacade
	AccountRepo    AccountRepositoryFacade
	JournalRepo    JournalRepositoryFacade
	SaleRepo       SaleRepositoryFacade
	PurchaseRepo   PurchaseRepositoryFacade
	ReturnRepo     ReturnRepositoryFacade
	AdjustmentRepo AdjustmentRepositoryFacade
	SystemRepo     SystemRepositoryFacade
}
