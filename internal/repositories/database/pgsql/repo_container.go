package pgsql

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

func newRepositoryProvider(db querier) portsrepo.RepositoryProvider {
	base := BaseRepository{db: db}
	return portsrepo.RepositoryProvider{
		BusinessRepo:   &PgxBusinessRepository{base},
		ConfigRepo:     &PgxConfigRepository{base},
		ItemRepo:       &PgxItemRepository{base},
		UnitRepo:       &PgxUnitRepository{base},
		StockRepo:      &PgxStockRepository{base},
		AccountRepo:    &PgxAccountRepository{base},
		JournalRepo:    &PgxJournalRepository{base},
		SaleRepo:       &PgxSaleRepository{base},
		PurchaseRepo:   &PgxPurchaseRepository{base},
		ReturnRepo:     &PgxReturnRepository{base},
		AdjustmentRepo: &PgxAdjustmentRepository{base},
		SystemRepo:     &PgxSystemRepository{base},
	}
}
