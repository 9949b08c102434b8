// Package memory is an in-process implementation of the repository ports.
// Transactions run one at a time against a copy of the state that replaces it on commit.
package memory

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type state struct {
	businesses  map[string]domain.Business
	industries  map[string]domain.Industry
	warehouses  map[string]domain.Warehouse
	features    map[string]domain.BusinessFeature // businessID|key
	rules       map[string]domain.BusinessRule    // businessID|key
	items       map[string]domain.Item
	units       map[string]domain.Unit
	conversions map[string]domain.UnitConversion // businessID|from|to
	stocks      map[string]domain.Stock
	stockIndex  map[string]string // businessID|warehouseID|itemID -> stockID
	batches     map[string]domain.StockBatch
	movements   []domain.StockMovement
	accounts    map[string]domain.Account
	journals    map[string]domain.JournalEntry
	sales       map[string]domain.Sale
	purchases   map[string]domain.Purchase
	returns     map[string]domain.SaleReturn
	adjustments map[string]domain.StockAdjustment
	keys        map[string]domain.OperationKey
	days        map[string]domain.DayControl
}

func newState() *state {
	return &state{
		businesses:  make(map[string]domain.Business),
		industries:  make(map[string]domain.Industry),
		warehouses:  make(map[string]domain.Warehouse),
		features:    make(map[string]domain.BusinessFeature),
		rules:       make(map[string]domain.BusinessRule),
		items:       make(map[string]domain.Item),
		units:       make(map[string]domain.Unit),
		conversions: make(map[string]domain.UnitConversion),
		stocks:      make(map[string]domain.Stock),
		stockIndex:  make(map[string]string),
		batches:     make(map[string]domain.StockBatch),
		movements:   make([]domain.StockMovement, 0),
		accounts:    make(map[string]domain.Account),
		journals:    make(map[string]domain.JournalEntry),
		sales:       make(map[string]domain.Sale),
		purchases:   make(map[string]domain.Purchase),
		returns:     make(map[string]domain.SaleReturn),
		adjustments: make(map[string]domain.StockAdjustment),
		keys:        make(map[string]domain.OperationKey),
		days:        make(map[string]domain.DayControl),
	}
}

// clone copies every table. Stored values are never mutated in place, so a shallow copy per table suffices.
func (s *state) clone() *state {
	return &state{
		businesses:  maps.Clone(s.businesses),
		industries:  maps.Clone(s.industries),
		warehouses:  maps.Clone(s.warehouses),
		features:    maps.Clone(s.features),
		rules:       maps.Clone(s.rules),
		items:       maps.Clone(s.items),
		units:       maps.Clone(s.units),
		conversions: maps.Clone(s.conversions),
		stocks:      maps.Clone(s.stocks),
		stockIndex:  maps.Clone(s.stockIndex),
		batches:     maps.Clone(s.batches),
		movements:   slices.Clone(s.movements),
		accounts:    maps.Clone(s.accounts),
		journals:    maps.Clone(s.journals),
		sales:       maps.Clone(s.sales),
		purchases:   maps.Clone(s.purchases),
		returns:     maps.Clone(s.returns),
		adjustments: maps.Clone(s.adjustments),
		keys:        maps.Clone(s.keys),
		days:        maps.Clone(s.days),
	}
}

// Store implements portsrepo.UnitOfWork in memory.
type Store struct {
	mu sync.Mutex
	st *state
}

// New creates an empty store.
func New() *Store {
	return &Store{st: newState()}
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

// WithinTx runs fn against a private copy of the state and publishes it when fn succeeds.
// Transactions are serialized, so fn must not start another one.
func (s *Store) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	if err := fn(ctx, providerFor(&view{tx: work})); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repositories returns repositories that read the committed state.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return providerFor(&view{store: s})
}

// view resolves the state a repository call operates on: the transaction's copy, or the committed state under lock.
type view struct {
	store *Store
	tx    *state
}

func (v *view) acquire() (*state, func()) {
	if v.tx != nil {
		return v.tx, func() {}
	}
	v.store.mu.Lock()
	return v.store.st, v.store.mu.Unlock
}

func providerFor(v *view) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		BusinessRepo:   &businessRepo{v},
		ConfigRepo:     &configRepo{v},
		ItemRepo:       &itemRepo{v},
		UnitRepo:       &unitRepo{v},
		StockRepo:      &stockRepo{v},
		AccountRepo:    &accountRepo{v},
		JournalRepo:    &journalRepo{v},
		SaleRepo:       &saleRepo{v},
		PurchaseRepo:   &purchaseRepo{v},
		ReturnRepo:     &returnRepo{v},
		AdjustmentRepo: &adjustmentRepo{v},
		SystemRepo:     &systemRepo{v},
	}
}

func key(parts ...string) string {
	return strings.Join(parts, "|")
}
