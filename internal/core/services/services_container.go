package services

import (
	"github.com/SscSPs/ledger_engine/internal/core/ports"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/locking"
)

type containerOptions struct {
	locker       ports.Locker
	audit        ports.AuditSink
	defaultAllow bool
}

// ContainerOption is a functional option for configuring the service container
type ContainerOption func(*containerOptions)

// WithLocker sets the lock used to serialize day transitions.
func WithLocker(l ports.Locker) ContainerOption {
	return func(o *containerOptions) {
		o.locker = l
	}
}

// WithAuditSink sets where audit events are delivered.
func WithAuditSink(a ports.AuditSink) ContainerOption {
	return func(o *containerOptions) {
		o.audit = a
	}
}

// WithDefaultRuleDecision sets how rules that resolve to no value are decided.
func WithDefaultRuleDecision(allow bool) ContainerOption {
	return func(o *containerOptions) {
		o.defaultAllow = allow
	}
}

// NewServiceContainer creates a new service container with properly initialized dependencies.
// Without WithLocker day transitions are serialized in-process only.
func NewServiceContainer(uow portsrepo.UnitOfWork, options ...ContainerOption) *portssvc.ServiceContainer {
	opts := containerOptions{defaultAllow: true}
	for _, option := range options {
		option(&opts)
	}
	if opts.locker == nil {
		opts.locker = locking.NewLocalLocker()
	}

	base := BaseService{Audit: opts.audit}

	// Leaf services first, the orchestrators share their concrete helpers
	config := newConfigService(uow, base)
	rule := newRuleService(config, opts.defaultAllow, base)
	unit := newUnitService(uow, base)
	inventory := newInventoryService(uow, config, rule, unit, base)
	ledger := newLedgerService(uow, base)

	return &portssvc.ServiceContainer{
		Config:    config,
		Rule:      rule,
		Unit:      unit,
		Inventory: inventory,
		Ledger:    ledger,
		Catalog:   &catalogService{BaseService: base, uow: uow},
		Sale: &saleService{
			BaseService: base, uow: uow, config: config, rules: rule, inventory: inventory, ledger: ledger,
		},
		Purchase: &purchaseService{
			BaseService: base, uow: uow, config: config, inventory: inventory, ledger: ledger,
		},
		Return: &returnService{
			BaseService: base, uow: uow, config: config, inventory: inventory, ledger: ledger,
		},
		Adjustment: &adjustmentService{
			BaseService: base, uow: uow, config: config, inventory: inventory, ledger: ledger,
		},
		System: &systemService{
			BaseService: base, uow: uow, config: config, locker: opts.locker,
		},
	}
}
