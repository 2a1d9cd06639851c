package application

import (
	"context"
	"time"

	"github.com/smartsupply/supply-core/internal/domain"
	"github.com/smartsupply/supply-core/pkg/logging"
)

// SnapshotService persists and restores whole-system state through the store
// collaborator. The store owns the wire format; this service only assembles
// and reapplies serializable records.
type SnapshotService struct {
	catalog *domain.Catalog
	ledgers domain.LedgerProvider
	orders  domain.OrderRepository
	store   domain.Store
	logger  *logging.Logger
}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(
	catalog *domain.Catalog,
	ledgers domain.LedgerProvider,
	orders domain.OrderRepository,
	store domain.Store,
	logger *logging.Logger,
) *SnapshotService {
	return &SnapshotService{
		catalog: catalog,
		ledgers: ledgers,
		orders:  orders,
		store:   store,
		logger:  logger.WithComponent("snapshot"),
	}
}

// Save captures current state and hands it to the store
func (s *SnapshotService) Save(ctx context.Context) error {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return err
	}

	snapshot := &domain.Snapshot{TakenAt: time.Now().UTC()}
	for _, p := range s.catalog.List() {
		snapshot.Products = append(snapshot.Products, p.Record())
	}
	for _, l := range s.ledgers.All() {
		snapshot.Ledgers = append(snapshot.Ledgers, l.Record())
	}
	for _, o := range orders {
		snapshot.Orders = append(snapshot.Orders, o.Record())
	}

	if err := s.store.Save(ctx, snapshot); err != nil {
		return err
	}

	s.logger.Info("Snapshot saved",
		"products", len(snapshot.Products), "ledgers", len(snapshot.Ledgers),
		"orders", len(snapshot.Orders))
	return nil
}

// Load replaces current state with the store's latest snapshot
func (s *SnapshotService) Load(ctx context.Context) error {
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	products := make([]*domain.Product, 0, len(snapshot.Products))
	for _, r := range snapshot.Products {
		products = append(products, domain.ProductFromRecord(r))
	}
	s.catalog.Restore(products)

	ledgers := make([]*domain.Ledger, 0, len(snapshot.Ledgers))
	for _, r := range snapshot.Ledgers {
		ledgers = append(ledgers, domain.LedgerFromRecord(r))
	}
	s.ledgers.Restore(ledgers)

	for _, r := range snapshot.Orders {
		if err := s.orders.Save(ctx, domain.OrderFromRecord(r)); err != nil {
			return err
		}
	}

	s.logger.Info("Snapshot loaded",
		"takenAt", snapshot.TakenAt,
		"products", len(snapshot.Products), "ledgers", len(snapshot.Ledgers),
		"orders", len(snapshot.Orders))
	return nil
}
