package application

import (
	"context"

	"github.com/smartsupply/supply-core/internal/domain"
	"github.com/smartsupply/supply-core/pkg/logging"
	"github.com/smartsupply/supply-core/pkg/metrics"
)

// InventoryApplicationService handles ledger use cases for non-order stock
// adjustments and reporting. Order-driven stock movement goes through the
// fulfillment coordinator instead.
type InventoryApplicationService struct {
	ledgers   domain.LedgerProvider
	catalog   domain.ProductLookup
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
	logger    *logging.Logger
}

// NewInventoryApplicationService creates a new InventoryApplicationService
func NewInventoryApplicationService(
	ledgers domain.LedgerProvider,
	catalog domain.ProductLookup,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	logger *logging.Logger,
) *InventoryApplicationService {
	return &InventoryApplicationService{
		ledgers:   ledgers,
		catalog:   catalog,
		publisher: publisher,
		metrics:   m,
		logger:    logger.WithComponent("inventory"),
	}
}

// ReceiveStock adds stock at a location, creating the ledger on first use
func (s *InventoryApplicationService) ReceiveStock(ctx context.Context, cmd ReceiveStockCommand) (*StockLevelDTO, error) {
	if _, err := s.catalog.Get(cmd.ProductID); err != nil {
		return nil, err
	}

	ledger := s.ledgers.GetOrCreate(cmd.LocationID, cmd.LocationType)

	newStock, err := ledger.AddStock(cmd.ProductID, cmd.Quantity)
	if err != nil {
		s.metrics.RecordStockMove(cmd.LocationID, "add", false)
		return nil, err
	}

	s.metrics.RecordStockMove(cmd.LocationID, "add", true)
	s.drainEvents(ctx, ledger)

	s.logger.Info("Stock received",
		"location", cmd.LocationID, "productId", cmd.ProductID,
		"quantity", cmd.Quantity, "newStock", newStock)
	return s.level(ledger, cmd.ProductID), nil
}

// RemoveStock removes stock at a location. This is the manual stock-take
// path; shipments remove stock through the coordinator.
func (s *InventoryApplicationService) RemoveStock(ctx context.Context, cmd RemoveStockCommand) (*StockLevelDTO, error) {
	ledger, err := s.ledgers.Ledger(cmd.LocationID)
	if err != nil {
		return nil, err
	}

	newStock, err := ledger.RemoveStock(cmd.ProductID, cmd.Quantity)
	if err != nil {
		s.metrics.RecordStockMove(cmd.LocationID, "remove", false)
		return nil, err
	}

	s.metrics.RecordStockMove(cmd.LocationID, "remove", true)
	s.drainEvents(ctx, ledger)

	s.logger.Info("Stock removed",
		"location", cmd.LocationID, "productId", cmd.ProductID,
		"quantity", cmd.Quantity, "newStock", newStock)
	return s.level(ledger, cmd.ProductID), nil
}

// ReserveStock places a soft hold on stock at a location
func (s *InventoryApplicationService) ReserveStock(ctx context.Context, cmd ReserveStockCommand) (*StockLevelDTO, error) {
	ledger, err := s.ledgers.Ledger(cmd.LocationID)
	if err != nil {
		return nil, err
	}

	if err := ledger.Reserve(cmd.ProductID, cmd.Quantity); err != nil {
		s.metrics.RecordStockMove(cmd.LocationID, "reserve", false)
		return nil, err
	}

	s.metrics.RecordStockMove(cmd.LocationID, "reserve", true)
	s.metrics.SetReservationsOpen(cmd.LocationID, ledger.TotalReserved())
	return s.level(ledger, cmd.ProductID), nil
}

// ReleaseStock releases a soft hold back to available-to-promise
func (s *InventoryApplicationService) ReleaseStock(ctx context.Context, cmd ReleaseStockCommand) (*StockLevelDTO, error) {
	ledger, err := s.ledgers.Ledger(cmd.LocationID)
	if err != nil {
		return nil, err
	}

	if err := ledger.Release(cmd.ProductID, cmd.Quantity); err != nil {
		s.metrics.RecordStockMove(cmd.LocationID, "release", false)
		return nil, err
	}

	s.metrics.RecordStockMove(cmd.LocationID, "release", true)
	s.metrics.SetReservationsOpen(cmd.LocationID, ledger.TotalReserved())
	return s.level(ledger, cmd.ProductID), nil
}

// SetThreshold sets the reorder threshold for a product at a location
func (s *InventoryApplicationService) SetThreshold(cmd SetThresholdCommand) error {
	ledger := s.ledgers.GetOrCreate(cmd.LocationID, "")
	return ledger.SetReorderThreshold(cmd.ProductID, cmd.Threshold)
}

// SetRecommendedStock sets the target stock level for restock reporting
func (s *InventoryApplicationService) SetRecommendedStock(cmd SetRecommendedStockCommand) error {
	ledger := s.ledgers.GetOrCreate(cmd.LocationID, "")
	return ledger.SetRecommendedStock(cmd.ProductID, cmd.Level)
}

// Snapshot returns the read-only per-location stock view
func (s *InventoryApplicationService) Snapshot(locationID string) (*LedgerSnapshotDTO, error) {
	ledger, err := s.ledgers.Ledger(locationID)
	if err != nil {
		return nil, err
	}
	return ToLedgerSnapshotDTO(ledger), nil
}

// LowStockReport returns the products at or below their reorder threshold
func (s *InventoryApplicationService) LowStockReport(locationID string) (*LowStockReportDTO, error) {
	ledger, err := s.ledgers.Ledger(locationID)
	if err != nil {
		return nil, err
	}

	return &LowStockReportDTO{
		LocationID: locationID,
		ProductIDs: ledger.CheckLowStock(),
	}, nil
}

// Value returns the total inventory value at a location, priced at current
// catalog prices
func (s *InventoryApplicationService) Value(locationID string) (*LedgerValueDTO, error) {
	ledger, err := s.ledgers.Ledger(locationID)
	if err != nil {
		return nil, err
	}

	value, err := ledger.Value(s.catalog)
	if err != nil {
		return nil, err
	}

	return &LedgerValueDTO{
		LocationID: locationID,
		ValueCents: value.ToCents(),
		Currency:   value.Currency(),
		Value:      value.String(),
	}, nil
}

// drainEvents publishes any pending ledger events. Publish failures are
// logged, not surfaced: the mutation already committed and the ledger stays
// authoritative.
func (s *InventoryApplicationService) drainEvents(ctx context.Context, ledger *domain.Ledger) {
	events := ledger.PullEvents()
	for _, event := range events {
		if _, ok := event.(*domain.LowStockAlertEvent); ok {
			s.metrics.RecordLowStockAlert(ledger.LocationID())
		}
	}

	if err := s.publisher.PublishAll(ctx, events); err != nil {
		s.logger.WithError(err).Warn("Failed to publish ledger events", "location", ledger.LocationID())
	}
}

func (s *InventoryApplicationService) level(ledger *domain.Ledger, productID string) *StockLevelDTO {
	snapshot := ledger.Snapshot()
	level := snapshot[productID]
	return &StockLevelDTO{
		ProductID: productID,
		Stock:     level.Stock,
		Reserved:  level.Reserved,
		Available: level.Stock - level.Reserved,
		Threshold: level.Threshold,
	}
}
