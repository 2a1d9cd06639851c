package application

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/smartsupply/supply-core/internal/domain"
	"github.com/smartsupply/supply-core/pkg/logging"
	"github.com/smartsupply/supply-core/pkg/metrics"
)

// FulfillmentCoordinator owns the order lifecycle. It is the only component
// that moves orders between statuses and the only one that turns order
// transitions into ledger movements, so a transition and its inventory effect
// are observed as one step.
type FulfillmentCoordinator struct {
	orders    domain.OrderRepository
	ledgers   domain.LedgerProvider
	catalog   *domain.Catalog
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
	logger    *logging.Logger

	// mu serializes all order access. Two concurrent transitions for the
	// same order cannot both pass the status precondition, and reads never
	// observe an order mid-mutation.
	mu sync.Mutex
}

// NewFulfillmentCoordinator creates a new FulfillmentCoordinator
func NewFulfillmentCoordinator(
	orders domain.OrderRepository,
	ledgers domain.LedgerProvider,
	catalog *domain.Catalog,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	logger *logging.Logger,
) *FulfillmentCoordinator {
	return &FulfillmentCoordinator{
		orders:    orders,
		ledgers:   ledgers,
		catalog:   catalog,
		publisher: publisher,
		metrics:   m,
		logger:    logger.WithComponent("fulfillment"),
	}
}

// PlaceOrder validates every requested line against the catalog and creates
// the order in the Placed state. No stock moves here: availability is checked
// when the order ships, not when it is placed.
func (c *FulfillmentCoordinator) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*OrderDTO, error) {
	if len(cmd.Items) == 0 {
		return nil, domain.NewValidationError("items", "order must contain at least one item")
	}

	items := make([]domain.LineItem, 0, len(cmd.Items))
	for _, in := range cmd.Items {
		product, err := c.catalog.Get(in.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Active {
			return nil, domain.NewValidationError("items", "product "+in.ProductID+" is no longer available")
		}
		items = append(items, domain.LineItem{ProductID: in.ProductID, Quantity: in.Quantity})
	}

	order, err := domain.NewOrder(uuid.NewString(), items, cmd.PlacedByPartyID, cmd.FulfillingPartyID, &domain.OrderConfig{
		Priority:             cmd.Priority,
		Urgent:               cmd.Urgent,
		ShippingAddress:      cmd.ShippingAddress,
		Notes:                cmd.Notes,
		FulfillingLocationID: cmd.FulfillingLocationID,
		ReceivingLocationID:  cmd.ReceivingLocationID,
	})
	if err != nil {
		return nil, err
	}

	if err := c.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	c.metrics.RecordOrderPlaced(priorityLabel(order.Priority()))
	c.publishOrderEvents(ctx, order)

	c.logger.Info("Order placed",
		"orderId", order.OrderID(), "placedBy", order.PlacedByPartyID(),
		"fulfiller", order.FulfillingPartyID(), "lines", len(order.Items()),
		"priority", order.Priority())
	return ToOrderDTO(order, c.catalog)
}

// GetOrder returns a single order with its current total. Reads take the
// coordinator lock so they never observe an order mid-mutation.
func (c *FulfillmentCoordinator) GetOrder(ctx context.Context, orderID string) (*OrderDTO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	order, err := c.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToOrderDTO(order, c.catalog)
}

// ListOrders returns all orders, optionally filtered by status
func (c *FulfillmentCoordinator) ListOrders(ctx context.Context, status string) ([]*OrderDTO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		orders []*domain.Order
		err    error
	)
	if status == "" {
		orders, err = c.orders.FindAll(ctx)
	} else {
		parsed := domain.OrderStatus(status)
		if !parsed.IsValid() {
			return nil, domain.NewValidationError("status", "unknown status "+status)
		}
		orders, err = c.orders.FindByStatus(ctx, parsed)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]*OrderDTO, 0, len(orders))
	for _, order := range orders {
		dto, err := ToOrderDTO(order, c.catalog)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// AddOrderItem adds a line to a still-editable order
func (c *FulfillmentCoordinator) AddOrderItem(ctx context.Context, cmd UpdateOrderItemCommand) (*OrderDTO, error) {
	return c.mutateOrder(ctx, cmd.OrderID, func(order *domain.Order) error {
		if _, err := c.catalog.Get(cmd.ProductID); err != nil {
			return err
		}
		return order.AddItem(cmd.ProductID, cmd.Quantity)
	})
}

// RemoveOrderItem removes a line from a still-editable order
func (c *FulfillmentCoordinator) RemoveOrderItem(ctx context.Context, orderID, productID string) (*OrderDTO, error) {
	return c.mutateOrder(ctx, orderID, func(order *domain.Order) error {
		return order.RemoveItem(productID)
	})
}

// UpdateOrderItem sets the quantity of an existing line; zero removes it
func (c *FulfillmentCoordinator) UpdateOrderItem(ctx context.Context, cmd UpdateOrderItemCommand) (*OrderDTO, error) {
	return c.mutateOrder(ctx, cmd.OrderID, func(order *domain.Order) error {
		return order.UpdateQuantity(cmd.ProductID, cmd.Quantity)
	})
}

// MarkPaid flags the order as paid. Payment is a bookkeeping flag and does
// not gate any lifecycle transition.
func (c *FulfillmentCoordinator) MarkPaid(ctx context.Context, orderID string) (*OrderDTO, error) {
	return c.mutateOrder(ctx, orderID, func(order *domain.Order) error {
		order.MarkPaid()
		return nil
	})
}

// Invoice builds an invoice view for the order at its current total
func (c *FulfillmentCoordinator) Invoice(ctx context.Context, orderID string) (*InvoiceDTO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	order, err := c.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToInvoiceDTO(order, c.catalog)
}

// Transition moves an order to the target status and applies the inventory
// effect that goes with it. The status check, the ledger movement and the
// status write happen under one lock, so a failed ledger movement leaves the
// order in its prior status with no stock consumed.
func (c *FulfillmentCoordinator) Transition(ctx context.Context, cmd TransitionOrderCommand) (*OrderDTO, error) {
	target := domain.OrderStatus(cmd.Target)
	if !target.IsValid() {
		return nil, domain.NewValidationError("status", "unknown status "+cmd.Target)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	order, err := c.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	from := order.Status()
	if !from.CanTransitionTo(target) {
		c.metrics.RecordOrderTransition(string(from), string(target), false)
		return nil, &domain.InvalidTransitionError{From: from, To: target}
	}

	// Inventory side effects run before the status write so that any
	// failure aborts the transition outright.
	if err := c.applyInventoryEffect(ctx, order, target); err != nil {
		c.metrics.RecordOrderTransition(string(from), string(target), false)
		return nil, err
	}

	if err := order.Transition(target); err != nil {
		return nil, err
	}

	if target.IsFinal() || target == domain.StatusDelivered {
		if err := order.FreezeTotal(c.catalog); err != nil {
			return nil, err
		}
	}

	if err := c.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	c.metrics.RecordOrderTransition(string(from), string(target), true)
	c.publishOrderEvents(ctx, order)

	c.logger.Info("Order transitioned",
		"orderId", order.OrderID(), "from", string(from), "to", string(target))
	return ToOrderDTO(order, c.catalog)
}

// applyInventoryEffect maps a status transition to its ledger movement
func (c *FulfillmentCoordinator) applyInventoryEffect(ctx context.Context, order *domain.Order, target domain.OrderStatus) error {
	switch target {
	case domain.StatusShipped:
		return c.shipFrom(ctx, order, order.FulfillingLocationID())
	case domain.StatusDelivered:
		return c.receiveAt(ctx, order, order.ReceivingLocationID())
	case domain.StatusReturned:
		return c.processReturn(ctx, order)
	default:
		// Processing and Cancelled are pure status moves.
		return nil
	}
}

// shipFrom removes every order line from the fulfilling ledger as one unit.
// Lines are reserved first so that an insufficient line can roll the earlier
// reservations back before any physical stock moves.
func (c *FulfillmentCoordinator) shipFrom(ctx context.Context, order *domain.Order, locationID string) error {
	if locationID == "" {
		return domain.NewValidationError("fulfillingLocationId", "order has no fulfilling location")
	}

	ledger, err := c.ledgers.Ledger(locationID)
	if err != nil {
		return err
	}

	items := order.Items()
	reserved := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		if err := ledger.Reserve(item.ProductID, item.Quantity); err != nil {
			for _, held := range reserved {
				if relErr := ledger.Release(held.ProductID, held.Quantity); relErr != nil {
					c.logger.WithError(relErr).Error("Failed to roll back reservation",
						"orderId", order.OrderID(), "location", locationID, "productId", held.ProductID)
				}
			}
			return err
		}
		reserved = append(reserved, item)
	}

	for _, item := range items {
		if _, err := ledger.CommitReservation(item.ProductID, item.Quantity); err != nil {
			// Unreachable when the reserve loop above succeeded; a
			// failure here means the ledger was mutated concurrently
			// through a path that bypassed this coordinator.
			c.logger.WithError(err).Error("Reservation commit failed after successful reserve",
				"orderId", order.OrderID(), "location", locationID, "productId", item.ProductID)
			return err
		}
		c.metrics.RecordStockMove(locationID, "ship", true)
	}

	c.drainLedgerEvents(ctx, ledger)
	return nil
}

// receiveAt adds every order line into the receiving ledger. Orders with no
// receiving location leave inventory untouched on delivery.
func (c *FulfillmentCoordinator) receiveAt(ctx context.Context, order *domain.Order, locationID string) error {
	if locationID == "" {
		return nil
	}

	ledger := c.ledgers.GetOrCreate(locationID, "store")
	for _, item := range order.Items() {
		if _, err := ledger.AddStock(item.ProductID, item.Quantity); err != nil {
			return err
		}
		c.metrics.RecordStockMove(locationID, "receive", true)
	}

	c.drainLedgerEvents(ctx, ledger)
	return nil
}

// processReturn reverses a delivery: stock leaves the receiving location and,
// when the order names a fulfilling location, returns to it.
func (c *FulfillmentCoordinator) processReturn(ctx context.Context, order *domain.Order) error {
	if receiving := order.ReceivingLocationID(); receiving != "" {
		if err := c.shipFrom(ctx, order, receiving); err != nil {
			return err
		}
	}

	if origin := order.FulfillingLocationID(); origin != "" {
		ledger := c.ledgers.GetOrCreate(origin, "")
		for _, item := range order.Items() {
			if _, err := ledger.AddStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
			c.metrics.RecordStockMove(origin, "return", true)
		}
		c.drainLedgerEvents(ctx, ledger)
	}
	return nil
}

func (c *FulfillmentCoordinator) mutateOrder(ctx context.Context, orderID string, mutate func(*domain.Order) error) (*OrderDTO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	order, err := c.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := mutate(order); err != nil {
		return nil, err
	}

	if err := c.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return ToOrderDTO(order, c.catalog)
}

func (c *FulfillmentCoordinator) publishOrderEvents(ctx context.Context, order *domain.Order) {
	if err := c.publisher.PublishAll(ctx, order.PullEvents()); err != nil {
		c.logger.WithError(err).Warn("Failed to publish order events", "orderId", order.OrderID())
	}
}

func (c *FulfillmentCoordinator) drainLedgerEvents(ctx context.Context, ledger *domain.Ledger) {
	events := ledger.PullEvents()
	for _, event := range events {
		if _, ok := event.(*domain.LowStockAlertEvent); ok {
			c.metrics.RecordLowStockAlert(ledger.LocationID())
		}
	}
	if err := c.publisher.PublishAll(ctx, events); err != nil {
		c.logger.WithError(err).Warn("Failed to publish ledger events", "location", ledger.LocationID())
	}
}

func priorityLabel(priority int) string {
	switch priority {
	case 1:
		return "urgent"
	case 2:
		return "high"
	case 3:
		return "normal"
	case 4:
		return "low"
	default:
		return "deferred"
	}
}
