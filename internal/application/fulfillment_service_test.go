package application

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartsupply/supply-core/internal/domain"
	"github.com/smartsupply/supply-core/internal/infrastructure/memory"
	"github.com/smartsupply/supply-core/pkg/logging"
	"github.com/smartsupply/supply-core/pkg/metrics"
)

type fixture struct {
	catalog     *domain.Catalog
	ledgers     *memory.LedgerRegistry
	orders      *memory.OrderRepository
	events      *memory.EventRecorder
	coordinator *FulfillmentCoordinator
	inventory   *InventoryApplicationService
}

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("test")
	cfg.Output = io.Discard
	return logging.New(cfg)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	catalog := domain.NewCatalog()
	for _, p := range []struct {
		id    string
		price int64
	}{
		{"P-001", 120000},
		{"P-002", 80000},
		{"P-003", 60000},
	} {
		_, err := catalog.Create(p.id, "Item "+p.id, mustMoney(t, p.price), nil)
		require.NoError(t, err)
	}

	ledgers := memory.NewLedgerRegistry()
	orders := memory.NewOrderRepository()
	events := memory.NewEventRecorder()
	m := metrics.New(metrics.DefaultConfig("test"))
	logger := testLogger()

	return &fixture{
		catalog:     catalog,
		ledgers:     ledgers,
		orders:      orders,
		events:      events,
		coordinator: NewFulfillmentCoordinator(orders, ledgers, catalog, events, m, logger),
		inventory:   NewInventoryApplicationService(ledgers, catalog, events, m, logger),
	}
}

func mustMoney(t *testing.T, cents int64) domain.Money {
	t.Helper()
	m, err := domain.NewMoney(cents, "USD")
	require.NoError(t, err)
	return m
}

func (f *fixture) stock(t *testing.T, locationID, productID string, qty int) {
	t.Helper()
	ledger := f.ledgers.GetOrCreate(locationID, "warehouse")
	_, err := ledger.AddStock(productID, qty)
	require.NoError(t, err)
	ledger.PullEvents()
}

func (f *fixture) place(t *testing.T, cmd PlaceOrderCommand) *OrderDTO {
	t.Helper()
	order, err := f.coordinator.PlaceOrder(context.Background(), cmd)
	require.NoError(t, err)
	return order
}

func (f *fixture) transition(t *testing.T, orderID, target string) *OrderDTO {
	t.Helper()
	order, err := f.coordinator.Transition(context.Background(), TransitionOrderCommand{
		OrderID: orderID,
		Target:  target,
	})
	require.NoError(t, err)
	return order
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)

	order := f.place(t, PlaceOrderCommand{
		Items: []OrderItemInput{
			{ProductID: "P-001", Quantity: 2},
			{ProductID: "P-002", Quantity: 5},
		},
		PlacedByPartyID:      "retailer1",
		FulfillingLocationID: "WH-001",
	})

	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, "placed", order.Status)
	assert.Equal(t, int64(2*120000+5*80000), order.TotalCents)
	assert.Equal(t, 3, order.Priority)

	// Placement commits no inventory
	ledger := f.ledgers.GetOrCreate("WH-001", "warehouse")
	assert.Equal(t, 0, ledger.TotalReserved())

	events := f.events.Events()
	require.Len(t, events, 1)
	_, ok := events[0].(*domain.OrderPlacedEvent)
	assert.True(t, ok)
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.coordinator.PlaceOrder(context.Background(), PlaceOrderCommand{
		Items:           []OrderItemInput{{ProductID: "P-404", Quantity: 1}},
		PlacedByPartyID: "retailer1",
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestPlaceOrder_InactiveProduct(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.catalog.Deactivate("P-001"))

	_, err := f.coordinator.PlaceOrder(context.Background(), PlaceOrderCommand{
		Items:           []OrderItemInput{{ProductID: "P-001", Quantity: 1}},
		PlacedByPartyID: "retailer1",
	})

	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestTransition_ShipRemovesStock(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "WH-001", "P-001", 50)
	f.stock(t, "WH-001", "P-002", 100)

	order := f.place(t, PlaceOrderCommand{
		Items: []OrderItemInput{
			{ProductID: "P-001", Quantity: 2},
			{ProductID: "P-002", Quantity: 5},
		},
		PlacedByPartyID:      "retailer1",
		FulfillingLocationID: "WH-001",
	})

	f.transition(t, order.OrderID, "processing")
	shipped := f.transition(t, order.OrderID, "shipped")

	assert.Equal(t, "shipped", shipped.Status)
	assert.NotNil(t, shipped.DeliveryDate)

	ledger := f.ledgers.GetOrCreate("WH-001", "warehouse")
	assert.Equal(t, 48, ledger.StockCount("P-001"))
	assert.Equal(t, 95, ledger.StockCount("P-002"))
	assert.Equal(t, 0, ledger.TotalReserved())
}

func TestTransition_ShipIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "WH-001", "P-001", 50)
	f.stock(t, "WH-001", "P-002", 100)
	f.stock(t, "WH-001", "P-003", 1)

	order := f.place(t, PlaceOrderCommand{
		Items: []OrderItemInput{
			{ProductID: "P-001", Quantity: 2},
			{ProductID: "P-002", Quantity: 5},
			{ProductID: "P-003", Quantity: 10},
		},
		PlacedByPartyID:      "retailer1",
		FulfillingLocationID: "WH-001",
	})
	f.transition(t, order.OrderID, "processing")

	_, err := f.coordinator.Transition(context.Background(), TransitionOrderCommand{
		OrderID: order.OrderID,
		Target:  "shipped",
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "P-003", stockErr.ProductID)

	// The fulfillable lines are untouched and nothing stays reserved
	ledger := f.ledgers.GetOrCreate("WH-001", "warehouse")
	assert.Equal(t, 50, ledger.StockCount("P-001"))
	assert.Equal(t, 100, ledger.StockCount("P-002"))
	assert.Equal(t, 1, ledger.StockCount("P-003"))
	assert.Equal(t, 0, ledger.TotalReserved())

	// The order stays in processing and can be retried after a restock
	current, err := f.coordinator.GetOrder(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "processing", current.Status)

	f.stock(t, "WH-001", "P-003", 20)
	shipped := f.transition(t, order.OrderID, "shipped")
	assert.Equal(t, "shipped", shipped.Status)
	assert.Equal(t, 11, ledger.StockCount("P-003"))
}

func TestTransition_DeliveryAddsStockAtReceivingLocation(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "WH-001", "P-001", 50)

	order := f.place(t, PlaceOrderCommand{
		Items:                []OrderItemInput{{ProductID: "P-001", Quantity: 2}},
		PlacedByPartyID:      "retailer1",
		FulfillingLocationID: "WH-001",
		ReceivingLocationID:  "ST-001",
	})
	f.transition(t, order.OrderID, "processing")
	f.transition(t, order.OrderID, "shipped")
	delivered := f.transition(t, order.OrderID, "delivered")

	assert.Equal(t, "delivered", delivered.Status)

	store, err := f.ledgers.Ledger("ST-001")
	require.NoError(t, err)
	assert.Equal(t, "store", store.LocationType())
	assert.Equal(t, 2, store.StockCount("P-001"))
}

func TestTransition_DeliveryWithoutReceivingLocation(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "WH-001", "P-001", 50)

	order := f.place(t, PlaceOrderCommand{
		Items:                []OrderItemInput{{ProductID: "P-001", Quantity: 2}},
		PlacedByPartyID:      "retailer1",
		FulfillingLocationID: "WH-001",
	})
	f.transition(t, order.OrderID, "processing")
	f.transition(t, order.OrderID, "shipped")
	delivered := f.transition(t, order.OrderID, "delivered")

	assert.Equal(t, "delivered", delivered.Status)
	_, err := f.ledgers.Ledger("ST-001")
	assert.ErrorIs(t, err, domain.ErrLedgerNotFound)
}

func TestTransition_CancelHasNoInventoryEffect(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "WH-001", "P-001", 50)

	order := f.place(t, PlaceOrderCommand{
		Items:                []OrderItemInput{{ProductID: "P-001", Quantity: 2}},
		PlacedByPartyID:      "retailer1",
		FulfillingLocationID: "WH-001",
	})
	cancelled := f.transition(t, order.OrderID, "cancelled")

	assert.Equal(t, "cancelled", cancelled.Status)
	ledger := f.ledgers.GetOrCreate("WH-001", "warehouse")
	assert.Equal(t, 50, ledger.StockCount("P-001"))
	assert.Equal(t, 0, ledger.TotalReserved())
}

func TestTransition_CancelAfterShipmentDoesNotRestock(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "WH-001", "P-001", 50)

	order := f.place(t, PlaceOrderCommand{
		Items:                []OrderItemInput{{ProductID: "P-001", Quantity: 2}},
		PlacedByPartyID:      "retailer1",
		FulfillingLocationID: "WH-001",
	})
	f.transition(t, order.OrderID, "processing")
	f.transition(t, order.OrderID, "shipped")
	cancelled := f.transition(t, order.OrderID, "cancelled")

	assert.Equal(t, "cancelled", cancelled.Status)
	ledger := f.ledgers.GetOrCreate("WH-001", "warehouse")
	assert.Equal(t, 48, ledger.StockCount("P-001"))
}

func TestTransition_ReturnMovesStockBack(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "WH-001", "P-001", 50)

	order := f.place(t, PlaceOrderCommand{
		Items:                []OrderItemInput{{ProductID: "P-001", Quantity: 2}},
		PlacedByPartyID:      "retailer1",
		FulfillingLocationID: "WH-001",
		ReceivingLocationID:  "ST-001",
	})
	f.transition(t, order.OrderID, "processing")
	f.transition(t, order.OrderID, "shipped")
	f.transition(t, order.OrderID, "delivered")
	returned := f.transition(t, order.OrderID, "returned")

	assert.Equal(t, "returned", returned.Status)

	warehouse := f.ledgers.GetOrCreate("WH-001", "warehouse")
	store, err := f.ledgers.Ledger("ST-001")
	require.NoError(t, err)
	assert.Equal(t, 50, warehouse.StockCount("P-001"))
	assert.Equal(t, 0, store.StockCount("P-001"))
}

func TestTransition_InvalidEdge(t *testing.T) {
	f := newFixture(t)

	order := f.place(t, PlaceOrderCommand{
		Items:           []OrderItemInput{{ProductID: "P-001", Quantity: 1}},
		PlacedByPartyID: "retailer1",
	})

	_, err := f.coordinator.Transition(context.Background(), TransitionOrderCommand{
		OrderID: order.OrderID,
		Target:  "delivered",
	})

	var transitionErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusPlaced, transitionErr.From)
}

func TestTransition_UnknownStatus(t *testing.T) {
	f := newFixture(t)
	order := f.place(t, PlaceOrderCommand{
		Items:           []OrderItemInput{{ProductID: "P-001", Quantity: 1}},
		PlacedByPartyID: "retailer1",
	})

	_, err := f.coordinator.Transition(context.Background(), TransitionOrderCommand{
		OrderID: order.OrderID,
		Target:  "teleported",
	})

	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestTransition_FreezesTotalOnFinalization(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "WH-001", "P-001", 50)

	order := f.place(t, PlaceOrderCommand{
		Items:                []OrderItemInput{{ProductID: "P-001", Quantity: 2}},
		PlacedByPartyID:      "retailer1",
		FulfillingLocationID: "WH-001",
	})
	f.transition(t, order.OrderID, "processing")
	f.transition(t, order.OrderID, "shipped")
	f.transition(t, order.OrderID, "delivered")

	// Price change after delivery does not rewrite the order total
	require.NoError(t, f.catalog.UpdatePrice("P-001", mustMoney(t, 999900)))

	current, err := f.coordinator.GetOrder(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(2*120000), current.TotalCents)
}

func TestTransition_EditableOrderTracksPriceChanges(t *testing.T) {
	f := newFixture(t)

	order := f.place(t, PlaceOrderCommand{
		Items:           []OrderItemInput{{ProductID: "P-001", Quantity: 2}},
		PlacedByPartyID: "retailer1",
	})

	require.NoError(t, f.catalog.UpdatePrice("P-001", mustMoney(t, 100000)))

	current, err := f.coordinator.GetOrder(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(2*100000), current.TotalCents)
}

func TestOrderItemMutations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.place(t, PlaceOrderCommand{
		Items:           []OrderItemInput{{ProductID: "P-001", Quantity: 2}},
		PlacedByPartyID: "retailer1",
	})

	updated, err := f.coordinator.AddOrderItem(ctx, UpdateOrderItemCommand{
		OrderID:   order.OrderID,
		ProductID: "P-002",
		Quantity:  3,
	})
	require.NoError(t, err)
	assert.Len(t, updated.Items, 2)

	updated, err = f.coordinator.UpdateOrderItem(ctx, UpdateOrderItemCommand{
		OrderID:   order.OrderID,
		ProductID: "P-002",
		Quantity:  7,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2*120000+7*80000), updated.TotalCents)

	updated, err = f.coordinator.RemoveOrderItem(ctx, order.OrderID, "P-002")
	require.NoError(t, err)
	assert.Len(t, updated.Items, 1)

	// Items are locked once the order leaves Placed
	f.transition(t, order.OrderID, "processing")
	_, err = f.coordinator.AddOrderItem(ctx, UpdateOrderItemCommand{
		OrderID:   order.OrderID,
		ProductID: "P-003",
		Quantity:  1,
	})
	var stateErr *domain.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.place(t, PlaceOrderCommand{
		Items:           []OrderItemInput{{ProductID: "P-001", Quantity: 1}},
		PlacedByPartyID: "retailer1",
	})
	f.place(t, PlaceOrderCommand{
		Items:           []OrderItemInput{{ProductID: "P-002", Quantity: 1}},
		PlacedByPartyID: "retailer2",
	})
	f.transition(t, first.OrderID, "processing")

	all, err := f.coordinator.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	processing, err := f.coordinator.ListOrders(ctx, "processing")
	require.NoError(t, err)
	require.Len(t, processing, 1)
	assert.Equal(t, first.OrderID, processing[0].OrderID)

	_, err = f.coordinator.ListOrders(ctx, "bogus")
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestInvoiceAndMarkPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.place(t, PlaceOrderCommand{
		Items:             []OrderItemInput{{ProductID: "P-001", Quantity: 2}},
		PlacedByPartyID:   "retailer1",
		FulfillingPartyID: "supplier1",
	})

	invoice, err := f.coordinator.Invoice(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "INV-"+order.OrderID, invoice.InvoiceID)
	assert.Equal(t, "retailer1", invoice.CustomerPartyID)
	assert.Equal(t, int64(2*120000), invoice.TotalCents)
	assert.False(t, invoice.Paid)

	paid, err := f.coordinator.MarkPaid(ctx, order.OrderID)
	require.NoError(t, err)
	assert.True(t, paid.Paid)
}

func TestTransition_UnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.coordinator.Transition(context.Background(), TransitionOrderCommand{
		OrderID: "ORD-404",
		Target:  "processing",
	})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestConcurrentOrderReadsAndMutations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.place(t, PlaceOrderCommand{
		Items:           []OrderItemInput{{ProductID: "P-001", Quantity: 1}},
		PlacedByPartyID: "retailer1",
	})

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if _, err := f.coordinator.AddOrderItem(ctx, UpdateOrderItemCommand{
				OrderID:   order.OrderID,
				ProductID: "P-002",
				Quantity:  1,
			}); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				dto, err := f.coordinator.GetOrder(ctx, order.OrderID)
				if err != nil {
					t.Error(err)
					return
				}
				// The total always matches the lines that were read
				var want int64
				for _, line := range dto.Items {
					switch line.ProductID {
					case "P-001":
						want += int64(line.Quantity) * 120000
					case "P-002":
						want += int64(line.Quantity) * 80000
					}
				}
				if dto.TotalCents != want {
					t.Errorf("total %d does not match items (want %d)", dto.TotalCents, want)
					return
				}

				if _, err := f.coordinator.Invoice(ctx, order.OrderID); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}

	wg.Wait()

	final, err := f.coordinator.GetOrder(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 200, final.Items[1].Quantity)
}
