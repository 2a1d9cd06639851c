package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog := NewCatalog()
	for _, p := range []struct {
		id    string
		name  string
		price int64
	}{
		{"P-001", "High-Performance Laptop", 120000},
		{"P-002", "Smartphone X20", 80000},
		{"P-003", "Tablet Pro", 60000},
	} {
		_, err := catalog.Create(p.id, p.name, mustNewMoney(p.price, "USD"), nil)
		require.NoError(t, err)
	}
	return catalog
}

func TestNewOrder(t *testing.T) {
	order, err := NewOrder("ORD-1", []LineItem{
		{ProductID: "P-001", Quantity: 2},
		{ProductID: "P-002", Quantity: 5},
	}, "retailer1", "supplier1", nil)
	require.NoError(t, err)

	assert.Equal(t, "ORD-1", order.OrderID())
	assert.Equal(t, StatusPlaced, order.Status())
	assert.Equal(t, PriorityDefault, order.Priority())
	assert.False(t, order.Urgent())
	assert.Nil(t, order.DeliveryDate())
	assert.Equal(t, 2, order.Quantity("P-001"))
	assert.Equal(t, 5, order.Quantity("P-002"))

	events := order.PullEvents()
	require.Len(t, events, 1)
	placed, ok := events[0].(*OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, "ORD-1", placed.OrderID)
	assert.Equal(t, 2, placed.ItemCount)
}

func TestNewOrder_MergesDuplicateLines(t *testing.T) {
	order, err := NewOrder("ORD-1", []LineItem{
		{ProductID: "P-001", Quantity: 2},
		{ProductID: "P-001", Quantity: 3},
	}, "retailer1", "", nil)
	require.NoError(t, err)

	require.Len(t, order.Items(), 1)
	assert.Equal(t, 5, order.Quantity("P-001"))
}

func TestNewOrder_Validation(t *testing.T) {
	var validationErr *ValidationError

	_, err := NewOrder("", []LineItem{{ProductID: "P-001", Quantity: 1}}, "retailer1", "", nil)
	require.ErrorAs(t, err, &validationErr)

	_, err = NewOrder("ORD-1", nil, "retailer1", "", nil)
	require.ErrorAs(t, err, &validationErr)

	_, err = NewOrder("ORD-1", []LineItem{{ProductID: "P-001", Quantity: 0}}, "retailer1", "", nil)
	require.ErrorAs(t, err, &validationErr)

	_, err = NewOrder("ORD-1", []LineItem{{ProductID: "P-001", Quantity: 1}}, "", "", nil)
	require.ErrorAs(t, err, &validationErr)

	_, err = NewOrder("ORD-1", []LineItem{{ProductID: "P-001", Quantity: 1}}, "retailer1", "",
		&OrderConfig{Priority: 6})
	require.ErrorAs(t, err, &validationErr)
}

func TestNewOrder_UrgentForcesTopPriority(t *testing.T) {
	order, err := NewOrder("ORD-1", []LineItem{{ProductID: "P-001", Quantity: 1}}, "retailer1", "",
		&OrderConfig{Priority: 4, Urgent: true})
	require.NoError(t, err)

	assert.True(t, order.Urgent())
	assert.Equal(t, PriorityHighest, order.Priority())
}

func TestOrder_ItemMutations(t *testing.T) {
	order, err := NewOrder("ORD-1", []LineItem{{ProductID: "P-001", Quantity: 2}}, "retailer1", "", nil)
	require.NoError(t, err)

	require.NoError(t, order.AddItem("P-002", 3))
	require.NoError(t, order.AddItem("P-001", 1))
	assert.Equal(t, 3, order.Quantity("P-001"))

	require.NoError(t, order.UpdateQuantity("P-002", 7))
	assert.Equal(t, 7, order.Quantity("P-002"))

	// Quantity zero removes the line
	require.NoError(t, order.UpdateQuantity("P-002", 0))
	assert.Equal(t, 0, order.Quantity("P-002"))
	require.Len(t, order.Items(), 1)

	require.NoError(t, order.RemoveItem("P-001"))
	assert.Empty(t, order.Items())

	assert.ErrorIs(t, order.RemoveItem("P-404"), ErrProductNotFound)
	assert.ErrorIs(t, order.UpdateQuantity("P-404", 2), ErrProductNotFound)
}

func TestOrder_NotEditableAfterPlaced(t *testing.T) {
	order, err := NewOrder("ORD-1", []LineItem{{ProductID: "P-001", Quantity: 2}}, "retailer1", "", nil)
	require.NoError(t, err)
	require.NoError(t, order.Transition(StatusProcessing))

	var stateErr *InvalidStateError
	require.ErrorAs(t, order.AddItem("P-002", 1), &stateErr)
	assert.Equal(t, StatusProcessing, stateErr.Status)
	require.ErrorAs(t, order.RemoveItem("P-001"), &stateErr)
	require.ErrorAs(t, order.UpdateQuantity("P-001", 5), &stateErr)

	// Lines are unchanged after the rejected mutations
	assert.Equal(t, 2, order.Quantity("P-001"))
}

func TestOrder_TransitionLifecycle(t *testing.T) {
	order, err := NewOrder("ORD-1", []LineItem{{ProductID: "P-001", Quantity: 1}}, "retailer1", "", nil)
	require.NoError(t, err)
	order.PullEvents()

	require.NoError(t, order.Transition(StatusProcessing))
	require.NoError(t, order.Transition(StatusShipped))
	require.NotNil(t, order.DeliveryDate())
	require.NoError(t, order.Transition(StatusDelivered))
	require.NoError(t, order.Transition(StatusReturned))

	events := order.PullEvents()
	require.Len(t, events, 4)
	last, ok := events[3].(*OrderStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, StatusDelivered, last.From)
	assert.Equal(t, StatusReturned, last.To)
}

func TestOrder_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []OrderStatus
		to   OrderStatus
	}{
		{name: "placed to delivered", path: nil, to: StatusDelivered},
		{name: "placed to returned", path: nil, to: StatusReturned},
		{name: "delivered back to processing", path: []OrderStatus{StatusProcessing, StatusShipped, StatusDelivered}, to: StatusProcessing},
		{name: "delivered to cancelled", path: []OrderStatus{StatusProcessing, StatusShipped, StatusDelivered}, to: StatusCancelled},
		{name: "cancelled is terminal", path: []OrderStatus{StatusCancelled}, to: StatusProcessing},
		{name: "returned is terminal", path: []OrderStatus{StatusProcessing, StatusShipped, StatusDelivered, StatusReturned}, to: StatusPlaced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := NewOrder("ORD-1", []LineItem{{ProductID: "P-001", Quantity: 1}}, "retailer1", "", nil)
			require.NoError(t, err)
			for _, step := range tt.path {
				require.NoError(t, order.Transition(step))
			}

			before := order.Status()
			err = order.Transition(tt.to)

			var transitionErr *InvalidTransitionError
			require.ErrorAs(t, err, &transitionErr)
			assert.Equal(t, before, transitionErr.From)
			assert.Equal(t, tt.to, transitionErr.To)
			assert.Equal(t, before, order.Status())
		})
	}
}

func TestOrder_TotalFollowsCurrentPrices(t *testing.T) {
	catalog := testCatalog(t)
	order, err := NewOrder("ORD-1", []LineItem{
		{ProductID: "P-001", Quantity: 2},
		{ProductID: "P-002", Quantity: 5},
	}, "retailer1", "", nil)
	require.NoError(t, err)

	total, err := order.CalculateTotal(catalog)
	require.NoError(t, err)
	assert.Equal(t, int64(2*120000+5*80000), total.ToCents())

	// Editable orders track price changes
	require.NoError(t, catalog.UpdatePrice("P-001", mustNewMoney(100000, "USD")))
	total, err = order.CalculateTotal(catalog)
	require.NoError(t, err)
	assert.Equal(t, int64(2*100000+5*80000), total.ToCents())
}

func TestOrder_FreezeTotal(t *testing.T) {
	catalog := testCatalog(t)
	order, err := NewOrder("ORD-1", []LineItem{{ProductID: "P-001", Quantity: 2}}, "retailer1", "", nil)
	require.NoError(t, err)

	require.NoError(t, order.FreezeTotal(catalog))

	// Later price changes do not rewrite the frozen total
	require.NoError(t, catalog.UpdatePrice("P-001", mustNewMoney(999900, "USD")))
	total, err := order.CalculateTotal(catalog)
	require.NoError(t, err)
	assert.Equal(t, int64(2*120000), total.ToCents())

	// Freezing again is a no-op
	require.NoError(t, order.FreezeTotal(catalog))
	total, err = order.CalculateTotal(catalog)
	require.NoError(t, err)
	assert.Equal(t, int64(2*120000), total.ToCents())
}

func TestOrder_TotalUnknownProduct(t *testing.T) {
	order, err := NewOrder("ORD-1", []LineItem{{ProductID: "P-404", Quantity: 1}}, "retailer1", "", nil)
	require.NoError(t, err)

	_, err = order.CalculateTotal(NewCatalog())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestOrder_MarkPaid(t *testing.T) {
	order, err := NewOrder("ORD-1", []LineItem{{ProductID: "P-001", Quantity: 1}}, "retailer1", "", nil)
	require.NoError(t, err)

	assert.False(t, order.Paid())
	order.MarkPaid()
	assert.True(t, order.Paid())
}
