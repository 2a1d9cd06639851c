package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRecordRoundTrip(t *testing.T) {
	product, err := NewProduct("P-001", "Laptop", mustNewMoney(120000, "USD"), &ProductConfig{
		Description: "15.6-inch laptop",
		Category:    "Electronics",
		SupplierID:  "supplier1",
		Dimensions:  &Dimensions{Length: 35.5, Width: 24, Height: 2, Weight: 1.8},
	})
	require.NoError(t, err)
	product.Deactivate()

	restored := ProductFromRecord(product.Record())

	assert.Equal(t, product.ID, restored.ID)
	assert.Equal(t, product.Name, restored.Name)
	assert.True(t, product.UnitPrice.Equals(restored.UnitPrice))
	assert.Equal(t, product.Category, restored.Category)
	assert.Equal(t, product.Dimensions, restored.Dimensions)
	assert.False(t, restored.Active)
	assert.Equal(t, product.CreatedAt, restored.CreatedAt)
}

func TestLedgerRecordRoundTrip(t *testing.T) {
	ledger := NewLedger("WH-001", "warehouse")
	ledger.AddStock("P-001", 50)
	require.NoError(t, ledger.Reserve("P-001", 5))
	require.NoError(t, ledger.SetReorderThreshold("P-001", 10))
	require.NoError(t, ledger.SetRecommendedStock("P-001", 60))

	restored := LedgerFromRecord(ledger.Record())

	assert.Equal(t, "WH-001", restored.LocationID())
	assert.Equal(t, "warehouse", restored.LocationType())
	assert.Equal(t, 50, restored.StockCount("P-001"))
	assert.Equal(t, 5, restored.Reserved("P-001"))
	assert.Equal(t, 60, restored.RecommendedStock("P-001"))
	assert.Equal(t, ledger.LastUpdated(), restored.LastUpdated())
}

func TestOrderRecordRoundTrip(t *testing.T) {
	catalog := testCatalog(t)
	order, err := NewOrder("ORD-1", []LineItem{
		{ProductID: "P-001", Quantity: 2},
	}, "retailer1", "supplier1", &OrderConfig{
		Urgent:               true,
		ShippingAddress:      "789 Retail Ave.",
		FulfillingLocationID: "WH-001",
		ReceivingLocationID:  "ST-001",
	})
	require.NoError(t, err)
	require.NoError(t, order.Transition(StatusProcessing))
	require.NoError(t, order.Transition(StatusShipped))
	order.MarkPaid()
	require.NoError(t, order.FreezeTotal(catalog))

	restored := OrderFromRecord(order.Record())

	assert.Equal(t, order.OrderID(), restored.OrderID())
	assert.Equal(t, order.Items(), restored.Items())
	assert.Equal(t, StatusShipped, restored.Status())
	assert.Equal(t, PriorityHighest, restored.Priority())
	assert.True(t, restored.Urgent())
	assert.True(t, restored.Paid())
	assert.Equal(t, "WH-001", restored.FulfillingLocationID())
	require.NotNil(t, restored.DeliveryDate())

	// Frozen total survives and stays frozen
	require.NoError(t, catalog.UpdatePrice("P-001", mustNewMoney(999900, "USD")))
	total, err := restored.CalculateTotal(catalog)
	require.NoError(t, err)
	assert.Equal(t, int64(2*120000), total.ToCents())
}

func TestOrderRecordRoundTrip_NoFrozenTotal(t *testing.T) {
	order, err := NewOrder("ORD-1", []LineItem{{ProductID: "P-001", Quantity: 1}}, "retailer1", "", nil)
	require.NoError(t, err)

	record := order.Record()
	assert.Nil(t, record.FrozenTotalCents)

	restored := OrderFromRecord(record)
	catalog := testCatalog(t)
	total, err := restored.CalculateTotal(catalog)
	require.NoError(t, err)
	assert.Equal(t, int64(120000), total.ToCents())
}
