package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	product, err := NewProduct("P-001", "High-Performance Laptop", mustNewMoney(120000, "USD"), &ProductConfig{
		Description: "15.6-inch laptop with 16GB RAM",
		Category:    "Electronics",
		SupplierID:  "supplier1",
	})
	require.NoError(t, err)

	assert.Equal(t, "P-001", product.ID)
	assert.Equal(t, "Electronics", product.Category)
	assert.True(t, product.Active)
	assert.Equal(t, int64(120000), product.UnitPrice.ToCents())
}

func TestNewProduct_Validation(t *testing.T) {
	var validationErr *ValidationError

	_, err := NewProduct("", "Laptop", mustNewMoney(100, "USD"), nil)
	require.ErrorAs(t, err, &validationErr)

	_, err = NewProduct("P-001", "", mustNewMoney(100, "USD"), nil)
	require.ErrorAs(t, err, &validationErr)

	_, err = NewProduct("P-001", "Laptop", ZeroMoney("USD"), nil)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "price", validationErr.Field)
}

func TestProduct_Equal(t *testing.T) {
	a, err := NewProduct("P-001", "Laptop", mustNewMoney(100, "USD"), nil)
	require.NoError(t, err)
	b, err := NewProduct("P-001", "Renamed Laptop", mustNewMoney(200, "USD"), nil)
	require.NoError(t, err)
	c, err := NewProduct("P-002", "Laptop", mustNewMoney(100, "USD"), nil)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestProduct_Codes(t *testing.T) {
	product, err := NewProduct("P-001", "Laptop", mustNewMoney(100, "USD"), nil)
	require.NoError(t, err)

	assert.Equal(t, "BAR-P001", product.Barcode())
	assert.Equal(t, "QR-P001", product.QRCode())

	long, err := NewProduct("product-identifier-123456", "Widget", mustNewMoney(100, "USD"), nil)
	require.NoError(t, err)

	assert.Equal(t, "BAR-PRODUCTI", long.Barcode())
	assert.Equal(t, "QR-PRODUCTIDENT", long.QRCode())

	// Codes are stable across calls
	assert.Equal(t, product.Barcode(), product.Barcode())
}

func TestProduct_Deactivate(t *testing.T) {
	product, err := NewProduct("P-001", "Laptop", mustNewMoney(100, "USD"), nil)
	require.NoError(t, err)

	product.Deactivate()
	assert.False(t, product.Active)
}

func TestDimensions(t *testing.T) {
	d := Dimensions{Length: 35.5, Width: 24.0, Height: 2.0, Weight: 1.8}

	assert.InDelta(t, 35.5*24.0*2.0, d.Volume(), 0.001)
	assert.Equal(t, "35.5x24.0x2.0 cm, 1.80 kg", d.String())
}

func TestProduct_ConcurrentCodeReads(t *testing.T) {
	p, err := NewProduct("P-001", "Laptop", mustNewMoney(100, "USD"), nil)
	require.NoError(t, err)

	// Codes are derived at construction, so reads from any number of
	// goroutines see the same values
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if p.Barcode() != "BAR-P001" || p.QRCode() != "QR-P001" {
					t.Error("inconsistent code read")
					return
				}
			}
		}()
	}
	wg.Wait()
}
