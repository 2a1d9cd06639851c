package application

import "time"

// ProductDTO represents a product in responses
type ProductDTO struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	PriceCents  int64         `json:"priceCents"`
	Currency    string        `json:"currency"`
	Price       string        `json:"price"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category,omitempty"`
	SupplierID  string        `json:"supplierId,omitempty"`
	Dimensions  *DimensionDTO `json:"dimensions,omitempty"`
	Barcode     string        `json:"barcode"`
	QRCode      string        `json:"qrCode"`
	Active      bool          `json:"active"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// DimensionDTO represents product dimensions
type DimensionDTO struct {
	Length        float64 `json:"length"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	UnitOfMeasure string  `json:"unitOfMeasure"`
	Volume        float64 `json:"volume"`
}

// StockLevelDTO represents stock for one product at one location
type StockLevelDTO struct {
	ProductID string `json:"productId"`
	Stock     int    `json:"stock"`
	Reserved  int    `json:"reserved"`
	Available int    `json:"available"`
	Threshold int    `json:"threshold"`
}

// LedgerSnapshotDTO is the read-only per-location view for reporting
type LedgerSnapshotDTO struct {
	LocationID   string          `json:"locationId"`
	LocationType string          `json:"locationType"`
	Levels       []StockLevelDTO `json:"levels"`
	LastUpdated  time.Time       `json:"lastUpdated"`
}

// LedgerValueDTO is the total inventory value at a location
type LedgerValueDTO struct {
	LocationID string `json:"locationId"`
	ValueCents int64  `json:"valueCents"`
	Currency   string `json:"currency"`
	Value      string `json:"value"`
}

// LowStockReportDTO lists products needing restock at a location
type LowStockReportDTO struct {
	LocationID string   `json:"locationId"`
	ProductIDs []string `json:"productIds"`
}

// OrderLineDTO represents one order line with its current pricing
type OrderLineDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderDTO represents an order in responses
type OrderDTO struct {
	OrderID              string         `json:"orderId"`
	Items                []OrderLineDTO `json:"items"`
	PlacedByPartyID      string         `json:"placedByPartyId"`
	FulfillingPartyID    string         `json:"fulfillingPartyId,omitempty"`
	FulfillingLocationID string         `json:"fulfillingLocationId,omitempty"`
	ReceivingLocationID  string         `json:"receivingLocationId,omitempty"`
	ShippingAddress      string         `json:"shippingAddress,omitempty"`
	Notes                string         `json:"notes,omitempty"`
	Status               string         `json:"status"`
	StatusDescription    string         `json:"statusDescription"`
	CreatedAt            time.Time      `json:"createdAt"`
	DeliveryDate         *time.Time     `json:"deliveryDate,omitempty"`
	Priority             int            `json:"priority"`
	Urgent               bool           `json:"urgent"`
	Paid                 bool           `json:"paid"`
	TotalCents           int64          `json:"totalCents"`
	Currency             string         `json:"currency"`
	Total                string         `json:"total"`
}

// InvoiceDTO is the invoice view of an order. Formatting and delivery of
// invoices stay outside the core.
type InvoiceDTO struct {
	InvoiceID       string         `json:"invoiceId"`
	OrderID         string         `json:"orderId"`
	OrderDate       time.Time      `json:"orderDate"`
	CustomerPartyID string         `json:"customerPartyId"`
	SupplierPartyID string         `json:"supplierPartyId,omitempty"`
	Items           []OrderLineDTO `json:"items"`
	Status          string         `json:"status"`
	Paid            bool           `json:"paid"`
	TotalCents      int64          `json:"totalCents"`
	Currency        string         `json:"currency"`
}
