package application

// CreateProductCommand registers a new product in the catalog
type CreateProductCommand struct {
	ProductID   string
	Name        string
	PriceCents  int64
	Currency    string
	Description string
	Category    string
	SupplierID  string
}

// UpdatePriceCommand changes a product's unit price
type UpdatePriceCommand struct {
	ProductID  string
	PriceCents int64
	Currency   string
}

// ReceiveStockCommand adds stock at a location
type ReceiveStockCommand struct {
	LocationID   string
	LocationType string
	ProductID    string
	Quantity     int
}

// RemoveStockCommand removes stock at a location (manual stock-take path)
type RemoveStockCommand struct {
	LocationID string
	ProductID  string
	Quantity   int
}

// ReserveStockCommand places a soft hold on stock
type ReserveStockCommand struct {
	LocationID string
	ProductID  string
	Quantity   int
}

// ReleaseStockCommand releases a soft hold
type ReleaseStockCommand struct {
	LocationID string
	ProductID  string
	Quantity   int
}

// SetThresholdCommand sets the reorder threshold for a product at a location
type SetThresholdCommand struct {
	LocationID string
	ProductID  string
	Threshold  int
}

// SetRecommendedStockCommand sets the target stock level for restock reporting
type SetRecommendedStockCommand struct {
	LocationID string
	ProductID  string
	Level      int
}

// OrderItemInput is one requested line on a new order
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// PlaceOrderCommand creates an order in the Placed state
type PlaceOrderCommand struct {
	Items                []OrderItemInput
	PlacedByPartyID      string
	FulfillingPartyID    string
	FulfillingLocationID string
	ReceivingLocationID  string
	ShippingAddress      string
	Notes                string
	Priority             int
	Urgent               bool
}

// TransitionOrderCommand requests a status transition through the coordinator
type TransitionOrderCommand struct {
	OrderID string
	Target  string
}

// UpdateOrderItemCommand mutates a line on a still-editable order
type UpdateOrderItemCommand struct {
	OrderID   string
	ProductID string
	Quantity  int
}
