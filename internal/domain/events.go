package domain

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// StockAddedEvent is published when stock is received into a location
type StockAddedEvent struct {
	LocationID string    `json:"locationId"`
	ProductID  string    `json:"productId"`
	Quantity   int       `json:"quantity"`
	NewStock   int       `json:"newStock"`
	AddedAt    time.Time `json:"addedAt"`
}

func (e *StockAddedEvent) EventType() string     { return "smartsupply.inventory.stock-added" }
func (e *StockAddedEvent) OccurredAt() time.Time { return e.AddedAt }

// StockRemovedEvent is published when stock physically leaves a location
type StockRemovedEvent struct {
	LocationID string    `json:"locationId"`
	ProductID  string    `json:"productId"`
	Quantity   int       `json:"quantity"`
	NewStock   int       `json:"newStock"`
	RemovedAt  time.Time `json:"removedAt"`
}

func (e *StockRemovedEvent) EventType() string     { return "smartsupply.inventory.stock-removed" }
func (e *StockRemovedEvent) OccurredAt() time.Time { return e.RemovedAt }

// LowStockAlertEvent is published when stock falls to or below the reorder threshold
type LowStockAlertEvent struct {
	LocationID   string    `json:"locationId"`
	ProductID    string    `json:"productId"`
	CurrentStock int       `json:"currentStock"`
	Threshold    int       `json:"threshold"`
	AlertedAt    time.Time `json:"alertedAt"`
}

func (e *LowStockAlertEvent) EventType() string     { return "smartsupply.inventory.low-stock-alert" }
func (e *LowStockAlertEvent) OccurredAt() time.Time { return e.AlertedAt }

// OrderPlacedEvent is published when an order is created in the Placed state
type OrderPlacedEvent struct {
	OrderID         string    `json:"orderId"`
	PlacedByPartyID string    `json:"placedByPartyId"`
	ItemCount       int       `json:"itemCount"`
	Priority        int       `json:"priority"`
	PlacedAt        time.Time `json:"placedAt"`
}

func (e *OrderPlacedEvent) EventType() string     { return "smartsupply.orders.placed" }
func (e *OrderPlacedEvent) OccurredAt() time.Time { return e.PlacedAt }

// OrderStatusChangedEvent is published on every successful status transition
type OrderStatusChangedEvent struct {
	OrderID   string      `json:"orderId"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	ChangedAt time.Time   `json:"changedAt"`
}

func (e *OrderStatusChangedEvent) EventType() string     { return "smartsupply.orders.status-changed" }
func (e *OrderStatusChangedEvent) OccurredAt() time.Time { return e.ChangedAt }
