package domain

import (
	"sort"
	"sync"
	"time"
)

// DefaultCurrency is used for ledger valuations over an empty stock map
const DefaultCurrency = "USD"

// StockLevel is the read-only per-product view exported by Snapshot
type StockLevel struct {
	Stock     int `json:"stock"`
	Reserved  int `json:"reserved"`
	Threshold int `json:"threshold"`
}

// Ledger tracks stock for a single location. It is the single serialization
// point for that location: every read-check-then-write sequence runs under its
// mutex, so concurrent removals cannot both pass an availability check and
// drive stock negative.
//
// Invariants held across all operations:
//
//	stock >= 0, reserved >= 0, reserved <= stock
//
// Violating mutations are rejected with a typed error, never clamped.
type Ledger struct {
	mu           sync.Mutex
	locationID   string
	locationType string
	stock        map[string]int
	reserved     map[string]int
	thresholds   map[string]int
	recommended  map[string]int
	lastUpdated  time.Time
	events       []DomainEvent
}

// NewLedger creates an empty ledger for a location
func NewLedger(locationID, locationType string) *Ledger {
	return &Ledger{
		locationID:   locationID,
		locationType: locationType,
		stock:        make(map[string]int),
		reserved:     make(map[string]int),
		thresholds:   make(map[string]int),
		recommended:  make(map[string]int),
		lastUpdated:  time.Now().UTC(),
	}
}

// RestoreLedger rebuilds a ledger from a loaded snapshot
func RestoreLedger(locationID, locationType string, levels map[string]StockLevel, lastUpdated time.Time) *Ledger {
	l := NewLedger(locationID, locationType)
	for productID, level := range levels {
		if level.Stock != 0 {
			l.stock[productID] = level.Stock
		}
		if level.Reserved != 0 {
			l.reserved[productID] = level.Reserved
		}
		if level.Threshold != 0 {
			l.thresholds[productID] = level.Threshold
		}
	}
	l.lastUpdated = lastUpdated
	return l
}

// LocationID returns the location this ledger is scoped to
func (l *Ledger) LocationID() string {
	return l.locationID
}

// LocationType returns the location kind ("warehouse", "store", ...)
func (l *Ledger) LocationType() string {
	return l.locationType
}

// LastUpdated returns the time of the last successful mutation
func (l *Ledger) LastUpdated() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastUpdated
}

// AddStock increases stock for a product. Repeated calls accumulate. Returns
// the new stock count.
func (l *Ledger) AddStock(productID string, qty int) (int, error) {
	if qty <= 0 {
		return 0, NewValidationError("quantity", "must be greater than zero")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	newStock := l.stock[productID] + qty
	l.stock[productID] = newStock
	l.touch()

	l.events = append(l.events, &StockAddedEvent{
		LocationID: l.locationID,
		ProductID:  productID,
		Quantity:   qty,
		NewStock:   newStock,
		AddedAt:    l.lastUpdated,
	})

	return newStock, nil
}

// RemoveStock decreases stock for a product and returns the new count. The
// removal is checked against available-to-promise (stock minus reservations)
// so a manual stock-take cannot consume units already promised to an order.
func (l *Ledger) RemoveStock(productID string, qty int) (int, error) {
	if qty <= 0 {
		return 0, NewValidationError("quantity", "must be greater than zero")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	available := l.stock[productID] - l.reserved[productID]
	if qty > available {
		return 0, &InsufficientStockError{
			LocationID: l.locationID,
			ProductID:  productID,
			Required:   qty,
			Available:  available,
		}
	}

	return l.removeLocked(productID, qty), nil
}

// Reserve places a soft hold on stock, reducing available-to-promise without
// removing physical stock
func (l *Ledger) Reserve(productID string, qty int) error {
	if qty <= 0 {
		return NewValidationError("quantity", "must be greater than zero")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	available := l.stock[productID] - l.reserved[productID]
	if qty > available {
		return &InsufficientStockError{
			LocationID: l.locationID,
			ProductID:  productID,
			Required:   qty,
			Available:  available,
		}
	}

	l.reserved[productID] += qty
	l.touch()
	return nil
}

// Release returns reserved stock to available-to-promise
func (l *Ledger) Release(productID string, qty int) error {
	if qty <= 0 {
		return NewValidationError("quantity", "must be greater than zero")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if qty > l.reserved[productID] {
		return NewValidationError("quantity", "release exceeds reserved quantity")
	}

	l.reserved[productID] -= qty
	if l.reserved[productID] == 0 {
		delete(l.reserved, productID)
	}
	l.touch()
	return nil
}

// CommitReservation consumes a reservation and the underlying physical stock
// as one step. The quantity must already be reserved; commits cannot fail on
// availability, which is what makes reserve-then-commit sequences atomic.
func (l *Ledger) CommitReservation(productID string, qty int) (int, error) {
	if qty <= 0 {
		return 0, NewValidationError("quantity", "must be greater than zero")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if qty > l.reserved[productID] {
		return 0, NewValidationError("quantity", "commit exceeds reserved quantity")
	}

	l.reserved[productID] -= qty
	if l.reserved[productID] == 0 {
		delete(l.reserved, productID)
	}

	return l.removeLocked(productID, qty), nil
}

// removeLocked applies a physical stock decrement. Caller holds the mutex and
// has already validated availability.
func (l *Ledger) removeLocked(productID string, qty int) int {
	newStock := l.stock[productID] - qty
	l.stock[productID] = newStock
	l.touch()

	l.events = append(l.events, &StockRemovedEvent{
		LocationID: l.locationID,
		ProductID:  productID,
		Quantity:   qty,
		NewStock:   newStock,
		RemovedAt:  l.lastUpdated,
	})

	if newStock <= l.thresholds[productID] {
		l.events = append(l.events, &LowStockAlertEvent{
			LocationID:   l.locationID,
			ProductID:    productID,
			CurrentStock: newStock,
			Threshold:    l.thresholds[productID],
			AlertedAt:    l.lastUpdated,
		})
	}

	return newStock
}

// IsInStock reports whether the requested quantity is available to promise
func (l *Ledger) IsInStock(productID string, qty int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stock[productID]-l.reserved[productID] >= qty
}

// StockCount returns the physical stock for a product
func (l *Ledger) StockCount(productID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stock[productID]
}

// Reserved returns the reserved quantity for a product
func (l *Ledger) Reserved(productID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reserved[productID]
}

// Available returns stock minus reservations for a product
func (l *Ledger) Available(productID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stock[productID] - l.reserved[productID]
}

// TotalReserved returns the sum of reserved units across all products
func (l *Ledger) TotalReserved() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := 0
	for _, qty := range l.reserved {
		total += qty
	}
	return total
}

// SetReorderThreshold sets the stock level at or below which a product is
// flagged for restocking
func (l *Ledger) SetReorderThreshold(productID string, threshold int) error {
	if threshold < 0 {
		return NewValidationError("threshold", "must not be negative")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.thresholds[productID] = threshold
	l.touch()
	return nil
}

// SetRecommendedStock records the target stock level used by restock reporting
func (l *Ledger) SetRecommendedStock(productID string, level int) error {
	if level < 0 {
		return NewValidationError("level", "must not be negative")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.recommended[productID] = level
	l.touch()
	return nil
}

// RecommendedStock returns the target stock level for a product
func (l *Ledger) RecommendedStock(productID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recommended[productID]
}

// CheckLowStock returns the ids of all products at or below their reorder
// threshold, sorted for deterministic output
func (l *Ledger) CheckLowStock() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	low := make([]string, 0)
	for productID, stock := range l.stock {
		if stock <= l.thresholds[productID] {
			low = append(low, productID)
		}
	}
	sort.Strings(low)
	return low
}

// Value returns the total inventory value, priced at the current catalog
// price of each product, never a cached one
func (l *Ledger) Value(lookup ProductLookup) (Money, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := ZeroMoney(DefaultCurrency)
	first := true

	for productID, qty := range l.stock {
		if qty == 0 {
			continue
		}

		p, err := lookup.Get(productID)
		if err != nil {
			return Money{}, err
		}

		line, err := p.UnitPrice.Multiply(qty)
		if err != nil {
			return Money{}, err
		}

		if first {
			total = ZeroMoney(line.Currency())
			first = false
		}

		total, err = total.Add(line)
		if err != nil {
			return Money{}, err
		}
	}

	return total, nil
}

// ProductsByCategory returns the stock counts of all products in a category
func (l *Ledger) ProductsByCategory(lookup ProductLookup, category string) map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]int)
	for productID, qty := range l.stock {
		p, err := lookup.Get(productID)
		if err != nil {
			continue
		}
		if p.Category == category {
			out[productID] = qty
		}
	}
	return out
}

// Snapshot returns a read-only copy of the per-product levels at this location
func (l *Ledger) Snapshot() map[string]StockLevel {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]StockLevel, len(l.stock))
	for productID := range l.stock {
		out[productID] = StockLevel{
			Stock:     l.stock[productID],
			Reserved:  l.reserved[productID],
			Threshold: l.thresholds[productID],
		}
	}
	for productID, threshold := range l.thresholds {
		if _, seen := out[productID]; !seen {
			out[productID] = StockLevel{Threshold: threshold}
		}
	}
	return out
}

// PullEvents returns and clears pending domain events
func (l *Ledger) PullEvents() []DomainEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	events := l.events
	l.events = nil
	return events
}

// touch refreshes the mutation timestamp. Caller holds the mutex.
func (l *Ledger) touch() {
	l.lastUpdated = time.Now().UTC()
}
