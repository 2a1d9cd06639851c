package domain

import "context"

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, orderID string) (*Order, error)
	FindAll(ctx context.Context) ([]*Order, error)
	FindByStatus(ctx context.Context, status OrderStatus) ([]*Order, error)
}

// LedgerProvider resolves the authoritative ledger for a location
type LedgerProvider interface {
	Ledger(locationID string) (*Ledger, error)
	GetOrCreate(locationID, locationType string) *Ledger
	All() []*Ledger
	Restore(ledgers []*Ledger)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	PublishAll(ctx context.Context, events []DomainEvent) error
}

// Store is the external persistence collaborator. The core calls it with
// whole-state snapshots and never depends on its wire format.
type Store interface {
	Save(ctx context.Context, snapshot *Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
}
