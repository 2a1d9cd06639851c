package memory

import (
	"sort"
	"sync"

	"github.com/smartsupply/supply-core/internal/domain"
)

// LedgerRegistry holds the authoritative ledger per location. The registry
// lock only guards the map; per-location serialization lives inside each
// ledger.
type LedgerRegistry struct {
	mu      sync.RWMutex
	ledgers map[string]*domain.Ledger
}

// NewLedgerRegistry creates an empty registry
func NewLedgerRegistry() *LedgerRegistry {
	return &LedgerRegistry{ledgers: make(map[string]*domain.Ledger)}
}

// Ledger returns the ledger for a location or domain.ErrLedgerNotFound
func (r *LedgerRegistry) Ledger(locationID string) (*domain.Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ledger, ok := r.ledgers[locationID]
	if !ok {
		return nil, domain.ErrLedgerNotFound
	}
	return ledger, nil
}

// GetOrCreate returns the ledger for a location, creating it on first use
func (r *LedgerRegistry) GetOrCreate(locationID, locationType string) *domain.Ledger {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ledger, ok := r.ledgers[locationID]; ok {
		return ledger
	}

	ledger := domain.NewLedger(locationID, locationType)
	r.ledgers[locationID] = ledger
	return ledger
}

// All returns every registered ledger sorted by location id
func (r *LedgerRegistry) All() []*domain.Ledger {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Ledger, 0, len(r.ledgers))
	for _, ledger := range r.ledgers {
		out = append(out, ledger)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID() < out[j].LocationID() })
	return out
}

// Restore replaces the registry contents with the given ledgers
func (r *LedgerRegistry) Restore(ledgers []*domain.Ledger) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ledgers = make(map[string]*domain.Ledger, len(ledgers))
	for _, ledger := range ledgers {
		r.ledgers[ledger.LocationID()] = ledger
	}
}
