package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/smartsupply/supply-core/internal/domain"
)

// OrderRepository is an in-memory implementation of domain.OrderRepository.
// It is the default repository when no MongoDB instance is configured.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

// NewOrderRepository creates an empty in-memory order repository
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]*domain.Order)}
}

// Save stores or replaces an order
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.OrderID()] = order
	return nil
}

// FindByID returns the order or domain.ErrOrderNotFound
func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// FindAll returns all orders sorted by creation time, newest first
func (r *OrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(*domain.Order) bool { return true }), nil
}

// FindByStatus returns the orders currently in the given status
func (r *OrderRepository) FindByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(o *domain.Order) bool { return o.Status() == status }), nil
}

func (r *OrderRepository) collect(keep func(*domain.Order) bool) []*domain.Order {
	out := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if keep(order) {
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].OrderID() < out[j].OrderID()
		}
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out
}
