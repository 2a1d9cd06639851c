package domain

import (
	"fmt"
	"sort"
	"sync"
)

// ProductLookup resolves product ids to products. The ledger and order engines
// depend on this and nothing else from the catalog.
type ProductLookup interface {
	Get(id string) (*Product, error)
}

// Catalog is the authoritative in-memory registry of products. Safe for
// concurrent use: every read hands out a value snapshot, so the structs the
// lock protects never escape it.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]*Product
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		products: make(map[string]*Product),
	}
}

// Create registers a new product. Fails if the id is already registered or the
// price is not strictly positive.
func (c *Catalog) Create(id, name string, price Money, cfg *ProductConfig) (*Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.products[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrProductAlreadyExists, id)
	}

	p, err := NewProduct(id, name, price, cfg)
	if err != nil {
		return nil, err
	}

	c.products[id] = p
	return p.clone(), nil
}

// Get resolves a product by id
func (c *Catalog) Get(id string) (*Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, exists := c.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return p.clone(), nil
}

// UpdatePrice changes the unit price of a product. Orders still in an editable
// state pick up the new price lazily the next time their total is read;
// finalized orders keep their frozen totals.
func (c *Catalog) UpdatePrice(id string, newPrice Money) error {
	if !newPrice.IsPositive() {
		return NewValidationError("price", "must be greater than zero")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, exists := c.products[id]
	if !exists {
		return ErrProductNotFound
	}

	p.UnitPrice = newPrice
	return nil
}

// Deactivate marks a product inactive without removing it from existing
// ledgers or orders
func (c *Catalog) Deactivate(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, exists := c.products[id]
	if !exists {
		return ErrProductNotFound
	}

	p.Deactivate()
	return nil
}

// List returns all products ordered by id
func (c *Catalog) List() []*Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByCategory returns all products in a category, ordered by id
func (c *Catalog) ByCategory(category string) []*Product {
	return c.filter(func(p *Product) bool { return p.Category == category })
}

// BySupplier returns all products sourced from a supplier, ordered by id
func (c *Catalog) BySupplier(supplierID string) []*Product {
	return c.filter(func(p *Product) bool { return p.SupplierID == supplierID })
}

func (c *Catalog) filter(keep func(*Product) bool) []*Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Product, 0)
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Restore replaces the catalog contents from a loaded snapshot
func (c *Catalog) Restore(products []*Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = make(map[string]*Product, len(products))
	for _, p := range products {
		c.products[p.ID] = p.clone()
	}
}
