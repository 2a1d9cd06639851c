package domain

import (
	"fmt"
	"strings"
	"time"
)

// Dimensions describes the physical size of a product
type Dimensions struct {
	Length        float64 `json:"length"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	UnitOfMeasure string  `json:"unitOfMeasure"`
}

// Volume returns length x width x height
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}

func (d Dimensions) String() string {
	unit := d.UnitOfMeasure
	if unit == "" {
		unit = "cm"
	}
	return fmt.Sprintf("%.1fx%.1fx%.1f %s, %.2f kg", d.Length, d.Width, d.Height, unit, d.Weight)
}

// Product is a tradable item. Identity is ID; every other field except ID is
// mutable through the catalog. Ledgers and orders reference products by ID only
// and never own the product lifecycle.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	UnitPrice   Money       `json:"-"`
	Description string      `json:"description,omitempty"`
	Category    string      `json:"category,omitempty"`
	SupplierID  string      `json:"supplierId,omitempty"`
	Dimensions  *Dimensions `json:"dimensions,omitempty"`
	Active      bool        `json:"active"`
	CreatedAt   time.Time   `json:"createdAt"`

	barcode string
	qrCode  string
}

// ProductConfig enumerates the recognized optional fields for product creation
type ProductConfig struct {
	Description string
	Category    string
	SupplierID  string
	Dimensions  *Dimensions
}

// NewProduct creates a product. The price must be strictly positive.
func NewProduct(id, name string, price Money, cfg *ProductConfig) (*Product, error) {
	if id == "" {
		return nil, NewValidationError("id", "must not be empty")
	}

	if name == "" {
		return nil, NewValidationError("name", "must not be empty")
	}

	if !price.IsPositive() {
		return nil, NewValidationError("price", "must be greater than zero")
	}

	p := &Product{
		ID:        id,
		Name:      name,
		UnitPrice: price,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}

	if cfg != nil {
		p.Description = cfg.Description
		p.Category = cfg.Category
		p.SupplierID = cfg.SupplierID
		p.Dimensions = cfg.Dimensions
	}

	p.deriveCodes()
	return p, nil
}

// Equal reports product identity, which is defined by ID alone
func (p *Product) Equal(other *Product) bool {
	if other == nil {
		return false
	}
	return p.ID == other.ID
}

// Barcode returns the product barcode, derived from the immutable ID at
// construction time
func (p *Product) Barcode() string {
	return p.barcode
}

// QRCode returns the product QR code string, derived from the immutable ID at
// construction time
func (p *Product) QRCode() string {
	return p.qrCode
}

// deriveCodes computes the barcode and QR code from the ID. Both depend on
// nothing else, so they are set once and the accessors stay pure reads.
func (p *Product) deriveCodes() {
	p.barcode = "BAR-" + truncate(normalizeID(p.ID), 8)
	p.qrCode = "QR-" + truncate(normalizeID(p.ID), 12)
}

// clone returns a value snapshot of the product. The catalog hands these out
// so no caller ever holds the mutable struct the catalog lock protects.
func (p *Product) clone() *Product {
	c := *p
	if p.Dimensions != nil {
		d := *p.Dimensions
		c.Dimensions = &d
	}
	return &c
}

// Deactivate marks the product inactive. It stays resolvable so existing
// ledgers and orders referencing it are not corrupted.
func (p *Product) Deactivate() {
	p.Active = false
}

func (p *Product) String() string {
	return fmt.Sprintf("Product[id=%s, name=%s, price=%s, category=%s]", p.ID, p.Name, p.UnitPrice, p.Category)
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.ReplaceAll(id, "-", ""))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
