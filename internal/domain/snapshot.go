package domain

import "time"

// Snapshot is the serializable state handed to the store collaborator. The
// core defines only this shape; the wire format belongs to the store.
type Snapshot struct {
	TakenAt  time.Time       `json:"takenAt" bson:"takenAt"`
	Products []ProductRecord `json:"products" bson:"products"`
	Ledgers  []LedgerRecord  `json:"ledgers" bson:"ledgers"`
	Orders   []OrderRecord   `json:"orders" bson:"orders"`
}

// ProductRecord is the serializable form of a Product
type ProductRecord struct {
	ID             string      `json:"id" bson:"id"`
	Name           string      `json:"name" bson:"name"`
	UnitPriceCents int64       `json:"unitPriceCents" bson:"unitPriceCents"`
	Currency       string      `json:"currency" bson:"currency"`
	Description    string      `json:"description,omitempty" bson:"description,omitempty"`
	Category       string      `json:"category,omitempty" bson:"category,omitempty"`
	SupplierID     string      `json:"supplierId,omitempty" bson:"supplierId,omitempty"`
	Dimensions     *Dimensions `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	Active         bool        `json:"active" bson:"active"`
	CreatedAt      time.Time   `json:"createdAt" bson:"createdAt"`
}

// Record returns the serializable form of the product
func (p *Product) Record() ProductRecord {
	return ProductRecord{
		ID:             p.ID,
		Name:           p.Name,
		UnitPriceCents: p.UnitPrice.ToCents(),
		Currency:       p.UnitPrice.Currency(),
		Description:    p.Description,
		Category:       p.Category,
		SupplierID:     p.SupplierID,
		Dimensions:     p.Dimensions,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
	}
}

// ProductFromRecord rebuilds a product from its serialized form
func ProductFromRecord(r ProductRecord) *Product {
	p := &Product{
		ID:          r.ID,
		Name:        r.Name,
		UnitPrice:   Money{amount: r.UnitPriceCents, currency: r.Currency},
		Description: r.Description,
		Category:    r.Category,
		SupplierID:  r.SupplierID,
		Dimensions:  r.Dimensions,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
	}
	p.deriveCodes()
	return p
}

// LedgerRecord is the serializable form of a Ledger
type LedgerRecord struct {
	LocationID   string                `json:"locationId" bson:"locationId"`
	LocationType string                `json:"locationType" bson:"locationType"`
	Levels       map[string]StockLevel `json:"levels" bson:"levels"`
	Recommended  map[string]int        `json:"recommended,omitempty" bson:"recommended,omitempty"`
	LastUpdated  time.Time             `json:"lastUpdated" bson:"lastUpdated"`
}

// Record returns the serializable form of the ledger
func (l *Ledger) Record() LedgerRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	levels := make(map[string]StockLevel, len(l.stock))
	for productID := range l.stock {
		levels[productID] = StockLevel{
			Stock:     l.stock[productID],
			Reserved:  l.reserved[productID],
			Threshold: l.thresholds[productID],
		}
	}
	for productID, threshold := range l.thresholds {
		if _, seen := levels[productID]; !seen {
			levels[productID] = StockLevel{Threshold: threshold}
		}
	}

	recommended := make(map[string]int, len(l.recommended))
	for productID, level := range l.recommended {
		recommended[productID] = level
	}

	return LedgerRecord{
		LocationID:   l.locationID,
		LocationType: l.locationType,
		Levels:       levels,
		Recommended:  recommended,
		LastUpdated:  l.lastUpdated,
	}
}

// LedgerFromRecord rebuilds a ledger from its serialized form
func LedgerFromRecord(r LedgerRecord) *Ledger {
	l := RestoreLedger(r.LocationID, r.LocationType, r.Levels, r.LastUpdated)
	for productID, level := range r.Recommended {
		l.recommended[productID] = level
	}
	return l
}

// OrderRecord is the serializable form of an Order
type OrderRecord struct {
	OrderID              string      `json:"orderId" bson:"orderId"`
	Items                []LineItem  `json:"items" bson:"items"`
	PlacedByPartyID      string      `json:"placedByPartyId" bson:"placedByPartyId"`
	FulfillingPartyID    string      `json:"fulfillingPartyId,omitempty" bson:"fulfillingPartyId,omitempty"`
	FulfillingLocationID string      `json:"fulfillingLocationId,omitempty" bson:"fulfillingLocationId,omitempty"`
	ReceivingLocationID  string      `json:"receivingLocationId,omitempty" bson:"receivingLocationId,omitempty"`
	ShippingAddress      string      `json:"shippingAddress,omitempty" bson:"shippingAddress,omitempty"`
	Notes                string      `json:"notes,omitempty" bson:"notes,omitempty"`
	Status               OrderStatus `json:"status" bson:"status"`
	CreatedAt            time.Time   `json:"createdAt" bson:"createdAt"`
	DeliveryDate         *time.Time  `json:"deliveryDate,omitempty" bson:"deliveryDate,omitempty"`
	Priority             int         `json:"priority" bson:"priority"`
	Urgent               bool        `json:"urgent" bson:"urgent"`
	Paid                 bool        `json:"paid" bson:"paid"`
	FrozenTotalCents     *int64      `json:"frozenTotalCents,omitempty" bson:"frozenTotalCents,omitempty"`
	FrozenCurrency       string      `json:"frozenCurrency,omitempty" bson:"frozenCurrency,omitempty"`
}

// Record returns the serializable form of the order
func (o *Order) Record() OrderRecord {
	r := OrderRecord{
		OrderID:              o.orderID,
		Items:                o.Items(),
		PlacedByPartyID:      o.placedByPartyID,
		FulfillingPartyID:    o.fulfillingPartyID,
		FulfillingLocationID: o.fulfillingLocationID,
		ReceivingLocationID:  o.receivingLocationID,
		ShippingAddress:      o.shippingAddress,
		Notes:                o.notes,
		Status:               o.status,
		CreatedAt:            o.createdAt,
		DeliveryDate:         o.DeliveryDate(),
		Priority:             o.priority,
		Urgent:               o.urgent,
		Paid:                 o.paid,
	}

	if o.frozenTotal != nil {
		cents := o.frozenTotal.ToCents()
		r.FrozenTotalCents = &cents
		r.FrozenCurrency = o.frozenTotal.Currency()
	}

	return r
}

// OrderFromRecord rebuilds an order from its serialized form
func OrderFromRecord(r OrderRecord) *Order {
	o := &Order{
		orderID:              r.OrderID,
		items:                append([]LineItem(nil), r.Items...),
		placedByPartyID:      r.PlacedByPartyID,
		fulfillingPartyID:    r.FulfillingPartyID,
		fulfillingLocationID: r.FulfillingLocationID,
		receivingLocationID:  r.ReceivingLocationID,
		shippingAddress:      r.ShippingAddress,
		notes:                r.Notes,
		status:               r.Status,
		createdAt:            r.CreatedAt,
		deliveryDate:         r.DeliveryDate,
		priority:             r.Priority,
		urgent:               r.Urgent,
		paid:                 r.Paid,
	}

	if r.FrozenTotalCents != nil {
		total := Money{amount: *r.FrozenTotalCents, currency: r.FrozenCurrency}
		o.frozenTotal = &total
	}

	return o
}
