package domain

import (
	"time"
)

// Priority bounds. 1 is the highest priority, 5 the lowest.
const (
	PriorityHighest = 1
	PriorityDefault = 3
	PriorityLowest  = 5
)

// LineItem is one product line on an order. Quantity is always positive; a
// line dropping to zero is removed, never stored.
type LineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderConfig enumerates the recognized optional fields for order placement
type OrderConfig struct {
	Priority             int
	Urgent               bool
	ShippingAddress      string
	Notes                string
	FulfillingLocationID string
	ReceivingLocationID  string
}

// Order is a set of line items plus a lifecycle record. The fulfillment
// coordinator is the sole mutator of Status and DeliveryDate; line items are
// editable only while the order is still Placed.
//
// The order references products by id and never owns them. Its total is
// derived from current catalog prices on every read until a finalizing
// transition freezes it.
type Order struct {
	orderID              string
	items                []LineItem
	placedByPartyID      string
	fulfillingPartyID    string
	fulfillingLocationID string
	receivingLocationID  string
	shippingAddress      string
	notes                string
	status               OrderStatus
	createdAt            time.Time
	deliveryDate         *time.Time
	priority             int
	urgent               bool
	paid                 bool
	frozenTotal          *Money
	events               []DomainEvent
}

// NewOrder creates an order in the Placed state. No inventory is committed at
// placement; Placed is a draft state.
func NewOrder(orderID string, items []LineItem, placedBy, fulfiller string, cfg *OrderConfig) (*Order, error) {
	if orderID == "" {
		return nil, NewValidationError("orderId", "must not be empty")
	}

	if placedBy == "" {
		return nil, NewValidationError("placedBy", "must not be empty")
	}

	if len(items) == 0 {
		return nil, NewValidationError("items", "order must have at least one item")
	}

	o := &Order{
		orderID:           orderID,
		items:             make([]LineItem, 0, len(items)),
		placedByPartyID:   placedBy,
		fulfillingPartyID: fulfiller,
		status:            StatusPlaced,
		createdAt:         time.Now().UTC(),
		priority:          PriorityDefault,
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, NewValidationError("quantity", "must be greater than zero for "+item.ProductID)
		}
		o.mergeItem(item.ProductID, item.Quantity)
	}

	if cfg != nil {
		if cfg.Priority != 0 {
			if cfg.Priority < PriorityHighest || cfg.Priority > PriorityLowest {
				return nil, NewValidationError("priority", "must be between 1 and 5")
			}
			o.priority = cfg.Priority
		}
		if cfg.Urgent {
			o.urgent = true
			o.priority = PriorityHighest
		}
		o.shippingAddress = cfg.ShippingAddress
		o.notes = cfg.Notes
		o.fulfillingLocationID = cfg.FulfillingLocationID
		o.receivingLocationID = cfg.ReceivingLocationID
	}

	o.events = append(o.events, &OrderPlacedEvent{
		OrderID:         o.orderID,
		PlacedByPartyID: o.placedByPartyID,
		ItemCount:       len(o.items),
		Priority:        o.priority,
		PlacedAt:        o.createdAt,
	})

	return o, nil
}

// Accessors

func (o *Order) OrderID() string              { return o.orderID }
func (o *Order) PlacedByPartyID() string      { return o.placedByPartyID }
func (o *Order) FulfillingPartyID() string    { return o.fulfillingPartyID }
func (o *Order) FulfillingLocationID() string { return o.fulfillingLocationID }
func (o *Order) ReceivingLocationID() string  { return o.receivingLocationID }
func (o *Order) ShippingAddress() string      { return o.shippingAddress }
func (o *Order) Notes() string                { return o.notes }
func (o *Order) Status() OrderStatus          { return o.status }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) Priority() int                { return o.priority }
func (o *Order) Urgent() bool                 { return o.urgent }
func (o *Order) Paid() bool                   { return o.paid }

// DeliveryDate returns the delivery date, set only once the order ships
func (o *Order) DeliveryDate() *time.Time {
	if o.deliveryDate == nil {
		return nil
	}
	d := *o.deliveryDate
	return &d
}

// Items returns a copy of the order lines in placement order
func (o *Order) Items() []LineItem {
	out := make([]LineItem, len(o.items))
	copy(out, o.items)
	return out
}

// Quantity returns the ordered quantity for a product, zero if absent
func (o *Order) Quantity(productID string) int {
	for _, item := range o.items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// AddItem adds quantity to a line, creating it if absent. Permitted only
// while the order is Placed.
func (o *Order) AddItem(productID string, qty int) error {
	if err := o.ensureEditable("add item"); err != nil {
		return err
	}

	if qty <= 0 {
		return NewValidationError("quantity", "must be greater than zero")
	}

	o.mergeItem(productID, qty)
	return nil
}

// RemoveItem removes a line entirely. Permitted only while the order is Placed.
func (o *Order) RemoveItem(productID string) error {
	if err := o.ensureEditable("remove item"); err != nil {
		return err
	}

	for i, item := range o.items {
		if item.ProductID == productID {
			o.items = append(o.items[:i], o.items[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

// UpdateQuantity replaces a line's quantity. Zero removes the line; negative
// quantities are rejected. Permitted only while the order is Placed.
func (o *Order) UpdateQuantity(productID string, qty int) error {
	if err := o.ensureEditable("update quantity"); err != nil {
		return err
	}

	if qty < 0 {
		return NewValidationError("quantity", "must not be negative")
	}

	if qty == 0 {
		return o.RemoveItem(productID)
	}

	for i, item := range o.items {
		if item.ProductID == productID {
			o.items[i].Quantity = qty
			return nil
		}
	}
	return ErrProductNotFound
}

// CalculateTotal returns the order total. Until the order is finalized it is
// recomputed from current catalog prices on every call; after a finalizing
// transition the frozen total is returned.
func (o *Order) CalculateTotal(lookup ProductLookup) (Money, error) {
	if o.frozenTotal != nil {
		return *o.frozenTotal, nil
	}
	return o.computeTotal(lookup)
}

// Transition moves the order along the status machine. Inventory effects are
// the fulfillment coordinator's responsibility; callers other than the
// coordinator must not invoke this directly.
func (o *Order) Transition(to OrderStatus) error {
	if !o.status.CanTransitionTo(to) {
		return &InvalidTransitionError{From: o.status, To: to}
	}

	from := o.status
	o.status = to

	if to == StatusShipped && o.deliveryDate == nil {
		now := time.Now().UTC()
		o.deliveryDate = &now
	}

	o.events = append(o.events, &OrderStatusChangedEvent{
		OrderID:   o.orderID,
		From:      from,
		To:        to,
		ChangedAt: time.Now().UTC(),
	})

	return nil
}

// FreezeTotal locks the order total at current prices. Called by the
// coordinator on finalizing transitions so later price changes do not rewrite
// history.
func (o *Order) FreezeTotal(lookup ProductLookup) error {
	if o.frozenTotal != nil {
		return nil
	}

	total, err := o.computeTotal(lookup)
	if err != nil {
		return err
	}

	o.frozenTotal = &total
	return nil
}

// MarkPaid flags the order as paid
func (o *Order) MarkPaid() {
	o.paid = true
}

// PullEvents returns and clears pending domain events
func (o *Order) PullEvents() []DomainEvent {
	events := o.events
	o.events = nil
	return events
}

func (o *Order) computeTotal(lookup ProductLookup) (Money, error) {
	total := ZeroMoney(DefaultCurrency)
	first := true

	for _, item := range o.items {
		p, err := lookup.Get(item.ProductID)
		if err != nil {
			return Money{}, err
		}

		line, err := p.UnitPrice.Multiply(item.Quantity)
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

func (o *Order) ensureEditable(operation string) error {
	if o.status != StatusPlaced {
		return &InvalidStateError{OrderID: o.orderID, Status: o.status, Operation: operation}
	}
	return nil
}

func (o *Order) mergeItem(productID string, qty int) {
	for i, item := range o.items {
		if item.ProductID == productID {
			o.items[i].Quantity += qty
			return
		}
	}
	o.items = append(o.items, LineItem{ProductID: productID, Quantity: qty})
}
