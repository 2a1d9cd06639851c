package domain

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	StatusPlaced     OrderStatus = "placed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusReturned   OrderStatus = "returned"
)

// IsValid checks if the status is one of the known lifecycle states
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPlaced, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusReturned:
		return true
	default:
		return false
	}
}

// IsFinal returns true for states with no outgoing transitions
func (s OrderStatus) IsFinal() bool {
	return s == StatusCancelled || s == StatusReturned
}

// Description returns a human-readable description of the status
func (s OrderStatus) Description() string {
	switch s {
	case StatusPlaced:
		return "Order has been placed"
	case StatusProcessing:
		return "Order is being processed"
	case StatusShipped:
		return "Order has been shipped"
	case StatusDelivered:
		return "Order has been delivered"
	case StatusCancelled:
		return "Order has been cancelled"
	case StatusReturned:
		return "Order has been returned"
	default:
		return "Unknown status"
	}
}

// validTransitions enumerates every permitted status edge. Anything not listed
// fails with InvalidTransitionError.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPlaced:     {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {StatusReturned},
}

// CanTransitionTo reports whether the status machine permits the edge s -> target
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range validTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}
