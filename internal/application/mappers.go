package application

import (
	"sort"

	"github.com/smartsupply/supply-core/internal/domain"
)

// ToProductDTO converts a domain Product to ProductDTO
func ToProductDTO(p *domain.Product) *ProductDTO {
	if p == nil {
		return nil
	}

	dto := &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		PriceCents:  p.UnitPrice.ToCents(),
		Currency:    p.UnitPrice.Currency(),
		Price:       p.UnitPrice.String(),
		Description: p.Description,
		Category:    p.Category,
		SupplierID:  p.SupplierID,
		Barcode:     p.Barcode(),
		QRCode:      p.QRCode(),
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}

	if p.Dimensions != nil {
		dto.Dimensions = &DimensionDTO{
			Length:        p.Dimensions.Length,
			Width:         p.Dimensions.Width,
			Height:        p.Dimensions.Height,
			Weight:        p.Dimensions.Weight,
			UnitOfMeasure: p.Dimensions.UnitOfMeasure,
			Volume:        p.Dimensions.Volume(),
		}
	}

	return dto
}

// ToLedgerSnapshotDTO converts a ledger's snapshot into its reporting view
func ToLedgerSnapshotDTO(l *domain.Ledger) *LedgerSnapshotDTO {
	if l == nil {
		return nil
	}

	snapshot := l.Snapshot()
	levels := make([]StockLevelDTO, 0, len(snapshot))
	for productID, level := range snapshot {
		levels = append(levels, StockLevelDTO{
			ProductID: productID,
			Stock:     level.Stock,
			Reserved:  level.Reserved,
			Available: level.Stock - level.Reserved,
			Threshold: level.Threshold,
		})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].ProductID < levels[j].ProductID })

	return &LedgerSnapshotDTO{
		LocationID:   l.LocationID(),
		LocationType: l.LocationType(),
		Levels:       levels,
		LastUpdated:  l.LastUpdated(),
	}
}

// ToOrderDTO converts a domain Order to OrderDTO, pricing it at current
// catalog prices (or the frozen total for finalized orders)
func ToOrderDTO(o *domain.Order, lookup domain.ProductLookup) (*OrderDTO, error) {
	if o == nil {
		return nil, nil
	}

	total, err := o.CalculateTotal(lookup)
	if err != nil {
		return nil, err
	}

	items := o.Items()
	lines := make([]OrderLineDTO, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderLineDTO{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	return &OrderDTO{
		OrderID:              o.OrderID(),
		Items:                lines,
		PlacedByPartyID:      o.PlacedByPartyID(),
		FulfillingPartyID:    o.FulfillingPartyID(),
		FulfillingLocationID: o.FulfillingLocationID(),
		ReceivingLocationID:  o.ReceivingLocationID(),
		ShippingAddress:      o.ShippingAddress(),
		Notes:                o.Notes(),
		Status:               string(o.Status()),
		StatusDescription:    o.Status().Description(),
		CreatedAt:            o.CreatedAt(),
		DeliveryDate:         o.DeliveryDate(),
		Priority:             o.Priority(),
		Urgent:               o.Urgent(),
		Paid:                 o.Paid(),
		TotalCents:           total.ToCents(),
		Currency:             total.Currency(),
		Total:                total.String(),
	}, nil
}

// ToInvoiceDTO builds the invoice view of an order
func ToInvoiceDTO(o *domain.Order, lookup domain.ProductLookup) (*InvoiceDTO, error) {
	if o == nil {
		return nil, nil
	}

	total, err := o.CalculateTotal(lookup)
	if err != nil {
		return nil, err
	}

	items := o.Items()
	lines := make([]OrderLineDTO, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderLineDTO{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	return &InvoiceDTO{
		InvoiceID:       "INV-" + o.OrderID(),
		OrderID:         o.OrderID(),
		OrderDate:       o.CreatedAt(),
		CustomerPartyID: o.PlacedByPartyID(),
		SupplierPartyID: o.FulfillingPartyID(),
		Items:           lines,
		Status:          string(o.Status()),
		Paid:            o.Paid(),
		TotalCents:      total.ToCents(),
		Currency:        total.Currency(),
	}, nil
}
