package application

import (
	"github.com/smartsupply/supply-core/internal/domain"
	"github.com/smartsupply/supply-core/pkg/logging"
)

// CatalogApplicationService handles product catalog use cases
type CatalogApplicationService struct {
	catalog *domain.Catalog
	logger  *logging.Logger
}

// NewCatalogApplicationService creates a new CatalogApplicationService
func NewCatalogApplicationService(catalog *domain.Catalog, logger *logging.Logger) *CatalogApplicationService {
	return &CatalogApplicationService{
		catalog: catalog,
		logger:  logger.WithComponent("catalog"),
	}
}

// Catalog exposes the underlying product lookup for collaborating services
func (s *CatalogApplicationService) Catalog() *domain.Catalog {
	return s.catalog
}

// CreateProduct registers a new product
func (s *CatalogApplicationService) CreateProduct(cmd CreateProductCommand) (*ProductDTO, error) {
	price, err := domain.NewMoney(cmd.PriceCents, currencyOrDefault(cmd.Currency))
	if err != nil {
		return nil, domain.NewValidationError("price", err.Error())
	}

	cfg := &domain.ProductConfig{
		Description: cmd.Description,
		Category:    cmd.Category,
		SupplierID:  cmd.SupplierID,
	}

	p, err := s.catalog.Create(cmd.ProductID, cmd.Name, price, cfg)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product created", "productId", p.ID, "price", p.UnitPrice.String())
	return ToProductDTO(p), nil
}

// GetProduct resolves a product by id
func (s *CatalogApplicationService) GetProduct(productID string) (*ProductDTO, error) {
	p, err := s.catalog.Get(productID)
	if err != nil {
		return nil, err
	}
	return ToProductDTO(p), nil
}

// UpdatePrice changes a product's unit price. Totals of non-finalized orders
// referencing the product recompute lazily on their next read.
func (s *CatalogApplicationService) UpdatePrice(cmd UpdatePriceCommand) error {
	price, err := domain.NewMoney(cmd.PriceCents, currencyOrDefault(cmd.Currency))
	if err != nil {
		return domain.NewValidationError("price", err.Error())
	}

	if err := s.catalog.UpdatePrice(cmd.ProductID, price); err != nil {
		return err
	}

	s.logger.Info("Product price updated", "productId", cmd.ProductID, "price", price.String())
	return nil
}

// DeactivateProduct marks a product inactive without touching existing
// ledgers or orders
func (s *CatalogApplicationService) DeactivateProduct(productID string) error {
	if err := s.catalog.Deactivate(productID); err != nil {
		return err
	}

	s.logger.Info("Product deactivated", "productId", productID)
	return nil
}

// ListProducts returns all products
func (s *CatalogApplicationService) ListProducts() []*ProductDTO {
	return toProductDTOs(s.catalog.List())
}

// ProductsByCategory returns all products in a category
func (s *CatalogApplicationService) ProductsByCategory(category string) []*ProductDTO {
	return toProductDTOs(s.catalog.ByCategory(category))
}

// ProductsBySupplier returns all products sourced from a supplier
func (s *CatalogApplicationService) ProductsBySupplier(supplierID string) []*ProductDTO {
	return toProductDTOs(s.catalog.BySupplier(supplierID))
}

func toProductDTOs(products []*domain.Product) []*ProductDTO {
	out := make([]*ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductDTO(p))
	}
	return out
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return domain.DefaultCurrency
	}
	return currency
}
