package main

import (
	"context"

	"github.com/smartsupply/supply-core/internal/application"
	"github.com/smartsupply/supply-core/pkg/logging"
)

type seedProduct struct {
	cmd            application.CreateProductCommand
	warehouseStock int
	warehouseMin   int
	storeStock     int
	storeMin       int
}

var seedProducts = []seedProduct{
	{
		cmd: application.CreateProductCommand{
			ProductID:   "P-001",
			Name:        "High-Performance Laptop",
			PriceCents:  120000,
			Description: "15.6-inch laptop with 16GB RAM",
			Category:    "Electronics",
			SupplierID:  "supplier1",
		},
		warehouseStock: 50, warehouseMin: 10,
		storeStock: 10, storeMin: 3,
	},
	{
		cmd: application.CreateProductCommand{
			ProductID:   "P-002",
			Name:        "Smartphone X20",
			PriceCents:  80000,
			Description: "Latest smartphone model",
			Category:    "Electronics",
			SupplierID:  "supplier1",
		},
		warehouseStock: 100, warehouseMin: 20,
		storeStock: 25, storeMin: 5,
	},
	{
		cmd: application.CreateProductCommand{
			ProductID:   "P-003",
			Name:        "Tablet Pro",
			PriceCents:  60000,
			Description: "10-inch professional tablet",
			Category:    "Electronics",
			SupplierID:  "supplier1",
		},
		warehouseStock: 75, warehouseMin: 15,
		storeStock: 15, storeMin: 4,
	},
}

// seedDemoData loads a small demo catalog with stock at a warehouse and a
// store, for local development and demos
func seedDemoData(
	ctx context.Context,
	catalog *application.CatalogApplicationService,
	inventory *application.InventoryApplicationService,
	logger *logging.Logger,
) {
	for _, seed := range seedProducts {
		if _, err := catalog.CreateProduct(seed.cmd); err != nil {
			logger.WithError(err).Warn("Failed to seed product", "productId", seed.cmd.ProductID)
			continue
		}

		stock := []struct {
			locationID   string
			locationType string
			quantity     int
			threshold    int
		}{
			{"WH-001", "warehouse", seed.warehouseStock, seed.warehouseMin},
			{"ST-001", "store", seed.storeStock, seed.storeMin},
		}
		for _, s := range stock {
			_, err := inventory.ReceiveStock(ctx, application.ReceiveStockCommand{
				LocationID:   s.locationID,
				LocationType: s.locationType,
				ProductID:    seed.cmd.ProductID,
				Quantity:     s.quantity,
			})
			if err != nil {
				logger.WithError(err).Warn("Failed to seed stock",
					"productId", seed.cmd.ProductID, "location", s.locationID)
				continue
			}
			if err := inventory.SetThreshold(application.SetThresholdCommand{
				LocationID: s.locationID,
				ProductID:  seed.cmd.ProductID,
				Threshold:  s.threshold,
			}); err != nil {
				logger.WithError(err).Warn("Failed to seed threshold",
					"productId", seed.cmd.ProductID, "location", s.locationID)
			}
		}
	}

	logger.Info("Demo data seeded", "products", len(seedProducts))
}
