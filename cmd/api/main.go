package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartsupply/supply-core/internal/application"
	"github.com/smartsupply/supply-core/internal/domain"
	kafkaInfra "github.com/smartsupply/supply-core/internal/infrastructure/kafka"
	"github.com/smartsupply/supply-core/internal/infrastructure/memory"
	"github.com/smartsupply/supply-core/internal/infrastructure/mongodb"
	"github.com/smartsupply/supply-core/pkg/logging"
	"github.com/smartsupply/supply-core/pkg/metrics"
	"github.com/smartsupply/supply-core/pkg/middleware"
	"github.com/smartsupply/supply-core/pkg/tracing"
)

const serviceName = "supply-core"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting supply-core API")

	config := loadConfig()
	ctx := context.Background()

	// OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getEnv("TRACING_ENABLED", "true") == "true"

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
		// Continue without tracing
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint)
	}

	// Prometheus metrics
	m := metrics.New(metrics.DefaultConfig(serviceName))
	logger.Info("Metrics initialized")

	// Event publisher: Kafka when brokers are configured, in-memory otherwise
	var publisher domain.EventPublisher
	if config.KafkaEnabled {
		kafkaPublisher := kafkaInfra.NewEventPublisher(config.Kafka, m, logger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("Kafka publisher initialized", "brokers", config.Kafka.Brokers)
	} else {
		publisher = memory.NewEventRecorder()
		logger.Info("Kafka disabled, recording events in memory")
	}

	// Snapshot store: MongoDB when configured, in-memory otherwise
	var store domain.Store
	var mongoStore *mongodb.SnapshotStore
	readiness := func() error { return nil }
	if config.MongoEnabled {
		mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
		if err != nil {
			logger.WithError(err).Error("Failed to connect to MongoDB")
			os.Exit(1)
		}
		defer mongoClient.Close(ctx)
		mongoStore = mongodb.NewSnapshotStore(mongoClient.Database(), m, logger)
		store = mongoStore
		readiness = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return mongoClient.Client().Ping(pingCtx, nil)
		}
		logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)
	} else {
		store = memory.NewSnapshotStore()
		logger.Info("MongoDB disabled, storing snapshots in memory")
	}

	// Core state
	catalog := domain.NewCatalog()
	ledgers := memory.NewLedgerRegistry()
	orders := memory.NewOrderRepository()

	// Application services
	catalogService := application.NewCatalogApplicationService(catalog, logger)
	inventoryService := application.NewInventoryApplicationService(ledgers, catalog, publisher, m, logger)
	coordinator := application.NewFulfillmentCoordinator(orders, ledgers, catalog, publisher, m, logger)
	snapshotService := application.NewSnapshotService(catalog, ledgers, orders, store, logger)

	// Restore prior state when the store has any
	if err := snapshotService.Load(ctx); err != nil {
		logger.Info("No snapshot restored", "reason", err.Error())
	}

	if config.SeedDemoData {
		seedDemoData(ctx, catalogService, inventoryService, logger)
	}

	// Router
	router := gin.New()
	middleware.Setup(router, middleware.DefaultConfig(serviceName, logger.Logger))
	router.Use(middleware.MetricsMiddleware(m))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, readiness))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	api := router.Group("/api/v1")
	{
		products := api.Group("/products")
		products.POST("", createProductHandler(catalogService, logger))
		products.GET("", listProductsHandler(catalogService, logger))
		products.GET("/:id", getProductHandler(catalogService, logger))
		products.PUT("/:id/price", updatePriceHandler(catalogService, logger))
		products.DELETE("/:id", deactivateProductHandler(catalogService, logger))

		inventory := api.Group("/inventory/:locationId")
		inventory.GET("", ledgerSnapshotHandler(inventoryService, logger))
		inventory.GET("/value", ledgerValueHandler(inventoryService, logger))
		inventory.GET("/low-stock", lowStockHandler(inventoryService, logger))
		inventory.POST("/receive", receiveStockHandler(inventoryService, logger))
		inventory.POST("/remove", removeStockHandler(inventoryService, logger))
		inventory.POST("/reserve", reserveStockHandler(inventoryService, logger))
		inventory.POST("/release", releaseStockHandler(inventoryService, logger))
		inventory.PUT("/threshold", setThresholdHandler(inventoryService, logger))
		inventory.PUT("/recommended", setRecommendedHandler(inventoryService, logger))

		ordersGroup := api.Group("/orders")
		ordersGroup.POST("", placeOrderHandler(coordinator, logger))
		ordersGroup.GET("", listOrdersHandler(coordinator, logger))
		ordersGroup.GET("/:id", getOrderHandler(coordinator, logger))
		ordersGroup.POST("/:id/transition", transitionOrderHandler(coordinator, logger))
		ordersGroup.POST("/:id/items", addOrderItemHandler(coordinator, logger))
		ordersGroup.PUT("/:id/items/:productId", updateOrderItemHandler(coordinator, logger))
		ordersGroup.DELETE("/:id/items/:productId", removeOrderItemHandler(coordinator, logger))
		ordersGroup.POST("/:id/pay", markPaidHandler(coordinator, logger))
		ordersGroup.GET("/:id/invoice", invoiceHandler(coordinator, logger))

		api.POST("/snapshots", saveSnapshotHandler(snapshotService, logger))
	}

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Persist state on the way out
	saveCtx, saveCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := snapshotService.Save(saveCtx); err != nil {
		logger.WithError(err).Warn("Failed to save shutdown snapshot")
	} else if mongoStore != nil {
		if pruned, err := mongoStore.Prune(saveCtx, config.SnapshotRetention); err != nil {
			logger.WithError(err).Warn("Failed to prune old snapshots")
		} else if pruned > 0 {
			logger.Info("Pruned old snapshots", "count", pruned)
		}
	}
	saveCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr        string
	SeedDemoData      bool
	SnapshotRetention time.Duration
	MongoEnabled      bool
	MongoDB           *mongodb.Config
	KafkaEnabled      bool
	Kafka             *kafkaInfra.Config
}

func loadConfig() *Config {
	mongoCfg := mongodb.DefaultConfig()
	mongoCfg.URI = getEnv("MONGODB_URI", mongoCfg.URI)
	mongoCfg.Database = getEnv("MONGODB_DATABASE", "smartsupply")

	kafkaCfg := kafkaInfra.DefaultConfig([]string{getEnv("KAFKA_BROKERS", "localhost:9092")})
	kafkaCfg.InventoryTopic = getEnv("KAFKA_INVENTORY_TOPIC", kafkaCfg.InventoryTopic)
	kafkaCfg.OrdersTopic = getEnv("KAFKA_ORDERS_TOPIC", kafkaCfg.OrdersTopic)

	retention := 7 * 24 * time.Hour
	if v := getEnv("SNAPSHOT_RETENTION", ""); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			retention = parsed
		}
	}

	return &Config{
		ServerAddr:        getEnv("SERVER_ADDR", ":8080"),
		SeedDemoData:      getEnv("SEED_DEMO_DATA", "false") == "true",
		SnapshotRetention: retention,
		MongoEnabled:      getEnv("MONGODB_ENABLED", "false") == "true",
		MongoDB:           mongoCfg,
		KafkaEnabled:      getEnv("KAFKA_ENABLED", "false") == "true",
		Kafka:             kafkaCfg,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
