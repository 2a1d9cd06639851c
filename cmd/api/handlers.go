package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartsupply/supply-core/internal/application"
	"github.com/smartsupply/supply-core/internal/domain"
	apperrors "github.com/smartsupply/supply-core/pkg/errors"
	"github.com/smartsupply/supply-core/pkg/logging"
	"github.com/smartsupply/supply-core/pkg/middleware"
)

// mapError converts domain errors into AppErrors with the right HTTP status
func mapError(err error) *apperrors.AppError {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return apperrors.ErrValidation(validationErr.Error()).
			WithDetail("field", validationErr.Field)
	}

	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return apperrors.ErrInsufficientStock(stockErr.Error()).WithDetails(map[string]string{
			"locationId": stockErr.LocationID,
			"productId":  stockErr.ProductID,
		})
	}

	var transitionErr *domain.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return apperrors.ErrInvalidTransition(transitionErr.Error()).WithDetails(map[string]string{
			"from": string(transitionErr.From),
			"to":   string(transitionErr.To),
		})
	}

	var stateErr *domain.InvalidStateError
	if errors.As(err, &stateErr) {
		return apperrors.ErrInvalidState(stateErr.Error()).
			WithDetail("status", string(stateErr.Status))
	}

	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return apperrors.ErrNotFound("product")
	case errors.Is(err, domain.ErrOrderNotFound):
		return apperrors.ErrNotFound("order")
	case errors.Is(err, domain.ErrLedgerNotFound):
		return apperrors.ErrNotFound("location")
	case errors.Is(err, domain.ErrProductAlreadyExists):
		return apperrors.ErrConflict(err.Error())
	case errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrNegativeMoney):
		return apperrors.ErrValidation(err.Error())
	default:
		return apperrors.ErrInternal("").Wrap(err)
	}
}

func respondError(c *gin.Context, logger *logging.Logger, err error) {
	middleware.NewErrorResponder(c, logger.Logger).RespondWithAppError(mapError(err))
}

func createProductHandler(service *application.CatalogApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID          string `json:"id" binding:"required"`
			Name        string `json:"name" binding:"required"`
			PriceCents  int64  `json:"priceCents" binding:"required"`
			Currency    string `json:"currency"`
			Description string `json:"description"`
			Category    string `json:"category"`
			SupplierID  string `json:"supplierId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		product, err := service.CreateProduct(application.CreateProductCommand{
			ProductID:   req.ID,
			Name:        req.Name,
			PriceCents:  req.PriceCents,
			Currency:    req.Currency,
			Description: req.Description,
			Category:    req.Category,
			SupplierID:  req.SupplierID,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}

func listProductsHandler(service *application.CatalogApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if category := c.Query("category"); category != "" {
			c.JSON(http.StatusOK, service.ProductsByCategory(category))
			return
		}
		if supplier := c.Query("supplierId"); supplier != "" {
			c.JSON(http.StatusOK, service.ProductsBySupplier(supplier))
			return
		}
		c.JSON(http.StatusOK, service.ListProducts())
	}
}

func getProductHandler(service *application.CatalogApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := service.GetProduct(c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func updatePriceHandler(service *application.CatalogApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PriceCents int64  `json:"priceCents" binding:"required"`
			Currency   string `json:"currency"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := service.UpdatePrice(application.UpdatePriceCommand{
			ProductID:  c.Param("id"),
			PriceCents: req.PriceCents,
			Currency:   req.Currency,
		}); err != nil {
			respondError(c, logger, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func deactivateProductHandler(service *application.CatalogApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeactivateProduct(c.Param("id")); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func ledgerSnapshotHandler(service *application.InventoryApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		snapshot, err := service.Snapshot(c.Param("locationId"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, snapshot)
	}
}

func ledgerValueHandler(service *application.InventoryApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := service.Value(c.Param("locationId"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, value)
	}
}

func lowStockHandler(service *application.InventoryApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := service.LowStockReport(c.Param("locationId"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func receiveStockHandler(service *application.InventoryApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID    string `json:"productId" binding:"required"`
			Quantity     int    `json:"quantity" binding:"required"`
			LocationType string `json:"locationType"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		level, err := service.ReceiveStock(c.Request.Context(), application.ReceiveStockCommand{
			LocationID:   c.Param("locationId"),
			LocationType: req.LocationType,
			ProductID:    req.ProductID,
			Quantity:     req.Quantity,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, level)
	}
}

func removeStockHandler(service *application.InventoryApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID string `json:"productId" binding:"required"`
			Quantity  int    `json:"quantity" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		level, err := service.RemoveStock(c.Request.Context(), application.RemoveStockCommand{
			LocationID: c.Param("locationId"),
			ProductID:  req.ProductID,
			Quantity:   req.Quantity,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, level)
	}
}

func reserveStockHandler(service *application.InventoryApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID string `json:"productId" binding:"required"`
			Quantity  int    `json:"quantity" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		level, err := service.ReserveStock(c.Request.Context(), application.ReserveStockCommand{
			LocationID: c.Param("locationId"),
			ProductID:  req.ProductID,
			Quantity:   req.Quantity,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, level)
	}
}

func releaseStockHandler(service *application.InventoryApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID string `json:"productId" binding:"required"`
			Quantity  int    `json:"quantity" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		level, err := service.ReleaseStock(c.Request.Context(), application.ReleaseStockCommand{
			LocationID: c.Param("locationId"),
			ProductID:  req.ProductID,
			Quantity:   req.Quantity,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, level)
	}
}

func setThresholdHandler(service *application.InventoryApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID string `json:"productId" binding:"required"`
			Threshold int    `json:"threshold"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := service.SetThreshold(application.SetThresholdCommand{
			LocationID: c.Param("locationId"),
			ProductID:  req.ProductID,
			Threshold:  req.Threshold,
		}); err != nil {
			respondError(c, logger, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func setRecommendedHandler(service *application.InventoryApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID string `json:"productId" binding:"required"`
			Level     int    `json:"level"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := service.SetRecommendedStock(application.SetRecommendedStockCommand{
			LocationID: c.Param("locationId"),
			ProductID:  req.ProductID,
			Level:      req.Level,
		}); err != nil {
			respondError(c, logger, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func placeOrderHandler(coordinator *application.FulfillmentCoordinator, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Items []struct {
				ProductID string `json:"productId" binding:"required"`
				Quantity  int    `json:"quantity" binding:"required"`
			} `json:"items" binding:"required"`
			PlacedByPartyID      string `json:"placedByPartyId" binding:"required"`
			FulfillingPartyID    string `json:"fulfillingPartyId"`
			FulfillingLocationID string `json:"fulfillingLocationId"`
			ReceivingLocationID  string `json:"receivingLocationId"`
			ShippingAddress      string `json:"shippingAddress"`
			Notes                string `json:"notes"`
			Priority             int    `json:"priority"`
			Urgent               bool   `json:"urgent"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		cmd := application.PlaceOrderCommand{
			PlacedByPartyID:      req.PlacedByPartyID,
			FulfillingPartyID:    req.FulfillingPartyID,
			FulfillingLocationID: req.FulfillingLocationID,
			ReceivingLocationID:  req.ReceivingLocationID,
			ShippingAddress:      req.ShippingAddress,
			Notes:                req.Notes,
			Priority:             req.Priority,
			Urgent:               req.Urgent,
		}
		for _, item := range req.Items {
			cmd.Items = append(cmd.Items, application.OrderItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		order, err := coordinator.PlaceOrder(c.Request.Context(), cmd)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, order)
	}
}

func listOrdersHandler(coordinator *application.FulfillmentCoordinator, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := coordinator.ListOrders(c.Request.Context(), c.Query("status"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func getOrderHandler(coordinator *application.FulfillmentCoordinator, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := coordinator.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func transitionOrderHandler(coordinator *application.FulfillmentCoordinator, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Target string `json:"target" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := coordinator.Transition(c.Request.Context(), application.TransitionOrderCommand{
			OrderID: c.Param("id"),
			Target:  req.Target,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

func addOrderItemHandler(coordinator *application.FulfillmentCoordinator, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID string `json:"productId" binding:"required"`
			Quantity  int    `json:"quantity" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := coordinator.AddOrderItem(c.Request.Context(), application.UpdateOrderItemCommand{
			OrderID:   c.Param("id"),
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

func updateOrderItemHandler(coordinator *application.FulfillmentCoordinator, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Quantity int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := coordinator.UpdateOrderItem(c.Request.Context(), application.UpdateOrderItemCommand{
			OrderID:   c.Param("id"),
			ProductID: c.Param("productId"),
			Quantity:  req.Quantity,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

func removeOrderItemHandler(coordinator *application.FulfillmentCoordinator, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := coordinator.RemoveOrderItem(c.Request.Context(), c.Param("id"), c.Param("productId"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func markPaidHandler(coordinator *application.FulfillmentCoordinator, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := coordinator.MarkPaid(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func invoiceHandler(coordinator *application.FulfillmentCoordinator, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		invoice, err := coordinator.Invoice(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, invoice)
	}
}

func saveSnapshotHandler(service *application.SnapshotService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.Save(c.Request.Context()); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusAccepted)
	}
}
