package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/apo1397/shopify-integration/internal/api/middleware"
	"github.com/apo1397/shopify-integration/internal/domain"
	"github.com/apo1397/shopify-integration/internal/service"
	apperrors "github.com/apo1397/shopify-integration/pkg/errors"
)

// HandlePlaceOrder runs the two-phase draft order protocol with the
// session cart and the shipping form. On success the operator is sent to
// the order-status page for the new order.
func HandlePlaceOrder(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := middleware.GetStoreSession(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, "/connect")
			return
		}
		sess, _ := middleware.GetSession(c)

		shipping := domain.ShippingAddress{
			FirstName:   c.PostForm("firstName"),
			LastName:    c.PostForm("lastName"),
			Address1:    c.PostForm("address1"),
			Address2:    c.PostForm("address2"),
			City:        c.PostForm("city"),
			Province:    c.PostForm("province"),
			CountryCode: c.PostForm("country"),
			Zip:         c.PostForm("zip"),
			Phone:       c.PostForm("phone"),
		}

		var tags []string
		for _, tag := range strings.Split(c.PostForm("tags"), ",") {
			if t := strings.TrimSpace(tag); t != "" {
				tags = append(tags, t)
			}
		}

		result, err := orders.PlaceOrder(c.Request.Context(), store, sess, shipping, c.PostForm("email"), tags)
		if err != nil {
			respondOrderError(c, logger, err)
			return
		}

		numericID, idErr := service.NumericOrderID(result.OrderID)
		if idErr != nil {
			logger.Error("Order placed but GID was malformed", zap.String("order_id", result.OrderID), zap.Error(idErr))
			c.JSON(http.StatusOK, gin.H{"order_id": result.OrderID, "order_name": result.OrderName})
			return
		}
		c.Redirect(http.StatusSeeOther, "/orders/"+numericID)
	}
}

func respondOrderError(c *gin.Context, logger *zap.Logger, err error) {
	var validationErr *apperrors.ErrValidation
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          "validation failed",
			"missing_fields": validationErr.MissingFields,
		})
		return
	}

	var draftErr *apperrors.DraftCreationError
	if errors.As(err, &draftErr) {
		logger.Error("Draft order creation failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        "error creating draft order",
			"field_errors": draftErr.FieldErrors,
		})
		return
	}

	var completionErr *apperrors.CompletionError
	if errors.As(err, &completionErr) {
		logger.Error("Draft order completion failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        "error completing order from draft",
			"field_errors": completionErr.FieldErrors,
		})
		return
	}

	// Transport-level failure: terminal for this attempt, the operator
	// retries from scratch.
	logger.Error("Order placement failed", zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": "order placement failed, please retry"})
}

// HandleOrderStatus looks up a placed order by its numeric id.
func HandleOrderStatus(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := middleware.GetStoreSession(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, "/connect")
			return
		}

		detail, err := orders.GetOrder(c.Request.Context(), store, c.Param("id"))
		if err != nil {
			logger.Error("Order status lookup failed", zap.String("order_id", c.Param("id")), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "order lookup failed"})
			return
		}
		if detail == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found", "order_id": c.Param("id")})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"shop":  store.ShopDomain,
			"order": detail,
		})
	}
}
