package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/apo1397/shopify-integration/internal/api/middleware"
	"github.com/apo1397/shopify-integration/internal/domain"
)

// HandleCartAdd adds a variant to the session cart. Adding the same
// variant again accumulates its quantity.
func HandleCartAdd(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := middleware.GetSession(c)

		variantID := c.PostForm("variant_id")
		if variantID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "variant_id is required"})
			return
		}

		quantity := 1
		if raw := c.PostForm("quantity"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be a positive integer"})
				return
			}
			quantity = n
		}

		sess.AddCartLine(domain.CartLine{
			VariantID:    variantID,
			ProductTitle: c.DefaultPostForm("product_title", "Unknown Product"),
			VariantTitle: c.PostForm("variant_title"),
			UnitPrice:    c.DefaultPostForm("price", "0.00"),
			Quantity:     quantity,
		})
		logger.Info("Added to cart",
			zap.String("variant_id", variantID),
			zap.Int("quantity", quantity),
		)

		c.JSON(http.StatusOK, cartContext(sess.CartLines()))
	}
}

// HandleCartRemove removes a variant from the cart. Removing an absent
// variant is a no-op.
func HandleCartRemove(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := middleware.GetSession(c)

		variantID := c.Param("variantId")
		sess.RemoveCartLine(variantID)
		logger.Info("Removed from cart", zap.String("variant_id", variantID))

		c.JSON(http.StatusOK, cartContext(sess.CartLines()))
	}
}

// HandleCartView returns the current cart.
func HandleCartView() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := middleware.GetSession(c)
		c.JSON(http.StatusOK, cartContext(sess.CartLines()))
	}
}

func cartContext(lines []domain.CartLine) gin.H {
	total := 0.0
	for _, line := range lines {
		if price, err := strconv.ParseFloat(line.UnitPrice, 64); err == nil {
			total += price * float64(line.Quantity)
		}
	}
	return gin.H{
		"cart_items":       lines,
		"total_cart_value": total,
	}
}
