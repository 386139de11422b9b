package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/apo1397/shopify-integration/internal/api/middleware"
	"github.com/apo1397/shopify-integration/internal/domain"
	"github.com/apo1397/shopify-integration/internal/service"
)

// HandleProductSearch searches the connected store's products. The term
// comes from the form (POST) or query string (GET pagination links); the
// cursor pages forward from a prior result.
func HandleProductSearch(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := middleware.GetStoreSession(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, "/connect")
			return
		}
		sess, _ := middleware.GetSession(c)

		term := c.PostForm("search_query")
		if term == "" {
			term = c.Query("search_query")
		}

		pageSize := service.DefaultProductPageSize
		if raw := c.Query("page_size"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				pageSize = n
			}
		}
		var cursor *string
		if raw := c.Query("cursor"); raw != "" {
			cursor = &raw
		}

		result := service.ProductSearchResult{Records: []domain.ProductRecord{}}
		if term != "" {
			result = catalog.SearchProducts(c.Request.Context(), store, term, pageSize, cursor)
		}

		c.JSON(http.StatusOK, gin.H{
			"shop":        store.ShopDomain,
			"search_term": term,
			"products":    result.Records,
			"page_info":   result.PageInfo,
			"cart_items":  sess.CartLines(),
		})
	}
}

// HandleCustomerSearch searches customers by name, first 10 matches.
func HandleCustomerSearch(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := middleware.GetStoreSession(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, "/connect")
			return
		}

		term := c.PostForm("customer_search_query")
		if term == "" {
			c.JSON(http.StatusOK, gin.H{
				"shop":        store.ShopDomain,
				"search_term": "",
				"customers":   []domain.CustomerRecord{},
			})
			return
		}

		customers := catalog.SearchCustomers(c.Request.Context(), store, term)
		c.JSON(http.StatusOK, gin.H{
			"shop":        store.ShopDomain,
			"search_term": term,
			"customers":   customers,
		})
	}
}
