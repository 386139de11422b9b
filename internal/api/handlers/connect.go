package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/apo1397/shopify-integration/internal/api/middleware"
	"github.com/apo1397/shopify-integration/internal/auth"
	apperrors "github.com/apo1397/shopify-integration/pkg/errors"
)

// HandleRoot always routes to the connect page so every visit starts a
// fresh flow.
func HandleRoot() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/connect")
	}
}

// HandleConnect returns the render context for the store-connect page.
func HandleConnect() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": "connect"})
	}
}

// HandleInstall starts the OAuth flow: it normalizes the shop input,
// stashes a state token in the session and redirects to Shopify's
// authorize endpoint.
func HandleInstall(authSvc *auth.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := middleware.GetSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		shop := c.PostForm("shop")
		authURL, err := authSvc.InitiateInstall(sess, shop)
		if err != nil {
			logger.Error("Install initiation failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing shop parameter"})
			return
		}

		c.Redirect(http.StatusSeeOther, authURL)
	}
}

// HandleOAuthCallback finishes the OAuth flow: state check, code
// exchange, then on to the product search page.
func HandleOAuthCallback(authSvc *auth.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := middleware.GetSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		_, err := authSvc.CompleteCallback(
			c.Request.Context(),
			sess,
			c.Query("state"),
			c.Query("shop"),
			c.Query("code"),
		)
		if err != nil {
			var authErr *apperrors.AuthError
			if errors.As(err, &authErr) {
				switch authErr.Reason {
				case apperrors.AuthStateMismatch:
					c.JSON(http.StatusForbidden, gin.H{"error": "invalid state parameter"})
				case apperrors.AuthMissingParams:
					c.JSON(http.StatusBadRequest, gin.H{"error": "missing shop or code parameter"})
				default:
					c.JSON(http.StatusBadGateway, gin.H{"error": "token exchange failed"})
				}
				return
			}
			logger.Error("OAuth callback failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Redirect(http.StatusSeeOther, "/products")
	}
}
