package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/apo1397/shopify-integration/internal/auth"
	"github.com/apo1397/shopify-integration/internal/domain"
	"github.com/apo1397/shopify-integration/internal/session"
)

const (
	sessionContextKey = "app_session"
	storeContextKey   = "store_session"
)

// SessionMiddleware attaches the operator's session to the request
// context, creating one (and its cookie) on first contact.
func SessionMiddleware(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := mgr.Ensure(c.Writer, c.Request)
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// GetSession returns the session attached by SessionMiddleware.
func GetSession(c *gin.Context) (*session.Session, bool) {
	val, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	sess, ok := val.(*session.Session)
	return sess, ok
}

// RequireStore resolves the session's shop domain to an access token via
// the credential store and injects the resulting StoreSession. Requests
// without a connected store are routed back to re-authentication.
func RequireStore(creds auth.CredentialStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, "/connect")
			c.Abort()
			return
		}

		shop := sess.ShopDomain()
		token := ""
		if shop != "" {
			token, _ = creds.Get(shop)
		}

		store := domain.StoreSession{ShopDomain: shop, AccessToken: token}
		if !store.Valid() {
			logger.Warn("No connected store for session, redirecting to connect",
				zap.String("path", c.Request.URL.Path),
			)
			c.Redirect(http.StatusSeeOther, "/connect")
			c.Abort()
			return
		}

		c.Set(storeContextKey, store)
		c.Next()
	}
}

// GetStoreSession returns the StoreSession attached by RequireStore.
func GetStoreSession(c *gin.Context) (domain.StoreSession, bool) {
	val, ok := c.Get(storeContextKey)
	if !ok {
		return domain.StoreSession{}, false
	}
	store, ok := val.(domain.StoreSession)
	return store, ok
}
