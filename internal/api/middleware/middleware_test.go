package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/apo1397/shopify-integration/internal/auth"
	"github.com/apo1397/shopify-integration/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionRouter(mgr *session.Manager, creds auth.CredentialStore) *gin.Engine {
	r := gin.New()
	r.Use(SessionMiddleware(mgr))
	r.GET("/open", func(c *gin.Context) {
		if _, ok := GetSession(c); !ok {
			c.String(http.StatusInternalServerError, "no session")
			return
		}
		c.String(http.StatusOK, "ok")
	})
	guarded := r.Group("/", RequireStore(creds, zap.NewNop()))
	guarded.GET("/store", func(c *gin.Context) {
		store, ok := GetStoreSession(c)
		if !ok {
			c.String(http.StatusInternalServerError, "no store")
			return
		}
		c.String(http.StatusOK, store.ShopDomain)
	})
	return r
}

func TestSessionMiddleware_AttachesSessionAndCookie(t *testing.T) {
	mgr := session.NewManager("app_session", 30*time.Minute, zap.NewNop())
	r := sessionRouter(mgr, auth.NewMemoryCredentialStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "app_session" || cookies[0].Value == "" {
		t.Errorf("expected a session cookie, got %v", cookies)
	}
}

func TestRequireStore_RedirectsWithoutConnectedStore(t *testing.T) {
	mgr := session.NewManager("app_session", 30*time.Minute, zap.NewNop())
	r := sessionRouter(mgr, auth.NewMemoryCredentialStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/store", nil))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/connect" {
		t.Errorf("expected redirect to /connect, got %q", loc)
	}
}

func TestRequireStore_ResolvesTokenForBoundSession(t *testing.T) {
	mgr := session.NewManager("app_session", 30*time.Minute, zap.NewNop())
	creds := auth.NewMemoryCredentialStore()
	creds.Set("mystore.myshopify.com", "shpat_token")
	r := sessionRouter(mgr, creds)

	// First request establishes the session cookie.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	cookie := w.Result().Cookies()[0]

	// Bind the session to the connected shop, as the OAuth callback does.
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(cookie)
	sess := mgr.Ensure(httptest.NewRecorder(), req)
	sess.BindShop("mystore.myshopify.com")

	req = httptest.NewRequest(http.MethodGet, "/store", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "mystore.myshopify.com" {
		t.Errorf("unexpected store session shop %q", w.Body.String())
	}
}

func TestRequireStore_RedirectsWhenTokenMissing(t *testing.T) {
	mgr := session.NewManager("app_session", 30*time.Minute, zap.NewNop())
	r := sessionRouter(mgr, auth.NewMemoryCredentialStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	cookie := w.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(cookie)
	sess := mgr.Ensure(httptest.NewRecorder(), req)
	sess.BindShop("unconnected.myshopify.com")

	req = httptest.NewRequest(http.MethodGet, "/store", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 when no token is stored, got %d", w.Code)
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2, zap.NewNop())
	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/install", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/install", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("burst requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %v", codes)
	}
}

func TestRateLimiter_TracksClientsSeparately(t *testing.T) {
	rl := NewRateLimiter(1, 1, zap.NewNop())
	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/install", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(addr string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/install", nil)
		req.RemoteAddr = addr
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := send("203.0.113.1:1"); code != http.StatusOK {
		t.Fatalf("first client first request: got %d", code)
	}
	if code := send("203.0.113.1:1"); code != http.StatusTooManyRequests {
		t.Errorf("first client second request: expected 429, got %d", code)
	}
	if code := send("203.0.113.2:1"); code != http.StatusOK {
		t.Errorf("second client must have its own budget, got %d", code)
	}
}
