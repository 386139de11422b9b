package session

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/apo1397/shopify-integration/internal/domain"
)

// Session is the per-operator state: which shop the session is bound to,
// the pending OAuth state token and the cart. One operator drives one
// session, but gin serves requests concurrently so access is locked.
type Session struct {
	ID string

	mu         sync.Mutex
	shopDomain string
	oauthState string
	cart       map[string]domain.CartLine
	expiresAt  time.Time
}

// SetOAuthState stores a fresh state token, replacing any pending one.
func (s *Session) SetOAuthState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.oauthState = state
}

// TakeOAuthState returns the pending state token and removes it. The
// token is single-use: a second call returns "" even if the first check
// failed, which prevents replaying a callback.
func (s *Session) TakeOAuthState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.oauthState
	s.oauthState = ""
	return state
}

// BindShop associates the session with a connected shop domain.
func (s *Session) BindShop(shopDomain string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shopDomain = shopDomain
}

// ShopDomain returns the shop this session is bound to, or "".
func (s *Session) ShopDomain() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shopDomain
}

// AddCartLine adds a line to the cart. Adding a variant already present
// accumulates its quantity; the stored titles and price are kept from the
// first add.
func (s *Session) AddCartLine(line domain.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cart[line.VariantID]; ok {
		existing.Quantity += line.Quantity
		s.cart[line.VariantID] = existing
		return
	}
	s.cart[line.VariantID] = line
}

// RemoveCartLine deletes the line for variantID. Removing an absent
// variant is a no-op.
func (s *Session) RemoveCartLine(variantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cart, variantID)
}

// CartLines returns the cart as a slice ordered by variant id for stable
// rendering.
func (s *Session) CartLines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]domain.CartLine, 0, len(s.cart))
	for _, line := range s.cart {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].VariantID < lines[j].VariantID })
	return lines
}

// CartSize returns the number of distinct cart lines.
func (s *Session) CartSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cart)
}

// ClearCart empties the cart, called after a successful order.
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = make(map[string]domain.CartLine)
}

// Manager hands out cookie-bound in-memory sessions. Nothing is persisted;
// a restart logs every operator out.
type Manager struct {
	cookieName string
	ttl        time.Duration
	logger     *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(cookieName string, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		cookieName: cookieName,
		ttl:        ttl,
		logger:     logger,
		sessions:   make(map[string]*Session),
	}
}

// Ensure returns the session for the request's cookie, creating a new one
// (and setting the cookie) when the cookie is absent, unknown or expired.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) *Session {
	if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		if sess := m.lookup(cookie.Value); sess != nil {
			return sess
		}
	}

	sess := &Session{
		ID:        uuid.NewString(),
		cart:      make(map[string]domain.CartLine),
		expiresAt: time.Now().Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.prune()
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})

	m.logger.Debug("Created session", zap.String("session_id", sess.ID))
	return sess
}

func (m *Manager) lookup(id string) *Session {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	sess.mu.Lock()
	expired := time.Now().After(sess.expiresAt)
	if !expired {
		sess.expiresAt = time.Now().Add(m.ttl)
	}
	sess.mu.Unlock()

	if expired {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil
	}
	return sess
}

// prune drops expired sessions. Caller holds m.mu.
func (m *Manager) prune() {
	now := time.Now()
	for id, sess := range m.sessions {
		sess.mu.Lock()
		expired := now.After(sess.expiresAt)
		sess.mu.Unlock()
		if expired {
			delete(m.sessions, id)
		}
	}
}
