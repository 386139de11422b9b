package auth

import "sync"

// CredentialStore is the single authoritative mapping from shop domain to
// access token. Sessions hold only the shop domain and resolve the token
// here per request, so there is exactly one copy of each credential.
type CredentialStore interface {
	Set(shopDomain, accessToken string)
	Get(shopDomain string) (string, bool)
	Delete(shopDomain string)
}

// MemoryCredentialStore keeps tokens in process memory. Good for a
// single-tenant/dev deployment; a production deployment swaps in a
// durable implementation behind the same interface.
type MemoryCredentialStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{tokens: make(map[string]string)}
}

func (s *MemoryCredentialStore) Set(shopDomain, accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[shopDomain] = accessToken
}

func (s *MemoryCredentialStore) Get(shopDomain string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[shopDomain]
	return token, ok
}

func (s *MemoryCredentialStore) Delete(shopDomain string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, shopDomain)
}
