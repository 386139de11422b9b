package auth

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/apo1397/shopify-integration/internal/config"
	"github.com/apo1397/shopify-integration/internal/domain"
	"github.com/apo1397/shopify-integration/internal/session"
	"github.com/apo1397/shopify-integration/internal/shopify"
	apperrors "github.com/apo1397/shopify-integration/pkg/errors"
)

// PlatformSuffix is appended to bare shop names on install.
const PlatformSuffix = ".myshopify.com"

// Service runs the OAuth handshake: install redirect out, callback with
// state check and code exchange back.
type Service struct {
	cfg         config.ShopifyConfig
	redirectURI string
	creds       CredentialStore
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewService(cfg config.ShopifyConfig, appBaseURL string, creds CredentialStore, logger *zap.Logger) *Service {
	return &Service{
		cfg:         cfg,
		redirectURI: appBaseURL + "/oauth/callback",
		creds:       creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// NormalizeShopInput turns operator input ("mystore", "mystore.myshopify.com",
// "https://mystore.myshopify.com/") into a fully-qualified shop domain.
func NormalizeShopInput(shopInput string) string {
	shop := shopify.NormalizeShopDomain(shopInput)
	if shop == "" {
		return ""
	}
	if !strings.HasSuffix(shop, PlatformSuffix) {
		shop += PlatformSuffix
	}
	return shop
}

// InitiateInstall generates a fresh single-use state token, stores it on
// the session and returns the Shopify authorization URL to redirect to.
func (s *Service) InitiateInstall(sess *session.Session, shopInput string) (string, error) {
	shop := NormalizeShopInput(shopInput)
	if shop == PlatformSuffix || shop == "" {
		return "", &apperrors.AuthError{Reason: apperrors.AuthMissingParams, Message: "shop is required"}
	}

	state, err := newStateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}
	sess.SetOAuthState(state)

	params := url.Values{}
	params.Set("client_id", s.cfg.ClientID)
	params.Set("scope", s.cfg.Scopes)
	params.Set("redirect_uri", s.redirectURI)
	params.Set("state", state)

	authURL := fmt.Sprintf("https://%s/admin/oauth/authorize?%s", shop, params.Encode())
	s.logger.Info("Initiating store install", zap.String("shop", shop))
	return authURL, nil
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// CompleteCallback validates the OAuth state and exchanges the
// authorization code for an access token. The pending state is consumed
// on the check regardless of outcome, so a callback cannot be replayed.
// On success the token is written to the credential store and the session
// is bound to the shop.
func (s *Service) CompleteCallback(ctx context.Context, sess *session.Session, returnedState, shopDomain, code string) (*domain.StoreSession, error) {
	pending := sess.TakeOAuthState()
	if pending == "" || returnedState != pending {
		s.logger.Warn("OAuth state mismatch", zap.String("shop", shopDomain))
		return nil, &apperrors.AuthError{Reason: apperrors.AuthStateMismatch, Message: "invalid state parameter"}
	}

	shop := shopify.NormalizeShopDomain(shopDomain)
	if shop == "" || code == "" {
		return nil, &apperrors.AuthError{Reason: apperrors.AuthMissingParams, Message: "missing shop or code parameter"}
	}

	token, err := s.exchangeCode(ctx, shop, code)
	if err != nil {
		return nil, err
	}

	s.creds.Set(shop, token)
	sess.BindShop(shop)
	s.logger.Info("Store connected", zap.String("shop", shop))

	return &domain.StoreSession{ShopDomain: shop, AccessToken: token}, nil
}

func (s *Service) exchangeCode(ctx context.Context, shop, code string) (string, error) {
	payload := map[string]string{
		"client_id":     s.cfg.ClientID,
		"client_secret": s.cfg.ClientSecret,
		"code":          code,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal token request: %w", err)
	}

	tokenURL := fmt.Sprintf("https://%s/admin/oauth/access_token", shop)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &apperrors.AuthError{Reason: apperrors.AuthExchangeFailed, Message: "token exchange request failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &apperrors.AuthError{Reason: apperrors.AuthExchangeFailed, Message: "failed to read token response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Error("Token exchange returned non-2xx status",
			zap.String("shop", shop),
			zap.Int("status", resp.StatusCode),
		)
		return "", &apperrors.AuthError{
			Reason:  apperrors.AuthExchangeFailed,
			Message: fmt.Sprintf("token endpoint returned status %d", resp.StatusCode),
		}
	}

	var tokenResp accessTokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return "", &apperrors.AuthError{Reason: apperrors.AuthExchangeFailed, Message: "malformed token response", Err: err}
	}
	if tokenResp.AccessToken == "" {
		return "", &apperrors.AuthError{Reason: apperrors.AuthExchangeFailed, Message: "response contained no access token"}
	}
	return tokenResp.AccessToken, nil
}

func newStateToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
