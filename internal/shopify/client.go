package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/apo1397/shopify-integration/internal/config"
	"github.com/apo1397/shopify-integration/internal/domain"
	apperrors "github.com/apo1397/shopify-integration/pkg/errors"
)

// Client issues GraphQL requests against the Shopify Admin API. The store
// to talk to is chosen per call via the StoreSession, so one client serves
// every connected shop.
type Client struct {
	apiVersion string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient replaces the default 30s-timeout HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Shopify GraphQL client
func NewClient(cfg config.ShopifyConfig, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GraphQLRequest represents a GraphQL request
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL response. Errors carries the
// top-level errors array when present; callers must inspect it, the
// transport does not escalate it to a failure.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// NormalizeShopDomain strips scheme and trailing slashes from a shop
// domain so it can be embedded in endpoint URLs.
func NormalizeShopDomain(shopDomain string) string {
	shopDomain = strings.TrimSpace(shopDomain)
	shopDomain = strings.TrimPrefix(shopDomain, "https://")
	shopDomain = strings.TrimPrefix(shopDomain, "http://")
	return strings.TrimSuffix(shopDomain, "/")
}

// Execute executes a single GraphQL query/mutation against the session's
// store. One attempt per call; failures propagate to the caller with no
// retry. The access token is attached as a header and never logged.
func (c *Client) Execute(ctx context.Context, sess domain.StoreSession, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	url := fmt.Sprintf("https://%s/admin/api/%s/graphql.json", NormalizeShopDomain(sess.ShopDomain), c.apiVersion)

	reqBody := GraphQLRequest{
		Query:     query,
		Variables: variables,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	c.logger.Info("Executing Shopify GraphQL request",
		zap.String("shop", sess.ShopDomain),
		zap.String("query", queryPrefix(query)),
		zap.Bool("has_variables", len(variables) > 0),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", sess.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperrors.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.HTTPError{Status: resp.StatusCode, Body: string(body)}
	}

	var graphQLResp GraphQLResponse
	if err := json.Unmarshal(body, &graphQLResp); err != nil {
		return nil, &apperrors.DecodeError{Err: err, Body: string(body)}
	}

	// GraphQL-level errors are a soft condition: log and hand the response
	// back so the caller can inspect Errors alongside whatever partial
	// data came through.
	if len(graphQLResp.Errors) > 0 {
		messages := make([]string, len(graphQLResp.Errors))
		for i, gqlErr := range graphQLResp.Errors {
			messages[i] = gqlErr.Message
		}
		c.logger.Warn("Shopify GraphQL response contains errors",
			zap.String("shop", sess.ShopDomain),
			zap.Strings("errors", messages),
		)
	}

	return &graphQLResp, nil
}

func queryPrefix(query string) string {
	q := strings.Join(strings.Fields(query), " ")
	if len(q) > 50 {
		return q[:50] + "..."
	}
	return q
}
