package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/apo1397/shopify-integration/internal/config"
	"github.com/apo1397/shopify-integration/internal/domain"
	apperrors "github.com/apo1397/shopify-integration/pkg/errors"
)

func testClient(srv *httptest.Server) (*Client, domain.StoreSession) {
	client := NewClient(
		config.ShopifyConfig{APIVersion: "2025-04"},
		zap.NewNop(),
		WithHTTPClient(srv.Client()),
	)
	sess := domain.StoreSession{
		ShopDomain:  strings.TrimPrefix(srv.URL, "https://"),
		AccessToken: "test-token",
	}
	return client, sess
}

func TestExecute_SendsTokenHeaderAndVersionedURL(t *testing.T) {
	var gotPath, gotToken string
	var gotBody GraphQLRequest
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"ok":true}}`))
	}))
	defer srv.Close()

	client, sess := testClient(srv)
	resp, err := client.Execute(context.Background(), sess, `query { ok }`, map[string]interface{}{"x": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil || resp.Data == nil {
		t.Fatal("expected a response with data")
	}
	if gotPath != "/admin/api/2025-04/graphql.json" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotToken != "test-token" {
		t.Errorf("expected access token header, got %q", gotToken)
	}
	if gotBody.Query == "" || gotBody.Variables["x"] == nil {
		t.Errorf("expected query and variables in body, got %+v", gotBody)
	}
}

func TestExecute_NonOKStatusIsHTTPError(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("throttled"))
	}))
	defer srv.Close()

	client, sess := testClient(srv)
	_, err := client.Execute(context.Background(), sess, `query { ok }`, nil)

	var httpErr *apperrors.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %T: %v", err, err)
	}
	if httpErr.Status != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", httpErr.Status)
	}
	if httpErr.Body != "throttled" {
		t.Errorf("expected body preserved, got %q", httpErr.Body)
	}
}

func TestExecute_MalformedJSONIsDecodeError(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client, sess := testClient(srv)
	_, err := client.Execute(context.Background(), sess, `query { ok }`, nil)

	var decodeErr *apperrors.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %T: %v", err, err)
	}
}

func TestExecute_ConnectionFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client, sess := testClient(srv)
	srv.Close()

	_, err := client.Execute(context.Background(), sess, `query { ok }`, nil)

	var netErr *apperrors.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %T: %v", err, err)
	}
}

func TestExecute_GraphQLErrorsAreReturnedNotEscalated(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"Field 'bogus' doesn't exist"}]}`))
	}))
	defer srv.Close()

	client, sess := testClient(srv)
	resp, err := client.Execute(context.Background(), sess, `query { bogus }`, nil)
	if err != nil {
		t.Fatalf("graphQL-level errors must not become transport errors, got: %v", err)
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("expected 1 graphQL error on the response, got %d", len(resp.Errors))
	}
	if resp.Errors[0].Message != "Field 'bogus' doesn't exist" {
		t.Errorf("unexpected message %q", resp.Errors[0].Message)
	}
}

func TestNormalizeShopDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"mystore.myshopify.com", "mystore.myshopify.com"},
		{"https://mystore.myshopify.com", "mystore.myshopify.com"},
		{"http://mystore.myshopify.com/", "mystore.myshopify.com"},
		{"  mystore.myshopify.com ", "mystore.myshopify.com"},
	}
	for _, tt := range tests {
		if got := NormalizeShopDomain(tt.in); got != tt.want {
			t.Errorf("NormalizeShopDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
