package errors

import (
	"fmt"
	"strings"
)

// UserError is a field-level error reported by the Shopify Admin API
// (the userErrors array on mutations).
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func (e UserError) String() string {
	if len(e.Field) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", strings.Join(e.Field, "."), e.Message)
}

func joinUserErrors(errs []UserError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.String()
	}
	return strings.Join(parts, "; ")
}

// HTTPError is returned when the Shopify API responds with a non-2xx status.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("shopify API error: status %d, body: %s", e.Status, e.Body)
}

// NetworkError is returned when the request never produced an HTTP response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("shopify request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError is returned when the response body is not valid JSON.
type DecodeError struct {
	Err  error
	Body string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode shopify response: %v, body: %s", e.Err, e.Body)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// AuthReason classifies OAuth handshake failures.
type AuthReason string

const (
	AuthStateMismatch  AuthReason = "state_mismatch"
	AuthMissingParams  AuthReason = "missing_params"
	AuthExchangeFailed AuthReason = "exchange_failed"
)

// AuthError is returned when the OAuth install/callback flow fails.
type AuthError struct {
	Reason  AuthReason
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("oauth %s: %s", e.Reason, e.Message)
	}
	return fmt.Sprintf("oauth %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ErrValidation is returned when order input fails validation before any
// network call is made.
type ErrValidation struct {
	MissingFields []string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("missing mandatory fields: %s", strings.Join(e.MissingFields, ", "))
}

// DraftCreationError is returned when the draftOrderCreate mutation fails.
// FieldErrors carries Shopify userErrors; an empty slice means the draft id
// was missing despite no reported errors.
type DraftCreationError struct {
	FieldErrors []UserError
}

func (e *DraftCreationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return "draft order creation returned no draft order id"
	}
	return fmt.Sprintf("draft order creation failed: %s", joinUserErrors(e.FieldErrors))
}

// CompletionError is returned when the draftOrderComplete mutation fails
// after the draft was created. FieldErrors carries Shopify userErrors;
// MissingOrder is set when completion reported success but no final order
// id came back.
type CompletionError struct {
	FieldErrors  []UserError
	MissingOrder bool
}

func (e *CompletionError) Error() string {
	if e.MissingOrder {
		return "draft order completion returned no final order"
	}
	return fmt.Sprintf("draft order completion failed: %s", joinUserErrors(e.FieldErrors))
}
