package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/apo1397/shopify-integration/internal/domain"
	"github.com/apo1397/shopify-integration/internal/shopify"
	apperrors "github.com/apo1397/shopify-integration/pkg/errors"
)

// Fixed attributes marking every order placed through this app. The 100%
// discount is what makes paymentPending=false valid on completion.
const (
	orderNote          = "Order placed via Hypothesis app with 100% discount."
	orderSourceValue   = "HypothesisApp"
	promotionDetails   = "100% Discount Applied"
	discountTitle      = "100% Hypothesis App Discount"
	discountValueType  = "PERCENTAGE"
	discountPercentage = 100.0
)

// Cart is what the order protocol needs from the session cart.
type Cart interface {
	CartLines() []domain.CartLine
	ClearCart()
}

// OrderService runs the two-phase draft-order protocol: create the draft,
// then complete it. No retries; a failed attempt is abandoned and the next
// call starts from a fresh draft.
type OrderService struct {
	client *shopify.Client
	logger *zap.Logger
}

func NewOrderService(client *shopify.Client, logger *zap.Logger) *OrderService {
	return &OrderService{client: client, logger: logger}
}

// PlaceOrder validates the input, creates a fully-discounted draft order
// and completes it. The cart is cleared only on full success.
func (s *OrderService) PlaceOrder(
	ctx context.Context,
	sess domain.StoreSession,
	cart Cart,
	shipping domain.ShippingAddress,
	email string,
	tags []string,
) (*domain.OrderResult, error) {
	lines := cart.CartLines()
	if err := validateOrderInput(lines, shipping, email); err != nil {
		return nil, err
	}

	draftID, err := s.createDraft(ctx, sess, lines, shipping, email, tags)
	if err != nil {
		return nil, err
	}

	result, err := s.completeDraft(ctx, sess, draftID)
	if err != nil {
		return nil, err
	}

	cart.ClearCart()
	s.logger.Info("Order placed",
		zap.String("shop", sess.ShopDomain),
		zap.String("order_id", result.OrderID),
		zap.String("order_name", result.OrderName),
	)
	return result, nil
}

// validateOrderInput checks the preconditions before any network call.
func validateOrderInput(lines []domain.CartLine, shipping domain.ShippingAddress, email string) error {
	var missing []string
	if len(lines) == 0 {
		missing = append(missing, "cart")
	}
	mandatory := []struct {
		name  string
		value string
	}{
		{"email", email},
		{"firstName", shipping.FirstName},
		{"lastName", shipping.LastName},
		{"address1", shipping.Address1},
		{"city", shipping.City},
		{"countryCode", shipping.CountryCode},
		{"zip", shipping.Zip},
	}
	for _, field := range mandatory {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return &apperrors.ErrValidation{MissingFields: missing}
	}
	return nil
}

func (s *OrderService) createDraft(
	ctx context.Context,
	sess domain.StoreSession,
	lines []domain.CartLine,
	shipping domain.ShippingAddress,
	email string,
	tags []string,
) (string, error) {
	lineItems := make([]shopify.DraftOrderLineItemInput, 0, len(lines))
	for _, line := range lines {
		lineItems = append(lineItems, shopify.DraftOrderLineItemInput{
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
		})
	}

	addr := &shopify.DraftOrderAddressInput{
		FirstName:   shipping.FirstName,
		LastName:    shipping.LastName,
		Address1:    shipping.Address1,
		City:        shipping.City,
		CountryCode: shipping.CountryCode,
		Zip:         shipping.Zip,
	}
	if shipping.Address2 != "" {
		addr.Address2 = &shipping.Address2
	}
	if shipping.Province != "" {
		addr.Province = &shipping.Province
	}
	if shipping.Phone != "" {
		addr.Phone = &shipping.Phone
	}

	note := orderNote
	input := shopify.DraftOrderInput{
		Email:           &email,
		LineItems:       lineItems,
		ShippingAddress: addr,
		Note:            &note,
		Tags:            tags,
		CustomAttributes: []shopify.DraftOrderAttributeInput{
			{Key: "OrderSource", Value: orderSourceValue},
			{Key: "PromotionDetails", Value: promotionDetails},
		},
		AppliedDiscount: &shopify.DraftOrderDiscountInput{
			ValueType: discountValueType,
			Value:     discountPercentage,
			Title:     discountTitle,
		},
		UseCustomerDefaultAddress: false,
	}

	resp, err := s.client.Execute(ctx, sess, shopify.DraftOrderCreateMutation, map[string]interface{}{"input": input})
	if err != nil {
		return "", fmt.Errorf("create draft order: %w", err)
	}
	s.logger.Debug("Draft order create response", zap.ByteString("data", resp.Data))

	var result struct {
		DraftOrderCreate struct {
			DraftOrder struct {
				ID string `json:"id"`
			} `json:"draftOrder"`
			UserErrors []apperrors.UserError `json:"userErrors"`
		} `json:"draftOrderCreate"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return "", fmt.Errorf("parse draft order create response: %w", err)
	}

	if len(result.DraftOrderCreate.UserErrors) > 0 {
		// No partial state to clean up: the draft was never created.
		return "", &apperrors.DraftCreationError{FieldErrors: result.DraftOrderCreate.UserErrors}
	}
	draftID := result.DraftOrderCreate.DraftOrder.ID
	if draftID == "" {
		return "", &apperrors.DraftCreationError{}
	}

	s.logger.Info("Draft order created", zap.String("shop", sess.ShopDomain), zap.String("draft_order_id", draftID))
	return draftID, nil
}

func (s *OrderService) completeDraft(ctx context.Context, sess domain.StoreSession, draftID string) (*domain.OrderResult, error) {
	variables := map[string]interface{}{
		"id": draftID,
		// The 100% discount makes the total zero, so the order is marked
		// paid on completion.
		"paymentPending": false,
	}

	resp, err := s.client.Execute(ctx, sess, shopify.DraftOrderCompleteMutation, variables)
	if err != nil {
		return nil, fmt.Errorf("complete draft order: %w", err)
	}
	s.logger.Debug("Draft order complete response", zap.ByteString("data", resp.Data))

	var result struct {
		DraftOrderComplete struct {
			DraftOrder struct {
				ID    string `json:"id"`
				Order struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"order"`
			} `json:"draftOrder"`
			UserErrors []apperrors.UserError `json:"userErrors"`
		} `json:"draftOrderComplete"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse draft order complete response: %w", err)
	}

	if len(result.DraftOrderComplete.UserErrors) > 0 {
		s.abandonDraft(ctx, sess, draftID)
		return nil, &apperrors.CompletionError{FieldErrors: result.DraftOrderComplete.UserErrors}
	}

	order := result.DraftOrderComplete.DraftOrder.Order
	if order.ID == "" {
		s.abandonDraft(ctx, sess, draftID)
		return nil, &apperrors.CompletionError{MissingOrder: true}
	}

	return &domain.OrderResult{OrderID: order.ID, OrderName: order.Name}, nil
}

// abandonDraft deletes a draft whose completion failed so it does not
// linger in the store. Best effort: failure is logged and never masks the
// completion error.
func (s *OrderService) abandonDraft(ctx context.Context, sess domain.StoreSession, draftID string) {
	variables := map[string]interface{}{
		"input": map[string]interface{}{"id": draftID},
	}
	resp, err := s.client.Execute(ctx, sess, shopify.DraftOrderDeleteMutation, variables)
	if err != nil {
		s.logger.Warn("Failed to delete abandoned draft order",
			zap.String("shop", sess.ShopDomain),
			zap.String("draft_order_id", draftID),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("Deleted abandoned draft order",
		zap.String("shop", sess.ShopDomain),
		zap.String("draft_order_id", draftID),
		zap.ByteString("data", resp.Data),
	)
}

// GetOrder fetches a placed order by its numeric id for the order-status
// page. A missing order is nil, nil - the caller decides what to render.
func (s *OrderService) GetOrder(ctx context.Context, sess domain.StoreSession, numericID string) (*domain.OrderDetail, error) {
	orderGID := fmt.Sprintf("gid://shopify/Order/%s", numericID)
	resp, err := s.client.Execute(ctx, sess, shopify.OrderByIDQuery, map[string]interface{}{"id": orderGID})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	var result struct {
		Order *struct {
			ID                string   `json:"id"`
			Name              string   `json:"name"`
			Email             string   `json:"email"`
			CreatedAt         string   `json:"createdAt"`
			FinancialStatus   string   `json:"displayFinancialStatus"`
			FulfillmentStatus string   `json:"displayFulfillmentStatus"`
			Note              string   `json:"note"`
			Tags              []string `json:"tags"`
			TotalPriceSet     struct {
				PresentmentMoney struct {
					Amount       string `json:"amount"`
					CurrencyCode string `json:"currencyCode"`
				} `json:"presentmentMoney"`
			} `json:"totalPriceSet"`
			LineItems struct {
				Edges []struct {
					Node struct {
						Title                string `json:"title"`
						Quantity             int    `json:"quantity"`
						VariantTitle         string `json:"variantTitle"`
						OriginalUnitPriceSet struct {
							PresentmentMoney struct {
								Amount string `json:"amount"`
							} `json:"presentmentMoney"`
						} `json:"originalUnitPriceSet"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"lineItems"`
			ShippingAddress *struct {
				FirstName   string `json:"firstName"`
				LastName    string `json:"lastName"`
				Address1    string `json:"address1"`
				Address2    string `json:"address2"`
				City        string `json:"city"`
				Zip         string `json:"zip"`
				CountryCode string `json:"countryCodeV2"`
				Province    string `json:"province"`
				Phone       string `json:"phone"`
			} `json:"shippingAddress"`
		} `json:"order"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse order response: %w", err)
	}
	if result.Order == nil {
		s.logger.Warn("Order not found", zap.String("shop", sess.ShopDomain), zap.String("order_id", numericID))
		return nil, nil
	}

	node := result.Order
	detail := &domain.OrderDetail{
		ID:                node.ID,
		Name:              node.Name,
		Email:             node.Email,
		CreatedAt:         node.CreatedAt,
		FinancialStatus:   node.FinancialStatus,
		FulfillmentStatus: node.FulfillmentStatus,
		TotalAmount:       node.TotalPriceSet.PresentmentMoney.Amount,
		TotalCurrency:     node.TotalPriceSet.PresentmentMoney.CurrencyCode,
		Note:              node.Note,
		Tags:              node.Tags,
		LineItems:         make([]domain.OrderLineItem, 0, len(node.LineItems.Edges)),
	}
	for _, edge := range node.LineItems.Edges {
		detail.LineItems = append(detail.LineItems, domain.OrderLineItem{
			Title:        edge.Node.Title,
			VariantTitle: edge.Node.VariantTitle,
			Quantity:     edge.Node.Quantity,
			UnitPrice:    edge.Node.OriginalUnitPriceSet.PresentmentMoney.Amount,
		})
	}
	if node.ShippingAddress != nil {
		detail.ShippingAddress = &domain.ShippingAddress{
			FirstName:   node.ShippingAddress.FirstName,
			LastName:    node.ShippingAddress.LastName,
			Address1:    node.ShippingAddress.Address1,
			Address2:    node.ShippingAddress.Address2,
			City:        node.ShippingAddress.City,
			Province:    node.ShippingAddress.Province,
			CountryCode: node.ShippingAddress.CountryCode,
			Zip:         node.ShippingAddress.Zip,
			Phone:       node.ShippingAddress.Phone,
		}
	}
	return detail, nil
}

// NumericOrderID extracts the numeric suffix from an order GID
// (gid://shopify/Order/999 -> "999") for redirect/lookup keys.
func NumericOrderID(gid string) (string, error) {
	parts := strings.Split(gid, "/")
	last := parts[len(parts)-1]
	if _, err := strconv.ParseInt(last, 10, 64); err != nil {
		return "", fmt.Errorf("invalid GID format: %s", gid)
	}
	return last, nil
}
