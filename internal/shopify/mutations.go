package shopify

// DraftOrderCreateMutation creates a draft order
const DraftOrderCreateMutation = `
mutation draftOrderCreate($input: DraftOrderInput!) {
  draftOrderCreate(input: $input) {
    draftOrder {
      id
    }
    userErrors {
      field
      message
    }
  }
}
`

// DraftOrderCompleteMutation completes a draft order and converts it into
// an order. paymentPending=false marks the zero-total order as paid.
const DraftOrderCompleteMutation = `
mutation draftOrderComplete($id: ID!, $paymentPending: Boolean) {
  draftOrderComplete(id: $id, paymentPending: $paymentPending) {
    draftOrder {
      id
      order {
        id
        name
        legacyResourceId
      }
    }
    userErrors {
      field
      message
    }
  }
}
`

// DraftOrderDeleteMutation abandons a draft whose completion failed so it
// does not linger in the store's draft list.
const DraftOrderDeleteMutation = `
mutation draftOrderDelete($input: DraftOrderDeleteInput!) {
  draftOrderDelete(input: $input) {
    deletedId
    userErrors {
      field
      message
    }
  }
}
`

// DraftOrderInput represents the input for creating a draft order
type DraftOrderInput struct {
	Email                     *string                    `json:"email,omitempty"`
	LineItems                 []DraftOrderLineItemInput  `json:"lineItems"`
	ShippingAddress           *DraftOrderAddressInput    `json:"shippingAddress,omitempty"`
	Note                      *string                    `json:"note,omitempty"`
	Tags                      []string                   `json:"tags,omitempty"`
	CustomAttributes          []DraftOrderAttributeInput `json:"customAttributes,omitempty"`
	AppliedDiscount           *DraftOrderDiscountInput   `json:"appliedDiscount,omitempty"`
	UseCustomerDefaultAddress bool                       `json:"useCustomerDefaultAddress"`
}

type DraftOrderLineItemInput struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type DraftOrderAddressInput struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Address1    string  `json:"address1"`
	Address2    *string `json:"address2,omitempty"`
	City        string  `json:"city"`
	Province    *string `json:"province,omitempty"`
	CountryCode string  `json:"countryCode"`
	Zip         string  `json:"zip"`
	Phone       *string `json:"phone,omitempty"`
}

type DraftOrderAttributeInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DraftOrderDiscountInput applies an order-level discount. ValueType
// PERCENTAGE with Value 100 makes the order total zero.
type DraftOrderDiscountInput struct {
	ValueType string  `json:"valueType"`
	Value     float64 `json:"value"`
	Title     string  `json:"title"`
}
