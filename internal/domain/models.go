package domain

// NotAvailable is the sentinel used when optional customer metadata
// (email, phone) is absent in Shopify. Absence is never an error.
const NotAvailable = "N/A"

// StoreSession is the (shop domain, access token) pair every Admin API
// call requires. It is assembled per request from the session's shop
// binding and the credential store; it is never persisted.
type StoreSession struct {
	ShopDomain  string
	AccessToken string
}

// Valid reports whether the session can be used for API calls.
func (s StoreSession) Valid() bool {
	return s.ShopDomain != "" && s.AccessToken != ""
}

// CartLine is one cart entry, keyed by variant id.
type CartLine struct {
	VariantID    string `json:"variant_id"`
	ProductTitle string `json:"product_title"`
	VariantTitle string `json:"variant_title"`
	UnitPrice    string `json:"unit_price"`
	Quantity     int    `json:"quantity"`
}

// PageInfo carries Shopify's cursor pagination flags, passed through
// unmodified so the caller can page forward and backward.
type PageInfo struct {
	HasNextPage     bool    `json:"has_next_page"`
	HasPreviousPage bool    `json:"has_previous_page"`
	StartCursor     *string `json:"start_cursor"`
	EndCursor       *string `json:"end_cursor"`
}

// ProductVariant is a flattened product variant projection.
type ProductVariant struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    string  `json:"price"`
	ImageURL *string `json:"image_url"`
}

// ProductRecord is the flat projection of a product edge/node.
type ProductRecord struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	DescriptionHTML  string           `json:"description_html"`
	FeaturedImageURL *string          `json:"featured_image_url"`
	OnlineStoreURL   *string          `json:"online_store_url"`
	Variants         []ProductVariant `json:"variants"`
}

// CustomerAddress is a flattened customer address.
type CustomerAddress struct {
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	Zip          string `json:"zip"`
	ProvinceCode string `json:"province_code"`
	CountryCode  string `json:"country_code"`
	Formatted    string `json:"formatted"`
	Phone        string `json:"phone"`
}

// CustomerRecord is the flat projection of a customer edge/node. Email and
// phone are NotAvailable when the customer has none on file.
type CustomerRecord struct {
	ID        string            `json:"id"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Addresses []CustomerAddress `json:"addresses"`
}

// ShippingAddress is the order shipping input collected from the operator.
type ShippingAddress struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	Province    string `json:"province"`
	CountryCode string `json:"country_code"`
	Zip         string `json:"zip"`
	Phone       string `json:"phone"`
}

// OrderResult identifies the order produced by a completed draft.
type OrderResult struct {
	OrderID   string `json:"order_id"`   // GID, e.g. gid://shopify/Order/999
	OrderName string `json:"order_name"` // display name, e.g. #1001
}

// OrderLineItem is a flattened line item on a placed order.
type OrderLineItem struct {
	Title        string `json:"title"`
	VariantTitle string `json:"variant_title"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
}

// OrderDetail is the flat projection of the order(id:) query used by the
// order-status page.
type OrderDetail struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Email             string           `json:"email"`
	CreatedAt         string           `json:"created_at"`
	FinancialStatus   string           `json:"financial_status"`
	FulfillmentStatus string           `json:"fulfillment_status"`
	TotalAmount       string           `json:"total_amount"`
	TotalCurrency     string           `json:"total_currency"`
	Note              string           `json:"note"`
	Tags              []string         `json:"tags"`
	LineItems         []OrderLineItem  `json:"line_items"`
	ShippingAddress   *ShippingAddress `json:"shipping_address"`
}
