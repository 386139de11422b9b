package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/apo1397/shopify-integration/internal/domain"
	"github.com/apo1397/shopify-integration/internal/shopify"
)

// DefaultProductPageSize is used when the caller does not ask for a size.
const DefaultProductPageSize = 10

// ProductSearchResult is a page of flattened products plus the cursor
// flags needed to page forward and backward.
type ProductSearchResult struct {
	Records  []domain.ProductRecord
	PageInfo domain.PageInfo
}

// CatalogService builds and issues the product and customer search
// queries and flattens the edge/node response graph into records.
type CatalogService struct {
	client *shopify.Client
	logger *zap.Logger
}

func NewCatalogService(client *shopify.Client, logger *zap.Logger) *CatalogService {
	return &CatalogService{client: client, logger: logger}
}

// SearchProducts searches the store's products. Any transport failure or
// absent data.products yields an empty page with all pagination flags
// false - a logged, recoverable condition, never a fatal error.
func (s *CatalogService) SearchProducts(ctx context.Context, sess domain.StoreSession, term string, pageSize int, cursor *string) ProductSearchResult {
	if pageSize <= 0 {
		pageSize = DefaultProductPageSize
	}

	variables := map[string]interface{}{
		"searchQuery": term,
		"numProducts": pageSize,
	}
	if cursor != nil && *cursor != "" {
		variables["cursor"] = *cursor
	}

	empty := ProductSearchResult{Records: []domain.ProductRecord{}}

	resp, err := s.client.Execute(ctx, sess, shopify.ProductSearchQuery, variables)
	if err != nil {
		s.logger.Error("Product search failed",
			zap.String("shop", sess.ShopDomain),
			zap.String("term", term),
			zap.Error(err),
		)
		return empty
	}

	var result struct {
		Products *struct {
			Edges []struct {
				Node struct {
					ID              string  `json:"id"`
					Title           string  `json:"title"`
					DescriptionHTML string  `json:"descriptionHtml"`
					OnlineStoreURL  *string `json:"onlineStoreUrl"`
					FeaturedImage   *struct {
						URL string `json:"url"`
					} `json:"featuredImage"`
					Variants struct {
						Edges []struct {
							Node struct {
								ID    string `json:"id"`
								Title string `json:"title"`
								Price string `json:"price"`
								Image *struct {
									URL string `json:"url"`
								} `json:"image"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"variants"`
				} `json:"node"`
			} `json:"edges"`
			PageInfo struct {
				HasNextPage     bool    `json:"hasNextPage"`
				HasPreviousPage bool    `json:"hasPreviousPage"`
				StartCursor     *string `json:"startCursor"`
				EndCursor       *string `json:"endCursor"`
			} `json:"pageInfo"`
		} `json:"products"`
	}

	if err := json.Unmarshal(resp.Data, &result); err != nil || result.Products == nil {
		s.logger.Warn("Product search returned no usable data",
			zap.String("shop", sess.ShopDomain),
			zap.String("term", term),
		)
		return empty
	}

	records := make([]domain.ProductRecord, 0, len(result.Products.Edges))
	for _, edge := range result.Products.Edges {
		node := edge.Node
		record := domain.ProductRecord{
			ID:              node.ID,
			Title:           node.Title,
			DescriptionHTML: node.DescriptionHTML,
			OnlineStoreURL:  node.OnlineStoreURL,
			Variants:        make([]domain.ProductVariant, 0, len(node.Variants.Edges)),
		}
		if node.FeaturedImage != nil {
			record.FeaturedImageURL = &node.FeaturedImage.URL
		}
		for _, varEdge := range node.Variants.Edges {
			varNode := varEdge.Node
			variant := domain.ProductVariant{
				ID:    varNode.ID,
				Title: varNode.Title,
				Price: varNode.Price,
			}
			if varNode.Image != nil {
				variant.ImageURL = &varNode.Image.URL
			}
			record.Variants = append(record.Variants, variant)
		}
		records = append(records, record)
	}

	s.logger.Info("Product search completed",
		zap.String("shop", sess.ShopDomain),
		zap.String("term", term),
		zap.Int("count", len(records)),
	)
	// pageInfo cursors pass through unmodified.
	return ProductSearchResult{Records: records, PageInfo: domain.PageInfo{
		HasNextPage:     result.Products.PageInfo.HasNextPage,
		HasPreviousPage: result.Products.PageInfo.HasPreviousPage,
		StartCursor:     result.Products.PageInfo.StartCursor,
		EndCursor:       result.Products.PageInfo.EndCursor,
	}}
}

// SearchCustomers searches customers by name, first 10, no pagination.
// The term is passed to Shopify as a quoted literal inside the search
// filter expression, not a raw wildcard. Same empty-on-failure policy as
// product search.
func (s *CatalogService) SearchCustomers(ctx context.Context, sess domain.StoreSession, term string) []domain.CustomerRecord {
	variables := map[string]interface{}{
		"query": `"` + term + `"`,
	}

	resp, err := s.client.Execute(ctx, sess, shopify.CustomerSearchQuery, variables)
	if err != nil {
		s.logger.Error("Customer search failed",
			zap.String("shop", sess.ShopDomain),
			zap.String("term", term),
			zap.Error(err),
		)
		return []domain.CustomerRecord{}
	}

	var result struct {
		Customers *struct {
			Edges []struct {
				Node struct {
					ID        string `json:"id"`
					FirstName string `json:"firstName"`
					LastName  string `json:"lastName"`
					Email     *struct {
						EmailAddress string `json:"emailAddress"`
					} `json:"email"`
					Phone *struct {
						PhoneNumber string `json:"phoneNumber"`
					} `json:"phone"`
					Addresses []struct {
						Address1     string `json:"address1"`
						Address2     string `json:"address2"`
						City         string `json:"city"`
						Zip          string `json:"zip"`
						ProvinceCode string `json:"provinceCode"`
						CountryCode  string `json:"countryCodeV2"`
						Formatted    string `json:"formatted"`
						Phone        string `json:"phone"`
					} `json:"addresses"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"customers"`
	}

	if err := json.Unmarshal(resp.Data, &result); err != nil || result.Customers == nil {
		s.logger.Warn("Customer search returned no usable data",
			zap.String("shop", sess.ShopDomain),
			zap.String("term", term),
		)
		return []domain.CustomerRecord{}
	}

	records := make([]domain.CustomerRecord, 0, len(result.Customers.Edges))
	for _, edge := range result.Customers.Edges {
		node := edge.Node
		record := domain.CustomerRecord{
			ID:        node.ID,
			FirstName: node.FirstName,
			LastName:  node.LastName,
			Email:     domain.NotAvailable,
			Phone:     domain.NotAvailable,
			Addresses: make([]domain.CustomerAddress, 0, len(node.Addresses)),
		}
		if node.Email != nil && node.Email.EmailAddress != "" {
			record.Email = node.Email.EmailAddress
		}
		if node.Phone != nil && node.Phone.PhoneNumber != "" {
			record.Phone = node.Phone.PhoneNumber
		}
		for _, addr := range node.Addresses {
			record.Addresses = append(record.Addresses, domain.CustomerAddress{
				Address1:     addr.Address1,
				Address2:     addr.Address2,
				City:         addr.City,
				Zip:          addr.Zip,
				ProvinceCode: addr.ProvinceCode,
				CountryCode:  addr.CountryCode,
				Formatted:    addr.Formatted,
				Phone:        addr.Phone,
			})
		}
		records = append(records, record)
	}

	s.logger.Info("Customer search completed",
		zap.String("shop", sess.ShopDomain),
		zap.String("term", term),
		zap.Int("count", len(records)),
	)
	return records
}
