package shopify

// ProductSearchQuery searches products with cursor pagination. The cursor
// variable may be null for the first page.
const ProductSearchQuery = `
query searchProducts($searchQuery: String!, $numProducts: Int!, $cursor: String) {
  products(first: $numProducts, query: $searchQuery, after: $cursor) {
    edges {
      node {
        id
        title
        descriptionHtml
        onlineStoreUrl
        featuredImage {
          url
        }
        variants(first: 5) {
          edges {
            node {
              id
              title
              price
              image {
                url
              }
            }
          }
        }
      }
    }
    pageInfo {
      hasNextPage
      hasPreviousPage
      startCursor
      endCursor
    }
  }
}
`

// CustomerSearchQuery searches customers by name. Fixed page of 10; the
// query variable is a Shopify search filter expression, not a raw wildcard.
const CustomerSearchQuery = `
query searchCustomers($query: String!) {
  customers(first: 10, query: $query) {
    edges {
      node {
        id
        firstName
        lastName
        email: defaultEmailAddress {
          emailAddress
        }
        phone: defaultPhoneNumber {
          phoneNumber
        }
        addresses(first: 5) {
          address1
          address2
          city
          zip
          provinceCode
          countryCodeV2
          formatted
          phone
        }
      }
    }
  }
}
`

// OrderByIDQuery fetches a placed order by its Shopify GID for the
// order-status page.
const OrderByIDQuery = `
query getOrder($id: ID!) {
  order(id: $id) {
    id
    name
    email
    createdAt
    displayFinancialStatus
    displayFulfillmentStatus
    note
    tags
    totalPriceSet {
      presentmentMoney {
        amount
        currencyCode
      }
    }
    lineItems(first: 10) {
      edges {
        node {
          title
          quantity
          variantTitle
          originalUnitPriceSet {
            presentmentMoney {
              amount
              currencyCode
            }
          }
        }
      }
    }
    shippingAddress {
      firstName
      lastName
      address1
      address2
      city
      zip
      countryCodeV2
      province
      phone
    }
  }
}
`
