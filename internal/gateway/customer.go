package gateway

import (
	"context"
	"time"

	"ynotnow-storefront/internal/domain"
)

const customerCreateMutation = `
mutation CustomerCreate($input: CustomerCreateInput!) {
  customerCreate(input: $input) {
    customer { id }
    customerUserErrors { field message code }
  }
}
`

const accessTokenCreateMutation = `
mutation CustomerAccessTokenCreate($input: CustomerAccessTokenCreateInput!) {
  customerAccessTokenCreate(input: $input) {
    customerAccessToken { accessToken expiresAt }
    customerUserErrors { field message code }
  }
}
`

const customerQuery = `
query Customer($token: String!) {
  customer(customerAccessToken: $token) {
    id
    email
    firstName
    lastName
    phone
    acceptsMarketing
    createdAt
    defaultAddress { id firstName lastName address1 address2 city province country zip phone }
  }
}
`

const customerOrdersQuery = `
query CustomerOrders($token: String!, $first: Int!) {
  customer(customerAccessToken: $token) {
    orders(first: $first, sortKey: PROCESSED_AT, reverse: true) {
      edges {
        node {
          id
          name
          orderNumber
          processedAt
          financialStatus
          fulfillmentStatus
          statusUrl
          currentSubtotalPrice { amount currencyCode }
          totalShippingPrice { amount currencyCode }
          totalTax { amount currencyCode }
          totalPrice { amount currencyCode }
          lineItems(first: 50) {
            edges {
              node {
                title
                quantity
                originalTotalPrice { amount currencyCode }
                variant { title image { url } }
              }
            }
          }
          successfulFulfillments(first: 10) {
            trackingCompany
            trackingInfo(first: 10) { number url }
          }
        }
      }
    }
  }
}
`

// RegisterInput carries the fields needed to create a customer account.
type RegisterInput struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	FirstName        string `json:"firstName,omitempty"`
	LastName         string `json:"lastName,omitempty"`
	AcceptsMarketing bool   `json:"acceptsMarketing"`
}

// CreateCustomer registers an account. It does not yield a session token.
func (c *Client) CreateCustomer(ctx context.Context, in RegisterInput) (string, error) {
	var data struct {
		CustomerCreate struct {
			Customer *struct {
				ID string `json:"id"`
			} `json:"customer"`
			UserErrors UserErrors `json:"customerUserErrors"`
		} `json:"customerCreate"`
	}
	if err := c.do(ctx, "customerCreate", customerCreateMutation, map[string]interface{}{"input": in}, &data); err != nil {
		return "", err
	}
	payload := data.CustomerCreate
	if len(payload.UserErrors) > 0 {
		return "", payload.UserErrors
	}
	if payload.Customer == nil {
		return "", &Error{Op: "customerCreate", Messages: []string{"mutation returned no customer"}}
	}
	return payload.Customer.ID, nil
}

// CreateAccessToken exchanges credentials for a bearer token. Bad credentials
// come back as UserErrors.
func (c *Client) CreateAccessToken(ctx context.Context, email, password string) (*domain.AccessToken, error) {
	var data struct {
		CustomerAccessTokenCreate struct {
			Token *struct {
				AccessToken string    `json:"accessToken"`
				ExpiresAt   time.Time `json:"expiresAt"`
			} `json:"customerAccessToken"`
			UserErrors UserErrors `json:"customerUserErrors"`
		} `json:"customerAccessTokenCreate"`
	}
	vars := map[string]interface{}{
		"input": map[string]string{"email": email, "password": password},
	}
	if err := c.do(ctx, "customerAccessTokenCreate", accessTokenCreateMutation, vars, &data); err != nil {
		return nil, err
	}
	payload := data.CustomerAccessTokenCreate
	if len(payload.UserErrors) > 0 {
		return nil, payload.UserErrors
	}
	if payload.Token == nil {
		return nil, UserErrors{{Message: "Unidentified customer", Code: "UNIDENTIFIED_CUSTOMER"}}
	}
	return &domain.AccessToken{Token: payload.Token.AccessToken, ExpiresAt: payload.Token.ExpiresAt}, nil
}

// Customer returns ErrUnauthorized when the token is expired or revoked; the
// gateway answers such tokens with a null customer.
func (c *Client) Customer(ctx context.Context, token string) (*domain.Customer, error) {
	var data struct {
		Customer *domain.Customer `json:"customer"`
	}
	if err := c.do(ctx, "customer", customerQuery, map[string]interface{}{"token": token}, &data); err != nil {
		return nil, err
	}
	if data.Customer == nil {
		return nil, ErrUnauthorized
	}
	return data.Customer, nil
}

type rawOrder struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	OrderNumber          int          `json:"orderNumber"`
	ProcessedAt          time.Time    `json:"processedAt"`
	FinancialStatus      string       `json:"financialStatus"`
	FulfillmentStatus    string       `json:"fulfillmentStatus"`
	StatusURL            string       `json:"statusUrl"`
	CurrentSubtotalPrice domain.Money `json:"currentSubtotalPrice"`
	TotalShippingPrice   domain.Money `json:"totalShippingPrice"`
	TotalTax             domain.Money `json:"totalTax"`
	TotalPrice           domain.Money `json:"totalPrice"`
	LineItems            connection[struct {
		Title              string       `json:"title"`
		Quantity           int          `json:"quantity"`
		OriginalTotalPrice domain.Money `json:"originalTotalPrice"`
		Variant            *struct {
			Title string        `json:"title"`
			Image *domain.Image `json:"image"`
		} `json:"variant"`
	}] `json:"lineItems"`
	SuccessfulFulfillments []struct {
		TrackingCompany string `json:"trackingCompany"`
		TrackingInfo    []struct {
			Number string `json:"number"`
			URL    string `json:"url"`
		} `json:"trackingInfo"`
	} `json:"successfulFulfillments"`
}

func (r rawOrder) toDomain() domain.Order {
	o := domain.Order{
		ID:                r.ID,
		Name:              r.Name,
		OrderNumber:       r.OrderNumber,
		ProcessedAt:       r.ProcessedAt,
		FinancialStatus:   r.FinancialStatus,
		FulfillmentStatus: r.FulfillmentStatus,
		StatusURL:         r.StatusURL,
		Subtotal:          r.CurrentSubtotalPrice,
		Shipping:          r.TotalShippingPrice,
		Tax:               r.TotalTax,
		Total:             r.TotalPrice,
		Lines:             []domain.OrderLine{},
		Fulfillments:      []domain.Fulfillment{},
	}
	for _, item := range r.LineItems.nodes() {
		line := domain.OrderLine{
			Title:    item.Title,
			Quantity: item.Quantity,
			Total:    item.OriginalTotalPrice,
		}
		if item.Variant != nil {
			line.VariantTitle = item.Variant.Title
			if item.Variant.Image != nil {
				line.ImageURL = item.Variant.Image.URL
			}
		}
		o.Lines = append(o.Lines, line)
	}
	for _, f := range r.SuccessfulFulfillments {
		entry := domain.Fulfillment{Company: f.TrackingCompany, Tracking: []domain.TrackingEntry{}}
		for _, t := range f.TrackingInfo {
			entry.Tracking = append(entry.Tracking, domain.TrackingEntry{Number: t.Number, URL: t.URL})
		}
		o.Fulfillments = append(o.Fulfillments, entry)
	}
	return o
}

// CustomerOrders lists the customer's orders, newest first.
func (c *Client) CustomerOrders(ctx context.Context, token string, first int) ([]domain.Order, error) {
	var data struct {
		Customer *struct {
			Orders connection[rawOrder] `json:"orders"`
		} `json:"customer"`
	}
	vars := map[string]interface{}{"token": token, "first": first}
	if err := c.do(ctx, "customerOrders", customerOrdersQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.Customer == nil {
		return nil, ErrUnauthorized
	}
	out := make([]domain.Order, 0, len(data.Customer.Orders.Edges))
	for _, n := range data.Customer.Orders.nodes() {
		out = append(out, n.toDomain())
	}
	return out, nil
}
