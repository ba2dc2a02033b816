package gateway

import (
	"context"
	"fmt"

	"ynotnow-storefront/internal/domain"
)

const cartFields = `
fragment CartFields on Cart {
  id
  checkoutUrl
  totalQuantity
  cost {
    subtotalAmount { amount currencyCode }
    totalAmount { amount currencyCode }
    totalTaxAmount { amount currencyCode }
  }
  discountCodes { code applicable }
  lines(first: 100) {
    edges {
      node {
        id
        quantity
        cost { totalAmount { amount currencyCode } }
        merchandise {
          ... on ProductVariant {
            id
            title
            selectedOptions { name value }
            price { amount currencyCode }
            image { url altText }
            product { handle title featuredImage { url altText } }
          }
        }
      }
    }
  }
}
`

const cartQuery = `
query Cart($id: ID!) {
  cart(id: $id) { ...CartFields }
}
` + cartFields

const cartCreateMutation = `
mutation CartCreate {
  cartCreate(input: {}) {
    cart { ...CartFields }
    userErrors { field message code }
  }
}
` + cartFields

const cartLinesAddMutation = `
mutation CartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart { ...CartFields }
    userErrors { field message code }
  }
}
` + cartFields

const cartLinesUpdateMutation = `
mutation CartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart { ...CartFields }
    userErrors { field message code }
  }
}
` + cartFields

const cartLinesRemoveMutation = `
mutation CartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart { ...CartFields }
    userErrors { field message code }
  }
}
` + cartFields

const cartDiscountCodesMutation = `
mutation CartDiscountCodesUpdate($cartId: ID!, $discountCodes: [String!]!) {
  cartDiscountCodesUpdate(cartId: $cartId, discountCodes: $discountCodes) {
    cart { ...CartFields }
    userErrors { field message code }
  }
}
` + cartFields

const cartShippingMutation = `
mutation CartShippingRates($cartId: ID!, $buyerIdentity: CartBuyerIdentityInput!) {
  cartBuyerIdentityUpdate(cartId: $cartId, buyerIdentity: $buyerIdentity) {
    cart {
      deliveryGroups(first: 10) {
        edges {
          node {
            deliveryOptions {
              handle
              title
              estimatedCost { amount currencyCode }
            }
          }
        }
      }
    }
    userErrors { field message code }
  }
}
`

type rawCart struct {
	ID            string `json:"id"`
	CheckoutURL   string `json:"checkoutUrl"`
	TotalQuantity int    `json:"totalQuantity"`
	Cost          struct {
		SubtotalAmount domain.Money  `json:"subtotalAmount"`
		TotalAmount    domain.Money  `json:"totalAmount"`
		TotalTaxAmount *domain.Money `json:"totalTaxAmount"`
	} `json:"cost"`
	DiscountCodes []domain.DiscountCode   `json:"discountCodes"`
	Lines         connection[rawCartLine] `json:"lines"`
}

type rawCartLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Cost     struct {
		TotalAmount domain.Money `json:"totalAmount"`
	} `json:"cost"`
	Merchandise domain.Merchandise `json:"merchandise"`
}

func (r *rawCart) toDomain() *domain.Cart {
	if r == nil {
		return nil
	}
	lines := make([]domain.CartLine, 0, len(r.Lines.Edges))
	for _, e := range r.Lines.Edges {
		lines = append(lines, domain.CartLine{
			ID:          e.Node.ID,
			Quantity:    e.Node.Quantity,
			Merchandise: e.Node.Merchandise,
			LineTotal:   e.Node.Cost.TotalAmount,
		})
	}
	codes := r.DiscountCodes
	if codes == nil {
		codes = []domain.DiscountCode{}
	}
	return &domain.Cart{
		ID:            r.ID,
		CheckoutURL:   r.CheckoutURL,
		TotalQuantity: r.TotalQuantity,
		Cost: domain.CartCost{
			Subtotal: r.Cost.SubtotalAmount,
			Total:    r.Cost.TotalAmount,
			Tax:      r.Cost.TotalTaxAmount,
		},
		DiscountCodes: codes,
		Lines:         lines,
	}
}

type cartPayload struct {
	Cart       *rawCart   `json:"cart"`
	UserErrors UserErrors `json:"userErrors"`
}

// result converts a mutation payload. A refusal that names the cart id means
// the cart no longer exists and is reported as domain.ErrNotFound.
func (p cartPayload) result(op string) (*domain.Cart, error) {
	if len(p.UserErrors) > 0 {
		if p.Cart == nil && (p.UserErrors.touchesField("cartId") || p.UserErrors.hasCode("NOT_FOUND")) {
			return nil, fmt.Errorf("gateway %s: %w", op, domain.ErrNotFound)
		}
		return nil, p.UserErrors
	}
	if p.Cart == nil {
		return nil, &Error{Op: op, Messages: []string{"mutation returned no cart"}}
	}
	return p.Cart.toDomain(), nil
}

// staleCart reports a refused cart id as domain.ErrNotFound so callers treat
// it like a cart that no longer exists.
func staleCart(op, cartID string, err error) error {
	if rejectsID(err, "cartId", cartID) {
		return fmt.Errorf("gateway %s: %w", op, domain.ErrNotFound)
	}
	return err
}

// LineInput adds merchandise to a cart.
type LineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// LineUpdate sets the quantity of an existing line.
type LineUpdate struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// Cart returns nil without error when the gateway does not know the id or
// refuses to parse it.
func (c *Client) Cart(ctx context.Context, id string) (*domain.Cart, error) {
	var data struct {
		Cart *rawCart `json:"cart"`
	}
	if err := c.do(ctx, "cart", cartQuery, map[string]interface{}{"id": id}, &data); err != nil {
		if rejectsID(err, "id", id) {
			return nil, nil
		}
		return nil, err
	}
	return data.Cart.toDomain(), nil
}

func (c *Client) CreateCart(ctx context.Context) (*domain.Cart, error) {
	var data struct {
		CartCreate cartPayload `json:"cartCreate"`
	}
	if err := c.do(ctx, "cartCreate", cartCreateMutation, nil, &data); err != nil {
		return nil, err
	}
	return data.CartCreate.result("cartCreate")
}

func (c *Client) AddLines(ctx context.Context, cartID string, lines []LineInput) (*domain.Cart, error) {
	var data struct {
		CartLinesAdd cartPayload `json:"cartLinesAdd"`
	}
	vars := map[string]interface{}{"cartId": cartID, "lines": lines}
	if err := c.do(ctx, "cartLinesAdd", cartLinesAddMutation, vars, &data); err != nil {
		return nil, staleCart("cartLinesAdd", cartID, err)
	}
	return data.CartLinesAdd.result("cartLinesAdd")
}

func (c *Client) UpdateLines(ctx context.Context, cartID string, lines []LineUpdate) (*domain.Cart, error) {
	var data struct {
		CartLinesUpdate cartPayload `json:"cartLinesUpdate"`
	}
	vars := map[string]interface{}{"cartId": cartID, "lines": lines}
	if err := c.do(ctx, "cartLinesUpdate", cartLinesUpdateMutation, vars, &data); err != nil {
		return nil, staleCart("cartLinesUpdate", cartID, err)
	}
	return data.CartLinesUpdate.result("cartLinesUpdate")
}

func (c *Client) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	var data struct {
		CartLinesRemove cartPayload `json:"cartLinesRemove"`
	}
	vars := map[string]interface{}{"cartId": cartID, "lineIds": lineIDs}
	if err := c.do(ctx, "cartLinesRemove", cartLinesRemoveMutation, vars, &data); err != nil {
		return nil, staleCart("cartLinesRemove", cartID, err)
	}
	return data.CartLinesRemove.result("cartLinesRemove")
}

// UpdateDiscountCodes replaces the cart's whole discount code list. The
// gateway has no single-code add or remove.
func (c *Client) UpdateDiscountCodes(ctx context.Context, cartID string, codes []string) (*domain.Cart, error) {
	if codes == nil {
		codes = []string{}
	}
	var data struct {
		CartDiscountCodesUpdate cartPayload `json:"cartDiscountCodesUpdate"`
	}
	vars := map[string]interface{}{"cartId": cartID, "discountCodes": codes}
	if err := c.do(ctx, "cartDiscountCodesUpdate", cartDiscountCodesMutation, vars, &data); err != nil {
		return nil, staleCart("cartDiscountCodesUpdate", cartID, err)
	}
	return data.CartDiscountCodesUpdate.result("cartDiscountCodesUpdate")
}

// ShippingRates sets the buyer's delivery address on the cart and returns the
// delivery options the gateway quotes for it.
func (c *Client) ShippingRates(ctx context.Context, cartID string, addr domain.Address) ([]domain.ShippingRate, error) {
	deliveryAddress := map[string]interface{}{"country": addr.Country}
	if addr.Province != "" {
		deliveryAddress["province"] = addr.Province
	}
	if addr.City != "" {
		deliveryAddress["city"] = addr.City
	}
	if addr.Zip != "" {
		deliveryAddress["zip"] = addr.Zip
	}
	vars := map[string]interface{}{
		"cartId": cartID,
		"buyerIdentity": map[string]interface{}{
			"countryCode": addr.Country,
			"deliveryAddressPreferences": []map[string]interface{}{
				{"deliveryAddress": deliveryAddress},
			},
		},
	}

	var data struct {
		CartBuyerIdentityUpdate struct {
			Cart *struct {
				DeliveryGroups connection[struct {
					DeliveryOptions []struct {
						Handle        string       `json:"handle"`
						Title         string       `json:"title"`
						EstimatedCost domain.Money `json:"estimatedCost"`
					} `json:"deliveryOptions"`
				}] `json:"deliveryGroups"`
			} `json:"cart"`
			UserErrors UserErrors `json:"userErrors"`
		} `json:"cartBuyerIdentityUpdate"`
	}
	if err := c.do(ctx, "cartShippingRates", cartShippingMutation, vars, &data); err != nil {
		return nil, staleCart("cartShippingRates", cartID, err)
	}
	payload := data.CartBuyerIdentityUpdate
	if len(payload.UserErrors) > 0 {
		if payload.Cart == nil && payload.UserErrors.touchesField("cartId") {
			return nil, fmt.Errorf("gateway cartShippingRates: %w", domain.ErrNotFound)
		}
		return nil, payload.UserErrors
	}
	rates := []domain.ShippingRate{}
	if payload.Cart == nil {
		return rates, nil
	}
	for _, group := range payload.Cart.DeliveryGroups.nodes() {
		for _, opt := range group.DeliveryOptions {
			rates = append(rates, domain.ShippingRate{
				Handle:       opt.Handle,
				Title:        opt.Title,
				Cost:         opt.EstimatedCost.Amount,
				CurrencyCode: opt.EstimatedCost.CurrencyCode,
			})
		}
	}
	return rates, nil
}
