package domain

import "github.com/shopspring/decimal"

type Cart struct {
	ID            string         `json:"id"`
	CheckoutURL   string         `json:"checkoutUrl"`
	TotalQuantity int            `json:"totalQuantity"`
	Cost          CartCost       `json:"cost"`
	DiscountCodes []DiscountCode `json:"discountCodes"`
	Lines         []CartLine     `json:"lines"`
}

type CartCost struct {
	Subtotal Money  `json:"subtotal"`
	Total    Money  `json:"total"`
	Tax      *Money `json:"tax,omitempty"`
}

type DiscountCode struct {
	Code       string `json:"code"`
	Applicable bool   `json:"applicable"`
}

// CartLine references a purchasable variant (merchandise) and a quantity.
type CartLine struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Merchandise Merchandise `json:"merchandise"`
	LineTotal   Money       `json:"lineTotal"`
}

type Merchandise struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
	Price           Money            `json:"price"`
	Image           *Image           `json:"image,omitempty"`
	Product         LineProduct      `json:"product"`
}

type LineProduct struct {
	Handle        string `json:"handle"`
	Title         string `json:"title"`
	FeaturedImage *Image `json:"featuredImage,omitempty"`
}

// Codes returns the discount code strings currently on the cart.
func (c *Cart) Codes() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.DiscountCodes))
	for _, d := range c.DiscountCodes {
		out = append(out, d.Code)
	}
	return out
}

// Empty reports whether the cart is absent or holds no items.
func (c *Cart) Empty() bool {
	return c == nil || c.TotalQuantity == 0
}

// Address is the subset of a delivery address needed to quote shipping.
type Address struct {
	Country  string `json:"country" validate:"required"`
	Province string `json:"province,omitempty"`
	City     string `json:"city,omitempty"`
	Zip      string `json:"zip,omitempty"`
}

type ShippingRate struct {
	Handle string          `json:"handle"`
	Title  string          `json:"title"`
	Cost   decimal.Decimal `json:"cost"`
	// CurrencyCode is reported separately so Cost stays a bare number.
	CurrencyCode string `json:"currencyCode"`
}
