// Package cartview flattens a gateway cart into the line items and totals
// shown by the cart drawer and cart page.
package cartview

import (
	"github.com/shopspring/decimal"

	"ynotnow-storefront/internal/domain"
)

// Item is one display row. Price is the unit price as a plain number;
// currency formatting happens in the template.
type Item struct {
	LineID    string  `json:"id"`
	VariantID string  `json:"variantId"`
	Handle    string  `json:"handle"`
	Title     string  `json:"title"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

// Summary totals. DeliveryFee stays zero until checkout, where the gateway
// prices shipping.
type Summary struct {
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
}

type View struct {
	CartID        string   `json:"cartId,omitempty"`
	CheckoutURL   string   `json:"checkoutUrl,omitempty"`
	CurrencyCode  string   `json:"currencyCode,omitempty"`
	TotalQuantity int      `json:"totalQuantity"`
	DiscountCodes []string `json:"discountCodes"`
	Items         []Item   `json:"items"`
	Summary       Summary  `json:"summary"`
}

// Build converts a cart in a single pass over its lines. A nil cart gives an
// empty item list and an all-zero summary.
//
// Discount is max(0, subtotal - total). The gateway does not itemise what
// makes up that gap, so tax or shipping folded into total land here too.
func Build(cart *domain.Cart) View {
	view := View{Items: []Item{}, DiscountCodes: []string{}}
	if cart == nil {
		return view
	}

	view.CartID = cart.ID
	view.CheckoutURL = cart.CheckoutURL
	view.CurrencyCode = cart.Cost.Subtotal.CurrencyCode
	view.TotalQuantity = cart.TotalQuantity
	view.DiscountCodes = cart.Codes()
	view.Items = make([]Item, 0, len(cart.Lines))

	for _, line := range cart.Lines {
		m := line.Merchandise
		item := Item{
			LineID:    line.ID,
			VariantID: m.ID,
			Handle:    m.Product.Handle,
			Title:     m.Product.Title,
			Price:     m.Price.Amount.InexactFloat64(),
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal.Amount.InexactFloat64(),
		}
		for _, opt := range m.SelectedOptions {
			switch {
			case domain.EqualAxis(opt.Name, domain.AxisSize):
				item.Size = opt.Value
			case domain.EqualAxis(opt.Name, domain.AxisColor):
				item.Color = opt.Value
			}
		}
		if m.Product.FeaturedImage != nil {
			item.Image = m.Product.FeaturedImage.URL
		}
		view.Items = append(view.Items, item)
	}

	subtotal := cart.Cost.Subtotal.Amount
	total := cart.Cost.Total.Amount
	discount := decimal.Max(decimal.Zero, subtotal.Sub(total))
	view.Summary = Summary{
		Subtotal: subtotal.InexactFloat64(),
		Discount: discount.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
	return view
}
