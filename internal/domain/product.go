package domain

import "github.com/shopspring/decimal"

// Money is an amount in a single currency. Amounts arrive as decimal strings.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

type PriceRange struct {
	Min Money `json:"min"`
	Max Money `json:"max"`
}

// ProductOption is a declared option axis, e.g. Size with values S, M, L.
type ProductOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// SelectedOption is the value a variant carries for one axis.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Variant struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	SelectedOptions   []SelectedOption `json:"selectedOptions"`
	AvailableForSale  bool             `json:"availableForSale"`
	QuantityAvailable *int             `json:"quantityAvailable,omitempty"`
	Price             Money            `json:"price"`
	Image             *Image           `json:"image,omitempty"`
}

// Option returns the value for the named axis, or "" if the variant has none.
func (v Variant) Option(name string) string {
	for _, o := range v.SelectedOptions {
		if EqualAxis(o.Name, name) {
			return o.Value
		}
	}
	return ""
}

type Product struct {
	ID               string          `json:"id"`
	Handle           string          `json:"handle"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	Vendor           string          `json:"vendor,omitempty"`
	ProductType      string          `json:"productType,omitempty"`
	Tags             []string        `json:"tags,omitempty"`
	AvailableForSale bool            `json:"availableForSale"`
	PriceRange       PriceRange      `json:"priceRange"`
	FeaturedImage    *Image          `json:"featuredImage,omitempty"`
	Images           []Image         `json:"images"`
	Options          []ProductOption `json:"options"`
	Variants         []Variant       `json:"variants"`
}

// Option returns the declared axis with the given name.
func (p Product) Option(name string) (ProductOption, bool) {
	for _, o := range p.Options {
		if EqualAxis(o.Name, name) {
			return o, true
		}
	}
	return ProductOption{}, false
}
