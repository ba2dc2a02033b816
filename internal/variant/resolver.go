// Package variant picks the purchasable variant for a shopper's size and
// color choice.
package variant

import (
	"strings"

	"ynotnow-storefront/internal/domain"
)

type Outcome string

const (
	// Resolved means VariantID names an available variant to add to the cart.
	Resolved Outcome = "resolved"
	// Incomplete means the shopper still has to pick a size.
	Incomplete Outcome = "incomplete"
	// Unavailable means no available variant satisfies the selection.
	Unavailable Outcome = "unavailable"
)

// Selection holds the shopper's current choices. Color may be a catalog
// color name or the hex value of its swatch.
type Selection struct {
	Size  string `json:"size" form:"size"`
	Color string `json:"color" form:"color"`
}

type Result struct {
	VariantID string  `json:"variantId,omitempty"`
	Outcome   Outcome `json:"outcome"`
	// ColorRelaxed is set when no available variant had the chosen color and
	// the size-only match was used instead.
	ColorRelaxed bool `json:"colorRelaxed,omitempty"`
}

// Resolve maps a selection onto one of the product's variants. Only variants
// that are available for sale are ever returned for products with a size or
// color axis. Scanning is in the gateway's variant order, so the result is
// deterministic for a given product and selection.
func Resolve(p domain.Product, sel Selection) Result {
	hasSize := hasAxis(p, domain.AxisSize)
	hasColor := hasAxis(p, domain.AxisColor)

	if !hasSize && !hasColor {
		return single(p.Variants)
	}
	size := strings.TrimSpace(sel.Size)
	if hasSize && size == "" {
		return Result{Outcome: Incomplete}
	}
	color := ""
	if hasColor {
		color = colorName(axisValues(p, domain.AxisColor), sel.Color)
	}

	matchSize := func(v domain.Variant) bool {
		return !hasSize || strings.EqualFold(v.Option(domain.AxisSize), size)
	}

	var sizeOnly string
	for _, v := range p.Variants {
		if !v.AvailableForSale || !matchSize(v) {
			continue
		}
		if color == "" || strings.EqualFold(v.Option(domain.AxisColor), color) {
			return Result{VariantID: v.ID, Outcome: Resolved}
		}
		if sizeOnly == "" {
			sizeOnly = v.ID
		}
	}
	// Color is only relaxed when a size pins the choice down; without a size
	// axis any fallback would be an arbitrary variant.
	if hasSize && sizeOnly != "" {
		return Result{VariantID: sizeOnly, Outcome: Resolved, ColorRelaxed: true}
	}
	return Result{Outcome: Unavailable}
}

// single handles products without size or color axes.
func single(variants []domain.Variant) Result {
	for _, v := range variants {
		if v.AvailableForSale {
			return Result{VariantID: v.ID, Outcome: Resolved}
		}
	}
	if len(variants) > 0 {
		return Result{VariantID: variants[0].ID, Outcome: Resolved}
	}
	return Result{Outcome: Unavailable}
}

// AutoSelect returns the initial selection for a product page: the size and
// color of the first available variant. A product with nothing available
// gets an empty selection.
func AutoSelect(p domain.Product) Selection {
	for _, v := range p.Variants {
		if !v.AvailableForSale {
			continue
		}
		return Selection{
			Size:  v.Option(domain.AxisSize),
			Color: v.Option(domain.AxisColor),
		}
	}
	return Selection{}
}

func hasAxis(p domain.Product, axis string) bool {
	if _, ok := p.Option(axis); ok {
		return true
	}
	for _, v := range p.Variants {
		if v.Option(axis) != "" {
			return true
		}
	}
	return false
}

// axisValues lists the declared values for an axis, followed by any values
// that only appear on variants.
func axisValues(p domain.Product, axis string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(v string) {
		k := strings.ToLower(v)
		if v == "" || seen[k] {
			return
		}
		seen[k] = true
		out = append(out, v)
	}
	if opt, ok := p.Option(axis); ok {
		for _, v := range opt.Values {
			add(v)
		}
	}
	for _, v := range p.Variants {
		add(v.Option(axis))
	}
	return out
}
