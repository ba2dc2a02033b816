package variant

import "strings"

// palette maps the color names used in the catalog to the hex values the
// swatch picker renders.
var palette = map[string]string{
	"black":     "#000000",
	"white":     "#ffffff",
	"off white": "#f8f4ec",
	"ivory":     "#fffff0",
	"cream":     "#fffdd0",
	"beige":     "#f5f5dc",
	"sand":      "#c2b280",
	"khaki":     "#c3b091",
	"camel":     "#c19a6b",
	"brown":     "#6f4e37",
	"chocolate": "#3f2a1e",
	"grey":      "#808080",
	"gray":      "#808080",
	"charcoal":  "#36454f",
	"heather":   "#b6b6b4",
	"silver":    "#c0c0c0",
	"navy":      "#000080",
	"blue":      "#1f4fd1",
	"sky blue":  "#87ceeb",
	"denim":     "#1560bd",
	"teal":      "#008080",
	"green":     "#2e8b57",
	"olive":     "#708238",
	"sage":      "#9caf88",
	"forest":    "#228b22",
	"mint":      "#98ff98",
	"red":       "#c8102e",
	"burgundy":  "#800020",
	"maroon":    "#800000",
	"pink":      "#ffc0cb",
	"blush":     "#de5d83",
	"purple":    "#6a0dad",
	"lavender":  "#e6e6fa",
	"orange":    "#ff7f00",
	"rust":      "#b7410e",
	"yellow":    "#ffd700",
	"mustard":   "#e1ad01",
	"gold":      "#d4af37",
}

// Hex returns the swatch value for a catalog color name.
func Hex(name string) (string, bool) {
	hex, ok := palette[strings.ToLower(strings.TrimSpace(name))]
	return hex, ok
}

// normalizeHex lowercases a swatch value, adds the leading '#', and expands
// the three digit shorthand. Values that are not hex are returned as "".
func normalizeHex(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	v = strings.TrimPrefix(v, "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return ""
	}
	for _, r := range v {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return ""
		}
	}
	return "#" + v
}

// colorName maps a chosen swatch value back to one of the product's color
// names. The value may already be a name. It returns "" when nothing matches.
func colorName(names []string, chosen string) string {
	chosen = strings.TrimSpace(chosen)
	if chosen == "" {
		return ""
	}
	for _, n := range names {
		if strings.EqualFold(n, chosen) {
			return n
		}
	}
	hex := normalizeHex(chosen)
	if hex == "" {
		return ""
	}
	for _, n := range names {
		if h, ok := Hex(n); ok && h == hex {
			return n
		}
	}
	return ""
}
