package gateway

import (
	"context"
	"fmt"
	"strings"

	"ynotnow-storefront/internal/domain"

	"github.com/shopspring/decimal"
)

const productFields = `
fragment ProductFields on Product {
  id
  handle
  title
  description
  vendor
  productType
  tags
  availableForSale
  priceRange {
    minVariantPrice { amount currencyCode }
    maxVariantPrice { amount currencyCode }
  }
  featuredImage { url altText }
  images(first: 20) { edges { node { url altText } } }
  options { name values }
  variants(first: 100) {
    edges {
      node {
        id
        title
        availableForSale
        quantityAvailable
        selectedOptions { name value }
        price { amount currencyCode }
        image { url altText }
      }
    }
  }
}
`

const productsQuery = `
query Products($first: Int!) {
  products(first: $first) { edges { node { ...ProductFields } } }
}
` + productFields

const productByHandleQuery = `
query ProductByHandle($handle: String!) {
  product(handle: $handle) { ...ProductFields }
}
` + productFields

const searchProductsQuery = `
query SearchProducts($first: Int!, $query: String, $sortKey: ProductSortKeys, $reverse: Boolean) {
  products(first: $first, query: $query, sortKey: $sortKey, reverse: $reverse) {
    edges { node { ...ProductFields } }
  }
}
` + productFields

const collectionProductsQuery = `
query CollectionProducts($handle: String!, $first: Int!, $sortKey: ProductCollectionSortKeys, $reverse: Boolean, $filters: [ProductFilter!]) {
  collection(handle: $handle) {
    products(first: $first, sortKey: $sortKey, reverse: $reverse, filters: $filters) {
      edges { node { ...ProductFields } }
    }
  }
}
` + productFields

type rawProduct struct {
	ID               string   `json:"id"`
	Handle           string   `json:"handle"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Vendor           string   `json:"vendor"`
	ProductType      string   `json:"productType"`
	Tags             []string `json:"tags"`
	AvailableForSale bool     `json:"availableForSale"`
	PriceRange       struct {
		MinVariantPrice domain.Money `json:"minVariantPrice"`
		MaxVariantPrice domain.Money `json:"maxVariantPrice"`
	} `json:"priceRange"`
	FeaturedImage *domain.Image              `json:"featuredImage"`
	Images        connection[domain.Image]   `json:"images"`
	Options       []domain.ProductOption     `json:"options"`
	Variants      connection[domain.Variant] `json:"variants"`
}

func (r rawProduct) toDomain() domain.Product {
	return domain.Product{
		ID:               r.ID,
		Handle:           r.Handle,
		Title:            r.Title,
		Description:      r.Description,
		Vendor:           r.Vendor,
		ProductType:      r.ProductType,
		Tags:             r.Tags,
		AvailableForSale: r.AvailableForSale,
		PriceRange: domain.PriceRange{
			Min: r.PriceRange.MinVariantPrice,
			Max: r.PriceRange.MaxVariantPrice,
		},
		FeaturedImage: r.FeaturedImage,
		Images:        r.Images.nodes(),
		Options:       r.Options,
		Variants:      r.Variants.nodes(),
	}
}

func toProducts(conn connection[rawProduct]) []domain.Product {
	out := make([]domain.Product, 0, len(conn.Edges))
	for _, e := range conn.Edges {
		out = append(out, e.Node.toDomain())
	}
	return out
}

// Products lists the first n products in the gateway's default order.
func (c *Client) Products(ctx context.Context, first int) ([]domain.Product, error) {
	var data struct {
		Products connection[rawProduct] `json:"products"`
	}
	if err := c.do(ctx, "products", productsQuery, map[string]interface{}{"first": first}, &data); err != nil {
		return nil, err
	}
	return toProducts(data.Products), nil
}

// ProductByHandle returns nil without error when no product has the handle.
func (c *Client) ProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	var data struct {
		Product *rawProduct `json:"product"`
	}
	if err := c.do(ctx, "productByHandle", productByHandleQuery, map[string]interface{}{"handle": handle}, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, nil
	}
	p := data.Product.toDomain()
	return &p, nil
}

// SearchParams narrows and orders a product listing.
type SearchParams struct {
	First       int
	Query       string
	Collection  string
	Tags        []string
	Vendor      string
	ProductType string
	PriceMin    *decimal.Decimal
	PriceMax    *decimal.Decimal
	SortKey     string
	Reverse     bool
}

// SearchProducts runs a filtered listing. With a collection handle the
// collection's product connection is queried using structured filters;
// otherwise the filters are folded into the search query syntax. An unknown
// collection yields an empty list.
func (c *Client) SearchProducts(ctx context.Context, p SearchParams) ([]domain.Product, error) {
	if p.Collection != "" {
		vars := map[string]interface{}{
			"handle":  p.Collection,
			"first":   p.First,
			"reverse": p.Reverse,
			"filters": collectionFilters(p),
		}
		if key := collectionSortKey(p.SortKey); key != "" {
			vars["sortKey"] = key
		}
		var data struct {
			Collection *struct {
				Products connection[rawProduct] `json:"products"`
			} `json:"collection"`
		}
		if err := c.do(ctx, "collectionProducts", collectionProductsQuery, vars, &data); err != nil {
			return nil, err
		}
		if data.Collection == nil {
			return []domain.Product{}, nil
		}
		return toProducts(data.Collection.Products), nil
	}

	vars := map[string]interface{}{
		"first":   p.First,
		"reverse": p.Reverse,
	}
	if q := searchQuery(p); q != "" {
		vars["query"] = q
	}
	if p.SortKey != "" {
		vars["sortKey"] = p.SortKey
	}
	var data struct {
		Products connection[rawProduct] `json:"products"`
	}
	if err := c.do(ctx, "searchProducts", searchProductsQuery, vars, &data); err != nil {
		return nil, err
	}
	return toProducts(data.Products), nil
}

// searchQuery renders filters in the gateway's search syntax, e.g.
// `shirt tag:summer vendor:"YNOTNOW" variants.price:>=10`.
func searchQuery(p SearchParams) string {
	var parts []string
	if q := strings.TrimSpace(p.Query); q != "" {
		parts = append(parts, q)
	}
	for _, tag := range p.Tags {
		parts = append(parts, "tag:"+quoteTerm(tag))
	}
	if p.Vendor != "" {
		parts = append(parts, "vendor:"+quoteTerm(p.Vendor))
	}
	if p.ProductType != "" {
		parts = append(parts, "product_type:"+quoteTerm(p.ProductType))
	}
	if p.PriceMin != nil {
		parts = append(parts, "variants.price:>="+p.PriceMin.String())
	}
	if p.PriceMax != nil {
		parts = append(parts, "variants.price:<="+p.PriceMax.String())
	}
	return strings.Join(parts, " ")
}

func quoteTerm(v string) string {
	if strings.ContainsAny(v, " \t:\"") {
		return fmt.Sprintf("%q", v)
	}
	return v
}

func collectionFilters(p SearchParams) []map[string]interface{} {
	filters := []map[string]interface{}{}
	for _, tag := range p.Tags {
		filters = append(filters, map[string]interface{}{"tag": tag})
	}
	if p.Vendor != "" {
		filters = append(filters, map[string]interface{}{"productVendor": p.Vendor})
	}
	if p.ProductType != "" {
		filters = append(filters, map[string]interface{}{"productType": p.ProductType})
	}
	if p.PriceMin != nil || p.PriceMax != nil {
		price := map[string]interface{}{}
		if p.PriceMin != nil {
			price["min"] = p.PriceMin.InexactFloat64()
		}
		if p.PriceMax != nil {
			price["max"] = p.PriceMax.InexactFloat64()
		}
		filters = append(filters, map[string]interface{}{"price": price})
	}
	return filters
}

// collectionSortKey maps product sort keys onto the collection enum, which
// names a few of them differently.
func collectionSortKey(key string) string {
	switch key {
	case "":
		return ""
	case "CREATED_AT":
		return "CREATED"
	case "PRODUCT_TYPE", "VENDOR", "UPDATED_AT":
		return "COLLECTION_DEFAULT"
	default:
		return key
	}
}
