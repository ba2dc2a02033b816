package product

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"ynotnow-storefront/internal/domain"
	"ynotnow-storefront/internal/gateway"
	"ynotnow-storefront/internal/repository/recent"
	"ynotnow-storefront/internal/variant"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 250
	// sitemapLimit bounds how many handles the sitemap asks the gateway for.
	sitemapLimit = 250
)

// sortKeys are the product sort keys the gateway accepts.
var sortKeys = map[string]bool{
	"TITLE":        true,
	"PRODUCT_TYPE": true,
	"VENDOR":       true,
	"UPDATED_AT":   true,
	"CREATED_AT":   true,
	"BEST_SELLING": true,
	"PRICE":        true,
	"ID":           true,
	"RELEVANCE":    true,
}

type catalogGateway interface {
	Products(ctx context.Context, first int) ([]domain.Product, error)
	ProductByHandle(ctx context.Context, handle string) (*domain.Product, error)
	SearchProducts(ctx context.Context, p gateway.SearchParams) ([]domain.Product, error)
}

type Service struct {
	gw     catalogGateway
	recent recent.Repository
	logger *log.Logger
}

// New builds the catalog service. recentRepo may be nil, which disables the
// recently viewed list.
func New(gw catalogGateway, recentRepo recent.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{gw: gw, recent: recentRepo, logger: logger}
}

func (s *Service) List(ctx context.Context, first int) ([]domain.Product, error) {
	n, err := pageSize(first)
	if err != nil {
		return nil, err
	}
	return s.gw.Products(ctx, n)
}

// Get returns domain.ErrNotFound for unknown handles.
func (s *Service) Get(ctx context.Context, handle string) (*domain.Product, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, domain.Invalid("handle required")
	}
	p, err := s.gw.ProductByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// SearchInput mirrors the search endpoint's query string.
type SearchInput struct {
	First       int    `form:"first"`
	Query       string `form:"query"`
	Collection  string `form:"collection"`
	Tags        string `form:"tags"`
	Vendor      string `form:"vendor"`
	ProductType string `form:"productType"`
	PriceMin    string `form:"priceMin"`
	PriceMax    string `form:"priceMax"`
	SortKey     string `form:"sortKey"`
	Reverse     bool   `form:"reverse"`
}

func (s *Service) Search(ctx context.Context, in SearchInput) ([]domain.Product, error) {
	params, err := in.params()
	if err != nil {
		return nil, err
	}
	return s.gw.SearchProducts(ctx, params)
}

func (in SearchInput) params() (gateway.SearchParams, error) {
	n, err := pageSize(in.First)
	if err != nil {
		return gateway.SearchParams{}, err
	}
	p := gateway.SearchParams{
		First:       n,
		Query:       strings.TrimSpace(in.Query),
		Collection:  strings.TrimSpace(in.Collection),
		Vendor:      strings.TrimSpace(in.Vendor),
		ProductType: strings.TrimSpace(in.ProductType),
		SortKey:     strings.ToUpper(strings.TrimSpace(in.SortKey)),
		Reverse:     in.Reverse,
	}
	for _, tag := range strings.Split(in.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			p.Tags = append(p.Tags, tag)
		}
	}
	if p.SortKey != "" && !sortKeys[p.SortKey] {
		return gateway.SearchParams{}, domain.Invalid(fmt.Sprintf("unsupported sortKey %q", in.SortKey))
	}
	if p.PriceMin, err = parsePrice("priceMin", in.PriceMin); err != nil {
		return gateway.SearchParams{}, err
	}
	if p.PriceMax, err = parsePrice("priceMax", in.PriceMax); err != nil {
		return gateway.SearchParams{}, err
	}
	if p.PriceMin != nil && p.PriceMax != nil && p.PriceMin.GreaterThan(*p.PriceMax) {
		return gateway.SearchParams{}, domain.Invalid("priceMin must not exceed priceMax")
	}
	return p, nil
}

// ResolveVariant picks the variant for a size/color selection on a product.
func (s *Service) ResolveVariant(ctx context.Context, handle string, sel variant.Selection) (variant.Result, error) {
	p, err := s.Get(ctx, handle)
	if err != nil {
		return variant.Result{}, err
	}
	return variant.Resolve(*p, sel), nil
}

// Handles lists product handles for the sitemap.
func (s *Service) Handles(ctx context.Context) ([]string, error) {
	products, err := s.gw.Products(ctx, sitemapLimit)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Handle)
	}
	return out, nil
}

// Viewed records a product view. Failures are logged and swallowed; the
// list is a convenience only.
func (s *Service) Viewed(ctx context.Context, visitorID, handle string) {
	if s.recent == nil || visitorID == "" || handle == "" {
		return
	}
	if err := s.recent.Push(ctx, visitorID, handle); err != nil {
		s.logger.Printf("product service: record view visitor=%s handle=%s error=%v", visitorID, handle, err)
	}
}

// RecentlyViewed returns the visitor's recent products, most recent first,
// leaving out exclude and any handle the gateway no longer knows.
func (s *Service) RecentlyViewed(ctx context.Context, visitorID, exclude string) ([]domain.Product, error) {
	out := []domain.Product{}
	if s.recent == nil || visitorID == "" {
		return out, nil
	}
	handles, err := s.recent.List(ctx, visitorID)
	if err != nil {
		s.logger.Printf("product service: recent list visitor=%s error=%v", visitorID, err)
		return out, nil
	}
	for _, h := range handles {
		if h == exclude {
			continue
		}
		p, err := s.gw.ProductByHandle(ctx, h)
		if err != nil {
			return nil, err
		}
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func pageSize(first int) (int, error) {
	if first == 0 {
		return DefaultPageSize, nil
	}
	if first < 1 || first > MaxPageSize {
		return 0, domain.Invalid(fmt.Sprintf("first must be between 1 and %d", MaxPageSize))
	}
	return first, nil
}

func parsePrice(name, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, domain.Invalid(fmt.Sprintf("%s must be a non-negative number", name))
	}
	return &d, nil
}
