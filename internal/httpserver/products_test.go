package httpserver

import (
	"net/http"
	"strings"
	"testing"

	"ynotnow-storefront/internal/cookie"
	"ynotnow-storefront/internal/domain"
	"ynotnow-storefront/internal/repository/recent"
	productsvc "ynotnow-storefront/internal/service/product"
)

func TestListProducts_Pagination(t *testing.T) {
	env := newTestEnv(t, nil)

	cases := map[string]int{
		"/api/products":           http.StatusOK,
		"/api/products?first=1":   http.StatusOK,
		"/api/products?first=250": http.StatusOK,
		"/api/products?first=0":   http.StatusBadRequest,
		"/api/products?first=251": http.StatusBadRequest,
		"/api/products?first=ten": http.StatusBadRequest,
	}
	for path, want := range cases {
		rec := env.do(http.MethodGet, path, "")
		if rec.Code != want {
			t.Fatalf("%s: expected %d, got %d body=%s", path, want, rec.Code, rec.Body.String())
		}
		if want == http.StatusBadRequest && !strings.Contains(rec.Body.String(), `"error":"first must be`) {
			t.Fatalf("%s: unexpected body %s", path, rec.Body.String())
		}
	}
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/products/boxy-tee", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"handle":"boxy-tee"`) || !strings.Contains(rec.Body.String(), `"selection":{"size":"S"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if c := responseCookie(rec, cookie.VisitorID); c == nil || !c.HttpOnly || c.Value == "" {
		t.Fatalf("expected visitor cookie, got %+v", c)
	}

	if rec := env.do(http.MethodGet, "/api/products/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown handle, got %d", rec.Code)
	}
}

func TestSearchProducts_Validation(t *testing.T) {
	env := newTestEnv(t, nil)

	if rec := env.do(http.MethodGet, "/api/products/search?query=tee&tags=summer&priceMin=5&sortKey=PRICE", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	for _, q := range []string{"sortKey=HOT", "priceMin=abc", "priceMin=9&priceMax=1", "first=999"} {
		rec := env.do(http.MethodGet, "/api/products/search?"+q, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestResolveVariant(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/products/boxy-tee/variant?size=M", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"variantId":"v-m"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
	rec = env.do(http.MethodGet, "/api/products/boxy-tee/variant", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"outcome":"incomplete"`) || strings.Contains(rec.Body.String(), "variantId") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRecentlyViewed(t *testing.T) {
	catalog := &stubCatalog{products: []domain.Product{boxyTee()}}
	env := newTestEnv(t, func(d *Deps) {
		d.ProductSvc = productsvc.New(catalog, recent.NewMemory(), nil)
	})

	rec := env.do(http.MethodGet, "/api/recently-viewed", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"products":[]`) {
		t.Fatalf("expected empty list for new visitor, got %d %s", rec.Code, rec.Body.String())
	}

	view := env.do(http.MethodGet, "/api/products/boxy-tee", "")
	visitor := responseCookie(view, cookie.VisitorID)
	if visitor == nil {
		t.Fatal("expected visitor cookie")
	}
	rec = env.do(http.MethodGet, "/api/recently-viewed", "", visitor)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"handle":"boxy-tee"`) {
		t.Fatalf("expected viewed product, got %d %s", rec.Code, rec.Body.String())
	}
	rec = env.do(http.MethodGet, "/api/recently-viewed?exclude=boxy-tee", "", visitor)
	if !strings.Contains(rec.Body.String(), `"products":[]`) {
		t.Fatalf("expected excluded product to be left out, got %s", rec.Body.String())
	}
}

func TestReviews(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/products/boxy-tee/reviews", `{"author":"Ana","rating":5,"body":"Great"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	rec = env.do(http.MethodPost, "/api/products/boxy-tee/reviews", `{"author":"Ana","rating":9,"body":"Great"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad rating, got %d", rec.Code)
	}
	rec = env.do(http.MethodPost, "/api/products/boxy-tee/reviews", `{"author":"   ","rating":4,"body":"Great"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"error":"author is required"`) {
		t.Fatalf("expected 400 for blank author, got %d %s", rec.Code, rec.Body.String())
	}
	rec = env.do(http.MethodPost, "/api/products/boxy-tee/reviews", `{"author":"Ana","rating":4,"body":"`+strings.Repeat("x", 4001)+`"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "body must be at most 4000 characters") {
		t.Fatalf("expected 400 for long body, got %d %s", rec.Code, rec.Body.String())
	}
	rec = env.do(http.MethodPost, "/api/products/ghost/reviews", `{"author":"Ana","rating":4,"body":"Great"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", rec.Code)
	}

	rec = env.do(http.MethodGet, "/api/products/boxy-tee/reviews", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"summary":{"count":1,"average":5}`) {
		t.Fatalf("unexpected reviews response %d %s", rec.Code, rec.Body.String())
	}
}
