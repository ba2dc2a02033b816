package httpserver

import (
	"net/http"
	"strings"
	"testing"

	"ynotnow-storefront/internal/cookie"
)

func TestCart_EmptyWithoutCookie(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/cart", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"cart":null`) || !strings.Contains(body, `"items":[]`) {
		t.Fatalf("unexpected body %s", body)
	}
	if !strings.Contains(body, `"summary":{"subtotal":0,"discount":0,"deliveryFee":0,"total":0}`) {
		t.Fatalf("expected zero summary, got %s", body)
	}
}

func TestCart_AddCreatesOneCartThenRemoveClearsCookie(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/cart", `{"merchandiseId":"v-m","quantity":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	cartCookie := responseCookie(rec, cookie.CartID)
	if cartCookie == nil || cartCookie.Value != "cart-1" || !cartCookie.HttpOnly || cartCookie.Path != "/" {
		t.Fatalf("expected cart cookie, got %+v", cartCookie)
	}
	if len(env.carts.carts) != 1 {
		t.Fatalf("expected exactly one cart, got %d", len(env.carts.carts))
	}

	rec = env.do(http.MethodPost, "/api/cart", `{"handle":"boxy-tee","size":"S"}`, cartCookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"totalQuantity":3`) {
		t.Fatalf("unexpected second add %d %s", rec.Code, rec.Body.String())
	}
	if len(env.carts.carts) != 1 {
		t.Fatalf("second add must reuse the cart, got %d carts", len(env.carts.carts))
	}
	lines := env.carts.carts["cart-1"].Lines
	if len(lines) != 2 || lines[1].Merchandise.ID != "v-s" {
		t.Fatalf("unexpected lines %+v", lines)
	}

	body := `{"lineIds":["` + lines[0].ID + `","` + lines[1].ID + `"]}`
	rec = env.do(http.MethodDelete, "/api/cart", body, cartCookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on remove, got %d body=%s", rec.Code, rec.Body.String())
	}
	cleared := responseCookie(rec, cookie.CartID)
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Fatalf("expected cart cookie to be cleared, got %+v", cleared)
	}

	rec = env.do(http.MethodGet, "/api/cart", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"cart":null`) {
		t.Fatalf("expected null cart after clearing, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestCart_AddValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	cases := map[string]struct {
		body string
		code int
		want string
	}{
		"no target":     {body: `{"quantity":1}`, code: http.StatusBadRequest, want: "merchandiseId or handle is required"},
		"zero quantity": {body: `{"merchandiseId":"v-m","quantity":0}`, code: http.StatusBadRequest, want: "quantity must be at least 1"},
		"no size":       {body: `{"handle":"boxy-tee"}`, code: http.StatusBadRequest, want: "please select a size"},
		"sold out":      {body: `{"handle":"boxy-tee","size":"XL"}`, code: http.StatusBadRequest, want: "sold out"},
		"unknown":       {body: `{"handle":"ghost","size":"M"}`, code: http.StatusNotFound, want: `"error"`},
	}
	for name, tc := range cases {
		rec := env.do(http.MethodPost, "/api/cart", tc.body)
		if rec.Code != tc.code || !strings.Contains(rec.Body.String(), tc.want) {
			t.Fatalf("%s: expected %d containing %q, got %d %s", name, tc.code, tc.want, rec.Code, rec.Body.String())
		}
	}
	if len(env.carts.carts) != 0 {
		t.Fatalf("rejected adds must not create carts, got %d", len(env.carts.carts))
	}
}

func TestCart_UpdateRejectsZeroQuantity(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodPost, "/api/cart", `{"merchandiseId":"v-m"}`)
	cartCookie := responseCookie(rec, cookie.CartID)
	lineID := env.carts.carts["cart-1"].Lines[0].ID

	rec = env.do(http.MethodPut, "/api/cart", `{"lineId":"`+lineID+`","quantity":0}`, cartCookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
	rec = env.do(http.MethodPut, "/api/cart", `{"lineId":"`+lineID+`","quantity":4}`, cartCookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"totalQuantity":4`) {
		t.Fatalf("unexpected update %d %s", rec.Code, rec.Body.String())
	}
}

func TestCart_MutationsWithoutCartAre404(t *testing.T) {
	env := newTestEnv(t, nil)

	requests := []struct{ method, path, body string }{
		{http.MethodPut, "/api/cart", `{"lineId":"l1","quantity":1}`},
		{http.MethodDelete, "/api/cart", `{"lineIds":["l1"]}`},
		{http.MethodPost, "/api/cart/discount", `{"code":"SAVE10"}`},
		{http.MethodDelete, "/api/cart/discount", `{"code":"SAVE10"}`},
	}
	for _, r := range requests {
		rec := env.do(r.method, r.path, r.body)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d body=%s", r.method, r.path, rec.Code, rec.Body.String())
		}
	}
}

func TestCart_DiscountCodes(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodPost, "/api/cart", `{"merchandiseId":"v-m"}`)
	cartCookie := responseCookie(rec, cookie.CartID)

	rec = env.do(http.MethodPost, "/api/cart/discount", `{"code":"SAVE10"}`, cartCookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"discountCodes":["SAVE10"]`) {
		t.Fatalf("unexpected apply %d %s", rec.Code, rec.Body.String())
	}
	rec = env.do(http.MethodDelete, "/api/cart/discount", `{"code":"save10"}`, cartCookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"discountCodes":[]`) {
		t.Fatalf("unexpected remove %d %s", rec.Code, rec.Body.String())
	}
	if rec := env.do(http.MethodPost, "/api/cart/discount", `{}`, cartCookie); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing code, got %d", rec.Code)
	}
}

func TestCart_Shipping(t *testing.T) {
	env := newTestEnv(t, nil)

	if rec := env.do(http.MethodPost, "/api/cart/shipping", `{"city":"Austin"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without country, got %d", rec.Code)
	}
	rec := env.do(http.MethodPost, "/api/cart/shipping", `{"country":"us"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "cart is empty") {
		t.Fatalf("expected empty cart error, got %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodPost, "/api/cart", `{"merchandiseId":"v-m"}`)
	cartCookie := responseCookie(rec, cookie.CartID)
	rec = env.do(http.MethodPost, "/api/cart/shipping", `{"country":"us","zip":"73301"}`, cartCookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"handle":"standard-us"`) {
		t.Fatalf("unexpected rates %d %s", rec.Code, rec.Body.String())
	}
}

func TestCart_BlankMerchandiseIDResolvesByHandle(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/cart", `{"merchandiseId":"  ","handle":" boxy-tee ","size":"M"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if lines := env.carts.carts["cart-1"].Lines; len(lines) != 1 || lines[0].Merchandise.ID != "v-m" {
		t.Fatalf("expected the resolved M variant, got %+v", lines)
	}
}
