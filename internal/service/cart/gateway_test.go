package cart

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ynotnow-storefront/internal/cookie"
	"ynotnow-storefront/internal/gateway"
)

// refusingGateway answers like the hosted gateway does for a tampered cart
// id: a top-level GraphQL error instead of a null cart.
func refusingGateway(t *testing.T) *gateway.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		emptyCart := `{"id":"gid://Cart/fresh","checkoutUrl":"https://checkout","totalQuantity":%d,
			"cost":{"subtotalAmount":{"amount":"0","currencyCode":"USD"},"totalAmount":{"amount":"0","currencyCode":"USD"}},
			"discountCodes":[],"lines":{"edges":[]}}`
		switch {
		case req.Variables["id"] == "garbage":
			_, _ = io.WriteString(w, `{"errors":[{"message":"Variable $id of type ID! was provided invalid value"}]}`)
		case req.Variables["cartId"] == "garbage":
			_, _ = io.WriteString(w, `{"errors":[{"message":"Variable $cartId of type ID! was provided invalid value"}]}`)
		case strings.Contains(req.Query, "cartCreate("):
			_, _ = io.WriteString(w, `{"data":{"cartCreate":{"cart":`+strings.Replace(emptyCart, "%d", "0", 1)+`,"userErrors":[]}}}`)
		case strings.Contains(req.Query, "cartLinesAdd("):
			_, _ = io.WriteString(w, `{"data":{"cartLinesAdd":{"cart":`+strings.Replace(emptyCart, "%d", "1", 1)+`,"userErrors":[]}}}`)
		default:
			t.Errorf("unexpected query %s", req.Query)
		}
	}))
	t.Cleanup(srv.Close)

	client, err := gateway.New(gateway.Config{StoreDomain: srv.URL, AccessToken: "public-token"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestGet_RefusedCookieIsCleared(t *testing.T) {
	svc := New(refusingGateway(t), nil, nil)
	jar := cookie.NewMemoryJar()
	jar.Set(cookie.CartID, "garbage", time.Time{})

	cart, err := svc.Get(context.Background(), jar)
	if err != nil || cart != nil {
		t.Fatalf("expected empty cart, got %+v %v", cart, err)
	}
	if _, ok := jar.Get(cookie.CartID); ok {
		t.Fatal("expected refused cart cookie to be cleared")
	}
}

func TestAdd_RefusedCookieStartsFreshCart(t *testing.T) {
	svc := New(refusingGateway(t), nil, nil)
	jar := cookie.NewMemoryJar()
	jar.Set(cookie.CartID, "garbage", time.Time{})

	cart, err := svc.Add(context.Background(), jar, "gid://Variant/1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.ID != "gid://Cart/fresh" {
		t.Fatalf("expected fresh cart, got %+v", cart)
	}
	if id, _ := jar.Get(cookie.CartID); id != "gid://Cart/fresh" {
		t.Fatalf("expected cookie to point at the fresh cart, got %q", id)
	}
}
