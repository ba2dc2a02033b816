package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ynotnow-storefront/internal/domain"

	"github.com/shopspring/decimal"
)

type recordedRequest struct {
	Token     string
	Query     string
	Variables map[string]interface{}
}

// newTestClient serves every GraphQL call with respond and records requests.
func newTestClient(t *testing.T, respond func(w http.ResponseWriter, req recordedRequest)) (*Client, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/2024-10/graphql.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var gql graphqlRequest
		if err := json.Unmarshal(body, &gql); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		rec := recordedRequest{
			Token:     r.Header.Get("X-Shopify-Storefront-Access-Token"),
			Query:     gql.Query,
			Variables: gql.Variables,
		}
		seen = append(seen, rec)
		respond(w, rec)
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{StoreDomain: srv.URL, AccessToken: "public-token"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, &seen
}

func mustDecimal(t *testing.T, v string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(v)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", v, err)
	}
	return d
}

func writeData(w http.ResponseWriter, data string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"data":`+data+`}`)
}

func TestNew_RequiresCredentials(t *testing.T) {
	if _, err := New(Config{AccessToken: "x"}); err == nil {
		t.Fatalf("expected error without store domain")
	}
	if _, err := New(Config{StoreDomain: "shop.example"}); err == nil {
		t.Fatalf("expected error without token")
	}
	c, err := New(Config{StoreDomain: "shop.example/", AccessToken: "x", APIVersion: "2025-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.endpoint != "https://shop.example/api/2025-01/graphql.json" {
		t.Fatalf("unexpected endpoint %s", c.endpoint)
	}
}

func TestProductByHandle_DecodesProduct(t *testing.T) {
	client, seen := newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		writeData(w, `{"product":{
			"id":"gid://Product/1","handle":"tee","title":"Tee","availableForSale":true,
			"priceRange":{"minVariantPrice":{"amount":"25.0","currencyCode":"USD"},"maxVariantPrice":{"amount":"30.0","currencyCode":"USD"}},
			"images":{"edges":[{"node":{"url":"https://cdn/tee.png"}}]},
			"options":[{"name":"Size","values":["M"]}],
			"variants":{"edges":[{"node":{"id":"gid://Variant/1","title":"M","availableForSale":true,
				"selectedOptions":[{"name":"Size","value":"M"}],"price":{"amount":"25.0","currencyCode":"USD"}}}]}
		}}`)
	})

	p, err := client.ProductByHandle(context.Background(), "tee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || p.Handle != "tee" || len(p.Variants) != 1 || len(p.Images) != 1 {
		t.Fatalf("unexpected product %+v", p)
	}
	if p.Variants[0].Option("size") != "M" {
		t.Fatalf("expected size M, got %q", p.Variants[0].Option("size"))
	}
	if p.PriceRange.Max.Amount.String() != "30" {
		t.Fatalf("unexpected price range %+v", p.PriceRange)
	}
	if got := (*seen)[0]; got.Token != "public-token" || got.Variables["handle"] != "tee" {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestProductByHandle_MissingIsNil(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		writeData(w, `{"product":null}`)
	})
	p, err := client.ProductByHandle(context.Background(), "nope")
	if err != nil || p != nil {
		t.Fatalf("expected nil product and nil error, got %+v %v", p, err)
	}
}

func TestDo_GraphQLErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		_, _ = io.WriteString(w, `{"errors":[{"message":"Field 'x' doesn't exist"}]}`)
	})
	_, err := client.Products(context.Background(), 5)
	var gwErr *Error
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if len(gwErr.Messages) != 1 || !strings.Contains(gwErr.Error(), "doesn't exist") {
		t.Fatalf("unexpected error %v", gwErr)
	}
}

func TestDo_HTTPStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, "Unauthorized")
	})
	_, err := client.Products(context.Background(), 5)
	var gwErr *Error
	if !errors.As(err, &gwErr) || gwErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 gateway error, got %v", err)
	}
}

func TestSearchQuery_FoldsFilters(t *testing.T) {
	floor := mustDecimal(t, "10")
	q := searchQuery(SearchParams{
		Query:       "linen",
		Tags:        []string{"summer"},
		Vendor:      "YNOT NOW",
		ProductType: "Shirts",
		PriceMin:    &floor,
	})
	want := `linen tag:summer vendor:"YNOT NOW" product_type:Shirts variants.price:>=10`
	if q != want {
		t.Fatalf("expected %q, got %q", want, q)
	}
}

func TestSearchProducts_UnknownCollectionIsEmpty(t *testing.T) {
	client, seen := newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		writeData(w, `{"collection":null}`)
	})
	out, err := client.SearchProducts(context.Background(), SearchParams{First: 10, Collection: "ghost", SortKey: "CREATED_AT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no products, got %d", len(out))
	}
	if (*seen)[0].Variables["sortKey"] != "CREATED" {
		t.Fatalf("expected collection sort key, got %v", (*seen)[0].Variables["sortKey"])
	}
}

func TestCart_NullIsNil(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		writeData(w, `{"cart":null}`)
	})
	cart, err := client.Cart(context.Background(), "gid://Cart/gone")
	if err != nil || cart != nil {
		t.Fatalf("expected nil cart, got %+v %v", cart, err)
	}
}

func TestAddLines_DecodesCart(t *testing.T) {
	client, seen := newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		writeData(w, `{"cartLinesAdd":{"cart":{
			"id":"gid://Cart/1","checkoutUrl":"https://checkout","totalQuantity":2,
			"cost":{"subtotalAmount":{"amount":"62.99","currencyCode":"USD"},"totalAmount":{"amount":"59.99","currencyCode":"USD"}},
			"discountCodes":[{"code":"SAVE","applicable":true}],
			"lines":{"edges":[{"node":{"id":"gid://Line/1","quantity":2,
				"cost":{"totalAmount":{"amount":"62.99","currencyCode":"USD"}},
				"merchandise":{"id":"gid://Variant/1","title":"M","selectedOptions":[{"name":"Size","value":"M"}],
					"price":{"amount":"31.495","currencyCode":"USD"},"product":{"handle":"tee","title":"Tee"}}}}]}
		},"userErrors":[]}}`)
	})

	cart, err := client.AddLines(context.Background(), "gid://Cart/1", []LineInput{{MerchandiseID: "gid://Variant/1", Quantity: 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.TotalQuantity != 2 || len(cart.Lines) != 1 || cart.Lines[0].Merchandise.Product.Title != "Tee" {
		t.Fatalf("unexpected cart %+v", cart)
	}
	if codes := cart.Codes(); len(codes) != 1 || codes[0] != "SAVE" {
		t.Fatalf("unexpected codes %v", codes)
	}
	lines, ok := (*seen)[0].Variables["lines"].([]interface{})
	if !ok || len(lines) != 1 {
		t.Fatalf("unexpected lines variable %v", (*seen)[0].Variables["lines"])
	}
}

func TestCartMutation_MissingCartIsNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		writeData(w, `{"cartLinesRemove":{"cart":null,"userErrors":[{"field":["cartId"],"message":"The specified cart does not exist.","code":"INVALID"}]}}`)
	})
	_, err := client.RemoveLines(context.Background(), "gid://Cart/gone", []string{"gid://Line/1"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCartMutation_UserErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		writeData(w, `{"cartLinesAdd":{"cart":null,"userErrors":[{"field":["lines","0","merchandiseId"],"message":"Merchandise is sold out","code":"INVALID"}]}}`)
	})
	_, err := client.AddLines(context.Background(), "gid://Cart/1", []LineInput{{MerchandiseID: "v", Quantity: 1}})
	var userErrs UserErrors
	if !errors.As(err, &userErrs) || userErrs.Error() != "Merchandise is sold out" {
		t.Fatalf("expected user errors, got %v", err)
	}
}

func TestShippingRates_FlattensDeliveryGroups(t *testing.T) {
	client, seen := newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		writeData(w, `{"cartBuyerIdentityUpdate":{"cart":{"deliveryGroups":{"edges":[{"node":{"deliveryOptions":[
			{"handle":"std","title":"Standard","estimatedCost":{"amount":"5.00","currencyCode":"USD"}},
			{"handle":"exp","title":"Express","estimatedCost":{"amount":"15.00","currencyCode":"USD"}}
		]}}]}},"userErrors":[]}}`)
	})
	rates, err := client.ShippingRates(context.Background(), "gid://Cart/1", domain.Address{Country: "US", Zip: "10001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rates) != 2 || rates[1].Handle != "exp" || rates[1].Cost.String() != "15" {
		t.Fatalf("unexpected rates %+v", rates)
	}
	identity := (*seen)[0].Variables["buyerIdentity"].(map[string]interface{})
	if identity["countryCode"] != "US" {
		t.Fatalf("unexpected buyer identity %v", identity)
	}
}

func TestCustomer_NullIsUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		writeData(w, `{"customer":null}`)
	})
	_, err := client.Customer(context.Background(), "expired")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateAccessToken_BadCredentials(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		writeData(w, `{"customerAccessTokenCreate":{"customerAccessToken":null,"customerUserErrors":[{"field":["input"],"message":"Unidentified customer","code":"UNIDENTIFIED_CUSTOMER"}]}}`)
	})
	_, err := client.CreateAccessToken(context.Background(), "a@b.c", "wrong")
	var userErrs UserErrors
	if !errors.As(err, &userErrs) || !userErrs.hasCode("UNIDENTIFIED_CUSTOMER") {
		t.Fatalf("expected unidentified customer, got %v", err)
	}
}

func TestCustomerOrders_DecodesTracking(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		writeData(w, `{"customer":{"orders":{"edges":[{"node":{
			"id":"gid://Order/1","name":"#1001","orderNumber":1001,"processedAt":"2026-01-02T03:04:05Z",
			"fulfillmentStatus":"FULFILLED",
			"totalPrice":{"amount":"59.99","currencyCode":"USD"},
			"lineItems":{"edges":[{"node":{"title":"Tee","quantity":1,"originalTotalPrice":{"amount":"59.99","currencyCode":"USD"},"variant":{"title":"M","image":{"url":"https://cdn/m.png"}}}}]},
			"successfulFulfillments":[{"trackingCompany":"UPS","trackingInfo":[{"number":"1Z","url":"https://ups/1Z"}]}]
		}}]}}}`)
	})
	orders, err := client.CustomerOrders(context.Background(), "tok", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 || orders[0].Name != "#1001" {
		t.Fatalf("unexpected orders %+v", orders)
	}
	o := orders[0]
	if len(o.Lines) != 1 || o.Lines[0].ImageURL != "https://cdn/m.png" || o.Lines[0].VariantTitle != "M" {
		t.Fatalf("unexpected lines %+v", o.Lines)
	}
	if len(o.Fulfillments) != 1 || o.Fulfillments[0].Tracking[0].Number != "1Z" {
		t.Fatalf("unexpected fulfillments %+v", o.Fulfillments)
	}
}

func TestCart_RejectedIDIsNil(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		_, _ = io.WriteString(w, `{"errors":[{"message":"Variable $id of type ID! was provided invalid value"}]}`)
	})
	cart, err := client.Cart(context.Background(), "garbage")
	if err != nil || cart != nil {
		t.Fatalf("expected nil cart for a refused id, got %+v %v", cart, err)
	}
}

func TestCartMutation_RejectedCartIDIsNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		_, _ = io.WriteString(w, `{"errors":[{"message":"Invalid global id 'garbage'"}]}`)
	})
	_, err := client.AddLines(context.Background(), "garbage", []LineInput{{MerchandiseID: "gid://Variant/1", Quantity: 1}})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := client.UpdateDiscountCodes(context.Background(), "garbage", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from discount update, got %v", err)
	}
}

func TestCartMutation_OtherGraphQLErrorsStayUpstream(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		_, _ = io.WriteString(w, `{"errors":[{"message":"Variable $lines of type [CartLineInput!]! was provided invalid value"}]}`)
	})
	_, err := client.AddLines(context.Background(), "gid://Cart/1", []LineInput{{MerchandiseID: "bad", Quantity: 1}})
	var gwErr *Error
	if errors.Is(err, domain.ErrNotFound) || !errors.As(err, &gwErr) {
		t.Fatalf("expected upstream *Error, got %v", err)
	}

	client, _ = newTestClient(t, func(w http.ResponseWriter, _ recordedRequest) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"errors":[{"message":"Variable $id of type ID! was provided invalid value"}]}`)
	})
	if _, err := client.Cart(context.Background(), "gid://Cart/1"); err == nil {
		t.Fatal("expected a 5xx to stay an error")
	}
}
