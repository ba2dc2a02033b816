package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"ynotnow-storefront/internal/cookie"
	"ynotnow-storefront/internal/domain"
	"ynotnow-storefront/internal/events"
	"ynotnow-storefront/internal/gateway"
)

var (
	// ErrNoCart is returned by mutations that need an existing cart when the
	// shopper has none, or the gateway no longer recognises it.
	ErrNoCart = fmt.Errorf("no active cart: %w", domain.ErrNotFound)
	// ErrEmptyCart is returned when shipping is requested for an empty cart.
	ErrEmptyCart = domain.Invalid("cart is empty; add an item before estimating shipping")
)

type cartGateway interface {
	Cart(ctx context.Context, id string) (*domain.Cart, error)
	CreateCart(ctx context.Context) (*domain.Cart, error)
	AddLines(ctx context.Context, cartID string, lines []gateway.LineInput) (*domain.Cart, error)
	UpdateLines(ctx context.Context, cartID string, lines []gateway.LineUpdate) (*domain.Cart, error)
	RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error)
	UpdateDiscountCodes(ctx context.Context, cartID string, codes []string) (*domain.Cart, error)
	ShippingRates(ctx context.Context, cartID string, addr domain.Address) ([]domain.ShippingRate, error)
}

// Service keeps the cart identifier in the shopper's cookie jar and routes
// cart operations to the gateway. Every successful mutation is announced on
// the event bus.
type Service struct {
	gw     cartGateway
	events events.Publisher
	logger *log.Logger
	now    func() time.Time
}

func New(gw cartGateway, publisher events.Publisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{gw: gw, events: publisher, logger: logger, now: time.Now}
}

// Get returns the shopper's cart, or nil when there is none. A cookie naming
// a cart the gateway has forgotten is cleared.
func (s *Service) Get(ctx context.Context, jar cookie.Jar) (*domain.Cart, error) {
	id, ok := jar.Get(cookie.CartID)
	if !ok || id == "" {
		return nil, nil
	}
	cart, err := s.gw.Cart(ctx, id)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		s.logger.Printf("cart service: stale cart cookie cart_id=%s", id)
		jar.Clear(cookie.CartID)
		return nil, nil
	}
	return cart, nil
}

// Add puts quantity units of a variant in the cart, creating the cart first
// when the shopper has none. Repeated adds of the same variant are merged by
// the gateway.
func (s *Service) Add(ctx context.Context, jar cookie.Jar, variantID string, quantity int) (*domain.Cart, error) {
	variantID = strings.TrimSpace(variantID)
	if variantID == "" {
		return nil, domain.Invalid("merchandiseId is required")
	}
	if quantity < 1 {
		return nil, domain.Invalid("quantity must be a positive integer")
	}
	lines := []gateway.LineInput{{MerchandiseID: variantID, Quantity: quantity}}

	if id, ok := jar.Get(cookie.CartID); ok && id != "" {
		cart, err := s.gw.AddLines(ctx, id, lines)
		if err == nil {
			s.publish(cart.ID, events.ReasonLineAdded)
			return cart, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		s.logger.Printf("cart service: cart vanished, starting a new one cart_id=%s", id)
		jar.Clear(cookie.CartID)
	}

	created, err := s.gw.CreateCart(ctx)
	if err != nil {
		return nil, err
	}
	jar.Set(cookie.CartID, created.ID, s.now().Add(cookie.CartTTL))
	s.logger.Printf("cart service: created cart_id=%s", created.ID)

	cart, err := s.gw.AddLines(ctx, created.ID, lines)
	if err != nil {
		return nil, err
	}
	s.publish(cart.ID, events.ReasonLineAdded)
	return cart, nil
}

// UpdateQuantity sets a line's quantity. Removal goes through Remove; zero is
// rejected here.
func (s *Service) UpdateQuantity(ctx context.Context, jar cookie.Jar, lineID string, quantity int) (*domain.Cart, error) {
	lineID = strings.TrimSpace(lineID)
	if lineID == "" {
		return nil, domain.Invalid("lineId is required")
	}
	if quantity < 1 {
		return nil, domain.Invalid("quantity must be at least 1; remove the line instead")
	}
	id, err := s.cartID(jar)
	if err != nil {
		return nil, err
	}
	cart, err := s.gw.UpdateLines(ctx, id, []gateway.LineUpdate{{ID: lineID, Quantity: quantity}})
	if err != nil {
		return nil, s.forget(jar, err)
	}
	s.publish(cart.ID, events.ReasonLineUpdated)
	return cart, nil
}

// Remove deletes lines. When nothing is left the cart cookie is cleared; the
// gateway keeps the empty cart record.
func (s *Service) Remove(ctx context.Context, jar cookie.Jar, lineIDs []string) (*domain.Cart, error) {
	ids := make([]string, 0, len(lineIDs))
	for _, l := range lineIDs {
		if l = strings.TrimSpace(l); l != "" {
			ids = append(ids, l)
		}
	}
	if len(ids) == 0 {
		return nil, domain.Invalid("lineIds are required")
	}
	id, err := s.cartID(jar)
	if err != nil {
		return nil, err
	}
	cart, err := s.gw.RemoveLines(ctx, id, ids)
	if err != nil {
		return nil, s.forget(jar, err)
	}
	if cart.Empty() {
		s.logger.Printf("cart service: cart emptied, clearing cookie cart_id=%s", id)
		jar.Clear(cookie.CartID)
		s.publish(id, events.ReasonCartCleared)
		return cart, nil
	}
	s.publish(cart.ID, events.ReasonLinesRemoved)
	return cart, nil
}

// ApplyDiscountCode adds code to the cart's code list. The gateway only
// accepts the whole list, so this reads the current codes first; concurrent
// edits to the same cart are last-writer-wins.
func (s *Service) ApplyDiscountCode(ctx context.Context, jar cookie.Jar, code string) (*domain.Cart, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.Invalid("discount code is required")
	}
	return s.rewriteCodes(ctx, jar, func(codes []string) []string {
		for _, c := range codes {
			if strings.EqualFold(c, code) {
				return codes
			}
		}
		return append(codes, code)
	})
}

// RemoveDiscountCode drops code from the cart's code list.
func (s *Service) RemoveDiscountCode(ctx context.Context, jar cookie.Jar, code string) (*domain.Cart, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.Invalid("discount code is required")
	}
	return s.rewriteCodes(ctx, jar, func(codes []string) []string {
		out := codes[:0]
		for _, c := range codes {
			if !strings.EqualFold(c, code) {
				out = append(out, c)
			}
		}
		return out
	})
}

func (s *Service) rewriteCodes(ctx context.Context, jar cookie.Jar, edit func([]string) []string) (*domain.Cart, error) {
	current, err := s.Get(ctx, jar)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNoCart
	}
	cart, err := s.gw.UpdateDiscountCodes(ctx, current.ID, edit(current.Codes()))
	if err != nil {
		return nil, s.forget(jar, err)
	}
	s.publish(cart.ID, events.ReasonDiscountChanged)
	return cart, nil
}

// ShippingRates quotes delivery for the cart to addr. Country is required.
func (s *Service) ShippingRates(ctx context.Context, jar cookie.Jar, addr domain.Address) ([]domain.ShippingRate, error) {
	addr.Country = strings.ToUpper(strings.TrimSpace(addr.Country))
	if addr.Country == "" {
		return nil, domain.Invalid("country is required")
	}
	cart, err := s.Get(ctx, jar)
	if err != nil {
		return nil, err
	}
	if cart.Empty() {
		return nil, ErrEmptyCart
	}
	rates, err := s.gw.ShippingRates(ctx, cart.ID, addr)
	if err != nil {
		return nil, s.forget(jar, err)
	}
	return rates, nil
}

func (s *Service) cartID(jar cookie.Jar) (string, error) {
	id, ok := jar.Get(cookie.CartID)
	if !ok || id == "" {
		return "", ErrNoCart
	}
	return id, nil
}

// forget clears the cart cookie when the gateway reports the cart is gone.
func (s *Service) forget(jar cookie.Jar, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		jar.Clear(cookie.CartID)
		return ErrNoCart
	}
	return err
}

func (s *Service) publish(cartID string, reason events.Reason) {
	if s.events == nil {
		return
	}
	s.events.Publish(events.CartChanged{CartID: cartID, Reason: reason, At: s.now().UTC()})
}
