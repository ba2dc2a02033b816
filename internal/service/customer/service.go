package customer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"ynotnow-storefront/internal/cookie"
	"ynotnow-storefront/internal/domain"
	"ynotnow-storefront/internal/gateway"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrSessionExpired means a token cookie was present but the gateway no
	// longer accepts it. The cookie has been cleared.
	ErrSessionExpired = errors.New("your session has expired, please sign in again")
	// ErrNotSignedIn is returned by account operations when no token cookie
	// is present.
	ErrNotSignedIn = errors.New("not signed in")
)

// passwordMin and passwordMax are the gateway's account password bounds.
const (
	passwordMin = 5
	passwordMax = 40
)

type customerGateway interface {
	CreateCustomer(ctx context.Context, in gateway.RegisterInput) (string, error)
	CreateAccessToken(ctx context.Context, email, password string) (*domain.AccessToken, error)
	Customer(ctx context.Context, token string) (*domain.Customer, error)
	CustomerOrders(ctx context.Context, token string, first int) ([]domain.Order, error)
}

// Service wraps the gateway's customer endpoints and owns the token cookie.
type Service struct {
	gw         customerGateway
	logger     *log.Logger
	orderLimit int
}

func New(gw customerGateway, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{gw: gw, logger: logger, orderLimit: 50}
}

// RegisterInput captures fields expected by the register endpoint.
type RegisterInput struct {
	Email            string `json:"email" form:"email" validate:"required,email"`
	Password         string `json:"password" form:"password" validate:"required"`
	FirstName        string `json:"firstName" form:"firstName"`
	LastName         string `json:"lastName" form:"lastName"`
	AcceptsMarketing bool   `json:"acceptsMarketing" form:"acceptsMarketing"`
}

// Register creates the account and then signs in with the same credentials;
// account creation alone does not produce a session token.
func (s *Service) Register(ctx context.Context, jar cookie.Jar, in RegisterInput) (*domain.AccessToken, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, domain.Invalid("email required")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	_, err := s.gw.CreateCustomer(ctx, gateway.RegisterInput{
		Email:            email,
		Password:         in.Password,
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		AcceptsMarketing: in.AcceptsMarketing,
	})
	if err != nil {
		var userErrs gateway.UserErrors
		if errors.As(err, &userErrs) {
			if hasCode(userErrs, "TAKEN") {
				return nil, fmt.Errorf("an account with this email already exists: %w", domain.ErrAlreadyExists)
			}
			return nil, domain.Invalid(userErrs.Error())
		}
		return nil, err
	}
	s.logger.Printf("customer service: registered email=%s", email)
	return s.Login(ctx, jar, email, in.Password)
}

// Login exchanges credentials for a token and stores it with the expiry the
// gateway issued.
func (s *Service) Login(ctx context.Context, jar cookie.Jar, email, password string) (*domain.AccessToken, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, domain.Invalid("email and password required")
	}
	token, err := s.gw.CreateAccessToken(ctx, email, password)
	if err != nil {
		var userErrs gateway.UserErrors
		if errors.As(err, &userErrs) {
			if hasCode(userErrs, "UNIDENTIFIED_CUSTOMER") {
				return nil, ErrInvalidCredentials
			}
			return nil, domain.Invalid(userErrs.Error())
		}
		return nil, err
	}
	jar.Set(cookie.CustomerToken, token.Token, token.ExpiresAt)
	return token, nil
}

// Logout forgets the token locally. Gateway tokens expire on their own and
// are not revoked.
func (s *Service) Logout(jar cookie.Jar) {
	jar.Clear(cookie.CustomerToken)
}

// Current returns the signed-in customer, or nil for anonymous visitors. A
// token the gateway rejects yields ErrSessionExpired and is cleared.
func (s *Service) Current(ctx context.Context, jar cookie.Jar) (*domain.Customer, error) {
	token, ok := jar.Get(cookie.CustomerToken)
	if !ok || token == "" {
		return nil, nil
	}
	c, err := s.gw.Customer(ctx, token)
	if err != nil {
		return nil, s.expire(jar, err)
	}
	return c, nil
}

// Orders lists the signed-in customer's orders, newest first.
func (s *Service) Orders(ctx context.Context, jar cookie.Jar) ([]domain.Order, error) {
	token, ok := jar.Get(cookie.CustomerToken)
	if !ok || token == "" {
		return nil, ErrNotSignedIn
	}
	orders, err := s.gw.CustomerOrders(ctx, token, s.orderLimit)
	if err != nil {
		return nil, s.expire(jar, err)
	}
	return orders, nil
}

// Order finds one of the customer's orders by gateway id, trailing numeric
// id, or order name ("#1001" or "1001").
func (s *Service) Order(ctx context.Context, jar cookie.Jar, id string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.Invalid("order id required")
	}
	orders, err := s.Orders(ctx, jar)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orderMatches(orders[i], id) {
			return &orders[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Service) expire(jar cookie.Jar, err error) error {
	if errors.Is(err, gateway.ErrUnauthorized) {
		s.logger.Printf("customer service: token rejected, clearing session")
		jar.Clear(cookie.CustomerToken)
		return ErrSessionExpired
	}
	return err
}

// ShortID is the trailing segment of a gateway id, used in account URLs.
func ShortID(gid string) string {
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		return gid[i+1:]
	}
	return gid
}

func orderMatches(o domain.Order, id string) bool {
	if o.ID == id || ShortID(o.ID) == id {
		return true
	}
	name := strings.TrimPrefix(o.Name, "#")
	return name != "" && name == strings.TrimPrefix(id, "#")
}

func hasCode(errs gateway.UserErrors, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func validatePassword(p string) error {
	if strings.TrimSpace(p) != p {
		return domain.Invalid("password must not start or end with whitespace")
	}
	if len(p) < passwordMin || len(p) > passwordMax {
		return domain.Invalid(fmt.Sprintf("password must be between %d and %d characters", passwordMin, passwordMax))
	}
	return nil
}
