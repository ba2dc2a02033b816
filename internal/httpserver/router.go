package httpserver

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"ynotnow-storefront/internal/cookie"
	"ynotnow-storefront/internal/domain"
	"ynotnow-storefront/internal/events"
	customersvc "ynotnow-storefront/internal/service/customer"
	productsvc "ynotnow-storefront/internal/service/product"
	reviewsvc "ynotnow-storefront/internal/service/review"
	"ynotnow-storefront/internal/validation"
	"ynotnow-storefront/internal/variant"
)

type ProductService interface {
	List(ctx context.Context, first int) ([]domain.Product, error)
	Get(ctx context.Context, handle string) (*domain.Product, error)
	Search(ctx context.Context, in productsvc.SearchInput) ([]domain.Product, error)
	ResolveVariant(ctx context.Context, handle string, sel variant.Selection) (variant.Result, error)
	Handles(ctx context.Context) ([]string, error)
	Viewed(ctx context.Context, visitorID, handle string)
	RecentlyViewed(ctx context.Context, visitorID, exclude string) ([]domain.Product, error)
}

type CartService interface {
	Get(ctx context.Context, jar cookie.Jar) (*domain.Cart, error)
	Add(ctx context.Context, jar cookie.Jar, variantID string, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, jar cookie.Jar, lineID string, quantity int) (*domain.Cart, error)
	Remove(ctx context.Context, jar cookie.Jar, lineIDs []string) (*domain.Cart, error)
	ApplyDiscountCode(ctx context.Context, jar cookie.Jar, code string) (*domain.Cart, error)
	RemoveDiscountCode(ctx context.Context, jar cookie.Jar, code string) (*domain.Cart, error)
	ShippingRates(ctx context.Context, jar cookie.Jar, addr domain.Address) ([]domain.ShippingRate, error)
}

type CustomerService interface {
	Register(ctx context.Context, jar cookie.Jar, in customersvc.RegisterInput) (*domain.AccessToken, error)
	Login(ctx context.Context, jar cookie.Jar, email, password string) (*domain.AccessToken, error)
	Logout(jar cookie.Jar)
	Current(ctx context.Context, jar cookie.Jar) (*domain.Customer, error)
	Orders(ctx context.Context, jar cookie.Jar) ([]domain.Order, error)
	Order(ctx context.Context, jar cookie.Jar, id string) (*domain.Order, error)
}

type ReviewService interface {
	List(ctx context.Context, handle string, limit int) ([]domain.Review, domain.ReviewSummary, error)
	Create(ctx context.Context, handle string, in reviewsvc.CreateInput) (*domain.Review, error)
}

// EventSource is the subscribing side of the cart-changed bus.
type EventSource interface {
	Subscribe(h events.Handler) (unsubscribe func())
}

// Deps collects what the router needs.
type Deps struct {
	ProductSvc  ProductService
	CartSvc     CartService
	CustomerSvc CustomerService
	ReviewSvc   ReviewService
	Events      EventSource

	// SiteURL is the public base URL used in the sitemap and robots file.
	SiteURL        string
	CookieSecure   bool
	AllowedOrigins []string
	Checks         []Check
	// Heartbeat is the idle interval between keep-alive comments on the cart
	// event stream. Zero means 25 seconds.
	Heartbeat time.Duration
}

type handlers struct {
	logger    *log.Logger
	deps      Deps
	validate  *validatorv10.Validate
	heartbeat time.Duration
}

// buildRouter wires routes for the storefront.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if deps.ProductSvc == nil || deps.CartSvc == nil || deps.CustomerSvc == nil || deps.ReviewSvc == nil || deps.Events == nil {
		return nil, errors.New("httpserver: missing service dependency")
	}
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	h := &handlers{
		logger:    logger,
		deps:      deps,
		validate:  validation.New(),
		heartbeat: deps.Heartbeat,
	}
	if h.heartbeat <= 0 {
		h.heartbeat = 25 * time.Second
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.CustomRecoveryWithWriter(logger.Writer(), h.recovered))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Checks))
	router.GET("/robots.txt", h.robots)
	router.GET("/sitemap.xml", h.sitemap)

	router.GET("/login", h.loginPage)
	router.POST("/login", h.loginSubmit)
	router.POST("/logout", h.logoutSubmit)
	account := router.Group("/account", requireSessionCookie)
	{
		account.GET("", h.accountPage)
		account.GET("/orders/:id", h.orderPage)
	}

	api := router.Group("/api")
	if len(deps.AllowedOrigins) > 0 {
		api.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	{
		api.GET("/products", h.listProducts)
		api.GET("/products/search", h.searchProducts)
		api.GET("/products/:handle", h.getProduct)
		api.GET("/products/:handle/variant", h.resolveVariant)
		api.GET("/products/:handle/reviews", h.listReviews)
		api.POST("/products/:handle/reviews", h.createReview)
		api.GET("/recently-viewed", h.recentlyViewed)

		api.GET("/cart", h.getCart)
		api.POST("/cart", h.addToCart)
		api.PUT("/cart", h.updateCart)
		api.DELETE("/cart", h.removeFromCart)
		api.POST("/cart/discount", h.applyDiscount)
		api.DELETE("/cart/discount", h.removeDiscount)
		api.POST("/cart/shipping", h.shippingRates)
		api.GET("/cart/events", h.cartEvents)

		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
		api.POST("/auth/logout", h.logout)
		api.GET("/account", h.currentCustomer)
		api.GET("/account/orders", h.listOrders)
		api.GET("/account/orders/:id", h.getOrder)
	}

	return router, nil
}

// recovered is the last-resort error boundary for panics in handlers.
func (h *handlers) recovered(c *gin.Context, err any) {
	h.logger.Printf("http: panic path=%s error=%v", c.Request.URL.Path, err)
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		return
	}
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Something went wrong."})
	c.Abort()
}
