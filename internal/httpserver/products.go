package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ynotnow-storefront/internal/domain"
	productsvc "ynotnow-storefront/internal/service/product"
	reviewsvc "ynotnow-storefront/internal/service/review"
	"ynotnow-storefront/internal/validation"
	"ynotnow-storefront/internal/variant"
)

func (h *handlers) listProducts(c *gin.Context) {
	first, ok := h.intQuery(c, "first")
	if !ok {
		return
	}
	products, err := h.deps.ProductSvc.List(c.Request.Context(), first)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *handlers) searchProducts(c *gin.Context) {
	var in productsvc.SearchInput
	if err := c.ShouldBindQuery(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search parameters"})
		return
	}
	products, err := h.deps.ProductSvc.Search(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// getProduct also returns the initial size/color selection for the product
// page and records the view for the visitor's recently viewed list.
func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.ProductSvc.Get(c.Request.Context(), c.Param("handle"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.deps.ProductSvc.Viewed(c.Request.Context(), h.visitorID(c, true), p.Handle)
	c.JSON(http.StatusOK, gin.H{
		"product":   p,
		"selection": variant.AutoSelect(*p),
	})
}

func (h *handlers) resolveVariant(c *gin.Context) {
	var sel variant.Selection
	if err := c.ShouldBindQuery(&sel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid selection"})
		return
	}
	res, err := h.deps.ProductSvc.ResolveVariant(c.Request.Context(), c.Param("handle"), sel)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) recentlyViewed(c *gin.Context) {
	products, err := h.deps.ProductSvc.RecentlyViewed(c.Request.Context(), h.visitorID(c, false), c.Query("exclude"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *handlers) listReviews(c *gin.Context) {
	limit, ok := h.intQuery(c, "limit")
	if !ok {
		return
	}
	items, summary, err := h.deps.ReviewSvc.List(c.Request.Context(), c.Param("handle"), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": items, "summary": summary})
}

func (h *handlers) createReview(c *gin.Context) {
	var in reviewsvc.CreateInput
	if err := validation.BindAndValidate(c, &in, h.validate); err != nil {
		return
	}
	rv, err := h.deps.ReviewSvc.Create(c.Request.Context(), c.Param("handle"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": rv})
}

// intQuery reads an optional positive integer query parameter. Absent gives
// zero, which services treat as "use the default".
func (h *handlers) intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		h.writeError(c, domain.Invalid(name+" must be a positive integer"))
		return 0, false
	}
	return n, true
}
