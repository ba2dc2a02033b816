package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ynotnow-storefront/internal/cartview"
	"ynotnow-storefront/internal/domain"
	"ynotnow-storefront/internal/validation"
	"ynotnow-storefront/internal/variant"
)

// cartBody pairs the raw cart with its display view. A shopper without a cart
// gets {"cart": null} and an empty view rather than an error.
func cartBody(cart *domain.Cart) gin.H {
	return gin.H{"cart": cart, "view": cartview.Build(cart)}
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.deps.CartSvc.Get(c.Request.Context(), h.jar(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(cart))
}

func (h *handlers) addToCart(c *gin.Context) {
	var req validation.AddToCartRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}
	variantID := req.MerchandiseID
	if variantID == "" {
		res, err := h.deps.ProductSvc.ResolveVariant(c.Request.Context(), req.Handle, variant.Selection{Size: req.Size, Color: req.Color})
		if err != nil {
			h.writeError(c, err)
			return
		}
		switch res.Outcome {
		case variant.Incomplete:
			h.writeError(c, domain.Invalid("please select a size"))
			return
		case variant.Unavailable:
			h.writeError(c, domain.Invalid("this combination is sold out"))
			return
		}
		variantID = res.VariantID
	}
	cart, err := h.deps.CartSvc.Add(c.Request.Context(), h.jar(c), variantID, req.Qty())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(cart))
}

func (h *handlers) updateCart(c *gin.Context) {
	var req validation.UpdateCartRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}
	cart, err := h.deps.CartSvc.UpdateQuantity(c.Request.Context(), h.jar(c), req.LineID, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(cart))
}

func (h *handlers) removeFromCart(c *gin.Context) {
	var req validation.RemoveCartRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}
	cart, err := h.deps.CartSvc.Remove(c.Request.Context(), h.jar(c), req.LineIDs)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(cart))
}

func (h *handlers) applyDiscount(c *gin.Context) {
	var req validation.DiscountRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}
	cart, err := h.deps.CartSvc.ApplyDiscountCode(c.Request.Context(), h.jar(c), req.Code)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(cart))
}

func (h *handlers) removeDiscount(c *gin.Context) {
	var req validation.DiscountRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}
	cart, err := h.deps.CartSvc.RemoveDiscountCode(c.Request.Context(), h.jar(c), req.Code)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(cart))
}

func (h *handlers) shippingRates(c *gin.Context) {
	var addr domain.Address
	if err := validation.BindAndValidate(c, &addr, h.validate); err != nil {
		return
	}
	rates, err := h.deps.CartSvc.ShippingRates(c.Request.Context(), h.jar(c), addr)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rates": rates})
}
