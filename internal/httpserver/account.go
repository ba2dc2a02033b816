package httpserver

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"ynotnow-storefront/internal/cookie"
	customersvc "ynotnow-storefront/internal/service/customer"
	"ynotnow-storefront/internal/validation"
)

// requireSessionCookie guards the account pages. It only checks that a token
// cookie is present; the gateway validates it when account data is loaded.
func requireSessionCookie(c *gin.Context) {
	if token, err := c.Cookie(cookie.CustomerToken); err == nil && token != "" {
		c.Next()
		return
	}
	c.Redirect(http.StatusSeeOther, loginURL(c.Request.URL.RequestURI(), false))
	c.Abort()
}

func loginURL(redirect string, expired bool) string {
	q := url.Values{}
	if redirect != "" {
		q.Set("redirect", redirect)
	}
	if expired {
		q.Set("expired", "1")
	}
	if len(q) == 0 {
		return "/login"
	}
	return "/login?" + q.Encode()
}

// safeRedirect keeps post-login redirects on this site.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/account"
	}
	return target
}

func (h *handlers) register(c *gin.Context) {
	var in customersvc.RegisterInput
	if err := validation.BindAndValidate(c, &in, h.validate); err != nil {
		return
	}
	token, err := h.deps.CustomerSvc.Register(c.Request.Context(), h.jar(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expiresAt": token.ExpiresAt})
}

// login does not return the token itself; it lives in an HTTP-only cookie.
func (h *handlers) login(c *gin.Context) {
	var req validation.LoginRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}
	token, err := h.deps.CustomerSvc.Login(c.Request.Context(), h.jar(c), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expiresAt": token.ExpiresAt})
}

func (h *handlers) logout(c *gin.Context) {
	h.deps.CustomerSvc.Logout(h.jar(c))
	c.Status(http.StatusNoContent)
}

// currentCustomer answers {"customer": null} for guests. An expired session
// is a 401 so the page can prompt a fresh sign-in.
func (h *handlers) currentCustomer(c *gin.Context) {
	customer, err := h.deps.CustomerSvc.Current(c.Request.Context(), h.jar(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

func (h *handlers) listOrders(c *gin.Context) {
	orders, err := h.deps.CustomerSvc.Orders(c.Request.Context(), h.jar(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *handlers) getOrder(c *gin.Context) {
	order, err := h.deps.CustomerSvc.Order(c.Request.Context(), h.jar(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
