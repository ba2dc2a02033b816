package httpserver

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ynotnow-storefront/internal/domain"
	customersvc "ynotnow-storefront/internal/service/customer"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"money": func(m domain.Money) string {
		return m.Amount.StringFixed(2) + " " + m.CurrencyCode
	},
	"date": func(t time.Time) string {
		return t.Format("2 Jan 2006")
	},
	"shortID": customersvc.ShortID,
}

func (h *handlers) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Redirect": c.Query("redirect"),
		"Expired":  c.Query("expired") == "1",
	})
}

func (h *handlers) loginSubmit(c *gin.Context) {
	email := c.PostForm("email")
	redirect := c.PostForm("redirect")
	_, err := h.deps.CustomerSvc.Login(c.Request.Context(), h.jar(c), email, c.PostForm("password"))
	if err != nil {
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Printf("http: login page error=%v", err)
		}
		c.HTML(status, "login.html", gin.H{"Email": email, "Redirect": redirect, "Error": msg})
		return
	}
	c.Redirect(http.StatusSeeOther, safeRedirect(redirect))
}

func (h *handlers) logoutSubmit(c *gin.Context) {
	h.deps.CustomerSvc.Logout(h.jar(c))
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlers) accountPage(c *gin.Context) {
	ctx := c.Request.Context()
	jar := h.jar(c)
	customer, err := h.deps.CustomerSvc.Current(ctx, jar)
	if err == nil && customer == nil {
		err = customersvc.ErrNotSignedIn
	}
	if h.pageAuthError(c, err) {
		return
	}
	orders, err := h.deps.CustomerSvc.Orders(ctx, jar)
	if h.pageAuthError(c, err) {
		return
	}
	data := gin.H{"Customer": customer, "Orders": orders}
	if err != nil {
		h.logger.Printf("http: account orders error=%v", err)
		data["OrdersError"] = "We could not load your orders right now."
	}
	c.HTML(http.StatusOK, "account.html", data)
}

func (h *handlers) orderPage(c *gin.Context) {
	order, err := h.deps.CustomerSvc.Order(c.Request.Context(), h.jar(c), c.Param("id"))
	if h.pageAuthError(c, err) {
		return
	}
	if err != nil {
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Printf("http: order page id=%s error=%v", c.Param("id"), err)
		}
		if status == http.StatusNotFound {
			msg = "We could not find that order."
		}
		c.HTML(status, "error.html", gin.H{"Message": msg})
		return
	}
	c.HTML(http.StatusOK, "order.html", gin.H{"Order": order})
}

// pageAuthError sends the shopper back to the login page when the session is
// missing or expired, and reports whether it did.
func (h *handlers) pageAuthError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, customersvc.ErrSessionExpired):
		c.Redirect(http.StatusSeeOther, loginURL(c.Request.URL.RequestURI(), true))
	case errors.Is(err, customersvc.ErrNotSignedIn):
		c.Redirect(http.StatusSeeOther, loginURL(c.Request.URL.RequestURI(), false))
	default:
		return false
	}
	return true
}
