package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ynotnow-storefront/internal/cookie"
)

const (
	jarKey     = "cookieJar"
	visitorTTL = 365 * 24 * time.Hour
)

// ginJar is a cookie.Jar over one request. Values written during the request
// are visible to later reads in the same request, so a cart created by one
// service call is seen by the next.
type ginJar struct {
	c       *gin.Context
	secure  bool
	written map[string]*string
}

// jar returns the request's jar, creating it on first use.
func (h *handlers) jar(c *gin.Context) *ginJar {
	if v, ok := c.Get(jarKey); ok {
		return v.(*ginJar)
	}
	j := &ginJar{c: c, secure: h.deps.CookieSecure, written: map[string]*string{}}
	c.Set(jarKey, j)
	return j
}

func (j *ginJar) Get(name string) (string, bool) {
	if v, ok := j.written[name]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	v, err := j.c.Cookie(name)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

// Set writes an HTTP-only, site-wide cookie. An expiry already in the past
// clears it.
func (j *ginJar) Set(name, value string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge <= 0 {
		j.Clear(name)
		return
	}
	j.c.SetSameSite(http.SameSiteLaxMode)
	j.c.SetCookie(name, value, maxAge, "/", "", j.secure, true)
	j.written[name] = &value
}

func (j *ginJar) Clear(name string) {
	j.c.SetSameSite(http.SameSiteLaxMode)
	j.c.SetCookie(name, "", -1, "/", "", j.secure, true)
	j.written[name] = nil
}

// visitorID returns the browser's anonymous id, issuing one when create is
// set and none exists yet.
func (h *handlers) visitorID(c *gin.Context, create bool) string {
	jar := h.jar(c)
	if id, ok := jar.Get(cookie.VisitorID); ok {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	if !create {
		return ""
	}
	id := uuid.NewString()
	jar.Set(cookie.VisitorID, id, time.Now().Add(visitorTTL))
	return id
}

var _ cookie.Jar = (*ginJar)(nil)
