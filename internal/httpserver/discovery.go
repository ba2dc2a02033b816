package httpserver

import (
	"encoding/xml"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// staticPages are the marketing pages listed in the sitemap ahead of products.
var staticPages = []string{"/", "/shop", "/about", "/faq", "/shipping-returns", "/contact"}

func (h *handlers) robots(c *gin.Context) {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /account\n")
	b.WriteString("Disallow: /login\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("\nSitemap: " + h.deps.SiteURL + "/sitemap.xml\n")
	c.String(http.StatusOK, b.String())
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// sitemap lists static pages and every product handle. If the gateway is
// down the static pages are still served so crawlers get a valid document.
func (h *handlers) sitemap(c *gin.Context) {
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{Loc: h.deps.SiteURL + p, ChangeFreq: "weekly", Priority: "0.8"})
	}
	handles, err := h.deps.ProductSvc.Handles(c.Request.Context())
	if err != nil {
		h.logger.Printf("http: sitemap products error=%v", err)
	}
	for _, handle := range handles {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.deps.SiteURL + "/products/" + url.PathEscape(handle),
			ChangeFreq: "daily",
			Priority:   "0.6",
		})
	}
	c.XML(http.StatusOK, set)
}
