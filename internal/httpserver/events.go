package httpserver

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ynotnow-storefront/internal/cookie"
	"ynotnow-storefront/internal/events"
)

// cartEvents streams cart-changed notifications for the shopper's cart as
// server-sent events. The subscription lives as long as the connection.
// Without a cart there is nothing to watch; 204 tells EventSource not to
// reconnect until the page opens a new stream after its first add.
func (h *handlers) cartEvents(c *gin.Context) {
	cartID, ok := h.jar(c).Get(cookie.CartID)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}

	ch := make(chan events.CartChanged, 8)
	unsubscribe := h.deps.Events.Subscribe(func(e events.CartChanged) {
		if e.CartID != cartID {
			return
		}
		select {
		case ch <- e:
		default:
			// The page re-reads the whole cart on any event, so one queued
			// event is as good as many.
		}
	})
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"ok": true})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case e := <-ch:
			c.SSEvent("cart", gin.H{"reason": e.Reason, "at": e.At})
			return true
		case <-ticker.C:
			_, err := io.WriteString(w, ": keep-alive\n\n")
			return err == nil
		}
	})
}
