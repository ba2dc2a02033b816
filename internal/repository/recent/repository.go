// Package recent remembers which products a visitor looked at. The list is a
// convenience for the product page and may be lost at any time.
package recent

import (
	"context"
	"time"
)

const (
	// MaxItems bounds each visitor's list.
	MaxItems = 12
	// TTL is refreshed on every push.
	TTL = 30 * 24 * time.Hour
)

// Repository keeps a most-recent-first list of product handles per visitor.
type Repository interface {
	// Push moves handle to the front, dropping any earlier occurrence and
	// anything past MaxItems.
	Push(ctx context.Context, visitorID, handle string) error
	List(ctx context.Context, visitorID string) ([]string, error)
}
