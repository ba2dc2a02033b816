// Package cookie defines the narrow key-value store session state lives in.
package cookie

import "time"

const (
	CartID        = "cart_id"
	CustomerToken = "customer_token"
	VisitorID     = "visitor_id"
)

// CartTTL is how long the cart identifier survives without activity.
const CartTTL = 30 * 24 * time.Hour

// Jar reads and writes named values with an expiry. The HTTP layer backs it
// with request and response cookies; tests use MemoryJar.
type Jar interface {
	Get(name string) (string, bool)
	Set(name, value string, expires time.Time)
	Clear(name string)
}

// MemoryJar is a map-backed Jar.
type MemoryJar struct {
	values  map[string]string
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryJar() *MemoryJar {
	return &MemoryJar{
		values:  map[string]string{},
		expires: map[string]time.Time{},
		now:     time.Now,
	}
}

func (j *MemoryJar) Get(name string) (string, bool) {
	v, ok := j.values[name]
	if !ok {
		return "", false
	}
	if exp := j.expires[name]; !exp.IsZero() && !j.now().Before(exp) {
		return "", false
	}
	return v, true
}

func (j *MemoryJar) Set(name, value string, expires time.Time) {
	j.values[name] = value
	j.expires[name] = expires
}

func (j *MemoryJar) Clear(name string) {
	delete(j.values, name)
	delete(j.expires, name)
}

// Expiry returns the expiry recorded for name.
func (j *MemoryJar) Expiry(name string) time.Time {
	return j.expires[name]
}
