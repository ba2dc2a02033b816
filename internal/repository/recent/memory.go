package recent

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	handles []string
	expires time.Time
}

const (
	// memoryMaxVisitors bounds the fallback store; visitors without cookies
	// get a fresh id per request.
	memoryMaxVisitors = 50000
	sweepInterval     = time.Hour
)

// memoryRepo is the fallback when no Redis is configured. Expired visitors
// are swept on Push, and when full the visitor closest to expiry is evicted.
type memoryRepo struct {
	mu          sync.Mutex
	visitors    map[string]entry
	now         func() time.Time
	maxVisitors int
	lastSweep   time.Time
}

func NewMemory() Repository {
	return &memoryRepo{visitors: make(map[string]entry), now: time.Now, maxVisitors: memoryMaxVisitors}
}

// sweep drops expired visitors. Callers hold r.mu.
func (r *memoryRepo) sweep(now time.Time) {
	for id, e := range r.visitors {
		if !now.Before(e.expires) {
			delete(r.visitors, id)
		}
	}
	r.lastSweep = now
}

// evictOldest drops the visitor whose list expires first. Callers hold r.mu.
func (r *memoryRepo) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, e := range r.visitors {
		if oldestID == "" || e.expires.Before(oldest) {
			oldestID, oldest = id, e.expires
		}
	}
	delete(r.visitors, oldestID)
}

func (r *memoryRepo) Push(_ context.Context, visitorID, handle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	e, known := r.visitors[visitorID]
	if !known {
		if now.Sub(r.lastSweep) >= sweepInterval || len(r.visitors) >= r.maxVisitors {
			r.sweep(now)
		}
		for len(r.visitors) > 0 && len(r.visitors) >= r.maxVisitors {
			r.evictOldest()
		}
	}
	if !e.expires.IsZero() && !now.Before(e.expires) {
		e.handles = nil
	}
	handles := make([]string, 0, MaxItems)
	handles = append(handles, handle)
	for _, h := range e.handles {
		if h != handle && len(handles) < MaxItems {
			handles = append(handles, h)
		}
	}
	r.visitors[visitorID] = entry{handles: handles, expires: now.Add(TTL)}
	return nil
}

func (r *memoryRepo) List(_ context.Context, visitorID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.visitors[visitorID]
	if !ok || !r.now().Before(e.expires) {
		delete(r.visitors, visitorID)
		return []string{}, nil
	}
	return append([]string(nil), e.handles...), nil
}
