package review

import (
	"context"
	"sort"
	"sync"
	"time"

	"ynotnow-storefront/internal/domain"
)

// memoryRepo keeps reviews in process. It is used when no database is
// configured; contents are lost on restart.
type memoryRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.Review
	now  func() time.Time
}

func NewMemory() Repository {
	return &memoryRepo{byID: make(map[string]domain.Review), now: time.Now}
}

func (r *memoryRepo) Upsert(_ context.Context, rv domain.Review) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byID[rv.ID]; ok {
		rv.CreatedAt = existing.CreatedAt
	} else if rv.CreatedAt.IsZero() {
		rv.CreatedAt = r.now().UTC()
	}
	r.byID[rv.ID] = rv
	clone := rv
	return &clone, nil
}

func (r *memoryRepo) ListByProduct(_ context.Context, handle string, limit int) ([]domain.Review, error) {
	r.mu.RLock()
	result := []domain.Review{}
	for _, rv := range r.byID {
		if rv.ProductHandle == handle {
			result = append(result, rv)
		}
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *memoryRepo) Summary(_ context.Context, handle string) (domain.ReviewSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var s domain.ReviewSummary
	total := 0
	for _, rv := range r.byID {
		if rv.ProductHandle == handle {
			s.Count++
			total += rv.Rating
		}
	}
	if s.Count > 0 {
		s.Average = float64(total) / float64(s.Count)
	}
	return s, nil
}
