package review

import (
	"context"

	"ynotnow-storefront/internal/domain"
)

// Repository stores shopper reviews keyed by product handle.
type Repository interface {
	// Upsert inserts a review or replaces the one with the same ID.
	Upsert(ctx context.Context, r domain.Review) (*domain.Review, error)
	// ListByProduct returns the newest reviews first.
	ListByProduct(ctx context.Context, handle string, limit int) ([]domain.Review, error)
	Summary(ctx context.Context, handle string) (domain.ReviewSummary, error)
}
