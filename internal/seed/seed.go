package seed

import (
	"context"
	"fmt"
	"time"

	"ynotnow-storefront/internal/domain"
)

type ReviewWriter interface {
	Upsert(ctx context.Context, r domain.Review) (*domain.Review, error)
}

type reviewSeed struct {
	ID     string
	Handle string
	Author string
	Rating int
	Title  string
	Body   string
	Days   int
}

// demoReviews carry fixed ids so repeated runs update in place.
var demoReviews = []reviewSeed{
	{
		ID:     "3b0b9c4e-1d0a-4d7e-8b5a-0c1f2e3d4a01",
		Handle: "oversized-boxy-tee",
		Author: "Maya R.",
		Rating: 5,
		Title:  "Perfect drop shoulder",
		Body:   "Heavy cotton, holds its shape after washing. Sized down one.",
		Days:   12,
	},
	{
		ID:     "3b0b9c4e-1d0a-4d7e-8b5a-0c1f2e3d4a02",
		Handle: "oversized-boxy-tee",
		Author: "Jordan P.",
		Rating: 4,
		Body:   "Great fabric, the black fades a touch after a few washes.",
		Days:   30,
	},
	{
		ID:     "3b0b9c4e-1d0a-4d7e-8b5a-0c1f2e3d4a03",
		Handle: "relaxed-cargo-pant",
		Author: "Sam K.",
		Rating: 5,
		Title:  "Everyday pant",
		Body:   "Pockets are deep and the taper is spot on.",
		Days:   5,
	},
}

// Apply inserts demo reviews for manual testing. It is idempotent via upsert.
func Apply(ctx context.Context, repo ReviewWriter, now time.Time) error {
	for _, s := range demoReviews {
		_, err := repo.Upsert(ctx, domain.Review{
			ID:            s.ID,
			ProductHandle: s.Handle,
			Author:        s.Author,
			Rating:        s.Rating,
			Title:         s.Title,
			Body:          s.Body,
			CreatedAt:     now.AddDate(0, 0, -s.Days).UTC().Truncate(time.Second),
		})
		if err != nil {
			return fmt.Errorf("upsert review %s: %w", s.ID, err)
		}
	}
	return nil
}
