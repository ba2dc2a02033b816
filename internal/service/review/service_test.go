package review

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ynotnow-storefront/internal/domain"
	reviewrepo "ynotnow-storefront/internal/repository/review"
)

type stubProducts struct{}

func (stubProducts) Get(_ context.Context, handle string) (*domain.Product, error) {
	if handle != "boxy-tee" {
		return nil, domain.ErrNotFound
	}
	return &domain.Product{Handle: "boxy-tee"}, nil
}

func newService() *Service {
	svc := New(reviewrepo.NewMemory(), stubProducts{}, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateAndList(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "boxy-tee", CreateInput{Author: " Ana ", Rating: 4, Body: "Soft and heavy"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Author != "Ana" || !created.CreatedAt.Equal(svc.now()) {
		t.Fatalf("unexpected review %+v", created)
	}
	if _, err := svc.Create(ctx, "boxy-tee", CreateInput{Author: "Ben", Rating: 2, Body: "Runs small"}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	items, summary, err := svc.List(ctx, "Boxy-Tee", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || summary.Count != 2 || summary.Average != 3 {
		t.Fatalf("unexpected list %+v summary %+v", items, summary)
	}
}

func TestCreate_Validation(t *testing.T) {
	cases := map[string]CreateInput{
		"rating low":  {Author: "a", Rating: 0, Body: "b"},
		"rating high": {Author: "a", Rating: 6, Body: "b"},
		"no author":   {Author: "  ", Rating: 3, Body: "b"},
		"no body":     {Author: "a", Rating: 3},
		"long body":   {Author: "a", Rating: 3, Body: strings.Repeat("é", 4001)},
		"long author": {Author: strings.Repeat("a", 81), Rating: 3, Body: "b"},
		"long title":  {Author: "a", Rating: 3, Title: strings.Repeat("t", 121), Body: "b"},
	}
	svc := newService()
	for name, in := range cases {
		if _, err := svc.Create(context.Background(), "boxy-tee", in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestCreate_UnknownProduct(t *testing.T) {
	_, err := newService().Create(context.Background(), "ghost", CreateInput{Author: "a", Rating: 5, Body: "b"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestList_LimitBounds(t *testing.T) {
	svc := newService()
	for _, bad := range []int{-1, MaxLimit + 1} {
		if _, _, err := svc.List(context.Background(), "boxy-tee", bad); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("limit=%d: expected validation error, got %v", bad, err)
		}
	}
}
