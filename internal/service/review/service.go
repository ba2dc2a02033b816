package review

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"ynotnow-storefront/internal/domain"
	reviewrepo "ynotnow-storefront/internal/repository/review"
	"ynotnow-storefront/internal/validation"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// productLookup confirms a handle names a real product before a review is
// stored against it.
type productLookup interface {
	Get(ctx context.Context, handle string) (*domain.Product, error)
}

type Service struct {
	repo     reviewrepo.Repository
	products productLookup
	logger   *log.Logger
	validate *validatorv10.Validate
	now      func() time.Time
}

func New(repo reviewrepo.Repository, products productLookup, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, products: products, logger: logger, validate: validation.New(), now: time.Now}
}

// CreateInput is the body of a review submission. Lengths count characters,
// not bytes.
type CreateInput struct {
	Author string `json:"author" form:"author" validate:"required,notblank,max=80"`
	Rating int    `json:"rating" form:"rating" validate:"required,min=1,max=5"`
	Title  string `json:"title" form:"title" validate:"max=120"`
	Body   string `json:"body" form:"body" validate:"required,notblank,max=4000"`
}

// Normalize drops surrounding whitespace from the text fields, so length
// limits apply to what is stored.
func (in *CreateInput) Normalize() {
	in.Author = strings.TrimSpace(in.Author)
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
}

// List returns the newest reviews for a product along with its summary.
func (s *Service) List(ctx context.Context, handle string, limit int) ([]domain.Review, domain.ReviewSummary, error) {
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return nil, domain.ReviewSummary{}, domain.Invalid(fmt.Sprintf("limit must be between 1 and %d", MaxLimit))
	}
	handle = strings.ToLower(strings.TrimSpace(handle))
	items, err := s.repo.ListByProduct(ctx, handle, limit)
	if err != nil {
		return nil, domain.ReviewSummary{}, err
	}
	summary, err := s.repo.Summary(ctx, handle)
	if err != nil {
		return nil, domain.ReviewSummary{}, err
	}
	return items, summary, nil
}

func (s *Service) Create(ctx context.Context, handle string, in CreateInput) (*domain.Review, error) {
	in.Normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, domain.Invalid(validation.Message(err))
	}
	p, err := s.products.Get(ctx, handle)
	if err != nil {
		return nil, err
	}

	rv, err := s.repo.Upsert(ctx, domain.Review{
		ID:            uuid.NewString(),
		ProductHandle: p.Handle,
		Author:        in.Author,
		Rating:        in.Rating,
		Title:         in.Title,
		Body:          in.Body,
		CreatedAt:     s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("review service: created id=%s handle=%s rating=%d", rv.ID, rv.ProductHandle, rv.Rating)
	return rv, nil
}
