package review

import (
	"context"
	"io"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"ynotnow-storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Upsert(ctx context.Context, rv domain.Review) (*domain.Review, error) {
	const q = `
INSERT INTO product_reviews (id, product_handle, author, rating, title, body, created_at)
VALUES ($1::uuid, $2, $3, $4, $5, $6, COALESCE($7, now()))
ON CONFLICT (id) DO UPDATE SET
    product_handle = EXCLUDED.product_handle,
    author = EXCLUDED.author,
    rating = EXCLUDED.rating,
    title = EXCLUDED.title,
    body = EXCLUDED.body
RETURNING created_at
`
	var createdAt interface{}
	if !rv.CreatedAt.IsZero() {
		createdAt = rv.CreatedAt
	}
	res := rv
	err := r.pool.QueryRow(ctx, q,
		rv.ID,
		rv.ProductHandle,
		rv.Author,
		rv.Rating,
		rv.Title,
		rv.Body,
		createdAt,
	).Scan(&res.CreatedAt)
	if err != nil {
		r.logger.Printf("review repo: upsert id=%s handle=%s error=%v", rv.ID, rv.ProductHandle, err)
		return nil, err
	}
	r.logger.Printf("review repo: upserted id=%s handle=%s rating=%d", res.ID, res.ProductHandle, res.Rating)
	return &res, nil
}

func (r *postgresRepo) ListByProduct(ctx context.Context, handle string, limit int) ([]domain.Review, error) {
	const q = `
SELECT id::text, product_handle, author, rating, title, body, created_at
FROM product_reviews
WHERE product_handle = $1
ORDER BY created_at DESC, id
LIMIT $2
`
	rows, err := r.pool.Query(ctx, q, handle, limit)
	if err != nil {
		r.logger.Printf("review repo: list handle=%s error=%v", handle, err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ProductHandle, &rv.Author, &rv.Rating, &rv.Title, &rv.Body, &rv.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rv)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("review repo: list rows handle=%s error=%v", handle, err)
		return nil, err
	}
	r.logger.Printf("review repo: list handle=%s count=%d", handle, len(result))
	return result, nil
}

func (r *postgresRepo) Summary(ctx context.Context, handle string) (domain.ReviewSummary, error) {
	const q = `
SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8
FROM product_reviews
WHERE product_handle = $1
`
	var s domain.ReviewSummary
	if err := r.pool.QueryRow(ctx, q, handle).Scan(&s.Count, &s.Average); err != nil {
		r.logger.Printf("review repo: summary handle=%s error=%v", handle, err)
		return domain.ReviewSummary{}, err
	}
	return s, nil
}
