package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"ynotnow-storefront/internal/domain"
)

// reviewNamespace seeds deterministic ids for rows without one, so importing
// the same export twice updates rather than duplicates.
var reviewNamespace = uuid.MustParse("6f1c2b8e-4a55-4c1e-9c3e-2f7d9a1b0e42")

type ReviewWriter interface {
	Upsert(ctx context.Context, r domain.Review) (*domain.Review, error)
}

// CSVImporter reads review exports (one review per row) and upserts them.
//
// Recognised headers: id, product_handle, author, rating, title, body,
// created_at. Extra columns are ignored.
type CSVImporter struct {
	reader *csv.Reader
	repo   ReviewWriter
}

func NewCSVImporter(r io.Reader, repo ReviewWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{reader: csvr, repo: repo}
}

// Run imports every row and reports how many reviews were written. It stops at
// the first invalid row, naming its line.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"product_handle", "author", "rating", "body"} {
		if _, ok := index[required]; !ok {
			return 0, fmt.Errorf("missing column %q", required)
		}
	}

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)

		rv, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if rv == nil {
			continue
		}
		if _, err := i.repo.Upsert(ctx, *rv); err != nil {
			return imported, fmt.Errorf("upsert review line %d: %w", line, err)
		}
		imported++
	}
	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// parseRow returns nil for blank rows.
func parseRow(record []string, index map[string]int) (*domain.Review, error) {
	handle := pick(record, index, "product_handle")
	author := pick(record, index, "author")
	ratingStr := pick(record, index, "rating")
	body := pick(record, index, "body")
	if handle == "" && author == "" && ratingStr == "" && body == "" {
		return nil, nil
	}
	if handle == "" || author == "" || body == "" {
		return nil, errors.New("product_handle, author and body are required")
	}
	rating, err := strconv.Atoi(ratingStr)
	if err != nil || rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be 1-5, got %q", ratingStr)
	}

	rv := &domain.Review{
		ID:            pick(record, index, "id"),
		ProductHandle: strings.ToLower(handle),
		Author:        author,
		Rating:        rating,
		Title:         pick(record, index, "title"),
		Body:          body,
	}
	if ts := pick(record, index, "created_at"); ts != "" {
		createdAt, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("created_at must be RFC3339: %w", err)
		}
		rv.CreatedAt = createdAt.UTC()
	}
	if rv.ID == "" {
		rv.ID = uuid.NewSHA1(reviewNamespace, []byte(rv.ProductHandle+"\x00"+rv.Author+"\x00"+rv.Body)).String()
	} else if _, err := uuid.Parse(rv.ID); err != nil {
		return nil, fmt.Errorf("invalid id %q", rv.ID)
	}
	return rv, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
