package repository

import (
	"context"

	"news-extractor/internal/domain/entity"
)

// RecordRepository pushes processed articles to the system of record.
type RecordRepository interface {
	// Create inserts a row. It returns the service's HTTP status code on
	// success; failures are *entity.PersistenceError.
	Create(ctx context.Context, rec entity.Record) (int, error)
}

// PendingRepository is a RecordRepository that can also list and fill rows
// added without article data.
type PendingRepository interface {
	RecordRepository

	// ListPending returns every row that has a URL and no Headline.
	ListPending(ctx context.Context) ([]entity.PendingRow, error)

	// ExistsByURL reports whether any row carries url.
	ExistsByURL(ctx context.Context, url string) (bool, error)

	// CreatePending inserts a row holding only the URL.
	CreatePending(ctx context.Context, url string) error

	// Update overwrites the fields of row id.
	Update(ctx context.Context, id string, rec entity.Record) error
}
