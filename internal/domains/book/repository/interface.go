package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"book-inventory-backend/internal/domains/book/model"
	"book-inventory-backend/internal/domains/book/query"
)

// RepositoryInterface is the record store. Every read excludes soft-deleted rows.
type RepositoryInterface interface {
	CreateBook(ctx context.Context, book *model.Book) error

	// GetBookByID returns model.ErrBookNotFound for missing or soft-deleted ids
	GetBookByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// ListBooks returns the window selected by q and the total match count
	ListBooks(ctx context.Context, q *query.Query) ([]model.Book, int, error)

	// ListActiveBooks returns every active row in the store's natural order
	ListActiveBooks(ctx context.Context) ([]model.Book, error)

	// UpdateBook loads the active row, lets apply mutate it and persists the
	// result atomically. ID and CreatedAt changes made by apply are discarded.
	UpdateBook(ctx context.Context, id uuid.UUID, apply func(*model.Book) error) (*model.Book, error)

	SoftDeleteBook(ctx context.Context, id uuid.UUID, deletedAt time.Time) error

	CountByGenreAndAvailability(ctx context.Context) ([]model.GenreAvailabilityCount, error)
}
