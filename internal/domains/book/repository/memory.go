package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"book-inventory-backend/internal/domains/book/model"
	"book-inventory-backend/internal/domains/book/query"
)

// memoryRepository keeps rows in insertion order, which is its natural order.
// Soft-deleted rows stay in the map so their ids remain reserved.
type memoryRepository struct {
	mu    sync.RWMutex
	rows  map[uuid.UUID]*model.Book
	order []uuid.UUID
}

func NewMemoryRepository() RepositoryInterface {
	return &memoryRepository{
		rows: make(map[uuid.UUID]*model.Book),
	}
}

func (r *memoryRepository) CreateBook(_ context.Context, book *model.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rows[book.ID]; exists {
		return fmt.Errorf("failed to insert book: duplicate id %s", book.ID)
	}
	r.rows[book.ID] = book.Clone()
	r.order = append(r.order, book.ID)
	return nil
}

func (r *memoryRepository) GetBookByID(_ context.Context, id uuid.UUID) (*model.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok || !row.IsActive() {
		return nil, model.ErrBookNotFound
	}
	return row.Clone(), nil
}

func (r *memoryRepository) ListBooks(_ context.Context, q *query.Query) ([]model.Book, int, error) {
	r.mu.RLock()
	matched := make([]*model.Book, 0)
	for _, id := range r.order {
		row := r.rows[id]
		if q.Match(row) {
			matched = append(matched, row.Clone())
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return q.Less(matched[i], matched[j])
	})

	total := len(matched)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := start + min(q.Limit(), total-start)

	page := make([]model.Book, 0, end-start)
	for _, b := range matched[start:end] {
		page = append(page, *b)
	}
	return page, total, nil
}

func (r *memoryRepository) ListActiveBooks(_ context.Context) ([]model.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	books := make([]model.Book, 0, len(r.order))
	for _, id := range r.order {
		if row := r.rows[id]; row.IsActive() {
			books = append(books, *row.Clone())
		}
	}
	return books, nil
}

func (r *memoryRepository) UpdateBook(_ context.Context, id uuid.UUID, apply func(*model.Book) error) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.rows[id]
	if !ok || !current.IsActive() {
		return nil, model.ErrBookNotFound
	}

	updated := current.Clone()
	if err := apply(updated); err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	updated.DeletedAt = nil

	r.rows[id] = updated
	return updated.Clone(), nil
}

func (r *memoryRepository) SoftDeleteBook(_ context.Context, id uuid.UUID, deletedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.rows[id]
	if !ok || !current.IsActive() {
		return model.ErrBookNotFound
	}

	deleted := current.Clone()
	deleted.DeletedAt = &deletedAt
	deleted.UpdatedAt = deletedAt
	r.rows[id] = deleted
	return nil
}

func (r *memoryRepository) CountByGenreAndAvailability(_ context.Context) ([]model.GenreAvailabilityCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type key struct {
		genre        string
		availability bool
	}
	counts := make(map[key]int)
	keys := make([]key, 0)
	for _, id := range r.order {
		row := r.rows[id]
		if !row.IsActive() {
			continue
		}
		k := key{genre: row.Genre, availability: row.Availability}
		if _, seen := counts[k]; !seen {
			keys = append(keys, k)
		}
		counts[k]++
	}

	result := make([]model.GenreAvailabilityCount, 0, len(keys))
	for _, k := range keys {
		result = append(result, model.GenreAvailabilityCount{
			Genre:        k.genre,
			Availability: k.availability,
			Count:        counts[k],
		})
	}
	return result, nil
}
