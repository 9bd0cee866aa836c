package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"book-inventory-backend/internal/domains/book/model"
	"book-inventory-backend/internal/domains/book/query"
	"book-inventory-backend/pkg/database"
)

const tableBooks = "books"

var bookColumns = []interface{}{
	query.ColID, query.ColTitle, query.ColAuthor, query.ColEditorial, query.ColPrice,
	query.ColAvailability, query.ColGenre, "description", "image_url",
	query.ColCreatedAt, query.ColUpdatedAt, query.ColDeletedAt,
}

// postgresRepository - pgxpool for execution, goqu for statement building
type postgresRepository struct {
	pool    *pgxpool.Pool
	dialect goqu.DialectWrapper
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{
		pool:    pool,
		dialect: goqu.Dialect("postgres"),
	}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *postgresRepository) selectBooks() *goqu.SelectDataset {
	return r.dialect.From(tableBooks).Select(bookColumns...).Prepared(true)
}

func collectBooks(ctx context.Context, q querier, ds *goqu.SelectDataset) ([]model.Book, error) {
	sql, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, fmt.Errorf("scan books: %w", err)
	}
	return books, nil
}

// ============================================
// CREATE
// ============================================

func (r *postgresRepository) CreateBook(ctx context.Context, book *model.Book) error {
	sql, args, err := r.insertStatement(book).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

func (r *postgresRepository) insertStatement(book *model.Book) *goqu.InsertDataset {
	return r.dialect.Insert(tableBooks).
		Rows(goqu.Record{
			query.ColID:           book.ID,
			query.ColTitle:        book.Title,
			query.ColAuthor:       book.Author,
			query.ColEditorial:    book.Editorial,
			query.ColPrice:        book.Price,
			query.ColAvailability: book.Availability,
			query.ColGenre:        book.Genre,
			"description":         book.Description,
			"image_url":           book.ImageURL,
			query.ColCreatedAt:    book.CreatedAt,
			query.ColUpdatedAt:    book.UpdatedAt,
		}).
		Prepared(true)
}

// ============================================
// READ
// ============================================

func (r *postgresRepository) GetBookByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return r.getActive(ctx, r.pool, id, false)
}

func (r *postgresRepository) getActive(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (*model.Book, error) {
	books, err := collectBooks(ctx, q, r.activeByIDStatement(id, forUpdate))
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, model.ErrBookNotFound
	}
	return &books[0], nil
}

func (r *postgresRepository) activeByIDStatement(id uuid.UUID, forUpdate bool) *goqu.SelectDataset {
	ds := r.selectBooks().Where(
		goqu.C(query.ColID).Eq(id),
		goqu.C(query.ColDeletedAt).IsNull(),
	)
	if forUpdate {
		ds = ds.ForUpdate(exp.Wait)
	}
	return ds
}

func (r *postgresRepository) ListBooks(ctx context.Context, q *query.Query) ([]model.Book, int, error) {
	total, err := r.countBooks(ctx, q.Where())
	if err != nil {
		return nil, 0, err
	}
	if windowIsEmpty(q, total) {
		return []model.Book{}, total, nil
	}

	books, err := collectBooks(ctx, r.pool, r.pageStatement(q))
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// windowIsEmpty skips the page query when the window starts past the last match
func windowIsEmpty(q *query.Query, total int) bool {
	return total == 0 || q.Offset() >= total
}

func (r *postgresRepository) pageStatement(q *query.Query) *goqu.SelectDataset {
	return r.selectBooks().
		Where(q.Where()).
		Order(q.OrderBy()...).
		Limit(uint(q.Limit())).
		Offset(uint(q.Offset()))
}

func (r *postgresRepository) countStatement(where exp.Expression) *goqu.SelectDataset {
	return r.dialect.From(tableBooks).
		Select(goqu.COUNT(goqu.Star())).
		Where(where).
		Prepared(true)
}

func (r *postgresRepository) countBooks(ctx context.Context, where exp.Expression) (int, error) {
	sql, args, err := r.countStatement(where).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return total, nil
}

// ListActiveBooks applies no ORDER BY
func (r *postgresRepository) ListActiveBooks(ctx context.Context) ([]model.Book, error) {
	return collectBooks(ctx, r.pool, r.activeStatement())
}

func (r *postgresRepository) activeStatement() *goqu.SelectDataset {
	return r.selectBooks().Where(goqu.C(query.ColDeletedAt).IsNull())
}

func (r *postgresRepository) CountByGenreAndAvailability(ctx context.Context) ([]model.GenreAvailabilityCount, error) {
	sql, args, err := r.statisticsStatement().ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build statistics: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query statistics: %w", err)
	}

	counts, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.GenreAvailabilityCount])
	if err != nil {
		return nil, fmt.Errorf("scan statistics: %w", err)
	}
	return counts, nil
}

func (r *postgresRepository) statisticsStatement() *goqu.SelectDataset {
	return r.dialect.From(tableBooks).
		Select(
			goqu.C(query.ColGenre),
			goqu.C(query.ColAvailability),
			goqu.COUNT(goqu.Star()).As("count"),
		).
		Where(goqu.C(query.ColDeletedAt).IsNull()).
		GroupBy(goqu.C(query.ColGenre), goqu.C(query.ColAvailability)).
		Prepared(true)
}

// ============================================
// UPDATE / DELETE
// ============================================

// UpdateBook locks the row (SELECT ... FOR UPDATE) for the read-modify-write
func (r *postgresRepository) UpdateBook(ctx context.Context, id uuid.UUID, apply func(*model.Book) error) (*model.Book, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Book, error) {
		current, err := r.getActive(ctx, tx, id, true)
		if err != nil {
			return nil, err
		}

		updated := current.Clone()
		if err := apply(updated); err != nil {
			return nil, err
		}
		updated.ID = current.ID
		updated.CreatedAt = current.CreatedAt
		updated.DeletedAt = current.DeletedAt

		sql, args, err := r.updateStatement(updated).ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build update: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return nil, fmt.Errorf("failed to update book: %w", err)
		}
		return updated, nil
	})
}

func (r *postgresRepository) updateStatement(updated *model.Book) *goqu.UpdateDataset {
	return r.dialect.Update(tableBooks).
		Set(goqu.Record{
			query.ColTitle:        updated.Title,
			query.ColAuthor:       updated.Author,
			query.ColEditorial:    updated.Editorial,
			query.ColPrice:        updated.Price,
			query.ColAvailability: updated.Availability,
			query.ColGenre:        updated.Genre,
			"description":         updated.Description,
			"image_url":           updated.ImageURL,
			query.ColUpdatedAt:    updated.UpdatedAt,
		}).
		Where(goqu.C(query.ColID).Eq(updated.ID)).
		Prepared(true)
}

// SoftDeleteBook reports ErrBookNotFound when no active row matched
func (r *postgresRepository) SoftDeleteBook(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	sql, args, err := r.softDeleteStatement(id, deletedAt).ToSQL()
	if err != nil {
		return fmt.Errorf("build soft delete: %w", err)
	}

	result, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to soft delete book: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) softDeleteStatement(id uuid.UUID, deletedAt time.Time) *goqu.UpdateDataset {
	return r.dialect.Update(tableBooks).
		Set(goqu.Record{
			query.ColDeletedAt: deletedAt,
			query.ColUpdatedAt: deletedAt,
		}).
		Where(
			goqu.C(query.ColID).Eq(id),
			goqu.C(query.ColDeletedAt).IsNull(),
		).
		Prepared(true)
}
