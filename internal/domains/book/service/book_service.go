package service

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"book-inventory-backend/internal/domains/book/model"
	"book-inventory-backend/internal/domains/book/query"
	"book-inventory-backend/internal/domains/book/repository"
	"book-inventory-backend/internal/infrastructure/storage"
	"book-inventory-backend/pkg/cache"
	"book-inventory-backend/pkg/logger"
	"book-inventory-backend/pkg/metrics"
)

const (
	cacheKeyListPrefix = "books:list:"
	cacheKeyStatistics = "books:statistics:"
	cachePatternBooks  = "books:*"
	defaultCacheTTL    = 5 * time.Minute
)

// BookService - implements ServiceInterface
type BookService struct {
	repo     repository.RepositoryInterface
	images   storage.ImageStorage
	cache    cache.Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
	newID    func() uuid.UUID

	// generation is part of every cache key and moves after each committed
	// mutation, so a read that raced a write can only fill a key nobody asks for again
	generation atomic.Uint64
}

type Option func(*BookService)

func WithCacheTTL(ttl time.Duration) Option {
	return func(s *BookService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *BookService) { s.metrics = m }
}

// WithClock replaces time.Now, used by tests
func WithClock(now func() time.Time) Option {
	return func(s *BookService) { s.now = now }
}

// NewService - constructor with DI. A nil cache disables caching.
func NewService(
	repo repository.RepositoryInterface,
	images storage.ImageStorage,
	c cache.Cache,
	opts ...Option,
) *BookService {
	s := &BookService{
		repo:     repo,
		images:   images,
		cache:    c,
		cacheTTL: defaultCacheTTL,
		now:      time.Now,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ============================================
// CREATE
// ============================================

func (s *BookService) Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError("invalid book", err)
	}

	book := req.ToBook(s.newID(), s.now().UTC())
	if err := s.repo.CreateBook(ctx, book); err != nil {
		return nil, model.WrapStorage("create book", err)
	}

	s.afterMutation(ctx, "create")
	logger.Info("Book created", map[string]interface{}{"book_id": book.ID.String()})
	return book, nil
}

// ============================================
// READ
// ============================================

func (s *BookService) FindAll(ctx context.Context, req model.FilterBookRequest) (*model.BookPage, error) {
	q, err := query.Build(req)
	if err != nil {
		return nil, err
	}

	cacheKey := s.cacheKey(cacheKeyListPrefix) + ":" + q.Fingerprint()
	var cached model.BookPage
	if s.cacheGet(ctx, "books_list", cacheKey, &cached) {
		return &cached, nil
	}

	books, total, err := s.repo.ListBooks(ctx, q)
	if err != nil {
		return nil, model.WrapStorage("list books", err)
	}
	if books == nil {
		books = []model.Book{}
	}

	page := &model.BookPage{
		Data: books,
		Meta: model.PageMeta{
			Total:      total,
			Page:       q.Page(),
			Limit:      q.Limit(),
			TotalPages: q.TotalPages(total),
		},
	}

	s.cacheSet(ctx, cacheKey, page)
	return page, nil
}

func (s *BookService) FindOne(ctx context.Context, id string) (*model.Book, error) {
	bookID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	book, err := s.repo.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, model.WrapStorage("get book", err)
	}
	return book, nil
}

// ============================================
// UPDATE / DELETE
// ============================================

func (s *BookService) Update(ctx context.Context, id string, req model.UpdateBookRequest) (*model.Book, error) {
	bookID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError("invalid book", err)
	}

	now := s.now().UTC()
	book, err := s.repo.UpdateBook(ctx, bookID, func(b *model.Book) error {
		req.ApplyTo(b, now)
		return nil
	})
	if err != nil {
		return nil, model.WrapStorage("update book", err)
	}

	s.afterMutation(ctx, "update")
	return book, nil
}

func (s *BookService) Remove(ctx context.Context, id string) error {
	bookID, err := parseID(id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDeleteBook(ctx, bookID, s.now().UTC()); err != nil {
		return model.WrapStorage("remove book", err)
	}

	s.afterMutation(ctx, "remove")
	logger.Info("Book soft-deleted", map[string]interface{}{"book_id": bookID.String()})
	return nil
}

// ============================================
// IMAGE
// ============================================

// UploadImage replaces the image reference of an active book. Removing the
// previous image is best-effort; uploading the new one is not.
func (s *BookService) UploadImage(ctx context.Context, id string, data []byte, filename string) (*model.Book, error) {
	book, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	if book.ImageURL != nil && *book.ImageURL != "" {
		if err := s.images.Delete(ctx, *book.ImageURL); err != nil {
			logger.Warn("Failed to delete previous book image", map[string]interface{}{
				"book_id": book.ID.String(),
				"ref":     *book.ImageURL,
				"error":   err.Error(),
			})
		}
	}

	ref, err := s.images.Upload(ctx, data, filename)
	if err != nil {
		return nil, &model.StorageError{Op: "upload image", Err: err}
	}

	now := s.now().UTC()
	updated, err := s.repo.UpdateBook(ctx, book.ID, func(b *model.Book) error {
		b.ImageURL = &ref
		b.UpdatedAt = now
		return nil
	})
	if err != nil {
		// the book vanished between the lookup and the update
		if delErr := s.images.Delete(ctx, ref); delErr != nil {
			logger.Warn("Failed to delete orphaned book image", map[string]interface{}{
				"ref":   ref,
				"error": delErr.Error(),
			})
		}
		return nil, model.WrapStorage("save image reference", err)
	}

	s.afterMutation(ctx, "upload_image")
	return updated, nil
}

// ============================================
// STATISTICS
// ============================================

func (s *BookService) GetStatistics(ctx context.Context) (*model.Statistics, error) {
	cacheKey := s.cacheKey(cacheKeyStatistics)
	var cached model.Statistics
	if s.cacheGet(ctx, "books_statistics", cacheKey, &cached) {
		return &cached, nil
	}

	rows, err := s.repo.CountByGenreAndAvailability(ctx)
	if err != nil {
		return nil, model.WrapStorage("get statistics", err)
	}

	stats := model.FoldStatistics(rows)
	s.cacheSet(ctx, cacheKey, stats)
	return &stats, nil
}

// ============================================
// HELPERS
// ============================================

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, model.FieldError("id", "must be a valid UUID")
	}
	return parsed, nil
}

// cacheKey must be taken before the store is read
func (s *BookService) cacheKey(prefix string) string {
	return prefix + strconv.FormatUint(s.generation.Load(), 10)
}

func (s *BookService) cacheGet(ctx context.Context, name, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}

	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn("Cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		s.metrics.CacheResult(name, "error")
		return false
	}
	if found {
		s.metrics.CacheResult(name, "hit")
	} else {
		s.metrics.CacheResult(name, "miss")
	}
	return found
}

func (s *BookService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		logger.Warn("Cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// afterMutation retires the current cache generation and drops every cached
// listing and the statistics. Call it only after the store write has committed.
func (s *BookService) afterMutation(ctx context.Context, operation string) {
	s.generation.Add(1)
	s.metrics.IncMutation(operation)
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, cachePatternBooks); err != nil {
		logger.Warn("Cache invalidation failed", map[string]interface{}{
			"operation": operation,
			"error":     err.Error(),
		})
	}
}

var _ ServiceInterface = (*BookService)(nil)
