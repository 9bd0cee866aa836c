package query

import (
	"errors"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-inventory-backend/internal/domains/book/model"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func renderSQL(t *testing.T, q *Query) (string, []interface{}) {
	t.Helper()
	sql, args, err := goqu.Dialect("postgres").
		From("books").
		Where(q.Where()).
		Order(q.OrderBy()...).
		Prepared(true).
		ToSQL()
	require.NoError(t, err)
	return sql, args
}

func Test_Build_Defaults(t *testing.T) {
	q, err := Build(model.FilterBookRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1, q.Page())
	assert.Equal(t, 10, q.Limit())
	assert.Equal(t, 0, q.Offset())
	assert.Equal(t, "createdAt", q.SortBy())
	assert.Equal(t, "DESC", q.SortOrder())
}

func Test_Build_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   model.FilterBookRequest
		field string
	}{
		{name: "page zero", req: model.FilterBookRequest{Page: intPtr(0)}, field: "page"},
		{name: "negative page", req: model.FilterBookRequest{Page: intPtr(-3)}, field: "page"},
		{name: "limit zero", req: model.FilterBookRequest{Limit: intPtr(0)}, field: "limit"},
		{name: "unknown sort field", req: model.FilterBookRequest{SortBy: "password; DROP TABLE books"}, field: "sortBy"},
		{name: "bad sort order", req: model.FilterBookRequest{SortOrder: "sideways"}, field: "sortOrder"},
		{name: "second page of max limit", req: model.FilterBookRequest{Page: intPtr(2), Limit: intPtr(math.MaxInt)}, field: "page"},
		{name: "offset overflows", req: model.FilterBookRequest{Page: intPtr(1<<62 + 1), Limit: intPtr(4)}, field: "page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Build(tt.req)

			assert.Nil(t, q)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrValidation))

			var ve *model.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Contains(t, ve.Fields, tt.field)
		})
	}
}

func Test_Build_SortAliases(t *testing.T) {
	tests := []struct {
		sortBy    string
		sortOrder string
		wantBy    string
		wantOrder string
	}{
		{"created_at", "asc", "createdAt", "ASC"},
		{"updated_at", "Desc", "updatedAt", "DESC"},
		{"price", "ASC", "price", "ASC"},
		{"  title ", "", "title", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			q, err := Build(model.FilterBookRequest{SortBy: tt.sortBy, SortOrder: tt.sortOrder})
			require.NoError(t, err)
			assert.Equal(t, tt.wantBy, q.SortBy())
			assert.Equal(t, tt.wantOrder, q.SortOrder())
		})
	}
}

func Test_Window(t *testing.T) {
	q, err := Build(model.FilterBookRequest{Page: intPtr(2), Limit: intPtr(10)})
	require.NoError(t, err)

	assert.Equal(t, 10, q.Offset())
	assert.Equal(t, 2, q.TotalPages(15))
	assert.Equal(t, 1, q.TotalPages(10))
	assert.Equal(t, 0, q.TotalPages(0))
	assert.Equal(t, 3, q.TotalPages(21))
}

func Test_Window_LargeValues(t *testing.T) {
	q, err := Build(model.FilterBookRequest{Limit: intPtr(math.MaxInt)})
	require.NoError(t, err)
	assert.Equal(t, 0, q.Offset())
	assert.Equal(t, 1, q.TotalPages(3))

	last := math.MaxInt / 4
	q, err = Build(model.FilterBookRequest{Page: intPtr(last), Limit: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, (last-1)*4, q.Offset())
	assert.GreaterOrEqual(t, q.Offset()+q.Limit(), q.Offset())
}

func Test_Where_SQL(t *testing.T) {
	tests := []struct {
		name     string
		req      model.FilterBookRequest
		contains []string
		absent   []string
		args     []interface{}
	}{
		{
			name:     "active predicate always present",
			req:      model.FilterBookRequest{},
			contains: []string{`"deleted_at" IS NULL`, `ORDER BY "created_at" DESC, "id" ASC`},
			absent:   []string{"ILIKE"},
		},
		{
			name: "exact filters are ANDed",
			req: model.FilterBookRequest{
				Genre:        "Ficción",
				Editorial:    "Sudamericana",
				Author:       "Gabriel García Márquez",
				Availability: boolPtr(true),
			},
			contains: []string{`"genre" = $`, `"editorial" = $`, `"author" = $`, `"availability" IS TRUE`, " AND "},
			absent:   []string{" OR "},
			args:     []interface{}{"Ficción", "Sudamericana", "Gabriel García Márquez"},
		},
		{
			name:     "search is one OR group over four columns",
			req:      model.FilterBookRequest{Genre: "Ficción", Search: "García"},
			contains: []string{`"title" ILIKE $`, `"author" ILIKE $`, `"editorial" ILIKE $`, `"genre" ILIKE $`, " OR "},
			args:     []interface{}{"Ficción", "%García%", "%García%", "%García%", "%García%"},
		},
		{
			name:     "text sort uses byte collation",
			req:      model.FilterBookRequest{SortBy: "title", SortOrder: "ASC"},
			contains: []string{`ORDER BY "title" COLLATE "C" ASC, "id" ASC`},
		},
		{
			name:     "wildcards in search are escaped",
			req:      model.FilterBookRequest{Search: "100%_off"},
			args:     []interface{}{`%100\%\_off%`, `%100\%\_off%`, `%100\%\_off%`, `%100\%\_off%`},
			contains: []string{"ILIKE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Build(tt.req)
			require.NoError(t, err)

			sql, args := renderSQL(t, q)
			for _, fragment := range tt.contains {
				assert.Contains(t, sql, fragment)
			}
			for _, fragment := range tt.absent {
				assert.NotContains(t, sql, fragment)
			}
			if tt.args != nil {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func testBook(title, author, editorial, genre string, available bool) *model.Book {
	now := time.Now()
	return &model.Book{
		ID:           uuid.New(),
		Title:        title,
		Author:       author,
		Editorial:    editorial,
		Genre:        genre,
		Availability: available,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func Test_Match(t *testing.T) {
	cien := testBook("Cien años de soledad", "Gabriel García Márquez", "Sudamericana", "Ficción", true)
	deleted := testBook("Amor en tiempos", "Gabriel García Márquez", "Sudamericana", "Ficción", true)
	deletedAt := time.Now()
	deleted.DeletedAt = &deletedAt
	historia := testBook("Breve historia", "Otro Autor", "Planeta", "Historia", false)

	tests := []struct {
		name string
		req  model.FilterBookRequest
		book *model.Book
		want bool
	}{
		{"no filters match active", model.FilterBookRequest{}, cien, true},
		{"soft-deleted never matches", model.FilterBookRequest{}, deleted, false},
		{"search is case-insensitive on author", model.FilterBookRequest{Search: "garcía"}, cien, true},
		{"search hits genre", model.FilterBookRequest{Search: "HISTORIA"}, historia, true},
		{"search hits editorial", model.FilterBookRequest{Search: "planet"}, historia, true},
		{"search miss", model.FilterBookRequest{Search: "García"}, historia, false},
		{"exact genre", model.FilterBookRequest{Genre: "Ficción"}, cien, true},
		{"exact genre is exact", model.FilterBookRequest{Genre: "ficción"}, cien, false},
		{"availability false", model.FilterBookRequest{Availability: boolPtr(false)}, historia, true},
		{"availability mismatch", model.FilterBookRequest{Availability: boolPtr(false)}, cien, false},
		{"filters AND search", model.FilterBookRequest{Genre: "Historia", Search: "García"}, historia, false},
		{"wildcard is literal", model.FilterBookRequest{Search: "%"}, cien, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Build(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Match(tt.book))
		})
	}
}

func Test_Less(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := testBook("B", "x", "x", "x", true)
	a.CreatedAt = base
	a.Price = 300
	b := testBook("A", "x", "x", "x", true)
	b.CreatedAt = base.Add(time.Hour)
	b.Price = 100
	c := testBook("C", "x", "x", "x", true)
	c.CreatedAt = base.Add(2 * time.Hour)
	c.Price = 100

	sortWith := func(req model.FilterBookRequest) []*model.Book {
		q, err := Build(req)
		require.NoError(t, err)
		books := []*model.Book{a, b, c}
		sort.SliceStable(books, func(i, j int) bool { return q.Less(books[i], books[j]) })
		return books
	}

	assert.Equal(t, []*model.Book{c, b, a}, sortWith(model.FilterBookRequest{}))
	assert.Equal(t, []*model.Book{b, a, c}, sortWith(model.FilterBookRequest{SortBy: "title", SortOrder: "asc"}))

	byPrice := sortWith(model.FilterBookRequest{SortBy: "price", SortOrder: "asc"})
	assert.Equal(t, a, byPrice[2])
	// equal prices fall back to id ascending
	first, second := byPrice[0], byPrice[1]
	assert.True(t, first.ID.String() < second.ID.String())
}

func Test_Fingerprint(t *testing.T) {
	q1, err := Build(model.FilterBookRequest{})
	require.NoError(t, err)
	q2, err := Build(model.FilterBookRequest{SortBy: "createdAt", SortOrder: "desc", Page: intPtr(1), Limit: intPtr(10)})
	require.NoError(t, err)
	q3, err := Build(model.FilterBookRequest{Page: intPtr(2)})
	require.NoError(t, err)
	q4, err := Build(model.FilterBookRequest{Genre: "a", Editorial: ""})
	require.NoError(t, err)
	q5, err := Build(model.FilterBookRequest{Editorial: "a"})
	require.NoError(t, err)

	assert.Equal(t, q1.Fingerprint(), q2.Fingerprint())
	assert.NotEqual(t, q1.Fingerprint(), q3.Fingerprint())
	assert.NotEqual(t, q4.Fingerprint(), q5.Fingerprint())
}

func Test_EscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, EscapeLike(`a%b_c\d`))
	assert.Equal(t, "García", EscapeLike("García"))
}
