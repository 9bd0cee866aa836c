// Package query turns a FilterBookRequest into a validated, store independent
// description of a book listing: the predicate, the ordering and the window.
//
// A Query renders twice. Where and OrderBy produce goqu expressions for the
// Postgres store; Match and Less evaluate the same semantics in Go for the
// in-memory store.
package query

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"book-inventory-backend/internal/domains/book/model"
)

// Column names of the books table
const (
	ColID           = "id"
	ColTitle        = "title"
	ColAuthor       = "author"
	ColEditorial    = "editorial"
	ColPrice        = "price"
	ColAvailability = "availability"
	ColGenre        = "genre"
	ColCreatedAt    = "created_at"
	ColUpdatedAt    = "updated_at"
	ColDeletedAt    = "deleted_at"
)

type sortField struct {
	name   string
	column string
	text   bool
}

var sortFields = map[string]sortField{
	"createdAt":    {name: "createdAt", column: ColCreatedAt},
	"updatedAt":    {name: "updatedAt", column: ColUpdatedAt},
	"title":        {name: "title", column: ColTitle, text: true},
	"author":       {name: "author", column: ColAuthor, text: true},
	"editorial":    {name: "editorial", column: ColEditorial, text: true},
	"price":        {name: "price", column: ColPrice},
	"availability": {name: "availability", column: ColAvailability},
	"genre":        {name: "genre", column: ColGenre, text: true},
}

func init() {
	// snake_case aliases
	for _, f := range []sortField{sortFields["createdAt"], sortFields["updatedAt"]} {
		sortFields[f.column] = f
	}
}

// SortFields lists the accepted sortBy values in canonical form
func SortFields() []string {
	names := make([]string, 0, len(sortFields))
	seen := map[string]bool{}
	for _, f := range sortFields {
		if !seen[f.name] {
			seen[f.name] = true
			names = append(names, f.name)
		}
	}
	sort.Strings(names)
	return names
}

// Query is immutable once built
type Query struct {
	genre        *string
	editorial    *string
	author       *string
	availability *bool
	search       string

	sort       sortField
	descending bool

	page  int
	limit int
}

// Build validates req, applies defaults and resolves the sort field.
// Every rejection is a *model.ValidationError.
func Build(req model.FilterBookRequest) (*Query, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError("invalid filter", err)
	}

	q := &Query{
		genre:        optional(req.Genre),
		editorial:    optional(req.Editorial),
		author:       optional(req.Author),
		availability: req.Availability,
		search:       strings.TrimSpace(req.Search),
		page:         model.DefaultPage,
		limit:        model.DefaultLimit,
	}
	if req.Page != nil {
		q.page = *req.Page
	}
	if req.Limit != nil {
		q.limit = *req.Limit
	}
	// offset+limit == page*limit must fit in an int
	if q.page > math.MaxInt/q.limit {
		return nil, model.FieldError("page", "is out of range for the given limit")
	}

	sortBy := strings.TrimSpace(req.SortBy)
	if sortBy == "" {
		sortBy = model.DefaultSortBy
	}
	field, ok := sortFields[sortBy]
	if !ok {
		return nil, model.FieldError("sortBy", fmt.Sprintf("must be one of %s", strings.Join(SortFields(), ", ")))
	}
	q.sort = field

	order := strings.ToUpper(strings.TrimSpace(req.SortOrder))
	if order == "" {
		order = model.DefaultSortOrder
	}
	q.descending = order == "DESC"

	return q, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ==================== WINDOW ====================

func (q *Query) Page() int   { return q.page }
func (q *Query) Limit() int  { return q.limit }
func (q *Query) Offset() int { return (q.page - 1) * q.limit }

func (q *Query) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total-1)/q.limit + 1
}

func (q *Query) SortBy() string { return q.sort.name }

func (q *Query) SortOrder() string {
	if q.descending {
		return "DESC"
	}
	return "ASC"
}

// ==================== SQL RENDERING ====================

// Where is the full predicate, the active-record condition included
func (q *Query) Where() exp.Expression {
	conditions := []exp.Expression{goqu.C(ColDeletedAt).IsNull()}

	if q.genre != nil {
		conditions = append(conditions, goqu.C(ColGenre).Eq(*q.genre))
	}
	if q.editorial != nil {
		conditions = append(conditions, goqu.C(ColEditorial).Eq(*q.editorial))
	}
	if q.author != nil {
		conditions = append(conditions, goqu.C(ColAuthor).Eq(*q.author))
	}
	if q.availability != nil {
		conditions = append(conditions, goqu.C(ColAvailability).Eq(*q.availability))
	}

	if q.search != "" {
		pattern := "%" + EscapeLike(q.search) + "%"
		conditions = append(conditions, goqu.Or(
			goqu.C(ColTitle).ILike(pattern),
			goqu.C(ColAuthor).ILike(pattern),
			goqu.C(ColEditorial).ILike(pattern),
			goqu.C(ColGenre).ILike(pattern),
		))
	}

	return goqu.And(conditions...)
}

// OrderBy sorts by the requested field then by id. Text columns use the "C"
// collation so Postgres orders bytes the same way Less does.
func (q *Query) OrderBy() []exp.OrderedExpression {
	var col exp.Orderable = goqu.I(q.sort.column)
	if q.sort.text {
		col = goqu.L(`? COLLATE "C"`, goqu.I(q.sort.column))
	}

	primary := col.Asc()
	if q.descending {
		primary = col.Desc()
	}
	return []exp.OrderedExpression{primary, goqu.I(ColID).Asc()}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike makes LIKE wildcards in s match literally (default escape char)
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ==================== IN-MEMORY EVALUATION ====================

// Match reports whether b satisfies the predicate rendered by Where
func (q *Query) Match(b *model.Book) bool {
	if !b.IsActive() {
		return false
	}
	if q.genre != nil && b.Genre != *q.genre {
		return false
	}
	if q.editorial != nil && b.Editorial != *q.editorial {
		return false
	}
	if q.author != nil && b.Author != *q.author {
		return false
	}
	if q.availability != nil && b.Availability != *q.availability {
		return false
	}
	if q.search != "" {
		term := strings.ToLower(q.search)
		return containsFold(b.Title, term) ||
			containsFold(b.Author, term) ||
			containsFold(b.Editorial, term) ||
			containsFold(b.Genre, term)
	}
	return true
}

func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}

// Less orders a before b the way OrderBy does
func (q *Query) Less(a, b *model.Book) bool {
	c := compareField(q.sort.column, a, b)
	if c != 0 {
		if q.descending {
			return c > 0
		}
		return c < 0
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

func compareField(column string, a, b *model.Book) int {
	switch column {
	case ColTitle:
		return strings.Compare(a.Title, b.Title)
	case ColAuthor:
		return strings.Compare(a.Author, b.Author)
	case ColEditorial:
		return strings.Compare(a.Editorial, b.Editorial)
	case ColGenre:
		return strings.Compare(a.Genre, b.Genre)
	case ColPrice:
		return compareInt64(a.Price, b.Price)
	case ColAvailability:
		return compareBool(a.Availability, b.Availability)
	case ColUpdatedAt:
		return compareTime(a.UpdatedAt, b.UpdatedAt)
	default:
		return compareTime(a.CreatedAt, b.CreatedAt)
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// false < true, as in Postgres
func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}

// ==================== CACHE KEY ====================

// Fingerprint identifies the query for response caching. Equal queries
// (after defaults are applied) share a fingerprint.
func (q *Query) Fingerprint() string {
	var sb strings.Builder
	writeOpt := func(name string, v *string) {
		sb.WriteString(name)
		sb.WriteByte('=')
		if v != nil {
			sb.WriteString(*v)
		}
		sb.WriteByte(0)
	}
	writeOpt("genre", q.genre)
	writeOpt("editorial", q.editorial)
	writeOpt("author", q.author)
	if q.availability != nil {
		fmt.Fprintf(&sb, "availability=%t", *q.availability)
	}
	sb.WriteByte(0)
	fmt.Fprintf(&sb, "search=%s\x00sort=%s %s\x00page=%d\x00limit=%d", q.search, q.sort.name, q.SortOrder(), q.page, q.limit)

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:16])
}
