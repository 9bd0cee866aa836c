package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ============ CREATE ============

var notBlank = regexp.MustCompile(`\S`)

type CreateBookRequest struct {
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	Editorial    string  `json:"editorial"`
	Price        *int64  `json:"price"`
	Availability *bool   `json:"availability"`
	Genre        string  `json:"genre"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"imageUrl"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.RuneLength(1, 255), validation.Match(notBlank)),
		validation.Field(&r.Author, validation.Required, validation.RuneLength(1, 255), validation.Match(notBlank)),
		validation.Field(&r.Editorial, validation.Required, validation.RuneLength(1, 255), validation.Match(notBlank)),
		validation.Field(&r.Price, validation.NotNil, validation.Min(int64(0))),
		validation.Field(&r.Genre, validation.Required, validation.RuneLength(1, 100), validation.Match(notBlank)),
	)
}

// ToBook builds a new active record. Availability defaults to true.
func (r CreateBookRequest) ToBook(id uuid.UUID, now time.Time) *Book {
	availability := true
	if r.Availability != nil {
		availability = *r.Availability
	}
	var price int64
	if r.Price != nil {
		price = *r.Price
	}
	return &Book{
		ID:           id,
		Title:        strings.TrimSpace(r.Title),
		Author:       strings.TrimSpace(r.Author),
		Editorial:    strings.TrimSpace(r.Editorial),
		Price:        price,
		Availability: availability,
		Genre:        strings.TrimSpace(r.Genre),
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ============ UPDATE ============

// UpdateBookRequest is a partial patch: nil fields are left untouched
type UpdateBookRequest struct {
	Title        *string `json:"title"`
	Author       *string `json:"author"`
	Editorial    *string `json:"editorial"`
	Price        *int64  `json:"price"`
	Availability *bool   `json:"availability"`
	Genre        *string `json:"genre"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"imageUrl"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.RuneLength(1, 255), validation.Match(notBlank)),
		validation.Field(&r.Author, validation.NilOrNotEmpty, validation.RuneLength(1, 255), validation.Match(notBlank)),
		validation.Field(&r.Editorial, validation.NilOrNotEmpty, validation.RuneLength(1, 255), validation.Match(notBlank)),
		validation.Field(&r.Price, validation.Min(int64(0))),
		validation.Field(&r.Genre, validation.NilOrNotEmpty, validation.RuneLength(1, 100), validation.Match(notBlank)),
	)
}

func (r UpdateBookRequest) IsEmpty() bool {
	return r.Title == nil && r.Author == nil && r.Editorial == nil && r.Price == nil &&
		r.Availability == nil && r.Genre == nil && r.Description == nil && r.ImageURL == nil
}

// ApplyTo patches b in place. ID and CreatedAt are never touched.
func (r UpdateBookRequest) ApplyTo(b *Book, now time.Time) {
	if r.Title != nil {
		b.Title = strings.TrimSpace(*r.Title)
	}
	if r.Author != nil {
		b.Author = strings.TrimSpace(*r.Author)
	}
	if r.Editorial != nil {
		b.Editorial = strings.TrimSpace(*r.Editorial)
	}
	if r.Price != nil {
		b.Price = *r.Price
	}
	if r.Availability != nil {
		b.Availability = *r.Availability
	}
	if r.Genre != nil {
		b.Genre = strings.TrimSpace(*r.Genre)
	}
	if r.Description != nil {
		v := *r.Description
		b.Description = &v
	}
	if r.ImageURL != nil {
		v := *r.ImageURL
		b.ImageURL = &v
	}
	b.UpdatedAt = now
}

// ============ FILTER ============

const (
	DefaultPage      = 1
	DefaultLimit     = 10
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "DESC"
)

// FilterBookRequest - query parameters of GET /books
type FilterBookRequest struct {
	Genre        string `form:"genre" json:"genre,omitempty"`
	Editorial    string `form:"editorial" json:"editorial,omitempty"`
	Author       string `form:"author" json:"author,omitempty"`
	Availability *bool  `form:"availability" json:"availability,omitempty"`
	Search       string `form:"search" json:"search,omitempty"`
	SortBy       string `form:"sortBy" json:"sortBy,omitempty"`
	SortOrder    string `form:"sortOrder" json:"sortOrder,omitempty"`
	Page         *int   `form:"page" json:"page,omitempty"`
	Limit        *int   `form:"limit" json:"limit,omitempty"`
}

func (r FilterBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Genre, validation.RuneLength(0, 100)),
		validation.Field(&r.Editorial, validation.RuneLength(0, 255)),
		validation.Field(&r.Author, validation.RuneLength(0, 255)),
		validation.Field(&r.Search, validation.RuneLength(0, 255)),
		validation.Field(&r.Page, validation.By(atLeastOneIfSet)),
		validation.Field(&r.Limit, validation.By(atLeastOneIfSet)),
		validation.Field(&r.SortOrder, validation.By(func(value interface{}) error {
			order, _ := value.(string)
			switch strings.ToUpper(strings.TrimSpace(order)) {
			case "", "ASC", "DESC":
				return nil
			}
			return validation.NewError("validation_sort_order", "must be ASC or DESC")
		})),
	)
}

// atLeastOneIfSet rejects explicit zero or negative values; Min skips zero as "empty"
func atLeastOneIfSet(value interface{}) error {
	n, ok := value.(*int)
	if !ok || n == nil {
		return nil
	}
	if *n < 1 {
		return validation.NewError("validation_min_one", "must be no less than 1")
	}
	return nil
}
