package model

import (
	"time"

	"github.com/google/uuid"
)

// Book is a row of the books table. DeletedAt != nil means soft-deleted.
type Book struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Author       string     `json:"author" db:"author"`
	Editorial    string     `json:"editorial" db:"editorial"`
	Price        int64      `json:"price" db:"price"` // whole currency units, never fractional
	Availability bool       `json:"availability" db:"availability"`
	Genre        string     `json:"genre" db:"genre"`
	Description  *string    `json:"description,omitempty" db:"description"`
	ImageURL     *string    `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

func (b *Book) IsActive() bool {
	return b.DeletedAt == nil
}

// Clone returns a deep copy so stores never hand out shared pointers
func (b *Book) Clone() *Book {
	cp := *b
	if b.Description != nil {
		v := *b.Description
		cp.Description = &v
	}
	if b.ImageURL != nil {
		v := *b.ImageURL
		cp.ImageURL = &v
	}
	if b.DeletedAt != nil {
		v := *b.DeletedAt
		cp.DeletedAt = &v
	}
	return &cp
}

// PageMeta describes the window returned by FindAll
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// BookPage is the paginated envelope {data, meta}
type BookPage struct {
	Data []Book   `json:"data"`
	Meta PageMeta `json:"meta"`
}
