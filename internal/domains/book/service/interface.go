package service

import (
	"context"

	"book-inventory-backend/internal/domains/book/model"
)

// ServiceInterface - book use cases exposed to the HTTP layer
type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)
	FindAll(ctx context.Context, req model.FilterBookRequest) (*model.BookPage, error)
	FindOne(ctx context.Context, id string) (*model.Book, error)
	Update(ctx context.Context, id string, req model.UpdateBookRequest) (*model.Book, error)
	Remove(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id string, data []byte, filename string) (*model.Book, error)
	GetStatistics(ctx context.Context) (*model.Statistics, error)
	ExportCSV(ctx context.Context) (string, error)
	ExportExcel(ctx context.Context) ([]byte, error)
}
