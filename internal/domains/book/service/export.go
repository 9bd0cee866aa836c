package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"book-inventory-backend/internal/domains/book/model"
)

const csvHeader = "ID,Title,Author,Editorial,Price,Availability,Genre,Created At"

var exportHeaders = []string{"ID", "Title", "Author", "Editorial", "Price", "Availability", "Genre", "Created At"}

// ExportCSV projects every active book in the store's natural order
func (s *BookService) ExportCSV(ctx context.Context) (string, error) {
	books, err := s.repo.ListActiveBooks(ctx)
	if err != nil {
		return "", model.WrapStorage("export csv", err)
	}
	return ProjectCSV(books), nil
}

// ProjectCSV renders the header, a newline, then one row per book joined by
// newlines. Text fields are wrapped in double quotes without escaping, so a
// value holding a quote or a newline yields a malformed row.
func ProjectCSV(books []model.Book) string {
	var sb strings.Builder
	sb.WriteString(csvHeader)
	sb.WriteByte('\n')

	for i, b := range books {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s,\"%s\",\"%s\",\"%s\",%d,%t,\"%s\",%s",
			b.ID.String(),
			b.Title,
			b.Author,
			b.Editorial,
			b.Price,
			b.Availability,
			b.Genre,
			b.CreatedAt.UTC().Format(time.RFC3339),
		)
	}
	return sb.String()
}

// ExportExcel builds an .xlsx workbook with the same columns as ExportCSV
func (s *BookService) ExportExcel(ctx context.Context) ([]byte, error) {
	books, err := s.repo.ListActiveBooks(ctx)
	if err != nil {
		return nil, model.WrapStorage("export excel", err)
	}

	data, err := buildBooksExcelFile(books)
	if err != nil {
		return nil, model.WrapStorage("build excel file", err)
	}
	return data, nil
}

func buildBooksExcelFile(books []model.Book) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Books"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for i, b := range books {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			b.ID.String(),
			b.Title,
			b.Author,
			b.Editorial,
			b.Price,
			b.Availability,
			b.Genre,
			b.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// exportFilename - books-20240131-150405.xlsx
func exportFilename(ext string, now time.Time) string {
	return "books-" + now.UTC().Format("20060102-150405") + "." + strings.TrimPrefix(ext, ".")
}

// ExportFilename names a download produced now
func ExportFilename(ext string) string {
	return exportFilename(ext, time.Now())
}
