package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"book-inventory-backend/internal/domains/book/model"
)

func TestProjectCSV_Empty(t *testing.T) {
	assert.Equal(t, "ID,Title,Author,Editorial,Price,Availability,Genre,Created At\n", ProjectCSV(nil))
}

func TestProjectCSV_Rows(t *testing.T) {
	id1 := uuid.MustParse("6f1c2a1e-0000-4000-8000-000000000001")
	id2 := uuid.MustParse("6f1c2a1e-0000-4000-8000-000000000002")
	created := time.Date(2024, 3, 5, 10, 30, 0, 0, time.FixedZone("CLT", -3*3600))

	books := []model.Book{
		{ID: id1, Title: "Cien años de soledad", Author: "Gabriel García Márquez", Editorial: "Sudamericana", Price: 15000, Availability: true, Genre: "Ficción", CreatedAt: created},
		{ID: id2, Title: "Sapiens", Author: "Harari", Editorial: "Debate", Price: 0, Availability: false, Genre: "Historia", CreatedAt: created},
	}

	want := "ID,Title,Author,Editorial,Price,Availability,Genre,Created At\n" +
		id1.String() + `,"Cien años de soledad","Gabriel García Márquez","Sudamericana",15000,true,"Ficción",2024-03-05T13:30:00Z` + "\n" +
		id2.String() + `,"Sapiens","Harari","Debate",0,false,"Historia",2024-03-05T13:30:00Z`

	assert.Equal(t, want, ProjectCSV(books))
}

func TestProjectCSV_NoEscaping(t *testing.T) {
	books := []model.Book{{ID: uuid.New(), Title: `Say "hi"`, Author: "a", Editorial: "e", Genre: "g"}}

	out := ProjectCSV(books)
	assert.Contains(t, out, `,"Say "hi"",`)
}

func TestExportCSV_ActiveRowsInStoreOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.create(t, createReq("Primero", "A", "E", "G"))
	second := f.create(t, createReq("Segundo", "A", "E", "G"))

	out, err := f.svc.ExportCSV(ctx)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], first.ID.String()))
	assert.True(t, strings.HasPrefix(lines[2], second.ID.String()))
}

func TestExportExcel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.create(t, createReq("Ficciones", "Borges", "Sur", "Cuento"))

	data, err := f.svc.ExportExcel(ctx)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Books")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, created.ID.String(), rows[1][0])
	assert.Equal(t, "Ficciones", rows[1][1])
}

func TestBuildBooksExcelFile_HeaderStyledWithoutRows(t *testing.T) {
	data, err := buildBooksExcelFile(nil)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Books")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, exportHeaders, rows[0])

	for _, cell := range []string{"A1", "H1"} {
		styleID, err := wb.GetCellStyle("Books", cell)
		require.NoError(t, err)
		style, err := wb.GetStyle(styleID)
		require.NoError(t, err)
		require.NotNil(t, style.Font, cell)
		assert.True(t, style.Font.Bold, cell)
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, 1, 31, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "books-20240131-150405.csv", exportFilename("csv", now))
	assert.Equal(t, "books-20240131-150405.xlsx", exportFilename(".xlsx", now))
}
