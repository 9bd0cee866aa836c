package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"book-inventory-backend/internal/domains/book/model"
	service "book-inventory-backend/internal/domains/book/service"
	"book-inventory-backend/internal/shared/response"
	"book-inventory-backend/pkg/logger"
)

const (
	maxImageSize  = 5 << 20
	imageFormKey  = "file"
	csvMediaType  = "text/csv; charset=utf-8"
	xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Handler - HTTP Handler (single file)
type Handler struct {
	service service.ServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the book endpoints on rg (e.g. /api/v1/books)
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListBooks)
	rg.POST("", h.CreateBook)
	rg.GET("/statistics", h.GetStatistics)
	rg.GET("/export/csv", h.ExportCSV)
	rg.GET("/export/xlsx", h.ExportExcel)
	rg.GET("/:id", h.GetBook)
	rg.PATCH("/:id", h.UpdateBook)
	rg.DELETE("/:id", h.DeleteBook)
	rg.POST("/:id/image", h.UploadImage)
}

// ListBooks - GET /books
// Query params: genre, editorial, author, availability, search, sortBy, sortOrder, page, limit
func (h *Handler) ListBooks(c *gin.Context) {
	var req model.FilterBookRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.service.FindAll(c.Request.Context(), req)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Books retrieved successfully", page)
}

// GetBook - GET /books/:id
func (h *Handler) GetBook(c *gin.Context) {
	book, err := h.service.FindOne(c.Request.Context(), c.Param("id"))
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Book retrieved successfully", book)
}

// CreateBook - POST /books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	book, err := h.service.Create(c.Request.Context(), req)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, "Book created successfully", book)
}

// UpdateBook - PATCH /books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	book, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Book updated successfully", book)
}

// DeleteBook - DELETE /books/:id (soft delete)
func (h *Handler) DeleteBook(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Remove(c.Request.Context(), id); model.HandleBookError(c, err) {
		return
	}

	logger.Info("Book removed", map[string]interface{}{
		"book_id": id,
		"user_id": c.GetString("user_id"),
	})
	response.Success(c, http.StatusOK, "Book deleted successfully", nil)
}

// UploadImage - POST /books/:id/image (multipart, field "file")
func (h *Handler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile(imageFormKey)
	if err != nil {
		response.BadRequest(c, "An image file is required in field \"file\"")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExt[ext] {
		response.BadRequest(c, "Only jpg, jpeg, png and gif images are allowed")
		return
	}
	if fileHeader.Size > maxImageSize {
		response.BadRequest(c, "Image must not exceed 5MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Cannot read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		response.BadRequest(c, "Cannot read uploaded file")
		return
	}
	if len(data) > maxImageSize {
		response.BadRequest(c, "Image must not exceed 5MB")
		return
	}

	book, err := h.service.UploadImage(c.Request.Context(), c.Param("id"), data, fileHeader.Filename)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Image uploaded successfully", book)
}

// GetStatistics - GET /books/statistics
func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.service.GetStatistics(c.Request.Context())
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Statistics retrieved successfully", stats)
}

// ExportCSV - GET /books/export/csv
func (h *Handler) ExportCSV(c *gin.Context) {
	csv, err := h.service.ExportCSV(c.Request.Context())
	if model.HandleBookError(c, err) {
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+service.ExportFilename("csv"))
	c.Data(http.StatusOK, csvMediaType, []byte(csv))
}

// ExportExcel - GET /books/export/xlsx
func (h *Handler) ExportExcel(c *gin.Context) {
	data, err := h.service.ExportExcel(c.Request.Context())
	if model.HandleBookError(c, err) {
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+service.ExportFilename("xlsx"))
	c.Data(http.StatusOK, xlsxMediaType, data)
}
