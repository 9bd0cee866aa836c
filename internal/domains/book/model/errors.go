package model

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"book-inventory-backend/internal/shared/response"
	"book-inventory-backend/pkg/logger"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrValidation   = errors.New("validation failed")
	ErrStorage      = errors.New("storage failure")
)

// ValidationError carries field level messages. errors.Is(err, ErrValidation) holds.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError flattens ozzo validation.Errors into field messages
func NewValidationError(message string, cause error) *ValidationError {
	ve := &ValidationError{Message: message, Fields: map[string]string{}}

	var fieldErrs validation.Errors
	if errors.As(cause, &fieldErrs) {
		for field, err := range fieldErrs {
			ve.Fields[field] = err.Error()
		}
		return ve
	}
	if cause != nil {
		ve.Message = fmt.Sprintf("%s: %s", message, cause.Error())
	}
	return ve
}

func FieldError(field, message string) *ValidationError {
	return &ValidationError{
		Message: "invalid " + field,
		Fields:  map[string]string{field: message},
	}
}

// StorageError wraps any data access or collaborator failure, keeping the cause
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// WrapStorage wraps err as a StorageError unless it already belongs to the
// taxonomy: NotFound and Validation pass through untouched.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrBookNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrStorage) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

var bookErrorMap = map[error]struct {
	Status  int
	Code    string
	Message string
}{
	ErrBookNotFound: {
		Status:  http.StatusNotFound,
		Code:    "BOOK_NOT_FOUND",
		Message: "The specified book does not exist",
	},
	ErrStorage: {
		Status:  http.StatusInternalServerError,
		Code:    "STORAGE_ERROR",
		Message: "Internal server error",
	},
}

// HandleBookError writes the HTTP response for err. Returns false when err is nil.
func HandleBookError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message, ve.Fields)
		return true
	}

	for target, cfg := range bookErrorMap {
		if errors.Is(err, target) {
			if cfg.Status >= http.StatusInternalServerError {
				logger.Error("[Handler] book operation failed", err)
			}
			response.ErrorResponse(c, cfg.Status, cfg.Code, cfg.Message)
			return true
		}
	}

	logger.Error("[Handler] unexpected book error", err)
	response.InternalServerError(c, "Internal server error")
	return true
}
