package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"export-pilot/internal/common"
	"export-pilot/internal/docs"
)

// Response is the uniform JSON envelope.
type Response struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SuccessResponse returns a successful response
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    "SUCCESS",
		Message: "operation successful",
		Data:    data,
	})
}

// CreatedResponse returns a created response
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    "CREATED",
		Message: "resource created successfully",
		Data:    data,
	})
}

// NoContentResponse returns a no content response (typically for delete operations)
func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ErrorResponse maps application errors onto HTTP statuses without leaking
// internals.
func ErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrValidation),
		errors.Is(err, docs.ErrAutoFillUnsupported):
		c.JSON(http.StatusBadRequest, Response{Code: "INVALID_INPUT", Message: err.Error()})
	case errors.Is(err, common.ErrRunActive), errors.Is(err, common.ErrConflict):
		c.JSON(http.StatusConflict, Response{Code: "CONFLICT", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, Response{Code: "INTERNAL_ERROR", Message: "internal server error"})
	}
}
