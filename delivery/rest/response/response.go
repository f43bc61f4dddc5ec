package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskkeep/domain"
)

// Success sends a successful JSON response with status 200
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204 No Content response
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error maps a domain error to its HTTP representation.
func Error(c *gin.Context, err error) {
	code, status := classify(err)
	c.JSON(status, gin.H{
		"error":   code,
		"message": err.Error(),
	})
}

// ErrorWithMessage sends an error response with an explicit code and message
func ErrorWithMessage(c *gin.Context, httpStatus int, code, message string) {
	c.JSON(httpStatus, gin.H{
		"error":   code,
		"message": message,
	})
}

func classify(err error) (string, int) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found", http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidReminderTime):
		return "validation_error", http.StatusBadRequest
	case errors.Is(err, domain.ErrPermissionDenied):
		return "permission_denied", http.StatusForbidden
	default:
		return "internal_error", http.StatusInternalServerError
	}
}
