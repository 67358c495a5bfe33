package handlers

import (
	"errors"
	"net/http"

	"fridgeshare/internal/access"
	"fridgeshare/internal/database"
	"fridgeshare/internal/logger"

	"github.com/gin-gonic/gin"
)

// errValidation marks user input problems found by the handlers themselves.
var errValidation = errors.New("invalid input")

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Unwrap() error { return errValidation }

func invalid(msg string) error {
	return &validationError{msg: msg}
}

// respondError maps a domain error to its HTTP status and writes it.
func respondError(c *gin.Context, err error) {
	var dup *database.DuplicateNameError
	var bad *validationError

	switch {
	case errors.As(err, &dup):
		c.JSON(http.StatusBadRequest, gin.H{"error": dup.Error()})
	case errors.As(err, &bad):
		c.JSON(http.StatusBadRequest, gin.H{"error": bad.Error()})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, access.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this fridge"})
	default:
		logger.Error("Request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString("request_id"),
			"error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
