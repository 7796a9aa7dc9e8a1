package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/pkg/dates"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps service errors onto status codes. Anything unrecognised
// is logged under tag and hidden behind a generic message.
func respondError(c *gin.Context, tag string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		log.Printf("[%s] %s %s: %v", tag, c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func idParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func parseDate(field, s string) (time.Time, error) {
	d, err := dates.Parse(s)
	if err != nil {
		return time.Time{}, domain.Invalid(field, "invalid date (use YYYY-MM-DD)")
	}
	return d, nil
}

func parseOptionalDate(field, s string) (*time.Time, error) {
	d, err := dates.ParseOptional(s)
	if err != nil {
		return nil, domain.Invalid(field, "invalid date (use YYYY-MM-DD)")
	}
	return d, nil
}

// asOfQuery reads ?as_of, defaulting to today.
func asOfQuery(c *gin.Context, today time.Time) (time.Time, error) {
	if s := c.Query("as_of"); s != "" {
		return parseDate("as_of", s)
	}
	return dates.Of(today), nil
}
