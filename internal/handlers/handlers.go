package handlers

import (
	"errors"
	"net/http"

	apperrors "stagedoor/internal/errors"
	"stagedoor/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		services: services,
	}
}

// requesterID extracts the authenticated user id set by the auth middleware.
// A nil return means the caller is anonymous.
func requesterID(c *gin.Context) *int64 {
	v, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	id, ok := v.(int64)
	if !ok {
		return nil
	}
	return &id
}

// respondError maps domain errors onto HTTP statuses. Conflicts over seat
// state are 409 so clients can distinguish "pick another seat" from caller
// mistakes and server faults.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrSeatUnavailable),
		errors.Is(err, apperrors.ErrDuplicateShowTicket),
		errors.Is(err, apperrors.ErrInvalidOrExpiredReservation),
		errors.Is(err, apperrors.ErrCancellationWindowClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrReservationNotFound),
		errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
