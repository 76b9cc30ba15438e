package handlers

import (
	"net/http"
	"strconv"

	"stagedoor/internal/logger"
	"stagedoor/internal/models"

	"github.com/gin-gonic/gin"
)

// ListSeats - GET /api/shows/:id/seats
// Returns every seat of the show with its status derived for the caller.
func (h *Handlers) ListSeats(c *gin.Context) {
	showID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	items, err := h.services.Seats.Availability(c.Request.Context(), showID, requesterID(c))
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to list seats", "error", err, "show_id", showID)
		respondError(c, err, "Failed to list seats")
		return
	}

	c.JSON(http.StatusOK, items)
}

// CreateShow - POST /api/shows
// Provisions a show with its rows-by-seats grid.
func (h *Handlers) CreateShow(c *gin.Context) {
	var req models.CreateShowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Shows.Create(c.Request.Context(), &req)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to create show", "error", err, "artist", req.Artist)
		respondError(c, err, "Failed to create show")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// SweepReservations - POST /api/maintenance/sweep
// Runs one expired-reservation sweep on demand. The periodic job does the
// same thing on a timer.
func (h *Handlers) SweepReservations(c *gin.Context) {
	deleted, err := h.services.Reservations.SweepExpired(c.Request.Context())
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to sweep reservations", "error", err)
		respondError(c, err, "Failed to sweep reservations")
		return
	}

	c.JSON(http.StatusOK, models.SweepResponse{Deleted: deleted})
}
