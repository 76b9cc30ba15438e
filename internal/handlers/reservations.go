package handlers

import (
	"net/http"
	"strconv"

	"stagedoor/internal/logger"
	"stagedoor/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateReservation - POST /api/reservations
// Places a hold on every requested seat or on none of them.
func (h *Handlers) CreateReservation(c *gin.Context) {
	var req models.CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservations, expiresAt, err := h.services.Reservations.CreateHold(c.Request.Context(), req.ShowID, req.SeatIDs, requesterID(c))
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to create reservation",
			"error", err, "show_id", req.ShowID, "seats", len(req.SeatIDs))
		respondError(c, err, "Failed to create reservation")
		return
	}

	ids := make([]int64, len(reservations))
	for i, res := range reservations {
		ids[i] = res.ID
	}

	c.JSON(http.StatusCreated, models.CreateHoldResponse{
		ReservationIDs: ids,
		ExpiresAt:      expiresAt,
	})
}

// ListReservations - GET /api/reservations?show_id=N
// Returns the caller's live holds on a show. Requires authentication:
// anonymous holds carry no identity to look them up by.
func (h *Handlers) ListReservations(c *gin.Context) {
	showID, err := strconv.ParseInt(c.Query("show_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "show_id must be an integer"})
		return
	}

	holder := requesterID(c)
	if holder == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reservations, err := h.services.Reservations.LookupActive(c.Request.Context(), showID, *holder)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to list reservations", "error", err, "show_id", showID)
		respondError(c, err, "Failed to list reservations")
		return
	}

	items := make([]models.ReservationResponseItem, len(reservations))
	for i, res := range reservations {
		items[i] = models.ReservationResponseItem{
			ID:            res.ID,
			ShowID:        res.ShowID,
			SeatID:        res.SeatID,
			Token:         res.Token,
			ReservedUntil: res.ReservedUntil,
		}
	}

	c.JSON(http.StatusOK, items)
}

// ReleaseReservation - DELETE /api/reservations/:id
// Gives up a hold before its deadline. Releasing an already gone
// reservation succeeds, so clients can retry safely.
func (h *Handlers) ReleaseReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	if err := h.services.Reservations.ReleaseHold(c.Request.Context(), id, requesterID(c)); err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to release reservation", "error", err, "reservation_id", id)
		respondError(c, err, "Failed to release reservation")
		return
	}

	c.Status(http.StatusNoContent)
}
