package handlers

import (
	"net/http"
	"strconv"

	"stagedoor/internal/logger"
	"stagedoor/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateBooking - POST /api/bookings
// Promotes a set of live reservations into one booking with tickets.
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.services.Bookings.Promote(c.Request.Context(), &req, requesterID(c))
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to create booking",
			"error", err, "reservations", len(req.ReservationIDs))
		respondError(c, err, "Failed to create booking")
		return
	}

	codes := make([]string, len(booking.Tickets))
	for i, ticket := range booking.Tickets {
		codes[i] = ticket.Code
	}

	c.JSON(http.StatusCreated, models.CreateBookingResponse{
		BookingID:   booking.ID,
		TicketCodes: codes,
	})
}

// GetBooking - GET /api/bookings/:id
// Returns one booking with its tickets, owner only.
func (h *Handlers) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	booking, err := h.services.Bookings.Get(c.Request.Context(), id, requesterID(c))
	if err != nil {
		respondError(c, err, "Failed to get booking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ListBookings - GET /api/bookings
// Returns the caller's bookings, tickets included.
func (h *Handlers) ListBookings(c *gin.Context) {
	holder := requesterID(c)
	if holder == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Bookings.List(c.Request.Context(), *holder)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to list bookings", "error", err)
		respondError(c, err, "Failed to list bookings")
		return
	}

	c.JSON(http.StatusOK, response)
}

// CancelBooking - DELETE /api/bookings/:id
// Rescinds a booking if every show on it starts outside the cutoff.
func (h *Handlers) CancelBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	if err := h.services.Bookings.Cancel(c.Request.Context(), id, requesterID(c)); err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to cancel booking", "error", err, "booking_id", id)
		respondError(c, err, "Failed to cancel booking")
		return
	}

	c.Status(http.StatusNoContent)
}
