package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "stagedoor/internal/errors"
	"stagedoor/internal/models"
	"stagedoor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Function-field fakes so each test wires exactly the storage behavior it
// needs.

type fakeReservationStore struct {
	createBatch   func(ctx context.Context, showID int64, seatIDs []int64, holderID *int64, now, reservedUntil time.Time) ([]models.Reservation, error)
	getByID       func(ctx context.Context, id int64) (*models.Reservation, error)
	deleteGroup   func(ctx context.Context, showID int64, holderID *int64, now time.Time) ([]models.Reservation, error)
	deleteByID    func(ctx context.Context, id int64) (bool, error)
	deleteExpired func(ctx context.Context, now time.Time) (int64, error)
	activeByShow  func(ctx context.Context, showID, holderID int64, now time.Time) ([]models.Reservation, error)
}

func (f *fakeReservationStore) CreateBatch(ctx context.Context, showID int64, seatIDs []int64, holderID *int64, now, reservedUntil time.Time) ([]models.Reservation, error) {
	return f.createBatch(ctx, showID, seatIDs, holderID, now, reservedUntil)
}
func (f *fakeReservationStore) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	return f.getByID(ctx, id)
}
func (f *fakeReservationStore) DeleteGroup(ctx context.Context, showID int64, holderID *int64, now time.Time) ([]models.Reservation, error) {
	return f.deleteGroup(ctx, showID, holderID, now)
}
func (f *fakeReservationStore) DeleteByID(ctx context.Context, id int64) (bool, error) {
	return f.deleteByID(ctx, id)
}
func (f *fakeReservationStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return f.deleteExpired(ctx, now)
}
func (f *fakeReservationStore) ActiveByShowAndHolder(ctx context.Context, showID, holderID int64, now time.Time) ([]models.Reservation, error) {
	return f.activeByShow(ctx, showID, holderID, now)
}

type fakeBookingStore struct {
	createWithTickets func(ctx context.Context, contact models.ContactInfo, requesterID *int64, reservationIDs []int64, now time.Time) (*models.Booking, error)
	getByID           func(ctx context.Context, id int64) (*models.Booking, error)
	showStarts        func(ctx context.Context, bookingID int64) ([]time.Time, error)
	deleteWithTickets func(ctx context.Context, id int64) error
}

func (f *fakeBookingStore) CreateWithTickets(ctx context.Context, contact models.ContactInfo, requesterID *int64, reservationIDs []int64, now time.Time) (*models.Booking, error) {
	return f.createWithTickets(ctx, contact, requesterID, reservationIDs, now)
}
func (f *fakeBookingStore) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	return f.getByID(ctx, id)
}
func (f *fakeBookingStore) GetByUserID(ctx context.Context, userID int64) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingStore) GetTickets(ctx context.Context, bookingID int64) ([]models.Ticket, error) {
	return nil, nil
}
func (f *fakeBookingStore) ShowStarts(ctx context.Context, bookingID int64) ([]time.Time, error) {
	return f.showStarts(ctx, bookingID)
}
func (f *fakeBookingStore) DeleteWithTickets(ctx context.Context, id int64) error {
	return f.deleteWithTickets(ctx, id)
}

type fakeSeatStore struct {
	availability func(ctx context.Context, showID int64, viewerID *int64, now time.Time) ([]models.SeatAvailabilityItem, error)
}

func (f *fakeSeatStore) AvailabilityByShow(ctx context.Context, showID int64, viewerID *int64, now time.Time) ([]models.SeatAvailabilityItem, error) {
	return f.availability(ctx, showID, viewerID, now)
}

type fakeShowStore struct {
	getByID func(ctx context.Context, id int64) (*models.Show, error)
}

func (f *fakeShowStore) GetByID(ctx context.Context, id int64) (*models.Show, error) {
	return f.getByID(ctx, id)
}
func (f *fakeShowStore) CreateWithSeats(ctx context.Context, req *models.CreateShowRequest) (int64, int, error) {
	return 1, req.Rows * req.SeatsPerRow, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(subject string, data interface{}) error { return nil }

type testStores struct {
	reservations *fakeReservationStore
	bookings     *fakeBookingStore
	seats        *fakeSeatStore
	shows        *fakeShowStore
}

// setupRouter wires the real handlers and services over fake stores. The
// asUser middleware stands in for basic auth: a fixed user id, or anonymous
// when nil.
func setupRouter(stores testStores, asUser *int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	if asUser != nil {
		r.Use(func(c *gin.Context) {
			c.Set("user_id", *asUser)
			c.Next()
		})
	}

	services := &service.Services{
		Reservations: service.NewReservationService(stores.reservations, nopPublisher{}, 15*time.Minute),
		Bookings:     service.NewBookingService(stores.bookings, nopPublisher{}, 24*time.Hour),
		Seats:        service.NewSeatService(stores.seats, stores.shows),
		Shows:        service.NewShowService(stores.shows),
	}
	h := NewHandlers(services)

	api := r.Group("/api")
	{
		api.GET("/shows/:id/seats", h.ListSeats)
		api.POST("/shows", h.CreateShow)
		api.POST("/reservations", h.CreateReservation)
		api.GET("/reservations", h.ListReservations)
		api.DELETE("/reservations/:id", h.ReleaseReservation)
		api.POST("/bookings", h.CreateBooking)
		api.GET("/bookings/:id", h.GetBooking)
		api.DELETE("/bookings/:id", h.CancelBooking)
		api.POST("/maintenance/sweep", h.SweepReservations)
	}

	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		buf = bytes.NewBuffer(jsonBody)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func userID(v int64) *int64 { return &v }

func TestCreateReservation(t *testing.T) {
	holder := userID(7)
	stores := testStores{
		reservations: &fakeReservationStore{
			createBatch: func(ctx context.Context, showID int64, seatIDs []int64, holderID *int64, now, reservedUntil time.Time) ([]models.Reservation, error) {
				out := make([]models.Reservation, len(seatIDs))
				for i, seatID := range seatIDs {
					out[i] = models.Reservation{ID: int64(i + 1), ShowID: showID, SeatID: seatID, UserID: holderID, ReservedUntil: reservedUntil}
				}
				return out, nil
			},
		},
	}
	r := setupRouter(stores, holder)

	w := doJSON(r, "POST", "/api/reservations", models.CreateHoldRequest{ShowID: 10, SeatIDs: []int64{100, 101}})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.CreateHoldResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []int64{1, 2}, resp.ReservationIDs)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
}

func TestCreateReservation_SeatTaken(t *testing.T) {
	stores := testStores{
		reservations: &fakeReservationStore{
			createBatch: func(ctx context.Context, showID int64, seatIDs []int64, holderID *int64, now, reservedUntil time.Time) ([]models.Reservation, error) {
				return nil, apperrors.ErrSeatUnavailable
			},
		},
	}
	r := setupRouter(stores, nil)

	w := doJSON(r, "POST", "/api/reservations", models.CreateHoldRequest{ShowID: 10, SeatIDs: []int64{100}})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateReservation_EmptySeatList(t *testing.T) {
	r := setupRouter(testStores{reservations: &fakeReservationStore{}}, nil)

	w := doJSON(r, "POST", "/api/reservations", models.CreateHoldRequest{ShowID: 10, SeatIDs: []int64{}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReleaseReservation_GoneIs204(t *testing.T) {
	stores := testStores{
		reservations: &fakeReservationStore{
			getByID: func(ctx context.Context, id int64) (*models.Reservation, error) {
				return nil, nil
			},
		},
	}
	r := setupRouter(stores, userID(7))

	w := doJSON(r, "DELETE", "/api/reservations/42", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestReleaseReservation_Forbidden(t *testing.T) {
	other := userID(8)
	stores := testStores{
		reservations: &fakeReservationStore{
			getByID: func(ctx context.Context, id int64) (*models.Reservation, error) {
				return &models.Reservation{ID: id, ShowID: 10, SeatID: 100, UserID: other, ReservedUntil: time.Now().Add(10 * time.Minute)}, nil
			},
		},
	}
	r := setupRouter(stores, userID(7))

	w := doJSON(r, "DELETE", "/api/reservations/42", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListReservations_AnonymousUnauthorized(t *testing.T) {
	r := setupRouter(testStores{reservations: &fakeReservationStore{}}, nil)

	w := doJSON(r, "GET", "/api/reservations?show_id=10", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListSeats(t *testing.T) {
	stores := testStores{
		shows: &fakeShowStore{
			getByID: func(ctx context.Context, id int64) (*models.Show, error) {
				return &models.Show{ID: id, StartsAt: time.Now().Add(48 * time.Hour)}, nil
			},
		},
		seats: &fakeSeatStore{
			availability: func(ctx context.Context, showID int64, viewerID *int64, now time.Time) ([]models.SeatAvailabilityItem, error) {
				return []models.SeatAvailabilityItem{
					{SeatID: 100, Status: models.SeatStatusAvailable},
					{SeatID: 101, Status: models.SeatStatusReserved},
				}, nil
			},
		},
	}
	r := setupRouter(stores, nil)

	w := doJSON(r, "GET", "/api/shows/10/seats", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var items []models.SeatAvailabilityItem
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 2)
	assert.Equal(t, models.SeatStatusReserved, items[1].Status)
}

func TestListSeats_UnknownShow(t *testing.T) {
	stores := testStores{
		shows: &fakeShowStore{
			getByID: func(ctx context.Context, id int64) (*models.Show, error) {
				return nil, nil
			},
		},
		seats: &fakeSeatStore{},
	}
	r := setupRouter(stores, nil)

	w := doJSON(r, "GET", "/api/shows/99/seats", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBooking_ExpiredReservationConflicts(t *testing.T) {
	stores := testStores{
		bookings: &fakeBookingStore{
			createWithTickets: func(ctx context.Context, contact models.ContactInfo, requesterID *int64, reservationIDs []int64, now time.Time) (*models.Booking, error) {
				return nil, apperrors.ErrInvalidOrExpiredReservation
			},
		},
	}
	r := setupRouter(stores, userID(7))

	body := models.CreateBookingRequest{
		ReservationIDs: []int64{42},
		ContactInfo: models.ContactInfo{
			Name: "Ada Lovelace", Address: "12 St James Square", City: "London",
			Zip: "SW1Y 4JH", Country: "UK", Email: "ada@example.com",
		},
	}
	w := doJSON(r, "POST", "/api/bookings", body)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateBooking_Success(t *testing.T) {
	holder := userID(7)
	stores := testStores{
		bookings: &fakeBookingStore{
			createWithTickets: func(ctx context.Context, contact models.ContactInfo, requesterID *int64, reservationIDs []int64, now time.Time) (*models.Booking, error) {
				return &models.Booking{
					ID:     5,
					UserID: requesterID,
					Email:  contact.Email,
					Tickets: []models.Ticket{
						{ID: 1, BookingID: 5, ShowID: 10, SeatID: 100, Code: "ABCD2345"},
					},
				}, nil
			},
		},
	}
	r := setupRouter(stores, holder)

	body := models.CreateBookingRequest{
		ReservationIDs: []int64{42},
		ContactInfo: models.ContactInfo{
			Name: "Ada Lovelace", Address: "12 St James Square", City: "London",
			Zip: "SW1Y 4JH", Country: "UK", Email: "ada@example.com",
		},
	}
	w := doJSON(r, "POST", "/api/bookings", body)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.CreateBookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.BookingID)
	assert.Equal(t, []string{"ABCD2345"}, resp.TicketCodes)
}

func TestCreateBooking_MissingContactInfo(t *testing.T) {
	r := setupRouter(testStores{bookings: &fakeBookingStore{}}, userID(7))

	w := doJSON(r, "POST", "/api/bookings", models.CreateBookingRequest{ReservationIDs: []int64{42}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelBooking_WindowClosed(t *testing.T) {
	holder := userID(7)
	stores := testStores{
		bookings: &fakeBookingStore{
			getByID: func(ctx context.Context, id int64) (*models.Booking, error) {
				return &models.Booking{ID: id, UserID: holder}, nil
			},
			showStarts: func(ctx context.Context, bookingID int64) ([]time.Time, error) {
				return []time.Time{time.Now().Add(2 * time.Hour)}, nil
			},
		},
	}
	r := setupRouter(stores, holder)

	w := doJSON(r, "DELETE", "/api/bookings/5", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelBooking_Success(t *testing.T) {
	holder := userID(7)
	stores := testStores{
		bookings: &fakeBookingStore{
			getByID: func(ctx context.Context, id int64) (*models.Booking, error) {
				return &models.Booking{ID: id, UserID: holder}, nil
			},
			showStarts: func(ctx context.Context, bookingID int64) ([]time.Time, error) {
				return []time.Time{time.Now().Add(72 * time.Hour)}, nil
			},
			deleteWithTickets: func(ctx context.Context, id int64) error {
				return nil
			},
		},
	}
	r := setupRouter(stores, holder)

	w := doJSON(r, "DELETE", "/api/bookings/5", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSweepReservations(t *testing.T) {
	stores := testStores{
		reservations: &fakeReservationStore{
			deleteExpired: func(ctx context.Context, now time.Time) (int64, error) {
				return 3, nil
			},
		},
	}
	r := setupRouter(stores, nil)

	w := doJSON(r, "POST", "/api/maintenance/sweep", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.SweepResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Deleted)
}

func TestCreateShow(t *testing.T) {
	r := setupRouter(testStores{shows: &fakeShowStore{}}, userID(7))

	starts := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
	body := models.CreateShowRequest{
		Artist:      "The National",
		Location:    "Royal Albert Hall",
		StartsAt:    starts,
		EndsAt:      starts.Add(2 * time.Hour),
		Rows:        4,
		SeatsPerRow: 6,
	}
	w := doJSON(r, "POST", "/api/shows", body)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.CreateShowResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 24, resp.TotalSeats)
}
