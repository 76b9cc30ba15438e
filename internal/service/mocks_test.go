package service

import (
	"context"
	"time"

	"stagedoor/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockReservationStore struct {
	mock.Mock
}

func (m *mockReservationStore) CreateBatch(ctx context.Context, showID int64, seatIDs []int64, holderID *int64, now, reservedUntil time.Time) ([]models.Reservation, error) {
	args := m.Called(ctx, showID, seatIDs, holderID, now, reservedUntil)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reservation), args.Error(1)
}

func (m *mockReservationStore) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *mockReservationStore) DeleteGroup(ctx context.Context, showID int64, holderID *int64, now time.Time) ([]models.Reservation, error) {
	args := m.Called(ctx, showID, holderID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reservation), args.Error(1)
}

func (m *mockReservationStore) DeleteByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockReservationStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReservationStore) ActiveByShowAndHolder(ctx context.Context, showID, holderID int64, now time.Time) ([]models.Reservation, error) {
	args := m.Called(ctx, showID, holderID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reservation), args.Error(1)
}

type mockBookingStore struct {
	mock.Mock
}

func (m *mockBookingStore) CreateWithTickets(ctx context.Context, contact models.ContactInfo, requesterID *int64, reservationIDs []int64, now time.Time) (*models.Booking, error) {
	args := m.Called(ctx, contact, requesterID, reservationIDs, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingStore) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingStore) GetByUserID(ctx context.Context, userID int64) ([]models.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *mockBookingStore) GetTickets(ctx context.Context, bookingID int64) ([]models.Ticket, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ticket), args.Error(1)
}

func (m *mockBookingStore) ShowStarts(ctx context.Context, bookingID int64) ([]time.Time, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *mockBookingStore) DeleteWithTickets(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockSeatStore struct {
	mock.Mock
}

func (m *mockSeatStore) AvailabilityByShow(ctx context.Context, showID int64, viewerID *int64, now time.Time) ([]models.SeatAvailabilityItem, error) {
	args := m.Called(ctx, showID, viewerID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SeatAvailabilityItem), args.Error(1)
}

type mockShowStore struct {
	mock.Mock
}

func (m *mockShowStore) GetByID(ctx context.Context, id int64) (*models.Show, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Show), args.Error(1)
}

func (m *mockShowStore) CreateWithSeats(ctx context.Context, req *models.CreateShowRequest) (int64, int, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Int(1), args.Error(2)
}

// mockPublisher records published events instead of talking to NATS.
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(subject string, data interface{}) error {
	args := m.Called(subject, data)
	return args.Error(0)
}
