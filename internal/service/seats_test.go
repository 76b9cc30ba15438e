package service

import (
	"context"
	"testing"
	"time"

	apperrors "stagedoor/internal/errors"
	"stagedoor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAvailability_UnknownShow(t *testing.T) {
	seats := new(mockSeatStore)
	shows := new(mockShowStore)
	svc := NewSeatService(seats, shows)

	shows.On("GetByID", mock.Anything, int64(99)).Return(nil, nil).Once()

	_, err := svc.Availability(context.Background(), 99, nil)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	seats.AssertNotCalled(t, "AvailabilityByShow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAvailability_ReturnsDerivedStatuses(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	viewer := int64Ptr(7)

	seats := new(mockSeatStore)
	shows := new(mockShowStore)
	svc := NewSeatService(seats, shows)
	svc.now = func() time.Time { return now }

	show := &models.Show{ID: 10, StartsAt: now.Add(48 * time.Hour)}
	items := []models.SeatAvailabilityItem{
		{SeatID: 100, Status: models.SeatStatusAvailable},
		{SeatID: 101, Status: models.SeatStatusYourReservation},
		{SeatID: 102, Status: models.SeatStatusBooked},
	}
	shows.On("GetByID", mock.Anything, int64(10)).Return(show, nil).Once()
	seats.On("AvailabilityByShow", mock.Anything, int64(10), viewer, now).Return(items, nil).Once()

	got, err := svc.Availability(context.Background(), 10, viewer)

	assert.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, models.SeatStatusYourReservation, got[1].Status)
}

func TestShowCreate_RejectsInvertedTimes(t *testing.T) {
	shows := new(mockShowStore)
	svc := NewShowService(shows)

	starts := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)
	req := &models.CreateShowRequest{
		Artist:      "The Hold Steady",
		Location:    "Paradiso",
		StartsAt:    starts,
		EndsAt:      starts.Add(-time.Hour),
		Rows:        5,
		SeatsPerRow: 10,
	}

	_, err := svc.Create(context.Background(), req)

	assert.Error(t, err)
	shows.AssertNotCalled(t, "CreateWithSeats", mock.Anything, mock.Anything)
}

func TestShowCreate_Success(t *testing.T) {
	shows := new(mockShowStore)
	svc := NewShowService(shows)

	starts := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)
	req := &models.CreateShowRequest{
		Artist:      "The Hold Steady",
		Location:    "Paradiso",
		StartsAt:    starts,
		EndsAt:      starts.Add(2 * time.Hour),
		Rows:        5,
		SeatsPerRow: 10,
	}
	shows.On("CreateWithSeats", mock.Anything, req).Return(int64(10), 50, nil).Once()

	resp, err := svc.Create(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, int64(10), resp.ShowID)
	assert.Equal(t, 50, resp.TotalSeats)
}
