package service

import (
	"context"
	"fmt"
	"time"

	apperrors "stagedoor/internal/errors"
	"stagedoor/internal/models"
)

// SeatStore provides the derived per-seat view of a show.
type SeatStore interface {
	AvailabilityByShow(ctx context.Context, showID int64, viewerID *int64, now time.Time) ([]models.SeatAvailabilityItem, error)
}

// ShowStore provides show reads and the provisioning path.
type ShowStore interface {
	GetByID(ctx context.Context, id int64) (*models.Show, error)
	CreateWithSeats(ctx context.Context, req *models.CreateShowRequest) (int64, int, error)
}

// SeatService is the availability index: it answers "what is the state of
// every seat in this show right now, as seen by this viewer".
type SeatService struct {
	seats SeatStore
	shows ShowStore
	now   func() time.Time
}

func NewSeatService(seats SeatStore, shows ShowStore) *SeatService {
	return &SeatService{
		seats: seats,
		shows: shows,
		now:   time.Now,
	}
}

// Availability recomputes every seat's status from the current reservation
// and ticket rows. Nothing here is cached or stored; a hold expiring between
// two calls changes the answer.
func (s *SeatService) Availability(ctx context.Context, showID int64, viewerID *int64) ([]models.SeatAvailabilityItem, error) {
	show, err := s.shows.GetByID(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("failed to get show: %w", err)
	}
	if show == nil {
		return nil, apperrors.ErrNotFound
	}

	items, err := s.seats.AvailabilityByShow(ctx, showID, viewerID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to get seat availability: %w", err)
	}

	return items, nil
}

// ShowService provisions shows with their seat grids.
type ShowService struct {
	shows ShowStore
}

func NewShowService(shows ShowStore) *ShowService {
	return &ShowService{shows: shows}
}

func (s *ShowService) Create(ctx context.Context, req *models.CreateShowRequest) (*models.CreateShowResponse, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, fmt.Errorf("show must end after it starts")
	}

	showID, totalSeats, err := s.shows.CreateWithSeats(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create show: %w", err)
	}

	return &models.CreateShowResponse{
		ShowID:     showID,
		TotalSeats: totalSeats,
	}, nil
}
