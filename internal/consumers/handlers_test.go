package consumers

import (
	"context"
	"sync"
	"testing"
	"time"

	"stagedoor/internal/models"

	"github.com/stretchr/testify/assert"
)

type recordingExpirer struct {
	mu      sync.Mutex
	calls   []int64
	deleted bool
	err     error
}

func (r *recordingExpirer) DeleteIfExpired(ctx context.Context, id int64, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, id)
	return r.deleted, r.err
}

func (r *recordingExpirer) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestScheduleExpiry_PastDeadlineFiresImmediately(t *testing.T) {
	expirer := &recordingExpirer{deleted: true}
	h := NewHandlers(expirer)

	acked := false
	event := models.ReservationCreatedEvent{
		ReservationID: 42,
		ShowID:        10,
		SeatID:        100,
		ReservedUntil: time.Now().Add(-time.Minute),
	}

	h.scheduleExpiry(event, func() { acked = true })

	assert.Equal(t, 1, expirer.callCount())
	assert.True(t, acked)
}

func TestScheduleExpiry_FutureDeadlineWaits(t *testing.T) {
	expirer := &recordingExpirer{deleted: true}
	h := NewHandlers(expirer)

	ackCh := make(chan struct{})
	event := models.ReservationCreatedEvent{
		ReservationID: 42,
		ReservedUntil: time.Now().Add(20 * time.Millisecond),
	}

	h.scheduleExpiry(event, func() { close(ackCh) })

	// Not fired yet.
	assert.Equal(t, 0, expirer.callCount())

	select {
	case <-ackCh:
	case <-time.After(time.Second):
		t.Fatal("expiry timer never fired")
	}

	assert.Equal(t, 1, expirer.callCount())
}

func TestScheduleExpiry_AlreadyGoneReservationIsHarmless(t *testing.T) {
	// DeleteIfExpired returning false means the row was released or promoted
	// before the timer fired. The handler still acks.
	expirer := &recordingExpirer{deleted: false}
	h := NewHandlers(expirer)

	acked := false
	event := models.ReservationCreatedEvent{
		ReservationID: 42,
		ReservedUntil: time.Now().Add(-time.Second),
	}

	h.scheduleExpiry(event, func() { acked = true })

	assert.Equal(t, 1, expirer.callCount())
	assert.True(t, acked)
}
