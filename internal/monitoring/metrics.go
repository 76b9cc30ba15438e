package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	holdsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Total seat reservations created",
		},
	)

	holdsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_rejected_total",
			Help: "Total hold requests rejected, by reason",
		},
		[]string{"reason"},
	)

	reservationsExpired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_expired_total",
			Help: "Total reservations deleted after their deadline, by mechanism",
		},
		[]string{"mechanism"},
	)

	bookingsPromoted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_promoted_total",
			Help: "Total reservation batches promoted into bookings",
		},
	)

	ticketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Total tickets created by promotion",
		},
	)

	promotionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booking_promotion_duration_seconds",
			Help:    "Duration of the promote transaction",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func HoldsCreated(n int) {
	holdsCreated.Add(float64(n))
}

func HoldRejected(reason string) {
	holdsRejected.WithLabelValues(reason).Inc()
}

// ReservationsExpired records deadline-driven deletions; mechanism is
// "scheduler" for one-shot timers and "sweep" for the periodic backstop.
func ReservationsExpired(mechanism string, n int64) {
	reservationsExpired.WithLabelValues(mechanism).Add(float64(n))
}

func BookingPromoted(tickets int) {
	bookingsPromoted.Inc()
	ticketsIssued.Add(float64(tickets))
}

func ObservePromotionDuration(seconds float64) {
	promotionDuration.Observe(seconds)
}
