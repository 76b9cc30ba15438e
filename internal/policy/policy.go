// Package policy holds the authorization and cancellation gates as pure
// predicate functions. They take the resource and the requester explicitly
// and return a Decision; callers invoke them at the top of each mutating
// operation before touching storage.
package policy

import "time"

// Decision is the tagged allow/deny result of a gate check.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// CanCancelBooking denies when any ticketed show starts within cutoff of now.
// One near-term show blocks cancellation of the whole booking.
func CanCancelBooking(showStarts []time.Time, now time.Time, cutoff time.Duration) Decision {
	deadline := now.Add(cutoff)
	for _, start := range showStarts {
		if start.Before(deadline) {
			return Deny("cannot cancel bookings less than 24 hours before the show")
		}
	}
	return Allow()
}

// OwnsBooking allows only the booking's owner. Anonymous bookings belong to
// nobody and cannot be managed through the owner path.
func OwnsBooking(ownerID, requesterID *int64) Decision {
	if ownerID == nil || requesterID == nil {
		return Deny("you do not own this booking")
	}
	if *ownerID != *requesterID {
		return Deny("you do not own this booking")
	}
	return Allow()
}

// OwnsReservation allows the holder of a reservation. An anonymous
// reservation may be managed by an anonymous requester, matching the
// anonymous-hold flow where no account exists to check against.
func OwnsReservation(holderID, requesterID *int64) Decision {
	if !SameHolder(holderID, requesterID) {
		return Deny("you do not own this reservation")
	}
	return Allow()
}

// SameHolder compares two nullable user ids by value; two nils match.
func SameHolder(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
