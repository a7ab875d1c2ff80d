package discovery

// RegisterReason explains a rejected registration attempt. These are expected
// user-facing outcomes, not errors.
type RegisterReason string

const (
	ReasonAlreadyRegistered RegisterReason = "already_registered"
	ReasonFull              RegisterReason = "full"
)

// Decision is the outcome of a pre-flight registration check.
type Decision struct {
	Allowed bool
	Reason  RegisterReason
}

// CanRegister checks whether a participant could register for a given date.
//
// This is advisory only: it runs against a possibly-stale snapshot, so the
// authoritative check must still happen atomically at the storage layer when
// the registration row is written.
func CanRegister(e EventRecord, email, date string) Decision {
	count := 0
	for _, r := range e.Registered {
		if r.Date != date {
			continue
		}
		if r.Email == email {
			return Decision{Reason: ReasonAlreadyRegistered}
		}
		count++
	}
	if e.Occupancy > 0 && count >= e.Occupancy {
		return Decision{Reason: ReasonFull}
	}
	return Decision{Allowed: true}
}

// SpotsLeft reports the remaining capacity for a scheduled date. The second
// return value is true for unlimited-capacity events (occupancy 0), in which
// case the count is meaningless.
func SpotsLeft(e EventRecord, date string) (int, bool) {
	if e.Occupancy == 0 {
		return 0, true
	}
	count := 0
	for _, r := range e.Registered {
		if r.Date == date {
			count++
		}
	}
	left := e.Occupancy - count
	if left < 0 {
		left = 0
	}
	return left, false
}
