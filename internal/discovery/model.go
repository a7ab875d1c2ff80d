// Package discovery decides which events a viewer sees: geofencing by the
// viewer's radius preference, temporal eligibility from event schedules, and
// categorized sectioning for the home feed. Every function here is a pure
// function of its inputs plus a clock, so each screen (home feed, event page,
// account tab) evaluates the same rules instead of duplicating them.
package discovery

import "time"

// Coordinate is a geographic point in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place is an event's location: a coordinate plus the free-text address the
// host picked.
type Place struct {
	Coordinate
	Address string `json:"address"`
}

// Schedule is one dated time window of an event. Date is "2006-01-02";
// StartTime and EndTime are clock strings in either 24-hour ("14:30") or
// 12-hour meridiem ("2:30 PM") form, since both appear in stored data.
type Schedule struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Registration is one participant signed up for one scheduled date.
type Registration struct {
	Email string `json:"email"`
	Date  string `json:"date"`
}

// Event categories, assigned at creation time from the price. The engine
// trusts the stored category and never re-derives it.
const (
	CategoryFree        = "free"
	CategoryPaid        = "paid"
	CategoryServices    = "services"
	CategoryGigs        = "gigs"
	CategoryMarketplace = "marketplace"
)

// EventRecord is the engine's read-only snapshot of an event document.
// Mutation happens elsewhere (registration, likes, deletion); the engine only
// ever evaluates a snapshot, so stale combinations of inputs are safe to
// re-evaluate at any time.
type EventRecord struct {
	ID          uint
	Name        string
	Description string

	// Location is nil for events without a coordinate; those are never
	// eligible because they cannot be placed on a map or distance-ranked.
	Location *Place

	// Schedules is empty for open-ended events.
	Schedules   []Schedule
	IsOpenEnded bool

	// Occupancy is the capacity per scheduled date. 0 means unlimited.
	Occupancy int

	Price    float64
	Category string

	Registered []Registration
	LikedBy    []string

	HostID    uint
	HostEmail string
}

// LikesCount is derived from the LikedBy set, never stored separately here.
func (e EventRecord) LikesCount() int {
	return len(e.LikedBy)
}

// ViewerContext carries everything about the viewer that filtering depends
// on. It replaces the implicit "current user" the screens used to share: the
// caller builds one per evaluation, so there is no hidden session state.
type ViewerContext struct {
	// Coordinate is nil when the device could not provide a fix (permission
	// denied or sensor failure). The engine then fails fast with
	// ErrLocationUnavailable instead of silently showing everything or
	// nothing.
	Coordinate *Coordinate

	// RadiusKm is the viewer's preferred event radius in kilometers.
	RadiusKm float64

	// Now is the evaluation instant. The zero value means wall clock.
	Now time.Time
}

// AnnotatedEvent is an eligible event plus the distance computed during
// selection, so presentation never recomputes it.
type AnnotatedEvent struct {
	EventRecord
	DistanceKm float64
}
