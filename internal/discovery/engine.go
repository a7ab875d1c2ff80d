package discovery

import (
	"errors"
	"time"
)

// ErrLocationUnavailable is returned when the viewer has no coordinate.
// Callers must treat it differently from an empty result: "we cannot rank
// events for you" is not "there are no events near you".
var ErrLocationUnavailable = errors.New("viewer location unavailable")

// SelectNearby filters a snapshot of events down to the ones the viewer can
// see: located, temporally open, and within the viewer's radius (boundary
// inclusive). Each survivor is annotated with its distance, computed exactly
// once per evaluation.
//
// Output order is the input snapshot's order; callers wanting a
// distance-sorted or recency-sorted view sort explicitly. Identical inputs
// always produce identical output.
func SelectNearby(events []EventRecord, viewer ViewerContext) ([]AnnotatedEvent, error) {
	if viewer.Coordinate == nil {
		return nil, ErrLocationUnavailable
	}

	now := viewer.Now
	if now.IsZero() {
		now = time.Now()
	}

	nearby := make([]AnnotatedEvent, 0, len(events))
	for _, e := range events {
		if e.Location == nil {
			continue
		}
		if !IsEventOpen(e, now) {
			continue
		}
		d := DistanceKm(*viewer.Coordinate, e.Location.Coordinate)
		if d > viewer.RadiusKm {
			continue
		}
		nearby = append(nearby, AnnotatedEvent{EventRecord: e, DistanceKm: d})
	}
	return nearby, nil
}
