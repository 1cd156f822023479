// pkg/collision/events.go

// Package collision implements the per-frame collision pipeline: candidate
// detection through the quadtree (with a brute-force fallback), parallel
// exact testing, event aggregation, and the impulse solver.
package collision

import (
	"sort"

	"github.com/opd-ai/go-linesim/pkg/physics"
)

// Event records one confirmed intersection between two lines. The list it
// belongs to does not own the lines.
type Event struct {
	L1   *physics.Line
	L2   *physics.Line
	Type physics.IntersectionType
}

// EventList accumulates collision events. Workers build private lists and
// combine them with Merge, which is associative and commutative over the
// resulting multiset; only Sort imposes an order, so merge order never
// affects the final result.
type EventList struct {
	events []Event
}

// NewEventList returns an empty event list.
func NewEventList() *EventList {
	return &EventList{}
}

// Append adds an event. Precondition: CompareLines(l1, l2) < 0.
func (l *EventList) Append(l1, l2 *physics.Line, t physics.IntersectionType) {
	l.events = append(l.events, Event{L1: l1, L2: l2, Type: t})
}

// Merge moves all events from other into l, leaving other empty.
func (l *EventList) Merge(other *EventList) {
	l.events = append(l.events, other.events...)
	other.events = nil
}

// Sort orders events by (L1.ID, L2.ID), reproducing the deterministic
// processing order of the reference detector.
func (l *EventList) Sort() {
	sort.Slice(l.events, func(i, j int) bool {
		if l.events[i].L1.ID != l.events[j].L1.ID {
			return l.events[i].L1.ID < l.events[j].L1.ID
		}
		return l.events[i].L2.ID < l.events[j].L2.ID
	})
}

// Events returns the underlying event slice.
func (l *EventList) Events() []Event {
	return l.events
}

// Len returns the number of events.
func (l *EventList) Len() int {
	return len(l.events)
}
