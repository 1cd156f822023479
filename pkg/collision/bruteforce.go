// pkg/collision/bruteforce.go
package collision

import "github.com/opd-ai/go-linesim/pkg/physics"

// BruteForce runs the O(n²) all-pairs intersection test. It is the frame
// fallback when the quadtree path fails and the reference oracle the
// quadtree path must reproduce exactly.
func BruteForce(lines []*physics.Line, timeStep float64) *EventList {
	events := NewEventList()
	for i := 0; i < len(lines); i++ {
		for j := i + 1; j < len(lines); j++ {
			l1, l2 := lines[i], lines[j]
			// Intersect requires CompareLines(l1, l2) < 0.
			if physics.CompareLines(l1, l2) >= 0 {
				l1, l2 = l2, l1
			}
			if t := physics.Intersect(l1, l2, timeStep); t != physics.NoIntersection {
				events.Append(l1, l2, t)
			}
		}
	}
	return events
}
