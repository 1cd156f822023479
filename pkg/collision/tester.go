// pkg/collision/tester.go
package collision

import (
	"sync"

	"github.com/opd-ai/go-linesim/pkg/physics"
	"github.com/opd-ai/go-linesim/pkg/quadtree"
)

// TestCandidates applies the exact intersection oracle to each candidate
// pair, fanning the work out over the given number of workers. Each worker
// accumulates into a private event list; the lists are merged at the join
// barrier and sorted, so the output is identical for any worker count.
//
// The phase performs no geometry of its own: its job is iteration order and
// aggregation discipline, so results compare one-to-one with BruteForce.
func TestCandidates(pairs []quadtree.CandidatePair, timeStep float64, workers int) *EventList {
	events := NewEventList()
	if len(pairs) == 0 {
		return events
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(pairs) {
		workers = len(pairs)
	}

	locals := make([]*EventList, workers)
	chunk := (len(pairs) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(pairs) {
			hi = len(pairs)
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			local := NewEventList()
			for _, pair := range pairs[lo:hi] {
				l1, l2 := pair.L1, pair.L2
				if physics.CompareLines(l1, l2) >= 0 {
					l1, l2 = l2, l1
				}
				if t := physics.Intersect(l1, l2, timeStep); t != physics.NoIntersection {
					local.Append(l1, l2, t)
				}
			}
			locals[w] = local
		}(w, lo, hi)
	}
	wg.Wait()

	for _, local := range locals {
		events.Merge(local)
	}
	events.Sort()
	return events
}
