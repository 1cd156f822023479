// pkg/quadtree/stats.go
package quadtree

import "sync/atomic"

// Stats carries build and query statistics for one frame. Build counters
// are written serially; query counters are updated atomically because the
// query phase runs across workers.
type Stats struct {
	// Build phase
	TotalNodes      int
	LeafNodes       int
	MaxDepthReached int32
	MaxLinesInNode  int
	// LineEntries counts leaf placements. Entries beyond one per line are
	// replicas of boundary-straddling lines.
	LineEntries int

	// Query phase
	CellsVisited   uint64
	PairsExamined  uint64
	PairsDeduped   uint64
	PairsCollected uint64
}

// snapshot returns a copy with atomically-read query counters.
func (s *Stats) snapshot() Stats {
	return Stats{
		TotalNodes:      s.TotalNodes,
		LeafNodes:       s.LeafNodes,
		MaxDepthReached: s.MaxDepthReached,
		MaxLinesInNode:  s.MaxLinesInNode,
		LineEntries:     s.LineEntries,
		CellsVisited:    atomic.LoadUint64(&s.CellsVisited),
		PairsExamined:   atomic.LoadUint64(&s.PairsExamined),
		PairsDeduped:    atomic.LoadUint64(&s.PairsDeduped),
		PairsCollected:  atomic.LoadUint64(&s.PairsCollected),
	}
}
