// pkg/quadtree/query.go
package quadtree

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/opd-ai/go-linesim/pkg/physics"
)

// CandidatePair is an unordered pair of lines deemed spatially close enough
// to warrant the exact intersection test, normalized so L1.ID < L2.ID. Each
// distinct pair is produced at most once per frame no matter how many cells
// the two lines share.
type CandidatePair struct {
	L1 *physics.Line
	L2 *physics.Line
}

// FindCandidates extracts the frame's deduplicated candidate pairs, fanning
// the per-line tree walks out over the given number of workers. The result
// is sorted by (L1.ID, L2.ID) and is identical for any worker count: the
// pair set is fixed by the tree contents, each pair key is claimed by
// exactly one worker through an atomic insert-if-absent, and the sort fixes
// the order.
func (t *Tree) FindCandidates(workers int) ([]CandidatePair, error) {
	if t.state == StateEmpty {
		return nil, ErrNotBuilt
	}
	if workers < 1 {
		workers = 1
	}

	n := len(t.lines)
	if n < 2 {
		t.state = StateQueried
		return nil, nil
	}
	if workers > n {
		workers = n
	}

	var seen sync.Map
	results := make([][]CandidatePair, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			walker := treeWalker{tree: t, seen: &seen}
			// Interleaved stripes spread dense regions across workers.
			for i := w; i < n; i += workers {
				walker.collect(int32(i))
			}
			results[w] = walker.pairs
		}(w)
	}
	wg.Wait()

	var pairs []CandidatePair
	for _, r := range results {
		pairs = append(pairs, r...)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].L1.ID != pairs[j].L1.ID {
			return pairs[i].L1.ID < pairs[j].L1.ID
		}
		return pairs[i].L2.ID < pairs[j].L2.ID
	})

	t.state = StateQueried
	return pairs, nil
}

// treeWalker accumulates one worker's candidate pairs. The stack is reused
// across lines to avoid per-line allocation.
type treeWalker struct {
	tree  *Tree
	seen  *sync.Map
	stack []int32
	pairs []CandidatePair
}

// collect gathers candidates for the line at canonical index i. The walk
// uses the bounding box computed at build time from the tree's stored time
// step and max velocity; deriving a box any other way here would silently
// diverge from what was indexed.
func (w *treeWalker) collect(i int32) {
	t := w.tree
	line := t.lines[i]
	box := t.boxes[i]
	stats := t.cfg.CollectStats

	w.stack = w.stack[:0]
	w.stack = append(w.stack, 0)
	for len(w.stack) > 0 {
		idx := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		n := &t.nodes[idx]
		if !box.Overlaps(n.bounds) {
			continue
		}
		if !n.leaf {
			w.stack = append(w.stack, n.children[0], n.children[1], n.children[2], n.children[3])
			continue
		}

		if stats {
			atomic.AddUint64(&t.stats.CellsVisited, 1)
		}
		for _, j := range n.lines {
			// Replicate the brute-force double-loop order i < j.
			if j <= i {
				continue
			}
			if int(j) >= len(t.lines) {
				continue
			}
			other := t.lines[j]
			if stats {
				atomic.AddUint64(&t.stats.PairsExamined, 1)
			}
			// Pair normalization; also drops duplicate-id lines.
			if line.ID >= other.ID {
				continue
			}
			key := uint64(line.ID)<<32 | uint64(other.ID)
			if _, loaded := w.seen.LoadOrStore(key, struct{}{}); loaded {
				// Another leaf (or worker) already claimed this pair.
				if stats {
					atomic.AddUint64(&t.stats.PairsDeduped, 1)
				}
				continue
			}
			w.pairs = append(w.pairs, CandidatePair{L1: line, L2: other})
			if stats {
				atomic.AddUint64(&t.stats.PairsCollected, 1)
			}
		}
	}
}
