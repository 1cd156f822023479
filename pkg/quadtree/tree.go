// pkg/quadtree/tree.go
package quadtree

import (
	"fmt"

	"github.com/opd-ai/go-linesim/pkg/physics"
)

// State tracks the tree's per-frame phase. Phases are strictly ordered:
// a tree is built, then queried, then discarded (or rebuilt for the next
// frame, which resets the cycle).
type State int

const (
	// StateEmpty means no frame has been built since creation or reset.
	StateEmpty State = iota
	// StateBuilt means the spatial index is populated and queryable.
	StateBuilt
	// StateQueried means candidates have been extracted for this frame.
	StateQueried
)

// Tree is the spatial index for one simulation frame. It snapshots the
// line slice (which defines the canonical ordering used for pair
// normalization), the frame's time step, and the precomputed maximum
// velocity; the query phase reuses exactly these values so that query boxes
// match the boxes that were indexed.
//
// Nodes live in a flat arena addressed by index, children are indices, and
// leaves hold indices into the canonical line slice. The tree owns none of
// the lines.
type Tree struct {
	cfg   Config
	nodes []node

	// Frame context, fixed at build time.
	lines       []*physics.Line
	boxes       []physics.Bounds
	indexByID   map[physics.LineID]int32
	timeStep    float64
	maxVelocity float64

	state State
	stats Stats
}

// New creates an empty tree with the given configuration.
func New(cfg Config) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Tree{cfg: cfg}, nil
}

// Build indexes the given lines for one frame. Construction is two-pass:
// the first pass computes the frame's maximum velocity and every line's
// swept bounding box, tracking their union; the second expands the union
// into a square root cell and inserts every line in canonical order.
//
// maxVelocity is computed exactly once here and reused for every bounding
// box in both build and query. On error the tree is reset to StateEmpty and
// the caller should fall back to the brute-force detector for this frame.
func (t *Tree) Build(lines []*physics.Line, timeStep float64) error {
	t.reset()

	t.lines = lines
	t.timeStep = timeStep

	maxVelocity := 0.0
	for _, line := range lines {
		if speed := line.Velocity.Length(); speed > maxVelocity {
			maxVelocity = speed
		}
	}
	t.maxVelocity = maxVelocity

	t.boxes = make([]physics.Bounds, len(lines))
	t.indexByID = make(map[physics.LineID]int32, len(lines))
	var union physics.Bounds
	for i, line := range lines {
		t.boxes[i] = physics.SweptBounds(line, timeStep, maxVelocity, t.cfg.MinCellSize)
		if i == 0 {
			union = t.boxes[i]
		} else {
			union = union.Union(t.boxes[i])
		}
		// First occurrence wins; duplicate ids are skipped defensively
		// during query rather than failing the frame.
		if _, ok := t.indexByID[line.ID]; !ok {
			t.indexByID[line.ID] = int32(i)
		}
	}

	root := union.Expand(t.cfg.MinCellSize).Square()
	if len(lines) == 0 {
		root = physics.Bounds{XMin: -1, XMax: 1, YMin: -1, YMax: 1}
	}
	if _, err := t.newNode(root, 0); err != nil {
		t.reset()
		return fmt.Errorf("allocating root: %w", err)
	}

	for i := range lines {
		if err := t.insert(0, int32(i)); err != nil {
			t.reset()
			return fmt.Errorf("inserting line %d: %w", i, err)
		}
	}

	if t.cfg.CollectStats {
		t.collectBuildStats()
	}
	t.state = StateBuilt
	return nil
}

// reset discards all per-frame state, returning the tree to StateEmpty.
// The node arena's backing array is kept for reuse across frames.
func (t *Tree) reset() {
	t.nodes = t.nodes[:0]
	t.lines = nil
	t.boxes = nil
	t.indexByID = nil
	t.timeStep = 0
	t.maxVelocity = 0
	t.state = StateEmpty
	t.stats = Stats{}
}

// collectBuildStats walks the arena counting leaves and replicated entries.
func (t *Tree) collectBuildStats() {
	for i := range t.nodes {
		if t.nodes[i].leaf {
			t.stats.LeafNodes++
			t.stats.LineEntries += len(t.nodes[i].lines)
		}
	}
}

// State returns the tree's current per-frame phase.
func (t *Tree) State() State {
	return t.state
}

// TimeStep returns the time step recorded at build time.
func (t *Tree) TimeStep() float64 {
	return t.timeStep
}

// MaxVelocity returns the maximum line speed recorded at build time.
func (t *Tree) MaxVelocity() float64 {
	return t.maxVelocity
}

// Len returns the number of lines in the current frame's snapshot.
func (t *Tree) Len() int {
	return len(t.lines)
}

// IndexOf returns the canonical array index for a line id, or -1 if the id
// is unknown. Lookup is a single map access; a linear scan here would
// degrade the query phase to O(n²).
func (t *Tree) IndexOf(id physics.LineID) int32 {
	if idx, ok := t.indexByID[id]; ok {
		return idx
	}
	return -1
}

// Stats returns the statistics collected for the current frame. Zero unless
// the configuration enabled collection.
func (t *Tree) Stats() Stats {
	return t.stats.snapshot()
}
