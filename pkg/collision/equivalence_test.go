// pkg/collision/equivalence_test.go
package collision

import (
	"math/rand"
	"testing"

	"github.com/opd-ai/go-linesim/pkg/physics"
	"github.com/opd-ai/go-linesim/pkg/quadtree"
)

// runQuadtreePipeline builds the spatial index over the lines, extracts
// candidates, and tests them, returning the sorted event list.
func runQuadtreePipeline(t *testing.T, cfg quadtree.Config, lines []*physics.Line, timeStep float64, workers int) *EventList {
	t.Helper()
	tree, err := quadtree.New(cfg)
	if err != nil {
		t.Fatalf("quadtree.New() failed: %v", err)
	}
	if err := tree.Build(lines, timeStep); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	pairs, err := tree.FindCandidates(workers)
	if err != nil {
		t.Fatalf("FindCandidates() failed: %v", err)
	}
	return TestCandidates(pairs, timeStep, workers)
}

// requireSameEvents fails unless both lists hold the same (id, id, type)
// sequence. Both are expected to be sorted.
func requireSameEvents(t *testing.T, got, want *EventList) {
	t.Helper()
	if got.Len() != want.Len() {
		t.Fatalf("got %d events, expected %d", got.Len(), want.Len())
	}
	wantEvents := want.Events()
	for i, e := range got.Events() {
		w := wantEvents[i]
		if e.L1.ID != w.L1.ID || e.L2.ID != w.L2.ID || e.Type != w.Type {
			t.Fatalf("event %d = (%d, %d, %v), expected (%d, %d, %v)",
				i, e.L1.ID, e.L2.ID, e.Type, w.L1.ID, w.L2.ID, w.Type)
		}
	}
}

func randomWorld(n int, spread, maxSpeed float64, src rand.Source) []*physics.Line {
	r := rand.New(src)
	lines := make([]*physics.Line, n)
	for i := range lines {
		x := r.Float64()*spread - spread/2
		y := r.Float64()*spread - spread/2
		lines[i] = physics.NewLine(physics.LineID(i),
			physics.Vector2D{X: x, Y: y},
			physics.Vector2D{X: x + r.Float64()*2 - 1, Y: y + r.Float64()*2 - 1},
			physics.Vector2D{X: (r.Float64()*2 - 1) * maxSpeed, Y: (r.Float64()*2 - 1) * maxSpeed},
		)
	}
	return lines
}

func TestQuadtreeMatchesBruteForce_Random(t *testing.T) {
	cfg := quadtree.DefaultConfig()
	cfg.MaxDepth = 8
	cfg.MaxLinesPerNode = 4

	tests := []struct {
		name     string
		lines    []*physics.Line
		timeStep float64
	}{
		{"sparse", randomWorld(40, 50, 1, rand.NewSource(1<<8 | 1)), 0.5},
		{"dense", randomWorld(120, 15, 2, rand.NewSource(2<<8 | 2)), 0.5},
		{"fast_movers", randomWorld(60, 30, 8, rand.NewSource(3<<8 | 3)), 0.25},
		{"tiny_step", randomWorld(60, 20, 2, rand.NewSource(4<<8 | 4)), 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := BruteForce(tt.lines, tt.timeStep)
			want.Sort()
			got := runQuadtreePipeline(t, cfg, tt.lines, tt.timeStep, 4)
			requireSameEvents(t, got, want)
		})
	}
}

func TestQuadtreeMatchesBruteForce_Adversarial(t *testing.T) {
	cfg := quadtree.DefaultConfig()
	cfg.MaxDepth = 8
	cfg.MaxLinesPerNode = 2

	t.Run("clustered_at_cell_boundaries", func(t *testing.T) {
		// Lines straddling what will become cell boundaries exercise
		// replication and dedup.
		var lines []*physics.Line
		id := physics.LineID(0)
		for i := -2; i <= 2; i++ {
			for j := -2; j <= 2; j++ {
				x := float64(i) * 5
				y := float64(j) * 5
				lines = append(lines, physics.NewLine(id,
					physics.Vector2D{X: x - 1, Y: y},
					physics.Vector2D{X: x + 1, Y: y},
					physics.Vector2D{X: 0, Y: 1},
				))
				id++
				lines = append(lines, physics.NewLine(id,
					physics.Vector2D{X: x, Y: y - 1},
					physics.Vector2D{X: x, Y: y + 1},
					physics.Vector2D{X: 1, Y: 0},
				))
				id++
			}
		}

		want := BruteForce(lines, 0.5)
		want.Sort()
		got := runQuadtreePipeline(t, cfg, lines, 0.5, 4)
		requireSameEvents(t, got, want)
	})

	t.Run("coincident_stack", func(t *testing.T) {
		// Many overlapping lines in one spot: everything collides with
		// everything.
		var lines []*physics.Line
		for i := 0; i < 8; i++ {
			angle := float64(i) * 0.3
			lines = append(lines, physics.NewLine(physics.LineID(i),
				physics.Vector2D{X: -1, Y: -angle / 4},
				physics.Vector2D{X: 1, Y: angle / 4},
				physics.Vector2D{X: 0, Y: float64(i%3) - 1},
			))
		}

		want := BruteForce(lines, 0.5)
		want.Sort()
		got := runQuadtreePipeline(t, cfg, lines, 0.5, 2)
		requireSameEvents(t, got, want)
	})
}

func TestTestCandidates_DeterministicAcrossWorkerCounts(t *testing.T) {
	cfg := quadtree.DefaultConfig()
	cfg.MaxDepth = 8
	cfg.MaxLinesPerNode = 4
	lines := randomWorld(100, 20, 2, rand.NewSource(7<<8 | 7))

	var reference *EventList
	for _, workers := range []int{1, 3, 8} {
		got := runQuadtreePipeline(t, cfg, lines, 0.5, workers)
		if reference == nil {
			reference = got
			continue
		}
		requireSameEvents(t, got, reference)
	}
}

func TestBruteForce_PairOrdering(t *testing.T) {
	// Feed lines whose array order disagrees with id order; events must
	// still come out with L1.ID < L2.ID.
	lines := []*physics.Line{
		physics.NewLine(5, physics.Vector2D{X: 0, Y: -1}, physics.Vector2D{X: 0, Y: 1}, physics.Vector2D{}),
		physics.NewLine(2, physics.Vector2D{X: -1, Y: 0}, physics.Vector2D{X: 1, Y: 0}, physics.Vector2D{}),
	}

	events := BruteForce(lines, 0.5)
	if events.Len() != 1 {
		t.Fatalf("got %d events, expected 1", events.Len())
	}
	e := events.Events()[0]
	if e.L1.ID != 2 || e.L2.ID != 5 {
		t.Errorf("event = (%d, %d), expected (2, 5)", e.L1.ID, e.L2.ID)
	}
}
