// pkg/quadtree/tree_test.go
package quadtree

import (
	"errors"
	"testing"

	"github.com/opd-ai/go-linesim/pkg/physics"
)

func testConfig() Config {
	return DefaultConfig()
}

func makeLine(id physics.LineID, x1, y1, x2, y2, vx, vy float64) *physics.Line {
	return physics.NewLine(id,
		physics.Vector2D{X: x1, Y: y1},
		physics.Vector2D{X: x2, Y: y2},
		physics.Vector2D{X: vx, Y: vy},
	)
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero_max_depth", func(c *Config) { c.MaxDepth = 0 }},
		{"negative_max_lines", func(c *Config) { c.MaxLinesPerNode = -1 }},
		{"zero_min_cell_size", func(c *Config) { c.MinCellSize = 0 }},
		{"zero_max_nodes", func(c *Config) { c.MaxNodes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New() error = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestTree_QueryBeforeBuild(t *testing.T) {
	tree, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if _, err := tree.FindCandidates(1); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("FindCandidates() error = %v, expected ErrNotBuilt", err)
	}
}

func TestTree_StateTransitions(t *testing.T) {
	tree, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if tree.State() != StateEmpty {
		t.Fatalf("new tree state = %v, expected StateEmpty", tree.State())
	}

	lines := []*physics.Line{
		makeLine(0, 0, 0, 1, 0, 0, 1),
		makeLine(1, 2, 2, 3, 2, 0, -1),
	}
	if err := tree.Build(lines, 0.5); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if tree.State() != StateBuilt {
		t.Errorf("state after Build = %v, expected StateBuilt", tree.State())
	}

	if _, err := tree.FindCandidates(1); err != nil {
		t.Fatalf("FindCandidates() failed: %v", err)
	}
	if tree.State() != StateQueried {
		t.Errorf("state after query = %v, expected StateQueried", tree.State())
	}

	// Rebuilding starts a fresh frame.
	if err := tree.Build(lines, 0.5); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if tree.State() != StateBuilt {
		t.Errorf("state after rebuild = %v, expected StateBuilt", tree.State())
	}
}

func TestTree_BuildEmptyAndSingle(t *testing.T) {
	tree, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	t.Run("empty", func(t *testing.T) {
		if err := tree.Build(nil, 0.5); err != nil {
			t.Fatalf("Build() failed: %v", err)
		}
		pairs, err := tree.FindCandidates(4)
		if err != nil {
			t.Fatalf("FindCandidates() failed: %v", err)
		}
		if len(pairs) != 0 {
			t.Errorf("got %d pairs from empty world", len(pairs))
		}
	})

	t.Run("single_line", func(t *testing.T) {
		lines := []*physics.Line{makeLine(0, 0, 0, 1, 1, 5, 5)}
		if err := tree.Build(lines, 0.5); err != nil {
			t.Fatalf("Build() failed: %v", err)
		}
		pairs, err := tree.FindCandidates(4)
		if err != nil {
			t.Fatalf("FindCandidates() failed: %v", err)
		}
		if len(pairs) != 0 {
			t.Errorf("got %d pairs from single line", len(pairs))
		}
	})
}

func TestTree_MaxVelocityRecorded(t *testing.T) {
	tree, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	lines := []*physics.Line{
		makeLine(0, 0, 0, 1, 0, 3, 4), // speed 5
		makeLine(1, 5, 5, 6, 5, 0, 2), // speed 2
	}
	if err := tree.Build(lines, 0.25); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if got := tree.MaxVelocity(); got != 5 {
		t.Errorf("MaxVelocity() = %v, expected 5", got)
	}
	if got := tree.TimeStep(); got != 0.25 {
		t.Errorf("TimeStep() = %v, expected 0.25", got)
	}
}

func TestTree_IndexOf(t *testing.T) {
	tree, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	lines := []*physics.Line{
		makeLine(7, 0, 0, 1, 0, 0, 0),
		makeLine(9, 2, 0, 3, 0, 0, 0),
	}
	if err := tree.Build(lines, 0.5); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if got := tree.IndexOf(7); got != 0 {
		t.Errorf("IndexOf(7) = %d, expected 0", got)
	}
	if got := tree.IndexOf(9); got != 1 {
		t.Errorf("IndexOf(9) = %d, expected 1", got)
	}
	if got := tree.IndexOf(42); got != -1 {
		t.Errorf("IndexOf(42) = %d, expected -1", got)
	}
}

func TestTree_ArenaExhaustion(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLinesPerNode = 1
	cfg.MaxNodes = 2 // root plus one child slot, so the first split must fail
	tree, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	lines := []*physics.Line{
		makeLine(0, 0, 0, 1, 0, 0, 0),
		makeLine(1, 10, 10, 11, 10, 0, 0),
		makeLine(2, -10, -10, -9, -10, 0, 0),
	}
	err = tree.Build(lines, 0.5)
	if !errors.Is(err, ErrArenaExhausted) {
		t.Fatalf("Build() error = %v, expected ErrArenaExhausted", err)
	}
	if tree.State() != StateEmpty {
		t.Errorf("state after failed build = %v, expected StateEmpty", tree.State())
	}
	if _, err := tree.FindCandidates(1); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("FindCandidates() after failed build error = %v, expected ErrNotBuilt", err)
	}
}

func TestTree_RebuildProducesIdenticalStructure(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLinesPerNode = 2
	cfg.CollectStats = true
	tree, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	lines := []*physics.Line{
		makeLine(0, -5, 0, 5, 0, 0, 1),
		makeLine(1, 0, -5, 0, 5, 1, 0),
		makeLine(2, 3, 3, 4, 3, -1, 0),
		makeLine(3, -3, -3, -3, -2, 0, -1),
		makeLine(4, 0.5, 0.5, 1.5, 0.5, 0.5, 0.5),
	}

	if err := tree.Build(lines, 0.5); err != nil {
		t.Fatalf("first Build() failed: %v", err)
	}
	first := tree.Stats()

	if err := tree.Build(lines, 0.5); err != nil {
		t.Fatalf("second Build() failed: %v", err)
	}
	second := tree.Stats()

	// Same snapshot, same tree: every structural counter must match, not
	// just the candidate set.
	if first.TotalNodes != second.TotalNodes ||
		first.LeafNodes != second.LeafNodes ||
		first.MaxDepthReached != second.MaxDepthReached ||
		first.MaxLinesInNode != second.MaxLinesInNode ||
		first.LineEntries != second.LineEntries {
		t.Errorf("rebuild changed structure:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if first.TotalNodes <= 1 {
		t.Errorf("TotalNodes = %d, expected the scenario to subdivide", first.TotalNodes)
	}
}

func TestTree_BuildStats(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLinesPerNode = 1
	cfg.CollectStats = true
	tree, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	lines := []*physics.Line{
		makeLine(0, 0, 0, 1, 0, 0, 0),
		makeLine(1, 10, 10, 11, 10, 0, 0),
		makeLine(2, -10, -10, -9, -10, 0, 0),
	}
	if err := tree.Build(lines, 0.5); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	stats := tree.Stats()
	if stats.TotalNodes <= 1 {
		t.Errorf("TotalNodes = %d, expected subdivision to occur", stats.TotalNodes)
	}
	if stats.LeafNodes == 0 {
		t.Error("LeafNodes = 0")
	}
	// Every line lands in at least one leaf.
	if stats.LineEntries < len(lines) {
		t.Errorf("LineEntries = %d, expected at least %d", stats.LineEntries, len(lines))
	}
}
