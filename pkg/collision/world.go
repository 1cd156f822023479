// pkg/collision/world.go
package collision

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-linesim/pkg/config"
	"github.com/opd-ai/go-linesim/pkg/event"
	"github.com/opd-ai/go-linesim/pkg/logging"
	"github.com/opd-ai/go-linesim/pkg/physics"
	"github.com/opd-ai/go-linesim/pkg/quadtree"
)

// ErrSimulationNotActive is returned when a frame is requested outside an
// active run.
var ErrSimulationNotActive = errors.New("simulation is not active")

// World owns the simulation's lines and runs the per-frame collision
// pipeline: detect, solve, integrate, bounce. Detection normally goes
// through the quadtree; a circuit breaker isolates that path, so a frame
// failure falls back to the brute-force detector, and repeated failures
// stop attempting the quadtree altogether until the breaker recovers.
type World struct {
	TimeStep float64
	// Bounds is the fixed wall box lines bounce off.
	Bounds physics.Bounds
	// UseQuadtree selects the detection algorithm; brute force when false.
	UseQuadtree bool
	// EventBus, when set, receives collision, wall and fallback events.
	EventBus *event.Bus

	lines   []*physics.Line
	nextID  physics.LineID
	workers int
	tree    *quadtree.Tree
	breaker *gobreaker.CircuitBreaker
	logger  *logging.Logger

	lineLineCollisions uint64
	lineWallCollisions uint64
}

// DetectResult reports one frame's detection outcome. QuadtreeSucceeded is
// false when the frame was served by the brute-force fallback, letting the
// host track degraded frames.
type DetectResult struct {
	Events            *EventList
	Candidates        int
	QuadtreeSucceeded bool
}

// NewWorld creates a collision world from configuration. The wall box is a
// square of WorldSize centered on the origin.
func NewWorld(cfg *config.EnvironmentConfig) (*World, error) {
	tree, err := quadtree.New(quadtree.Config{
		MaxDepth:        cfg.MaxDepth,
		MaxLinesPerNode: cfg.MaxLinesPerNode,
		MinCellSize:     cfg.MinCellSize,
		MaxNodes:        quadtree.DefaultMaxNodes,
		CollectStats:    cfg.CollectStats,
	})
	if err != nil {
		return nil, logging.WrapError(err, "creating spatial index")
	}

	logger := logging.NewLogger()
	half := cfg.WorldSize / 2
	w := &World{
		TimeStep:    cfg.TimeStep,
		Bounds:      physics.Bounds{XMin: -half, XMax: half, YMin: -half, YMax: half},
		UseQuadtree: cfg.UseQuadtree,
		workers:     cfg.Workers,
		tree:        tree,
		logger:      logger,
	}

	w.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "linesim-quadtree",
		MaxRequests: uint32(cfg.CircuitBreakerMaxRequests),
		Interval:    cfg.CircuitBreakerInterval,
		Timeout:     cfg.CircuitBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.CircuitBreakerMaxConsecutiveFails)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return w, nil
}

// AddLine creates a line with the next id and adds it to the world. IDs are
// assigned in insertion order, which keeps the id ordering aligned with the
// canonical array ordering the candidate query depends on.
func (w *World) AddLine(p1, p2, velocity physics.Vector2D) (*physics.Line, error) {
	if bad, ok := invalidCoordinate(p1, p2, velocity); ok {
		return nil, fmt.Errorf("rejecting line %d: non-finite %s", w.nextID, bad)
	}
	line := physics.NewLine(w.nextID, p1, p2, velocity)
	w.nextID++
	w.lines = append(w.lines, line)
	return line, nil
}

// invalidCoordinate reports the first non-finite component, if any.
func invalidCoordinate(vs ...physics.Vector2D) (string, bool) {
	for _, v := range vs {
		if math.IsNaN(v.X) || math.IsInf(v.X, 0) {
			return "x component", true
		}
		if math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
			return "y component", true
		}
	}
	return "", false
}

// Lines returns the world's line slice in canonical order.
func (w *World) Lines() []*physics.Line {
	return w.lines
}

// NumLines returns the number of lines in the world.
func (w *World) NumLines() int {
	return len(w.lines)
}

// DetectIntersections finds all colliding line pairs for the current frame.
// The quadtree path runs through the circuit breaker; on any failure the
// frame is served by the brute-force detector instead and the result is
// flagged as degraded.
func (w *World) DetectIntersections(ctx context.Context) (*DetectResult, error) {
	if !w.UseQuadtree {
		return &DetectResult{
			Events:     sortedBruteForce(w.lines, w.TimeStep),
			Candidates: allPairs(len(w.lines)),
		}, nil
	}

	type quadtreeOutcome struct {
		events     *EventList
		candidates int
	}
	outcome, err := w.breaker.Execute(func() (interface{}, error) {
		events, candidates, err := w.detectWithQuadtree()
		if err != nil {
			return nil, err
		}
		return quadtreeOutcome{events: events, candidates: candidates}, nil
	})
	if err != nil {
		w.logger.Warn(ctx, "quadtree detection failed, falling back to brute force",
			"error", err.Error(),
			"breaker_state", w.breaker.State().String(),
			"lines", len(w.lines),
		)
		w.publish(event.NewFallbackEvent(w, err.Error()))
		return &DetectResult{
			Events:     sortedBruteForce(w.lines, w.TimeStep),
			Candidates: allPairs(len(w.lines)),
		}, nil
	}

	o := outcome.(quadtreeOutcome)
	return &DetectResult{
		Events:            o.events,
		Candidates:        o.candidates,
		QuadtreeSucceeded: true,
	}, nil
}

// detectWithQuadtree runs the three-phase frame: build the spatial index,
// query it for deduplicated candidates, test the candidates in parallel.
func (w *World) detectWithQuadtree() (*EventList, int, error) {
	if err := w.tree.Build(w.lines, w.TimeStep); err != nil {
		return nil, 0, logging.WrapError(err, "build phase")
	}
	candidates, err := w.tree.FindCandidates(w.workers)
	if err != nil {
		return nil, 0, logging.WrapError(err, "query phase")
	}
	return TestCandidates(candidates, w.TimeStep, w.workers), len(candidates), nil
}

// Step advances the simulation by one frame: refresh caches, detect,
// resolve each collision in deterministic order, integrate positions, and
// bounce lines off the walls.
func (w *World) Step(ctx context.Context) (*DetectResult, error) {
	for _, line := range w.lines {
		line.UpdateCaches()
	}

	result, err := w.DetectIntersections(ctx)
	if err != nil {
		return nil, err
	}

	for _, e := range result.Events.Events() {
		resolveCollision(e.L1, e.L2, e.Type)
		w.publish(event.NewCollisionEvent(w, e.L1.ID, e.L2.ID, e.Type))
	}
	atomic.AddUint64(&w.lineLineCollisions, uint64(result.Events.Len()))

	for _, line := range w.lines {
		line.Advance(w.TimeStep)
	}
	w.bounceOffWalls()

	return result, nil
}

// bounceOffWalls reverses the velocity component of any line that has
// crossed a wall and is still heading outward.
func (w *World) bounceOffWalls() {
	for _, line := range w.lines {
		bounced := false

		if (line.P1.X > w.Bounds.XMax || line.P2.X > w.Bounds.XMax) && line.Velocity.X > 0 {
			line.Velocity.X = -line.Velocity.X
			bounced = true
		}
		if (line.P1.X < w.Bounds.XMin || line.P2.X < w.Bounds.XMin) && line.Velocity.X < 0 {
			line.Velocity.X = -line.Velocity.X
			bounced = true
		}
		if (line.P1.Y > w.Bounds.YMax || line.P2.Y > w.Bounds.YMax) && line.Velocity.Y > 0 {
			line.Velocity.Y = -line.Velocity.Y
			bounced = true
		}
		if (line.P1.Y < w.Bounds.YMin || line.P2.Y < w.Bounds.YMin) && line.Velocity.Y < 0 {
			line.Velocity.Y = -line.Velocity.Y
			bounced = true
		}

		if bounced {
			atomic.AddUint64(&w.lineWallCollisions, 1)
			w.publish(event.NewWallEvent(w, line.ID))
		}
	}
}

// publish sends an event if a bus is attached.
func (w *World) publish(e event.Event) {
	if w.EventBus != nil {
		w.EventBus.Publish(e)
	}
}

// LineLineCollisions returns the total line/line collisions resolved.
func (w *World) LineLineCollisions() uint64 {
	return atomic.LoadUint64(&w.lineLineCollisions)
}

// LineWallCollisions returns the total wall bounces.
func (w *World) LineWallCollisions() uint64 {
	return atomic.LoadUint64(&w.lineWallCollisions)
}

// TreeStats returns the spatial index statistics for the last frame.
func (w *World) TreeStats() quadtree.Stats {
	return w.tree.Stats()
}

// BreakerState returns the circuit breaker's current state.
func (w *World) BreakerState() gobreaker.State {
	return w.breaker.State()
}

// sortedBruteForce runs the reference detector and sorts its output into
// the canonical processing order.
func sortedBruteForce(lines []*physics.Line, timeStep float64) *EventList {
	events := BruteForce(lines, timeStep)
	events.Sort()
	return events
}

// allPairs returns n choose 2, the candidate count of the brute-force path.
func allPairs(n int) int {
	return n * (n - 1) / 2
}
