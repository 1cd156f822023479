// pkg/engine/simulation.go
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/opd-ai/go-linesim/pkg/collision"
	"github.com/opd-ai/go-linesim/pkg/config"
	"github.com/opd-ai/go-linesim/pkg/event"
	"github.com/opd-ai/go-linesim/pkg/logging"
	"github.com/opd-ai/go-linesim/pkg/physics"
	"github.com/opd-ai/go-linesim/pkg/resource"
	"github.com/opd-ai/go-linesim/pkg/validation"
)

type SimulationStatus int

const (
	SimulationStatusWaiting SimulationStatus = iota
	SimulationStatusActive
	SimulationStatusEnded
)

// Simulation drives a collision world frame by frame. It owns the world,
// the event bus frames are reported on, and the tick counter, and it keeps
// running totals of candidate and collision counts for the host.
type Simulation struct {
	Config      *config.EnvironmentConfig
	World       *collision.World
	EventBus    *event.Bus
	Status      SimulationStatus
	CurrentTick uint64
	StartTime   time.Time
	EndTime     time.Time

	ResourceManager *resource.Manager

	mu              sync.Mutex
	logger          *logging.Logger
	totalCandidates uint64
	fallbackFrames  uint64
}

// NewSimulation creates a simulation from configuration.
func NewSimulation(cfg *config.EnvironmentConfig) (*Simulation, error) {
	world, err := collision.NewWorld(cfg)
	if err != nil {
		return nil, err
	}

	bus := event.NewEventBus()
	world.EventBus = bus

	return &Simulation{
		Config:   cfg,
		World:    world,
		EventBus: bus,
		logger:   logging.NewLogger(),
	}, nil
}

// InitializeResourceManager sets up resource tracking. Called separately so
// hosts that embed the simulation in their own lifecycle can skip it.
func (s *Simulation) InitializeResourceManager() error {
	s.ResourceManager = resource.NewManager(s.Config)
	return s.ResourceManager.Start()
}

// AddLine validates and adds a moving line to the world.
func (s *Simulation) AddLine(p1, p2, velocity physics.Vector2D) (*physics.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.World.AddLine(p1, p2, velocity)
}

// Start marks the simulation active and publishes nothing; frames are
// reported individually as they run.
func (s *Simulation) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validation.ValidateLineSet(s.World.Lines()); err != nil {
		return logging.WrapError(err, "starting simulation")
	}

	s.Status = SimulationStatusActive
	s.StartTime = time.Now()
	s.logger.Info(ctx, "Simulation started",
		"lines", s.World.NumLines(),
		"time_step", s.World.TimeStep,
		"workers", s.Config.Workers,
		"use_quadtree", s.World.UseQuadtree,
	)
	return nil
}

// Stop ends the simulation and publishes the final event.
func (s *Simulation) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status != SimulationStatusActive {
		return
	}
	s.Status = SimulationStatusEnded
	s.EndTime = time.Now()

	s.EventBus.Publish(&event.BaseEvent{
		EventType: event.SimulationEnded,
		Source:    s,
	})
	s.logger.Info(ctx, "Simulation ended",
		"ticks", s.CurrentTick,
		"line_line_collisions", s.World.LineLineCollisions(),
		"line_wall_collisions", s.World.LineWallCollisions(),
		"fallback_frames", s.fallbackFrames,
	)
}

// Update advances the simulation by one frame and publishes a frame event.
func (s *Simulation) Update(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status != SimulationStatusActive {
		return collision.ErrSimulationNotActive
	}

	result, err := s.World.Step(ctx)
	if err != nil {
		return logging.WrapError(err, "advancing frame %d", s.CurrentTick)
	}

	s.CurrentTick++
	s.totalCandidates += uint64(result.Candidates)
	if !result.QuadtreeSucceeded && s.World.UseQuadtree {
		s.fallbackFrames++
	}

	s.EventBus.Publish(event.NewFrameEvent(
		s,
		s.CurrentTick,
		result.Candidates,
		result.Events.Len(),
		result.QuadtreeSucceeded,
	))
	return nil
}

// RunFrames advances the simulation by n frames, stopping early if the
// context is cancelled.
func (s *Simulation) RunFrames(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Update(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Run drives the simulation at the configured tick rate until the context
// is cancelled, using a tracked goroutine when a resource manager is set.
func (s *Simulation) Run(ctx context.Context) error {
	loop := func(ctx context.Context) {
		interval := time.Second / time.Duration(s.Config.TickRate)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.Stop(ctx)
				return
			case <-ticker.C:
				if err := s.Update(ctx); err != nil {
					s.logger.Error(ctx, "Frame failed", err, "tick", s.CurrentTick)
					s.Stop(ctx)
					return
				}
			}
		}
	}

	if s.ResourceManager != nil {
		return s.ResourceManager.StartGoroutine(ctx, "simulation-loop", loop)
	}
	go loop(ctx)
	return nil
}

// TotalCandidates returns the candidate pairs examined across all frames.
func (s *Simulation) TotalCandidates() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalCandidates
}

// FallbackFrames returns the number of frames served by the brute-force
// detector while the quadtree was enabled.
func (s *Simulation) FallbackFrames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fallbackFrames
}

// Shutdown stops the simulation and releases tracked resources.
func (s *Simulation) Shutdown(ctx context.Context) error {
	s.Stop(ctx)
	if s.ResourceManager != nil {
		return s.ResourceManager.Shutdown(ctx)
	}
	return nil
}
