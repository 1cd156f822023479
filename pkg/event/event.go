// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-linesim/pkg/physics"
)

// Type represents the type of event
type Type string

// Common event types
const (
	LinesCollided    Type = "lines_collided"
	WallBounced      Type = "wall_bounced"
	FrameCompleted   Type = "frame_completed"
	DetectorFallback Type = "detector_fallback"
	SimulationEnded  Type = "simulation_ended"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers, ok := b.handlers[event.GetType()]
	b.mu.RUnlock()

	if !ok {
		return
	}

	for _, handler := range handlers {
		handler(event)
	}
}

// Specific event implementations

// CollisionEvent reports a confirmed line/line collision
type CollisionEvent struct {
	BaseEvent
	ID1  physics.LineID
	ID2  physics.LineID
	Kind physics.IntersectionType
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(source interface{}, id1, id2 physics.LineID, kind physics.IntersectionType) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{
			EventType: LinesCollided,
			Source:    source,
		},
		ID1:  id1,
		ID2:  id2,
		Kind: kind,
	}
}

// WallEvent reports a line bouncing off the world bounds
type WallEvent struct {
	BaseEvent
	ID physics.LineID
}

// NewWallEvent creates a new wall bounce event
func NewWallEvent(source interface{}, id physics.LineID) *WallEvent {
	return &WallEvent{
		BaseEvent: BaseEvent{
			EventType: WallBounced,
			Source:    source,
		},
		ID: id,
	}
}

// FrameEvent summarizes one completed simulation frame
type FrameEvent struct {
	BaseEvent
	Tick              uint64
	Candidates        int
	Collisions        int
	QuadtreeSucceeded bool
}

// NewFrameEvent creates a new frame summary event
func NewFrameEvent(source interface{}, tick uint64, candidates, collisions int, quadtreeSucceeded bool) *FrameEvent {
	return &FrameEvent{
		BaseEvent: BaseEvent{
			EventType: FrameCompleted,
			Source:    source,
		},
		Tick:              tick,
		Candidates:        candidates,
		Collisions:        collisions,
		QuadtreeSucceeded: quadtreeSucceeded,
	}
}

// FallbackEvent reports a frame that fell back to the brute-force detector
type FallbackEvent struct {
	BaseEvent
	Reason string
}

// NewFallbackEvent creates a new detector fallback event
func NewFallbackEvent(source interface{}, reason string) *FallbackEvent {
	return &FallbackEvent{
		BaseEvent: BaseEvent{
			EventType: DetectorFallback,
			Source:    source,
		},
		Reason: reason,
	}
}
