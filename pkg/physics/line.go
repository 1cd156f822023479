// pkg/physics/line.go
package physics

// LineID uniquely identifies a line for the lifetime of the simulation.
// IDs are assigned in creation order and never reused.
type LineID uint32

// Line represents a moving line segment. The Length and Speed fields are
// derived caches refreshed once per frame by UpdateCaches; they are only
// valid until the next call to Advance.
type Line struct {
	ID       LineID
	P1       Vector2D
	P2       Vector2D
	Velocity Vector2D

	// Per-frame caches
	Length float64
	Speed  float64
}

// NewLine creates a line segment with the given id, endpoints and velocity,
// with caches populated.
func NewLine(id LineID, p1, p2, velocity Vector2D) *Line {
	l := &Line{
		ID:       id,
		P1:       p1,
		P2:       p2,
		Velocity: velocity,
	}
	l.UpdateCaches()
	return l
}

// UpdateCaches refreshes the derived length and speed caches. Called once
// per frame before collision detection.
func (l *Line) UpdateCaches() {
	l.Length = l.P1.Distance(l.P2)
	l.Speed = l.Velocity.Length()
}

// Advance moves both endpoints by velocity over the given time step.
// Caches become stale and must be refreshed before the next detection pass.
func (l *Line) Advance(timeStep float64) {
	delta := l.Velocity.Scale(timeStep)
	l.P1 = l.P1.Add(delta)
	l.P2 = l.P2.Add(delta)
}

// Direction returns the vector from P1 to P2.
func (l *Line) Direction() Vector2D {
	return l.P2.Sub(l.P1)
}

// CompareLines orders two lines by id: -1 if a comes before b, 0 if equal,
// 1 if a comes after b. Intersect requires its arguments in this order, and
// the event sort uses it to reproduce the reference processing order.
func CompareLines(a, b *Line) int {
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}
