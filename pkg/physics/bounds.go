// pkg/physics/bounds.go
package physics

import "math"

// Safety margins applied to swept bounding boxes. The relative-motion factor
// accounts for two lines approaching each other faster than either one's own
// displacement suggests; the gap factor keeps geometrically touching boxes
// from landing in disjoint leaves; the epsilon absorbs floating rounding.
const (
	RelativeMotionFactor = 0.3
	MinimumGapFactor     = 0.15
	PrecisionMargin      = 1e-6
)

// Bounds is an axis-aligned rectangle in world space.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Overlaps reports whether two boxes share any area (touching counts).
func (b Bounds) Overlaps(other Bounds) bool {
	return !(b.XMax < other.XMin || b.XMin > other.XMax ||
		b.YMax < other.YMin || b.YMin > other.YMax)
}

// Contains reports whether other lies entirely inside b.
func (b Bounds) Contains(other Bounds) bool {
	return b.XMin <= other.XMin && b.XMax >= other.XMax &&
		b.YMin <= other.YMin && b.YMax >= other.YMax
}

// Union returns the smallest box containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	return Bounds{
		XMin: math.Min(b.XMin, other.XMin),
		XMax: math.Max(b.XMax, other.XMax),
		YMin: math.Min(b.YMin, other.YMin),
		YMax: math.Max(b.YMax, other.YMax),
	}
}

// Width returns the horizontal extent of the box.
func (b Bounds) Width() float64 {
	return b.XMax - b.XMin
}

// Height returns the vertical extent of the box.
func (b Bounds) Height() float64 {
	return b.YMax - b.YMin
}

// Expand grows the box by margin on every side.
func (b Bounds) Expand(margin float64) Bounds {
	return Bounds{
		XMin: b.XMin - margin,
		XMax: b.XMax + margin,
		YMin: b.YMin - margin,
		YMax: b.YMax + margin,
	}
}

// Square returns the smallest square centered on b that contains it.
// Quadtree cells are always square, so the root is forced square before
// any subdivision happens.
func (b Bounds) Square() Bounds {
	size := math.Max(b.Width(), b.Height())
	cx := (b.XMin + b.XMax) / 2
	cy := (b.YMin + b.YMax) / 2
	half := size / 2
	return Bounds{
		XMin: cx - half,
		XMax: cx + half,
		YMin: cy - half,
		YMax: cy + half,
	}
}

// SweptBounds computes a conservative bounding box for a moving line over one
// time step. The box contains both endpoints at their current and end-of-step
// positions, expanded by the safety margins. maxVelocity is the maximum speed
// over all lines in the frame: the relative-motion margin must cover the
// fastest possible closing speed, not just this line's own displacement.
// Under-expansion loses collisions; over-expansion only costs candidate tests.
func SweptBounds(line *Line, timeStep, maxVelocity, minCellSize float64) Bounds {
	delta := line.Velocity.Scale(timeStep)
	p1End := line.P1.Add(delta)
	p2End := line.P2.Add(delta)

	b := Bounds{
		XMin: math.Min(math.Min(line.P1.X, line.P2.X), math.Min(p1End.X, p2End.X)),
		XMax: math.Max(math.Max(line.P1.X, line.P2.X), math.Max(p1End.X, p2End.X)),
		YMin: math.Min(math.Min(line.P1.Y, line.P2.Y), math.Min(p1End.Y, p2End.Y)),
		YMax: math.Max(math.Max(line.P1.Y, line.P2.Y), math.Max(p1End.Y, p2End.Y)),
	}

	margin := math.Max(RelativeMotionFactor*maxVelocity*timeStep,
		MinimumGapFactor*minCellSize) + PrecisionMargin
	return b.Expand(margin)
}
