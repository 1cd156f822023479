// pkg/physics/intersect.go
package physics

// IntersectionType classifies the outcome of a moving line/line test.
type IntersectionType int

const (
	// NoIntersection means the lines will not touch during the time step.
	NoIntersection IntersectionType = iota
	// L1WithL2 means l1 crosses into l2's swept region.
	L1WithL2
	// L2WithL1 means l2 crosses into l1 during the step.
	L2WithL1
	// AlreadyIntersected means the lines overlap at their current positions.
	AlreadyIntersected
)

// String returns a readable name for the intersection type.
func (t IntersectionType) String() string {
	switch t {
	case NoIntersection:
		return "none"
	case L1WithL2:
		return "l1_with_l2"
	case L2WithL1:
		return "l2_with_l1"
	case AlreadyIntersected:
		return "already_intersected"
	default:
		return "unknown"
	}
}

// Intersect tests whether two moving lines will intersect before the next
// time step. The test is exact: l1 is treated as stationary and l2 is swept
// with the relative velocity, forming a parallelogram whose overlap with l1
// decides the outcome.
//
// Precondition: CompareLines(l1, l2) < 0.
func Intersect(l1, l2 *Line, timeStep float64) IntersectionType {
	// Sweep l2 with the velocity of l2 relative to l1.
	relative := l2.Velocity.Sub(l1.Velocity).Scale(timeStep)
	p1 := l2.P1.Add(relative)
	p2 := l2.P2.Add(relative)

	if IntersectSegments(l1.P1, l1.P2, l2.P1, l2.P2) {
		return AlreadyIntersected
	}

	numIntersections := 0
	topIntersected := false
	bottomIntersected := false

	if IntersectSegments(l1.P1, l1.P2, p1, p2) {
		numIntersections++
	}
	if IntersectSegments(l1.P1, l1.P2, p1, l2.P1) {
		numIntersections++
		topIntersected = true
	}
	if IntersectSegments(l1.P1, l1.P2, p2, l2.P2) {
		numIntersections++
		bottomIntersected = true
	}

	if numIntersections == 2 {
		return L2WithL1
	}

	if pointInParallelogram(l1.P1, l2.P1, l2.P2, p1, p2) &&
		pointInParallelogram(l1.P2, l2.P1, l2.P2, p1, p2) {
		return L1WithL2
	}

	if numIntersections == 0 {
		return NoIntersection
	}

	// A single edge of the parallelogram is crossed: the winding of the two
	// lines decides which one hit the other.
	angle := l1.Direction().AngleBetween(l2.Direction())
	if topIntersected {
		if angle < 0 {
			return L2WithL1
		}
		return L1WithL2
	}
	if bottomIntersected {
		if angle > 0 {
			return L2WithL1
		}
		return L1WithL2
	}

	return L1WithL2
}

// IntersectSegments reports whether the static segments (p1,p2) and (p3,p4)
// intersect, including touching at endpoints and collinear overlap.
func IntersectSegments(p1, p2, p3, p4 Vector2D) bool {
	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

// IntersectionPoint returns the point where the infinite lines through
// (p1,p2) and (p3,p4) cross. Used by the collision solver to unstick lines
// that already overlap.
func IntersectionPoint(p1, p2, p3, p4 Vector2D) Vector2D {
	u := ((p4.X-p3.X)*(p1.Y-p3.Y) - (p4.Y-p3.Y)*(p1.X-p3.X)) /
		((p4.Y-p3.Y)*(p2.X-p1.X) - (p4.X-p3.X)*(p2.Y-p1.Y))
	return p1.Add(p2.Sub(p1).Scale(u))
}

// pointInParallelogram reports whether point lies strictly inside the
// parallelogram with vertex order p1, p2, p4, p3 (p3 and p4 are p1 and p2
// translated by the sweep).
func pointInParallelogram(point, p1, p2, p3, p4 Vector2D) bool {
	d1 := direction(p1, p2, point)
	d2 := direction(p3, p4, point)
	d3 := direction(p1, p3, point)
	d4 := direction(p2, p4, point)
	return d1*d2 < 0 && d3*d4 < 0
}

// direction gives the orientation of pk relative to the segment (pi, pj):
// positive for counterclockwise, negative for clockwise, zero for collinear.
func direction(pi, pj, pk Vector2D) float64 {
	return pk.Sub(pi).Cross(pj.Sub(pi))
}

// onSegment assumes pk is collinear with (pi, pj) and reports whether it
// lies within the segment's bounding box.
func onSegment(pi, pj, pk Vector2D) bool {
	return ((pi.X <= pk.X && pk.X <= pj.X) || (pj.X <= pk.X && pk.X <= pi.X)) &&
		((pi.Y <= pk.Y && pk.Y <= pj.Y) || (pj.Y <= pk.Y && pk.Y <= pi.Y))
}
