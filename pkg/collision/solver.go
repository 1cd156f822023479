// pkg/collision/solver.go
package collision

import "github.com/opd-ai/go-linesim/pkg/physics"

// resolveCollision updates the velocities of two colliding lines.
// Precondition: CompareLines(l1, l2) < 0 and typ is a real intersection.
//
// Lines that already overlap are pushed apart along the fastest separating
// direction while conserving speed; all other collisions get an elastic
// response along the collision normal that conserves momentum and kinetic
// energy, using segment length as mass.
func resolveCollision(l1, l2 *physics.Line, typ physics.IntersectionType) {
	if typ == physics.AlreadyIntersected {
		unstick(l1, l2)
		return
	}

	// The collision face is the line that was hit.
	var face physics.Vector2D
	if typ == physics.L1WithL2 {
		face = l2.Direction().Normalize()
	} else {
		face = l1.Direction().Normalize()
	}
	normal := face.Orthogonal()

	v1Face := l1.Velocity.Dot(face)
	v2Face := l2.Velocity.Dot(face)
	v1Normal := l1.Velocity.Dot(normal)
	v2Normal := l2.Velocity.Dot(normal)

	// Mass is segment length.
	m1 := l1.P1.Distance(l1.P2)
	m2 := l2.P1.Distance(l2.P2)

	newV1Normal := ((m1-m2)/(m1+m2))*v1Normal + (2*m2/(m1+m2))*v2Normal
	newV2Normal := (2*m1/(m1+m2))*v1Normal + ((m2-m1)/(m2+m1))*v2Normal

	l1.Velocity = normal.Scale(newV1Normal).Add(face.Scale(v1Face))
	l2.Velocity = normal.Scale(newV2Normal).Add(face.Scale(v2Face))
}

// unstick redirects each line's velocity away from the intersection point
// through its farther endpoint, preserving speed, so overlapping lines
// separate as fast as possible.
func unstick(l1, l2 *physics.Line) {
	p := physics.IntersectionPoint(l1.P1, l1.P2, l2.P1, l2.P2)

	if l1.P1.Distance(p) < l1.P2.Distance(p) {
		l1.Velocity = l1.P2.Sub(p).Normalize().Scale(l1.Velocity.Length())
	} else {
		l1.Velocity = l1.P1.Sub(p).Normalize().Scale(l1.Velocity.Length())
	}
	if l2.P1.Distance(p) < l2.P2.Distance(p) {
		l2.Velocity = l2.P2.Sub(p).Normalize().Scale(l2.Velocity.Length())
	} else {
		l2.Velocity = l2.P1.Sub(p).Normalize().Scale(l2.Velocity.Length())
	}
}
