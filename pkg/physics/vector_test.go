// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestVector2D_Operations(t *testing.T) {
	tests := []struct {
		name     string
		compute  func() Vector2D
		expected Vector2D
	}{
		{
			name:     "add",
			compute:  func() Vector2D { return Vector2D{X: 1, Y: 2}.Add(Vector2D{X: 3, Y: -1}) },
			expected: Vector2D{X: 4, Y: 1},
		},
		{
			name:     "sub",
			compute:  func() Vector2D { return Vector2D{X: 1, Y: 2}.Sub(Vector2D{X: 3, Y: -1}) },
			expected: Vector2D{X: -2, Y: 3},
		},
		{
			name:     "scale",
			compute:  func() Vector2D { return Vector2D{X: 2, Y: -3}.Scale(2.5) },
			expected: Vector2D{X: 5, Y: -7.5},
		},
		{
			name:     "normalize",
			compute:  func() Vector2D { return Vector2D{X: 3, Y: 4}.Normalize() },
			expected: Vector2D{X: 0.6, Y: 0.8},
		},
		{
			name:     "normalize_zero_vector",
			compute:  func() Vector2D { return Vector2D{}.Normalize() },
			expected: Vector2D{},
		},
		{
			name:     "orthogonal",
			compute:  func() Vector2D { return Vector2D{X: 1, Y: 0}.Orthogonal() },
			expected: Vector2D{X: 0, Y: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.compute()
			if !almostEqual(result.X, tt.expected.X) || !almostEqual(result.Y, tt.expected.Y) {
				t.Errorf("got (%v, %v), expected (%v, %v)", result.X, result.Y, tt.expected.X, tt.expected.Y)
			}
		})
	}
}

func TestVector2D_Length(t *testing.T) {
	v := Vector2D{X: 3, Y: 4}
	if got := v.Length(); !almostEqual(got, 5) {
		t.Errorf("Length() = %v, expected 5", got)
	}
	if got := v.LengthSquared(); !almostEqual(got, 25) {
		t.Errorf("LengthSquared() = %v, expected 25", got)
	}
}

func TestVector2D_Cross(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vector2D
		expected float64
	}{
		{"perpendicular", Vector2D{X: 1, Y: 0}, Vector2D{X: 0, Y: 1}, 1},
		{"reversed", Vector2D{X: 0, Y: 1}, Vector2D{X: 1, Y: 0}, -1},
		{"parallel", Vector2D{X: 2, Y: 2}, Vector2D{X: 4, Y: 4}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cross(tt.b); !almostEqual(got, tt.expected) {
				t.Errorf("Cross() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestVector2D_AngleBetween(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vector2D
		expected float64
	}{
		{"quarter_turn_ccw", Vector2D{X: 1, Y: 0}, Vector2D{X: 0, Y: 1}, math.Pi / 2},
		{"quarter_turn_cw", Vector2D{X: 0, Y: 1}, Vector2D{X: 1, Y: 0}, -math.Pi / 2},
		{"same_direction", Vector2D{X: 1, Y: 1}, Vector2D{X: 2, Y: 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.AngleBetween(tt.b); !almostEqual(got, tt.expected) {
				t.Errorf("AngleBetween() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
