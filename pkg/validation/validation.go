// Package validation provides sanity checks for line sets before they enter
// the collision pipeline.
package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/opd-ai/go-linesim/pkg/physics"
)

// Limits for line set validation
const (
	// MaxLines bounds the number of lines per world. Worlds beyond this
	// would blow the node arena well before detection finished anyway.
	MaxLines = 1_000_000
)

// Validation errors.
var (
	// ErrNonFinite indicates a NaN or infinite coordinate or velocity.
	ErrNonFinite = errors.New("non-finite value")
	// ErrDuplicateID indicates two lines sharing an id.
	ErrDuplicateID = errors.New("duplicate line id")
	// ErrTooManyLines indicates a line set over the MaxLines cap.
	ErrTooManyLines = errors.New("too many lines")
)

// ValidateLine checks a single line for non-finite coordinates or velocity.
// A line that fails this check would poison every bounding box computation
// that touches it.
func ValidateLine(line *physics.Line) error {
	if line == nil {
		return fmt.Errorf("line is nil")
	}
	if !finiteVector(line.P1) {
		return fmt.Errorf("line %d: endpoint p1 %w: (%g, %g)", line.ID, ErrNonFinite, line.P1.X, line.P1.Y)
	}
	if !finiteVector(line.P2) {
		return fmt.Errorf("line %d: endpoint p2 %w: (%g, %g)", line.ID, ErrNonFinite, line.P2.X, line.P2.Y)
	}
	if !finiteVector(line.Velocity) {
		return fmt.Errorf("line %d: velocity %w: (%g, %g)", line.ID, ErrNonFinite, line.Velocity.X, line.Velocity.Y)
	}
	return nil
}

// ValidateLineSet checks a full line set: per-line validity, duplicate ids,
// and the overall size limit. The first problem found is returned.
func ValidateLineSet(lines []*physics.Line) error {
	if len(lines) > MaxLines {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyLines, len(lines), MaxLines)
	}

	seen := make(map[physics.LineID]struct{}, len(lines))
	for i, line := range lines {
		if err := ValidateLine(line); err != nil {
			return fmt.Errorf("line at index %d: %w", i, err)
		}
		if _, dup := seen[line.ID]; dup {
			return fmt.Errorf("%w: id %d at index %d", ErrDuplicateID, line.ID, i)
		}
		seen[line.ID] = struct{}{}
	}
	return nil
}

// SanitizeLineSet returns the valid subset of lines in their original order,
// dropping lines with non-finite coordinates or duplicated ids. Hosts that
// prefer degraded operation over a rejected frame use this instead of
// ValidateLineSet.
func SanitizeLineSet(lines []*physics.Line) ([]*physics.Line, []error) {
	var errs []error
	kept := make([]*physics.Line, 0, len(lines))
	seen := make(map[physics.LineID]struct{}, len(lines))

	for i, line := range lines {
		if err := ValidateLine(line); err != nil {
			errs = append(errs, fmt.Errorf("dropping line at index %d: %w", i, err))
			continue
		}
		if _, dup := seen[line.ID]; dup {
			errs = append(errs, fmt.Errorf("dropping line at index %d: %w: id %d", i, ErrDuplicateID, line.ID))
			continue
		}
		seen[line.ID] = struct{}{}
		kept = append(kept, line)
	}
	return kept, errs
}

func finiteVector(v physics.Vector2D) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
