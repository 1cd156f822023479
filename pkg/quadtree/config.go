// pkg/quadtree/config.go

// Package quadtree implements a depth-bounded square-cell quadtree over
// moving line segments. The tree is rebuilt from scratch each simulation
// frame: a build pass indexes every line's swept bounding box, and a query
// pass turns the tree into a deduplicated list of candidate line pairs for
// the exact intersection test.
package quadtree

import (
	"errors"
	"fmt"
)

// Errors returned by tree operations.
var (
	// ErrInvalidConfig indicates a configuration value out of range.
	ErrInvalidConfig = errors.New("invalid quadtree configuration")
	// ErrNotBuilt indicates a query on a tree with no built frame.
	ErrNotBuilt = errors.New("quadtree has not been built")
	// ErrArenaExhausted indicates the node arena hit its hard cap during a
	// build. The frame should fall back to the brute-force detector.
	ErrArenaExhausted = errors.New("quadtree node arena exhausted")
)

// Default configuration values. MaxLinesPerNode trades subdivision depth
// against per-leaf scan cost; MinCellSize stops subdivision before cells
// shrink into floating-point noise.
const (
	DefaultMaxDepth        = 12
	DefaultMaxLinesPerNode = 32
	DefaultMinCellSize     = 1e-3
	DefaultMaxNodes        = 1 << 20
)

// Config controls when and how the tree subdivides space. It is immutable
// for the lifetime of a frame.
type Config struct {
	// MaxDepth bounds the tree depth. Root is depth 0.
	MaxDepth int
	// MaxLinesPerNode is the leaf occupancy above which a leaf subdivides.
	MaxLinesPerNode int
	// MinCellSize stops subdivision once a child cell would be smaller
	// than this in either dimension.
	MinCellSize float64
	// MaxNodes caps the node arena. Exceeding it aborts the build with
	// ErrArenaExhausted so the caller can fall back for the frame.
	MaxNodes int
	// CollectStats enables build/query statistics collection.
	CollectStats bool
}

// DefaultConfig returns a configuration suitable for most workloads.
func DefaultConfig() Config {
	return Config{
		MaxDepth:        DefaultMaxDepth,
		MaxLinesPerNode: DefaultMaxLinesPerNode,
		MinCellSize:     DefaultMinCellSize,
		MaxNodes:        DefaultMaxNodes,
	}
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.MaxDepth <= 0 {
		return fmt.Errorf("%w: MaxDepth must be positive, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	if c.MaxLinesPerNode <= 0 {
		return fmt.Errorf("%w: MaxLinesPerNode must be positive, got %d", ErrInvalidConfig, c.MaxLinesPerNode)
	}
	if c.MinCellSize <= 0 {
		return fmt.Errorf("%w: MinCellSize must be positive, got %g", ErrInvalidConfig, c.MinCellSize)
	}
	if c.MaxNodes <= 0 {
		return fmt.Errorf("%w: MaxNodes must be positive, got %d", ErrInvalidConfig, c.MaxNodes)
	}
	return nil
}
