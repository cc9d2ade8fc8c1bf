package pixelate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTileSize is returned when the tile size is not a positive integer.
	ErrInvalidTileSize = errors.New("invalid tile size")

	// ErrInvalidDimensions is returned when a buffer is requested with a non-positive side.
	ErrInvalidDimensions = errors.New("invalid buffer dimensions")

	// ErrOutOfBoundsTile signals a tile that does not lie fully inside its buffer.
	// Plan never produces one; seeing it means a caller built tiles by hand.
	ErrOutOfBoundsTile = errors.New("tile outside buffer bounds")

	// ErrTileProcessingFailed is matched by every *ProcessingError.
	ErrTileProcessingFailed = errors.New("tile processing failed")

	// ErrProgressClosed is returned by Push after the progress channel is closed.
	ErrProgressClosed = errors.New("progress channel closed")

	// ErrUnknownMode is returned by ParseMode for an unrecognised strategy name.
	ErrUnknownMode = errors.New("unknown execution mode")
)

// TileError records the failure of a single tile unit.
type TileError struct {
	Tile Tile
	Err  error
}

func (e TileError) Error() string {
	return fmt.Sprintf("tile %d at (%d,%d) %dx%d: %v", e.Tile.Index, e.Tile.X, e.Tile.Y, e.Tile.Width, e.Tile.Height, e.Err)
}

func (e TileError) Unwrap() error { return e.Err }

// ProcessingError aggregates every tile failure of one run, ordered by tile index.
//
// Tiles that completed before or alongside the failures keep their results.
type ProcessingError struct {
	Failures []TileError
}

func (e *ProcessingError) Error() string {
	if len(e.Failures) == 1 {
		return fmt.Sprintf("%v: %v", ErrTileProcessingFailed, e.Failures[0])
	}
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("%v: %d tiles: %s", ErrTileProcessingFailed, len(e.Failures), strings.Join(parts, "; "))
}

// Is reports whether target is ErrTileProcessingFailed.
func (e *ProcessingError) Is(target error) bool {
	return target == ErrTileProcessingFailed
}

// Unwrap exposes each tile failure to errors.Is and errors.As.
func (e *ProcessingError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}
