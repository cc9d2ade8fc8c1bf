package pixelate

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Options configure a single Run.
type Options struct {
	// TileSize is the side of each square tile in pixels. Must be positive.
	TileSize int

	// Strategy selects how tiles are driven. Nil means Sequential.
	Strategy Strategy

	// Progress, when set, receives one event per completed tile and is
	// closed when Run returns, whether or not the run failed.
	Progress *Progress
}

// Stats describe a finished run.
type Stats struct {
	RunID    string        `json:"run_id"`
	Strategy string        `json:"strategy"`
	Tiles    int           `json:"tiles"`
	TileSize int           `json:"tile_size"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Run pixelates buf in place and returns it.
//
// An invalid tile size is reported before any pixel is touched. A tile
// failure yields a *ProcessingError after every other tile has finished; the
// buffer then holds the results of every tile that succeeded.
func Run(ctx context.Context, buf *Buffer, opts Options) (*Buffer, error) {
	_, err := RunWithStats(ctx, buf, opts)
	return buf, err
}

// RunWithStats is Run plus timing and identity information for the run.
func RunWithStats(ctx context.Context, buf *Buffer, opts Options) (Stats, error) {
	if opts.Progress != nil {
		defer opts.Progress.Close()
	}

	strategy := opts.Strategy
	if strategy == nil {
		strategy = Sequential{}
	}
	stats := Stats{
		RunID:    uuid.NewString(),
		Strategy: strategy.Name(),
		TileSize: opts.TileSize,
	}

	tiles, err := Plan(buf.Width(), buf.Height(), opts.TileSize)
	if err != nil {
		return stats, err
	}
	stats.Tiles = len(tiles)

	job := NewJob(buf, tiles, opts.Progress)
	job.RunID = stats.RunID

	start := time.Now()
	err = strategy.Run(ctx, job)
	stats.Elapsed = time.Since(start)
	return stats, err
}
