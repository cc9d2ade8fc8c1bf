package pixelate

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Job is the per-run state a Strategy operates on.
//
// Progress may be nil. The snapshot gate is owned by the job; tile fills hold
// its read side (many at once), a full snapshot takes the write side, so a
// Snapshot never observes a half-written tile.
type Job struct {
	RunID    string
	Buffer   *Buffer
	Tiles    []Tile
	Progress *Progress

	gate      sync.RWMutex
	completed atomic.Int64
}

// NewJob prepares a job over buf. Tiles are used as given.
func NewJob(buf *Buffer, tiles []Tile, progress *Progress) *Job {
	return &Job{Buffer: buf, Tiles: tiles, Progress: progress}
}

// Completed returns the number of tiles processed successfully so far.
func (j *Job) Completed() int { return int(j.completed.Load()) }

// process runs one tile unit: reduce, overwrite, report.
//
// tileErr is set when the tile itself could not be pixelated. reportErr is
// set when the tile was written but its event could not be queued because
// ctx ended; it is a cancellation, not a tile failure.
func (j *Job) process(ctx context.Context, t Tile) (tileErr, reportErr error) {
	j.gate.RLock()
	c, err := pixelateTile(j.Buffer, t)
	j.gate.RUnlock()
	if err != nil {
		return err, nil
	}
	done := int(j.completed.Add(1))

	if j.Progress == nil {
		return nil, nil
	}
	ev := Event{
		RunID:     j.RunID,
		Tile:      t,
		Color:     c,
		Completed: done,
		Total:     len(j.Tiles),
	}
	if j.Progress.Snapshots() {
		j.gate.Lock()
		ev.Snapshot = j.Buffer.Clone()
		j.gate.Unlock()
	}
	if err := j.Progress.Push(ctx, ev); err != nil && !errors.Is(err, ErrProgressClosed) {
		return nil, err
	}
	return nil, nil
}

// cancelled wraps a cancellation with the number of tiles that made it.
func (j *Job) cancelled(err error) error {
	return fmt.Errorf("pixelation cancelled after %d tiles: %w", j.Completed(), err)
}

// Strategy drives the reducer over every tile of a job.
type Strategy interface {
	Name() string
	Run(ctx context.Context, job *Job) error
}

// Sequential processes tiles one after another in plan order.
//
// Progress events are pushed synchronously after each tile, before the next
// one starts. A failing tile is recorded and the remaining tiles still run.
type Sequential struct{}

func (Sequential) Name() string { return "sequential" }

func (Sequential) Run(ctx context.Context, job *Job) error {
	var failures []TileError
	for _, t := range job.Tiles {
		if err := ctx.Err(); err != nil {
			return job.cancelled(err)
		}
		tileErr, reportErr := job.process(ctx, t)
		if reportErr != nil {
			return job.cancelled(reportErr)
		}
		if tileErr != nil {
			failures = append(failures, TileError{Tile: t, Err: tileErr})
		}
	}
	return aggregate(failures)
}

// Concurrent processes tiles on a bounded pool of goroutines.
//
// Tiles are submitted in plan order and may complete in any order. Run
// returns only after every submitted tile has finished. Cancelling ctx stops
// further submissions; tiles already handed to a worker still complete.
type Concurrent struct {
	// Workers is the pool size. Zero or negative means runtime.GOMAXPROCS(0).
	Workers int
}

func (Concurrent) Name() string { return "concurrent" }

func (c Concurrent) workers(tiles int) int {
	n := c.Workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return max(1, min(n, tiles))
}

func (c Concurrent) Run(ctx context.Context, job *Job) error {
	if len(job.Tiles) == 0 {
		return nil
	}

	var (
		mu        sync.Mutex
		failures  []TileError
		cancelled error
		wg        sync.WaitGroup
	)
	work := make(chan Tile)

	n := c.workers(len(job.Tiles))
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			for t := range work {
				tileErr, reportErr := job.process(ctx, t)
				if tileErr == nil && reportErr == nil {
					continue
				}
				mu.Lock()
				if tileErr != nil {
					failures = append(failures, TileError{Tile: t, Err: tileErr})
				}
				if reportErr != nil && cancelled == nil {
					cancelled = reportErr
				}
				mu.Unlock()
			}
		}()
	}

	var stopped error
submit:
	for _, t := range job.Tiles {
		if err := ctx.Err(); err != nil {
			stopped = err
			break
		}
		select {
		case work <- t:
		case <-ctx.Done():
			stopped = ctx.Err()
			break submit
		}
	}
	close(work)
	wg.Wait()

	if stopped == nil {
		stopped = cancelled
	}
	if stopped != nil {
		return job.cancelled(stopped)
	}
	return aggregate(failures)
}

func aggregate(failures []TileError) error {
	if len(failures) == 0 {
		return nil
	}
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].Tile.Index < failures[j].Tile.Index
	})
	return &ProcessingError{Failures: failures}
}

// ParseMode maps a mode name to a strategy.
//
// "S" and "sequential" select Sequential; "M" and "concurrent" select
// Concurrent with the given worker count. Matching is case-insensitive.
func ParseMode(mode string, workers int) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "s", "single", "sequential":
		return Sequential{}, nil
	case "m", "multi", "concurrent":
		return Concurrent{Workers: workers}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want S or M)", ErrUnknownMode, mode)
	}
}
