package pixelate

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"
)

// Event reports the completion of one tile.
//
// Tile and Color are always set and are enough to replay progress onto a
// separate canvas (see Canvas). Snapshot is a full defensive copy of the
// buffer taken right after the tile was written, and is only present when the
// channel was created WithSnapshots.
type Event struct {
	RunID     string  `json:"run_id"`
	Seq       uint64  `json:"seq"`
	Tile      Tile    `json:"tile"`
	Color     RGB     `json:"color"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Snapshot  *Buffer `json:"-"`
}

// ProgressStats are cumulative counters for a progress channel.
type ProgressStats struct {
	Pushed    uint64 `json:"pushed"`
	Delivered uint64 `json:"delivered"`
}

// ProgressOption configures a Progress channel.
type ProgressOption func(*Progress)

// WithSnapshots makes every event carry a full copy of the buffer.
func WithSnapshots() ProgressOption {
	return func(p *Progress) { p.snapshots = true }
}

// Progress is a single-use, multi-producer, single-consumer queue of events.
//
// A bounded Progress blocks Push while full; nothing is dropped. An unbounded
// Progress (capacity <= 0) never blocks producers. The consumer drains with
// Receive or All until Close has been called and the queue is empty. Close is
// idempotent and may be called by either side; it wakes every blocked call.
type Progress struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	queue    []Event
	capacity int
	closed   bool
	seq      uint64

	snapshots bool

	pushed    atomic.Uint64
	delivered atomic.Uint64
}

// NewProgress creates a progress channel. capacity <= 0 means unbounded.
func NewProgress(capacity int, opts ...ProgressOption) *Progress {
	p := &Progress{capacity: capacity}
	p.notEmpty = sync.NewCond(&p.mu)
	p.notFull = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Snapshots reports whether events carry full buffer copies.
func (p *Progress) Snapshots() bool { return p.snapshots }

// Push appends an event, blocking while a bounded queue is full.
//
// The event's Seq is assigned here, in the order pushes are accepted.
// Push returns ErrProgressClosed once the channel is closed, or the
// context's error if ctx ends while waiting for room.
func (p *Progress) Push(ctx context.Context, ev Event) error {
	stop := context.AfterFunc(ctx, func() {
		p.mu.Lock()
		p.notFull.Broadcast()
		p.mu.Unlock()
	})
	defer stop()

	p.mu.Lock()
	defer p.mu.Unlock()

	for !p.closed && p.capacity > 0 && len(p.queue) >= p.capacity {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.notFull.Wait()
	}
	if p.closed {
		return ErrProgressClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.seq++
	ev.Seq = p.seq
	p.queue = append(p.queue, ev)
	p.pushed.Add(1)
	p.notEmpty.Signal()
	return nil
}

// Receive returns the next event, blocking while the queue is empty and open.
// The boolean is false once the channel is closed and fully drained.
func (p *Progress) Receive() (Event, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 && !p.closed {
		p.notEmpty.Wait()
	}
	if len(p.queue) == 0 {
		return Event{}, false
	}

	ev := p.queue[0]
	p.queue[0] = Event{}
	p.queue = p.queue[1:]
	p.delivered.Add(1)
	p.notFull.Signal()
	return ev, true
}

// All returns a sequence that drains the channel until it is closed.
func (p *Progress) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for {
			ev, ok := p.Receive()
			if !ok || !yield(ev) {
				return
			}
		}
	}
}

// Close marks the channel closed. Events already queued stay receivable.
func (p *Progress) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.notEmpty.Broadcast()
	p.notFull.Broadcast()
}

// Closed reports whether Close has been called.
func (p *Progress) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Stats returns the pushed and delivered counters.
func (p *Progress) Stats() ProgressStats {
	return ProgressStats{
		Pushed:    p.pushed.Load(),
		Delivered: p.delivered.Load(),
	}
}

// Canvas rebuilds progress on its own buffer from per-tile events.
//
// It lets a renderer show partial results without snapshot copies. A Canvas
// is owned by the single consumer goroutine and is not safe for concurrent use.
type Canvas struct {
	buf     *Buffer
	applied int
}

// NewCanvas starts a canvas from a copy of base, usually the unprocessed input.
func NewCanvas(base *Buffer) *Canvas {
	return &Canvas{buf: base.Clone()}
}

// Apply paints the event's tile with its mean color. Snapshots are ignored:
// they may arrive out of order, while per-tile fills commute.
func (c *Canvas) Apply(ev Event) error {
	if err := c.buf.Fill(ev.Tile, ev.Color); err != nil {
		return err
	}
	c.applied++
	return nil
}

// Buffer returns the canvas contents. The caller must not mutate it while
// events are still being applied.
func (c *Canvas) Buffer() *Buffer { return c.buf }

// Applied returns how many events have been painted.
func (c *Canvas) Applied() int { return c.applied }
