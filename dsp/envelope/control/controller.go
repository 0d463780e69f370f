package control

import (
	"context"
	"errors"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-envelope/dsp/envelope"
)

// ErrNilEnvelope is returned by NewController when no envelope is given.
var ErrNilEnvelope = errors.New("control: envelope must not be nil")

// DefaultQueueSize is the queue capacity used by NewController when size is 0.
const DefaultQueueSize = 256

// Controller serializes control-thread changes onto the render thread.
//
// RenderBlock must only be called from the render goroutine. The Send,
// Schedule and setter methods must only be called from a single control
// goroutine. Now, Level and State may be called from anywhere.
type Controller struct {
	env   *envelope.Envelope
	queue *Queue

	now   atomic.Int64
	level atomic.Uint64
	state atomic.Int32
}

// NewController wraps env. The controller takes ownership: env must not be
// touched directly once rendering has started.
func NewController(env *envelope.Envelope, queueSize int) (*Controller, error) {
	if env == nil {
		return nil, ErrNilEnvelope
	}

	if queueSize == 0 {
		queueSize = DefaultQueueSize
	}

	q, err := NewQueue(queueSize)
	if err != nil {
		return nil, err
	}

	c := &Controller{env: env, queue: q}
	c.publish()

	return c, nil
}

// Now returns the timeline position of the next sample to be rendered.
func (c *Controller) Now() int64 { return c.now.Load() }

// Level returns the envelope output after the most recent RenderBlock.
func (c *Controller) Level() float64 { return math.Float64frombits(c.level.Load()) }

// State returns the envelope state after the most recent RenderBlock.
func (c *Controller) State() envelope.State { return envelope.State(c.state.Load()) }

// Pending returns the number of events not yet applied.
func (c *Controller) Pending() int { return c.queue.Len() }

// Send queues ev to take effect on the next rendered sample, waiting for
// queue space until ctx is done.
func (c *Controller) Send(ctx context.Context, ev Event) error {
	ev.At = 0
	return c.queue.PushWait(ctx, ev)
}

// Schedule queues ev for sample position ev.At. Events must be scheduled in
// non-decreasing At order.
func (c *Controller) Schedule(ctx context.Context, ev Event) error {
	return c.queue.PushWait(ctx, ev)
}

// TrySend queues ev for the next rendered sample without waiting. It reports
// false when the queue is full.
func (c *Controller) TrySend(ev Event) bool {
	ev.At = 0
	return c.queue.Push(ev)
}

// Gate queues a gate change.
func (c *Controller) Gate(ctx context.Context, high bool) error {
	return c.Send(ctx, Event{Kind: KindGate, Flag: high})
}

// SetAttack queues an attack change.
func (c *Controller) SetAttack(ctx context.Context, shape float64, length int) error {
	return c.Send(ctx, Event{Kind: KindAttack, Shape: shape, Length: length})
}

// SetDecay queues a decay change.
func (c *Controller) SetDecay(ctx context.Context, shape float64, length int) error {
	return c.Send(ctx, Event{Kind: KindDecay, Shape: shape, Length: length})
}

// SetRelease queues a release change.
func (c *Controller) SetRelease(ctx context.Context, shape float64, length int) error {
	return c.Send(ctx, Event{Kind: KindRelease, Shape: shape, Length: length})
}

// SetSustain queues a sustain level change.
func (c *Controller) SetSustain(ctx context.Context, level float64) error {
	return c.Send(ctx, Event{Kind: KindSustain, Value: level})
}

// SetPeriod queues a period change.
func (c *Controller) SetPeriod(ctx context.Context, period float64) error {
	return c.Send(ctx, Event{Kind: KindPeriod, Value: period})
}

// SetShape queues a shape change for all segments.
func (c *Controller) SetShape(ctx context.Context, shape float64) error {
	return c.Send(ctx, Event{Kind: KindShape, Value: shape})
}

// SetSustainEnabled queues a sustain flag change.
func (c *Controller) SetSustainEnabled(ctx context.Context, enabled bool) error {
	return c.Send(ctx, Event{Kind: KindSustainEnabled, Flag: enabled})
}

// SetRetrigger queues a retrigger flag change.
func (c *Controller) SetRetrigger(ctx context.Context, enabled bool) error {
	return c.Send(ctx, Event{Kind: KindRetrigger, Flag: enabled})
}

// RenderBlock renders len(dst) samples, applying queued events at their
// sample positions. It does not allocate or block.
func (c *Controller) RenderBlock(dst []float64) {
	now := c.now.Load()

	for start := 0; start < len(dst); {
		pos := now + int64(start)
		for {
			ev, ok := c.queue.Next(pos + 1)
			if !ok {
				break
			}

			Apply(c.env, ev)
		}

		end := len(dst)
		if ev, ok := c.queue.Peek(); ok {
			if due := ev.At - now; due > int64(start) && due < int64(end) {
				end = int(due)
			}
		}

		c.env.RenderBlock(dst[start:end])
		start = end
	}

	c.now.Store(now + int64(len(dst)))
	c.publish()
}

func (c *Controller) publish() {
	c.level.Store(math.Float64bits(c.env.Output()))
	c.state.Store(int32(c.env.State()))
}
