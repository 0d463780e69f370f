package control

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
)

// ErrQueueSize is returned by NewQueue for sizes that are not a positive
// power of two.
var ErrQueueSize = errors.New("control: queue size must be a power of 2")

// Queue is a lock-free single-producer/single-consumer ring of events.
//
// Exactly one goroutine may call Push/PushWait and exactly one goroutine may
// call Peek/Next/Drain.
type Queue struct {
	events      []Event
	mask        uint32
	read, write atomic.Uint32
}

// NewQueue creates a queue holding up to size events.
func NewQueue(size int) (*Queue, error) {
	if size <= 0 || size&(size-1) != 0 || size > 1<<30 {
		return nil, fmt.Errorf("%w: %d", ErrQueueSize, size)
	}

	return &Queue{
		events: make([]Event, size),
		mask:   uint32(size - 1),
	}, nil
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int { return len(q.events) }

// Len returns the number of queued events. It is exact only when called
// from the producer or consumer while the other side is idle.
func (q *Queue) Len() int {
	return int(q.write.Load() - q.read.Load())
}

// Push enqueues ev. It reports false without blocking when the queue is full.
func (q *Queue) Push(ev Event) bool {
	write := q.write.Load()
	if write-q.read.Load() == uint32(len(q.events)) {
		return false
	}

	q.events[write&q.mask] = ev
	q.write.Store(write + 1)

	return true
}

// PushWait enqueues ev, yielding the processor while the queue is full.
// It returns ctx's error if ctx is done before space frees up.
func (q *Queue) PushWait(ctx context.Context, ev Event) error {
	for !q.Push(ev) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			runtime.Gosched()
		}
	}

	return nil
}

// Peek returns the oldest queued event without removing it.
func (q *Queue) Peek() (Event, bool) {
	read := q.read.Load()
	if read == q.write.Load() {
		return Event{}, false
	}

	return q.events[read&q.mask], true
}

// Next removes and returns the oldest event if it is due before until.
// Events are released strictly in push order; a pending event holds back
// every event queued after it.
func (q *Queue) Next(until int64) (Event, bool) {
	read := q.read.Load()
	if read == q.write.Load() {
		return Event{}, false
	}

	ev := q.events[read&q.mask]
	if ev.At >= until {
		return Event{}, false
	}

	q.read.Store(read + 1)

	return ev, true
}

// Drain removes every event due before until and passes it to fn.
func (q *Queue) Drain(until int64, fn func(Event)) int {
	n := 0
	for {
		ev, ok := q.Next(until)
		if !ok {
			return n
		}

		fn(ev)
		n++
	}
}
