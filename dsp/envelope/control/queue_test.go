package control

import (
	"context"
	"errors"
	"math"
	"runtime"
	"testing"
)

func TestNewQueue(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"one", 1, false},
		{"eight", 8, false},
		{"256", 256, false},
		{"zero", 0, true},
		{"negative", -4, true},
		{"three", 3, true},
		{"six", 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewQueue(tt.size)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewQueue(%d) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrQueueSize) {
					t.Fatalf("error = %v, want %v", err, ErrQueueSize)
				}
				return
			}
			if q.Cap() != tt.size {
				t.Fatalf("Cap() = %d, want %d", q.Cap(), tt.size)
			}
		})
	}
}

func TestQueueFull(t *testing.T) {
	q, _ := NewQueue(4)

	for i := 0; i < 4; i++ {
		if !q.Push(Event{Length: i}) {
			t.Fatalf("Push #%d failed on non-full queue", i)
		}
	}

	if q.Push(Event{Length: 4}) {
		t.Fatal("Push succeeded on full queue")
	}
	if q.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", q.Len())
	}

	ev, ok := q.Peek()
	if !ok || ev.Length != 0 {
		t.Fatalf("Peek() = %+v, %v; want oldest event", ev, ok)
	}

	for i := 0; i < 4; i++ {
		ev, ok := q.Next(math.MaxInt64)
		if !ok || ev.Length != i {
			t.Fatalf("Next() = %+v, %v; want Length %d", ev, ok, i)
		}
	}

	if _, ok := q.Next(math.MaxInt64); ok {
		t.Fatal("Next() on empty queue returned an event")
	}
	if !q.Push(Event{}) {
		t.Fatal("Push failed after draining")
	}
}

func TestQueueNextHonoursDueTime(t *testing.T) {
	q, _ := NewQueue(8)
	q.Push(Event{At: 5, Length: 1})
	q.Push(Event{At: 2, Length: 2})

	if _, ok := q.Next(5); ok {
		t.Fatal("event at 5 released before 5")
	}

	ev, ok := q.Next(6)
	if !ok || ev.Length != 1 {
		t.Fatalf("Next(6) = %+v, %v", ev, ok)
	}

	ev, ok = q.Next(6)
	if !ok || ev.Length != 2 {
		t.Fatalf("Next(6) = %+v, %v", ev, ok)
	}
}

func TestQueueDrain(t *testing.T) {
	q, _ := NewQueue(8)
	for i := 0; i < 5; i++ {
		q.Push(Event{At: int64(i * 10), Length: i})
	}

	var got []int
	n := q.Drain(25, func(ev Event) { got = append(got, ev.Length) })

	if n != 3 || len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Fatalf("Drain() = %d, events %v; want 3 events 0..2", n, got)
	}
	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}
}

func TestQueuePushWaitCanceled(t *testing.T) {
	q, _ := NewQueue(1)
	q.Push(Event{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.PushWait(ctx, Event{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("PushWait() error = %v, want %v", err, context.Canceled)
	}
}

func TestQueueConcurrent(t *testing.T) {
	q, _ := NewQueue(8)

	const numEvents = 100_000

	done := make(chan struct{})
	var got []int

	go func() {
		defer close(done)
		for len(got) < numEvents {
			n := q.Drain(math.MaxInt64, func(ev Event) {
				got = append(got, ev.Length)
			})
			if n == 0 {
				runtime.Gosched()
			}
		}
	}()

	ctx := context.Background()
	for n := 0; n < numEvents; n++ {
		if err := q.PushWait(ctx, Event{Length: n}); err != nil {
			t.Fatal(err)
		}
	}

	<-done

	if len(got) != numEvents {
		t.Fatalf("wrong number of events: want %v, got %v", numEvents, len(got))
	}

	for i, v := range got {
		if v != i {
			t.Fatalf("out of order event: want %v, got %v", i, v)
		}
	}
}
