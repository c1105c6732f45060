// Package status tracks what each analyst agent is doing and forwards
// changes to listeners without ever blocking the reporting goroutine.
package status

import (
	"sync"
	"sync/atomic"

	"indian-hedge-fund/internal/interfaces"
)

type Status struct {
	Agent  string
	Ticker string
	Text   string
}

// Done reports whether the status is terminal for its ticker.
func (s Status) Done() bool {
	return s.Text == "Done" || s.Text == "Error"
}

// Listener consumes status changes on the tracker's delivery goroutine.
type Listener interface {
	Update(s Status)
}

// Tracker keeps the latest status per agent under a lock. Changes are queued
// on a bounded channel; when the queue is full the update is dropped.
type Tracker struct {
	mu        sync.Mutex
	states    map[string]Status
	events    chan Status
	closed    bool
	listeners []Listener
	dropped   atomic.Int64
	wg        sync.WaitGroup
}

var _ interfaces.StatusSink = (*Tracker)(nil)

func NewTracker(buffer int, listeners ...Listener) *Tracker {
	if buffer < 1 {
		buffer = 256
	}
	return &Tracker{
		states:    make(map[string]Status),
		events:    make(chan Status, buffer),
		listeners: listeners,
	}
}

// Start delivers queued changes to the listeners until Stop.
func (t *Tracker) Start() {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for s := range t.events {
			for _, l := range t.listeners {
				l.Update(s)
			}
		}
	}()
}

// Stop closes the queue and waits for pending deliveries.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.events)
	}
	t.mu.Unlock()
	t.wg.Wait()
}

// Report records a status. Repeating the current status is a no-op.
func (t *Tracker) Report(agent, ticker, text string) {
	s := Status{Agent: agent, Ticker: ticker, Text: text}

	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.states[agent]; ok && prev == s {
		return
	}
	t.states[agent] = s
	if t.closed {
		return
	}
	select {
	case t.events <- s:
	default:
		t.dropped.Add(1)
	}
}

// Snapshot returns the current status of every agent.
func (t *Tracker) Snapshot() map[string]Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]Status, len(t.states))
	for k, v := range t.states {
		out[k] = v
	}
	return out
}

// Dropped is the number of changes discarded because the queue was full.
func (t *Tracker) Dropped() int64 {
	return t.dropped.Load()
}
