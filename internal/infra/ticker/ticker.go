// Package ticker calls a function at a fixed interval on its own goroutine.
package ticker

import (
	"sync"
	"time"
)

// Ticker invokes fn once per interval until Stop. Calls never overlap:
// a slow fn makes the ticker skip beats instead of queueing them.
type Ticker struct {
	fn       func(now time.Time)
	stopCh   chan struct{}
	doneCh   chan struct{}
	interval time.Duration
	mu       sync.Mutex
	started  bool
	stopped  bool
}

// New creates a Ticker. A non-positive interval means one second.
func New(interval time.Duration, fn func(now time.Time)) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{
		fn:       fn,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins ticking. Starting twice or after Stop does nothing.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started || t.stopped {
		return
	}
	t.started = true
	go t.loop()
}

// Stop halts the ticker and waits for an in-flight call to return.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	close(t.stopCh)
	started := t.started
	t.mu.Unlock()
	if started {
		<-t.doneCh
	}
}

// Done is closed once the loop has exited.
func (t *Ticker) Done() <-chan struct{} {
	return t.doneCh
}

func (t *Ticker) loop() {
	defer close(t.doneCh)

	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case now := <-tk.C:
			select {
			case <-t.stopCh:
				return
			default:
			}
			t.fn(now)
		case <-t.stopCh:
			return
		}
	}
}
