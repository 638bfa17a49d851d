package immediateticker

import (
	"sync"
	"time"
)

// ImmediateTicker delivers one tick right away and then behaves like time.Ticker.
type ImmediateTicker struct {
	C <-chan time.Time

	t    *time.Ticker
	done chan struct{}
	once sync.Once
}

func New(interval time.Duration) *ImmediateTicker {
	c := make(chan time.Time)

	it := &ImmediateTicker{
		C:    c,
		t:    time.NewTicker(interval),
		done: make(chan struct{}),
	}

	go it.run(c)

	return it
}

func (it *ImmediateTicker) run(c chan<- time.Time) {
	next := time.Now()

	for {
		select {
		case c <- next:
		case <-it.done:
			return
		}

		select {
		case next = <-it.t.C:
		case <-it.done:
			return
		}
	}
}

// Stop releases the forwarding goroutine. No ticks are delivered after Stop returns
// except one that was already being handed over.
func (it *ImmediateTicker) Stop() {
	it.t.Stop()
	it.once.Do(func() {
		close(it.done)
	})
}

func (it *ImmediateTicker) Reset(interval time.Duration) {
	it.t.Reset(interval)
}
