package listctl

import (
	"sync"
	"time"
)

// debouncer runs the most recent function handed to Trigger once no further
// Trigger call has happened for delay. Each Trigger stops the pending timer and
// bumps a generation, so a timer that already fired but lost the race to a
// newer Trigger finds a mismatched generation and does nothing.
type debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

func (d *debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen

	if d.delay <= 0 {
		d.timer = nil
		go d.fire(gen, fn)
		return
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen, fn) })
}

func (d *debouncer) fire(gen uint64, fn func()) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	fn()
}

// Stop cancels any pending trigger.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
