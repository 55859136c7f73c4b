package file

import (
	"sync"
	"time"
)

// debouncer collapses event bursts per key: each add resets the key's
// timer, and fn fires once the window elapses quietly.
type debouncer struct {
	window  time.Duration
	mu      sync.Mutex
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
	stopped bool
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window: window,
		timers: make(map[string]*time.Timer),
	}
}

func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if timer, ok := d.timers[key]; ok {
		if timer.Stop() {
			d.wg.Done()
		}
	}

	d.wg.Add(1)
	d.timers[key] = time.AfterFunc(d.window, func() {
		defer d.wg.Done()
		d.mu.Lock()
		delete(d.timers, key)
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			fn()
		}
	})
}

// stopAndWait rejects new events and waits for in-flight timers, up to the
// given timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, timer := range d.timers {
		if timer.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
