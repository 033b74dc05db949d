// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// debouncer collects paths and hands them to fn in one sorted batch once no
// path was added for delay.
type debouncer struct {
	delay  time.Duration
	fn     func(changed []string)
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	stopped bool

	running atomic.Bool
}

func newDebouncer(delay time.Duration, logger *slog.Logger, fn func([]string)) *debouncer {
	return &debouncer{
		delay:   delay,
		fn:      fn,
		logger:  logger,
		pending: make(map[string]struct{}),
	}
}

// add records path and restarts the quiet period.
func (d *debouncer) add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}
	d.schedule()
}

// schedule must be called with mu held.
func (d *debouncer) schedule() {
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.flush)
		return
	}
	d.timer.Reset(d.delay)
}

func (d *debouncer) flush() {
	if !d.running.CompareAndSwap(false, true) {
		d.logger.Info("scan still running, postponing rescan")
		d.mu.Lock()
		if !d.stopped {
			d.schedule()
		}
		d.mu.Unlock()
		return
	}
	defer d.running.Store(false)

	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	changed := slices.Sorted(maps.Keys(d.pending))
	clear(d.pending)
	d.mu.Unlock()

	d.fn(changed)
}

// stop cancels the pending batch. Later adds are dropped.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	clear(d.pending)
}
