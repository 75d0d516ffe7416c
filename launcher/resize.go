package launcher

import (
	"time"

	"fyne.io/fyne/v2"
)

// resizeDebouncer coalesces the burst of layout passes a live window
// resize produces into occasional onResize callbacks, fired outside the
// layout pass itself.
type resizeDebouncer struct {
	onResize func(fyne.Size)

	lastSize  fyne.Size
	lastFired time.Time
	timer     *time.Timer
}

func (r *resizeDebouncer) notify(size fyne.Size) {
	if r.onResize == nil {
		return
	}

	// Only react to real size changes (layouts can run for other reasons).
	changed := abs32(size.Width-r.lastSize.Width) >= 0.5 || abs32(size.Height-r.lastSize.Height) >= 0.5
	if !changed {
		return
	}
	r.lastSize = size
	r.schedule()
}

func (r *resizeDebouncer) schedule() {
	// Defer the callback to avoid modifying the UI during layout, which
	// can panic in the Fyne driver. Coalesce bursts during window resize.
	const minInterval = 60 * time.Millisecond

	now := time.Now()
	elapsed := now.Sub(r.lastFired)
	if elapsed >= minInterval {
		r.lastFired = now
		size := r.lastSize
		fyne.Do(func() { r.onResize(size) })
		return
	}

	delay := minInterval - elapsed
	if delay < 0 {
		delay = 0
	}

	if r.timer == nil {
		r.timer = time.AfterFunc(delay, func() {
			fyne.Do(func() {
				r.timer = nil
				r.lastFired = time.Now()
				if r.onResize != nil {
					r.onResize(r.lastSize)
				}
			})
		})
		return
	}
	r.timer.Reset(delay)
}

func (r *resizeDebouncer) stop() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
