package engine

import "time"

// RenderClock is the single periodic driver: it advances the settle
// animation and the drag edge-hold timers on every tick and feeds
// frame-rate telemetry once a second. Ticks run on a background ticker and
// are marshaled to the UI thread through the dispatch function, so the
// callback itself must never block.
type RenderClock struct {
	interval time.Duration
	dispatch func(func())
	onTick   func(now time.Time)
	events   Events

	ticker *time.Ticker
	stop   chan struct{}

	lastTick    time.Time
	windowStart time.Time
	frames      int
	frameMsSum  float64
}

// NewRenderClock builds a stopped clock. dispatch marshals each tick onto
// the UI thread (the Fyne backend passes fyne.Do); nil runs ticks inline.
func NewRenderClock(interval time.Duration, dispatch func(func()), events Events, onTick func(now time.Time)) *RenderClock {
	if interval <= 0 {
		interval = DefaultConfig().FrameInterval
	}
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}
	return &RenderClock{
		interval: interval,
		dispatch: dispatch,
		events:   events,
		onTick:   onTick,
	}
}

func (c *RenderClock) Start() {
	if c.ticker != nil {
		return
	}
	c.ticker = time.NewTicker(c.interval)
	c.stop = make(chan struct{})
	c.lastTick = time.Time{}
	c.windowStart = time.Now()
	c.frames = 0
	c.frameMsSum = 0

	stop := c.stop
	ticker := c.ticker
	go func() {
		for {
			select {
			case <-ticker.C:
				c.dispatch(func() {
					c.Step(time.Now())
				})
			case <-stop:
				return
			}
		}
	}()
}

func (c *RenderClock) Stop() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	c.ticker = nil
	close(c.stop)
	c.stop = nil
}

func (c *RenderClock) Running() bool { return c.ticker != nil }

// Step performs one tick. Exposed so tests (and paused clocks) can drive
// frames by hand.
func (c *RenderClock) Step(now time.Time) {
	if c.windowStart.IsZero() {
		c.windowStart = now
	}
	if !c.lastTick.IsZero() {
		frameMs := float64(now.Sub(c.lastTick)) / float64(time.Millisecond)
		c.frames++
		c.frameMsSum += frameMs
	}
	c.lastTick = now

	if c.onTick != nil {
		c.onTick(now)
	}

	if elapsed := now.Sub(c.windowStart); elapsed >= time.Second && c.frames > 0 {
		fps := float64(c.frames) / elapsed.Seconds()
		c.events.frameStats(fps, c.frameMsSum/float64(c.frames))
		c.windowStart = now
		c.frames = 0
		c.frameMsSum = 0
	}
}
