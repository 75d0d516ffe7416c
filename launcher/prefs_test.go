package launcher

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

func TestWindowSizeRoundTrip(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	fallback := fyne.NewSize(1200, 800)
	if got := WindowSize(fallback); got != fallback {
		t.Fatalf("first-run window size = %v, want fallback %v", got, fallback)
	}

	saveWindowSize(fyne.NewSize(1440, 920))
	if got := WindowSize(fallback); got != fyne.NewSize(1440, 920) {
		t.Fatalf("restored window size = %v, want 1440x920", got)
	}

	// Corrupt or tiny persisted values clamp to the widget minimum.
	saveWindowSize(fyne.NewSize(10, 10))
	got := WindowSize(fallback)
	if got.Width < 480 || got.Height < 320 {
		t.Fatalf("clamped window size = %v, want >= 480x320", got)
	}
}

func TestResizeDebouncer_CoalescesBursts(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	callbacks := 0
	r := &resizeDebouncer{onResize: func(fyne.Size) { callbacks++ }}
	defer r.stop()

	r.notify(fyne.NewSize(700, 500))
	fyne.DoAndWait(func() {})
	if callbacks != 1 {
		t.Fatalf("expected 1 callback after initial size, got %d", callbacks)
	}

	// Same size again does not fire.
	r.lastFired = time.Now().Add(-time.Second)
	r.notify(fyne.NewSize(700, 500))
	fyne.DoAndWait(func() {})
	if callbacks != 1 {
		t.Fatalf("expected callback count to stay at 1, got %d", callbacks)
	}

	// A burst of changes inside the interval coalesces into one deferred
	// callback.
	r.notify(fyne.NewSize(710, 500))
	r.notify(fyne.NewSize(720, 500))
	r.notify(fyne.NewSize(730, 500))
	deadline := time.Now().Add(2 * time.Second)
	for callbacks < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
		fyne.DoAndWait(func() {})
	}
	if callbacks != 2 {
		t.Fatalf("expected exactly 2 callbacks after burst, got %d", callbacks)
	}
}
