package launcher

import (
	"fyne.io/fyne/v2"

	"github.com/alexballas/xlaunchpad/engine"
)

const (
	columnsKey   = "xlaunchpad:columns"
	rowsKey      = "xlaunchpad:rows"
	zoomLevelKey = "xlaunchpad:zoomLevel"
	winWidthKey  = "xlaunchpad:windowWidth"
	winHeightKey = "xlaunchpad:windowHeight"
)

// loadPrefs overlays persisted UI knobs onto a config.
func loadPrefs(cfg engine.Config) engine.Config {
	prefs := fyne.CurrentApp().Preferences()

	if cols := prefs.Int(columnsKey); cols > 0 {
		cfg.Columns = cols
	}
	if rows := prefs.Int(rowsKey); rows > 0 {
		cfg.Rows = rows
	}

	level := prefs.IntWithFallback(zoomLevelKey, defaultZoomLevelIndex)
	cfg.IconSize = iconSizeForZoomLevel(level)
	return cfg
}

func saveGridPrefs(cfg engine.Config) {
	prefs := fyne.CurrentApp().Preferences()
	prefs.SetInt(columnsKey, cfg.Columns)
	prefs.SetInt(rowsKey, cfg.Rows)
}

func saveZoomLevel(level int) {
	fyne.CurrentApp().Preferences().SetInt(zoomLevelKey, clampZoomLevelIndex(level))
}

func loadZoomLevel() int {
	return clampZoomLevelIndex(fyne.CurrentApp().Preferences().IntWithFallback(zoomLevelKey, defaultZoomLevelIndex))
}

func saveWindowSize(size fyne.Size) {
	prefs := fyne.CurrentApp().Preferences()
	prefs.SetInt(winWidthKey, int(size.Width))
	prefs.SetInt(winHeightKey, int(size.Height))
}

// WindowSize returns the last persisted window size, or the fallback on
// first run.
func WindowSize(fallback fyne.Size) fyne.Size {
	prefs := fyne.CurrentApp().Preferences()
	w := prefs.IntWithFallback(winWidthKey, int(fallback.Width))
	h := prefs.IntWithFallback(winHeightKey, int(fallback.Height))
	if w < 480 {
		w = 480
	}
	if h < 320 {
		h = 320
	}
	return fyne.NewSize(float32(w), float32(h))
}
