package launcher

import "testing"

func TestClampZoomLevelIndex(t *testing.T) {
	if got := clampZoomLevelIndex(-3); got != 0 {
		t.Errorf("clamp(-3) = %d, want 0", got)
	}
	if got := clampZoomLevelIndex(2); got != 2 {
		t.Errorf("clamp(2) = %d, want 2", got)
	}
	if got := clampZoomLevelIndex(len(zoomLevels) + 5); got != len(zoomLevels)-1 {
		t.Errorf("clamp(high) = %d, want %d", got, len(zoomLevels)-1)
	}
}

func TestIconSizeForZoomLevel(t *testing.T) {
	if got := iconSizeForZoomLevel(defaultZoomLevelIndex); got != baseIconSize {
		t.Errorf("default zoom icon size = %v, want %v", got, baseIconSize)
	}
	if got := iconSizeForZoomLevel(0); got >= baseIconSize {
		t.Errorf("min zoom icon size = %v, want < %v", got, baseIconSize)
	}
	if got := iconSizeForZoomLevel(len(zoomLevels) - 1); got <= baseIconSize {
		t.Errorf("max zoom icon size = %v, want > %v", got, baseIconSize)
	}
	// Out-of-range indexes clamp instead of panicking.
	if got := iconSizeForZoomLevel(-1); got != iconSizeForZoomLevel(0) {
		t.Errorf("negative index icon size = %v, want %v", got, iconSizeForZoomLevel(0))
	}
}
