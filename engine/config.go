package engine

import "time"

// Config carries every runtime-mutable knob of the interaction engine.
// The numeric defaults are tuned values, not derived invariants; change
// them through SetConfig and the engine relays out on the next frame.
type Config struct {
	Columns int
	Rows    int

	IconSize      float32
	ColumnSpacing float32
	RowSpacing    float32
	ContentMargin float32

	// DropZoneScale sizes the folder-creation square relative to IconSize.
	DropZoneScale float32
	// FolderDwell delays folder-candidate confirmation. Zero confirms
	// instantly, which is the shipped behavior; the knob stays because the
	// delayed mode is configurable.
	FolderDwell time.Duration

	EdgeMargin          float32
	AutoAdvanceDwell    time.Duration
	AutoAdvanceCooldown time.Duration

	DragThreshold  float32
	LongPressDelay time.Duration
	// PreviewMinDelta suppresses preview updates smaller than this many
	// pixels to avoid redundant redraws.
	PreviewMinDelta float32
	// ClampDragQueries retries off-grid hover queries with the point
	// clamped to the content area.
	ClampDragQueries bool

	ScrollSensitivity float32
	// WheelTickThreshold is the accumulated discrete-wheel delta that
	// commits one page flip.
	WheelTickThreshold float32
	WheelCooldown      time.Duration
	// FlipDistanceFraction of the page width a pan must travel to flip.
	FlipDistanceFraction float32
	// FlipVelocity in px/s that flips a page regardless of distance.
	FlipVelocity float32
	// RubberBandFactor is the k in the diminishing-returns overscroll curve.
	RubberBandFactor float32

	AnimationsEnabled bool
	// SettleFactor is the per-tick interpolation toward the target offset.
	SettleFactor float32
	// SettleEpsilon is the snap distance ending a settle animation.
	SettleEpsilon         float32
	AnimationBaseDuration time.Duration

	// FrameInterval is the render clock period. 8ms tracks 120Hz displays.
	FrameInterval time.Duration
}

// DefaultConfig returns the tuned defaults observed to feel right on a
// 1080p display.
func DefaultConfig() Config {
	return Config{
		Columns:       7,
		Rows:          5,
		IconSize:      96,
		ColumnSpacing: 24,
		RowSpacing:    28,
		ContentMargin: 48,

		DropZoneScale: 1.4,
		FolderDwell:   0,

		EdgeMargin:          36,
		AutoAdvanceDwell:    550 * time.Millisecond,
		AutoAdvanceCooldown: 700 * time.Millisecond,

		DragThreshold:    6,
		LongPressDelay:   450 * time.Millisecond,
		PreviewMinDelta:  0.5,
		ClampDragQueries: true,

		ScrollSensitivity:    1,
		WheelTickThreshold:   0.5,
		WheelCooldown:        250 * time.Millisecond,
		FlipDistanceFraction: 0.15,
		FlipVelocity:         900,
		RubberBandFactor:     0.5,

		AnimationsEnabled:     true,
		SettleFactor:          0.16,
		SettleEpsilon:         0.5,
		AnimationBaseDuration: 220 * time.Millisecond,

		FrameInterval: 8 * time.Millisecond,
	}
}

// ItemsPerPage is derived from the grid dimensions and immutable for the
// lifetime of a layout pass.
func (c Config) ItemsPerPage() int {
	cols, rows := c.Columns, c.Rows
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols * rows
}

func (c Config) normalized() Config {
	if c.Columns < 1 {
		c.Columns = 1
	}
	if c.Rows < 1 {
		c.Rows = 1
	}
	if c.ColumnSpacing < 0 {
		c.ColumnSpacing = 0
	}
	if c.RowSpacing < 0 {
		c.RowSpacing = 0
	}
	if c.SettleFactor <= 0 || c.SettleFactor >= 1 {
		c.SettleFactor = DefaultConfig().SettleFactor
	}
	return c
}
