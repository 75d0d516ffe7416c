package engine

import (
	"math"
	"time"
)

type scrollPhase int

const (
	scrollSettled scrollPhase = iota
	scrollUserDragging
	scrollAnimating
)

// PageScrollController converts raw wheel/pan input into a continuous
// horizontal scroll offset, rubber-bands at the first and last page, and
// decides page-flip commits. The offset is the content translation: 0 for
// page 0, -(pageCount-1)*pageWidth for the last page.
type PageScrollController struct {
	cfg    Config
	pages  *PageModel
	events Events

	pageWidth float32
	offset    float32
	target    float32
	phase     scrollPhase

	wheelAcc        float32
	lastWheelCommit time.Time

	panStartOffset float32
	panAcc         float32
	lastPanTime    time.Time
	velocity       float32

	now func() time.Time
}

func NewPageScrollController(cfg Config, pages *PageModel, events Events) *PageScrollController {
	return &PageScrollController{
		cfg:    cfg,
		pages:  pages,
		events: events,
		now:    time.Now,
	}
}

func (s *PageScrollController) SetConfig(cfg Config) { s.cfg = cfg }

// SetPageWidth updates geometry after a resize, keeping the committed page
// on screen.
func (s *PageScrollController) SetPageWidth(w float32) {
	if w == s.pageWidth {
		return
	}
	s.pageWidth = w
	s.target = s.pageOffset(s.pages.CurrentPage())
	if s.phase != scrollUserDragging {
		s.offset = s.target
		s.phase = scrollSettled
	}
}

func (s *PageScrollController) Offset() float32 { return s.offset }

func (s *PageScrollController) IsAnimating() bool { return s.phase == scrollAnimating }

func (s *PageScrollController) IsUserDriven() bool { return s.phase == scrollUserDragging }

// Wheel handles non-precise (discrete tick) input. Absolute deltas
// accumulate until the tick threshold commits one page flip; a cooldown
// interval swallows the rest of the gesture burst so one flick cannot skip
// several pages.
func (s *PageScrollController) Wheel(delta float32) {
	if s.pages.PageCount() < 2 {
		return
	}
	now := s.now()
	if now.Sub(s.lastWheelCommit) < s.cfg.WheelCooldown {
		return
	}

	s.wheelAcc += delta * s.cfg.ScrollSensitivity
	if abs32(s.wheelAcc) < s.cfg.WheelTickThreshold {
		return
	}

	dir := 1
	if s.wheelAcc > 0 {
		dir = -1
	}
	s.wheelAcc = 0
	s.lastWheelCommit = now
	s.FlipPage(dir)
}

// FlipPage commits a relative page change and settles onto it.
func (s *PageScrollController) FlipPage(dir int) {
	s.commitPage(s.pages.CurrentPage() + dir)
	s.settleToCurrent()
}

// ScrollToPage commits an absolute page change, clamped to the valid range.
func (s *PageScrollController) ScrollToPage(page int) {
	s.commitPage(page)
	s.settleToCurrent()
}

// PanBegan starts a precise (continuous) scroll gesture.
func (s *PageScrollController) PanBegan() {
	s.panStartOffset = s.offset
	s.panAcc = 0
	s.velocity = 0
	s.lastPanTime = s.now()
	s.phase = scrollUserDragging
}

// PanChanged applies one delta of a precise gesture. Candidates outside the
// valid offset range are rubber-banded so overscroll approaches but never
// exceeds the band limit.
func (s *PageScrollController) PanChanged(delta float32) {
	if s.phase != scrollUserDragging {
		s.PanBegan()
	}
	scaled := delta * s.cfg.ScrollSensitivity
	s.panAcc += scaled

	now := s.now()
	if dt := now.Sub(s.lastPanTime).Seconds(); dt > 0 {
		s.velocity = scaled / float32(dt)
	}
	s.lastPanTime = now

	candidate := s.panStartOffset + s.panAcc
	minOffset := s.minOffset()
	switch {
	case candidate > 0:
		s.offset = RubberBand(candidate, s.pageWidth, s.cfg.RubberBandFactor)
	case candidate < minOffset:
		s.offset = minOffset + RubberBand(candidate-minOffset, s.pageWidth, s.cfg.RubberBandFactor)
	default:
		s.offset = candidate
	}
}

// PanEnded decides the destination page: enough accumulated travel or
// enough instantaneous speed flips one page, anything else snaps back.
func (s *PageScrollController) PanEnded() {
	if s.phase != scrollUserDragging {
		return
	}
	dir := 0
	travel := abs32(s.panAcc)
	speed := abs32(s.velocity)
	if travel >= s.cfg.FlipDistanceFraction*s.pageWidth || speed >= s.cfg.FlipVelocity {
		if s.panAcc > 0 || (s.panAcc == 0 && s.velocity > 0) {
			dir = -1
		} else {
			dir = 1
		}
	}
	if dir != 0 {
		s.commitPage(s.pages.CurrentPage() + dir)
	}
	s.settleToCurrent()
}

// PanCancelled abandons the gesture and settles back without a decision.
func (s *PageScrollController) PanCancelled() {
	if s.phase != scrollUserDragging {
		return
	}
	s.settleToCurrent()
}

// SettleStep advances the settle animation by one render tick and reports
// whether the animation is still running. The distance to target strictly
// decreases every tick and snaps exactly onto the target within epsilon.
func (s *PageScrollController) SettleStep() bool {
	if s.phase != scrollAnimating {
		return false
	}
	s.offset += (s.target - s.offset) * s.cfg.SettleFactor
	if abs32(s.target-s.offset) < s.cfg.SettleEpsilon {
		s.offset = s.target
		s.phase = scrollSettled
	}
	return s.phase == scrollAnimating
}

// commitPage clamps, updates the model and notifies only on an actual
// change.
func (s *PageScrollController) commitPage(page int) {
	if s.pages.SetCurrentPage(page) {
		s.events.pageChanged(s.pages.CurrentPage())
	}
}

func (s *PageScrollController) settleToCurrent() {
	s.target = s.pageOffset(s.pages.CurrentPage())
	if !s.cfg.AnimationsEnabled || s.offset == s.target {
		s.offset = s.target
		s.phase = scrollSettled
		return
	}
	s.phase = scrollAnimating
}

func (s *PageScrollController) pageOffset(page int) float32 {
	return -float32(page) * s.pageWidth
}

func (s *PageScrollController) minOffset() float32 {
	return -float32(s.pages.PageCount()-1) * s.pageWidth
}

// RubberBand maps an overscroll excess to a bounded, diminishing response:
// sign(x) * (k*|x|*limit) / (|x|+limit). Zero maps to zero, the curve is
// strictly increasing, and it approaches k*limit asymptotically.
func RubberBand(excess, limit, k float32) float32 {
	if excess == 0 || limit <= 0 {
		return 0
	}
	sign := float32(1)
	if excess < 0 {
		sign = -1
	}
	x := abs32(excess)
	return sign * (k * x * limit) / (x + limit)
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
