package view

import "sync"

// DefaultDeadZone is the scroll distance, in pixels, ignored as jitter.
const DefaultDeadZone = 5

// ScrollToggle derives control visibility from scroll direction. Scrolling
// down hides the controls and scrolling up shows them again; movements
// within the dead zone change nothing.
type ScrollToggle struct {
	mu       sync.Mutex
	deadZone float64
	last     float64
	visible  bool
	disabled bool
}

// NewScrollToggle returns a toggle with controls visible. A negative dead
// zone is treated as zero.
func NewScrollToggle(deadZone float64) *ScrollToggle {
	return &ScrollToggle{deadZone: max(deadZone, 0), visible: true}
}

// Observe records a new vertical offset and returns whether the controls
// should be visible.
func (s *ScrollToggle) Observe(offset float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	delta := offset - s.last
	s.last = offset

	if s.disabled {
		return true
	}
	switch {
	case delta > s.deadZone:
		s.visible = false
	case delta < -s.deadZone:
		s.visible = true
	}
	return s.visible
}

// Visible reports the current visibility.
func (s *ScrollToggle) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disabled || s.visible
}

// Disable pins the controls visible for good.
func (s *ScrollToggle) Disable() {
	s.mu.Lock()
	s.disabled = true
	s.visible = true
	s.mu.Unlock()
}

// DeadZone returns the ignored scroll distance.
func (s *ScrollToggle) DeadZone() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deadZone
}

// Enabled reports whether scrolling can still hide the controls.
func (s *ScrollToggle) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.disabled
}
