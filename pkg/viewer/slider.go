package viewer

// Slider models a seek slider. While the user drags it, playback position
// updates are ignored so the handle stays under the pointer.
type Slider struct {
	max      int64
	value    int64
	dragging bool
}

// SetRange sets the maximum value. Negative maxima become 0.
func (s *Slider) SetRange(max int64) {
	if max < 0 {
		max = 0
	}
	s.max = max
	s.value = s.clamp(s.value)
}

// SetValue moves the handle to v unless a drag is in progress.
// It reports whether the value was applied.
func (s *Slider) SetValue(v int64) bool {
	if s.dragging {
		return false
	}
	s.value = s.clamp(v)
	return true
}

// Press starts a drag.
func (s *Slider) Press() {
	s.dragging = true
}

// Move moves the handle during a drag.
func (s *Slider) Move(v int64) {
	if s.dragging {
		s.value = s.clamp(v)
	}
}

// Release ends a drag and returns the value to seek to. ok is false when no
// drag was in progress.
func (s *Slider) Release() (value int64, ok bool) {
	if !s.dragging {
		return 0, false
	}
	s.dragging = false
	return s.value, true
}

// Value returns the handle position.
func (s *Slider) Value() int64 { return s.value }

// Max returns the slider range.
func (s *Slider) Max() int64 { return s.max }

// Dragging reports whether a drag is in progress.
func (s *Slider) Dragging() bool { return s.dragging }

// Fraction returns value/max in [0, 1], or 0 for an empty range.
func (s *Slider) Fraction() float64 {
	if s.max <= 0 {
		return 0
	}
	return float64(s.value) / float64(s.max)
}

func (s *Slider) clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	// Sources without a known duration keep an open range.
	if s.max > 0 && v > s.max {
		return s.max
	}
	return v
}
