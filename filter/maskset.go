package filter

// PropertyMaskSet holds one mask per dimension. It describes either the
// properties a project has or the properties a viewer has selected.
type PropertyMaskSet struct {
	Mode     *PropertyMask
	Status   *PropertyMask
	Timeline *PropertyMask
}

// IsActive is true when every dimension pair shares at least one property:
// OR within a dimension, AND across dimensions.
func (s *PropertyMaskSet) IsActive(other *PropertyMaskSet) bool {
	return s.Mode.IsActive(other.Mode) &&
		s.Status.IsActive(other.Status) &&
		s.Timeline.IsActive(other.Timeline)
}

// SelectAll enables every property in every dimension.
func (s *PropertyMaskSet) SelectAll() {
	s.Mode.SetAllEnabled(true)
	s.Status.SetAllEnabled(true)
	s.Timeline.SetAllEnabled(true)
}

// Mask returns the mask of dimension d, or nil for an unknown dimension.
func (s *PropertyMaskSet) Mask(d Dimension) *PropertyMask {
	switch d {
	case Mode:
		return s.Mode
	case Status:
		return s.Status
	case Timeline:
		return s.Timeline
	default:
		return nil
	}
}

func (s *PropertyMaskSet) Equal(other *PropertyMaskSet) bool {
	return s.Mode.Equal(other.Mode) &&
		s.Status.Equal(other.Status) &&
		s.Timeline.Equal(other.Timeline)
}

// Clone returns a deep copy, so later toggles on s do not leak into it.
func (s *PropertyMaskSet) Clone() *PropertyMaskSet {
	return &PropertyMaskSet{
		Mode:     s.Mode.Clone(),
		Status:   s.Status.Clone(),
		Timeline: s.Timeline.Clone(),
	}
}

func (s *PropertyMaskSet) String() string {
	return "mode: " + s.Mode.String() +
		" status: " + s.Status.String() +
		" time: " + s.Timeline.String()
}
