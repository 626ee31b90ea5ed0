package feature

// PlacemarkSpacing is the horizontal distance between adjacent placemark
// markers, in symbol units.
const PlacemarkSpacing = 10.0

// Lane places one active channel within a rendered feature.
type Lane struct {
	Color  string  `json:"color" yaml:"color"`
	Offset float64 `json:"offset" yaml:"offset"`
}

// Lanes lays out the active channels of f. Segment lanes are one unit apart
// and centred on the line; placemark markers start at zero and step by
// PlacemarkSpacing.
func Lanes(f Feature) []Lane {
	active := f.State().ActiveChannels()
	if len(active) == 0 {
		return nil
	}
	var offset, step float64
	switch f.Kind() {
	case KindSegment:
		offset = -float64(len(active)-1) / 2
		step = 1
	default:
		step = PlacemarkSpacing
	}
	lanes := make([]Lane, len(active))
	for i, ch := range active {
		lanes[i] = Lane{Color: ch.Color(), Offset: offset}
		offset += step
	}
	return lanes
}
