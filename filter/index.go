package filter

import (
	"fmt"
	"slices"
)

// Dimension identifies one of the filterable property axes.
type Dimension int

const (
	Mode Dimension = iota
	Status
	Timeline
)

// Dimensions lists every dimension in mask-set order.
var Dimensions = []Dimension{Mode, Status, Timeline}

func (d Dimension) String() string {
	switch d {
	case Mode:
		return "mode"
	case Status:
		return "status"
	case Timeline:
		return "timeline"
	default:
		return fmt.Sprintf("dimension(%d)", int(d))
	}
}

// ParseDimension maps "mode", "status" or "timeline" to its Dimension.
func ParseDimension(name string) (Dimension, error) {
	for _, d := range Dimensions {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown dimension %q", name)
}

// PropertyIndex maps the property ids of one dimension to dense bit
// positions. It is write-once: positions are assigned at construction in
// the order the ids are given and never change.
type PropertyIndex struct {
	dimension Dimension
	ids       []string
	positions map[string]int
}

// NewPropertyIndex registers ids in order. Empty or repeated ids are rejected.
func NewPropertyIndex(dimension Dimension, ids []string) (*PropertyIndex, error) {
	idx := &PropertyIndex{
		dimension: dimension,
		ids:       make([]string, 0, len(ids)),
		positions: make(map[string]int, len(ids)),
	}
	for _, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%s index: empty property id", dimension)
		}
		if _, dup := idx.positions[id]; dup {
			return nil, fmt.Errorf("%s index: duplicate property id %q", dimension, id)
		}
		idx.positions[id] = len(idx.ids)
		idx.ids = append(idx.ids, id)
	}
	return idx, nil
}

// IndexOf returns the position registered for id, or false when id is unknown.
func (p *PropertyIndex) IndexOf(id string) (int, bool) {
	pos, ok := p.positions[id]
	return pos, ok
}

// Lookup is IndexOf with an *UnknownPropertyError for unregistered ids.
func (p *PropertyIndex) Lookup(id string) (int, error) {
	pos, ok := p.positions[id]
	if !ok {
		return -1, &UnknownPropertyError{Dimension: p.dimension, ID: id}
	}
	return pos, nil
}

func (p *PropertyIndex) Dimension() Dimension { return p.dimension }

// Len is the number of registered ids, which is also the mask width.
func (p *PropertyIndex) Len() int { return len(p.ids) }

// IDs returns the registered ids in position order.
func (p *PropertyIndex) IDs() []string { return slices.Clone(p.ids) }

// NewMask returns a cleared mask wide enough for every registered id.
func (p *PropertyIndex) NewMask() *PropertyMask {
	return NewPropertyMask(p.Len())
}

// Indexes groups the three per-dimension indexes of one dataset.
type Indexes struct {
	Mode     *PropertyIndex
	Status   *PropertyIndex
	Timeline *PropertyIndex
}

// NewIndexes checks that each index belongs to the dimension it is stored under.
func NewIndexes(mode, status, timeline *PropertyIndex) (Indexes, error) {
	idx := Indexes{Mode: mode, Status: status, Timeline: timeline}
	for _, d := range Dimensions {
		p := idx.Index(d)
		if p == nil {
			return Indexes{}, fmt.Errorf("missing %s index", d)
		}
		if p.dimension != d {
			return Indexes{}, fmt.Errorf("%s index registered as %s", p.dimension, d)
		}
	}
	return idx, nil
}

// BuildIndexes registers the three id lists and groups the resulting indexes.
func BuildIndexes(modes, statuses, timelines []string) (Indexes, error) {
	mode, err := NewPropertyIndex(Mode, modes)
	if err != nil {
		return Indexes{}, err
	}
	status, err := NewPropertyIndex(Status, statuses)
	if err != nil {
		return Indexes{}, err
	}
	timeline, err := NewPropertyIndex(Timeline, timelines)
	if err != nil {
		return Indexes{}, err
	}
	return NewIndexes(mode, status, timeline)
}

// Index returns the index of dimension d, or nil for an unknown dimension.
func (i Indexes) Index(d Dimension) *PropertyIndex {
	switch d {
	case Mode:
		return i.Mode
	case Status:
		return i.Status
	case Timeline:
		return i.Timeline
	default:
		return nil
	}
}

// NewMaskSet returns a mask set sized for these indexes with every bit cleared.
func (i Indexes) NewMaskSet() *PropertyMaskSet {
	return &PropertyMaskSet{
		Mode:     i.Mode.NewMask(),
		Status:   i.Status.NewMask(),
		Timeline: i.Timeline.NewMask(),
	}
}
