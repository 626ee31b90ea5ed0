// Package feature holds renderable map features and the per-feature channel
// state that decides which colour channels are drawn.
package feature

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind tags the two feature variants.
type Kind int

const (
	KindSegment Kind = iota
	KindPlacemark
)

func (k Kind) String() string {
	switch k {
	case KindSegment:
		return "segment"
	case KindPlacemark:
		return "placemark"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps "segment" or "placemark" to its Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "segment":
		return KindSegment, nil
	case "placemark":
		return KindPlacemark, nil
	}
	return 0, fmt.Errorf("unknown feature kind %q", name)
}

// Feature is a renderable map element. The concrete type is *Segment or
// *Placemark; both delegate channel bookkeeping to their ChannelState.
type Feature interface {
	Kind() Kind
	// Ordinal is the position of the feature among those of its kind in
	// the loaded dataset.
	Ordinal() int
	// ID names the feature as "<kind>:<ordinal>".
	ID() string
	// FeatureIDs are the dataset feature ids whose projects this element shows.
	FeatureIDs() []string
	State() *ChannelState
}

type base struct {
	kind       Kind
	ordinal    int
	featureIDs []string
	state      *ChannelState
}

func (b *base) Kind() Kind { return b.kind }

func (b *base) Ordinal() int { return b.ordinal }

func (b *base) ID() string { return b.kind.String() + ":" + strconv.Itoa(b.ordinal) }

func (b *base) FeatureIDs() []string { return slices.Clone(b.featureIDs) }

func (b *base) State() *ChannelState { return b.state }

// Segment is a line feature. Line is the opaque encoded path handed to the
// renderer untouched.
type Segment struct {
	base
	Line string
}

func NewSegment(ordinal int, featureIDs []string, state *ChannelState, line string) *Segment {
	return &Segment{
		base: base{kind: KindSegment, ordinal: ordinal, featureIDs: slices.Clone(featureIDs), state: state},
		Line: line,
	}
}

// LatLng is a WGS84 position in degrees.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Placemark is a point feature.
type Placemark struct {
	base
	Position LatLng
}

func NewPlacemark(ordinal int, featureIDs []string, state *ChannelState, position LatLng) *Placemark {
	return &Placemark{
		base:     base{kind: KindPlacemark, ordinal: ordinal, featureIDs: slices.Clone(featureIDs), state: state},
		Position: position,
	}
}

// ParseID is the inverse of Feature.ID.
func ParseID(id string) (Kind, int, error) {
	name, n, ok := strings.Cut(id, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid feature id %q: want <kind>:<n>", id)
	}
	kind, err := ParseKind(name)
	if err != nil {
		return 0, 0, err
	}
	ordinal, err := strconv.Atoi(n)
	if err != nil || ordinal < 0 {
		return 0, 0, fmt.Errorf("invalid feature id %q: bad ordinal", id)
	}
	return kind, ordinal, nil
}
