package feature

import (
	"slices"

	"github.com/theoremus-urban-solutions/infrastructured-map/filter"
	"github.com/theoremus-urban-solutions/infrastructured-map/project"
)

// ChannelView is what a renderer needs to know about one channel.
type ChannelView struct {
	Color  string `json:"color" yaml:"color"`
	Active bool   `json:"active" yaml:"active"`
}

// ChannelState tracks which of a feature's channels pass the current
// viewer filter and whether that changed since the last recomputation.
//
// The channel list is fixed at construction, so the flags slice keeps the
// same length for the feature's lifetime once computed.
type ChannelState struct {
	channels    []*project.Channel
	flags       []bool
	activeCount int
	filter      *filter.PropertyMaskSet
}

func NewChannelState(channels []*project.Channel) *ChannelState {
	return &ChannelState{channels: slices.Clone(channels)}
}

// Recompute evaluates every channel against f and returns true when the
// ordered active flags differ from the previous ones. The state is only
// replaced on change. f is kept for later ActiveProjects queries; callers
// that keep mutating f should pass a clone.
func (s *ChannelState) Recompute(f *filter.PropertyMaskSet) bool {
	s.filter = f
	flags := make([]bool, len(s.channels))
	active := 0
	for i, ch := range s.channels {
		flags[i] = ch.Group().IsActive(f)
		if flags[i] {
			active++
		}
	}
	if slices.Equal(flags, s.flags) {
		return false
	}
	s.flags = flags
	s.activeCount = active
	return true
}

// Channels returns every channel in grouping order.
func (s *ChannelState) Channels() []*project.Channel { return slices.Clone(s.channels) }

// Flags returns the active flags from the last change, one per channel.
// It is empty until the first Recompute.
func (s *ChannelState) Flags() []bool { return slices.Clone(s.flags) }

func (s *ChannelState) ActiveCount() int { return s.activeCount }

// Filter is the mask set passed to the last Recompute, nil before that.
func (s *ChannelState) Filter() *filter.PropertyMaskSet { return s.filter }

// ActiveChannels returns the channels currently flagged active, in order.
func (s *ChannelState) ActiveChannels() []*project.Channel {
	out := make([]*project.Channel, 0, s.activeCount)
	for i, ch := range s.channels {
		if s.active(i) {
			out = append(out, ch)
		}
	}
	return out
}

// ChannelViews describes every channel with its current flag.
func (s *ChannelState) ChannelViews() []ChannelView {
	out := make([]ChannelView, len(s.channels))
	for i, ch := range s.channels {
		out[i] = ChannelView{Color: ch.Color(), Active: s.active(i)}
	}
	return out
}

// ActiveProjects lists, for each active channel, only the members that pass
// the last filter. A channel lights up when any member matches, but the
// listing is filtered per member.
func (s *ChannelState) ActiveProjects() []*project.Reference {
	if s.filter == nil {
		return nil
	}
	var out []*project.Reference
	for i, ch := range s.channels {
		if !s.active(i) {
			continue
		}
		out = append(out, ch.Group().ActiveReferences(s.filter)...)
	}
	return out
}

func (s *ChannelState) active(i int) bool {
	return i < len(s.flags) && s.flags[i]
}
