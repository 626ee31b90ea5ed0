package project

// Channel is the render grouping of all references sharing one colour.
type Channel struct {
	color string
	group Group
}

func NewChannel(color string) *Channel {
	return &Channel{color: color}
}

func (c *Channel) Color() string { return c.color }

func (c *Channel) Group() *Group { return &c.group }

// GroupByColor walks the reference lists in order and files every reference
// under the channel of its colour. Channels come out in first-seen colour
// order. Colour is the only key and is compared exactly.
func GroupByColor(lists ...[]*Reference) []*Channel {
	var channels []*Channel
	byColor := map[string]*Channel{}
	for _, refs := range lists {
		for _, ref := range refs {
			ch, ok := byColor[ref.color]
			if !ok {
				ch = NewChannel(ref.color)
				byColor[ref.color] = ch
				channels = append(channels, ch)
			}
			ch.group.Push(ref)
		}
	}
	return channels
}
