package filter

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// PropertyMask is a fixed-width bit set over the positions of one
// PropertyIndex. Bit i is set when the property at position i is enabled.
type PropertyMask struct {
	width uint
	bits  *bitset.BitSet
}

// NewPropertyMask returns a mask of width bits, all cleared.
func NewPropertyMask(width int) *PropertyMask {
	if width < 0 {
		panic(fmt.Sprintf("filter: negative mask width %d", width))
	}
	return &PropertyMask{
		width: uint(width),
		bits:  bitset.New(uint(width)),
	}
}

// Width is the number of addressable positions.
func (m *PropertyMask) Width() int { return int(m.width) }

// SetEnabled sets or clears one bit. Positions outside [0, Width) are a
// programming error and panic.
func (m *PropertyMask) SetEnabled(position int, enabled bool) {
	m.checkPosition(position)
	m.bits.SetTo(uint(position), enabled)
}

// SetAllEnabled sets every position when enabled, clears them all otherwise.
func (m *PropertyMask) SetAllEnabled(enabled bool) {
	if enabled {
		m.bits.SetAll()
		return
	}
	m.bits.ClearAll()
}

// IsEnabled reads one bit.
func (m *PropertyMask) IsEnabled(position int) bool {
	m.checkPosition(position)
	return m.bits.Test(uint(position))
}

// IsActive reports whether m and other share at least one enabled property.
// It is an intersection test: symmetric, and false when either side is empty.
func (m *PropertyMask) IsActive(other *PropertyMask) bool {
	return m.bits.IntersectionCardinality(other.bits) > 0
}

// Count is the number of enabled properties.
func (m *PropertyMask) Count() int { return int(m.bits.Count()) }

// Positions returns the enabled positions in ascending order.
func (m *PropertyMask) Positions() []int {
	out := make([]int, 0, m.bits.Count())
	for i, ok := m.bits.NextSet(0); ok; i, ok = m.bits.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// Equal reports whether both masks have the same width and bits.
func (m *PropertyMask) Equal(other *PropertyMask) bool {
	return m.width == other.width && m.bits.Equal(other.bits)
}

func (m *PropertyMask) Clone() *PropertyMask {
	return &PropertyMask{width: m.width, bits: m.bits.Clone()}
}

// String renders the mask in binary, highest position first.
func (m *PropertyMask) String() string {
	if m.width == 0 {
		return "0"
	}
	var b strings.Builder
	b.Grow(int(m.width))
	for i := int(m.width) - 1; i >= 0; i-- {
		if m.bits.Test(uint(i)) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func (m *PropertyMask) checkPosition(position int) {
	if position < 0 || uint(position) >= m.width {
		panic(fmt.Sprintf("filter: mask position %d out of range [0,%d)", position, m.width))
	}
}
