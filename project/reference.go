// Package project holds the immutable project references produced at load
// time and the colour channels that group them for rendering.
package project

import (
	"slices"
	"strings"

	"github.com/theoremus-urban-solutions/infrastructured-map/filter"
)

// Reference is one project's display data and property masks.
// It is built once per raw project record and never mutated.
type Reference struct {
	masks    *filter.PropertyMaskSet
	titles   []string
	color    string
	anchorID string
}

// NewReference takes ownership of masks; callers must not modify it afterwards.
func NewReference(masks *filter.PropertyMaskSet, titles []string, color, anchorID string) *Reference {
	return &Reference{
		masks:    masks,
		titles:   slices.Clone(titles),
		color:    color,
		anchorID: anchorID,
	}
}

func (r *Reference) Masks() *filter.PropertyMaskSet { return r.masks }

// Titles returns the title segments, outermost first.
func (r *Reference) Titles() []string { return slices.Clone(r.titles) }

func (r *Reference) Color() string { return r.color }

// AnchorID is the id of the document heading describing the project, if any.
func (r *Reference) AnchorID() string { return r.anchorID }

// Title joins the title segments with sep.
func (r *Reference) Title(sep string) string {
	return strings.Join(r.titles, sep)
}

// IsActive reports whether the project passes the viewer filter.
func (r *Reference) IsActive(f *filter.PropertyMaskSet) bool {
	return r.masks.IsActive(f)
}

// Group is an ordered list of references tested together: the group is
// active when any member is.
type Group struct {
	refs []*Reference
}

func (g *Group) Push(ref *Reference) {
	g.refs = append(g.refs, ref)
}

func (g *Group) Len() int { return len(g.refs) }

// References returns the members in insertion order.
func (g *Group) References() []*Reference { return slices.Clone(g.refs) }

func (g *Group) IsActive(f *filter.PropertyMaskSet) bool {
	for _, ref := range g.refs {
		if ref.IsActive(f) {
			return true
		}
	}
	return false
}

// ActiveReferences returns only the members that pass f, in order.
func (g *Group) ActiveReferences(f *filter.PropertyMaskSet) []*Reference {
	var out []*Reference
	for _, ref := range g.refs {
		if ref.IsActive(f) {
			out = append(out, ref)
		}
	}
	return out
}
