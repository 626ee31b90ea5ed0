package formatter

import (
	"github.com/theoremus-urban-solutions/infrastructured-map/feature"
	"github.com/theoremus-urban-solutions/infrastructured-map/filter"
	"github.com/theoremus-urban-solutions/infrastructured-map/project"
	"github.com/theoremus-urban-solutions/infrastructured-map/viewer"
)

// FilterView is the viewer filter as enabled ids per dimension.
type FilterView struct {
	Mode     []string `json:"mode" yaml:"mode"`
	Status   []string `json:"status" yaml:"status"`
	Timeline []string `json:"timeline" yaml:"timeline"`
	// Masks is the binary form, e.g. "mode: 0110 status: 111 time: 1111".
	Masks string `json:"masks" yaml:"masks"`
}

// ProjectView is one entry of an inspection listing.
type ProjectView struct {
	Title    string   `json:"title" yaml:"title"`
	Titles   []string `json:"titles" yaml:"titles"`
	Color    string   `json:"color" yaml:"color"`
	AnchorID string   `json:"anchorId,omitempty" yaml:"anchorId,omitempty"`
}

// RenderResponse carries the frames of the last recompute pass.
type RenderResponse struct {
	Dataset  string          `json:"dataset,omitempty" yaml:"dataset,omitempty"`
	Filter   FilterView      `json:"filter" yaml:"filter"`
	Features int             `json:"features" yaml:"features"`
	Rendered int             `json:"rendered" yaml:"rendered"`
	Frames   []feature.Frame `json:"frames" yaml:"frames"`
}

// InspectResponse lists the active projects of one feature.
type InspectResponse struct {
	Dataset  string        `json:"dataset,omitempty" yaml:"dataset,omitempty"`
	Feature  string        `json:"feature" yaml:"feature"`
	Filter   FilterView    `json:"filter" yaml:"filter"`
	Projects []ProjectView `json:"projects" yaml:"projects"`
}

// BuildFilterView describes the current filter of v.
func BuildFilterView(v *viewer.Viewer) FilterView {
	return FilterView{
		Mode:     nonNil(v.Enabled(filter.Mode)),
		Status:   nonNil(v.Enabled(filter.Status)),
		Timeline: nonNil(v.Enabled(filter.Timeline)),
		Masks:    v.Filter().String(),
	}
}

// WrapRender wraps recorded frames in a complete response
func WrapRender(dataset string, v *viewer.Viewer, frames []feature.Frame) *RenderResponse {
	if frames == nil {
		frames = []feature.Frame{}
	}
	return &RenderResponse{
		Dataset:  dataset,
		Filter:   BuildFilterView(v),
		Features: len(v.Features()),
		Rendered: len(frames),
		Frames:   frames,
	}
}

// WrapInspect wraps the inspection listing of f in a complete response
func WrapInspect(dataset string, v *viewer.Viewer, f feature.Feature) *InspectResponse {
	return &InspectResponse{
		Dataset:  dataset,
		Feature:  f.ID(),
		Filter:   BuildFilterView(v),
		Projects: ProjectViews(v.Inspect(f), v.Separator()),
	}
}

// ProjectViews converts references, keeping their order.
func ProjectViews(refs []*project.Reference, sep string) []ProjectView {
	out := make([]ProjectView, len(refs))
	for i, ref := range refs {
		out[i] = ProjectView{
			Title:    ref.Title(sep),
			Titles:   ref.Titles(),
			Color:    ref.Color(),
			AnchorID: ref.AnchorID(),
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
