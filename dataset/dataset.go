// Package dataset defines the raw map dataset records, their JSON, JSONP and
// YAML encodings, structural validation, and the sources a dataset can be
// fetched from.
package dataset

// Dataset is the raw input of one map load.
type Dataset struct {
	Features   []Feature   `json:"features" yaml:"features" validate:"dive"`
	Segments   []Segment   `json:"segments" yaml:"segments" validate:"dive"`
	Placemarks []Placemark `json:"placemarks" yaml:"placemarks" validate:"dive"`
}

// Feature is a logical feature id and the projects attached to it.
type Feature struct {
	ID       string    `json:"id" yaml:"id" validate:"required"`
	Projects []Project `json:"projects" yaml:"projects" validate:"dive"`
}

// Project is one raw project record. Title[0] names the project's mode.
type Project struct {
	Title     []string `json:"title" yaml:"title" validate:"required,min=1,dive,required"`
	HeadingID string   `json:"headingId,omitempty" yaml:"headingId,omitempty"`
	Status    string   `json:"status" yaml:"status" validate:"required"`
	// Timeline is empty for a project that matches every timeline.
	Timeline string `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	Color    string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Mode returns the first title segment, or "" for an untitled project.
func (p Project) Mode() string {
	if len(p.Title) == 0 {
		return ""
	}
	return p.Title[0]
}

// Segment is a line referencing one or more features. Line is an encoded
// polyline kept opaque.
type Segment struct {
	IDs  []string `json:"ids" yaml:"ids" validate:"required,min=1,dive,required"`
	Line string   `json:"line" yaml:"line"`
}

// Placemark is a point referencing one or more features.
type Placemark struct {
	IDs []string `json:"ids" yaml:"ids" validate:"required,min=1,dive,required"`
	Lat float64  `json:"lat" yaml:"lat" validate:"latitude"`
	Lng float64  `json:"lng" yaml:"lng" validate:"longitude"`
}

// FeatureIDs returns the ids of all features in dataset order.
func (d *Dataset) FeatureIDs() []string {
	ids := make([]string, len(d.Features))
	for i, f := range d.Features {
		ids[i] = f.ID
	}
	return ids
}
