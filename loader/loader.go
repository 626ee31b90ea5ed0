// Package loader turns a raw dataset into indexed project references and
// renderable features with their colour channels.
package loader

import (
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/infrastructured-map/config"
	"github.com/theoremus-urban-solutions/infrastructured-map/dataset"
	"github.com/theoremus-urban-solutions/infrastructured-map/feature"
	"github.com/theoremus-urban-solutions/infrastructured-map/filter"
	"github.com/theoremus-urban-solutions/infrastructured-map/internal"
	"github.com/theoremus-urban-solutions/infrastructured-map/project"
)

// Options fixes the dimension values and default colours a loader resolves
// projects against.
type Options struct {
	Modes     []string
	Statuses  []string
	Timelines []string
	// DefaultColors maps a mode to the colour of projects without one.
	DefaultColors map[string]string
}

func OptionsFromConfig(cfg config.AppConfig) Options {
	return Options{
		Modes:         cfg.Dimensions.Modes,
		Statuses:      cfg.Dimensions.Statuses,
		Timelines:     cfg.Dimensions.Timelines,
		DefaultColors: cfg.Colors,
	}
}

// Loader builds Results. It is safe to reuse for several datasets; the
// property indexes are shared by every Result it produces.
type Loader struct {
	indexes filter.Indexes
	colors  map[string]string
	logger  *zap.SugaredLogger
}

func New(opts Options, logger *zap.SugaredLogger) (*Loader, error) {
	indexes, err := filter.BuildIndexes(opts.Modes, opts.Statuses, opts.Timelines)
	if err != nil {
		return nil, err
	}
	return &Loader{
		indexes: indexes,
		colors:  maps.Clone(opts.DefaultColors),
		logger:  internal.OrNop(logger),
	}, nil
}

func (l *Loader) Indexes() filter.Indexes { return l.indexes }

// Result is one loaded dataset.
type Result struct {
	Indexes filter.Indexes
	// ProjectsByFeature holds each feature's references in project order.
	ProjectsByFeature map[string][]*project.Reference
	Segments          []*feature.Segment
	Placemarks        []*feature.Placemark
	Warnings          *Warnings
}

// Features returns segments then placemarks, each in dataset order.
func (r *Result) Features() []feature.Feature {
	out := make([]feature.Feature, 0, len(r.Segments)+len(r.Placemarks))
	for _, s := range r.Segments {
		out = append(out, s)
	}
	for _, p := range r.Placemarks {
		out = append(out, p)
	}
	return out
}

// Feature returns the n-th feature of kind.
func (r *Result) Feature(kind feature.Kind, n int) (feature.Feature, bool) {
	switch kind {
	case feature.KindSegment:
		if n >= 0 && n < len(r.Segments) {
			return r.Segments[n], true
		}
	case feature.KindPlacemark:
		if n >= 0 && n < len(r.Placemarks) {
			return r.Placemarks[n], true
		}
	}
	return nil, false
}

// ProjectCount is the number of project references across all features.
func (r *Result) ProjectCount() int {
	n := 0
	for _, refs := range r.ProjectsByFeature {
		n += len(refs)
	}
	return n
}

// Load validates ds and builds a Result. The first unknown property id or
// malformed record fails the whole load.
func (l *Loader) Load(ds *dataset.Dataset) (*Result, error) {
	if err := dataset.Validate(ds); err != nil {
		return nil, err
	}

	warnings := newWarnings()
	byFeature := make(map[string][]*project.Reference, len(ds.Features))
	for i, f := range ds.Features {
		if len(f.Projects) == 0 {
			warnings.Add(WarningNoProjects, f.ID)
		}
		refs := make([]*project.Reference, 0, len(f.Projects))
		for j, p := range f.Projects {
			ref, err := l.resolve(p, fmt.Sprintf("features[%d].projects[%d]", i, j))
			if err != nil {
				return nil, fmt.Errorf("feature %q project %d: %w", f.ID, j, err)
			}
			refs = append(refs, ref)
		}
		byFeature[f.ID] = refs
	}

	referenced := map[string]bool{}
	channelsFor := func(record string, ids []string) []*project.Channel {
		seen := make(map[string]bool, len(ids))
		lists := make([][]*project.Reference, 0, len(ids))
		for _, id := range ids {
			if seen[id] {
				warnings.Add(WarningRepeatedFeatureID, record)
			}
			seen[id] = true
			referenced[id] = true
			lists = append(lists, byFeature[id])
		}
		channels := project.GroupByColor(lists...)
		if len(channels) == 0 {
			warnings.Add(WarningNoChannels, record)
		}
		return channels
	}

	res := &Result{
		Indexes:           l.indexes,
		ProjectsByFeature: byFeature,
		Segments:          make([]*feature.Segment, 0, len(ds.Segments)),
		Placemarks:        make([]*feature.Placemark, 0, len(ds.Placemarks)),
		Warnings:          warnings,
	}
	for i, s := range ds.Segments {
		state := feature.NewChannelState(channelsFor(fmt.Sprintf("segments[%d]", i), s.IDs))
		res.Segments = append(res.Segments, feature.NewSegment(i, s.IDs, state, s.Line))
	}
	for i, p := range ds.Placemarks {
		state := feature.NewChannelState(channelsFor(fmt.Sprintf("placemarks[%d]", i), p.IDs))
		pos := feature.LatLng{Lat: p.Lat, Lng: p.Lng}
		res.Placemarks = append(res.Placemarks, feature.NewPlacemark(i, p.IDs, state, pos))
	}
	for _, f := range ds.Features {
		if !referenced[f.ID] {
			warnings.Add(WarningUnreferencedFeature, f.ID)
		}
	}

	l.logger.Infow("dataset loaded",
		"features", len(ds.Features),
		"projects", res.ProjectCount(),
		"segments", len(res.Segments),
		"placemarks", len(res.Placemarks))
	warnings.LogAll(l.logger)
	return res, nil
}

// resolve maps one raw project onto property masks and a colour. The mode
// is the first title segment; a missing timeline matches every timeline.
func (l *Loader) resolve(p dataset.Project, record string) (*project.Reference, error) {
	masks := l.indexes.NewMaskSet()

	mode := p.Mode()
	pos, err := l.indexes.Mode.Lookup(mode)
	if err != nil {
		return nil, err
	}
	masks.Mode.SetEnabled(pos, true)

	pos, err = l.indexes.Status.Lookup(p.Status)
	if err != nil {
		return nil, err
	}
	masks.Status.SetEnabled(pos, true)

	if p.Timeline == "" {
		masks.Timeline.SetAllEnabled(true)
	} else {
		pos, err = l.indexes.Timeline.Lookup(p.Timeline)
		if err != nil {
			return nil, err
		}
		masks.Timeline.SetEnabled(pos, true)
	}

	color := p.Color
	if color == "" {
		color = l.colors[mode]
	}
	if color == "" {
		return nil, &dataset.MalformedError{
			Record: record,
			Field:  "color",
			Reason: fmt.Sprintf("no colour given and no default for mode %q", mode),
		}
	}
	return project.NewReference(masks, p.Title, color, p.HeadingID), nil
}
