// Package viewer holds the map state: the current filter, the loaded
// features, and the recompute pass that decides which features to redraw.
package viewer

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/theoremus-urban-solutions/infrastructured-map/dataset"
	"github.com/theoremus-urban-solutions/infrastructured-map/feature"
	"github.com/theoremus-urban-solutions/infrastructured-map/filter"
	"github.com/theoremus-urban-solutions/infrastructured-map/internal"
	"github.com/theoremus-urban-solutions/infrastructured-map/loader"
	"github.com/theoremus-urban-solutions/infrastructured-map/project"
)

// Option configures a Viewer.
type Option func(*Viewer)

// WithLocale sets the locale used to order inspection listings.
func WithLocale(tag language.Tag) Option {
	return func(v *Viewer) { v.locale = tag }
}

// WithTitleSeparator sets how title segments are joined for ordering.
func WithTitleSeparator(sep string) Option {
	return func(v *Viewer) { v.separator = sep }
}

// Viewer is not safe for concurrent use.
type Viewer struct {
	loader   *loader.Loader
	renderer feature.Renderer
	logger   *zap.SugaredLogger

	locale    language.Tag
	separator string
	collator  *collate.Collator

	filter *filter.PropertyMaskSet
	result *loader.Result
}

// New creates a viewer whose filter selects everything.
func New(l *loader.Loader, r feature.Renderer, logger *zap.SugaredLogger, opts ...Option) *Viewer {
	v := &Viewer{
		loader:    l,
		renderer:  r,
		logger:    internal.OrNop(logger),
		locale:    language.English,
		separator: " - ",
		filter:    l.Indexes().NewMaskSet(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.collator = collate.New(v.locale)
	v.filter.SelectAll()
	return v
}

// Load replaces the current dataset and renders every feature with at
// least one channel. On error the previous dataset stays loaded.
func (v *Viewer) Load(ds *dataset.Dataset) (int, error) {
	res, err := v.loader.Load(ds)
	if err != nil {
		return 0, err
	}
	v.result = res
	return v.recompute(), nil
}

// Toggle enables or disables one property and redraws the features whose
// active channels changed. It returns the number of features rendered.
func (v *Viewer) Toggle(d filter.Dimension, id string, enabled bool) (int, error) {
	idx := v.loader.Indexes().Index(d)
	if idx == nil {
		return 0, fmt.Errorf("unknown dimension %s", d)
	}
	pos, err := idx.Lookup(id)
	if err != nil {
		return 0, err
	}
	v.filter.Mask(d).SetEnabled(pos, enabled)
	return v.recompute(), nil
}

// SetAll selects every property of d, or none. It panics if d is not one of
// filter.Dimensions.
func (v *Viewer) SetAll(d filter.Dimension, enabled bool) int {
	m := v.filter.Mask(d)
	if m == nil {
		panic(fmt.Sprintf("viewer: unknown dimension %s", d))
	}
	m.SetAllEnabled(enabled)
	return v.recompute()
}

// recompute runs every feature against a snapshot of the filter, in
// storage order, and renders those that changed.
func (v *Viewer) recompute() int {
	if v.result == nil {
		return 0
	}
	snapshot := v.filter.Clone()
	rendered := 0
	for _, f := range v.result.Features() {
		if f.State().Recompute(snapshot) {
			v.renderer.Render(f)
			rendered++
		}
	}
	v.logger.Debugw("recompute", "filter", snapshot.String(), "rendered", rendered)
	return rendered
}

// Filter returns a copy of the current filter.
func (v *Viewer) Filter() *filter.PropertyMaskSet { return v.filter.Clone() }

// Enabled lists the enabled property ids of d in index order.
func (v *Viewer) Enabled(d filter.Dimension) []string {
	idx := v.loader.Indexes().Index(d)
	ids := idx.IDs()
	var out []string
	for _, pos := range v.filter.Mask(d).Positions() {
		out = append(out, ids[pos])
	}
	return out
}

// Result is the loaded dataset, nil before the first successful Load.
func (v *Viewer) Result() *loader.Result { return v.result }

// Features returns every loaded feature, segments first.
func (v *Viewer) Features() []feature.Feature {
	if v.result == nil {
		return nil
	}
	return v.result.Features()
}

// Feature returns the n-th loaded feature of kind.
func (v *Viewer) Feature(kind feature.Kind, n int) (feature.Feature, bool) {
	if v.result == nil {
		return nil, false
	}
	return v.result.Feature(kind, n)
}

// Inspect lists the projects of f that pass the filter, ordered by joined
// title under the viewer's locale.
func (v *Viewer) Inspect(f feature.Feature) []*project.Reference {
	refs := f.State().ActiveProjects()
	slices.SortStableFunc(refs, func(a, b *project.Reference) int {
		return v.collator.CompareString(a.Title(v.separator), b.Title(v.separator))
	})
	return refs
}

// Separator is the title separator used by Inspect.
func (v *Viewer) Separator() string { return v.separator }
