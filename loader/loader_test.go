package loader_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/infrastructured-map/config"
	"github.com/theoremus-urban-solutions/infrastructured-map/dataset"
	"github.com/theoremus-urban-solutions/infrastructured-map/feature"
	"github.com/theoremus-urban-solutions/infrastructured-map/filter"
	"github.com/theoremus-urban-solutions/infrastructured-map/loader"
)

func newLoader(t *testing.T) *loader.Loader {
	t.Helper()
	l, err := loader.New(loader.OptionsFromConfig(config.Default()), nil)
	require.NoError(t, err)
	return l
}

func only(idx filter.Indexes, d filter.Dimension, ids ...string) *filter.PropertyMaskSet {
	f := idx.NewMaskSet()
	f.SelectAll()
	m := f.Mask(d)
	m.SetAllEnabled(false)
	for _, id := range ids {
		pos, ok := idx.Index(d).IndexOf(id)
		if !ok {
			panic(id)
		}
		m.SetEnabled(pos, true)
	}
	return f
}

func TestLoad_TimelineWildcardScenario(t *testing.T) {
	l := newLoader(t)
	ds := &dataset.Dataset{
		Features: []dataset.Feature{{ID: "a", Projects: []dataset.Project{
			{Title: []string{"Transit", "Line 5"}, Status: "completed"},
		}}},
		Segments: []dataset.Segment{{IDs: []string{"a"}}},
	}

	res, err := l.Load(ds)
	require.NoError(t, err)
	ref := res.ProjectsByFeature["a"][0]
	idx := res.Indexes

	assert.Equal(t, []int{1}, ref.Masks().Mode.Positions())
	assert.Equal(t, []int{0}, ref.Masks().Status.Positions())
	assert.Equal(t, []int{0, 1, 2, 3}, ref.Masks().Timeline.Positions())
	assert.Equal(t, "rgb(15, 157, 88)", ref.Color())

	f := idx.NewMaskSet()
	f.Mode.SetEnabled(1, true)
	f.Status.SetEnabled(0, true)
	f.Timeline.SetEnabled(1, true)
	assert.True(t, ref.IsActive(f), "Transit+completed+now matches through the wildcard timeline")

	assert.False(t, ref.IsActive(only(idx, filter.Mode, "Freight")))

	for _, tl := range []string{"completed", "now", "soon", "someday"} {
		assert.True(t, ref.IsActive(only(idx, filter.Timeline, tl)), tl)
	}
}

func TestLoad_SameColorSharesChannel(t *testing.T) {
	l := newLoader(t)
	ds := &dataset.Dataset{
		Features: []dataset.Feature{
			{ID: "a", Projects: []dataset.Project{
				{Title: []string{"Transit", "A"}, Status: "planned", Color: "red"},
			}},
			{ID: "b", Projects: []dataset.Project{
				{Title: []string{"Freight", "B"}, Status: "eval", Timeline: "someday", Color: "red"},
				{Title: []string{"Other", "C"}, Status: "eval"},
			}},
		},
		Segments: []dataset.Segment{{IDs: []string{"a", "b"}, Line: "enc"}},
	}

	res, err := l.Load(ds)
	require.NoError(t, err)
	require.Len(t, res.Segments, 1)

	channels := res.Segments[0].State().Channels()
	require.Len(t, channels, 2)
	assert.Equal(t, "red", channels[0].Color())
	assert.Equal(t, 2, channels[0].Group().Len())
	assert.Equal(t, "rgb(230, 81, 0)", channels[1].Color())

	assert.True(t, channels[0].Group().IsActive(only(res.Indexes, filter.Mode, "Freight")))
	assert.Equal(t, "enc", res.Segments[0].Line)
	assert.Empty(t, res.Segments[0].State().Flags(), "load does not recompute")
}

func TestLoad_FeaturesOrderAndLookup(t *testing.T) {
	l := newLoader(t)
	ds := &dataset.Dataset{
		Features: []dataset.Feature{{ID: "a", Projects: []dataset.Project{
			{Title: []string{"Transit", "A"}, Status: "planned"},
		}}},
		Segments: []dataset.Segment{{IDs: []string{"a"}}, {IDs: []string{"a"}}},
		Placemarks: []dataset.Placemark{
			{IDs: []string{"a"}, Lat: 47.6, Lng: -122.3},
		},
	}

	res, err := l.Load(ds)
	require.NoError(t, err)

	var ids []string
	for _, f := range res.Features() {
		ids = append(ids, f.ID())
	}
	assert.Equal(t, []string{"segment:0", "segment:1", "placemark:0"}, ids)

	pm, ok := res.Feature(feature.KindPlacemark, 0)
	require.True(t, ok)
	assert.InDelta(t, 47.6, pm.(*feature.Placemark).Position.Lat, 1e-9)

	_, ok = res.Feature(feature.KindPlacemark, 1)
	assert.False(t, ok)
	_, ok = res.Feature(feature.KindSegment, -1)
	assert.False(t, ok)
	assert.Equal(t, 1, res.ProjectCount())
}

func TestLoad_UnknownPropertyFailsLoad(t *testing.T) {
	tests := []struct {
		name    string
		project dataset.Project
		dim     filter.Dimension
		id      string
	}{
		{"mode", dataset.Project{Title: []string{"Ferry"}, Status: "planned"}, filter.Mode, "Ferry"},
		{"status", dataset.Project{Title: []string{"Transit"}, Status: "funded"}, filter.Status, "funded"},
		{"timeline", dataset.Project{Title: []string{"Transit"}, Status: "planned", Timeline: "later"}, filter.Timeline, "later"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := &dataset.Dataset{
				Features: []dataset.Feature{
					{ID: "ok", Projects: []dataset.Project{{Title: []string{"Transit"}, Status: "planned"}}},
					{ID: "bad", Projects: []dataset.Project{tt.project}},
				},
			}
			res, err := newLoader(t).Load(ds)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, filter.ErrUnknownProperty))

			var uerr *filter.UnknownPropertyError
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, tt.dim, uerr.Dimension)
			assert.Equal(t, tt.id, uerr.ID)
			assert.Contains(t, err.Error(), `feature "bad" project 0`)
		})
	}
}

func TestLoad_Malformed(t *testing.T) {
	l := newLoader(t)

	_, err := l.Load(&dataset.Dataset{
		Features: []dataset.Feature{{ID: "a", Projects: []dataset.Project{{Status: "planned"}}}},
	})
	assert.ErrorIs(t, err, dataset.ErrMalformedDataset)

	noDefault, err := loader.New(loader.Options{
		Modes:     []string{"Transit", "Ferry"},
		Statuses:  []string{"planned"},
		Timelines: []string{"now"},
		DefaultColors: map[string]string{
			"Transit": "green",
		},
	}, nil)
	require.NoError(t, err)

	_, err = noDefault.Load(&dataset.Dataset{
		Features: []dataset.Feature{{ID: "a", Projects: []dataset.Project{
			{Title: []string{"Transit"}, Status: "planned"},
			{Title: []string{"Ferry"}, Status: "planned"},
		}}},
	})
	var merr *dataset.MalformedError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "features[0].projects[1]", merr.Record)
	assert.Equal(t, "color", merr.Field)

	res, err := noDefault.Load(&dataset.Dataset{
		Features: []dataset.Feature{{ID: "a", Projects: []dataset.Project{
			{Title: []string{"Ferry"}, Status: "planned", Color: "blue"},
		}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "blue", res.ProjectsByFeature["a"][0].Color())
}

func TestLoad_Warnings(t *testing.T) {
	l := newLoader(t)
	ds := &dataset.Dataset{
		Features: []dataset.Feature{
			{ID: "a", Projects: []dataset.Project{{Title: []string{"Transit"}, Status: "planned"}}},
			{ID: "empty"},
			{ID: "orphan", Projects: []dataset.Project{{Title: []string{"Other"}, Status: "eval"}}},
		},
		Segments: []dataset.Segment{
			{IDs: []string{"a", "a"}},
			{IDs: []string{"empty"}},
		},
	}

	res, err := l.Load(ds)
	require.NoError(t, err)
	w := res.Warnings
	assert.Equal(t, []string{
		loader.WarningNoChannels,
		loader.WarningNoProjects,
		loader.WarningRepeatedFeatureID,
		loader.WarningUnreferencedFeature,
	}, w.Kinds())
	assert.Equal(t, []string{"segments[1]"}, w.Examples(loader.WarningNoChannels))
	assert.Equal(t, []string{"orphan"}, w.Examples(loader.WarningUnreferencedFeature))
	assert.Equal(t, 1, w.Count(loader.WarningRepeatedFeatureID))
	assert.Zero(t, w.Count("nothing"))

	channels := res.Segments[0].State().Channels()
	require.Len(t, channels, 1)
	assert.Equal(t, 2, channels[0].Group().Len(), "a repeated id groups its projects twice")
}

func TestWarnings_KeepsThreeExamples(t *testing.T) {
	l := newLoader(t)
	ds := &dataset.Dataset{}
	for _, id := range []string{"f1", "f2", "f3", "f4", "f5"} {
		ds.Features = append(ds.Features, dataset.Feature{ID: id})
	}
	res, err := l.Load(ds)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Warnings.Count(loader.WarningNoProjects))
	assert.Equal(t, []string{"f1", "f2", "f3"}, res.Warnings.Examples(loader.WarningNoProjects))
}

func TestNew_RejectsBadDimensions(t *testing.T) {
	_, err := loader.New(loader.Options{
		Modes:     []string{"Transit", "Transit"},
		Statuses:  []string{"planned"},
		Timelines: []string{"now"},
	}, nil)
	assert.Error(t, err)
}

func TestLoader_SharedIndexes(t *testing.T) {
	l := newLoader(t)
	r1, err := l.Load(&dataset.Dataset{})
	require.NoError(t, err)
	r2, err := l.Load(&dataset.Dataset{})
	require.NoError(t, err)
	assert.Same(t, r1.Indexes.Mode, r2.Indexes.Mode)
	assert.Same(t, l.Indexes().Status, r1.Indexes.Status)
}
