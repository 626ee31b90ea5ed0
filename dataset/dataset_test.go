package dataset_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/infrastructured-map/config"
	"github.com/theoremus-urban-solutions/infrastructured-map/dataset"
)

const sampleJSON = `{
  "features": [
    {"id": "line-5", "projects": [
      {"title": ["Transit", "Line 5"], "status": "completed", "headingId": "line-5"},
      {"title": ["Freight", "Spur"], "status": "planned", "timeline": "soon", "color": "red"}
    ]},
    {"id": "trail", "projects": [{"title": ["Pedestrian / Bike", "Trail"], "status": "eval"}]}
  ],
  "segments": [{"ids": ["line-5", "trail"], "line": "_p~iF~ps|U_ulLnnqC"}],
  "placemarks": [{"ids": ["trail"], "lat": 47.6, "lng": -122.3}]
}`

const sampleYAML = `
features:
  - id: line-5
    projects:
      - title: [Transit, Line 5]
        status: completed
segments:
  - ids: [line-5]
    line: abc
placemarks: []
`

func sample() *dataset.Dataset {
	return &dataset.Dataset{
		Features: []dataset.Feature{
			{ID: "a", Projects: []dataset.Project{{Title: []string{"Transit", "A"}, Status: "planned"}}},
			{ID: "b", Projects: []dataset.Project{{Title: []string{"Freight", "B"}, Status: "eval", Timeline: "now"}}},
		},
		Segments:   []dataset.Segment{{IDs: []string{"a", "b"}, Line: "xyz"}},
		Placemarks: []dataset.Placemark{{IDs: []string{"b"}, Lat: 47.6, Lng: -122.3}},
	}
}

func TestDecode_Formats(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"json", sampleJSON},
		{"jsonp", "infraMap.load(" + sampleJSON + ");\n"},
		{"jsonp without semicolon", "load(" + sampleJSON + ")"},
		{"json with bom", "\xef\xbb\xbf" + sampleJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := dataset.Decode([]byte(tt.in))
			require.NoError(t, err)
			require.Len(t, ds.Features, 2)
			assert.Equal(t, []string{"Transit", "Line 5"}, ds.Features[0].Projects[0].Title)
			assert.Equal(t, "line-5", ds.Features[0].Projects[0].HeadingID)
			assert.Equal(t, "soon", ds.Features[0].Projects[1].Timeline)
			assert.Equal(t, "red", ds.Features[0].Projects[1].Color)
			assert.Equal(t, []string{"line-5", "trail"}, ds.Segments[0].IDs)
			assert.InDelta(t, -122.3, ds.Placemarks[0].Lng, 1e-9)
			assert.NoError(t, dataset.Validate(ds))
		})
	}

	t.Run("yaml", func(t *testing.T) {
		ds, err := dataset.Decode([]byte(sampleYAML))
		require.NoError(t, err)
		assert.Equal(t, "Transit", ds.Features[0].Projects[0].Mode())
		assert.Equal(t, "abc", ds.Segments[0].Line)
		assert.Empty(t, ds.Placemarks)
	})
}

func TestDecode_Errors(t *testing.T) {
	for name, in := range map[string]string{
		"empty":          "  \n",
		"broken json":    `{"features": [`,
		"trailing json":  `{"features": []} {"features": []}`,
		"broken jsonp":   `cb({"features": );`,
		"not a document": "features: [\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := dataset.Decode([]byte(in))
			require.Error(t, err)
			assert.ErrorIs(t, err, dataset.ErrMalformedDataset)
		})
	}
}

func TestEncode(t *testing.T) {
	ds := sample()

	plain, err := dataset.Encode(ds, "")
	require.NoError(t, err)
	back, err := dataset.Decode(plain)
	require.NoError(t, err)
	assert.Equal(t, ds, back)

	wrapped, err := dataset.Encode(ds, "window.infraMapData = %s;")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(wrapped, []byte("window.infraMapData = {")))
	assert.True(t, bytes.HasSuffix(wrapped, []byte("};")))

	_, err = dataset.Encode(ds, "no placeholder")
	assert.Error(t, err)
	_, err = dataset.Encode(ds, "%s %s")
	assert.Error(t, err)
}

func TestValidate_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(ds *dataset.Dataset)
		record string
		field  string
	}{
		{
			name:   "missing status",
			mutate: func(ds *dataset.Dataset) { ds.Features[1].Projects[0].Status = "" },
			record: "features[1].projects[0]",
			field:  "status",
		},
		{
			name:   "missing title",
			mutate: func(ds *dataset.Dataset) { ds.Features[0].Projects[0].Title = nil },
			record: "features[0].projects[0]",
			field:  "title",
		},
		{
			name:   "empty title segment",
			mutate: func(ds *dataset.Dataset) { ds.Features[0].Projects[0].Title = []string{""} },
			record: "features[0].projects[0]",
			field:  "title[0]",
		},
		{
			name:   "missing feature id",
			mutate: func(ds *dataset.Dataset) { ds.Features[0].ID = "" },
			record: "features[0]",
			field:  "id",
		},
		{
			name:   "duplicate feature id",
			mutate: func(ds *dataset.Dataset) { ds.Features[1].ID = "a" },
			record: "features[1]",
			field:  "id",
		},
		{
			name:   "segment without ids",
			mutate: func(ds *dataset.Dataset) { ds.Segments[0].IDs = []string{} },
			record: "segments[0]",
			field:  "ids",
		},
		{
			name:   "segment references unknown feature",
			mutate: func(ds *dataset.Dataset) { ds.Segments[0].IDs[1] = "zzz" },
			record: "segments[0]",
			field:  "ids[1]",
		},
		{
			name:   "placemark latitude out of range",
			mutate: func(ds *dataset.Dataset) { ds.Placemarks[0].Lat = 91 },
			record: "placemarks[0]",
			field:  "lat",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := sample()
			tt.mutate(ds)
			err := dataset.Validate(ds)
			require.Error(t, err)
			assert.ErrorIs(t, err, dataset.ErrMalformedDataset)

			var merr *dataset.MalformedError
			require.True(t, errors.As(err, &merr), "got %T", err)
			assert.Equal(t, tt.record, merr.Record)
			assert.Equal(t, tt.field, merr.Field)
		})
	}

	assert.Error(t, dataset.Validate(nil))
}

func TestAttachProjects(t *testing.T) {
	ds := sample()
	refs := map[string][]dataset.Project{
		"a":      {{Title: []string{"Other", "X"}, Status: "planned"}},
		"b":      {{Title: []string{"Freight", "Y"}, Status: "eval"}},
		"orphan": {{Title: []string{"Other", "Z"}, Status: "eval"}},
	}

	unused, err := dataset.AttachProjects(ds, refs)
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan"}, unused)
	assert.Equal(t, "X", ds.Features[0].Projects[0].Title[1])

	delete(refs, "b")
	_, err = dataset.AttachProjects(sample(), refs)
	var merr *dataset.MalformedError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "features[1]", merr.Record)
}

func TestFetcher_File(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(plain, []byte(sampleJSON), 0o644))

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err := zw.Write([]byte(sampleJSON))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	compressed := filepath.Join(dir, "data.json.gz")
	require.NoError(t, os.WriteFile(compressed, gz.Bytes(), 0o644))

	f := dataset.NewFetcher(config.StorageConfig{}, nil)
	ctx := context.Background()

	data, err := f.Fetch(ctx, plain)
	require.NoError(t, err)
	assert.Equal(t, sampleJSON, string(data))

	data, err = f.Fetch(ctx, compressed)
	require.NoError(t, err)
	assert.Equal(t, sampleJSON, string(data))

	data, err = f.Fetch(ctx, "")
	assert.NoError(t, err)
	assert.Nil(t, data)

	_, err = f.Fetch(ctx, filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, dataset.ErrNotFound)
}

func TestFetcher_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data.json":
			_, _ = w.Write([]byte(sampleJSON))
		case "/projects.md":
			_, _ = w.Write([]byte("# Transit\n"))
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := dataset.NewFetcher(config.StorageConfig{TimeoutMS: 5000}, nil)
	ctx := context.Background()

	docs, err := f.FetchAll(ctx, srv.URL+"/data.json", "", srv.URL+"/projects.md")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, sampleJSON, string(docs[0]))
	assert.Nil(t, docs[1])
	assert.Equal(t, "# Transit\n", string(docs[2]))

	_, err = f.Fetch(ctx, srv.URL+"/nope")
	assert.ErrorIs(t, err, dataset.ErrNotFound)

	_, err = f.Fetch(ctx, srv.URL+"/broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")

	_, err = f.FetchAll(ctx, srv.URL+"/data.json", srv.URL+"/broken")
	assert.Error(t, err)
}

func TestFetcher_ObjectStorageConfig(t *testing.T) {
	ctx := context.Background()

	_, err := dataset.Fetch(ctx, "s3://bucket/key.json", config.StorageConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.endpoint")

	_, err = dataset.Fetch(ctx, "s3://bucket-only", config.StorageConfig{Endpoint: "localhost:9000"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://bucket/key")
}
