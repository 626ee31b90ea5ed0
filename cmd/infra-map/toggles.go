package main

import (
	"fmt"
	"strings"

	"github.com/theoremus-urban-solutions/infrastructured-map/filter"
	"github.com/theoremus-urban-solutions/infrastructured-map/viewer"
)

// toggle is one -enable/-disable entry. An id of "*" addresses the whole
// dimension.
type toggle struct {
	dim     filter.Dimension
	id      string
	enabled bool
}

func (t toggle) all() bool { return t.id == "*" }

// parseToggles reads "dim=id[,dim=id...]".
func parseToggles(list string, enabled bool) ([]toggle, error) {
	var out []toggle
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, id, ok := strings.Cut(item, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("invalid toggle %q: want dimension=id", item)
		}
		dim, err := filter.ParseDimension(strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			return nil, err
		}
		out = append(out, toggle{dim: dim, id: strings.TrimSpace(id), enabled: enabled})
	}
	return out, nil
}

// apply runs one toggle against v and returns the number of rendered features.
func (t toggle) apply(v *viewer.Viewer) (int, error) {
	if t.all() {
		return v.SetAll(t.dim, t.enabled), nil
	}
	return v.Toggle(t.dim, t.id, t.enabled)
}
