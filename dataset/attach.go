package dataset

import (
	"fmt"
	"slices"
)

// AttachProjects replaces the projects of every feature in ds with the
// references extracted for its id. Every feature must have references.
// It returns the ids in refs that no feature uses, sorted.
func AttachProjects(ds *Dataset, refs map[string][]Project) ([]string, error) {
	used := make(map[string]bool, len(ds.Features))
	for i := range ds.Features {
		f := &ds.Features[i]
		projects, ok := refs[f.ID]
		if !ok {
			return nil, malformed(fmt.Sprintf("features[%d]", i), "id",
				fmt.Sprintf("unknown project reference %q", f.ID))
		}
		f.Projects = slices.Clone(projects)
		used[f.ID] = true
	}

	var unused []string
	for id := range refs {
		if !used[id] {
			unused = append(unused, id)
		}
	}
	slices.Sort(unused)
	return unused, nil
}
