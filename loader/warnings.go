package loader

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Warning kinds
const (
	WarningNoProjects          = "no_projects"
	WarningUnreferencedFeature = "unreferenced_feature"
	WarningNoChannels          = "no_channels"
	WarningRepeatedFeatureID   = "repeated_feature_id"
)

const maxExamples = 3

// warningInfo holds aggregated information about a specific warning kind
type warningInfo struct {
	count    int
	examples []string
}

// Warnings collects non-fatal dataset oddities during a load and outputs
// consolidated summaries.
type Warnings struct {
	warnings map[string]*warningInfo
}

func newWarnings() *Warnings {
	return &Warnings{warnings: make(map[string]*warningInfo)}
}

// Add records a warning occurrence with an example record
func (w *Warnings) Add(kind, example string) {
	info := w.warnings[kind]
	if info == nil {
		info = &warningInfo{examples: make([]string, 0, maxExamples)}
		w.warnings[kind] = info
	}
	info.count++
	if len(info.examples) < maxExamples {
		info.examples = append(info.examples, example)
	}
}

// Count returns how often kind was recorded.
func (w *Warnings) Count(kind string) int {
	if info := w.warnings[kind]; info != nil {
		return info.count
	}
	return 0
}

// Examples returns up to three example records for kind.
func (w *Warnings) Examples(kind string) []string {
	if info := w.warnings[kind]; info != nil {
		return slices.Clone(info.examples)
	}
	return nil
}

// Kinds lists the recorded kinds, sorted.
func (w *Warnings) Kinds() []string {
	kinds := make([]string, 0, len(w.warnings))
	for k := range w.warnings {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

func (w *Warnings) Len() int { return len(w.warnings) }

// LogAll outputs one line per recorded kind.
func (w *Warnings) LogAll(logger *zap.SugaredLogger) {
	for _, kind := range w.Kinds() {
		logger.Warnw(w.message(kind), "kind", kind, "count", w.warnings[kind].count)
	}
}

func (w *Warnings) message(kind string) string {
	var description, action string

	switch kind {
	case WarningNoProjects:
		description = "features with no projects"
		action = "Segments and placemarks referencing them gain no channels"
	case WarningUnreferencedFeature:
		description = "features not referenced by any segment or placemark"
		action = "Their projects are indexed but never rendered"
	case WarningNoChannels:
		description = "segments or placemarks with no channels"
		action = "They are never rendered"
	case WarningRepeatedFeatureID:
		description = "segments or placemarks listing the same feature id twice"
		action = "Projects of the repeated feature are grouped twice"
	default:
		description = "unknown issue"
		action = "Loading anyway"
	}

	info := w.warnings[kind]
	return fmt.Sprintf("Dataset has %s (%d occurrences). %s. Examples: %s",
		description, info.count, action, strings.Join(info.examples, ", "))
}
