package formatter

import (
	"encoding/json"
	"fmt"
)

type responseBuilder struct{}

// NewResponseBuilder creates a new response builder for formatting CLI responses
func NewResponseBuilder() *responseBuilder {
	return &responseBuilder{}
}

// Build serializes res in format: json, yaml, or html for an inspection.
func (rb *responseBuilder) Build(format string, res any) ([]byte, error) {
	switch format {
	case "json":
		return rb.BuildJSON(res)
	case "yaml":
		return rb.BuildYAML(res)
	case "html":
		ins, ok := res.(*InspectResponse)
		if !ok {
			return nil, fmt.Errorf("html output is only available for inspections")
		}
		return rb.BuildHTML(ins), nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// BuildJSON serializes a response to indented JSON
func (rb *responseBuilder) BuildJSON(res any) ([]byte, error) {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
