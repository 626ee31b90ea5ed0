package formatter

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// BuildYAML serializes a response to YAML
func (rb *responseBuilder) BuildYAML(res any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
