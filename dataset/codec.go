package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// jsonpPattern matches "callback({...});" with an optional trailing semicolon.
var jsonpPattern = regexp.MustCompile(`(?s)^[A-Za-z_$][\w$.]*\s*\((.*)\)\s*;?\s*$`)

// Decode parses a dataset from plain JSON, JSONP-wrapped JSON or YAML. It
// does not validate the result.
func Decode(data []byte) (*Dataset, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedDataset)
	}

	var ds Dataset
	switch {
	case trimmed[0] == '{':
		if err := decodeJSON(trimmed, &ds); err != nil {
			return nil, err
		}
	case jsonpPattern.Match(trimmed):
		inner := jsonpPattern.FindSubmatch(trimmed)[1]
		if err := decodeJSON(bytes.TrimSpace(inner), &ds); err != nil {
			return nil, fmt.Errorf("jsonp payload: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("%w: yaml: %v", ErrMalformedDataset, err)
		}
	}
	return &ds, nil
}

func decodeJSON(data []byte, ds *Dataset) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(ds); err != nil {
		return fmt.Errorf("%w: json: %v", ErrMalformedDataset, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: json: trailing data after dataset", ErrMalformedDataset)
	}
	return nil
}

// Encode writes ds as JSON. A non-empty jsonpTemplate must contain exactly
// one %s, which is replaced by the JSON document.
func Encode(ds *Dataset, jsonpTemplate string) ([]byte, error) {
	out, err := json.Marshal(ds)
	if err != nil {
		return nil, err
	}
	if jsonpTemplate == "" {
		return out, nil
	}
	if strings.Count(jsonpTemplate, "%s") != 1 {
		return nil, errors.New("jsonp template must contain exactly one %s")
	}
	return []byte(strings.Replace(jsonpTemplate, "%s", string(out), 1)), nil
}
