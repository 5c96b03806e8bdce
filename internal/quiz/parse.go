package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the wire encoding of a quiz document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath guesses the document format from a file name. Defaults
// to JSON.
func FormatForPath(path string) Format {
	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes raw document bytes and validates them. The label names
// the source (file or row id) and prefixes every schema error message.
// Content is untrusted, so Parse re-validates on every call.
func Parse(label string, data []byte, format Format) (*Document, error) {
	raw := map[string]any{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", label, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", label, err)
		}
	}
	return Validate(label, raw)
}
