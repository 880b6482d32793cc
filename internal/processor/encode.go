package processor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/woozymasta/geoaxis/internal/config"
	"github.com/woozymasta/geoaxis/internal/geo"

	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"
	"gopkg.in/yaml.v3"
)

const jsonMediaType = "application/json"

var minifier = newMinifier()

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(jsonMediaType, mjson.Minify)
	return m
}

// Encode marshals a document as indented JSON, minified JSON or YAML.
func Encode(doc *geo.Document, format string, compact bool) ([]byte, error) {
	switch format {
	case config.FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil

	case config.FormatJSON, "":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		if !compact {
			return append(data, '\n'), nil
		}

		out, err := minifier.Bytes(jsonMediaType, data)
		if err != nil {
			return nil, fmt.Errorf("minify json: %w", err)
		}
		return out, nil
	}

	return nil, fmt.Errorf("unknown output format %q", format)
}
