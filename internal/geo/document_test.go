package geo_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/woozymasta/geoaxis/internal/geo"
	"gopkg.in/yaml.v3"
)

func TestDecodeDocument(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Coordinates", ` [[51, 7], [52, 8]] `, `[[7,51],[8,52]]`},
		{"Geometry", `{"type":"Point","coordinates":[51,7]}`, `{"coordinates":[7,51],"type":"Point"}`},
		{"Feature", `{"type":"Feature","properties":{"k":"v"},"geometry":{"type":"Point","coordinates":[51,7]}}`,
			`{"properties":{"k":"v"},"geometry":{"coordinates":[7,51],"type":"Point"},"type":"Feature"}`},
		{"FeatureCollection", `{"type":"FeatureCollection","features":[]}`, `{"type":"FeatureCollection","features":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := geo.DecodeDocument([]byte(tt.in))
			if err != nil {
				t.Fatalf("DecodeDocument failed: %v", err)
			}

			out, err := json.Marshal(doc.Swapped())
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("Swapped() = %s, want %s", out, tt.want)
			}
		})
	}
}

func TestDecodeDocumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{"Empty", "  ", geo.ErrEmptyDocument},
		{"Bad coordinates", `[[1, 2], [3]]`, geo.ErrShortPosition},
		{"MultiPoint empty position", `{"type":"MultiPoint","coordinates":[[],[1,2]]}`, geo.ErrShortPosition},
		{"Nested bad leaf", `{"type":"Feature","geometry":{"type":"LineString","coordinates":[[1,2],["x",2]]}}`, geo.ErrNotNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := geo.DecodeDocument([]byte(tt.in)); !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeDocument error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	for _, in := range []string{`{"coordinates":[1,2]}`, `{"type":"Sphere"}`, `not json`} {
		if _, err := geo.DecodeDocument([]byte(in)); err == nil {
			t.Errorf("DecodeDocument(%s) expected error", in)
		}
	}
}

func TestDocumentYAML(t *testing.T) {
	doc, err := geo.DecodeDocument([]byte(`{"type":"Point","coordinates":[51,7,120]}`))
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}

	out, err := yaml.Marshal(doc.Swapped())
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}

	var g geo.Geometry
	if err := yaml.Unmarshal(out, &g); err != nil {
		t.Fatalf("yaml.Unmarshal(%s) failed: %v", out, err)
	}
	if diff := cmp.Diff(geo.Position{7, 51, 120}, g.Coordinates); diff != "" {
		t.Errorf("coordinates mismatch (-want +got):\n%s", diff)
	}
}
