package geo

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// GeoJSON geometry types.
const (
	TypePoint              = "Point"
	TypeMultiPoint         = "MultiPoint"
	TypeLineString         = "LineString"
	TypeMultiLineString    = "MultiLineString"
	TypePolygon            = "Polygon"
	TypeMultiPolygon       = "MultiPolygon"
	TypeGeometryCollection = "GeometryCollection"
	TypeFeature            = "Feature"
	TypeFeatureCollection  = "FeatureCollection"
)

// coordinate depth required by each geometry type
var geometryDepth = map[string]int{
	TypePoint:           1,
	TypeMultiPoint:      2,
	TypeLineString:      2,
	TypeMultiLineString: 3,
	TypePolygon:         3,
	TypeMultiPolygon:    4,
}

// FeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type FeatureCollection struct {
	Type     string    `json:"type" yaml:"type"`
	BBox     []float64 `json:"bbox,omitempty" yaml:"bbox,omitempty"`
	Features []Feature `json:"features" yaml:"features"`
}

// Feature represents a single geographic feature with geometry and properties.
type Feature struct {
	ID         any            `json:"id,omitempty" yaml:"id,omitempty"`
	Properties map[string]any `json:"properties" yaml:"properties"`
	Geometry   *Geometry      `json:"geometry" yaml:"geometry"`
	Type       string         `json:"type" yaml:"type"`
	BBox       []float64      `json:"bbox,omitempty" yaml:"bbox,omitempty"`
}

// Geometry represents the geometry of a feature (Point, Polygon, etc.).
type Geometry struct {
	Coordinates Structure  `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	Type        string     `json:"type" yaml:"type"`
	Geometries  []Geometry `json:"geometries,omitempty" yaml:"geometries,omitempty"`
	BBox        []float64  `json:"bbox,omitempty" yaml:"bbox,omitempty"`
}

type rawGeometry struct {
	Coordinates any       `json:"coordinates" yaml:"coordinates"`
	Type        string    `json:"type" yaml:"type"`
	BBox        []float64 `json:"bbox" yaml:"bbox"`
}

// UnmarshalJSON decodes and validates a GeoJSON geometry object.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	var raw struct {
		rawGeometry
		Geometries []json.RawMessage `json:"geometries"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var children []Geometry
	if raw.Geometries != nil {
		children = make([]Geometry, len(raw.Geometries))
		for i, msg := range raw.Geometries {
			if err := json.Unmarshal(msg, &children[i]); err != nil {
				return fmt.Errorf("geometries[%d]: %w", i, err)
			}
		}
	}

	return g.fromRaw(raw.rawGeometry, children)
}

// UnmarshalYAML allows geometries to be written inline in YAML files.
func (g *Geometry) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		rawGeometry `yaml:",inline"`
		Geometries  []yaml.Node `yaml:"geometries"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	var children []Geometry
	if raw.Geometries != nil {
		children = make([]Geometry, len(raw.Geometries))
		for i := range raw.Geometries {
			if err := raw.Geometries[i].Decode(&children[i]); err != nil {
				return fmt.Errorf("geometries[%d]: %w", i, err)
			}
		}
	}

	return g.fromRaw(raw.rawGeometry, children)
}

func (g *Geometry) fromRaw(raw rawGeometry, children []Geometry) error {
	out := Geometry{
		Type:       raw.Type,
		Geometries: children,
		BBox:       raw.BBox,
	}

	if raw.Coordinates != nil {
		s, err := Parse(raw.Coordinates)
		if err != nil {
			return fmt.Errorf("%s: %w", raw.Type, err)
		}
		out.Coordinates = s
	}

	if err := out.Validate(); err != nil {
		return err
	}

	*g = out
	return nil
}

// MarshalJSON writes geometries for collections and coordinates for everything else.
func (g Geometry) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.encoded())
}

// MarshalYAML mirrors MarshalJSON.
func (g Geometry) MarshalYAML() (any, error) {
	return g.encoded(), nil
}

type collectionGeometry struct {
	Type       string     `json:"type" yaml:"type"`
	Geometries []Geometry `json:"geometries" yaml:"geometries"`
	BBox       []float64  `json:"bbox,omitempty" yaml:"bbox,omitempty"`
}

type simpleGeometry struct {
	Coordinates Structure `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	Type        string    `json:"type" yaml:"type"`
	BBox        []float64 `json:"bbox,omitempty" yaml:"bbox,omitempty"`
}

func (g Geometry) encoded() any {
	if g.Type == TypeGeometryCollection {
		children := g.Geometries
		if children == nil {
			children = []Geometry{}
		}
		return collectionGeometry{Type: g.Type, Geometries: children, BBox: g.BBox}
	}

	return simpleGeometry{Coordinates: g.Coordinates, Type: g.Type, BBox: g.BBox}
}

// Validate checks the geometry type and that the coordinate nesting matches it.
func (g Geometry) Validate() error {
	if g.Type == TypeGeometryCollection {
		for i, child := range g.Geometries {
			if err := child.Validate(); err != nil {
				return fmt.Errorf("geometries[%d]: %w", i, err)
			}
		}
		return nil
	}

	want, ok := geometryDepth[g.Type]
	if !ok {
		return fmt.Errorf("unsupported geometry type %q", g.Type)
	}
	if g.Coordinates == nil {
		return fmt.Errorf("%s: missing coordinates", g.Type)
	}
	if g.Type == TypePoint {
		if _, ok := g.Coordinates.(Position); !ok {
			return fmt.Errorf("%s: coordinates must be a single position", g.Type)
		}
		return nil
	}
	if isEmpty(g.Coordinates) {
		return nil
	}
	if got := Depth(g.Coordinates); got != want {
		return fmt.Errorf("%s: coordinates depth %d, want %d", g.Type, got, want)
	}

	return nil
}

// Swapped returns a copy of the geometry with every position's axes exchanged.
func (g Geometry) Swapped() Geometry {
	out := Geometry{
		Type: g.Type,
		BBox: swapBBox(g.BBox),
	}
	if g.Coordinates != nil {
		out.Coordinates = Swap(g.Coordinates)
	}
	if g.Geometries != nil {
		out.Geometries = make([]Geometry, len(g.Geometries))
		for i, child := range g.Geometries {
			out.Geometries[i] = child.Swapped()
		}
	}

	return out
}

// Swapped returns a copy of the feature with its geometry converted.
// Properties are shared with the receiver.
func (f Feature) Swapped() Feature {
	out := f
	out.BBox = swapBBox(f.BBox)
	if f.Geometry != nil {
		g := f.Geometry.Swapped()
		out.Geometry = &g
	}

	return out
}

// Swapped returns a copy of the collection with every feature converted.
func (fc FeatureCollection) Swapped() FeatureCollection {
	out := FeatureCollection{
		Type:     fc.Type,
		BBox:     swapBBox(fc.BBox),
		Features: make([]Feature, len(fc.Features)),
	}
	for i, f := range fc.Features {
		out.Features[i] = f.Swapped()
	}

	return out
}

// swapBBox exchanges the horizontal axes of a 2D or 3D bounding box.
func swapBBox(bbox []float64) []float64 {
	if bbox == nil {
		return nil
	}

	out := make([]float64, len(bbox))
	copy(out, bbox)

	half := len(out) / 2
	if len(out)%2 != 0 || half < 2 {
		return out
	}
	out[0], out[1] = out[1], out[0]
	out[half], out[half+1] = out[half+1], out[half]

	return out
}
