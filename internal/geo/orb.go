package geo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// ToOrb converts a geometry into its orb equivalent.
// Values beyond the first two of a position (altitude) are dropped.
func ToOrb(g Geometry) (orb.Geometry, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	switch g.Type {
	case TypePoint:
		p, _ := g.Coordinates.(Position)
		return toPoint(p), nil
	case TypeMultiPoint:
		return orb.MultiPoint(toPoints(g.Coordinates)), nil
	case TypeLineString:
		return orb.LineString(toPoints(g.Coordinates)), nil
	case TypeMultiLineString:
		n, _ := g.Coordinates.(Nested)
		mls := make(orb.MultiLineString, len(n))
		for i, line := range n {
			mls[i] = orb.LineString(toPoints(line))
		}
		return mls, nil
	case TypePolygon:
		return toPolygon(g.Coordinates), nil
	case TypeMultiPolygon:
		n, _ := g.Coordinates.(Nested)
		mp := make(orb.MultiPolygon, len(n))
		for i, poly := range n {
			mp[i] = toPolygon(poly)
		}
		return mp, nil
	case TypeGeometryCollection:
		coll := make(orb.Collection, len(g.Geometries))
		for i, child := range g.Geometries {
			og, err := ToOrb(child)
			if err != nil {
				return nil, fmt.Errorf("geometries[%d]: %w", i, err)
			}
			coll[i] = og
		}
		return coll, nil
	}

	return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
}

// FromOrb converts an orb geometry. A ring becomes a single-ring polygon
// and a bound becomes its polygon.
func FromOrb(og orb.Geometry) (Geometry, error) {
	switch v := og.(type) {
	case orb.Point:
		return Geometry{Type: TypePoint, Coordinates: Position{v[0], v[1]}}, nil
	case orb.MultiPoint:
		return Geometry{Type: TypeMultiPoint, Coordinates: fromPoints(v)}, nil
	case orb.LineString:
		return Geometry{Type: TypeLineString, Coordinates: fromPoints(v)}, nil
	case orb.MultiLineString:
		n := make(Nested, len(v))
		for i, line := range v {
			n[i] = fromPoints(line)
		}
		return Geometry{Type: TypeMultiLineString, Coordinates: n}, nil
	case orb.Ring:
		return Geometry{Type: TypePolygon, Coordinates: fromPolygon(orb.Polygon{v})}, nil
	case orb.Polygon:
		return Geometry{Type: TypePolygon, Coordinates: fromPolygon(v)}, nil
	case orb.Bound:
		return Geometry{Type: TypePolygon, Coordinates: fromPolygon(v.ToPolygon())}, nil
	case orb.MultiPolygon:
		n := make(Nested, len(v))
		for i, poly := range v {
			n[i] = fromPolygon(poly)
		}
		return Geometry{Type: TypeMultiPolygon, Coordinates: n}, nil
	case orb.Collection:
		out := Geometry{Type: TypeGeometryCollection, Geometries: make([]Geometry, len(v))}
		for i, child := range v {
			g, err := FromOrb(child)
			if err != nil {
				return Geometry{}, fmt.Errorf("geometries[%d]: %w", i, err)
			}
			out.Geometries[i] = g
		}
		return out, nil
	}

	return Geometry{}, fmt.Errorf("unsupported orb geometry %T", og)
}

// Bound returns the bounding box of every position in the document,
// in the document's own axis order. ok is false when there are no positions.
func (d *Document) Bound() (orb.Bound, bool) {
	var mp orb.MultiPoint
	collect := func(p Position) {
		mp = append(mp, toPoint(p))
	}

	switch {
	case d.Collection != nil:
		for _, f := range d.Collection.Features {
			if f.Geometry != nil {
				walkGeometry(*f.Geometry, collect)
			}
		}
	case d.Feature != nil:
		if d.Feature.Geometry != nil {
			walkGeometry(*d.Feature.Geometry, collect)
		}
	case d.Geometry != nil:
		walkGeometry(*d.Geometry, collect)
	default:
		walkPositions(d.Coordinates, collect)
	}

	// empty parts never reach mp, so its bound covers real positions only
	if len(mp) == 0 {
		return orb.Bound{}, false
	}

	return mp.Bound(), true
}

// SetBBox writes the document bound into the top-level bbox member.
// It reports false for bare coordinate arrays and empty documents.
func (d *Document) SetBBox() bool {
	b, ok := d.Bound()
	if !ok {
		return false
	}

	bbox := BBox(b)
	switch {
	case d.Collection != nil:
		d.Collection.BBox = bbox
	case d.Feature != nil:
		d.Feature.BBox = bbox
	case d.Geometry != nil:
		d.Geometry.BBox = bbox
	default:
		return false
	}

	return true
}

// BBox flattens a bound into the GeoJSON bbox layout.
func BBox(b orb.Bound) []float64 {
	return []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]}
}

func walkGeometry(g Geometry, fn func(Position)) {
	walkPositions(g.Coordinates, fn)
	for _, child := range g.Geometries {
		walkGeometry(child, fn)
	}
}

func walkPositions(s Structure, fn func(Position)) {
	switch v := s.(type) {
	case Position:
		fn(v)
	case Nested:
		for _, child := range v {
			walkPositions(child, fn)
		}
	}
}

func toPoint(p Position) orb.Point {
	if len(p) < 2 {
		return orb.Point{}
	}

	return orb.Point{p[0], p[1]}
}

func toPoints(s Structure) []orb.Point {
	n, _ := s.(Nested)
	pts := make([]orb.Point, 0, len(n))
	for _, child := range n {
		if p, ok := child.(Position); ok {
			pts = append(pts, toPoint(p))
		}
	}

	return pts
}

func toPolygon(s Structure) orb.Polygon {
	n, _ := s.(Nested)
	poly := make(orb.Polygon, len(n))
	for i, ring := range n {
		poly[i] = orb.Ring(toPoints(ring))
	}

	return poly
}

func fromPoints(pts []orb.Point) Nested {
	n := make(Nested, len(pts))
	for i, p := range pts {
		n[i] = Position{p[0], p[1]}
	}

	return n
}

func fromPolygon(poly orb.Polygon) Nested {
	n := make(Nested, len(poly))
	for i, ring := range poly {
		n[i] = fromPoints(ring)
	}

	return n
}
