package geo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrEmptyDocument = errors.New("empty document")

// Document holds one top-level value: a feature collection, a feature,
// a geometry or a bare coordinate array. Exactly one field is set.
type Document struct {
	Collection  *FeatureCollection
	Feature     *Feature
	Geometry    *Geometry
	Coordinates Structure
}

// DecodeDocument detects the kind of top-level value and decodes it.
func DecodeDocument(data []byte) (*Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	if data[0] == '[' {
		s, err := ParseJSON(data)
		if err != nil {
			return nil, err
		}
		return &Document{Coordinates: s}, nil
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	switch head.Type {
	case TypeFeatureCollection:
		var fc FeatureCollection
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("decode feature collection: %w", err)
		}
		return &Document{Collection: &fc}, nil

	case TypeFeature:
		var f Feature
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode feature: %w", err)
		}
		return &Document{Feature: &f}, nil

	case "":
		return nil, errors.New("decode document: missing type member")
	}

	var g Geometry
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode geometry: %w", err)
	}

	return &Document{Geometry: &g}, nil
}

// Swapped returns a converted copy of the document.
func (d *Document) Swapped() *Document {
	switch {
	case d.Collection != nil:
		fc := d.Collection.Swapped()
		return &Document{Collection: &fc}
	case d.Feature != nil:
		f := d.Feature.Swapped()
		return &Document{Feature: &f}
	case d.Geometry != nil:
		g := d.Geometry.Swapped()
		return &Document{Geometry: &g}
	}

	return &Document{Coordinates: Swap(d.Coordinates)}
}

// Value returns the single value held by the document.
func (d *Document) Value() any {
	switch {
	case d.Collection != nil:
		return d.Collection
	case d.Feature != nil:
		return d.Feature
	case d.Geometry != nil:
		return d.Geometry
	}

	return d.Coordinates
}

// MarshalJSON encodes the held value.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Value())
}

// MarshalYAML encodes the held value.
func (d *Document) MarshalYAML() (any, error) {
	return d.Value(), nil
}
