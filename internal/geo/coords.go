// Package geo handles geographic data structures and axis-order conversion
// between the (lat, lng) order used by map libraries and the (lng, lat)
// order used by GeoJSON.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotSequence   = errors.New("not a coordinate array")
	ErrShortPosition = errors.New("position needs at least two values")
	ErrNotNumber     = errors.New("position value is not a number")
	ErrMixedDepth    = errors.New("siblings have different nesting depth")
)

// Structure is a coordinate structure of arbitrary nesting depth.
// It is either a Position (leaf) or a Nested sequence of structures.
type Structure interface {
	isStructure()
}

// Position is a leaf coordinate. The first two values are the horizontal
// axes in either order; any further values (altitude) are kept as is.
type Position []float64

// Nested is an ordered sequence of coordinate structures
// (line, ring, polygon, multi-polygon, ...).
type Nested []Structure

func (Position) isStructure() {}
func (Nested) isStructure()   {}

// Swap returns a copy of the position with the first two values exchanged.
func (p Position) Swap() Position {
	out := make(Position, len(p))
	copy(out, p)
	if len(out) >= 2 {
		out[0], out[1] = out[1], out[0]
	}

	return out
}

// Swap converts a structure between (lat, lng) and (lng, lat) axis order.
// The result has exactly the same shape as s and s is left untouched.
// Applying Swap twice yields the original structure.
func Swap(s Structure) Structure {
	switch v := s.(type) {
	case Position:
		return v.Swap()
	case Nested:
		out := make(Nested, len(v))
		for i, child := range v {
			out[i] = Swap(child)
		}
		return out
	}

	return nil
}

// Depth reports the nesting depth: 1 for a position, 2 for a line and so on.
// An empty Nested reports 1.
func Depth(s Structure) int {
	n, ok := s.(Nested)
	if !ok {
		return 1
	}
	for _, child := range n {
		if !isEmpty(child) {
			return 1 + Depth(child)
		}
	}

	return 1
}

func isEmpty(s Structure) bool {
	n, ok := s.(Nested)
	return ok && len(n) == 0
}

// ParseError describes where in the input a coordinate structure was invalid.
type ParseError struct {
	Path []int
	Err  error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("coordinates")
	for _, i := range e.Path {
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(i))
		sb.WriteByte(']')
	}
	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())

	return sb.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseJSON decodes a JSON coordinate array into a Structure.
func ParseJSON(data []byte) (Structure, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode coordinates: %w", err)
	}

	return Parse(v)
}

// Parse builds a Structure from a decoded JSON or YAML value.
// An empty array yields an empty Nested.
func Parse(v any) (Structure, error) {
	s, err := parse(v)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func parse(v any) (Structure, *ParseError) {
	items, ok := v.([]any)
	if !ok {
		return nil, &ParseError{Err: fmt.Errorf("%w: got %T", ErrNotSequence, v)}
	}
	if len(items) == 0 {
		return Nested{}, nil
	}

	// the first element decides between a leaf and a sequence
	if _, nested := items[0].([]any); !nested {
		return parsePosition(items)
	}

	out := make(Nested, len(items))
	depth := 0
	firstEmpty := -1
	for i, item := range items {
		if _, ok := item.([]any); !ok {
			return nil, &ParseError{Path: []int{i}, Err: ErrMixedDepth}
		}

		child, perr := parse(item)
		if perr != nil {
			perr.Path = append([]int{i}, perr.Path...)
			return nil, perr
		}

		if isEmpty(child) {
			if firstEmpty < 0 {
				firstEmpty = i
			}
		} else {
			d := Depth(child)
			if depth != 0 && d != depth {
				return nil, &ParseError{Path: []int{i}, Err: ErrMixedDepth}
			}
			depth = d
		}
		out[i] = child
	}

	// next to positions an empty array is an empty position, not an empty sequence
	if depth == 1 && firstEmpty >= 0 {
		return nil, &ParseError{Path: []int{firstEmpty}, Err: ErrShortPosition}
	}

	return out, nil
}

func parsePosition(items []any) (Position, *ParseError) {
	if len(items) < 2 {
		return nil, &ParseError{Err: ErrShortPosition}
	}

	p := make(Position, len(items))
	for i, item := range items {
		f, ok := toFloat(item)
		if !ok {
			return nil, &ParseError{Path: []int{i}, Err: fmt.Errorf("%w: got %T", ErrNotNumber, item)}
		}
		p[i] = f
	}

	return p, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}

	return 0, false
}
