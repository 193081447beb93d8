// Package simple is a convenience projection layer: it turns
// e57.PointCloudRawIterator's raw tuples into a typed Point, resolving
// fields by name and applying ScaledInteger scale/offset.
package simple

import (
	"errors"

	"github.com/cocosip/go-e57/pointcloud"
)

// RawIterator is the subset of *e57.PointCloudRawIterator this package
// consumes, kept as an interface so this package never imports the e57
// root package back (it is a consumer, not a dependency of the core).
type RawIterator interface {
	Next() (pointcloud.RawPoint, bool, error)
}

// RGB is a decoded color triple.
type RGB struct {
	R, G, B float64
}

// Point is the typed, named projection of one RawPoint.
type Point struct {
	X, Y, Z          float64
	CartesianInvalid bool
	Color            *RGB
	Intensity        *float64
}

// Options configures an Iterator's field resolution.
type Options struct {
	// RequireCartesian fails iteration if a point has no cartesianX/Y/Z
	// fields at all (as opposed to CartesianInvalidState being set).
	RequireCartesian bool
}

// Validate checks o for internal consistency. Present for symmetry with the
// rest of this module's Options types; currently every value of Options is
// valid.
func (o Options) Validate() error { return nil }

// Iterator wraps a RawIterator, resolving prototype fields by name once up
// front and projecting each RawPoint into a Point.
type Iterator struct {
	raw    RawIterator
	layout layout
	opts   Options
}

type layout struct {
	x, y, z, invalid int
	red, green, blue int
	intensity        int
	hasCartesian     bool
	hasColor         bool
	hasIntensity     bool
	scale            map[int]float64
	offset           map[int]float64
}

// NewIterator builds an Iterator over raw, resolving prototype by name.
func NewIterator(raw RawIterator, prototype pointcloud.Prototype, opts Options) *Iterator {
	l := layout{x: -1, y: -1, z: -1, invalid: -1, red: -1, green: -1, blue: -1, intensity: -1,
		scale: map[int]float64{}, offset: map[int]float64{}}
	for i, f := range prototype {
		if f.DataType.Kind == pointcloud.KindScaledInteger {
			l.scale[i] = f.DataType.Scale
			l.offset[i] = f.DataType.Offset
		}
		switch f.Name {
		case pointcloud.RecordCartesianX:
			l.x, l.hasCartesian = i, true
		case pointcloud.RecordCartesianY:
			l.y = i
		case pointcloud.RecordCartesianZ:
			l.z = i
		case pointcloud.RecordCartesianInvalidState:
			l.invalid = i
		case pointcloud.RecordColorRed:
			l.red, l.hasColor = i, true
		case pointcloud.RecordColorGreen:
			l.green = i
		case pointcloud.RecordColorBlue:
			l.blue = i
		case pointcloud.RecordIntensity:
			l.intensity, l.hasIntensity = i, true
		}
	}
	return &Iterator{raw: raw, layout: l, opts: opts}
}

// Next returns the next projected Point, or ok=false at end of stream.
func (it *Iterator) Next() (Point, bool, error) {
	l := it.layout
	if it.opts.RequireCartesian && l.x < 0 && l.y < 0 && l.z < 0 {
		return Point{}, false, errors.New("simple: prototype has no cartesianX/Y/Z fields")
	}
	raw, ok, err := it.raw.Next()
	if err != nil || !ok {
		return Point{}, ok, err
	}
	return it.project(raw), true, nil
}

func (it *Iterator) project(raw pointcloud.RawPoint) Point {
	var p Point
	l := it.layout
	if l.hasCartesian {
		p.X = it.scaled(raw, l.x)
		p.Y = it.scaled(raw, l.y)
		p.Z = it.scaled(raw, l.z)
	}
	if l.invalid >= 0 {
		p.CartesianInvalid = raw[l.invalid].Int != 0
	}
	if l.hasColor {
		c := RGB{R: it.scaled(raw, l.red), G: it.scaled(raw, l.green), B: it.scaled(raw, l.blue)}
		p.Color = &c
	}
	if l.hasIntensity {
		v := it.scaled(raw, l.intensity)
		p.Intensity = &v
	}
	return p
}

func (it *Iterator) scaled(raw pointcloud.RawPoint, idx int) float64 {
	if idx < 0 {
		return 0
	}
	v := raw[idx]
	switch v.Kind {
	case pointcloud.RawSingle:
		return float64(v.Single)
	case pointcloud.RawDouble:
		return v.Double
	case pointcloud.RawScaledInteger:
		return it.layout.offset[idx] + it.layout.scale[idx]*float64(v.Int)
	default: // RawInteger: no scale/offset declared, value is used as-is
		return float64(v.Int)
	}
}
