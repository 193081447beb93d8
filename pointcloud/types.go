// Package pointcloud holds the descriptor and value types that the E57
// point-cloud decode pipeline consumes and produces. It has no I/O of its
// own; it is the data model shared by the paged reader, the section framer,
// and the raw iterator.
package pointcloud

import (
	"strings"

	"github.com/google/uuid"
)

// RecordDataTypeKind tags the variant of a RecordDataType.
type RecordDataTypeKind int

const (
	// KindSingle is an IEEE-754 32-bit float passthrough.
	KindSingle RecordDataTypeKind = iota
	// KindDouble is an IEEE-754 64-bit float passthrough.
	KindDouble
	// KindInteger is a bit-packed unsigned integer biased by Min.
	KindInteger
	// KindScaledInteger is a bit-packed integer plus scale/offset metadata.
	KindScaledInteger
)

func (k RecordDataTypeKind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindDouble:
		return "double"
	case KindInteger:
		return "integer"
	case KindScaledInteger:
		return "scaledInteger"
	default:
		return "unknown"
	}
}

// RecordDataType describes how one prototype field is encoded on the wire.
// Min/Max bound Integer and ScaledInteger; they are advisory (and often
// absent) for Single/Double.
type RecordDataType struct {
	Kind RecordDataTypeKind

	// Min, Max bound Integer/ScaledInteger columns. Required for those
	// kinds; meaningless for Single/Double.
	Min, Max int64

	// Scale, Offset apply only to ScaledInteger: value = Offset + Scale*(Min+raw).
	Scale, Offset float64

	// FloatMin, FloatMax are the optional declared bounds for Single/Double
	// columns; nil when the prototype field doesn't declare them.
	FloatMin, FloatMax *float64
}

// Bits returns the number of bits a well-formed Integer/ScaledInteger column
// occupies per value. It is 0 for the degenerate Min==Max case and for the
// float kinds (where it is meaningless).
func (rt RecordDataType) Bits() (int, error) {
	switch rt.Kind {
	case KindInteger, KindScaledInteger:
		if rt.Max < rt.Min {
			return 0, invalidFile("inverted_range", "record data type has max < min")
		}
		span := uint64(rt.Max - rt.Min)
		if span >= 1<<63 { // Max-Min+1 > 2^63
			return 0, invalidFile("range_too_large", "record data type range exceeds 2^63")
		}
		span++ // number of distinct values
		if span == 0 {
			// overflowed past 2^64; only reachable if Max-Min == 2^64-1
			return 0, invalidFile("range_too_large", "record data type range exceeds 2^63")
		}
		bits := 0
		for v := span - 1; v > 0; v >>= 1 {
			bits++
		}
		if bits > 64 {
			return 0, invalidFile("range_too_large", "record data type range needs more than 64 bits")
		}
		return bits, nil
	default:
		return 0, nil
	}
}

// RecordName identifies the semantic role of a prototype field. Unrecognized
// names are carried through as RecordName("") with the raw XML tag kept by
// the xmldir collaborator — schema inference is out of scope, but rejecting
// unknown fields outright would make the reader needlessly brittle.
type RecordName string

const (
	RecordCartesianX            RecordName = "cartesianX"
	RecordCartesianY            RecordName = "cartesianY"
	RecordCartesianZ            RecordName = "cartesianZ"
	RecordCartesianInvalidState RecordName = "cartesianInvalidState"
	RecordColorRed              RecordName = "colorRed"
	RecordColorGreen            RecordName = "colorGreen"
	RecordColorBlue             RecordName = "colorBlue"
	RecordIntensity             RecordName = "intensity"
	RecordRowIndex              RecordName = "rowIndex"
	RecordColumnIndex           RecordName = "columnIndex"
)

// ProtoField is one column of a Prototype: a name and its wire encoding.
type ProtoField struct {
	Name     RecordName
	RawTag   string // the literal XML element name, kept for unrecognized fields
	DataType RecordDataType
}

// Prototype is the ordered schema of one point: field i of every emitted
// RawPoint corresponds to Prototype[i].
type Prototype []ProtoField

// Bounds carries the optional cartesianBounds element of a PointCloud.
type Bounds struct {
	XMin, XMax *float64
	YMin, YMax *float64
	ZMin, ZMax *float64
}

// ColorLimits carries the optional colorLimits element of a PointCloud.
type ColorLimits struct {
	RedMin, RedMax     *RawValue
	GreenMin, GreenMax *RawValue
	BlueMin, BlueMax   *RawValue
}

// PointCloud is the descriptor the XML-parsing collaborator produces and the
// decode core consumes: everything needed to locate and decode one
// compressed-vector section.
type PointCloud struct {
	Guid       string
	Name       string
	FileOffset uint64 // physical offset of the compressed-vector section header
	Records    uint64
	Prototype  Prototype

	CartesianBounds *Bounds
	ColorLimits     *ColorLimits
}

// ParseGUID attempts to parse a brace-delimited E57 GUID string as an
// RFC-4122 UUID. E57 writers are inconsistent about GUID conformance, so a
// parse failure is reported via ok=false, never an error: the descriptor
// must never be rejected over a cosmetic GUID issue.
func ParseGUID(raw string) (id uuid.UUID, ok bool) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(raw, "{"), "}")
	id, err := uuid.Parse(trimmed)
	return id, err == nil
}

// RawValueKind tags the variant of a RawValue; it always matches the Kind of
// the ProtoField.DataType it was decoded from.
type RawValueKind int

const (
	RawSingle RawValueKind = iota
	RawDouble
	RawInteger
	RawScaledInteger
)

// RawValue is the decoded value for one field of one point. Exactly one of
// the accessors below is meaningful, selected by Kind.
type RawValue struct {
	Kind   RawValueKind
	Single float32
	Double float64
	Int    int64 // used for both RawInteger and RawScaledInteger (raw, unscaled)
}

// RawPoint is one decoded record: an ordered tuple of RawValue, one per
// Prototype field.
type RawPoint []RawValue

// invalidFile mirrors the root package's error constructor without importing
// it (pointcloud must not depend on e57, to keep the package dependency
// graph acyclic); it is intentionally a tiny local type satisfying the same
// "kind + context" shape.
type dataTypeError struct {
	sub     string
	context string
}

func (e *dataTypeError) Error() string { return e.context + ": " + e.sub }

// InvalidFileReason lets the e57 package recover the InvalidFile sub-kind
// when wrapping an error returned from this package.
func (e *dataTypeError) InvalidFileReason() string { return e.sub }

func invalidFile(sub, context string) error { return &dataTypeError{sub: sub, context: context} }
