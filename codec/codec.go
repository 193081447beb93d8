// Package codec dispatches a pointcloud.RecordDataType to the decoder that
// drains its wire encoding. The four encodings are a closed, fixed set, so
// dispatch is a type switch (ForType) rather than a runtime-registered map:
// there is no plugin-extensibility requirement here, unlike the
// transfer-syntax registry this package is adapted from.
package codec

import (
	"errors"

	"github.com/cocosip/go-e57/internal/bstream"
	"github.com/cocosip/go-e57/pointcloud"
)

// ErrUnknownKind is returned by ForType for a RecordDataTypeKind this
// package doesn't recognize.
var ErrUnknownKind = errors.New("codec: unknown record data type kind")

// Decoder drains as many whole values as possible from buf into *out,
// appending to the tail, leaving at most one value's worth of pending bits
// behind in buf.
type Decoder interface {
	Drain(buf *bstream.Buffer, out *[]pointcloud.RawValue) error
}

// ForType returns the Decoder for dt. Integer and ScaledInteger decoders
// carry dt.Min/dt.Max as decode-time state; Single/Double decoders are
// stateless.
func ForType(dt pointcloud.RecordDataType) (Decoder, error) {
	switch dt.Kind {
	case pointcloud.KindSingle:
		return singleDecoder{}, nil
	case pointcloud.KindDouble:
		return doubleDecoder{}, nil
	case pointcloud.KindInteger:
		bits, err := dt.Bits()
		if err != nil {
			return nil, err
		}
		return intDecoder{min: dt.Min, bits: bits}, nil
	case pointcloud.KindScaledInteger:
		bits, err := dt.Bits()
		if err != nil {
			return nil, err
		}
		return scaledIntDecoder{min: dt.Min, bits: bits}, nil
	default:
		return nil, ErrUnknownKind
	}
}
