package codec

import (
	"math"

	"github.com/cocosip/go-e57/internal/bstream"
	"github.com/cocosip/go-e57/pointcloud"
)

type singleDecoder struct{}

// Drain consumes 4-byte-aligned little-endian float32 values.
func (singleDecoder) Drain(buf *bstream.Buffer, out *[]pointcloud.RawValue) error {
	for buf.AvailableBits() >= 32 && buf.ByteAligned() {
		raw, err := buf.ConsumeBytes(4)
		if err != nil {
			return err
		}
		bits := uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24
		*out = append(*out, pointcloud.RawValue{
			Kind:   pointcloud.RawSingle,
			Single: math.Float32frombits(bits),
		})
	}
	return nil
}

type doubleDecoder struct{}

// Drain consumes 8-byte-aligned little-endian float64 values.
func (doubleDecoder) Drain(buf *bstream.Buffer, out *[]pointcloud.RawValue) error {
	for buf.AvailableBits() >= 64 && buf.ByteAligned() {
		raw, err := buf.ConsumeBytes(8)
		if err != nil {
			return err
		}
		bits := uint64(raw[0]) | uint64(raw[1])<<8 | uint64(raw[2])<<16 | uint64(raw[3])<<24 |
			uint64(raw[4])<<32 | uint64(raw[5])<<40 | uint64(raw[6])<<48 | uint64(raw[7])<<56
		*out = append(*out, pointcloud.RawValue{
			Kind:   pointcloud.RawDouble,
			Double: math.Float64frombits(bits),
		})
	}
	return nil
}

type intDecoder struct {
	min  int64
	bits int
}

// Drain consumes bits-wide unsigned integers, biasing each by min. A
// degenerate bits==0 column (min==max) contributes no bits and emits
// nothing here; PointCloudRawIterator synthesizes the constant value when
// assembling a point.
func (d intDecoder) Drain(buf *bstream.Buffer, out *[]pointcloud.RawValue) error {
	if d.bits == 0 {
		return nil
	}
	for buf.AvailableBits() >= d.bits {
		raw, err := buf.ConsumeBits(d.bits)
		if err != nil {
			return err
		}
		*out = append(*out, pointcloud.RawValue{
			Kind: pointcloud.RawInteger,
			Int:  d.min + int64(raw),
		})
	}
	return nil
}

type scaledIntDecoder struct {
	min  int64
	bits int
}

// Drain is identical bit extraction to intDecoder; scale/offset are applied
// by the simple package, not here.
func (d scaledIntDecoder) Drain(buf *bstream.Buffer, out *[]pointcloud.RawValue) error {
	if d.bits == 0 {
		return nil
	}
	for buf.AvailableBits() >= d.bits {
		raw, err := buf.ConsumeBits(d.bits)
		if err != nil {
			return err
		}
		*out = append(*out, pointcloud.RawValue{
			Kind: pointcloud.RawScaledInteger,
			Int:  d.min + int64(raw),
		})
	}
	return nil
}
