// Package section implements compressed-vector section framing: locating a
// section's data region and iterating its packet headers, dispatching each
// packet's per-stream payload to the byte-stream buffers and bit-pack
// decoders.
package section

import "encoding/binary"

// HeaderSize is the fixed size, in bytes, of a CompressedVectorSectionHeader
// on the wire.
const HeaderSize = 32

// packetType discriminates the first byte of a packet header.
type packetType byte

const (
	packetTypeIndex   packetType = 0
	packetTypeData    packetType = 1
	packetTypeIgnored packetType = 2
)

// Header is the fixed-size record at a PointCloud descriptor's FileOffset:
// it yields the physical offset of the first packet plus the section length.
// SectionLength is carried through only; packet reads are not checked
// against it.
type Header struct {
	SectionID     byte
	DataOffset    uint64 // physical offset of the first packet
	SectionLength uint64
}

// PhysicalReader is the subset of internal/paged.Reader that section needs:
// a byte-addressed logical stream with 4-byte alignment.
type PhysicalReader interface {
	ReadExact(buf []byte) error
	Align(n int64) error
}

// ReadHeader reads a CompressedVectorSectionHeader from r, which must
// already be positioned at the section header's logical offset.
func ReadHeader(r PhysicalReader) (Header, error) {
	var buf [HeaderSize]byte
	if err := r.ReadExact(buf[:]); err != nil {
		return Header{}, err
	}
	return Header{
		SectionID:     buf[0],
		DataOffset:    binary.LittleEndian.Uint64(buf[8:16]),
		SectionLength: binary.LittleEndian.Uint64(buf[16:24]),
	}, nil
}

// DataPacket is the parsed header of a Data packet: the caller still owes
// reading BytestreamCount little-endian uint16 stream sizes followed by
// that many payloads.
type DataPacket struct {
	BytestreamCount uint16
	PacketLength    uint16
}

// UnsupportedPacketError reports a recognized-but-unimplemented packet type
// (Index or Ignored).
type UnsupportedPacketError struct {
	Kind string // "index_packet" or "ignored_packet"
}

func (e *UnsupportedPacketError) Error() string { return "unsupported packet type: " + e.Kind }

// UnimplementedFeature satisfies the e57 package's unimplementer interface,
// so an Index or Ignored packet surfaces as KindUnimplemented rather than
// the default IO fallback.
func (e *UnsupportedPacketError) UnimplementedFeature() string { return e.Kind }

// invalidPacketTypeError reports a packet type byte outside {Index, Data,
// Ignored}; it satisfies the reasoner interface so the e57 package can
// recover its InvalidFile sub-reason.
type invalidPacketTypeError struct{ b byte }

func (e *invalidPacketTypeError) Error() string             { return "unrecognized packet type byte" }
func (e *invalidPacketTypeError) InvalidFileReason() string { return "malformed_packet_header" }

// ReadPacketHeader reads the next packet header from r, which must be
// positioned at a 4-byte-aligned logical offset (the packet start).
func ReadPacketHeader(r PhysicalReader) (DataPacket, error) {
	var typeByte [1]byte
	if err := r.ReadExact(typeByte[:]); err != nil {
		return DataPacket{}, err
	}

	switch packetType(typeByte[0]) {
	case packetTypeIndex:
		return DataPacket{}, &UnsupportedPacketError{Kind: "index_packet"}
	case packetTypeIgnored:
		return DataPacket{}, &UnsupportedPacketError{Kind: "ignored_packet"}
	case packetTypeData:
		var rest [5]byte // flags byte + packet_length u16 + bytestream_count u16
		if err := r.ReadExact(rest[:]); err != nil {
			return DataPacket{}, err
		}
		return DataPacket{
			PacketLength:    binary.LittleEndian.Uint16(rest[1:3]),
			BytestreamCount: binary.LittleEndian.Uint16(rest[3:5]),
		}, nil
	default:
		return DataPacket{}, &invalidPacketTypeError{typeByte[0]}
	}
}

// ReadStreamSizes reads count little-endian uint16 stream payload lengths.
func ReadStreamSizes(r PhysicalReader, count uint16) ([]int, error) {
	sizes := make([]int, count)
	var buf [2]byte
	for i := range sizes {
		if err := r.ReadExact(buf[:]); err != nil {
			return nil, err
		}
		sizes[i] = int(binary.LittleEndian.Uint16(buf[:]))
	}
	return sizes, nil
}

// ReadStreamPayloads reads, in order, a payload of each declared size from
// r, invoking visit for each stream's bytes. scratch is reused across calls
// to avoid per-packet allocation.
func ReadStreamPayloads(r PhysicalReader, sizes []int, scratch *[]byte, visit func(streamIndex int, payload []byte) error) error {
	for i, size := range sizes {
		if cap(*scratch) < size {
			*scratch = make([]byte, size)
		}
		buf := (*scratch)[:size]
		if err := r.ReadExact(buf); err != nil {
			return err
		}
		if err := visit(i, buf); err != nil {
			return err
		}
	}
	return nil
}
