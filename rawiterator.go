package e57

import (
	"math"

	"github.com/cocosip/go-e57/codec"
	"github.com/cocosip/go-e57/internal/bstream"
	"github.com/cocosip/go-e57/internal/paged"
	"github.com/cocosip/go-e57/pointcloud"
	"github.com/cocosip/go-e57/section"
)

// PointCloudRawIterator is a pull-based sequence of RawPoints for one
// PointCloud. It holds an exclusive borrow on the underlying paged physical
// reader for its lifetime: construct, iterate to exhaustion (or drop),
// never share.
type PointCloudRawIterator struct {
	pc       pointcloud.PointCloud
	phys     *paged.Reader
	decoders []codec.Decoder
	streams  []*bstream.Buffer
	queues   [][]pointcloud.RawValue
	scratch  []byte

	emitted  uint64
	poisoned bool
}

func newRawIterator(pc pointcloud.PointCloud, phys *paged.Reader) (*PointCloudRawIterator, error) {
	if err := phys.SeekPhysical(pc.FileOffset); err != nil {
		return nil, wrapFromReason("Cannot seek to compressed vector header", err)
	}
	sectionHeader, err := section.ReadHeader(phys)
	if err != nil {
		return nil, wrapFromReason("Failed to read compressed vector section header", err)
	}
	if err := phys.SeekPhysical(sectionHeader.DataOffset); err != nil {
		return nil, wrapFromReason("Cannot seek to packet header", err)
	}

	n := len(pc.Prototype)
	decoders := make([]codec.Decoder, n)
	streams := make([]*bstream.Buffer, n)
	queues := make([][]pointcloud.RawValue, n)
	for i, field := range pc.Prototype {
		d, err := codec.ForType(field.DataType)
		if err != nil {
			return nil, wrapFromReason("Unsupported record data type in prototype", err)
		}
		decoders[i] = d
		streams[i] = bstream.New()
	}

	return &PointCloudRawIterator{
		pc:       pc,
		phys:     phys,
		decoders: decoders,
		streams:  streams,
		queues:   queues,
	}, nil
}

// availableInQueues returns the minimum backlog across all per-field
// queues: the number of fully-aligned points currently assembleable without
// refilling from the section. Degenerate Min==Max Integer/ScaledInteger
// fields are excluded: their queues are never appended to (popPoint
// synthesizes the constant directly), so counting them would make the
// backlog permanently zero.
func (it *PointCloudRawIterator) availableInQueues() int {
	avail := -1
	for i, q := range it.queues {
		if it.fieldIsDegenerate(i) {
			continue
		}
		if avail < 0 || len(q) < avail {
			avail = len(q)
		}
	}
	if avail < 0 {
		// Every field is degenerate: no bytestream ever needs refilling.
		return math.MaxInt
	}
	return avail
}

func (it *PointCloudRawIterator) fieldIsDegenerate(i int) bool {
	dt := it.pc.Prototype[i].DataType
	if dt.Kind != pointcloud.KindInteger && dt.Kind != pointcloud.KindScaledInteger {
		return false
	}
	bits, _ := dt.Bits() // validated at decoder construction time
	return bits == 0
}

// Next returns the next RawPoint, or ok=false at end of stream. err is
// non-nil only when a read/decode failure poisons the iterator; subsequent
// calls then always return ok=false, err=nil.
func (it *PointCloudRawIterator) Next() (point pointcloud.RawPoint, ok bool, err error) {
	if it.poisoned || it.emitted >= it.pc.Records {
		return nil, false, nil
	}

	if it.availableInQueues() < 1 {
		if err := it.advance(); err != nil {
			it.poisoned = true
			return nil, false, err
		}
	}

	if it.availableInQueues() < 1 {
		// The file declared more records than its bit streams contain.
		// Reported as end-of-stream rather than an error.
		return nil, false, nil
	}

	p, err := it.popPoint()
	if err != nil {
		it.poisoned = true
		return nil, false, err
	}
	it.emitted++
	return p, true, nil
}

// SizeHint returns (remaining, remaining): the exact count of points left.
func (it *PointCloudRawIterator) SizeHint() (uint64, uint64) {
	if it.emitted >= it.pc.Records {
		return 0, 0
	}
	remaining := it.pc.Records - it.emitted
	return remaining, remaining
}

func (it *PointCloudRawIterator) popPoint() (pointcloud.RawPoint, error) {
	point := make(pointcloud.RawPoint, len(it.pc.Prototype))
	for i, field := range it.pc.Prototype {
		bits, _ := field.DataType.Bits() // validated at decoder construction time
		if bits == 0 && (field.DataType.Kind == pointcloud.KindInteger || field.DataType.Kind == pointcloud.KindScaledInteger) {
			// Degenerate Min==Max column: no bits on the wire, synthesize
			// the constant directly.
			kind := pointcloud.RawInteger
			if field.DataType.Kind == pointcloud.KindScaledInteger {
				kind = pointcloud.RawScaledInteger
			}
			point[i] = pointcloud.RawValue{Kind: kind, Int: field.DataType.Min}
			continue
		}
		q := it.queues[i]
		if len(q) == 0 {
			return nil, internalErr("Failed to pop value for next point")
		}
		point[i] = q[0]
		it.queues[i] = q[1:]
	}
	return point, nil
}

// advance reads and decodes exactly one packet, appending newly-decoded
// values to each stream's queue.
func (it *PointCloudRawIterator) advance() error {
	header, err := section.ReadPacketHeader(it.phys)
	if err != nil {
		return wrapFromReason("Failed to read data packet header", err)
	}
	if int(header.BytestreamCount) != len(it.pc.Prototype) {
		return invalidFile(ReasonPrototypeMismatch, "Data packet bytestream count does not match prototype size")
	}

	sizes, err := section.ReadStreamSizes(it.phys, header.BytestreamCount)
	if err != nil {
		return wrapFromReason("Failed to read data packet buffer sizes", err)
	}

	err = section.ReadStreamPayloads(it.phys, sizes, &it.scratch, func(i int, payload []byte) error {
		it.streams[i].Append(payload)
		return nil
	})
	if err != nil {
		return wrapFromReason("Failed to read data packet buffers", err)
	}

	for i, field := range it.pc.Prototype {
		if err := it.decoders[i].Drain(it.streams[i], &it.queues[i]); err != nil {
			return wrapFromReason("Failed to decode bytestream for prototype field "+field.RawTag, err)
		}
	}

	if err := it.phys.Align(4); err != nil {
		return wrapFromReason("Failed to align reader on next 4-byte offset after reading packet", err)
	}
	return nil
}
