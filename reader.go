package e57

import (
	"io"

	"github.com/cocosip/go-e57/internal/paged"
	"github.com/cocosip/go-e57/pointcloud"
	"github.com/cocosip/go-e57/xmldir"
)

// Reader is a session over one E57 file: the parsed Header, the raw XML
// directory, and the PointCloud descriptors the xmldir collaborator
// produced from it. It owns the underlying paged physical reader; only one
// PointCloudRawIterator may borrow it at a time.
type Reader struct {
	header      Header
	rawXML      []byte
	pointClouds []pointcloud.PointCloud
	phys        *paged.Reader
}

// Open parses the file header, reads the raw XML directory, and parses it
// into PointCloud descriptors. src must support random access (ReaderAt).
func Open(src io.ReaderAt) (*Reader, error) {
	headerBuf := io.NewSectionReader(src, 0, HeaderSize)
	header, err := ReadHeader(headerBuf)
	if err != nil {
		return nil, err
	}

	if header.PageSize == 0 || header.PageSize&(header.PageSize-1) != 0 {
		return nil, invalidFile(ReasonMalformedHeader, "Failed to read file header: page size must be a nonzero power of two")
	}

	rawXML := make([]byte, header.XMLLength)
	phys := paged.New(src, header.PageSize)
	if err := phys.SeekPhysical(header.PhysXMLOffset); err != nil {
		return nil, wrapFromReason("Cannot seek to XML directory", err)
	}
	if err := phys.ReadExact(rawXML); err != nil {
		return nil, wrapFromReason("Failed to read raw XML directory", err)
	}

	pcs, err := xmldir.Parse(rawXML)
	if err != nil {
		return nil, invalidFileWrap(ReasonMalformedDirectory, "Failed to parse XML directory", err)
	}

	return &Reader{header: header, rawXML: rawXML, pointClouds: pcs, phys: phys}, nil
}

// Header returns the parsed file envelope.
func (r *Reader) Header() Header { return r.header }

// RawXML returns the raw, undecoded XML directory bytes.
func (r *Reader) RawXML() []byte { return r.rawXML }

// PointClouds returns the PointCloud descriptors found in the XML
// directory.
func (r *Reader) PointClouds() []pointcloud.PointCloud { return r.pointClouds }

// NewRawIterator constructs a PointCloudRawIterator over pc, seeking the
// reader's underlying physical stream to pc's compressed-vector section.
// Only one iterator may be active against a Reader at a time.
func (r *Reader) NewRawIterator(pc pointcloud.PointCloud) (*PointCloudRawIterator, error) {
	return newRawIterator(pc, r.phys)
}

// ValidateCRC walks every page of r verifying CRC-32 without materializing
// the logical stream.
func ValidateCRC(r io.Reader, pageSize uint64) (pages int, err error) {
	n, err := paged.ValidateCRC(r, pageSize)
	if err != nil {
		return n, wrapFromReason("CRC validation failed", err)
	}
	return n, nil
}
