package e57

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func buildHeaderBytes(t *testing.T, major, minor uint32, physLen, xmlOff, xmlLen, pageSize uint64) []byte {
	t.Helper()
	buf := make([]byte, HeaderSize)
	copy(buf[0:8], signature[:])
	binary.LittleEndian.PutUint32(buf[8:12], major)
	binary.LittleEndian.PutUint32(buf[12:16], minor)
	binary.LittleEndian.PutUint64(buf[16:24], physLen)
	binary.LittleEndian.PutUint64(buf[24:32], xmlOff)
	binary.LittleEndian.PutUint64(buf[32:40], xmlLen)
	binary.LittleEndian.PutUint64(buf[40:48], pageSize)
	return buf
}

func TestReadHeaderValid(t *testing.T) {
	buf := buildHeaderBytes(t, 1, 0, 4096, 2048, 512, 1024)
	h, err := ReadHeader(bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}
	if h.Major != 1 || h.Minor != 0 || h.PhysLength != 4096 || h.PhysXMLOffset != 2048 || h.XMLLength != 512 || h.PageSize != 1024 {
		t.Errorf("got %+v", h)
	}
}

func TestReadHeaderRejectsBadSignature(t *testing.T) {
	buf := buildHeaderBytes(t, 1, 0, 0, 0, 0, 1024)
	buf[0] = 'X'
	_, err := ReadHeader(bytes.NewReader(buf))
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("got %T, want *Error", err)
	}
	if e.Kind != KindInvalidFile || e.Reason != ReasonMalformedHeader {
		t.Errorf("got kind=%v reason=%v", e.Kind, e.Reason)
	}
}

func TestReadHeaderRejectsNonPowerOfTwoPageSize(t *testing.T) {
	buf := buildHeaderBytes(t, 1, 0, 0, 0, 0, 1000)
	_, err := ReadHeader(bytes.NewReader(buf))
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("got %T, want *Error", err)
	}
	if e.Reason != ReasonMalformedHeader {
		t.Errorf("reason = %v, want malformed_header", e.Reason)
	}
}

func TestReadHeaderTruncated(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader(make([]byte, 10)))
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("got %T, want *Error", err)
	}
	if e.Kind != KindIO {
		t.Errorf("kind = %v, want io", e.Kind)
	}
}
