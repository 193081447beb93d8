package codec

import (
	"math"
	"testing"

	"github.com/cocosip/go-e57/internal/bstream"
	"github.com/cocosip/go-e57/pointcloud"
)

func packLSB(values []uint64, bits int) []byte {
	totalBits := bits * len(values)
	out := make([]byte, (totalBits+7)/8)
	pos := 0
	for _, v := range values {
		for i := 0; i < bits; i++ {
			if v&(1<<uint(i)) != 0 {
				out[pos/8] |= 1 << uint(pos%8)
			}
			pos++
		}
	}
	return out
}

func TestUnpackSingles(t *testing.T) {
	buf := bstream.New()
	var bits []byte
	for _, f := range []float32{1.5, -2.25, 0} {
		b := math.Float32bits(f)
		bits = append(bits, byte(b), byte(b>>8), byte(b>>16), byte(b>>24))
	}
	buf.Append(bits)

	var out []pointcloud.RawValue
	if err := (singleDecoder{}).Drain(buf, &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d values, want 3", len(out))
	}
	want := []float32{1.5, -2.25, 0}
	for i, w := range want {
		if out[i].Kind != pointcloud.RawSingle || out[i].Single != w {
			t.Errorf("value %d: got %+v, want Single(%v)", i, out[i], w)
		}
	}
}

func TestUnpackDoubles(t *testing.T) {
	buf := bstream.New()
	b := math.Float64bits(3.14159)
	var raw [8]byte
	for i := range raw {
		raw[i] = byte(b >> (8 * i))
	}
	buf.Append(raw[:])

	var out []pointcloud.RawValue
	if err := (doubleDecoder{}).Drain(buf, &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Double != 3.14159 {
		t.Fatalf("got %+v, want Double(3.14159)", out)
	}
}

func TestUnpackIntBiasesByMin(t *testing.T) {
	dt := pointcloud.RecordDataType{Kind: pointcloud.KindInteger, Min: 10, Max: 13} // 2 bits
	bits, err := dt.Bits()
	if err != nil || bits != 2 {
		t.Fatalf("bits = %d, err = %v, want 2, nil", bits, err)
	}
	buf := bstream.New()
	buf.Append(packLSB([]uint64{0, 1, 2, 3}, 2))

	d := intDecoder{min: dt.Min, bits: bits}
	var out []pointcloud.RawValue
	if err := d.Drain(buf, &out); err != nil {
		t.Fatal(err)
	}
	want := []int64{10, 11, 12, 13}
	if len(out) != len(want) {
		t.Fatalf("got %d values, want %d", len(out), len(want))
	}
	for i, w := range want {
		if out[i].Kind != pointcloud.RawInteger || out[i].Int != w {
			t.Errorf("value %d: got %+v, want Integer(%d)", i, out[i], w)
		}
	}
}

func TestUnpackScaledInt21Bits(t *testing.T) {
	dt := pointcloud.RecordDataType{Kind: pointcloud.KindScaledInteger, Min: 0, Max: 1<<21 - 1}
	bits, err := dt.Bits()
	if err != nil || bits != 21 {
		t.Fatalf("bits = %d, err = %v, want 21, nil", bits, err)
	}
	buf := bstream.New()
	values := []uint64{0, 12345, 1<<21 - 1}
	buf.Append(packLSB(values, 21))

	d := scaledIntDecoder{min: dt.Min, bits: bits}
	var out []pointcloud.RawValue
	if err := d.Drain(buf, &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != len(values) {
		t.Fatalf("got %d values, want %d", len(out), len(values))
	}
	for i, v := range values {
		if out[i].Kind != pointcloud.RawScaledInteger || out[i].Int != int64(v) {
			t.Errorf("value %d: got %+v, want ScaledInteger(%d)", i, out[i], v)
		}
	}
}

func TestDegenerateRangeEmitsNothing(t *testing.T) {
	dt := pointcloud.RecordDataType{Kind: pointcloud.KindInteger, Min: 5, Max: 5}
	bits, err := dt.Bits()
	if err != nil || bits != 0 {
		t.Fatalf("bits = %d, err = %v, want 0, nil", bits, err)
	}
	d := intDecoder{min: dt.Min, bits: bits}
	var out []pointcloud.RawValue
	if err := d.Drain(bstream.New(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("got %d values, want 0", len(out))
	}
}

func TestInvertedRangeIsInvalidFile(t *testing.T) {
	dt := pointcloud.RecordDataType{Kind: pointcloud.KindInteger, Min: 10, Max: 5}
	if _, err := dt.Bits(); err == nil {
		t.Fatal("expected an error for max < min")
	}
}

func TestForTypeDispatch(t *testing.T) {
	tests := []struct {
		name string
		dt   pointcloud.RecordDataType
	}{
		{"single", pointcloud.RecordDataType{Kind: pointcloud.KindSingle}},
		{"double", pointcloud.RecordDataType{Kind: pointcloud.KindDouble}},
		{"integer", pointcloud.RecordDataType{Kind: pointcloud.KindInteger, Min: 0, Max: 255}},
		{"scaledInteger", pointcloud.RecordDataType{Kind: pointcloud.KindScaledInteger, Min: 0, Max: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ForType(tt.dt)
			if err != nil {
				t.Fatalf("ForType(%v) error: %v", tt.dt, err)
			}
			if d == nil {
				t.Fatal("ForType returned a nil Decoder")
			}
		})
	}
}
