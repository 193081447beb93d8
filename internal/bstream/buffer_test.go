package bstream

import "testing"

func TestConsumeBitsLSBFirst(t *testing.T) {
	// 0b10110100 -> LSB-first reading: bit0=0,bit1=0,bit2=1,bit3=0,bit4=1,bit5=1,bit6=0,bit7=1
	b := New()
	b.Append([]byte{0b10110100})

	tests := []struct {
		k    int
		want uint64
	}{
		{1, 0},
		{1, 0},
		{1, 1},
		{1, 0},
		{1, 1},
		{1, 1},
		{1, 0},
		{1, 1},
	}
	for i, tt := range tests {
		got, err := b.ConsumeBits(tt.k)
		if err != nil {
			t.Fatalf("bit %d: %v", i, err)
		}
		if got != tt.want {
			t.Errorf("bit %d: got %d, want %d", i, got, tt.want)
		}
	}
}

func TestConsumeBitsAcrossBytes(t *testing.T) {
	b := New()
	b.Append([]byte{0xFF, 0x01}) // 16 bits, top bit of second byte is 0

	got, err := b.ConsumeBits(9)
	if err != nil {
		t.Fatal(err)
	}
	// low 8 bits all 1, plus bit 0 of second byte (1) => 0x1FF
	if got != 0x1FF {
		t.Errorf("got %#x, want 0x1ff", got)
	}
}

func TestConsumeBitsValue21(t *testing.T) {
	// Encode the 21-bit value 0x15555 (little-endian bit order) and read it back.
	value := uint64(0x15555)
	b := New()
	// Hand-pack 21 bits LSB-first into 3 bytes.
	var packed [3]byte
	for i := 0; i < 21; i++ {
		if value&(1<<uint(i)) != 0 {
			packed[i/8] |= 1 << uint(i%8)
		}
	}
	b.Append(packed[:])
	got, err := b.ConsumeBits(21)
	if err != nil {
		t.Fatal(err)
	}
	if got != value {
		t.Errorf("got %#x, want %#x", got, value)
	}
}

func TestConsumeBytesRequiresAlignment(t *testing.T) {
	b := New()
	b.Append([]byte{0x01, 0x02})
	if _, err := b.ConsumeBits(3); err != nil {
		t.Fatal(err)
	}
	if _, err := b.ConsumeBytes(1); err != ErrInvalidState {
		t.Errorf("got %v, want ErrInvalidState", err)
	}
}

func TestConsumeBytes(t *testing.T) {
	b := New()
	b.Append([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	got, err := b.ConsumeBytes(4)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d: got %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestAppendAfterPartialConsumeDoesNotLoseData(t *testing.T) {
	b := New()
	b.Append([]byte{0xAB})
	if _, err := b.ConsumeBits(4); err != nil {
		t.Fatal(err)
	}
	b.Append([]byte{0xCD})
	if got := b.AvailableBits(); got != 12 {
		t.Fatalf("available bits = %d, want 12", got)
	}
	v, err := b.ConsumeBits(12)
	if err != nil {
		t.Fatal(err)
	}
	// remaining high nibble of 0xAB is 0xA, then all of 0xCD, LSB-first
	// across the boundary: result = 0xA | (0xCD << 4) masked to 12 bits.
	want := uint64(0xA) | (uint64(0xCD) << 4)
	want &= (1 << 12) - 1
	if v != want {
		t.Errorf("got %#x, want %#x", v, want)
	}
}

func TestNotEnoughBits(t *testing.T) {
	b := New()
	b.Append([]byte{0x01})
	if _, err := b.ConsumeBits(9); err == nil {
		t.Error("expected error consuming more bits than buffered")
	}
}
