package geometry

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestBufferElementCount(t *testing.T) {
	tests := []struct {
		name        string
		elementSize uint32
		appended    int
		want        uint32
	}{
		{"empty", 4, 0, 0},
		{"exact", 4, 40, 10},
		{"partial rounds up", 12, 13, 2},
		{"one byte", 12, 1, 1},
		{"zero element size", 0, 16, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.elementSize)
			b.Append(make([]byte, tt.appended))
			if got := b.ElementCount(); got != tt.want {
				t.Errorf("ElementCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBufferAppendElements(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 100, 1000} {
		b := NewBuffer(4)
		for i := 0; i < n; i++ {
			AppendValues(&b, uint32(i))
		}
		if b.ElementCount() != uint32(n) {
			t.Errorf("after %d appends ElementCount() = %d", n, b.ElementCount())
		}
		if b.Size() != uint32(4*n) {
			t.Errorf("after %d appends Size() = %d", n, b.Size())
		}
		if b.Capacity() < b.Size() {
			t.Errorf("capacity %d below size %d", b.Capacity(), b.Size())
		}
		last := binary.LittleEndian.Uint32(b.Data()[4*(n-1):])
		if last != uint32(n-1) {
			t.Errorf("last element = %d, want %d", last, n-1)
		}
	}
}

func TestBufferGeometricGrowth(t *testing.T) {
	b := NewBuffer(1)
	b.Append([]byte{1, 2, 3, 4})
	if b.Capacity() != 4 {
		t.Fatalf("capacity = %d, want 4", b.Capacity())
	}
	b.Append([]byte{5})
	if b.Capacity() != 8 {
		t.Errorf("capacity = %d, want doubling to 8", b.Capacity())
	}
	b.Append(make([]byte, 20))
	if b.Capacity() != 25 {
		t.Errorf("capacity = %d, want used+needed = 25", b.Capacity())
	}
	if !bytes.Equal(b.Data()[:5], []byte{1, 2, 3, 4, 5}) {
		t.Errorf("data lost on growth: %v", b.Data()[:5])
	}
}

func TestBufferSetSize(t *testing.T) {
	b := NewBuffer(2)
	AppendValues(&b, uint16(7))
	b.SetSize(10)
	if b.Size() != 10 || b.ElementCount() != 5 {
		t.Errorf("size = %d count = %d", b.Size(), b.ElementCount())
	}
	if binary.LittleEndian.Uint16(b.Data()) != 7 {
		t.Error("SetSize clobbered existing data")
	}
	b.SetSize(1)
	if b.ElementCount() != 1 {
		t.Errorf("shrunk count = %d", b.ElementCount())
	}
}

func TestAppendValuesLayout(t *testing.T) {
	b := NewBuffer(12)
	AppendValues(&b, float32(1), float32(2), float32(3))
	want := []byte{0, 0, 0x80, 0x3f, 0, 0, 0, 0x40, 0, 0, 0x40, 0x40}
	if !bytes.Equal(b.Data(), want) {
		t.Errorf("bytes = %x, want %x", b.Data(), want)
	}
}
