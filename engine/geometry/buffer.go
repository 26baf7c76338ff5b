package geometry

import (
	"encoding/binary"
	"fmt"
)

// fixedNumber are the value types AppendValues can lay out byte for byte.
type fixedNumber interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

/**
 * @brief An append only byte store holding vertex or index data. The element
 * size is the size of one index, one planar attribute or one whole
 * interleaved vertex. Not safe for concurrent use.
 */
type Buffer struct {
	elementSize uint32
	usedSize    uint32
	data        []byte
}

func NewBuffer(elementSize uint32) Buffer {
	return Buffer{elementSize: elementSize}
}

func (b *Buffer) ElementSize() uint32 {
	return b.elementSize
}

// Size returns the number of bytes written so far.
func (b *Buffer) Size() uint32 {
	return b.usedSize
}

func (b *Buffer) Capacity() uint32 {
	return uint32(len(b.data))
}

// Data returns the written bytes. The slice aliases the buffer storage.
func (b *Buffer) Data() []byte {
	return b.data[:b.usedSize]
}

// ElementCount returns the number of elements, rounding a trailing partial element up.
func (b *Buffer) ElementCount() uint32 {
	if b.elementSize == 0 {
		return 0
	}
	return (b.usedSize + b.elementSize - 1) / b.elementSize
}

// SetSize sets the used size to n, growing the storage when needed. Newly
// exposed bytes are left for the caller to fill.
func (b *Buffer) SetSize(n uint32) {
	b.reserve(n)
	b.usedSize = n
}

// Append copies p at the end of the buffer.
func (b *Buffer) Append(p []byte) {
	needed := uint32(len(p))
	if needed == 0 {
		return
	}
	b.reserve(b.usedSize + needed)
	copy(b.data[b.usedSize:], p)
	b.usedSize += needed
}

// reserve grows the storage geometrically until it holds at least size bytes.
func (b *Buffer) reserve(size uint32) {
	capacity := uint32(len(b.data))
	if size <= capacity {
		return
	}
	newCapacity := max(size, capacity*2)
	data := make([]byte, newCapacity)
	copy(data, b.data[:b.usedSize])
	b.data = data
}

// AppendValues appends values in little endian order, each taking exactly its
// in-memory size.
func AppendValues[T fixedNumber](b *Buffer, values ...T) {
	p, err := binary.Append(nil, binary.LittleEndian, values)
	if err != nil {
		panic(fmt.Sprintf("geometry: encoding %T: %v", values, err))
	}
	b.Append(p)
}
