package bloomfilter

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"
	"golang.org/x/xerrors"
)

// region BitSet ///////////////////////////////////////////////////////////////////////////////////////////////////////

// BitSet is a fixed-width, densely packed sequence of bits. The width is fixed at construction time and all bits start
// out as zero. Bits are packed most-significant-bit-first within each byte, so byte 0 covers the bit indices [0, 8).
type BitSet struct {
	width int
	data  []byte
}

// NewBitSet creates an empty BitSet of the given width.
func NewBitSet(width int) (bitSet *BitSet, err error) {
	if width <= 0 {
		err = xerrors.Errorf("width %d: %w", width, ErrInvalidWidth)
		return
	}

	bitSet = &BitSet{
		width: width,
		data:  make([]byte, bitSetByteSize(width)),
	}

	return
}

// BitSetFromBytes unmarshals a BitSet of the given width from a sequence of bytes.
func BitSetFromBytes(bitSetBytes []byte, width int) (bitSet *BitSet, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(bitSetBytes)
	if bitSet, err = BitSetFromMarshalUtil(marshalUtil, width); err != nil {
		err = xerrors.Errorf("failed to parse BitSet from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// BitSetFromMarshalUtil unmarshals a BitSet of the given width using a MarshalUtil (for easier unmarshaling).
func BitSetFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil, width int) (bitSet *BitSet, err error) {
	if bitSet, err = NewBitSet(width); err != nil {
		err = xerrors.Errorf("failed to create BitSet: %w", err)
		return
	}

	packedBytes, err := marshalUtil.ReadBytes(bitSetByteSize(width))
	if err != nil {
		err = xerrors.Errorf("failed to parse BitSet bytes (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	copy(bitSet.data, packedBytes)

	return
}

// Width returns the number of bits in the BitSet.
func (b *BitSet) Width() int {
	return b.width
}

// Set sets the bit at the given index to 1. It panics if the index is outside of [0, width).
func (b *BitSet) Set(index int) {
	byteIndex, bitMask := b.bitPosition(index)
	b.data[byteIndex] |= bitMask
}

// Test returns true if the bit at the given index is set. It panics if the index is outside of [0, width).
func (b *BitSet) Test(index int) bool {
	byteIndex, bitMask := b.bitPosition(index)

	return b.data[byteIndex]&bitMask != 0
}

// Or merges the bits of the other BitSet into this one (bitwise OR). The widths of the two BitSets have to match.
func (b *BitSet) Or(other *BitSet) (err error) {
	if b.width != other.width {
		err = xerrors.Errorf("width %d != width %d: %w", b.width, other.width, ErrWidthMismatch)
		return
	}

	for i, otherByte := range other.data {
		b.data[i] |= otherByte
	}

	return
}

// Equal returns true if the other BitSet has the same width and the same bits set.
func (b *BitSet) Equal(other *BitSet) bool {
	if other == nil {
		return false
	}

	return b.width == other.width && bytes.Equal(b.data, other.data)
}

// Clone returns an independent copy of the BitSet.
func (b *BitSet) Clone() (clone *BitSet) {
	clone = &BitSet{
		width: b.width,
		data:  make([]byte, len(b.data)),
	}
	copy(clone.data, b.data)

	return
}

// Bytes returns a marshaled version of the BitSet.
func (b *BitSet) Bytes() []byte {
	return marshalutil.New(len(b.data)).WriteBytes(b.data).Bytes()
}

// String returns a human-readable version of the BitSet.
func (b *BitSet) String() string {
	return stringify.Struct("BitSet",
		stringify.StructField("width", fmt.Sprint(b.width)),
		stringify.StructField("data", hex.EncodeToString(b.data)),
	)
}

// bitPosition translates a bit index into the offset of its byte and the mask of its bit within that byte.
func (b *BitSet) bitPosition(index int) (byteIndex int, bitMask byte) {
	if index < 0 || index >= b.width {
		panic(fmt.Sprintf("bit index %d out of range [0, %d)", index, b.width))
	}

	return index >> 3, 0x80 >> (index & 7)
}

// bitSetByteSize returns the number of bytes needed to pack the given number of bits.
func bitSetByteSize(width int) int {
	return (width + 7) / 8
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
