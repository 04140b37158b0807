package bloomfilter

import (
	"encoding/binary"
	"fmt"

	"github.com/iotaledger/hive.go/byteutils"
	"github.com/iotaledger/hive.go/stringify"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/xerrors"
)

// region Projector ////////////////////////////////////////////////////////////////////////////////////////////////////

// Projector is one member of the filter's hash family: a deterministic function that maps a digest to a single bit
// index in [0, width). Projectors with distinct ordinals behave as independent hash functions over the same input,
// which is the property that bounds the false positive rate of the filter.
//
// The bit index derivation is a cross-node protocol constant and must never change without a protocol version bump:
// the index is the big-endian uint64 read from the first 8 bytes of BLAKE2b-256(ordinal || digest), reduced by
// bit-masking if the width is a power of two and modulo the width otherwise.
type Projector struct {
	ordinal uint8
	width   int
	mask    uint64
}

// NewProjector creates a Projector for the given ordinal and output width.
func NewProjector(ordinal uint8, width int) (projector Projector, err error) {
	if width <= 0 {
		err = xerrors.Errorf("width %d: %w", width, ErrInvalidWidth)
		return
	}

	projector = Projector{
		ordinal: ordinal,
		width:   width,
	}
	if width&(width-1) == 0 {
		projector.mask = uint64(width - 1)
	}

	return
}

// NewProjectorFamily creates count Projectors with the ordinals 0..count-1, all sharing the same output width.
func NewProjectorFamily(count int, width int) (projectors []Projector, err error) {
	if count <= 0 || count > 256 {
		err = xerrors.Errorf("projector count %d: %w", count, ErrInvalidConfiguration)
		return
	}

	projectors = make([]Projector, count)
	for i := 0; i < count; i++ {
		if projectors[i], err = NewProjector(uint8(i), width); err != nil {
			err = xerrors.Errorf("failed to create Projector %d: %w", i, err)
			return
		}
	}

	return
}

// Ordinal returns the ordinal that distinguishes this Projector from the other members of its family.
func (p Projector) Ordinal() uint8 {
	return p.ordinal
}

// Width returns the size of the output index space.
func (p Projector) Width() int {
	return p.width
}

// Index maps the given digest to a bit index in [0, width). The mapping is deterministic across process restarts
// and across nodes.
func (p Projector) Index(digest []byte) int {
	projection := blake2b.Sum256(byteutils.ConcatBytes([]byte{p.ordinal}, digest))
	value := binary.BigEndian.Uint64(projection[:8])

	if p.mask != 0 {
		return int(value & p.mask)
	}

	return int(value % uint64(p.width))
}

// String returns a human-readable version of the Projector.
func (p Projector) String() string {
	return stringify.Struct("Projector",
		stringify.StructField("ordinal", fmt.Sprint(p.ordinal)),
		stringify.StructField("width", fmt.Sprint(p.width)),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
