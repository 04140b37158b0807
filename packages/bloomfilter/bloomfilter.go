package bloomfilter

import (
	"fmt"

	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"
	"go.uber.org/atomic"
	"golang.org/x/xerrors"
)

// region Config ///////////////////////////////////////////////////////////////////////////////////////////////////////

// Config holds the static parameters of a BloomFilter. Two filters may only be merged or compared if they were
// created from the same Config; this is a caller-enforced precondition that communicating nodes agree on out-of-band.
type Config struct {
	// Width is the number of bits in the underlying BitSet.
	Width int
	// HashCount is the number of Projectors (bits set per inserted digest).
	HashCount int
}

// Validate returns an error if the Config cannot be used to construct a BloomFilter.
func (c Config) Validate() (err error) {
	if c.Width <= 0 {
		return xerrors.Errorf("width %d: %w", c.Width, ErrInvalidConfiguration)
	}
	if c.HashCount <= 0 || c.HashCount > 256 {
		return xerrors.Errorf("hash count %d: %w", c.HashCount, ErrInvalidConfiguration)
	}

	return nil
}

// ByteSize returns the length of the serialized form of a BloomFilter with this Config (the packed BitSet,
// ceil(Width/8) bytes).
func (c Config) ByteSize() int {
	return bitSetByteSize(c.Width)
}

// String returns a human-readable version of the Config.
func (c Config) String() string {
	return stringify.Struct("Config",
		stringify.StructField("width", fmt.Sprint(c.Width)),
		stringify.StructField("hashCount", fmt.Sprint(c.HashCount)),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region BloomFilter //////////////////////////////////////////////////////////////////////////////////////////////////

// BloomFilter is a probabilistic membership filter with no false negatives and a bounded false positive rate. It
// composes one fixed-width BitSet with an ordered family of Projectors.
//
// A filter instance expects a single mutator at a time: the owner either guards Insert with an exclusive lock or
// routes all inserts through one goroutine. Contains may run concurrently with other reads; running it concurrently
// with an in-progress Insert yields a momentarily stale but never falsely-negative view of completed inserts.
type BloomFilter struct {
	conf          Config
	bitSet        *BitSet
	projectors    []Projector
	insertedCount *atomic.Uint64
}

// New creates an empty BloomFilter from the given Config.
func New(conf Config) (bloomFilter *BloomFilter, err error) {
	if err = conf.Validate(); err != nil {
		err = xerrors.Errorf("failed to validate Config: %w", err)
		return
	}

	bitSet, err := NewBitSet(conf.Width)
	if err != nil {
		err = xerrors.Errorf("failed to create BitSet: %w", err)
		return
	}
	projectors, err := NewProjectorFamily(conf.HashCount, conf.Width)
	if err != nil {
		err = xerrors.Errorf("failed to create Projector family: %w", err)
		return
	}

	bloomFilter = &BloomFilter{
		conf:          conf,
		bitSet:        bitSet,
		projectors:    projectors,
		insertedCount: atomic.NewUint64(0),
	}

	return
}

// BloomFilterFromBytes unmarshals a BloomFilter of the given Config from a sequence of bytes. The bytes carry the
// packed BitSet only; the Config is a protocol constant that the receiver has to know in advance.
func BloomFilterFromBytes(filterBytes []byte, conf Config) (bloomFilter *BloomFilter, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(filterBytes)
	if bloomFilter, err = BloomFilterFromMarshalUtil(marshalUtil, conf); err != nil {
		err = xerrors.Errorf("failed to parse BloomFilter from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// BloomFilterFromMarshalUtil unmarshals a BloomFilter of the given Config using a MarshalUtil (for easier
// unmarshaling).
func BloomFilterFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil, conf Config) (bloomFilter *BloomFilter, err error) {
	if bloomFilter, err = New(conf); err != nil {
		err = xerrors.Errorf("failed to create BloomFilter: %w", err)
		return
	}
	if bloomFilter.bitSet, err = BitSetFromMarshalUtil(marshalUtil, conf.Width); err != nil {
		err = xerrors.Errorf("failed to parse BitSet from MarshalUtil: %w", err)
		return
	}

	return
}

// Config returns the static parameters the BloomFilter was created from.
func (b *BloomFilter) Config() Config {
	return b.conf
}

// Insert adds the given digest to the filter by setting the bit selected by each of its Projectors. Inserting the
// same digest again has no additional effect on the bits.
func (b *BloomFilter) Insert(digest []byte) {
	for _, projector := range b.projectors {
		b.bitSet.Set(projector.Index(digest))
	}
	b.insertedCount.Inc()
}

// Contains returns true if all of the digest's projected bits are set. A digest that was inserted is always reported
// as contained; a digest that was never inserted is reported as contained with the bounded false positive
// probability documented in the package description.
func (b *BloomFilter) Contains(digest []byte) bool {
	for _, projector := range b.projectors {
		if !b.bitSet.Test(projector.Index(digest)) {
			return false
		}
	}

	return true
}

// Merge returns a new BloomFilter whose membership is the union of the two input filters. Both inputs remain
// unchanged. The configurations of the two filters have to match.
func (b *BloomFilter) Merge(other *BloomFilter) (merged *BloomFilter, err error) {
	if b.conf != other.conf {
		err = xerrors.Errorf("%s != %s: %w", b.conf, other.conf, ErrConfigMismatch)
		return
	}

	merged = &BloomFilter{
		conf:          b.conf,
		bitSet:        b.bitSet.Clone(),
		projectors:    b.projectors,
		insertedCount: atomic.NewUint64(b.insertedCount.Load() + other.insertedCount.Load()),
	}
	if err = merged.bitSet.Or(other.bitSet); err != nil {
		err = xerrors.Errorf("failed to merge BitSets: %w", err)
		return
	}

	return
}

// Clear returns a fresh empty BloomFilter of the same configuration. The receiver is left unchanged, so a filter
// that is already shared with concurrent readers stays valid while its owner rotates to the fresh one.
func (b *BloomFilter) Clear() (cleared *BloomFilter) {
	cleared, err := New(b.conf)
	if err != nil {
		// unreachable: the receiver was created from the same Config
		panic(err)
	}

	return
}

// InsertedCount returns the number of Insert calls on this filter. It is a capacity-planning diagnostic and is not
// part of the serialized state.
func (b *BloomFilter) InsertedCount() uint64 {
	return b.insertedCount.Load()
}

// Equal returns true if the other BloomFilter has the same configuration and the same bits set.
func (b *BloomFilter) Equal(other *BloomFilter) bool {
	if other == nil {
		return false
	}

	return b.conf == other.conf && b.bitSet.Equal(other.bitSet)
}

// Bytes returns a marshaled version of the BloomFilter (the packed BitSet only, ceil(Width/8) bytes).
func (b *BloomFilter) Bytes() []byte {
	return b.bitSet.Bytes()
}

// String returns a human-readable version of the BloomFilter.
func (b *BloomFilter) String() string {
	return stringify.Struct("BloomFilter",
		stringify.StructField("config", b.conf),
		stringify.StructField("insertedCount", fmt.Sprint(b.insertedCount.Load())),
		stringify.StructField("bitSet", b.bitSet),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
