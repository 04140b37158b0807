// Package bloomfilter implements the probabilistic membership filter used by
// the ordering layer to deduplicate transactions and to exchange compact
// set-difference information between ordering nodes.
//
// A BloomFilter composes a fixed-width BitSet with an ordered family of k
// Projectors. Inserting a digest sets the k bits selected by the projectors;
// a membership query reports true only if all k bits are set. The filter
// therefore never produces false negatives, while the false positive
// probability after n distinct inserts is approximately
//
//	(1 - e^(-k*n/W))^k
//
// where W is the bit width. Sizing W and k for the expected n is a capacity
// planning concern of the caller and is not enforced at runtime.
//
// The serialized form of a filter is the packed bit set only. The
// configuration (width, hash count, projector derivation scheme) is a
// protocol level constant that all communicating nodes must agree on
// out-of-band; a receiver that does not know the configuration cannot
// interpret the bytes.
package bloomfilter
