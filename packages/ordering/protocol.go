package ordering

import (
	"github.com/SamHSmith/iroha/packages/bloomfilter"
)

// The proposal filter configuration is a protocol level constant: every ordering node derives bit indices the same
// way, so serialized filters stay meaningful across the network. Changing any of these values is a breaking protocol
// change for all participants.
const (
	// FilterWidth is the bit width of the proposal filter.
	FilterWidth = 256

	// FilterHashCount is the number of hash projections per digest.
	FilterHashCount = 4
)

// DefaultFilterConfig returns the protocol-wide proposal filter configuration.
func DefaultFilterConfig() bloomfilter.Config {
	return bloomfilter.Config{
		Width:     FilterWidth,
		HashCount: FilterHashCount,
	}
}

// NewProposalFilter creates an empty BloomFilter with the protocol-wide proposal filter configuration.
func NewProposalFilter() *bloomfilter.BloomFilter {
	proposalFilter, err := bloomfilter.New(DefaultFilterConfig())
	if err != nil {
		// unreachable: the protocol constants form a valid configuration
		panic(err)
	}

	return proposalFilter
}
