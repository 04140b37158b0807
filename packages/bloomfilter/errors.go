package bloomfilter

import "errors"

var (
	// ErrInvalidWidth is returned when constructing a BitSet with a non-positive bit width.
	ErrInvalidWidth = errors.New("bit width must be positive")

	// ErrWidthMismatch is returned when combining two BitSets of different widths.
	ErrWidthMismatch = errors.New("bit sets have different widths")

	// ErrInvalidConfiguration is returned when constructing a BloomFilter from an invalid Config.
	ErrInvalidConfiguration = errors.New("invalid bloom filter configuration")

	// ErrConfigMismatch is returned when merging two BloomFilters of different configurations.
	ErrConfigMismatch = errors.New("bloom filters have different configurations")
)
