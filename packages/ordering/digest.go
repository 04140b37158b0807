// Package ordering implements the deduplication core of the transaction ordering layer: an opaque transaction
// digest type, the protocol-wide proposal filter configuration and a Deduplicator service that tracks which
// transactions were already seen by this node or by its peers.
package ordering

import (
	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/xerrors"
)

// region Digest ///////////////////////////////////////////////////////////////////////////////////////////////////////

// DigestLength is the byte length of a transaction Digest.
const DigestLength = 32

// Digest is the fixed-width cryptographic hash that identifies a transaction or a batch in the ordering layer. It is
// an opaque value type: the ordering layer never interprets its content, it only derives bit projections from it.
type Digest [DigestLength]byte

// EmptyDigest is a Digest with all of its bytes set to zero.
var EmptyDigest Digest

// NewDigest computes the Digest of the given payload using BLAKE2b-256.
func NewDigest(payload []byte) Digest {
	return blake2b.Sum256(payload)
}

// DigestFromBytes unmarshals a Digest from a sequence of bytes.
func DigestFromBytes(digestBytes []byte) (digest Digest, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(digestBytes)
	if digest, err = DigestFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse Digest from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// DigestFromBase58 creates a Digest from a base58 encoded string.
func DigestFromBase58(base58String string) (digest Digest, err error) {
	decodedBytes, err := base58.Decode(base58String)
	if err != nil {
		err = xerrors.Errorf("error while decoding base58 encoded Digest (%v): %w", err, cerrors.ErrBase58DecodeFailed)
		return
	}

	if digest, _, err = DigestFromBytes(decodedBytes); err != nil {
		err = xerrors.Errorf("failed to parse Digest from bytes: %w", err)
		return
	}

	return
}

// DigestFromMarshalUtil unmarshals a Digest using a MarshalUtil (for easier unmarshaling).
func DigestFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (digest Digest, err error) {
	digestBytes, err := marshalUtil.ReadBytes(DigestLength)
	if err != nil {
		err = xerrors.Errorf("failed to parse Digest (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	copy(digest[:], digestBytes)

	return
}

// Bytes returns the raw bytes of the Digest.
func (d Digest) Bytes() []byte {
	return d[:]
}

// Base58 returns a base58 encoded version of the Digest.
func (d Digest) Base58() string {
	return base58.Encode(d[:])
}

// String returns a human-readable version of the Digest.
func (d Digest) String() string {
	return "Digest(" + d.Base58() + ")"
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
