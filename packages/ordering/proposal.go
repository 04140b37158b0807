package ordering

import (
	"strconv"

	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"
	"golang.org/x/xerrors"

	"github.com/SamHSmith/iroha/packages/bloomfilter"
)

// region Proposal /////////////////////////////////////////////////////////////////////////////////////////////////////

// Proposal is the candidate ordered batch this node hands to the consensus layer. Next to the ordered digests it
// embeds a snapshot of the window filter, so a receiving peer can merge the filter and compute its own proposal
// without the transactions listed here.
type Proposal struct {
	digests []Digest
	filter  *bloomfilter.BloomFilter
}

// NewProposal creates a Proposal from the given ordered digests and window filter snapshot.
func NewProposal(digests []Digest, filter *bloomfilter.BloomFilter) *Proposal {
	return &Proposal{
		digests: digests,
		filter:  filter,
	}
}

// ProposalFromBytes unmarshals a Proposal from a sequence of bytes. The filter configuration is the out-of-band
// protocol constant of the sender.
func ProposalFromBytes(proposalBytes []byte, conf bloomfilter.Config) (proposal *Proposal, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(proposalBytes)
	if proposal, err = ProposalFromMarshalUtil(marshalUtil, conf); err != nil {
		err = xerrors.Errorf("failed to parse Proposal from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// ProposalFromMarshalUtil unmarshals a Proposal using a MarshalUtil (for easier unmarshaling).
func ProposalFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil, conf bloomfilter.Config) (proposal *Proposal, err error) {
	proposal = &Proposal{}

	digestCount, err := marshalUtil.ReadUint16()
	if err != nil {
		err = xerrors.Errorf("failed to parse digest count (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	proposal.digests = make([]Digest, digestCount)
	for i := range proposal.digests {
		if proposal.digests[i], err = DigestFromMarshalUtil(marshalUtil); err != nil {
			err = xerrors.Errorf("failed to parse Digest from MarshalUtil: %w", err)
			return
		}
	}

	if proposal.filter, err = bloomfilter.BloomFilterFromMarshalUtil(marshalUtil, conf); err != nil {
		err = xerrors.Errorf("failed to parse BloomFilter from MarshalUtil: %w", err)
		return
	}

	return
}

// Digests returns the ordered digests of the Proposal.
func (p *Proposal) Digests() []Digest {
	return p.digests
}

// Filter returns the embedded window filter snapshot.
func (p *Proposal) Filter() *bloomfilter.BloomFilter {
	return p.filter
}

// Bytes returns a marshaled version of the Proposal.
func (p *Proposal) Bytes() []byte {
	marshalUtil := marshalutil.New()
	marshalUtil.WriteUint16(uint16(len(p.digests)))
	for _, digest := range p.digests {
		marshalUtil.WriteBytes(digest.Bytes())
	}
	marshalUtil.WriteBytes(p.filter.Bytes())

	return marshalUtil.Bytes()
}

// String returns a human-readable version of the Proposal.
func (p *Proposal) String() string {
	structBuilder := stringify.StructBuilder("Proposal")
	for i, digest := range p.digests {
		structBuilder.AddField(stringify.StructField(strconv.Itoa(i), digest))
	}
	structBuilder.AddField(stringify.StructField("filter", p.filter))

	return structBuilder.String()
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
