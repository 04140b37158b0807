package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposal_BytesRoundTrip(t *testing.T) {
	digests := []Digest{
		NewDigest([]byte("tx1")),
		NewDigest([]byte("tx2")),
		NewDigest([]byte("tx3")),
	}
	filter := NewProposalFilter()
	for _, digest := range digests {
		filter.Insert(digest.Bytes())
	}

	proposal := NewProposal(digests, filter)
	proposalBytes := proposal.Bytes()

	restored, consumedBytes, err := ProposalFromBytes(proposalBytes, DefaultFilterConfig())
	require.NoError(t, err)
	assert.Equal(t, len(proposalBytes), consumedBytes)
	assert.Equal(t, digests, restored.Digests())
	assert.True(t, filter.Equal(restored.Filter()))
}

func TestProposal_EmptyDigests(t *testing.T) {
	proposal := NewProposal(nil, NewProposalFilter())

	restored, _, err := ProposalFromBytes(proposal.Bytes(), DefaultFilterConfig())
	require.NoError(t, err)
	assert.Empty(t, restored.Digests())
	assert.True(t, NewProposalFilter().Equal(restored.Filter()))
}

func TestProposalFromBytes_Truncated(t *testing.T) {
	proposal := NewProposal([]Digest{NewDigest([]byte("tx1"))}, NewProposalFilter())
	proposalBytes := proposal.Bytes()

	_, _, err := ProposalFromBytes(proposalBytes[:len(proposalBytes)-5], DefaultFilterConfig())
	assert.Error(t, err)
}
