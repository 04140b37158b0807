package ordering

import (
	"testing"

	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/identity"
	"github.com/iotaledger/hive.go/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamHSmith/iroha/packages/bloomfilter"
)

var testLog = logger.NewExampleLogger("ordering")

func newTestDeduplicator(t *testing.T) *Deduplicator {
	deduplicator, err := NewDeduplicator(DefaultFilterConfig(), testLog)
	require.NoError(t, err)
	return deduplicator
}

func TestDeduplicator_AdmitRejectsDuplicates(t *testing.T) {
	deduplicator := newTestDeduplicator(t)
	digest := NewDigest([]byte("tx1"))

	assert.False(t, deduplicator.Known(digest))
	assert.True(t, deduplicator.Admit(digest))
	assert.True(t, deduplicator.Known(digest))
	assert.False(t, deduplicator.Admit(digest))

	assert.EqualValues(t, 1, deduplicator.AdmittedCount())
	assert.EqualValues(t, 1, deduplicator.RejectedCount())
}

func TestDeduplicator_Events(t *testing.T) {
	deduplicator := newTestDeduplicator(t)

	var admitted, rejected []Digest
	deduplicator.Events.DigestAdmitted.Attach(events.NewClosure(func(event *DigestEvent) {
		admitted = append(admitted, event.Digest)
	}))
	deduplicator.Events.DuplicateDetected.Attach(events.NewClosure(func(event *DigestEvent) {
		rejected = append(rejected, event.Digest)
	}))

	tx1 := NewDigest([]byte("tx1"))
	tx2 := NewDigest([]byte("tx2"))
	deduplicator.Admit(tx1)
	deduplicator.Admit(tx2)
	deduplicator.Admit(tx1)

	assert.Equal(t, []Digest{tx1, tx2}, admitted)
	assert.Equal(t, []Digest{tx1}, rejected)
}

func TestDeduplicator_Rotate(t *testing.T) {
	deduplicator := newTestDeduplicator(t)

	var rotatedEvents []*WindowRotatedEvent
	deduplicator.Events.WindowRotated.Attach(events.NewClosure(func(event *WindowRotatedEvent) {
		rotatedEvents = append(rotatedEvents, event)
	}))

	digest := NewDigest([]byte("tx1"))
	assert.True(t, deduplicator.Admit(digest))
	assert.False(t, deduplicator.Admit(digest))

	deduplicator.Rotate()

	// a fresh window no longer knows the digest
	assert.False(t, deduplicator.Known(digest))
	assert.True(t, deduplicator.Admit(digest))

	require.Len(t, rotatedEvents, 1)
	assert.EqualValues(t, 1, rotatedEvents[0].AdmittedCount)
	assert.EqualValues(t, 1, rotatedEvents[0].RejectedCount)
	assert.EqualValues(t, 1, deduplicator.AdmittedCount())
	assert.EqualValues(t, 0, deduplicator.RejectedCount())
}

func TestDeduplicator_MergeRemoteFilter(t *testing.T) {
	deduplicator := newTestDeduplicator(t)
	peerID := identity.GenerateIdentity().ID()

	var mergedEvents []*RemoteFilterMergedEvent
	deduplicator.Events.RemoteFilterMerged.Attach(events.NewClosure(func(event *RemoteFilterMergedEvent) {
		mergedEvents = append(mergedEvents, event)
	}))

	remoteDigest := NewDigest([]byte("remote-tx"))
	remoteFilter := NewProposalFilter()
	remoteFilter.Insert(remoteDigest.Bytes())

	require.NoError(t, deduplicator.MergeRemoteFilter(peerID, remoteFilter.Bytes()))
	require.Len(t, mergedEvents, 1)
	assert.Equal(t, peerID, mergedEvents[0].PeerID)

	// a digest the peer already proposes is a duplicate here
	assert.True(t, deduplicator.Known(remoteDigest))
	assert.False(t, deduplicator.Admit(remoteDigest))

	// merging again with more content unions into the tracked peer state
	otherDigest := NewDigest([]byte("remote-tx-2"))
	otherFilter := NewProposalFilter()
	otherFilter.Insert(otherDigest.Bytes())
	require.NoError(t, deduplicator.MergeRemoteFilter(peerID, otherFilter.Bytes()))
	assert.True(t, deduplicator.Known(remoteDigest))
	assert.True(t, deduplicator.Known(otherDigest))
}

func TestDeduplicator_MergeRemoteFilter_SizeMismatch(t *testing.T) {
	deduplicator := newTestDeduplicator(t)
	peerID := identity.GenerateIdentity().ID()

	err := deduplicator.MergeRemoteFilter(peerID, make([]byte, 7))
	assert.ErrorIs(t, err, bloomfilter.ErrConfigMismatch)

	err = deduplicator.MergeRemoteFilter(peerID, make([]byte, DefaultFilterConfig().ByteSize()+1))
	assert.ErrorIs(t, err, bloomfilter.ErrConfigMismatch)
}

func TestDeduplicator_SelectForProposal(t *testing.T) {
	deduplicator := newTestDeduplicator(t)
	peerID := identity.GenerateIdentity().ID()

	peerKnown := NewDigest([]byte("tx-peer"))
	localOnly1 := NewDigest([]byte("tx-local-1"))
	localOnly2 := NewDigest([]byte("tx-local-2"))

	remoteFilter := NewProposalFilter()
	remoteFilter.Insert(peerKnown.Bytes())
	require.NoError(t, deduplicator.MergeRemoteFilter(peerID, remoteFilter.Bytes()))

	selected := deduplicator.SelectForProposal([]Digest{localOnly1, peerKnown, localOnly2})
	assert.Equal(t, []Digest{localOnly1, localOnly2}, selected)
}

func TestDeduplicator_FilterBytesRoundTrip(t *testing.T) {
	deduplicator := newTestDeduplicator(t)
	tx1 := NewDigest([]byte("tx1"))
	tx2 := NewDigest([]byte("tx2"))
	deduplicator.Admit(tx1)
	deduplicator.Admit(tx2)

	// a peer reconstructing the filter from the snapshot sees the same membership
	restored, _, err := bloomfilter.BloomFilterFromBytes(deduplicator.FilterBytes(), DefaultFilterConfig())
	require.NoError(t, err)
	assert.True(t, restored.Contains(tx1.Bytes()))
	assert.True(t, restored.Contains(tx2.Bytes()))
	assert.False(t, restored.Contains(NewDigest([]byte("tx3")).Bytes()))
}
