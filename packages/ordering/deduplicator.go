package ordering

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/identity"
	"github.com/iotaledger/hive.go/logger"
	"go.uber.org/atomic"

	"github.com/SamHSmith/iroha/packages/bloomfilter"
)

// region Deduplicator /////////////////////////////////////////////////////////////////////////////////////////////////

// Deduplicator is the core entity of the ordering deduplication service. It owns the rolling proposal-window filter
// that represents the transactions this node already admitted, plus one merged filter per peer representing the
// transactions that peer already proposes. The ordering pipeline calls Admit for every candidate transaction and
// periodically ships FilterBytes to the peers, so that they can skip re-proposing already-seen transactions.
//
// All mutations run under an internal exclusive lock, which realizes the single-writer discipline the filter
// requires. Read-only queries share a read lock.
type Deduplicator struct {
	// Events contains the events that are triggered by the Deduplicator.
	Events *Events

	conf bloomfilter.Config
	log  *logger.Logger

	mutex         sync.RWMutex
	window        *bloomfilter.BloomFilter
	remoteFilters map[identity.ID]*bloomfilter.BloomFilter

	admittedCount *atomic.Uint64
	rejectedCount *atomic.Uint64
}

// NewDeduplicator creates a Deduplicator that builds its filters from the given configuration.
func NewDeduplicator(conf bloomfilter.Config, log *logger.Logger) (*Deduplicator, error) {
	window, err := bloomfilter.New(conf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create window filter")
	}

	return &Deduplicator{
		Events:        newEvents(),
		conf:          conf,
		log:           log,
		window:        window,
		remoteFilters: map[identity.ID]*bloomfilter.BloomFilter{},
		admittedCount: atomic.NewUint64(0),
		rejectedCount: atomic.NewUint64(0),
	}, nil
}

// Admit checks the given digest against the current window and the merged peer filters and, if it is unknown,
// inserts it into the window. It returns false if the digest was rejected as a duplicate.
func (d *Deduplicator) Admit(digest Digest) bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.isKnown(digest) {
		d.rejectedCount.Inc()
		d.log.Debugw("rejected duplicate transaction digest", "digest", digest)
		d.Events.DuplicateDetected.Trigger(&DigestEvent{Digest: digest})
		return false
	}

	d.window.Insert(digest.Bytes())
	d.admittedCount.Inc()
	d.Events.DigestAdmitted.Trigger(&DigestEvent{Digest: digest})

	return true
}

// Known returns true if the digest is already present in the current window or in one of the merged peer filters.
// A true result may be a false positive of the filter; a false result is authoritative.
func (d *Deduplicator) Known(digest Digest) bool {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return d.isKnown(digest)
}

// MergeRemoteFilter decodes the serialized filter received from the given peer and merges it into the state tracked
// for that peer. A size or decode failure means the peer runs an incompatible protocol version or sent a corrupted
// message; the caller should discard the message and leave the peer handling to a higher layer.
func (d *Deduplicator) MergeRemoteFilter(peerID identity.ID, filterBytes []byte) error {
	if expectedSize := d.conf.ByteSize(); len(filterBytes) != expectedSize {
		return errors.Wrapf(bloomfilter.ErrConfigMismatch,
			"peer filter has %d bytes, expected %d", len(filterBytes), expectedSize)
	}

	remoteFilter, _, err := bloomfilter.BloomFilterFromBytes(filterBytes, d.conf)
	if err != nil {
		return errors.Wrap(err, "failed to parse peer filter")
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if existingFilter, exists := d.remoteFilters[peerID]; exists {
		if remoteFilter, err = existingFilter.Merge(remoteFilter); err != nil {
			return errors.Wrap(err, "failed to merge peer filter")
		}
	}
	d.remoteFilters[peerID] = remoteFilter

	d.log.Infow("merged remote proposal filter", "peerId", peerID)
	d.Events.RemoteFilterMerged.Trigger(&RemoteFilterMergedEvent{PeerID: peerID})

	return nil
}

// FilterBytes returns a serialized snapshot of the current window filter, ready to be embedded in outbound gossip or
// proposal metadata.
func (d *Deduplicator) FilterBytes() []byte {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return d.window.Bytes()
}

// SelectForProposal returns the candidates that none of the merged peer filters claims to know. The returned digests
// are the ones worth including in this node's next proposal.
func (d *Deduplicator) SelectForProposal(candidates []Digest) (selected []Digest) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	selected = make([]Digest, 0, len(candidates))
nextCandidate:
	for _, candidate := range candidates {
		for _, remoteFilter := range d.remoteFilters {
			if remoteFilter.Contains(candidate.Bytes()) {
				continue nextCandidate
			}
		}
		selected = append(selected, candidate)
	}

	return
}

// Rotate replaces the current window filter with a fresh empty one and drops the merged peer filters. The ordering
// pipeline calls it once per proposal round; it is the only way to clear a filter, since per-bit clears would break
// the no-false-negative guarantee for overlapping digests.
func (d *Deduplicator) Rotate() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	admittedCount := d.admittedCount.Swap(0)
	rejectedCount := d.rejectedCount.Swap(0)

	d.window = d.window.Clear()
	d.remoteFilters = map[identity.ID]*bloomfilter.BloomFilter{}

	d.log.Infow("rotated proposal window", "admitted", admittedCount, "rejected", rejectedCount)
	d.Events.WindowRotated.Trigger(&WindowRotatedEvent{
		AdmittedCount: admittedCount,
		RejectedCount: rejectedCount,
	})
}

// AdmittedCount returns the number of digests admitted into the current window.
func (d *Deduplicator) AdmittedCount() uint64 {
	return d.admittedCount.Load()
}

// RejectedCount returns the number of digests rejected as duplicates during the current window.
func (d *Deduplicator) RejectedCount() uint64 {
	return d.rejectedCount.Load()
}

func (d *Deduplicator) isKnown(digest Digest) bool {
	if d.window.Contains(digest.Bytes()) {
		return true
	}
	for _, remoteFilter := range d.remoteFilters {
		if remoteFilter.Contains(digest.Bytes()) {
			return true
		}
	}

	return false
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
