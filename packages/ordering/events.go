package ordering

import (
	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/identity"
)

// region Events ///////////////////////////////////////////////////////////////////////////////////////////////////////

// Events contains all the events that are triggered by a Deduplicator.
type Events struct {
	// A DigestAdmitted event is triggered when a digest passes the duplicate check and enters the current window.
	DigestAdmitted *events.Event
	// A DuplicateDetected event is triggered when a digest is rejected because it is already known to the window or
	// to one of the merged peer filters. A small fraction of these rejections are false positives of the filter; the
	// authoritative storage lookup downstream is the safety net that disambiguates them.
	DuplicateDetected *events.Event
	// A RemoteFilterMerged event is triggered when a peer's serialized filter was decoded and merged successfully.
	RemoteFilterMerged *events.Event
	// A WindowRotated event is triggered when the current window filter is replaced by a fresh one.
	WindowRotated *events.Event
}

func newEvents() *Events {
	return &Events{
		DigestAdmitted:     events.NewEvent(digestEventCaller),
		DuplicateDetected:  events.NewEvent(digestEventCaller),
		RemoteFilterMerged: events.NewEvent(remoteFilterMergedCaller),
		WindowRotated:      events.NewEvent(windowRotatedCaller),
	}
}

// DigestEvent bundles the digest that was admitted or rejected.
type DigestEvent struct {
	Digest Digest
}

// RemoteFilterMergedEvent bundles the information of a merged peer filter.
type RemoteFilterMergedEvent struct {
	PeerID identity.ID
}

// WindowRotatedEvent bundles the statistics of the retired proposal window.
type WindowRotatedEvent struct {
	// AdmittedCount is the number of digests that entered the retired window.
	AdmittedCount uint64
	// RejectedCount is the number of digests that were rejected as duplicates during the retired window.
	RejectedCount uint64
}

func digestEventCaller(handler interface{}, params ...interface{}) {
	handler.(func(*DigestEvent))(params[0].(*DigestEvent))
}

func remoteFilterMergedCaller(handler interface{}, params ...interface{}) {
	handler.(func(*RemoteFilterMergedEvent))(params[0].(*RemoteFilterMergedEvent))
}

func windowRotatedCaller(handler interface{}, params ...interface{}) {
	handler.(func(*WindowRotatedEvent))(params[0].(*WindowRotatedEvent))
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
