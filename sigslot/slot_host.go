package sigslot

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/krew-solutions/sigslot-go/sigslot/locking"
)

// ErrHostDisposed is returned when connecting to a slot host that has
// already been torn down.
var ErrHostDisposed = errors.New("sigslot: slot host disposed")

// backref is one entry in the host's sender registry. seq carries the
// order in which the owning signal serialized the updates for this
// relation: back-reference updates run after the signal lock is released,
// so two of them can arrive in the wrong order, and an update whose seq
// is not newer than the recorded one must be dropped instead of
// resurrecting state the signal has already replaced. A present=false
// entry stays behind as the seq guard for the relation.
type backref struct {
	seq     uint64
	present bool
}

// SlotHost is the receiver-side half of the lifecycle protocol. A
// receiver object owns one and passes it to Connect; every signal holding
// a connection to the host appears exactly once in the host's
// back-reference set, however many connections target it. Back-references
// exist only for teardown and are never consulted during dispatch.
type SlotHost struct {
	id       uuid.UUID
	policy   locking.Policy
	senders  map[signalControl]backref
	disposed bool
}

// NewSlotHost creates a host. The policy is optional and defaults to a
// per-instance lock.
func NewSlotHost(policy ...locking.Policy) *SlotHost {
	return &SlotHost{
		id:      uuid.New(),
		policy:  resolvePolicy(policy),
		senders: make(map[signalControl]backref),
	}
}

func (h *SlotHost) ID() uuid.UUID {
	return h.id
}

func (h *SlotHost) String() string {
	return "slothost:" + h.id.String()
}

// SenderCount reports how many distinct signals currently reference this
// host.
func (h *SlotHost) SenderCount() int {
	h.policy.Acquire()
	defer h.policy.Release()
	count := 0
	for _, ref := range h.senders {
		if ref.present {
			count++
		}
	}
	return count
}

// Dispose severs every connection targeting this host on every signal
// that references it, then clears the back-reference set. Idempotent. A
// disposed host refuses new connections.
func (h *SlotHost) Dispose() {
	h.policy.Acquire()
	if h.disposed {
		h.policy.Release()
		return
	}
	h.disposed = true
	senders := make([]signalControl, 0, len(h.senders))
	for s, ref := range h.senders {
		if ref.present {
			senders = append(senders, s)
		}
	}
	h.senders = make(map[signalControl]backref)
	h.policy.Release()

	// The host lock is not held here: each signal takes its own lock
	// first and only then calls back into dropBackref, keeping the
	// signal-before-host acquisition discipline uniform.
	for _, s := range senders {
		s.disconnectHost(h)
	}
}

// addBackref records that sender references this host. The signal calls
// this after appending the connection and releasing its own lock, with
// the seq it allocated while the lock was still held.
func (h *SlotHost) addBackref(sender signalControl, seq uint64) error {
	h.policy.Acquire()
	defer h.policy.Release()
	if h.disposed {
		return ErrHostDisposed
	}
	if prev, ok := h.senders[sender]; ok && prev.seq >= seq {
		// a newer update for this relation already landed
		return nil
	}
	h.senders[sender] = backref{seq: seq, present: true}
	return nil
}

// dropBackref records that sender no longer references this host.
func (h *SlotHost) dropBackref(sender signalControl, seq uint64) {
	h.policy.Acquire()
	defer h.policy.Release()
	if h.disposed {
		return
	}
	if prev, ok := h.senders[sender]; ok && prev.seq >= seq {
		return
	}
	h.senders[sender] = backref{seq: seq, present: false}
}
