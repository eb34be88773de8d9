package sigslot

import (
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	"github.com/krew-solutions/sigslot-go/sigslot/disposable"
	"github.com/krew-solutions/sigslot-go/sigslot/locking"
)

// ErrSignalDisposed is returned when connecting to or emitting on a
// signal that has been torn down, including a signal torn down by one of
// its own slots while a dispatch is in progress.
var ErrSignalDisposed = errors.New("sigslot: signal disposed")

// SignalImp is the emitter. Connections are kept in insertion order; the
// list is replaced, never mutated in place, so dispatch snapshots stay
// valid while connects and disconnects race against them. backrefSeq
// numbers every back-reference update in the order the signal lock
// serialized it, so hosts can drop updates overtaken while in flight.
type SignalImp[A any] struct {
	policy     locking.Policy
	conns      []*Connection[A]
	backrefSeq uint64
	disposed   bool
}

// NewSignal creates a signal emitting argument shape A. The policy is
// optional and defaults to a per-instance lock.
func NewSignal[A any](policy ...locking.Policy) *SignalImp[A] {
	return &SignalImp[A]{policy: resolvePolicy(policy)}
}

func resolvePolicy(policy []locking.Policy) locking.Policy {
	if len(policy) > 0 && policy[0] != nil {
		return policy[0]
	}
	return locking.NewLocal()
}

// Connect appends a connection to host's slot at the end of the dispatch
// order and registers this signal in the host's back-reference set. The
// same host and slot may be connected more than once; each call yields an
// independent connection invoked once per Emit. The returned handle
// severs exactly the connection it was returned for.
//
// The signal lock is taken and released before the host lock: no
// operation in this package ever holds both policies at once. A teardown
// that slips between the append and the back-reference registration has
// already seen the connection and issued a newer back-reference removal,
// so only the result needs correcting here: Connect reports
// ErrSignalDisposed instead of success.
func (s *SignalImp[A]) Connect(host *SlotHost, slot Slot[A]) (disposable.Disposable, error) {
	conn := newConnection(host, slot)

	s.policy.Acquire()
	if s.disposed {
		s.policy.Release()
		return nil, ErrSignalDisposed
	}
	s.conns = append(s.conns, conn)
	s.backrefSeq++
	seq := s.backrefSeq
	s.policy.Release()

	if err := host.addBackref(s, seq); err != nil {
		// the host refused the back-reference, take the connection out
		s.DisconnectByID(conn.id)
		return nil, err
	}

	s.policy.Acquire()
	disposed := s.disposed
	s.policy.Release()
	if disposed {
		return nil, ErrSignalDisposed
	}

	id := conn.id
	return disposable.NewDisposable(func() {
		s.DisconnectByID(id)
	}), nil
}

// Disconnect removes every connection targeting host, preserving the
// relative order of connections to other hosts, and drops host's
// back-reference to this signal. A host with no matching connections is a
// no-op. A nil host removes everything, like DisconnectAll.
func (s *SignalImp[A]) Disconnect(host *SlotHost) {
	if host == nil {
		s.DisconnectAll()
		return
	}

	s.policy.Acquire()
	kept := make([]*Connection[A], 0, len(s.conns))
	removed := false
	for _, c := range s.conns {
		if c.host == host {
			c.live = false
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if !removed {
		s.policy.Release()
		return
	}
	s.conns = kept
	s.backrefSeq++
	seq := s.backrefSeq
	s.policy.Release()

	host.dropBackref(s, seq)
}

// DisconnectByID removes the single connection carrying id, if present.
// When that was the last connection targeting its host, the host's
// back-reference is dropped as well.
func (s *SignalImp[A]) DisconnectByID(id ulid.ULID) {
	s.policy.Acquire()
	var dropped *Connection[A]
	kept := make([]*Connection[A], 0, len(s.conns))
	for _, c := range s.conns {
		if dropped == nil && c.id == id {
			c.live = false
			dropped = c
			continue
		}
		kept = append(kept, c)
	}
	if dropped == nil {
		s.policy.Release()
		return
	}
	s.conns = kept
	hostStillReferenced := false
	for _, c := range kept {
		if c.host == dropped.host {
			hostStillReferenced = true
			break
		}
	}
	s.backrefSeq++
	seq := s.backrefSeq
	s.policy.Release()

	if !hostStillReferenced {
		dropped.host.dropBackref(s, seq)
	}
}

// DisconnectAll removes every connection and drops this signal from every
// referenced host's back-reference set. The signal remains usable.
func (s *SignalImp[A]) DisconnectAll() {
	hosts, seq := s.detachAll(false)
	for _, host := range hosts {
		host.dropBackref(s, seq)
	}
}

// Dispose is the teardown counterpart of the emitter being destroyed:
// every connection is released, every referenced host drops its
// back-reference, and the signal permanently refuses Connect and Emit.
// Idempotent.
func (s *SignalImp[A]) Dispose() {
	hosts, seq := s.detachAll(true)
	for _, host := range hosts {
		host.dropBackref(s, seq)
	}
}

// detachAll empties the connection list under the signal lock and returns
// the distinct hosts whose back-references must be dropped, with the seq
// of the removal. Host notification happens at the callers, after the
// signal lock is released.
func (s *SignalImp[A]) detachAll(dispose bool) ([]*SlotHost, uint64) {
	s.policy.Acquire()
	defer s.policy.Release()
	if dispose {
		if s.disposed {
			return nil, 0
		}
		s.disposed = true
	}
	seen := make(map[*SlotHost]struct{}, len(s.conns))
	hosts := make([]*SlotHost, 0, len(s.conns))
	for _, c := range s.conns {
		c.live = false
		if _, ok := seen[c.host]; !ok {
			seen[c.host] = struct{}{}
			hosts = append(hosts, c.host)
		}
	}
	s.conns = nil
	s.backrefSeq++
	return hosts, s.backrefSeq
}

// Emit invokes every live connection in insertion order with arg,
// blocking until the last slot returns.
//
// The walk runs against a snapshot of the list taken under the signal
// lock, with each entry's liveness re-checked under a short
// re-acquisition immediately before its invocation. Slots run outside
// the lock, so a slot may disconnect itself, disconnect an entry the
// walk has not reached yet (it is then skipped), connect new slots (they
// wait for the next Emit), or emit again, under any locking policy,
// without deadlocking. The first slot error stops the walk and is
// returned to the caller unmodified; remaining entries are not invoked.
// A signal already disposed, or disposed by a slot mid-walk, yields
// ErrSignalDisposed.
func (s *SignalImp[A]) Emit(arg A) error {
	s.policy.Acquire()
	if s.disposed {
		s.policy.Release()
		return ErrSignalDisposed
	}
	snapshot := s.conns
	s.policy.Release()

	for _, conn := range snapshot {
		s.policy.Acquire()
		if s.disposed {
			s.policy.Release()
			return ErrSignalDisposed
		}
		live := conn.live
		s.policy.Release()
		if !live {
			continue
		}
		if err := conn.invoke(arg); err != nil {
			return err
		}
	}
	return nil
}

// Connections returns the current connections in dispatch order.
func (s *SignalImp[A]) Connections() []*Connection[A] {
	s.policy.Acquire()
	defer s.policy.Release()
	out := make([]*Connection[A], len(s.conns))
	copy(out, s.conns)
	return out
}

// ConnectionCount reports the number of live connections.
func (s *SignalImp[A]) ConnectionCount() int {
	s.policy.Acquire()
	defer s.policy.Release()
	return len(s.conns)
}

func (s *SignalImp[A]) disconnectHost(host *SlotHost) {
	s.Disconnect(host)
}
