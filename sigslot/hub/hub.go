package hub

import (
	"reflect"

	"github.com/krew-solutions/sigslot-go/sigslot"
	"github.com/krew-solutions/sigslot-go/sigslot/disposable"
	"github.com/krew-solutions/sigslot-go/sigslot/locking"
)

// HubImp maps event types to signals, creating each signal lazily so
// application wiring can ask for "the signal for event E" instead of
// threading signal instances around.
type HubImp struct {
	policy    locking.Policy
	newPolicy func() locking.Policy
	signals   map[reflect.Type]hubSignal
}

type hubSignal interface {
	Dispose()
}

// NewHub creates a hub. The optional factory decides the locking policy
// of every signal the hub creates (and of the hub's own registry);
// per-instance locks by default.
func NewHub(newPolicy ...func() locking.Policy) *HubImp {
	factory := func() locking.Policy { return locking.NewLocal() }
	if len(newPolicy) > 0 && newPolicy[0] != nil {
		factory = newPolicy[0]
	}
	return &HubImp{
		policy:    factory(),
		newPolicy: factory,
		signals:   make(map[reflect.Type]hubSignal),
	}
}

// DisposeAll tears down every signal the hub has created and empties the
// registry. Signals requested afterwards are fresh instances.
func (h *HubImp) DisposeAll() {
	h.policy.Acquire()
	signals := make([]hubSignal, 0, len(h.signals))
	for _, s := range h.signals {
		signals = append(signals, s)
	}
	h.signals = make(map[reflect.Type]hubSignal)
	h.policy.Release()

	for _, s := range signals {
		s.Dispose()
	}
}

// --- Typed free functions ---
// Methods cannot carry type parameters, so the typed surface is free
// functions over the hub, as elsewhere in this codebase.

// Signal returns the hub's signal for event type E, creating it on first
// use.
func Signal[E any](h *HubImp) *sigslot.SignalImp[E] {
	eventType := reflect.TypeOf((*E)(nil)).Elem()
	h.policy.Acquire()
	defer h.policy.Release()
	if s, ok := h.signals[eventType]; ok {
		return s.(*sigslot.SignalImp[E])
	}
	s := sigslot.NewSignal[E](h.newPolicy())
	h.signals[eventType] = s
	return s
}

// Connect binds host's slot to the hub's signal for event type E.
func Connect[E any](h *HubImp, host *sigslot.SlotHost, slot sigslot.Slot[E]) (disposable.Disposable, error) {
	return Signal[E](h).Connect(host, slot)
}

// Emit dispatches event on the hub's signal for its type.
func Emit[E any](h *HubImp, event E) error {
	return Signal[E](h).Emit(event)
}
