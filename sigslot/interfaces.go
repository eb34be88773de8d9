package sigslot

import (
	"github.com/krew-solutions/sigslot-go/sigslot/disposable"
)

// Slot is a callback bound into a connection. The argument shape A is
// fixed at connect time; the compiler rejects a slot whose shape does not
// match the signal's. An error returned by a slot propagates out of Emit
// and stops the remaining dispatch of that call.
type Slot[A any] func(A) error

// Signal is an emitter holding an ordered list of connections. Insertion
// order is dispatch order.
type Signal[A any] interface {
	Connect(host *SlotHost, slot Slot[A]) (disposable.Disposable, error)
	Disconnect(host *SlotHost)
	DisconnectAll()
	Emit(arg A) error
}

// signalControl is the shape-erased view a SlotHost keeps of a signal
// that targets it. Pointer identity of the implementation dedupes the
// host's back-reference set.
type signalControl interface {
	disconnectHost(host *SlotHost)
}

// Void is the argument shape of a signal that carries no payload.
type Void struct{}

// Args2 is the argument shape of a two-argument signal.
type Args2[T1, T2 any] struct {
	Arg1 T1
	Arg2 T2
}

// Args3 is the argument shape of a three-argument signal.
type Args3[T1, T2, T3 any] struct {
	Arg1 T1
	Arg2 T2
	Arg3 T3
}
