package sigslot

import (
	"github.com/oklog/ulid/v2"
)

// Connection binds one slot host and slot callback to a signal. The
// binding is immutable for its lifetime; only the live flag changes, and
// only under the owning signal's policy lock.
type Connection[A any] struct {
	id   ulid.ULID
	host *SlotHost
	slot Slot[A]
	live bool
}

func newConnection[A any](host *SlotHost, slot Slot[A]) *Connection[A] {
	return &Connection[A]{
		id:   ulid.Make(),
		host: host,
		slot: slot,
		live: true,
	}
}

// ID identifies this connection. IDs sort in creation order, matching the
// connection's position among its siblings at connect time.
func (c *Connection[A]) ID() ulid.ULID {
	return c.id
}

// Target returns the bound slot host. Disconnect matches connections
// against it by identity.
func (c *Connection[A]) Target() *SlotHost {
	return c.host
}

func (c *Connection[A]) invoke(arg A) error {
	return c.slot(arg)
}
