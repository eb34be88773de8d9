package locking

// Policy is the mutual exclusion capability a signal or slot host is
// constructed with. It is a strategy object, not a base type: signal and
// host logic is identical under every implementation.
type Policy interface {
	Acquire()
	Release()
}
