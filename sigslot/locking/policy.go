package locking

import "sync"

// NoOpPolicy performs no locking. Valid only when every signal and slot
// host is used from a single goroutine.
type NoOpPolicy struct{}

func NewNoOp() *NoOpPolicy {
	return &NoOpPolicy{}
}

func (*NoOpPolicy) Acquire() {}

func (*NoOpPolicy) Release() {}

var globalMutex sync.Mutex

// GlobalPolicy serializes every operation in the process through one
// shared mutex. All instances behave as aliases of the same lock.
type GlobalPolicy struct{}

func NewGlobal() *GlobalPolicy {
	return &GlobalPolicy{}
}

func (*GlobalPolicy) Acquire() {
	globalMutex.Lock()
}

func (*GlobalPolicy) Release() {
	globalMutex.Unlock()
}

// LocalPolicy gives its owner a private mutex. Contention only occurs on
// the instances actually shared between goroutines.
type LocalPolicy struct {
	mutex sync.Mutex
}

func NewLocal() *LocalPolicy {
	return &LocalPolicy{}
}

func (p *LocalPolicy) Acquire() {
	p.mutex.Lock()
}

func (p *LocalPolicy) Release() {
	p.mutex.Unlock()
}

// With runs callback with the policy held, releasing on every exit path
// including panic.
func With(p Policy, callback func()) {
	p.Acquire()
	defer p.Release()
	callback()
}
