package disposable

import "sync"

// Disposable is a handle that undoes a registration when disposed.
type Disposable interface {
	Dispose()
}

type DisposableImp struct {
	once     sync.Once
	callback func()
}

// NewDisposable wraps callback into a handle that invokes it at most once.
func NewDisposable(callback func()) *DisposableImp {
	return &DisposableImp{callback: callback}
}

func (d *DisposableImp) Dispose() {
	d.once.Do(d.callback)
}

type CompositeDisposableImp struct {
	delegates []Disposable
}

// NewCompositeDisposable groups several handles so disposing the group
// disposes each delegate in order.
func NewCompositeDisposable(delegates ...Disposable) *CompositeDisposableImp {
	return &CompositeDisposableImp{delegates: delegates}
}

func (c *CompositeDisposableImp) Dispose() {
	for _, d := range c.delegates {
		d.Dispose()
	}
}
