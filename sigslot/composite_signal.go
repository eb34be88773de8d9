package sigslot

import (
	"github.com/hashicorp/go-multierror"

	"github.com/krew-solutions/sigslot-go/sigslot/disposable"
)

// CompositeSignalImp fans every operation out to a fixed set of delegate
// signals.
type CompositeSignalImp[A any] struct {
	delegates []Signal[A]
}

func NewCompositeSignal[A any](delegates ...Signal[A]) *CompositeSignalImp[A] {
	return &CompositeSignalImp[A]{delegates: delegates}
}

// Connect connects host's slot on every delegate. If a delegate refuses,
// the connections already made are severed and the error is returned.
func (s *CompositeSignalImp[A]) Connect(host *SlotHost, slot Slot[A]) (disposable.Disposable, error) {
	disposables := make([]disposable.Disposable, 0, len(s.delegates))
	for _, delegate := range s.delegates {
		d, err := delegate.Connect(host, slot)
		if err != nil {
			disposable.NewCompositeDisposable(disposables...).Dispose()
			return nil, err
		}
		disposables = append(disposables, d)
	}
	return disposable.NewCompositeDisposable(disposables...), nil
}

func (s *CompositeSignalImp[A]) Disconnect(host *SlotHost) {
	for _, delegate := range s.delegates {
		delegate.Disconnect(host)
	}
}

func (s *CompositeSignalImp[A]) DisconnectAll() {
	for _, delegate := range s.delegates {
		delegate.DisconnectAll()
	}
}

// Emit dispatches on every delegate even when an earlier delegate fails;
// the failures are aggregated. Within a single delegate the usual
// stop-at-first-failure dispatch applies.
func (s *CompositeSignalImp[A]) Emit(arg A) error {
	var result *multierror.Error
	for _, delegate := range s.delegates {
		if err := delegate.Emit(arg); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
