package sigslot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/sigslot-go/sigslot/locking"
)

func TestSlotHost_DisposeRemovesConnectionsFromEverySignal(t *testing.T) {
	s1 := NewSignal[Void]()
	s2 := NewSignal[Void]()
	e := NewSlotHost()
	called := false
	_, _ = s1.Connect(e, func(Void) error { called = true; return nil })
	_, _ = s2.Connect(e, func(Void) error { called = true; return nil })

	e.Dispose()

	assert.NoError(t, s1.Emit(Void{}))
	assert.NoError(t, s2.Emit(Void{}))
	assert.False(t, called)
	assert.Equal(t, 0, s1.ConnectionCount())
	assert.Equal(t, 0, s2.ConnectionCount())
}

func TestSlotHost_DisposeIsIdempotent(t *testing.T) {
	s := NewSignal[Void]()
	h := NewSlotHost()
	_, _ = s.Connect(h, func(Void) error { return nil })
	h.Dispose()
	h.Dispose() // should not panic
	assert.Equal(t, 0, s.ConnectionCount())
}

func TestSlotHost_ConnectAfterDispose(t *testing.T) {
	s := NewSignal[Void]()
	h := NewSlotHost()
	h.Dispose()

	d, err := s.Connect(h, func(Void) error { return nil })
	assert.Nil(t, d)
	assert.Equal(t, ErrHostDisposed, err)
	// the refused connection must not linger on the signal
	assert.Equal(t, 0, s.ConnectionCount())
}

func TestSlotHost_SenderCountDeduplicatesSignals(t *testing.T) {
	s := NewSignal[Void]()
	h := NewSlotHost()
	_, _ = s.Connect(h, func(Void) error { return nil })
	_, _ = s.Connect(h, func(Void) error { return nil })
	assert.Equal(t, 2, s.ConnectionCount())
	assert.Equal(t, 1, h.SenderCount())
}

func TestSlotHost_OtherHostsSurviveTeardown(t *testing.T) {
	s := NewSignal[Void]()
	doomed, survivor := NewSlotHost(), NewSlotHost()
	var invoked []string
	_, _ = s.Connect(doomed, func(Void) error { invoked = append(invoked, "doomed"); return nil })
	_, _ = s.Connect(survivor, func(Void) error { invoked = append(invoked, "survivor"); return nil })

	doomed.Dispose()

	require.NoError(t, s.Emit(Void{}))
	assert.Equal(t, []string{"survivor"}, invoked)
	assert.Equal(t, 1, survivor.SenderCount())
}

func TestSlotHost_EitherSideMayGoFirst(t *testing.T) {
	// signal first, then host
	s1 := NewSignal[Void]()
	h1 := NewSlotHost()
	_, _ = s1.Connect(h1, func(Void) error { return nil })
	s1.Dispose()
	assert.Equal(t, 0, h1.SenderCount())
	h1.Dispose()

	// host first, then signal
	s2 := NewSignal[Void]()
	h2 := NewSlotHost()
	_, _ = s2.Connect(h2, func(Void) error { return nil })
	h2.Dispose()
	assert.Equal(t, 0, s2.ConnectionCount())
	s2.Dispose()
}

func TestSlotHost_ConcurrentMutualTeardown(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := NewSignal[Void]()
		h := NewSlotHost()
		_, _ = s.Connect(h, func(Void) error { return nil })

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Dispose()
		}()
		go func() {
			defer wg.Done()
			h.Dispose()
		}()
		wg.Wait()

		assert.Equal(t, 0, s.ConnectionCount())
		assert.Equal(t, 0, h.SenderCount())
	}
}

func TestSlotHost_ConcurrentTeardownUnderGlobalPolicy(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := NewSignal[Void](locking.NewGlobal())
		h := NewSlotHost(locking.NewGlobal())
		_, _ = s.Connect(h, func(Void) error { return nil })

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Dispose()
		}()
		go func() {
			defer wg.Done()
			h.Dispose()
		}()
		wg.Wait()

		assert.Equal(t, 0, s.ConnectionCount())
		assert.Equal(t, 0, h.SenderCount())
	}
}

func TestSlotHost_StringCarriesIdentity(t *testing.T) {
	h := NewSlotHost()
	assert.Contains(t, h.String(), h.ID().String())
	assert.NotEqual(t, h.ID(), NewSlotHost().ID())
}
