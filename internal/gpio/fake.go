package gpio

import (
	"errors"
	"sync"
)

// FakeEdge is a test double for the unit button.
type FakeEdge struct {
	mu      sync.Mutex
	handler func()

	// WatchError, if set, will be returned by Watch.
	WatchError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeEdge creates a FakeEdge with no handler.
func NewFakeEdge() *FakeEdge {
	return &FakeEdge{}
}

// Watch registers the handler.
func (f *FakeEdge) Watch(handler func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WatchError != nil {
		return f.WatchError
	}
	if f.handler != nil {
		return errors.New("button handler already registered")
	}
	f.handler = handler
	return nil
}

// Fire simulates one falling edge on a separate goroutine and waits for the
// handler to return. It reports whether a handler was registered.
func (f *FakeEdge) Fire() bool {
	f.mu.Lock()
	h := f.handler
	closed := f.Closed
	f.mu.Unlock()
	if h == nil || closed {
		return false
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		h()
	}()
	<-done
	return true
}

// Close stops delivering edges.
func (f *FakeEdge) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
