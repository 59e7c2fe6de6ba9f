package gpio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// pollEdge bounds each WaitForEdge call so Close is noticed.
const pollEdge = 500 * time.Millisecond

// PeriphEdge watches the unit button through a periph.io pin.
type PeriphEdge struct {
	pin  pgpio.PinIn
	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewPeriphEdge looks up the named pin (e.g. "GPIO26"). host.Init must have
// been called.
func NewPeriphEdge(name string) (*PeriphEdge, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	return NewPeriphEdgeFromPin(p), nil
}

// NewPeriphEdgeFromPin wraps an already resolved pin.
func NewPeriphEdgeFromPin(p pgpio.PinIn) *PeriphEdge {
	return &PeriphEdge{pin: p}
}

// Watch configures the pin with pull-up and falling-edge detection and
// calls handler from a watcher goroutine for every edge.
func (e *PeriphEdge) Watch(handler func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stop != nil {
		return errors.New("button handler already registered")
	}
	if err := e.pin.In(pgpio.PullUp, pgpio.FallingEdge); err != nil {
		return fmt.Errorf("configure %s: %w", e.pin, err)
	}

	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	go func(stop <-chan struct{}, done chan<- struct{}) {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			if e.pin.WaitForEdge(pollEdge) {
				handler()
			}
		}
	}(e.stop, e.done)
	return nil
}

// Close stops the watcher goroutine and halts the pin.
func (e *PeriphEdge) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stop == nil {
		return nil
	}
	close(e.stop)
	err := e.pin.Halt()
	<-e.done
	e.stop = nil
	return err
}
