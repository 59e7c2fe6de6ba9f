package mqtt

import (
	"github.com/sweeney/clock-thermo/internal/logic"
)

// FakePublisher records what the loop publishes. Payloads[i] is the JSON
// sent for Events[i]; SystemPayloads pairs with SystemEvents the same way.
type FakePublisher struct {
	Events         []logic.Event
	Payloads       [][]byte
	SystemEvents   []SystemEvent
	SystemPayloads [][]byte

	// Errors returned instead of recording.
	PublishError       error
	PublishSystemError error

	Closed    bool
	Connected bool
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) Publish(event logic.Event) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, event)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

func (f *FakePublisher) IsConnected() bool { return f.Connected }

// EventsOfType returns the recorded events of type t.
func (f *FakePublisher) EventsOfType(t logic.EventType) []logic.Event {
	var out []logic.Event
	for _, e := range f.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Reset returns the fake to its zero state.
func (f *FakePublisher) Reset() {
	*f = FakePublisher{}
}

// Discard is a Publisher that drops everything. Used when no broker is
// configured.
type Discard struct{}

// Publish drops the event.
func (Discard) Publish(logic.Event) error { return nil }

// PublishSystem drops the event.
func (Discard) PublishSystem(SystemEvent) error { return nil }

// Close does nothing.
func (Discard) Close() error { return nil }

// IsConnected always reports false.
func (Discard) IsConnected() bool { return false }
