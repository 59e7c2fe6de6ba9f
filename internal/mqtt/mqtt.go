// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/clock-thermo/internal/logic"
)

// Topic is the MQTT topic for appliance events.
const Topic = "home/clock-thermo/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/clock-thermo/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends an appliance event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Clock ClockPayload `json:"clock"`
}

// ClockPayload contains the appliance event details.
type ClockPayload struct {
	Timestamp   string `json:"timestamp"`
	Event       string `json:"event"`
	Mode        string `json:"mode"`
	Field       string `json:"field,omitempty"`
	Entry       string `json:"entry,omitempty"`
	Time        string `json:"time,omitempty"`
	Temperature *int   `json:"temperature,omitempty"`
	Unit        string `json:"unit,omitempty"`
}

// FormatPayload creates the JSON payload for an appliance event.
func FormatPayload(event logic.Event) ([]byte, error) {
	p := ClockPayload{
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
		Event:     string(event.Type),
		Mode:      event.Mode.String(),
	}

	switch event.Type {
	case logic.EventModeChange, logic.EventEntryError:
		if event.Mode != logic.ModeNormal {
			p.Field = event.Field.String()
		}
		if event.Type == logic.EventEntryError {
			p.Entry = event.Entry
		}
	case logic.EventClockSet:
		p.Time = event.Clock.Format("15:04:05")
	case logic.EventReading:
		p.Time = event.Clock.Format("15:04:05")
		temp := event.Temp
		p.Temperature = &temp
		p.Unit = string(event.Unit)
	}

	return json.Marshal(Payload{Clock: p})
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
