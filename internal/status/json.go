package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/clock-thermo/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Mode          string       `json:"mode"`
	Field         string       `json:"field,omitempty"`
	Entry         string       `json:"entry,omitempty"`
	Display       string       `json:"display"`
	Reading       *ReadingJSON `json:"reading,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"counts"`
	Config        ConfigJSON   `json:"config"`
}

// ReadingJSON is the JSON representation of the last clock/temperature frame.
type ReadingJSON struct {
	Time        string `json:"time"`
	Temperature int    `json:"temperature"`
	Unit        string `json:"unit"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of activity counters.
type CountsJSON struct {
	Keys        int `json:"keys"`
	ClockSets   int `json:"clock_sets"`
	EntryErrors int `json:"entry_errors"`
	Frames      int `json:"frames"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	RefreshMs   int64  `json:"refresh_ms"`
	ErrorMs     int64  `json:"error_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPPort    string `json:"http_port"`
	Display     string `json:"display,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Mode:          snap.Mode.String(),
		Display:       snap.Display,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Keys:        snap.Counts.Keys,
			ClockSets:   snap.Counts.ClockSets,
			EntryErrors: snap.Counts.EntryErrors,
			Frames:      snap.Counts.Frames,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			DebounceMs:  snap.Config.DebounceMs,
			RefreshMs:   snap.Config.RefreshMs,
			ErrorMs:     snap.Config.ErrorMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
			Display:     snap.Config.Display,
		},
	}

	// Field and entry only mean something while a time is being entered.
	if snap.Mode != logic.ModeNormal {
		inner.Field = snap.Field.String()
		inner.Entry = snap.Entry
	}

	if snap.Reading != nil {
		inner.Reading = &ReadingJSON{
			Time:        snap.Reading.Clock.Format("15:04:05"),
			Temperature: snap.Reading.Temp,
			Unit:        string(snap.Reading.Unit),
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
