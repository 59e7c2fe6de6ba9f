package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/clock-thermo/internal/logic"
)

var start = time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

func TestNewTracker(t *testing.T) {
	cfg := Config{PollMs: 10, DebounceMs: 500, RefreshMs: 1000, ErrorMs: 2000, Broker: "tcp://localhost:1883", HTTPPort: ":80"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config != cfg {
		t.Errorf("Config: got %+v, want %+v", snap.Config, cfg)
	}
	if snap.Mode != logic.ModeNormal {
		t.Errorf("expected NORMAL initially, got %s", snap.Mode)
	}
	if snap.Reading != nil {
		t.Error("expected no reading initially")
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(start, Config{})
	tr.Update(logic.ModeSet, logic.FieldMinute, "3_", logic.Counts{Keys: 4, EntryErrors: 1})

	snap := tr.Snapshot()
	if snap.Mode != logic.ModeSet || snap.Field != logic.FieldMinute || snap.Entry != "3_" {
		t.Errorf("unexpected state: %s %s %q", snap.Mode, snap.Field, snap.Entry)
	}
	if snap.Counts.Keys != 4 || snap.Counts.EntryErrors != 1 {
		t.Errorf("unexpected counts: %+v", snap.Counts)
	}
}

func TestSetFrame(t *testing.T) {
	tr := NewTracker(start, Config{})
	shown := start.Add(5 * time.Second)

	tr.SetFrame(logic.Frame{Kind: logic.FrameNormal, Text: "07:00:05 PM 23 C", Clock: shown, Temp: 23, Unit: 'C'})
	snap := tr.Snapshot()
	if snap.Display != "07:00:05 PM 23 C" {
		t.Errorf("Display: got %q", snap.Display)
	}
	if snap.Reading == nil || snap.Reading.Temp != 23 || snap.Reading.Unit != 'C' || !snap.Reading.Clock.Equal(shown) {
		t.Fatalf("unexpected reading: %+v", snap.Reading)
	}

	tr.SetFrame(logic.Frame{Kind: logic.FramePrompt, Text: "HOUR:  __"})
	snap = tr.Snapshot()
	if snap.Display != "HOUR:  __" {
		t.Errorf("Display: got %q", snap.Display)
	}
	if snap.Reading == nil || snap.Reading.Temp != 23 {
		t.Error("prompt frame should keep the last reading")
	}

	tr.SetFrame(logic.Frame{Kind: logic.FrameNone})
	tr.SetFrame(logic.Frame{Kind: logic.FrameRecovered})
	if got := tr.Snapshot().Display; got != "HOUR:  __" {
		t.Errorf("empty frames should not change display, got %q", got)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(start, Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}
	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSnapshotUptime(t *testing.T) {
	snap := Snapshot{StartTime: start, Now: start.Add(15 * time.Minute)}
	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotNowIsSet(t *testing.T) {
	tr := NewTracker(start, Config{})
	tr.now = func() time.Time { return start.Add(time.Hour) }

	if got := tr.Snapshot().Now; !got.Equal(start.Add(time.Hour)) {
		t.Errorf("Now: got %v", got)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(start, Config{})
	tr.Update(logic.ModeSet, logic.FieldHour, "1_", logic.Counts{Keys: 1})
	tr.SetFrame(logic.Frame{Kind: logic.FrameNormal, Temp: 20, Unit: 'C'})

	snap1 := tr.Snapshot()
	snap1.Reading.Temp = 99

	tr.Update(logic.ModeNormal, logic.FieldHour, "__", logic.Counts{Keys: 2})

	if snap1.Mode != logic.ModeSet || snap1.Entry != "1_" {
		t.Error("snapshot should be a copy; state was modified")
	}
	if tr.Snapshot().Reading.Temp != 20 {
		t.Error("snapshot reading should not alias tracker state")
	}
}

func normalSnapshot() Snapshot {
	return Snapshot{
		Mode:          logic.ModeNormal,
		Field:         logic.FieldHour,
		Entry:         "__",
		Display:       "07:30:05 PM 23 C",
		Reading:       &Reading{Clock: time.Date(2026, 3, 14, 19, 30, 5, 0, time.UTC), Temp: 23, Unit: 'C'},
		Counts:        logic.Counts{Keys: 10, ClockSets: 1, EntryErrors: 2, Frames: 30},
		StartTime:     start,
		Now:           start.Add(15 * time.Minute),
		MQTTConnected: true,
		Config:        Config{PollMs: 10, DebounceMs: 500, RefreshMs: 1000, ErrorMs: 2000, HeartbeatMs: 900000, Broker: "tcp://localhost:1883", HTTPPort: ":80"},
	}
}

func TestFormatJSON(t *testing.T) {
	data := FormatJSON(normalSnapshot())

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := parsed.Status
	if s.Mode != "NORMAL" {
		t.Errorf("Mode: got %q, want NORMAL", s.Mode)
	}
	if s.Field != "" || s.Entry != "" {
		t.Errorf("field/entry should be omitted in NORMAL, got %q %q", s.Field, s.Entry)
	}
	if s.Display != "07:30:05 PM 23 C" {
		t.Errorf("Display: got %q", s.Display)
	}
	if s.Reading == nil || s.Reading.Time != "19:30:05" || s.Reading.Temperature != 23 || s.Reading.Unit != "C" {
		t.Errorf("unexpected reading: %+v", s.Reading)
	}
	if s.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", s.UptimeSeconds)
	}
	if !s.MQTT.Connected || s.MQTT.Broker != "tcp://localhost:1883" {
		t.Errorf("unexpected mqtt: %+v", s.MQTT)
	}
	if s.Counts.ClockSets != 1 || s.Counts.Frames != 30 {
		t.Errorf("unexpected counts: %+v", s.Counts)
	}
	if s.Config.RefreshMs != 1000 || s.Config.ErrorMs != 2000 {
		t.Errorf("unexpected config: %+v", s.Config)
	}
	if s.Event != "" || s.Reason != "" {
		t.Errorf("expected no event/reason for web format, got %q/%q", s.Event, s.Reason)
	}
}

func TestFormatJSONSetMode(t *testing.T) {
	snap := normalSnapshot()
	snap.Mode = logic.ModeSet
	snap.Field = logic.FieldAMPM
	snap.Entry = "P_"

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Field != "AM_PM" || parsed.Status.Entry != "P_" {
		t.Errorf("got field %q entry %q", parsed.Status.Field, parsed.Status.Entry)
	}
}

func TestFormatJSONOmitsReadingBeforeFirstFrame(t *testing.T) {
	snap := normalSnapshot()
	snap.Reading = nil

	var raw map[string]interface{}
	if err := json.Unmarshal(FormatJSON(snap), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	status := raw["status"].(map[string]interface{})
	if _, exists := status["reading"]; exists {
		t.Error("reading should be omitted before the first frame")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tests := []struct {
		event, reason string
	}{
		{"HEARTBEAT", ""},
		{"STARTUP", ""},
		{"SHUTDOWN", "SIGTERM"},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			data := FormatStatusEvent(normalSnapshot(), tt.event, tt.reason)

			var raw map[string]interface{}
			if err := json.Unmarshal(data, &raw); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			status := raw["status"].(map[string]interface{})
			if status["event"] != tt.event {
				t.Errorf("event: got %v, want %s", status["event"], tt.event)
			}
			reason, exists := status["reason"]
			if tt.reason == "" && exists {
				t.Error("reason should be omitted when empty")
			}
			if tt.reason != "" && reason != tt.reason {
				t.Errorf("reason: got %v, want %s", reason, tt.reason)
			}
			if status["uptime_seconds"] != float64(900) {
				t.Errorf("uptime_seconds: got %v", status["uptime_seconds"])
			}
		})
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(start, Config{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.Update(logic.ModeSet, logic.FieldHour, "1_", logic.Counts{Keys: i})
			tr.SetFrame(logic.Frame{Kind: logic.FrameNormal, Temp: i, Unit: 'C'})
			tr.SetMQTTConnected(i%2 == 0)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = FormatJSON(snap)
		}
	}()

	wg.Wait()
}
