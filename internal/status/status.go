// Package status provides a thread-safe status tracker for the clock-thermo daemon.
// It is read by the HTTP handlers and the MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/clock-thermo/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	DebounceMs  int64
	RefreshMs   int64
	ErrorMs     int64
	HeartbeatMs int64
	Broker      string
	HTTPPort    string
	Display     string // "hd44780" or "serial"
}

// Reading is the most recent NORMAL frame's data.
type Reading struct {
	Clock time.Time
	Temp  int
	Unit  byte
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and stays valid after the lock is released.
type Snapshot struct {
	Mode          logic.Mode
	Field         logic.Field
	Entry         string
	Display       string // last frame rendered
	Reading       *Reading
	Counts        logic.Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Mode:      logic.ModeNormal,
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Update sets the machine state and counters.
// Called from runLoop on every tick.
func (t *Tracker) Update(mode logic.Mode, field logic.Field, entry string, counts logic.Counts) {
	t.mu.Lock()
	t.snap.Mode = mode
	t.snap.Field = field
	t.snap.Entry = entry
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetFrame records a rendered frame. NORMAL frames also update the reading.
func (t *Tracker) SetFrame(f logic.Frame) {
	if f.Kind == logic.FrameNone {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if f.Text != "" {
		t.snap.Display = f.Text
	}
	if f.Kind == logic.FrameNormal {
		t.snap.Reading = &Reading{Clock: f.Clock, Temp: f.Temp, Unit: f.Unit}
	}
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	if s.Reading != nil {
		r := *s.Reading
		s.Reading = &r
	}
	s.Now = t.now()
	return s
}
