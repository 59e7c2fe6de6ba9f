// Package logic contains the pure control logic of the clock/thermometer:
// the mode/entry state machine and the display-refresh scheduler.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Default timing windows.
const (
	DefaultRefreshInterval = 1000 * time.Millisecond
	DefaultErrorDuration   = 2000 * time.Millisecond
)

// Mode is the operating mode of the appliance.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSet
	ModeError
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeSet:
		return "SET"
	case ModeError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Field is the time component being collected while in ModeSet.
type Field int

const (
	FieldHour Field = iota
	FieldMinute
	FieldAMPM
	FieldCommit
)

func (f Field) String() string {
	switch f {
	case FieldHour:
		return "HOUR"
	case FieldMinute:
		return "MINUTE"
	case FieldAMPM:
		return "AM_PM"
	case FieldCommit:
		return "COMMIT"
	}
	return "UNKNOWN"
}

// Meridiem is AM or PM.
type Meridiem string

const (
	AM Meridiem = "AM"
	PM Meridiem = "PM"
)

// ClockTime is the time assembled field by field during entry.
type ClockTime struct {
	Hour12   int // 1-12 as entered
	Hour24   int // internal hour written to the clock
	Minute   int
	Meridiem Meridiem
}

// WallClock is the real-time clock facility.
type WallClock interface {
	Now() time.Time
	Set(t time.Time) error
}

// Thermometer reads the temperature in the currently selected unit.
// unit is the letter shown on the display ('C' or 'F').
type Thermometer interface {
	Read() (value int, unit byte, err error)
}

// Renderer clears the display and writes one frame.
type Renderer interface {
	Render(frame string) error
}

// EventType identifies an appliance event.
type EventType string

const (
	EventModeChange EventType = "MODE"
	EventEntryError EventType = "ENTRY_ERROR"
	EventClockSet   EventType = "CLOCK_SET"
	EventReading    EventType = "READING"
)

// Event is something worth publishing.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Mode      Mode
	Field     Field
	Entry     string    // buffer contents at the time of the event
	Clock     time.Time // new wall-clock time (CLOCK_SET) or time shown (READING)
	Temp      int       // READING only
	Unit      byte      // READING only
}

// Counts tracks appliance activity since startup.
type Counts struct {
	Keys        int
	ClockSets   int
	EntryErrors int
	Frames      int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    Counts
}
