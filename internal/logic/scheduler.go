package logic

import (
	"fmt"
	"time"
)

// ErrorBanner is shown while in ERROR mode.
const ErrorBanner = "---- ERROR! ----"

// FrameKind tells what the scheduler did on a tick.
type FrameKind int

const (
	FrameNone FrameKind = iota
	FrameNormal
	FramePrompt
	FrameRecovered
)

// Frame describes the outcome of one scheduler tick.
type Frame struct {
	Kind FrameKind
	Text string
	// Set for FrameNormal.
	Clock time.Time
	Temp  int
	Unit  byte
}

// Scheduler decides once per loop iteration whether the display needs a new
// frame. It owns the refresh timer and reads the machine's error timer.
type Scheduler struct {
	machine         *Machine
	clock           WallClock
	thermo          Thermometer
	out             Renderer
	refresh         Timer
	refreshInterval time.Duration
	errorDuration   time.Duration
	last            string
}

// NewScheduler creates a Scheduler whose refresh timer starts at now.
func NewScheduler(m *Machine, clock WallClock, thermo Thermometer, out Renderer, refreshInterval, errorDuration time.Duration, now time.Time) *Scheduler {
	return &Scheduler{
		machine:         m,
		clock:           clock,
		thermo:          thermo,
		out:             out,
		refresh:         StartTimer(now),
		refreshInterval: refreshInterval,
		errorDuration:   errorDuration,
	}
}

// Tick runs one scheduler pass. At most one frame is rendered; the three
// branches are mutually exclusive.
func (s *Scheduler) Tick(now time.Time) (Frame, []Event, error) {
	m := s.machine
	switch {
	case m.Mode() == ModeNormal && s.refresh.Expired(now, s.refreshInterval):
		s.refresh.Reset(now)
		temp, unit, err := s.thermo.Read()
		if err != nil {
			return Frame{}, nil, fmt.Errorf("read temperature: %w", err)
		}
		t := s.clock.Now()
		f := Frame{
			Kind:  FrameNormal,
			Text:  FormatNormal(t, temp, unit),
			Clock: t,
			Temp:  temp,
			Unit:  unit,
		}
		if err := s.render(f.Text); err != nil {
			return Frame{}, nil, err
		}
		e := Event{
			Timestamp: now,
			Type:      EventReading,
			Mode:      m.Mode(),
			Field:     m.Field(),
			Entry:     m.Entry().String(),
			Clock:     t,
			Temp:      temp,
			Unit:      unit,
		}
		return f, []Event{e}, nil

	case m.Mode() != ModeNormal && m.Dirty():
		text := FormatPrompt(m.Mode(), m.Field(), m.Entry())
		m.ClearDirty()
		if err := s.render(text); err != nil {
			return Frame{}, nil, err
		}
		return Frame{Kind: FramePrompt, Text: text}, nil, nil

	case m.ErrorExpired(now, s.errorDuration):
		return Frame{Kind: FrameRecovered}, m.Recover(now), nil
	}
	return Frame{}, nil, nil
}

func (s *Scheduler) render(text string) error {
	if err := s.out.Render(text); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	s.last = text
	s.machine.countFrame()
	return nil
}

// LastFrame returns the text of the last frame successfully rendered.
func (s *Scheduler) LastFrame() string {
	return s.last
}

// FormatNormal renders the NORMAL mode frame: "HH:MM:SS AM/PM TT U".
func FormatNormal(t time.Time, temp int, unit byte) string {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	mer := AM
	if t.Hour() >= 12 {
		mer = PM
	}
	return fmt.Sprintf("%02d:%02d:%02d %s %02d %c", h, t.Minute(), t.Second(), mer, temp, unit)
}

// FormatPrompt renders the SET/ERROR mode frame.
func FormatPrompt(mode Mode, field Field, entry EntryBuffer) string {
	if mode == ModeError {
		return ErrorBanner
	}
	switch field {
	case FieldHour:
		return fmt.Sprintf("HOUR:  %c%c", entry[0], entry[1])
	case FieldMinute:
		return fmt.Sprintf("MIN:  %c%c", entry[0], entry[1])
	case FieldAMPM:
		return fmt.Sprintf("AM or PM:  %c%c", entry[0], entry[1])
	}
	return ""
}
