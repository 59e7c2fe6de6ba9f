package logic

import (
	"fmt"
	"time"
)

// Special keys.
const (
	KeySet    = '*' // enter SET mode, restart entry at HOUR
	KeyAbort  = 'D' // back to NORMAL without committing
	KeyCommit = '#' // validate the active field
)

// Machine tracks the operating mode and the time being entered.
// It is owned by the main loop and not safe for concurrent use.
type Machine struct {
	mode     Mode
	field    Field
	entry    EntryBuffer
	index    int
	pending  ClockTime
	dirty    bool
	errTimer Timer
	clock    WallClock
	counts   Counts
}

// NewMachine creates a Machine in NORMAL mode that commits entered times to clock.
func NewMachine(clock WallClock) *Machine {
	return &Machine{
		mode:  ModeNormal,
		field: FieldHour,
		entry: NewEntryBuffer(),
		clock: clock,
	}
}

// HandleKey routes one accepted key press. key 0 means no key and is ignored,
// as is every key while in ERROR mode.
func (m *Machine) HandleKey(key byte, now time.Time) []Event {
	if key == 0 || m.mode == ModeError {
		return nil
	}
	m.counts.Keys++

	switch {
	case key == KeySet:
		prev := m.mode
		m.mode = ModeSet
		m.field = FieldHour
		m.dirty = true
		m.index = 0
		m.entry.Reset()
		return m.modeEvent(prev, now)

	case key == KeyAbort:
		prev := m.mode
		m.mode = ModeNormal
		m.field = FieldHour
		m.entry.Reset()
		return m.modeEvent(prev, now)

	case m.mode != ModeSet:
		return nil

	case key != KeyCommit:
		m.entry.Put(m.index, key)
		m.index ^= 1
		m.dirty = true
		return nil
	}

	var events []Event
	if !m.commitField() {
		events = append(events, m.event(EventEntryError, now))
		m.counts.EntryErrors++
		m.mode = ModeError
		m.errTimer.Reset(now)
		events = append(events, m.event(EventModeChange, now))
	}
	m.dirty = true
	m.entry.Reset()
	return events
}

// commitField validates the buffer against the active field and advances
// to the next field on success.
func (m *Machine) commitField() bool {
	switch m.field {
	case FieldHour:
		h, ok := m.entry.Number()
		if !ok || h < 1 || h > 12 {
			return false
		}
		m.pending.Hour12 = h
		m.pending.Hour24 = h
	case FieldMinute:
		min, ok := m.entry.Number()
		if !ok || min > 59 {
			return false
		}
		m.pending.Minute = min
	case FieldAMPM:
		if (m.entry[0] != 'A' && m.entry[0] != 'P') || m.entry[1] != 'M' {
			return false
		}
		m.pending.Meridiem = AM
		if m.entry[0] == 'P' {
			m.pending.Meridiem = PM
			if m.pending.Hour24 != 12 {
				m.pending.Hour24 += 12
			}
		}
	default:
		return false
	}
	m.field++
	return true
}

// ApplyCommit writes the entered time to the clock once every field has been
// accepted, then returns to NORMAL. It runs once per loop iteration and does
// nothing until the COMMIT field is reached.
//
// The mode is reset even if the clock rejects the new time; the error is
// returned for logging.
func (m *Machine) ApplyCommit(now time.Time) ([]Event, error) {
	if m.field != FieldCommit {
		return nil, nil
	}

	cur := m.clock.Now()
	t := time.Date(cur.Year(), cur.Month(), cur.Day(), m.pending.Hour24, m.pending.Minute, 0, 0, cur.Location())
	err := m.clock.Set(t)
	if err != nil {
		err = fmt.Errorf("set clock to %s: %w", t.Format("15:04:05"), err)
	}

	prev := m.mode
	m.mode = ModeNormal
	m.field = FieldHour
	m.entry.Reset()

	var events []Event
	if err == nil {
		m.counts.ClockSets++
		e := m.event(EventClockSet, now)
		e.Clock = t
		events = append(events, e)
	}
	events = append(events, m.modeEvent(prev, now)...)
	return events, err
}

// ErrorExpired reports whether the error banner has been shown for at least d.
func (m *Machine) ErrorExpired(now time.Time, d time.Duration) bool {
	return m.mode == ModeError && m.errTimer.Expired(now, d)
}

// Recover leaves ERROR mode and restarts entry at HOUR. Nothing from the
// failed entry is kept.
func (m *Machine) Recover(now time.Time) []Event {
	if m.mode != ModeError {
		return nil
	}
	m.mode = ModeSet
	m.field = FieldHour
	m.index = 0
	m.entry.Reset()
	m.dirty = true
	return m.modeEvent(ModeError, now)
}

func (m *Machine) modeEvent(prev Mode, now time.Time) []Event {
	if prev == m.mode {
		return nil
	}
	return []Event{m.event(EventModeChange, now)}
}

func (m *Machine) event(t EventType, now time.Time) Event {
	return Event{
		Timestamp: now,
		Type:      t,
		Mode:      m.mode,
		Field:     m.field,
		Entry:     m.entry.String(),
	}
}

// Mode returns the current operating mode.
func (m *Machine) Mode() Mode { return m.mode }

// Field returns the active entry field.
func (m *Machine) Field() Field { return m.field }

// Entry returns a copy of the entry buffer.
func (m *Machine) Entry() EntryBuffer { return m.entry }

// Index returns the slot the next key will be stored in.
func (m *Machine) Index() int { return m.index }

// Pending returns the time assembled so far.
func (m *Machine) Pending() ClockTime { return m.pending }

// Dirty reports whether the displayed frame is stale.
func (m *Machine) Dirty() bool { return m.dirty }

// ClearDirty marks the display as up to date.
func (m *Machine) ClearDirty() { m.dirty = false }

// CountsSnapshot returns a copy of the activity counters.
func (m *Machine) CountsSnapshot() Counts { return m.counts }

func (m *Machine) countFrame() { m.counts.Frames++ }
