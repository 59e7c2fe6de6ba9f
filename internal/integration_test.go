package internal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/clock-thermo/internal/display"
	"github.com/sweeney/clock-thermo/internal/gpio"
	"github.com/sweeney/clock-thermo/internal/keypad"
	"github.com/sweeney/clock-thermo/internal/logic"
	"github.com/sweeney/clock-thermo/internal/mqtt"
	"github.com/sweeney/clock-thermo/internal/rtc"
	"github.com/sweeney/clock-thermo/internal/status"
	"github.com/sweeney/clock-thermo/internal/thermo"
)

const scanInterval = 50 * time.Millisecond

var startTime = time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

// appliance wires the real keypad, machine and scheduler to fakes at the
// hardware and network edges.
type appliance struct {
	matrix  *keypad.FakeMatrix
	keypad  *keypad.Keypad
	clock   *rtc.FakeClock
	toggle  *thermo.UnitToggle
	button  *gpio.FakeEdge
	machine *logic.Machine
	sched   *logic.Scheduler
	out     *display.FakeOutput
	pub     *mqtt.FakePublisher
	tracker *status.Tracker
	now     time.Time
}

func newAppliance(t *testing.T) *appliance {
	t.Helper()
	a := &appliance{
		matrix:  keypad.NewFakeMatrix(),
		clock:   rtc.NewFakeClock(startTime),
		toggle:  &thermo.UnitToggle{},
		button:  gpio.NewFakeEdge(),
		out:     display.NewFakeOutput(),
		pub:     mqtt.NewFakePublisher(),
		tracker: status.NewTracker(startTime, status.Config{}),
		now:     startTime,
	}
	a.keypad = keypad.New(a.matrix, 0, keypad.DefaultDebounce)
	a.machine = logic.NewMachine(a.clock)
	reader := thermo.NewReader(thermo.NewFakeSensor(0.07), a.toggle)
	a.sched = logic.NewScheduler(a.machine, a.clock, reader, a.out, logic.DefaultRefreshInterval, logic.DefaultErrorDuration, startTime)
	if err := a.button.Watch(a.toggle.Flip); err != nil {
		t.Fatal(err)
	}
	return a
}

// scan runs one loop iteration and advances time by one scan interval.
func (a *appliance) scan(t *testing.T) {
	t.Helper()
	a.now = a.now.Add(scanInterval)

	key, err := a.keypad.NextKey(a.now)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	events := a.machine.HandleKey(key, a.now)
	applied, err := a.machine.ApplyCommit(a.now)
	if err != nil {
		t.Fatalf("apply commit: %v", err)
	}
	events = append(events, applied...)

	frame, frameEvents, err := a.sched.Tick(a.now)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	events = append(events, frameEvents...)

	for _, e := range events {
		if err := a.pub.Publish(e); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	a.tracker.SetFrame(frame)
	a.tracker.Update(a.machine.Mode(), a.machine.Field(), a.machine.Entry().String(), a.machine.CountsSnapshot())
}

func (a *appliance) scanFor(t *testing.T, d time.Duration) {
	t.Helper()
	for end := a.now.Add(d); a.now.Before(end); {
		a.scan(t)
	}
}

// typeKeys presses each key for two scans then releases it for one.
func (a *appliance) typeKeys(t *testing.T, keys string) {
	t.Helper()
	for i := 0; i < len(keys); i++ {
		a.matrix.PressKey(keys[i])
		a.scan(t)
		a.scan(t)
		a.matrix.Release()
		a.scan(t)
	}
}

func TestIntegrationSetTimeFromKeypad(t *testing.T) {
	a := newAppliance(t)

	a.typeKeys(t, "*07#30#PM#")

	if len(a.clock.Sets) != 1 {
		t.Fatalf("expected 1 clock set, got %d", len(a.clock.Sets))
	}
	want := time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)
	if !a.clock.Sets[0].Equal(want) {
		t.Errorf("clock set to %v, want %v", a.clock.Sets[0], want)
	}
	if a.machine.Mode() != logic.ModeNormal {
		t.Errorf("expected NORMAL, got %s", a.machine.Mode())
	}

	// The next refresh shows the new time.
	a.scanFor(t, logic.DefaultRefreshInterval)
	if got := a.out.Last(); got != "07:30:00 PM 23 C" {
		t.Errorf("last frame: got %q", got)
	}

	var clockSet []byte
	for i, e := range a.pub.Events {
		if e.Type == logic.EventClockSet {
			clockSet = a.pub.Payloads[i]
		}
	}
	var parsed mqtt.Payload
	if err := json.Unmarshal(clockSet, &parsed); err != nil {
		t.Fatalf("invalid CLOCK_SET payload %q: %v", clockSet, err)
	}
	if parsed.Clock.Time != "19:30:00" || parsed.Clock.Mode != "NORMAL" {
		t.Errorf("unexpected CLOCK_SET payload: %s", clockSet)
	}
}

func TestIntegrationHeldKeyRepeatsAfterWindow(t *testing.T) {
	a := newAppliance(t)
	a.typeKeys(t, "*")

	// Hold 7 for just over one debounce window.
	a.matrix.PressKey('7')
	a.scanFor(t, keypad.DefaultDebounce+scanInterval)
	a.matrix.Release()
	a.scan(t)

	if got := a.machine.Entry().String(); got != "77" {
		t.Errorf("entry: got %q, want 77", got)
	}
	if got := a.out.Last(); got != "HOUR:  77" {
		t.Errorf("last frame: got %q", got)
	}
}

func TestIntegrationHeldKeyWithinWindowCountsOnce(t *testing.T) {
	a := newAppliance(t)
	a.typeKeys(t, "*")

	a.matrix.PressKey('4')
	a.scanFor(t, keypad.DefaultDebounce-scanInterval)
	a.matrix.Release()
	a.scan(t)

	if got := a.machine.Entry().String(); got != "4_" {
		t.Errorf("entry: got %q, want 4_", got)
	}
}

func TestIntegrationChatterCountsOnce(t *testing.T) {
	a := newAppliance(t)
	a.typeKeys(t, "*")

	// Contact opens for a single scan mid-press.
	for _, down := range []bool{true, true, false, true, true, true} {
		if down {
			a.matrix.PressKey('5')
		} else {
			a.matrix.Release()
		}
		a.scan(t)
	}
	a.matrix.Release()
	a.scan(t)

	if got := a.machine.Entry().String(); got != "5_" {
		t.Errorf("entry: got %q, want 5_", got)
	}

	// A bouncing # commits once; HOUR 5 is valid and entry moves on.
	for _, down := range []bool{true, false, true} {
		if down {
			a.matrix.PressKey('#')
		} else {
			a.matrix.Release()
		}
		a.scan(t)
	}
	if a.machine.Mode() != logic.ModeSet || a.machine.Field() != logic.FieldMinute {
		t.Errorf("expected SET/MINUTE, got %s/%s", a.machine.Mode(), a.machine.Field())
	}
}

func TestIntegrationSameKeyTwiceNeedsWindow(t *testing.T) {
	a := newAppliance(t)
	a.typeKeys(t, "*")

	a.typeKeys(t, "1")
	a.typeKeys(t, "1")
	if got := a.machine.Entry().String(); got != "1_" {
		t.Fatalf("quick repeat: got %q, want 1_", got)
	}

	a.scanFor(t, keypad.DefaultDebounce)
	a.typeKeys(t, "1")
	if got := a.machine.Entry().String(); got != "11" {
		t.Errorf("repeat after the window: got %q, want 11", got)
	}
}

func TestIntegrationBadEntryShowsBannerThenRecovers(t *testing.T) {
	a := newAppliance(t)
	a.typeKeys(t, "*13#")

	if a.machine.Mode() != logic.ModeError {
		t.Fatalf("expected ERROR, got %s", a.machine.Mode())
	}
	if a.out.Last() != logic.ErrorBanner {
		t.Errorf("last frame: got %q, want banner", a.out.Last())
	}

	// Keys are ignored while the banner is up.
	keysBefore := a.machine.CountsSnapshot().Keys
	a.typeKeys(t, "5*")
	if a.machine.CountsSnapshot().Keys != keysBefore {
		t.Error("keys should be ignored in ERROR")
	}

	a.scanFor(t, logic.DefaultErrorDuration)
	if a.machine.Mode() != logic.ModeSet || a.machine.Field() != logic.FieldHour {
		t.Fatalf("expected SET/HOUR after recovery, got %s/%s", a.machine.Mode(), a.machine.Field())
	}
	if got := a.out.Last(); got != "HOUR:  __" {
		t.Errorf("last frame: got %q", got)
	}

	// Entry resumes from a clean buffer.
	a.typeKeys(t, "10#59#AM#")
	want := time.Date(2026, 3, 14, 10, 59, 0, 0, time.UTC)
	if len(a.clock.Sets) != 1 || !a.clock.Sets[0].Equal(want) {
		t.Errorf("clock sets: got %v, want [%v]", a.clock.Sets, want)
	}

	snap := a.tracker.Snapshot()
	if snap.Counts.EntryErrors != 1 || snap.Counts.ClockSets != 1 {
		t.Errorf("unexpected counts: %+v", snap.Counts)
	}
}

func TestIntegrationAbortReturnsToClock(t *testing.T) {
	a := newAppliance(t)
	a.typeKeys(t, "*1D")

	if a.machine.Mode() != logic.ModeNormal {
		t.Fatalf("expected NORMAL after abort, got %s", a.machine.Mode())
	}
	a.scanFor(t, logic.DefaultRefreshInterval)
	if got := a.out.Last(); got != "08:00:00 AM 23 C" {
		t.Errorf("last frame: got %q", got)
	}
	if len(a.clock.Sets) != 0 {
		t.Error("abort should not set the clock")
	}
}

func TestIntegrationUnitButton(t *testing.T) {
	a := newAppliance(t)

	a.scanFor(t, logic.DefaultRefreshInterval)
	if got := a.out.Last(); got != "08:00:00 AM 23 C" {
		t.Fatalf("first frame: got %q", got)
	}

	a.button.Fire()
	a.scanFor(t, logic.DefaultRefreshInterval)
	if got := a.out.Last(); got != "08:00:00 AM 73 F" {
		t.Errorf("after toggle: got %q", got)
	}

	a.button.Fire()
	a.scanFor(t, logic.DefaultRefreshInterval)
	if got := a.out.Last(); got != "08:00:00 AM 23 C" {
		t.Errorf("after second toggle: got %q", got)
	}
}

func TestIntegrationNoRefreshWhileSetting(t *testing.T) {
	a := newAppliance(t)
	a.typeKeys(t, "*")
	framesBefore := len(a.out.Frames)

	a.scanFor(t, 3*logic.DefaultRefreshInterval)

	if len(a.out.Frames) != framesBefore {
		t.Errorf("expected no frames while idle in SET, got %d new", len(a.out.Frames)-framesBefore)
	}
	if len(a.pub.EventsOfType(logic.EventReading)) != 0 {
		t.Error("no readings expected while in SET")
	}
}

func TestIntegrationStatusSnapshot(t *testing.T) {
	a := newAppliance(t)
	a.typeKeys(t, "*07#3")

	snap := a.tracker.Snapshot()
	data := status.FormatStatusEvent(snap, "HEARTBEAT", "")

	var parsed status.StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	s := parsed.Status
	if s.Mode != "SET" || s.Field != "MINUTE" || s.Entry != "3_" {
		t.Errorf("got mode %q field %q entry %q", s.Mode, s.Field, s.Entry)
	}
	if s.Display != "MIN:  3_" {
		t.Errorf("display: got %q", s.Display)
	}
	if s.Counts.Keys != 5 {
		t.Errorf("keys: got %d, want 5", s.Counts.Keys)
	}
}
