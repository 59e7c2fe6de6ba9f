// Command clockthermo runs the keypad-set clock and thermometer: it scans the
// keypad, drives the character display and publishes activity to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/sweeney/clock-thermo/internal/display"
	"github.com/sweeney/clock-thermo/internal/gpio"
	"github.com/sweeney/clock-thermo/internal/keypad"
	"github.com/sweeney/clock-thermo/internal/logic"
	"github.com/sweeney/clock-thermo/internal/mqtt"
	"github.com/sweeney/clock-thermo/internal/rtc"
	"github.com/sweeney/clock-thermo/internal/status"
	"github.com/sweeney/clock-thermo/internal/thermo"
	"github.com/sweeney/clock-thermo/internal/web"
)

type config struct {
	poll       time.Duration
	settle     time.Duration
	debounce   time.Duration
	refresh    time.Duration
	errDisplay time.Duration
	heartbeat  time.Duration
	broker     string
	httpAddr   string
	printState bool

	gpio      string
	edge      string
	rowPins   [keypad.Rows]int
	colPins   [keypad.Cols]int
	buttonPin int

	lcd        string
	lcdAddr    uint16
	serialDev  string
	serialBaud int

	i2cBus  string
	adcAddr uint16
}

func main() {
	poll := flag.Duration("poll", 20*time.Millisecond, "Keypad polling interval")
	settle := flag.Duration("settle", keypad.DefaultSettle, "Row settle time during a keypad scan")
	debounce := flag.Duration("debounce", keypad.DefaultDebounce, "Key repeat/debounce window")
	refresh := flag.Duration("refresh", logic.DefaultRefreshInterval, "Clock/temperature refresh interval")
	errDisplay := flag.Duration("error-display", logic.DefaultErrorDuration, "How long the error banner is shown")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", `MQTT broker address ("off" disables)`)
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	printState := flag.Bool("print-state", false, "Print the current clock/temperature frame and exit")
	gpioDriver := flag.String("gpio", "cdev", "Keypad GPIO backend: cdev or rpio")
	edgeDriver := flag.String("edge", "cdev", "Unit button backend: cdev or periph")
	rows := flag.String("rows", joinPins(gpio.DefaultRowPins), "BCM pins for keypad rows 1-4")
	cols := flag.String("cols", joinPins(gpio.DefaultColPins), "BCM pins for keypad columns 1-4")
	buttonPin := flag.Int("pin-button", gpio.DefaultButtonPin, "BCM pin number for the unit button")
	lcd := flag.String("lcd", "hd44780", "Display: hd44780 (PCF8574 I2C backpack) or serial (SerLCD)")
	lcdAddr := flag.Uint("lcd-addr", uint(display.DefaultBackpackAddress), "HD44780 backpack I2C address")
	serialDev := flag.String("serial-dev", "/dev/ttyAMA0", "Serial LCD device")
	serialBaud := flag.Int("serial-baud", 9600, "Serial LCD baud rate")
	i2cBus := flag.String("i2c", "", "I2C bus for the ADC and LCD backpack (empty for the first bus)")
	adcAddr := flag.Uint("adc-addr", 0x48, "ADS1115 I2C address")

	flag.Parse()

	cfg := config{
		poll:       *poll,
		settle:     *settle,
		debounce:   *debounce,
		refresh:    *refresh,
		errDisplay: *errDisplay,
		heartbeat:  *heartbeat,
		broker:     *broker,
		httpAddr:   *httpAddr,
		printState: *printState,
		gpio:       *gpioDriver,
		edge:       *edgeDriver,
		buttonPin:  *buttonPin,
		lcd:        *lcd,
		lcdAddr:    uint16(*lcdAddr),
		serialDev:  *serialDev,
		serialBaud: *serialBaud,
		i2cBus:     *i2cBus,
		adcAddr:    uint16(*adcAddr),
	}
	var err error
	if cfg.rowPins, err = parsePins(*rows); err != nil {
		log.Fatalf("fatal: -rows: %v", err)
	}
	if cfg.colPins, err = parsePins(*cols); err != nil {
		log.Fatalf("fatal: -cols: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init periph host: %w", err)
	}

	// Temperature sensor
	bus, err := i2creg.Open(cfg.i2cBus)
	if err != nil {
		return fmt.Errorf("open i2c bus: %w", err)
	}
	defer bus.Close()
	sensor, err := thermo.NewADS1115Sensor(bus, cfg.adcAddr)
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	defer sensor.Close()

	toggle := &thermo.UnitToggle{}
	reader := thermo.NewReader(sensor, toggle)
	clock := rtc.NewSystemClock(time.Local)

	// Print state mode
	if cfg.printState {
		temp, unit, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read temperature: %w", err)
		}
		fmt.Println(logic.FormatNormal(clock.Now(), temp, unit))
		return nil
	}

	lines, err := openLines(cfg)
	if err != nil {
		return fmt.Errorf("init keypad gpio: %w", err)
	}
	defer lines.Close()

	out, err := openDisplay(cfg, bus)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer out.Close()

	edge, err := openEdge(cfg)
	if err != nil {
		return fmt.Errorf("init unit button: %w", err)
	}
	defer edge.Close()
	if err := edge.Watch(func() {
		toggle.Flip()
		log.Printf("unit button: now %s", toggle.Unit())
	}); err != nil {
		return fmt.Errorf("watch unit button: %w", err)
	}

	// Initialize MQTT
	var publisher interface {
		mqtt.Publisher
		mqtt.ConnectionStatus
	} = mqtt.Discard{}
	if cfg.broker != "off" {
		p, err := mqtt.NewRealPublisher(cfg.broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		publisher = p
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      cfg.poll.Milliseconds(),
		DebounceMs:  cfg.debounce.Milliseconds(),
		RefreshMs:   cfg.refresh.Milliseconds(),
		ErrorMs:     cfg.errDisplay.Milliseconds(),
		HeartbeatMs: cfg.heartbeat.Milliseconds(),
		Broker:      cfg.broker,
		HTTPPort:    cfg.httpAddr,
		Display:     cfg.lcd,
	})
	tracker.SetMQTTConnected(publisher.IsConnected())

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker, toggle)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.httpAddr)
	}

	kp := keypad.New(lines, cfg.settle, cfg.debounce)
	machine := logic.NewMachine(clock)
	sched := logic.NewScheduler(machine, clock, reader, out, cfg.refresh, cfg.errDisplay, time.Now())

	log.Printf("started: poll=%v debounce=%v refresh=%v error-display=%v broker=%s heartbeat=%v display=%s",
		cfg.poll, cfg.debounce, cfg.refresh, cfg.errDisplay, cfg.broker, cfg.heartbeat, cfg.lcd)

	ticker := time.NewTicker(cfg.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(kp, machine, sched, publisher, publisher, tracker, cfg.heartbeat, time.Now, ticker.C, sigCh)
}

// keySource yields at most one accepted key per scan.
type keySource interface {
	NextKey(now time.Time) (byte, error)
}

func runLoop(keys keySource, machine *logic.Machine, sched *logic.Scheduler, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	hb := logic.NewHeartbeat(now())

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			step(keys, machine, sched, publisher, tracker, t)

			// Check for heartbeat
			if hbData := hb.Check(t, heartbeat, machine.CountsSnapshot()); hbData != nil {
				log.Printf("heartbeat: uptime=%v keys=%d clock_sets=%d entry_errors=%d frames=%d",
					hbData.Uptime, hbData.Counts.Keys, hbData.Counts.ClockSets, hbData.Counts.EntryErrors, hbData.Counts.Frames)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			if tracker != nil && mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
		}
	}
}

// step runs one loop iteration: poll the keypad, route the key, apply a
// completed time entry, then let the scheduler refresh the display. Errors
// are logged and the loop carries on.
func step(keys keySource, machine *logic.Machine, sched *logic.Scheduler, publisher mqtt.Publisher, tracker *status.Tracker, t time.Time) {
	key, err := keys.NextKey(t)
	if err != nil {
		log.Printf("keypad scan error: %v", err)
		key = keypad.NullKey
	}
	if key != keypad.NullKey {
		log.Printf("key: %c", key)
	}

	events := machine.HandleKey(key, t)

	applied, err := machine.ApplyCommit(t)
	if err != nil {
		log.Printf("clock set error: %v", err)
	}
	events = append(events, applied...)

	frame, frameEvents, err := sched.Tick(t)
	if err != nil {
		log.Printf("display refresh error: %v", err)
	}
	events = append(events, frameEvents...)

	for _, event := range events {
		if event.Type != logic.EventReading {
			log.Printf("event: %s (mode=%s field=%s entry=%s)", event.Type, event.Mode, event.Field, event.Entry)
		}
		if err := publisher.Publish(event); err != nil {
			log.Printf("publish error: %v", err)
			// Don't crash on publish failure
		}
	}

	// Update status tracker for HTTP consumers
	if tracker != nil {
		tracker.SetFrame(frame)
		tracker.Update(machine.Mode(), machine.Field(), machine.Entry().String(), machine.CountsSnapshot())
	}
}

func openLines(cfg config) (keypad.Lines, error) {
	switch cfg.gpio {
	case "cdev":
		return gpio.NewCdevLines(cfg.rowPins, cfg.colPins)
	case "rpio":
		return gpio.NewRpioLines(cfg.rowPins, cfg.colPins)
	}
	return nil, fmt.Errorf("unknown gpio backend %q", cfg.gpio)
}

func openEdge(cfg config) (gpio.EdgeSource, error) {
	switch cfg.edge {
	case "cdev":
		return gpio.NewCdevEdge(cfg.buttonPin), nil
	case "periph":
		return gpio.NewPeriphEdge(fmt.Sprintf("GPIO%d", cfg.buttonPin))
	}
	return nil, fmt.Errorf("unknown edge backend %q", cfg.edge)
}

func openDisplay(cfg config, bus i2c.Bus) (display.Output, error) {
	switch cfg.lcd {
	case "hd44780":
		return display.NewBackpackLCD(bus, cfg.lcdAddr)
	case "serial":
		return display.OpenSerialLCD(cfg.serialDev, cfg.serialBaud)
	}
	return nil, fmt.Errorf("unknown display %q", cfg.lcd)
}

// parsePins parses a comma-separated list of four BCM pin numbers.
func parsePins(s string) ([4]int, error) {
	var pins [4]int
	parts := strings.Split(s, ",")
	if len(parts) != len(pins) {
		return pins, fmt.Errorf("need %d pins, got %d", len(pins), len(parts))
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return pins, fmt.Errorf("pin %d: %w", i+1, err)
		}
		if n < 0 {
			return pins, fmt.Errorf("pin %d: negative pin %d", i+1, n)
		}
		pins[i] = n
	}
	return pins, nil
}

func joinPins(pins [4]int) string {
	s := make([]string, len(pins))
	for i, p := range pins {
		s[i] = strconv.Itoa(p)
	}
	return strings.Join(s, ",")
}
