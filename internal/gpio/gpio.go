// Package gpio provides the keypad lines and the unit button interrupt with
// hardware abstraction.
// The real implementations use the Linux GPIO character device (or
// /dev/gpiomem through go-rpio, or periph.io for edge detection).
// The fake implementation allows testing without hardware.
package gpio

// EdgeSource delivers falling-edge notifications from a button.
type EdgeSource interface {
	// Watch registers the handler. It is called on its own goroutine once
	// per falling edge. Only one handler may be registered.
	Watch(handler func()) error

	// Close stops notifications and releases the line.
	Close() error
}

// Default pin definitions (BCM numbering). Rows are outputs, driven low to
// scan; columns are inputs with pull-up, reading low when a key connects
// them to the driven row.
var (
	DefaultRowPins = [4]int{5, 6, 13, 19}
	DefaultColPins = [4]int{12, 16, 20, 21}
)

// DefaultButtonPin is the unit toggle button, active low with pull-up.
const DefaultButtonPin = 26

// Chip is the GPIO character device used by the cdev backend.
const Chip = "gpiochip0"
