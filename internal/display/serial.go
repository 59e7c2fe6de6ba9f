package display

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
	"periph.io/x/devices/v3/serlcd"
)

// OpenSerialLCD opens a SparkFun SerLCD panel on a UART.
func OpenSerialLCD(device string, baud int) (*Panel, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", device, err)
	}
	return NewSerialLCD(port), nil
}

// NewSerialLCD drives a SerLCD over an already open port. Closing the panel
// closes the port.
func NewSerialLCD(port io.WriteCloser) *Panel {
	return NewPanel(serlcd.NewSerLCD(port, Rows, Cols))
}
