package display

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/hd44780"
)

// DefaultBackpackAddress is the usual I2C address of a PCF8574 LCD backpack.
const DefaultBackpackAddress uint16 = 0x27

// NewBackpackLCD opens an HD44780 panel behind a PCF8574 I2C backpack.
func NewBackpackLCD(bus i2c.Bus, addr uint16) (*Panel, error) {
	dev, err := hd44780.NewPCF857xBackpack(bus, addr, Rows, Cols)
	if err != nil {
		return nil, fmt.Errorf("hd44780 backpack at %#x: %w", addr, err)
	}
	return NewPanel(dev), nil
}
