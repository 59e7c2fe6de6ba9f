package thermo

import (
	"fmt"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
)

// Reference is the full-scale voltage a fraction of 1.0 corresponds to.
const Reference = 3300 * physic.MilliVolt

// ADCSensor reads the temperature sensor through an analog input pin.
type ADCSensor struct {
	pin analog.PinADC
	ref physic.ElectricPotential
}

// NewADCSensor wraps an analog pin. Readings are normalized against ref.
func NewADCSensor(pin analog.PinADC, ref physic.ElectricPotential) *ADCSensor {
	return &ADCSensor{pin: pin, ref: ref}
}

// NewADS1115Sensor opens channel 0 of an ADS1115 on bus.
func NewADS1115Sensor(bus i2c.Bus, addr uint16) (*ADCSensor, error) {
	opts := ads1x15.DefaultOpts
	opts.I2cAddress = addr
	dev, err := ads1x15.NewADS1115(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("open ads1115 at %#x: %w", addr, err)
	}
	pin, err := dev.PinForChannel(ads1x15.Channel0, Reference, 8*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		return nil, fmt.Errorf("ads1115 channel 0: %w", err)
	}
	return NewADCSensor(pin, Reference), nil
}

// Fraction returns the pin voltage as a fraction of the reference, clamped
// to [0, 1].
func (s *ADCSensor) Fraction() (float64, error) {
	sample, err := s.pin.Read()
	if err != nil {
		return 0, fmt.Errorf("adc read: %w", err)
	}
	f := float64(sample.V) / float64(s.ref)
	switch {
	case f < 0:
		f = 0
	case f > 1:
		f = 1
	}
	return f, nil
}

// Close halts the pin.
func (s *ADCSensor) Close() error {
	return s.pin.Halt()
}
