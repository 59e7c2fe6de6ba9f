package thermo

import "errors"

// FakeSensor is a test double that returns scripted readings.
type FakeSensor struct {
	// Samples contains scripted fractions to return.
	// Each call to Fraction() consumes the next sample.
	Samples []float64

	// index tracks current position in Samples
	index int

	// ReadError, if set, will be returned by Fraction()
	ReadError error
}

// NewFakeSensor creates a FakeSensor with the given samples.
func NewFakeSensor(samples ...float64) *FakeSensor {
	return &FakeSensor{Samples: samples}
}

// Fraction returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeSensor) Fraction() (float64, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s, nil
}
