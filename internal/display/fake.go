package display

// FakeOutput records rendered frames for test assertions.
type FakeOutput struct {
	// Frames contains every frame that was rendered.
	Frames []string

	// RenderError, if set, will be returned by Render.
	RenderError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeOutput creates a FakeOutput for testing.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{}
}

// Render records the frame.
func (f *FakeOutput) Render(frame string) error {
	if f.RenderError != nil {
		return f.RenderError
	}
	f.Frames = append(f.Frames, frame)
	return nil
}

// Last returns the most recent frame, or "" if none.
func (f *FakeOutput) Last() string {
	if len(f.Frames) == 0 {
		return ""
	}
	return f.Frames[len(f.Frames)-1]
}

// Close marks the output as closed.
func (f *FakeOutput) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded frames.
func (f *FakeOutput) Reset() {
	f.Frames = nil
	f.RenderError = nil
	f.Closed = false
}
