package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Error reports a failed display capture. The pipeline treats it as a
// cycle-abort: the caller logs it and retries on the next cadence tick.
type Error struct {
	Display int
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("capture display %d: %v", e.Display, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Grabber acquires a single full frame of a display. Implementations must
// not retain state between calls.
type Grabber interface {
	Grab() (*image.RGBA, error)
}

// Display captures one configured monitor by index.
type Display struct {
	Index int
}

// Grab captures the full bounds of the configured display and returns a
// freshly allocated RGBA frame.
func (d Display) Grab() (*image.RGBA, error) {
	n := screenshot.NumActiveDisplays()
	if d.Index < 0 || d.Index >= n {
		return nil, &Error{Display: d.Index, Cause: fmt.Errorf("no such display (active=%d)", n)}
	}
	img, err := screenshot.CaptureDisplay(d.Index)
	if err != nil {
		return nil, &Error{Display: d.Index, Cause: err}
	}
	return img, nil
}

// Bounds returns the pixel bounds of the configured display without
// capturing it.
func (d Display) Bounds() image.Rectangle {
	return screenshot.GetDisplayBounds(d.Index)
}

var _ Grabber = Display{}
