// Package speech adapts host speech engines to the session controller.
// Synthesis and recognition are external programs; without them the
// session runs text-only.
package speech

import "errors"

var ErrUnavailable = errors.New("speech capture is not available")

// Speech is what a session needs from the host.
type Speech interface {
	// Speak reads text aloud, cancelling anything still being spoken.
	Speak(text string)
	// StartCapture begins recognition; onText gets each final transcript
	// fragment.
	StartCapture(onText func(text string)) (Capture, error)
	Available() bool
}

type Capture interface {
	Stop()
}

// None is the text-only fallback.
type None struct{}

func (None) Speak(string) {}

func (None) StartCapture(func(string)) (Capture, error) {
	return nil, ErrUnavailable
}

func (None) Available() bool { return false }

// New picks Command when either program is configured, None otherwise.
func New(synthCmd, captureCmd string) Speech {
	if synthCmd == "" && captureCmd == "" {
		return None{}
	}
	return NewCommand(synthCmd, captureCmd)
}
