package recognize

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Result is the output of one recognition attempt.
type Result struct {
	Text     string // transcribed text, never empty on success
	Language string // backend language code used or detected
	Engine   string // engine name for diagnostics
}

// Recognizer is the common interface for speech-to-text engines. langCode ""
// asks the backend to auto-detect.
type Recognizer interface {
	// Recognize transcribes the audio file at path.
	Recognize(ctx context.Context, path, langCode string) (*Result, error)
	// Name returns the engine name
	Name() string
}

// Failure taxonomy. Backends wrap these so callers can map outcomes to
// user-facing responses with errors.Is.
var (
	// ErrInaudible means the backend understood nothing. A valid outcome,
	// not a service fault.
	ErrInaudible = errors.New("could not understand audio")
	// ErrUnavailable means a network or service fault; the caller may retry.
	ErrUnavailable = errors.New("speech recognition service unavailable")
	// ErrAuth means a missing or invalid credential. Operator-fixable only.
	ErrAuth = errors.New("speech recognition credentials missing or invalid")
)

// ExhaustedError reports an auto-detect fan-out where every candidate failed.
// It unwraps to ErrInaudible since no candidate produced text.
type ExhaustedError struct {
	Tried []string
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no speech recognized after trying languages: %s", strings.Join(e.Tried, ", "))
}

func (e *ExhaustedError) Unwrap() error { return ErrInaudible }
