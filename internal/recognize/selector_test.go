package recognize

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/voicenote/backend/internal/language"
)

// fakeEngine succeeds only for codes present in texts; other codes fail with
// the configured error (default inaudible). Records attempt order.
type fakeEngine struct {
	texts    map[string]string
	failWith error
	attempts []string
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(ctx context.Context, path, langCode string) (*Result, error) {
	f.attempts = append(f.attempts, langCode)
	if text, ok := f.texts[langCode]; ok {
		return &Result{Text: text, Language: langCode, Engine: "fake"}, nil
	}
	if f.failWith != nil {
		return nil, f.failWith
	}
	return nil, fmt.Errorf("%s: %w", langCode, ErrInaudible)
}

var testCandidates = []language.Candidate{
	{Code: "en-NG", Name: "Nigerian English/Pidgin"},
	{Code: "yo-NG", Name: "Yoruba"},
	{Code: "ha-NG", Name: "Hausa"},
}

func TestExplicitHintSingleAttempt(t *testing.T) {
	engine := &fakeEngine{texts: map[string]string{"yo-NG": "bawo ni"}}
	sel := NewSelector(engine, nil, testCandidates)

	result, err := sel.Transcribe(context.Background(), "audio.wav", language.Yoruba)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if result.Text != "bawo ni" {
		t.Errorf("Text = %q, want %q", result.Text, "bawo ni")
	}
	if len(engine.attempts) != 1 || engine.attempts[0] != "yo-NG" {
		t.Errorf("attempts = %v, want exactly [yo-NG]", engine.attempts)
	}
}

func TestExplicitHintFailureNoRetry(t *testing.T) {
	engine := &fakeEngine{}
	sel := NewSelector(engine, nil, testCandidates)

	_, err := sel.Transcribe(context.Background(), "audio.wav", language.Hausa)
	if !errors.Is(err, ErrInaudible) {
		t.Fatalf("Transcribe() error = %v, want inaudible", err)
	}
	if len(engine.attempts) != 1 {
		t.Errorf("explicit hint made %d attempts, want 1: %v", len(engine.attempts), engine.attempts)
	}
}

func TestAutoStopsAtFirstSuccess(t *testing.T) {
	// Succeeds only on the second candidate: first must be tried and fail,
	// third must never be reached.
	engine := &fakeEngine{texts: map[string]string{"yo-NG": "text"}}
	sel := NewSelector(engine, nil, testCandidates)

	result, err := sel.Transcribe(context.Background(), "audio.wav", language.Auto)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if result.Language != "yo-NG" {
		t.Errorf("Language = %q, want yo-NG", result.Language)
	}

	want := []string{"en-NG", "yo-NG"}
	if len(engine.attempts) != len(want) {
		t.Fatalf("attempts = %v, want %v", engine.attempts, want)
	}
	for i := range want {
		if engine.attempts[i] != want[i] {
			t.Errorf("attempt %d = %q, want %q", i, engine.attempts[i], want[i])
		}
	}
}

func TestAutoExhaustedListsCandidates(t *testing.T) {
	engine := &fakeEngine{}
	sel := NewSelector(engine, nil, testCandidates)

	_, err := sel.Transcribe(context.Background(), "audio.wav", language.Auto)

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Transcribe() error = %v, want *ExhaustedError", err)
	}
	if !errors.Is(err, ErrInaudible) {
		t.Error("ExhaustedError should unwrap to ErrInaudible")
	}
	if len(exhausted.Tried) != len(testCandidates) {
		t.Errorf("Tried = %v, want all %d candidates", exhausted.Tried, len(testCandidates))
	}
}

func TestAutoAbortsOnServiceFailure(t *testing.T) {
	engine := &fakeEngine{failWith: fmt.Errorf("boom: %w", ErrUnavailable)}
	sel := NewSelector(engine, nil, testCandidates)

	_, err := sel.Transcribe(context.Background(), "audio.wav", language.Auto)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Transcribe() error = %v, want unavailable", err)
	}
	if len(engine.attempts) != 1 {
		t.Errorf("fan-out continued past a service failure: %v", engine.attempts)
	}
}

func TestAutoAbortsOnAuthFailure(t *testing.T) {
	engine := &fakeEngine{failWith: fmt.Errorf("no key: %w", ErrAuth)}
	sel := NewSelector(engine, nil, testCandidates)

	_, err := sel.Transcribe(context.Background(), "audio.wav", language.Auto)
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("Transcribe() error = %v, want auth failure", err)
	}
	if len(engine.attempts) != 1 {
		t.Errorf("fan-out continued past an auth failure: %v", engine.attempts)
	}
}

func TestUnmappedHintFallsBackToAuto(t *testing.T) {
	engine := &fakeEngine{texts: map[string]string{"en-NG": "how far"}}
	// Urhobo deliberately absent from the code map.
	codes := map[language.Hint]string{language.Yoruba: "yo-NG"}
	sel := NewSelector(engine, codes, testCandidates)

	result, err := sel.Transcribe(context.Background(), "audio.wav", language.Urhobo)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if result.Text != "how far" {
		t.Errorf("Text = %q, want fan-out result", result.Text)
	}
}
