package recognize

import (
	"context"
	"errors"
	"log"

	"github.com/voicenote/backend/internal/language"
)

// Selector decides which recognition language attempts to make for a given
// hint and drives the auto-detect fan-out.
type Selector struct {
	engine     Recognizer
	codes      map[language.Hint]string
	candidates []language.Candidate
}

// NewSelector builds a selector over one engine. codes maps hints to that
// engine's language codes ("" forces backend auto-detect); candidates is the
// ordered auto-detect attempt list. Nil arguments take the engine-appropriate
// defaults for Google-style regional codes.
func NewSelector(engine Recognizer, codes map[language.Hint]string, candidates []language.Candidate) *Selector {
	if codes == nil {
		codes = language.GoogleCodes()
	}
	if candidates == nil {
		candidates = language.AutoCandidates()
	}
	return &Selector{engine: engine, codes: codes, candidates: candidates}
}

// Transcribe runs the recognition strategy for hint against the normalized
// audio at path. Explicit hints get exactly one attempt. Auto (or any
// unmapped hint) walks the candidate list in order, stopping at the first
// non-empty transcript. Only inaudible attempts continue the walk; service
// and credential failures abort immediately.
func (s *Selector) Transcribe(ctx context.Context, path string, hint language.Hint) (*Result, error) {
	if hint != language.Auto {
		if code, ok := s.codes[hint]; ok {
			return s.engine.Recognize(ctx, path, code)
		}
		log.Printf("[recognize] unmapped hint %q, falling back to auto", hint)
	}

	tried := make([]string, 0, len(s.candidates))
	for _, cand := range s.candidates {
		tried = append(tried, cand.Code)
		log.Printf("[recognize] trying %s (%s)", cand.Name, cand.Code)

		result, err := s.engine.Recognize(ctx, path, cand.Code)
		if err == nil {
			log.Printf("[recognize] recognized as %s", cand.Name)
			return result, nil
		}
		if errors.Is(err, ErrInaudible) {
			continue
		}
		return nil, err
	}

	return nil, &ExhaustedError{Tried: tried}
}
