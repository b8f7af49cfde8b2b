package translate

import (
	"context"
	"log"

	"github.com/voicenote/backend/internal/language"
)

// Notes attached to adjudicated results.
const (
	NoteAlreadyEnglish = "Text was already in English"
	NoteUnavailable    = "Translation service unavailable, showing original text"
)

// Result is the adjudicated outcome. A degraded result still carries usable
// text: TranslatedText falls back to the original transcript.
type Result struct {
	TranslatedText   string
	DetectedLanguage string
	Note             string // "" when a real translation happened
}

// Adjudicator decides whether transcribed text needs translation and shields
// the request from translation-backend failures: a failed translation
// degrades to the original text, it never fails the request.
type Adjudicator struct {
	engine Translator
	target string
}

func NewAdjudicator(engine Translator) *Adjudicator {
	return &Adjudicator{engine: engine, target: "en"}
}

// Adjudicate translates text to English unless it already is English.
// detectedLang is the speech attempt's language code; the translation
// backend's own detection, when present, overrides it in the result.
func (a *Adjudicator) Adjudicate(ctx context.Context, text, detectedLang string) *Result {
	base := language.Base(detectedLang)

	if language.IsEnglish(detectedLang) {
		return &Result{
			TranslatedText:   text,
			DetectedLanguage: base,
			Note:             NoteAlreadyEnglish,
		}
	}

	translation, err := a.engine.Translate(ctx, text, a.target)
	if err != nil {
		log.Printf("[translate] %s engine failed, degrading to original text: %v", a.engine.Name(), err)
		return &Result{
			TranslatedText:   text,
			DetectedLanguage: base,
			Note:             NoteUnavailable,
		}
	}

	detected := translation.SourceLanguage
	if detected == "" {
		detected = base
	}

	if language.IsEnglish(detected) {
		return &Result{
			TranslatedText:   text,
			DetectedLanguage: detected,
			Note:             NoteAlreadyEnglish,
		}
	}

	return &Result{
		TranslatedText:   translation.Text,
		DetectedLanguage: detected,
	}
}
