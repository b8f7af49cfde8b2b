package translate

import "context"

// Translation is one backend translation call's output.
type Translation struct {
	Text           string // translated text
	SourceLanguage string // backend-detected source language code, may be ""
}

// Translator is the common interface for translation engines.
type Translator interface {
	// Translate translates text into targetLang, detecting the source.
	Translate(ctx context.Context, text, targetLang string) (*Translation, error)
	// Name returns the engine name
	Name() string
}
