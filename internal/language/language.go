package language

import "strings"

// Hint is the client-supplied source-language indicator.
type Hint string

const (
	Auto    Hint = "auto"
	Pidgin  Hint = "pidgin"
	Yoruba  Hint = "yoruba"
	Igbo    Hint = "igbo"
	Hausa   Hint = "hausa"
	Urhobo  Hint = "urhobo"
	English Hint = "en"
)

// ParseHint normalizes a raw form value into a Hint. Unknown or empty values
// fall back to Auto, which is also what the auto-detect fan-out expects.
func ParseHint(raw string) Hint {
	switch Hint(strings.ToLower(strings.TrimSpace(raw))) {
	case Pidgin:
		return Pidgin
	case Yoruba, "yo":
		return Yoruba
	case Igbo, "ig":
		return Igbo
	case Hausa, "ha":
		return Hausa
	case Urhobo:
		return Urhobo
	case English:
		return English
	default:
		return Auto
	}
}

// GoogleCodes maps hints to Google Speech recognition language codes.
// Pidgin and Urhobo have no dedicated model; Nigerian English is the
// closest match for both.
func GoogleCodes() map[Hint]string {
	return map[Hint]string{
		Pidgin:  "en-NG",
		Yoruba:  "yo-NG",
		Igbo:    "ig-NG",
		Hausa:   "ha-NG",
		Urhobo:  "en-NG",
		English: "en-US",
	}
}

// WhisperCodes maps hints to Whisper API language codes. Pidgin and Urhobo
// map to "" (let the model auto-detect): the hosted API has no model for
// either and does measurably better unconstrained. This is policy, not a
// technical limit, so callers may override the map.
func WhisperCodes() map[Hint]string {
	return map[Hint]string{
		Pidgin:  "",
		Urhobo:  "",
		Yoruba:  "yo",
		Igbo:    "ig",
		Hausa:   "ha",
		English: "en",
	}
}

// Candidate is one entry in the auto-detect fan-out list.
type Candidate struct {
	Code string
	Name string
}

// AutoCandidates returns the fixed attempt order for auto-detect mode.
// Earlier entries are the more likely languages for this service's users;
// the order is a prior, not a learned ranking.
func AutoCandidates() []Candidate {
	return []Candidate{
		{Code: "en-NG", Name: "Nigerian English/Pidgin"},
		{Code: "yo-NG", Name: "Yoruba"},
		{Code: "ig-NG", Name: "Igbo"},
		{Code: "ha-NG", Name: "Hausa"},
		{Code: "en-US", Name: "English"},
	}
}

// Info is one supported source language as exposed by the API.
type Info struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Supported returns the enumerated hint list for GET /api/languages.
func Supported() []Info {
	return []Info{
		{Code: "pidgin", Name: "Nigerian Pidgin"},
		{Code: "yo", Name: "Yoruba"},
		{Code: "ig", Name: "Igbo"},
		{Code: "ha", Name: "Hausa"},
		{Code: "en", Name: "English"},
		{Code: "auto", Name: "Auto-detect"},
	}
}

var displayNames = map[string]string{
	"en":  "English",
	"yo":  "Yoruba",
	"ig":  "Igbo",
	"ha":  "Hausa",
	"fr":  "French",
	"es":  "Spanish",
	"pt":  "Portuguese",
	"ar":  "Arabic",
	"sw":  "Swahili",
	"de":  "German",
	"zh":  "Chinese",
	"hi":  "Hindi",
}

// DisplayName maps a backend language code to a human-readable name.
// Codes missing from the table pass through unchanged.
func DisplayName(code string) string {
	if name, ok := displayNames[Base(code)]; ok {
		return name
	}
	return code
}

// Base strips a regional suffix from a language code: "yo-NG" -> "yo".
func Base(code string) string {
	if i := strings.IndexByte(code, '-'); i > 0 {
		return code[:i]
	}
	return code
}

// IsEnglish reports whether a detected code means the text is already English.
func IsEnglish(code string) bool {
	return Base(strings.ToLower(code)) == "en"
}
