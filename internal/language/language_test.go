package language

import "testing"

func TestParseHint(t *testing.T) {
	tests := []struct {
		raw  string
		want Hint
	}{
		{"pidgin", Pidgin},
		{"yoruba", Yoruba},
		{"yo", Yoruba},
		{"IG", Igbo},
		{"ha", Hausa},
		{"urhobo", Urhobo},
		{"en", English},
		{"auto", Auto},
		{"", Auto},
		{"klingon", Auto},
		{"  yo  ", Yoruba},
	}

	for _, tt := range tests {
		if got := ParseHint(tt.raw); got != tt.want {
			t.Errorf("ParseHint(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestAutoCandidatesOrder(t *testing.T) {
	cands := AutoCandidates()
	want := []string{"en-NG", "yo-NG", "ig-NG", "ha-NG", "en-US"}
	if len(cands) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(cands), len(want))
	}
	for i, code := range want {
		if cands[i].Code != code {
			t.Errorf("candidate %d = %q, want %q (order is load-bearing)", i, cands[i].Code, code)
		}
	}
}

func TestWhisperCodesForceAutoForPidgin(t *testing.T) {
	codes := WhisperCodes()
	for _, h := range []Hint{Pidgin, Urhobo} {
		code, ok := codes[h]
		if !ok {
			t.Errorf("WhisperCodes missing %q", h)
			continue
		}
		if code != "" {
			t.Errorf("WhisperCodes[%q] = %q, want \"\" (force auto-detect)", h, code)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"yo", "Yoruba"},
		{"yo-NG", "Yoruba"},
		{"en", "English"},
		{"xx", "xx"},     // unknown codes pass through
		{"tlh", "tlh"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.code); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestIsEnglish(t *testing.T) {
	for _, code := range []string{"en", "en-NG", "EN-US"} {
		if !IsEnglish(code) {
			t.Errorf("IsEnglish(%q) = false", code)
		}
	}
	for _, code := range []string{"yo", "yo-NG", ""} {
		if IsEnglish(code) {
			t.Errorf("IsEnglish(%q) = true", code)
		}
	}
}
