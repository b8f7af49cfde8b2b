package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const googleTranslateURL = "https://translate.googleapis.com/translate_a/single"

// GoogleTranslator uses the keyless Google translate web endpoint. The
// response is a positional JSON array: index 0 holds translated sentence
// chunks, index 2 the detected source language.
type GoogleTranslator struct {
	httpClient *http.Client
}

func NewGoogleTranslator() *GoogleTranslator {
	return &GoogleTranslator{
		httpClient: &http.Client{
			Timeout: 1 * time.Minute,
		},
	}
}

func (g *GoogleTranslator) Name() string {
	return "google"
}

func (g *GoogleTranslator) Translate(ctx context.Context, text, targetLang string) (*Translation, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", targetLang)
	q.Set("dt", "t")
	q.Set("q", text)

	httpReq, err := http.NewRequestWithContext(ctx, "GET", googleTranslateURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("google translate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google translate error (status %d): %s", resp.StatusCode, string(body))
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse decodes the endpoint's untyped array-of-arrays payload.
func parseGoogleResponse(body []byte) (*Translation, error) {
	var raw []any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty translation response")
	}

	chunks, ok := raw[0].([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected translation payload shape")
	}

	var sb strings.Builder
	for _, c := range chunks {
		pair, ok := c.([]any)
		if !ok || len(pair) == 0 {
			continue
		}
		if s, ok := pair[0].(string); ok {
			sb.WriteString(s)
		}
	}

	translated := sb.String()
	if strings.TrimSpace(translated) == "" {
		return nil, fmt.Errorf("empty translation result")
	}

	t := &Translation{Text: translated}
	if len(raw) > 2 {
		if lang, ok := raw[2].(string); ok {
			t.SourceLanguage = lang
		}
	}
	return t, nil
}
