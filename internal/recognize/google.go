package recognize

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

const googleSpeechURL = "https://speech.googleapis.com/v1/speech:recognize"

// GoogleClient transcribes audio with the Google Speech-to-Text REST API.
// Expects canonical 16 kHz mono LINEAR16 WAV input.
type GoogleClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewGoogleClient(apiKey string) *GoogleClient {
	return &GoogleClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

func (c *GoogleClient) Name() string {
	return "google"
}

func (c *GoogleClient) Recognize(ctx context.Context, path, langCode string) (*Result, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_SPEECH_API_KEY not configured: %w", ErrAuth)
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	if langCode == "" {
		// The v1 API requires a language; Nigerian English is the service's
		// most likely input and doubles as the auto fallback.
		langCode = "en-NG"
	}

	reqBody := map[string]any{
		"config": map[string]any{
			"encoding":        "LINEAR16",
			"sampleRateHertz": 16000,
			"languageCode":    langCode,
		},
		"audio": map[string]any{
			"content": base64.StdEncoding.EncodeToString(audio),
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := googleSpeechURL + "?key=" + c.apiKey
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("google speech request: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", ErrUnavailable)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("google speech rejected API key (status %d): %w", resp.StatusCode, ErrAuth)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("google speech error (status %d): %s: %w", resp.StatusCode, string(body), ErrUnavailable)
	}

	var apiResp struct {
		Results []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", ErrUnavailable)
	}

	var text strings.Builder
	for _, r := range apiResp.Results {
		if len(r.Alternatives) > 0 {
			if text.Len() > 0 {
				text.WriteByte(' ')
			}
			text.WriteString(r.Alternatives[0].Transcript)
		}
	}

	transcript := strings.TrimSpace(text.String())
	if transcript == "" {
		return nil, fmt.Errorf("%s: %w", langCode, ErrInaudible)
	}

	log.Printf("[recognize-google] transcribed %d chars (lang=%s)", len(transcript), langCode)

	return &Result{
		Text:     transcript,
		Language: langCode,
		Engine:   c.Name(),
	}, nil
}
