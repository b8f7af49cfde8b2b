package recognize

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/voicenote/backend/internal/language"
)

// WhisperClient transcribes audio with the hosted OpenAI Whisper API.
type WhisperClient struct {
	client *openai.Client
	model  string
}

func NewWhisperClient(apiKey string) *WhisperClient {
	var client *openai.Client
	if apiKey != "" {
		client = openai.NewClient(apiKey)
	}
	return &WhisperClient{
		client: client,
		model:  openai.Whisper1,
	}
}

func (c *WhisperClient) Name() string {
	return "whisper"
}

func (c *WhisperClient) Recognize(ctx context.Context, path, langCode string) (*Result, error) {
	if c.client == nil {
		return nil, fmt.Errorf("OPENAI_API_KEY not configured: %w", ErrAuth)
	}

	req := openai.AudioRequest{
		Model:    c.model,
		FilePath: path,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	// Whisper wants bare ISO codes; a regional code like yo-NG would be
	// rejected outright.
	if langCode != "" {
		req.Language = language.Base(langCode)
	}

	resp, err := c.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, fmt.Errorf("%s: %w", langCode, ErrInaudible)
	}

	detected := whisperLanguageCode(resp.Language, langCode)

	log.Printf("[recognize-whisper] transcribed %d chars (lang=%s)", len(text), detected)

	return &Result{
		Text:     text,
		Language: detected,
		Engine:   c.Name(),
	}, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("whisper rejected API key: %w", ErrAuth)
		default:
			return fmt.Errorf("whisper error (status %d): %v: %w", apiErr.HTTPStatusCode, apiErr, ErrUnavailable)
		}
	}
	return fmt.Errorf("whisper request: %v: %w", err, ErrUnavailable)
}

// whisperLanguageNames maps the language names the verbose JSON response
// reports ("english", not "en") to ISO 639-1 codes.
var whisperLanguageNames = map[string]string{
	"english":    "en",
	"yoruba":     "yo",
	"igbo":       "ig",
	"hausa":      "ha",
	"french":     "fr",
	"spanish":    "es",
	"portuguese": "pt",
	"arabic":     "ar",
	"swahili":    "sw",
	"german":     "de",
	"chinese":    "zh",
	"hindi":      "hi",
}

// whisperLanguageCode converts the API's detected-language field to an ISO
// code. Short values are assumed to be codes already; unrecognized names fall
// back to the attempt's code.
func whisperLanguageCode(apiLang, attemptCode string) string {
	name := strings.ToLower(strings.TrimSpace(apiLang))
	if code, ok := whisperLanguageNames[name]; ok {
		return code
	}
	if name != "" && len(name) <= 3 {
		return name
	}
	return language.Base(attemptCode)
}
