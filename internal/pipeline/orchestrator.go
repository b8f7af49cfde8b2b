package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voicenote/backend/internal/audio"
	"github.com/voicenote/backend/internal/language"
	"github.com/voicenote/backend/internal/recognize"
	"github.com/voicenote/backend/internal/translate"
)

// ValidationError is a user-fixable input problem, mapped to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Normalizer converts an upload into canonical PCM.
type Normalizer interface {
	Normalize(ctx context.Context, path, ext string) (string, error)
}

// Transcriber runs the recognition strategy for a language hint.
type Transcriber interface {
	Transcribe(ctx context.Context, path string, hint language.Hint) (*recognize.Result, error)
}

// Adjudicator decides whether and how to translate transcribed text.
type Adjudicator interface {
	Adjudicate(ctx context.Context, text, detectedLang string) *translate.Result
}

// Request is one voice-note translation request, front-end agnostic.
type Request struct {
	Audio    io.Reader
	Filename string
	Size     int64 // declared size; <= 0 means unknown (still capped on read)
	Hint     language.Hint
	Events   Observer
}

// Outcome is the successful result of a pipeline run.
type Outcome struct {
	OriginalText         string
	TranslatedText       string
	DetectedLanguage     string
	DetectedLanguageName string
	Note                 string
}

// Orchestrator drives one request through validate -> normalize ->
// transcribe -> translate, guaranteeing temp-file cleanup on every exit path.
type Orchestrator struct {
	normalizer  Normalizer
	transcriber Transcriber
	adjudicator Adjudicator
	tmpDir      string
	maxBytes    int64
	callTimeout time.Duration
}

func New(n Normalizer, t Transcriber, a Adjudicator, tmpDir string, maxBytes int64, callTimeout time.Duration) *Orchestrator {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &Orchestrator{
		normalizer:  n,
		transcriber: t,
		adjudicator: a,
		tmpDir:      tmpDir,
		maxBytes:    maxBytes,
		callTimeout: callTimeout,
	}
}

// Process runs the full pipeline. Every temporary artifact created along the
// way (the persisted upload and the normalized copy when distinct) is removed
// before return, whatever the outcome. Panics unwind through the deferred
// cleanup as well.
func (o *Orchestrator) Process(ctx context.Context, req Request) (outcome *Outcome, err error) {
	events := req.Events

	events.emit(Event{Stage: StageValidate, Kind: StageEntered})
	ext, err := o.validate(req)
	if err != nil {
		events.emit(Event{Stage: StageValidate, Kind: StageFailed, Err: err})
		return nil, err
	}
	events.emit(Event{Stage: StageValidate, Kind: StageCompleted})

	var artifacts []string
	defer func() {
		for _, p := range artifacts {
			if rmErr := os.Remove(p); rmErr != nil && !os.IsNotExist(rmErr) {
				log.Printf("[pipeline] cleanup %s: %v", p, rmErr)
			}
		}
	}()

	uploadPath, err := o.persist(req, ext)
	if uploadPath != "" {
		artifacts = append(artifacts, uploadPath)
	}
	if err != nil {
		return nil, err
	}

	events.emit(Event{Stage: StageNormalize, Kind: StageEntered})
	normalizedPath, err := o.normalize(ctx, uploadPath, ext)
	if err != nil {
		events.emit(Event{Stage: StageNormalize, Kind: StageFailed, Err: err})
		return nil, err
	}
	if normalizedPath != uploadPath {
		artifacts = append(artifacts, normalizedPath)
	}
	events.emit(Event{Stage: StageNormalize, Kind: StageCompleted})

	events.emit(Event{Stage: StageTranscribe, Kind: StageEntered, Detail: string(req.Hint)})
	transcription, err := o.transcribe(ctx, normalizedPath, req.Hint)
	if err != nil {
		events.emit(Event{Stage: StageTranscribe, Kind: StageFailed, Err: err})
		return nil, err
	}
	events.emit(Event{Stage: StageTranscribe, Kind: StageCompleted, Detail: transcription.Language})
	log.Printf("[pipeline] transcribed via %s engine (lang=%s)", transcription.Engine, transcription.Language)

	// This stage cannot fail the request: the adjudicator degrades to the
	// original text when translation is unavailable.
	events.emit(Event{Stage: StageTranslate, Kind: StageEntered})
	adjudicated := o.translate(ctx, transcription)
	events.emit(Event{Stage: StageTranslate, Kind: StageCompleted, Detail: adjudicated.DetectedLanguage})

	return &Outcome{
		OriginalText:         transcription.Text,
		TranslatedText:       adjudicated.TranslatedText,
		DetectedLanguage:     adjudicated.DetectedLanguage,
		DetectedLanguageName: language.DisplayName(adjudicated.DetectedLanguage),
		Note:                 adjudicated.Note,
	}, nil
}

func (o *Orchestrator) validate(req Request) (string, error) {
	if req.Audio == nil {
		return "", &ValidationError{Msg: "No audio file provided"}
	}
	if strings.TrimSpace(req.Filename) == "" {
		return "", &ValidationError{Msg: "No file selected"}
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(req.Filename), "."))
	if ext == "" || !audio.AllowedExtensions[ext] {
		return "", &ValidationError{
			Msg: fmt.Sprintf("File type not allowed. Supported: %s", strings.Join(allowedList(), ", ")),
		}
	}

	if o.maxBytes > 0 && req.Size > o.maxBytes {
		return "", &ValidationError{
			Msg: fmt.Sprintf("File too large. Maximum size is %d MB", o.maxBytes/(1024*1024)),
		}
	}

	return ext, nil
}

// persist writes the upload to a collision-safe temp path. The client
// filename contributes only its validated extension, so path traversal via
// the name is impossible.
func (o *Orchestrator) persist(req Request, ext string) (string, error) {
	path := filepath.Join(o.tmpDir, uuid.NewString()+"."+ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	src := req.Audio
	if o.maxBytes > 0 {
		src = io.LimitReader(src, o.maxBytes+1)
	}

	n, err := io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return path, fmt.Errorf("save upload: %w", err)
	}
	if n == 0 {
		return path, &ValidationError{Msg: "No file selected"}
	}
	if o.maxBytes > 0 && n > o.maxBytes {
		return path, &ValidationError{
			Msg: fmt.Sprintf("File too large. Maximum size is %d MB", o.maxBytes/(1024*1024)),
		}
	}

	return path, nil
}

func (o *Orchestrator) normalize(ctx context.Context, path, ext string) (string, error) {
	ctx, cancel := o.stageContext(ctx)
	defer cancel()
	return o.normalizer.Normalize(ctx, path, ext)
}

func (o *Orchestrator) transcribe(ctx context.Context, path string, hint language.Hint) (*recognize.Result, error) {
	ctx, cancel := o.stageContext(ctx)
	defer cancel()
	return o.transcriber.Transcribe(ctx, path, hint)
}

func (o *Orchestrator) translate(ctx context.Context, transcription *recognize.Result) *translate.Result {
	ctx, cancel := o.stageContext(ctx)
	defer cancel()
	return o.adjudicator.Adjudicate(ctx, transcription.Text, transcription.Language)
}

func (o *Orchestrator) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.callTimeout)
}

func allowedList() []string {
	exts := make([]string, 0, len(audio.AllowedExtensions))
	for ext := range audio.AllowedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
