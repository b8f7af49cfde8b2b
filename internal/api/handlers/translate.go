package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/voicenote/backend/internal/audio"
	"github.com/voicenote/backend/internal/language"
	"github.com/voicenote/backend/internal/pipeline"
	"github.com/voicenote/backend/internal/recognize"
)

// Pipeline is the orchestrator contract both front-ends call into.
type Pipeline interface {
	Process(ctx context.Context, req pipeline.Request) (*pipeline.Outcome, error)
}

// TranslateResponse is the externally visible result of POST /api/translate.
type TranslateResponse struct {
	Success              bool   `json:"success"`
	OriginalText         string `json:"original_text,omitempty"`
	TranslatedText       string `json:"translated_text,omitempty"`
	DetectedLanguage     string `json:"detected_language,omitempty"`
	DetectedLanguageName string `json:"detected_language_name,omitempty"`
	Note                 string `json:"note,omitempty"`
	Error                string `json:"error,omitempty"`
}

type TranslateHandler struct {
	pipeline Pipeline
	maxBytes int64
}

func NewTranslateHandler(p Pipeline, maxBytes int64) *TranslateHandler {
	return &TranslateHandler{pipeline: p, maxBytes: maxBytes}
}

// Translate handles POST /api/translate: multipart form with required file
// field "audio" and optional field "language" (default auto).
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	// Ceiling includes multipart framing overhead beyond the audio payload
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+64*1024)

	if err := r.ParseMultipartForm(h.maxBytes + 64*1024); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, "File too large", http.StatusBadRequest)
			return
		}
		jsonError(w, "Invalid multipart request", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("audio")
	if err != nil {
		jsonError(w, "No audio file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	outcome, err := h.pipeline.Process(r.Context(), pipeline.Request{
		Audio:    file,
		Filename: header.Filename,
		Size:     header.Size,
		Hint:     language.ParseHint(r.FormValue("language")),
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TranslateResponse{
		Success:              true,
		OriginalText:         outcome.OriginalText,
		TranslatedText:       outcome.TranslatedText,
		DetectedLanguage:     outcome.DetectedLanguage,
		DetectedLanguageName: outcome.DetectedLanguageName,
		Note:                 outcome.Note,
	})
}

// writeFailure maps the pipeline failure taxonomy onto HTTP statuses.
func (h *TranslateHandler) writeFailure(w http.ResponseWriter, err error) {
	var verr *pipeline.ValidationError
	if errors.As(err, &verr) {
		jsonError(w, verr.Msg, http.StatusBadRequest)
		return
	}

	var cerr *audio.ConversionError
	if errors.As(err, &cerr) {
		if cerr.ToolMissing() {
			log.Printf("[api] audio converter unavailable: %v", err)
			jsonError(w, "Audio conversion is not available on this server", http.StatusInternalServerError)
			return
		}
		jsonError(w, "Could not read the audio file. It may be corrupted or not really audio.", http.StatusBadRequest)
		return
	}

	switch {
	case errors.Is(err, recognize.ErrInaudible):
		jsonError(w, "Could not understand audio. Please ensure clear audio with minimal background noise.", http.StatusBadRequest)
	case errors.Is(err, recognize.ErrAuth):
		log.Printf("[api] recognition credentials problem: %v", err)
		jsonError(w, "Speech recognition is not configured on this server. Set the backend API key.", http.StatusInternalServerError)
	case errors.Is(err, recognize.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		log.Printf("[api] recognition backend unavailable: %v", err)
		jsonError(w, "Speech recognition service is unavailable. Please try again later.", http.StatusServiceUnavailable)
	default:
		log.Printf("[api] unexpected pipeline error: %v", err)
		jsonError(w, "Server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, TranslateResponse{Success: false, Error: msg})
}
