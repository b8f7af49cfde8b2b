package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/voicenote/backend/internal/api"
	"github.com/voicenote/backend/internal/api/middleware"
	"github.com/voicenote/backend/internal/audio"
	"github.com/voicenote/backend/internal/config"
	"github.com/voicenote/backend/internal/language"
	"github.com/voicenote/backend/internal/pipeline"
	"github.com/voicenote/backend/internal/recognize"
	"github.com/voicenote/backend/internal/translate"
)

func main() {
	cfg := config.Load()

	// Ensure temp directory exists
	os.MkdirAll(cfg.TempPath, 0700)

	// Recognition backend
	var engine recognize.Recognizer
	var codes map[language.Hint]string
	switch cfg.RecognizerBackend {
	case "whisper":
		engine = recognize.NewWhisperClient(cfg.OpenAIAPIKey)
		codes = language.WhisperCodes()
	default:
		engine = recognize.NewGoogleClient(cfg.GoogleSpeechAPIKey)
		codes = language.GoogleCodes()
	}
	log.Printf("Recognition backend: %s", engine.Name())
	selector := recognize.NewSelector(engine, codes, nil)

	// Translation backend
	var translator translate.Translator
	switch cfg.TranslatorBackend {
	case "deepl":
		translator = translate.NewDeepLTranslator(cfg.DeepLAPIKey)
	default:
		translator = translate.NewGoogleTranslator()
	}
	log.Printf("Translation backend: %s", translator.Name())
	adjudicator := translate.NewAdjudicator(translator)

	normalizer := audio.NewNormalizer(cfg.FFmpegPath)

	orchestrator := pipeline.New(normalizer, selector, adjudicator,
		cfg.TempPath, cfg.MaxUploadBytes, cfg.CallTimeout)

	guard := middleware.NewRateGuard(middleware.DefaultWindows(
		cfg.RatePerMinute, cfg.RatePerHour, cfg.RatePerDay))

	services := map[string]bool{
		"speech_recognition": cfg.RecognizerConfigured(),
		"translation":        cfg.TranslatorConfigured(),
	}
	if !cfg.RecognizerConfigured() {
		log.Printf("WARNING: %s recognition backend has no API key, requests will fail", cfg.RecognizerBackend)
	}

	router := api.NewRouter(cfg, orchestrator, guard, services)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Upload limit: %d MB, temp path: %s", cfg.MaxUploadBytes/(1024*1024), cfg.TempPath)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
