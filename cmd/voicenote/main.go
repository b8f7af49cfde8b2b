// Command voicenote runs the voice-note translation pipeline on a local
// audio file: the file-picker front-end, minus the picker. It shares the
// server's validation and cleanup contract and prints pipeline progress as
// the stages run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/voicenote/backend/internal/audio"
	"github.com/voicenote/backend/internal/config"
	"github.com/voicenote/backend/internal/language"
	"github.com/voicenote/backend/internal/pipeline"
	"github.com/voicenote/backend/internal/recognize"
	"github.com/voicenote/backend/internal/translate"
)

func main() {
	lang := flag.String("language", "auto", "source language hint (auto, pidgin, yoruba, igbo, hausa, urhobo, en)")
	outPath := flag.String("o", "", "save transcription and translation to a file")
	quiet := flag.Bool("q", false, "suppress progress output")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <audio-file>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(2)
	}
	audioPath := flag.Arg(0)

	cfg := config.Load()
	log.SetFlags(0)

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

	var translator translate.Translator
	switch cfg.TranslatorBackend {
	case "deepl":
		translator = translate.NewDeepLTranslator(cfg.DeepLAPIKey)
	default:
		translator = translate.NewGoogleTranslator()
	}

	orchestrator := pipeline.New(
		audio.NewNormalizer(cfg.FFmpegPath),
		recognize.NewSelector(engine, codes, nil),
		translate.NewAdjudicator(translator),
		cfg.TempPath, cfg.MaxUploadBytes, cfg.CallTimeout,
	)

	f, err := os.Open(audioPath)
	if err != nil {
		log.Fatalf("open %s: %v", audioPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Fatalf("stat %s: %v", audioPath, err)
	}

	var events pipeline.Observer
	if !*quiet {
		events = printEvent
	}

	outcome, err := orchestrator.Process(context.Background(), pipeline.Request{
		Audio:    f,
		Filename: filepath.Base(audioPath),
		Size:     info.Size(),
		Hint:     language.ParseHint(*lang),
		Events:   events,
	})
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	fmt.Printf("\nOriginal (%s):\n%s\n", outcome.DetectedLanguageName, outcome.OriginalText)
	fmt.Printf("\nEnglish:\n%s\n", outcome.TranslatedText)
	if outcome.Note != "" {
		fmt.Printf("\nNote: %s\n", outcome.Note)
	}

	if *outPath != "" {
		if err := saveTranscript(*outPath, outcome); err != nil {
			log.Fatalf("save %s: %v", *outPath, err)
		}
		fmt.Printf("\nSaved to %s\n", *outPath)
	}
}

func printEvent(e pipeline.Event) {
	switch e.Kind {
	case pipeline.StageEntered:
		if e.Detail != "" {
			fmt.Fprintf(os.Stderr, "%s (%s)...\n", e.Stage, e.Detail)
		} else {
			fmt.Fprintf(os.Stderr, "%s...\n", e.Stage)
		}
	case pipeline.StageFailed:
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", e.Stage, e.Err)
	}
}

func saveTranscript(path string, outcome *pipeline.Outcome) error {
	content := fmt.Sprintf("=== ORIGINAL TRANSCRIPTION ===\n\n%s\n\n=== ENGLISH TRANSLATION ===\n\n%s\n",
		outcome.OriginalText, outcome.TranslatedText)
	return os.WriteFile(path, []byte(content), 0644)
}
