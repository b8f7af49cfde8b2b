package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           int
	TempPath       string
	FFmpegPath     string
	MaxUploadBytes int64
	CallTimeout    time.Duration

	// Backend selection: "google" or "whisper" for recognition,
	// "google" or "deepl" for translation.
	RecognizerBackend string
	TranslatorBackend string

	GoogleSpeechAPIKey string
	OpenAIAPIKey       string
	DeepLAPIKey        string

	RatePerMinute int
	RatePerHour   int
	RatePerDay    int

	CORSOrigins []string
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	maxUploadMB, _ := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "10"))
	timeoutSec, _ := strconv.Atoi(getEnv("BACKEND_TIMEOUT_SECONDS", "60"))

	perMinute, _ := strconv.Atoi(getEnv("RATE_PER_MINUTE", "10"))
	perHour, _ := strconv.Atoi(getEnv("RATE_PER_HOUR", "100"))
	perDay, _ := strconv.Atoi(getEnv("RATE_PER_DAY", "500"))

	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	return &Config{
		Port:               port,
		TempPath:           getEnv("TEMP_PATH", os.TempDir()),
		FFmpegPath:         getEnv("FFMPEG_PATH", "ffmpeg"),
		MaxUploadBytes:     int64(maxUploadMB) * 1024 * 1024,
		CallTimeout:        time.Duration(timeoutSec) * time.Second,
		RecognizerBackend:  getEnv("RECOGNIZER_BACKEND", "google"),
		TranslatorBackend:  getEnv("TRANSLATOR_BACKEND", "google"),
		GoogleSpeechAPIKey: os.Getenv("GOOGLE_SPEECH_API_KEY"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		DeepLAPIKey:        os.Getenv("DEEPL_API_KEY"),
		RatePerMinute:      perMinute,
		RatePerHour:        perHour,
		RatePerDay:         perDay,
		CORSOrigins:        corsOrigins,
	}
}

// RecognizerConfigured reports whether the selected recognition backend has
// the credential it needs.
func (c *Config) RecognizerConfigured() bool {
	switch c.RecognizerBackend {
	case "whisper":
		return c.OpenAIAPIKey != ""
	default:
		return c.GoogleSpeechAPIKey != ""
	}
}

// TranslatorConfigured reports whether the selected translation backend has
// the credential it needs. The google web endpoint is keyless.
func (c *Config) TranslatorConfigured() bool {
	if c.TranslatorBackend == "deepl" {
		return c.DeepLAPIKey != ""
	}
	return true
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
