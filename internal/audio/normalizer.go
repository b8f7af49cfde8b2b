package audio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CanonicalSampleRate is the sample rate required by the recognition backends.
const CanonicalSampleRate = 16000

// AllowedExtensions is the upload allow-list. Anything else is rejected by
// the orchestrator before the normalizer runs.
var AllowedExtensions = map[string]bool{
	"wav":  true,
	"mp3":  true,
	"m4a":  true,
	"ogg":  true,
	"flac": true,
	"webm": true,
	"opus": true,
}

// demuxers selects an explicit ffmpeg input format per extension. Extensions
// absent from the map fall back to format sniffing.
var demuxers = map[string]string{
	"mp3":  "mp3",
	"ogg":  "ogg",
	"flac": "flac",
	"m4a":  "mov,mp4,m4a,3gp,3g2,mj2",
	"webm": "matroska,webm",
	"opus": "ogg",
}

// ConversionError wraps any decode/convert failure. ToolMissing distinguishes
// a broken deployment (ffmpeg/ffprobe not installed) from malformed input.
type ConversionError struct {
	Ext string
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s audio: %v", e.Ext, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ToolMissing reports whether the failure is a missing ffmpeg/ffprobe binary
// rather than bad audio data.
func (e *ConversionError) ToolMissing() bool {
	return errors.Is(e.Err, exec.ErrNotFound)
}

// Normalizer converts uploaded audio into canonical PCM via ffmpeg.
type Normalizer struct {
	ffmpegPath  string
	ffprobePath string
	probe       func(ctx context.Context, ffprobePath, path string) (*StreamInfo, error)
}

func NewNormalizer(ffmpegPath string) *Normalizer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Normalizer{
		ffmpegPath:  ffmpegPath,
		ffprobePath: probeSibling(ffmpegPath),
		probe:       Probe,
	}
}

// probeSibling derives the ffprobe location from a configured ffmpeg path:
// an explicit /opt/ffmpeg/bin/ffmpeg implies /opt/ffmpeg/bin/ffprobe, a bare
// command name implies ffprobe on PATH.
func probeSibling(ffmpegPath string) string {
	dir := filepath.Dir(ffmpegPath)
	if dir == "." {
		return "ffprobe"
	}
	return filepath.Join(dir, "ffprobe")
}

// Normalize converts the file at path into 16 kHz mono 16-bit WAV and returns
// the output path. If the input is a wav already in canonical form, the input
// path is returned unchanged and no new file is created. Ownership of any new
// file passes to the caller.
func (n *Normalizer) Normalize(ctx context.Context, path, ext string) (string, error) {
	ext = strings.ToLower(ext)

	if ext == "wav" {
		info, err := n.probe(ctx, n.ffprobePath, path)
		if err != nil {
			return "", &ConversionError{Ext: ext, Err: err}
		}
		if info.Canonical() {
			return path, nil
		}
		log.Printf("[audio] wav not canonical (%s %dHz %dch), normalizing", info.Codec, info.SampleRate, info.Channels)
	}

	out := convertedPath(path)
	args := convertArgs(ext, path, out)

	cmd := exec.CommandContext(ctx, n.ffmpegPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(out)
		return "", &ConversionError{Ext: ext, Err: fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err)}
	}

	return out, nil
}

// convertedPath derives the output path: input path with a _converted suffix
// and a .wav extension.
func convertedPath(path string) string {
	base := path
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexByte(path, '/') {
		base = path[:i]
	}
	return base + "_converted.wav"
}

func convertArgs(ext, in, out string) []string {
	args := []string{"-hide_banner", "-loglevel", "error"}
	if f, ok := demuxers[ext]; ok {
		args = append(args, "-f", f)
	}
	args = append(args,
		"-i", in,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		out,
	)
	return args
}
