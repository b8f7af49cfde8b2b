package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

type probeResult struct {
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"` // audio, video
	CodecName  string `json:"codec_name"`
	SampleRate string `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
}

// StreamInfo describes the first audio stream of a file.
type StreamInfo struct {
	Codec      string
	SampleRate int
	Channels   int
}

// Probe inspects a file with ffprobe and returns its first audio stream.
func Probe(ctx context.Context, ffprobePath, path string) (*StreamInfo, error) {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}

	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	for _, s := range result.Streams {
		if s.CodecType != "audio" {
			continue
		}
		rate, _ := strconv.Atoi(s.SampleRate)
		return &StreamInfo{
			Codec:      s.CodecName,
			SampleRate: rate,
			Channels:   s.Channels,
		}, nil
	}

	return nil, fmt.Errorf("no audio stream in %s", path)
}

// Canonical reports whether the stream already matches the recognition
// backends' required format (16 kHz, mono, 16-bit PCM).
func (s *StreamInfo) Canonical() bool {
	return s.Codec == "pcm_s16le" && s.SampleRate == CanonicalSampleRate && s.Channels == 1
}
