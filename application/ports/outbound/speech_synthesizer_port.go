package outbound

import "context"

type SynthesizeSpeechRequest struct {
	Text       string
	OutputPath string
	// RateDelta adjusts the speaking rate in words per minute relative to the
	// engine default.
	RateDelta int
}

// SpeechSynthesizerPort produces a normalized mono 16 kHz 16-bit PCM audio
// file at OutputPath, or fails if no synthesis engine yields non-empty audio.
type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, req SynthesizeSpeechRequest) error
}
