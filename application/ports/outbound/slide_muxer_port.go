package outbound

import "context"

// SlideMuxerPort combines one still image and one audio track into a video
// segment lasting exactly as long as the audio. The returned path is the file
// actually produced, which may differ from outputPath in extension when a
// fallback container was used.
type SlideMuxerPort interface {
	Mux(ctx context.Context, imagePath, audioPath, outputPath string) (string, error)
}
