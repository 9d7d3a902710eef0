package adapters

import "context"

// SynthesisStrategy is one speech engine tried by the synthesizer. Engines
// are attempted in order; a failing engine is abandoned for the whole call
// and the next one receives the full text as a single chunk.
type SynthesisStrategy interface {
	Name() string
	// Available reports whether the engine can run on this host.
	Available() bool
	// Synthesize writes one audio file per chunk under workDir, named from
	// baseName, and returns the paths in chunk order. It fails if any chunk
	// yields empty audio.
	Synthesize(ctx context.Context, chunks []string, workDir, baseName string, rateDelta int) ([]string, error)
}
