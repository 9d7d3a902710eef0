package adapters

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

// espeakStrategy is the always-available fallback engine, invoking espeak-ng
// (or classic espeak) to write WAV directly.
type espeakStrategy struct {
	runner outbound.CommandRunner
	logger outbound.LoggerPort
}

func NewEspeakStrategy(runner outbound.CommandRunner, logger outbound.LoggerPort) SynthesisStrategy {
	return &espeakStrategy{runner: runner, logger: logger}
}

func (e *espeakStrategy) Name() string { return "espeak" }

func (e *espeakStrategy) Available() bool {
	_, err := e.binary()
	return err == nil
}

func (e *espeakStrategy) binary() (string, error) {
	if p, err := e.runner.LookPath("espeak-ng"); err == nil {
		return p, nil
	}
	return e.runner.LookPath("espeak")
}

const espeakBaseRate = 175

func (e *espeakStrategy) Synthesize(ctx context.Context, chunks []string, workDir, baseName string, rateDelta int) ([]string, error) {
	bin, err := e.binary()
	if err != nil {
		return nil, fmt.Errorf("espeak not available: %w", err)
	}

	rate := espeakBaseRate + rateDelta
	if rate < 100 {
		rate = 100
	}

	var outputs []string
	for i, chunk := range chunks {
		wavPath := filepath.Join(workDir, fmt.Sprintf("%s_seg%d.wav", baseName, i+1))
		err := e.runner.Run(ctx, chunkSynthesisTimeout, bin, "-w", wavPath, "-s", strconv.Itoa(rate), chunk)
		if err != nil {
			return nil, fmt.Errorf("espeak failed on chunk %d: %w", i+1, err)
		}
		if !nonEmptyFile(wavPath) {
			return nil, fmt.Errorf("espeak produced empty audio for chunk %d", i+1)
		}
		outputs = append(outputs, wavPath)
	}
	return outputs, nil
}
