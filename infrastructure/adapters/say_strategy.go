package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

// sayStrategy drives the macOS `say` engine. Chunk text is passed through a
// temp file (-f) rather than argv so punctuation survives intact. No
// --data-format flag: the default AIFF avoids "fmt?" failures on some macOS
// builds.
type sayStrategy struct {
	runner outbound.CommandRunner
	logger outbound.LoggerPort
	voice  string
}

func NewSayStrategy(runner outbound.CommandRunner, logger outbound.LoggerPort, voice string) SynthesisStrategy {
	return &sayStrategy{runner: runner, logger: logger, voice: voice}
}

func (s *sayStrategy) Name() string { return "say" }

func (s *sayStrategy) Available() bool {
	if runtime.GOOS != "darwin" {
		return false
	}
	_, err := s.runner.LookPath("say")
	return err == nil
}

const sayBaseRate = 175

func (s *sayStrategy) Synthesize(ctx context.Context, chunks []string, workDir, baseName string, rateDelta int) ([]string, error) {
	rate := sayBaseRate + rateDelta
	if rate < 120 {
		rate = 120
	}

	var outputs []string
	for i, chunk := range chunks {
		txtPath := filepath.Join(workDir, fmt.Sprintf("%s_seg%d.txt", baseName, i+1))
		aiffPath := filepath.Join(workDir, fmt.Sprintf("%s_seg%d.aiff", baseName, i+1))

		if err := os.WriteFile(txtPath, []byte(chunk), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write chunk text: %w", err)
		}

		var args []string
		if s.voice != "" {
			args = append(args, "-v", s.voice)
		}
		args = append(args, "-o", aiffPath, "-r", strconv.Itoa(rate), "-f", txtPath)

		err := s.runner.Run(ctx, chunkSynthesisTimeout, "say", args...)
		if rmErr := os.Remove(txtPath); rmErr != nil {
			s.logger.Warn("failed to remove chunk text file: " + rmErr.Error())
		}
		if err != nil {
			return nil, fmt.Errorf("say failed on chunk %d: %w", i+1, err)
		}
		if !nonEmptyFile(aiffPath) {
			return nil, fmt.Errorf("say produced empty audio for chunk %d", i+1)
		}
		outputs = append(outputs, aiffPath)
	}
	return outputs, nil
}

func nonEmptyFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}
