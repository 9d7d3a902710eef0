package adapters

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

const (
	maxChunkChars         = 800
	chunkSynthesisTimeout = 120 * time.Second
	chunkConcatTimeout    = 120 * time.Second
	convertTimeout        = 180 * time.Second
)

// speechSynthesizer turns narration text into a normalized mono 16 kHz
// 16-bit PCM WAV. Long text is split into bounded chunks synthesized
// independently, concatenated losslessly, then converted once at the end.
type speechSynthesizer struct {
	logger     outbound.LoggerPort
	runner     outbound.CommandRunner
	strategies []SynthesisStrategy
	ffmpegBin  string
	scratchDir string
}

func NewSpeechSynthesizer(
	logger outbound.LoggerPort,
	runner outbound.CommandRunner,
	strategies []SynthesisStrategy,
	ffmpegBin string,
	scratchDir string) outbound.SpeechSynthesizerPort {
	return &speechSynthesizer{
		logger:     logger,
		runner:     runner,
		strategies: strategies,
		ffmpegBin:  ffmpegBin,
		scratchDir: scratchDir,
	}
}

func (s *speechSynthesizer) Synthesize(ctx context.Context, req outbound.SynthesizeSpeechRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return errors.New("empty narration text")
	}
	workDir := filepath.Dir(req.OutputPath)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}
	baseName := strings.TrimSuffix(filepath.Base(req.OutputPath), filepath.Ext(req.OutputPath))

	segFiles, err := s.synthesizeSegments(ctx, req, workDir, baseName)
	if err != nil {
		return err
	}
	defer func() {
		for _, f := range segFiles {
			if rmErr := os.Remove(f); rmErr != nil && !os.IsNotExist(rmErr) {
				s.logger.Warn("failed to remove audio segment: " + rmErr.Error())
			}
		}
	}()

	intermediate := segFiles[0]
	if len(segFiles) > 1 {
		concat, err := s.concatSegments(ctx, segFiles, workDir, baseName)
		if err != nil {
			return err
		}
		defer func() {
			if rmErr := os.Remove(concat); rmErr != nil && !os.IsNotExist(rmErr) {
				s.logger.Warn("failed to remove concatenated audio: " + rmErr.Error())
			}
		}()
		intermediate = concat
	}

	err = s.runner.Run(ctx, convertTimeout, s.ffmpegBin,
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", intermediate,
		"-acodec", "pcm_s16le", "-ac", "1", "-ar", "16000",
		req.OutputPath)
	if err != nil {
		return fmt.Errorf("audio conversion failed: %w", err)
	}
	return nil
}

// synthesizeSegments walks the strategy list in order. The first engine gets
// the chunked text; once an engine fails it is abandoned for the whole call
// and the next one receives the full text as a single chunk.
func (s *speechSynthesizer) synthesizeSegments(ctx context.Context, req outbound.SynthesizeSpeechRequest, workDir, baseName string) ([]string, error) {
	chunks := SplitChunks(req.Text, maxChunkChars)
	var lastErr error
	for _, strat := range s.strategies {
		if !strat.Available() {
			s.logger.Debug("synthesis engine unavailable: " + strat.Name())
			continue
		}
		files, err := strat.Synthesize(ctx, chunks, workDir, baseName, req.RateDelta)
		if err == nil && len(files) > 0 {
			return files, nil
		}
		if err == nil {
			err = fmt.Errorf("%s produced no audio", strat.Name())
		}
		s.logger.WarnWithFields("synthesis engine failed, falling back", map[string]interface{}{
			"engine": strat.Name(),
			"error":  err.Error(),
		})
		lastErr = err
		chunks = []string{req.Text}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("all synthesis engines failed: %w", lastErr)
	}
	return nil, errors.New("no synthesis engine available on this host")
}

func (s *speechSynthesizer) concatSegments(ctx context.Context, files []string, workDir, baseName string) (string, error) {
	tmpDir, err := os.MkdirTemp(s.scratchDir, "tmp_cx_")
	if err != nil {
		return "", fmt.Errorf("failed to create concat scratch dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			s.logger.Warn("failed to remove concat scratch dir: " + rmErr.Error())
		}
	}()

	listPath := filepath.Join(tmpDir, "list.txt")
	var b strings.Builder
	for _, f := range files {
		b.WriteString("file '" + f + "'\n")
	}
	if err := os.WriteFile(listPath, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write concat list: %w", err)
	}

	outPath := filepath.Join(workDir, baseName+"_concat"+filepath.Ext(files[0]))
	err = s.runner.Run(ctx, chunkConcatTimeout, s.ffmpegBin,
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-c", "copy",
		outPath)
	if err != nil {
		return "", fmt.Errorf("audio segment concatenation failed: %w", err)
	}
	return outPath, nil
}
