package adapters

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
	"github.com/pranavsaji/code-explainer/domain"
)

const finalConcatTimeout = 240 * time.Second

// ffmpegConcatenator joins segments back-to-back via the concat demuxer with
// stream copy. All segments come from the same muxer configuration in one
// run, so codec parameters match by construction.
type ffmpegConcatenator struct {
	logger     outbound.LoggerPort
	runner     outbound.CommandRunner
	ffmpegBin  string
	scratchDir string
}

func NewFFmpegConcatenator(logger outbound.LoggerPort, runner outbound.CommandRunner, ffmpegBin, scratchDir string) outbound.ConcatenateSegmentsPort {
	return &ffmpegConcatenator{
		logger:     logger,
		runner:     runner,
		ffmpegBin:  ffmpegBin,
		scratchDir: scratchDir,
	}
}

func (f *ffmpegConcatenator) Concatenate(ctx context.Context, segments []domain.VideoSegment, outputPath string) error {
	if len(segments) == 0 {
		return errors.New("no segments to concatenate")
	}
	sort.Sort(domain.VideoSegmentsAscByOrdinal(segments))

	tmpDir, err := os.MkdirTemp(f.scratchDir, "cxconcat_")
	if err != nil {
		return fmt.Errorf("failed to create concat scratch dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			f.logger.Warn("failed to remove concat scratch dir: " + rmErr.Error())
		}
	}()

	var manifest strings.Builder
	for _, s := range segments {
		manifest.WriteString("file '" + s.FileName + "'\n")
	}
	listPath := filepath.Join(tmpDir, "list.txt")
	if err := os.WriteFile(listPath, []byte(manifest.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write concat manifest: %w", err)
	}

	err = f.runner.Run(ctx, finalConcatTimeout, f.ffmpegBin,
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-c", "copy",
		outputPath)
	if err != nil {
		return fmt.Errorf("segment concatenation failed: %w", err)
	}

	if duration, probeErr := ProbeDuration(ctx, f.runner, outputPath); probeErr == nil {
		f.logger.InfoWithFields("concatenated video", map[string]interface{}{
			"output":     outputPath,
			"duration_s": duration,
		})
	}
	return nil
}
