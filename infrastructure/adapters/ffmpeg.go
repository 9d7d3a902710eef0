package adapters

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

// Well-known locations checked before falling back to PATH lookup.
var ffmpegCandidates = []string{
	"/opt/homebrew/bin/ffmpeg",
	"/usr/local/bin/ffmpeg",
	"/usr/bin/ffmpeg",
}

// ResolveFFmpeg locates the ffmpeg binary, honoring FFMPEG_BIN first.
func ResolveFFmpeg(runner outbound.CommandRunner) (string, error) {
	if env := os.Getenv("FFMPEG_BIN"); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env, nil
		}
	}
	for _, c := range ffmpegCandidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	if p, err := runner.LookPath("ffmpeg"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("ffmpeg binary not found; install ffmpeg or set FFMPEG_BIN")
}

const probeTimeout = 30 * time.Second

// ProbeDuration returns a media file's duration in seconds via ffprobe.
// Best-effort: callers treat errors as "duration unknown".
func ProbeDuration(ctx context.Context, runner outbound.CommandRunner, filePath string) (float64, error) {
	ffprobe, err := runner.LookPath("ffprobe")
	if err != nil {
		return 0, fmt.Errorf("ffprobe not available: %w", err)
	}
	out, err := runner.Output(ctx, probeTimeout, ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		filePath)
	if err != nil {
		return 0, err
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe duration: %w", err)
	}
	return duration, nil
}
