package adapters

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

const (
	muxAttemptTimeout = 300 * time.Second
	muxMinFreeMB      = 200
)

// muxAttempt is one rung of the fallback ladder: a container, its extension,
// and the argument set to try.
type muxAttempt struct {
	name string
	ext  string
	args func(imagePath, audioPath, outputPath string) []string
}

// ffmpegSlideMuxer combines a still image and an audio track into one video
// segment whose duration matches the audio (-shortest). Encoding attempts
// are a declarative ordered list; the first success wins, the last failure
// surfaces.
type ffmpegSlideMuxer struct {
	logger     outbound.LoggerPort
	runner     outbound.CommandRunner
	guard      outbound.DiskGuardPort
	ffmpegBin  string
	preferred  string
	guardPaths []string
}

func NewFFmpegSlideMuxer(
	logger outbound.LoggerPort,
	runner outbound.CommandRunner,
	guard outbound.DiskGuardPort,
	ffmpegBin string,
	preferredContainer string,
	guardPaths ...string) outbound.SlideMuxerPort {
	return &ffmpegSlideMuxer{
		logger:     logger,
		runner:     runner,
		guard:      guard,
		ffmpegBin:  ffmpegBin,
		preferred:  preferredContainer,
		guardPaths: guardPaths,
	}
}

func mp4Args(withLoop bool) func(string, string, string) []string {
	return func(imagePath, audioPath, outputPath string) []string {
		args := []string{"-y", "-hide_banner", "-loglevel", "error", "-nostdin", "-f", "image2"}
		if withLoop {
			args = append(args, "-loop", "1")
		}
		return append(args,
			"-framerate", "1", "-i", imagePath,
			"-analyzeduration", "16k", "-probesize", "16k",
			"-i", audioPath,
			"-shortest",
			"-c:v", "libx264", "-preset", "ultrafast", "-crf", "30", "-tune", "stillimage",
			"-pix_fmt", "yuv420p", "-r", "1",
			"-c:a", "aac", "-b:a", "96k",
			"-movflags", "+faststart",
			"-f", "mp4",
			"-threads", "1",
			outputPath)
	}
}

// movArgs uses an intra-frame image codec and uncompressed audio: lower risk
// of platform-specific encoder failures than the libx264 path.
func movArgs(imagePath, audioPath, outputPath string) []string {
	return []string{
		"-y", "-hide_banner", "-loglevel", "error", "-nostdin",
		"-f", "image2", "-framerate", "1", "-i", imagePath,
		"-analyzeduration", "16k", "-probesize", "16k",
		"-i", audioPath,
		"-shortest",
		"-c:v", "mjpeg", "-q:v", "5", "-pix_fmt", "yuvj420p", "-r", "1",
		"-c:a", "pcm_s16le",
		"-threads", "1",
		outputPath,
	}
}

func (m *ffmpegSlideMuxer) attempts() []muxAttempt {
	mp4 := muxAttempt{name: "mp4 libx264+aac", ext: ".mp4", args: mp4Args(true)}
	mov := muxAttempt{name: "mov mjpeg+pcm", ext: ".mov", args: movArgs}
	if m.preferred == "mov" {
		// mov never loops the image input, so the bare retry is a plain
		// second pass of the primary settings.
		return []muxAttempt{mov, mp4, {name: "mov retry", ext: ".mov", args: movArgs}}
	}
	return []muxAttempt{mp4, mov, {name: "mp4 without image loop", ext: ".mp4", args: mp4Args(false)}}
}

func (m *ffmpegSlideMuxer) Mux(ctx context.Context, imagePath, audioPath, outputPath string) (string, error) {
	if err := m.guard.EnsureFree(muxMinFreeMB, m.guardPaths...); err != nil {
		return "", err
	}

	var lastErr error
	for _, att := range m.attempts() {
		target := replaceExt(outputPath, att.ext)
		err := m.runner.Run(ctx, muxAttemptTimeout, m.ffmpegBin, att.args(imagePath, audioPath, target)...)
		if err == nil {
			return target, nil
		}
		lastErr = err
		m.logger.WarnWithFields("mux attempt failed", map[string]interface{}{
			"attempt": att.name,
			"error":   err.Error(),
		})
	}
	return "", fmt.Errorf("all mux attempts failed: %w", lastErr)
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
