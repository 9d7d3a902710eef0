package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pranavsaji/code-explainer/application/ports/inbound"
	"github.com/pranavsaji/code-explainer/application/ports/outbound"
	"github.com/pranavsaji/code-explainer/domain"
)

// assembleMinFreeMB is the free-space floor checked before a run touches the
// filesystem. The muxer applies its own tighter per-segment check.
const assembleMinFreeMB = 500

type videoAssembler struct {
	logger       outbound.LoggerPort
	diskGuard    outbound.DiskGuardPort
	synthesizer  outbound.SpeechSynthesizerPort
	renderer     outbound.SlideRendererPort
	muxer        outbound.SlideMuxerPort
	concatenator outbound.ConcatenateSegmentsPort
	scratchDir   string
}

func NewVideoAssembler(
	logger outbound.LoggerPort,
	diskGuard outbound.DiskGuardPort,
	synthesizer outbound.SpeechSynthesizerPort,
	renderer outbound.SlideRendererPort,
	muxer outbound.SlideMuxerPort,
	concatenator outbound.ConcatenateSegmentsPort,
	scratchDir string,
) inbound.VideoAssemblerPort {
	return &videoAssembler{
		logger:       logger,
		diskGuard:    diskGuard,
		synthesizer:  synthesizer,
		renderer:     renderer,
		muxer:        muxer,
		concatenator: concatenator,
		scratchDir:   scratchDir,
	}
}

func (a *videoAssembler) Assemble(ctx context.Context, req inbound.AssembleVideoRequest) (string, error) {
	if len(req.Sections) == 0 {
		return "", fmt.Errorf("no sections to assemble")
	}
	outputDir := filepath.Dir(req.OutputPath)
	if err := a.diskGuard.EnsureFree(assembleMinFreeMB, a.scratchDir, outputDir); err != nil {
		return "", fmt.Errorf("refusing to assemble video: %w", err)
	}

	workspace := filepath.Join(a.scratchDir, "cx_"+strings.ReplaceAll(uuid.NewString(), "-", ""))
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return "", fmt.Errorf("failed to create assembly workspace: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workspace); err != nil {
			a.logger.Warn("failed to remove assembly workspace: " + err.Error())
		}
	}()

	ext := filepath.Ext(req.OutputPath)
	if ext == "" {
		ext = ".mp4"
	}

	var segments []domain.VideoSegment
	for i, section := range req.Sections {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		audioPath := filepath.Join(workspace, fmt.Sprintf("seg_%d.wav", i))
		if err := a.synthesizer.Synthesize(ctx, outbound.SynthesizeSpeechRequest{
			Text:       section.FullText(),
			OutputPath: audioPath,
			RateDelta:  req.RateDelta,
		}); err != nil {
			return "", fmt.Errorf("narration for section %d failed: %w", i, err)
		}

		framePath := filepath.Join(workspace, fmt.Sprintf("frame_%d.png", i))
		if err := a.renderer.RenderToFile(section.FullText(), framePath); err != nil {
			return "", fmt.Errorf("slide for section %d failed: %w", i, err)
		}

		partPath := filepath.Join(workspace, fmt.Sprintf("part_%03d%s", i, ext))
		produced, err := a.muxer.Mux(ctx, framePath, audioPath, partPath)
		if err != nil {
			return "", fmt.Errorf("segment %d mux failed: %w", i, err)
		}
		segments = append(segments, domain.VideoSegment{
			Ordinal:  i,
			FileName: a.usablePartPath(produced, partPath, i),
		})
	}

	if err := a.concatenator.Concatenate(ctx, segments, req.OutputPath); err != nil {
		return "", fmt.Errorf("final concatenation failed: %w", err)
	}

	a.logger.InfoWithFields("assembled video", map[string]interface{}{
		"output":   req.OutputPath,
		"sections": len(segments),
	})
	return req.OutputPath, nil
}

// usablePartPath tolerates a muxer that reports success without a usable file
// on disk. The intended path is substituted so downstream failure surfaces at
// concatenation with the right name attached, and the anomaly is logged.
func (a *videoAssembler) usablePartPath(produced, intended string, ordinal int) string {
	if produced != "" {
		if info, err := os.Stat(produced); err == nil && info.Size() > 0 {
			return produced
		}
	}
	a.logger.WarnWithFields("muxer reported success without a usable file, substituting intended path", map[string]interface{}{
		"ordinal":  ordinal,
		"produced": produced,
		"intended": intended,
	})
	return intended
}
