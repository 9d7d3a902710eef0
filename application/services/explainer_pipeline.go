package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pranavsaji/code-explainer/application/ports/inbound"
	"github.com/pranavsaji/code-explainer/application/ports/outbound"
	"github.com/pranavsaji/code-explainer/config"
	"github.com/pranavsaji/code-explainer/domain"
)

// DefaultLevels is the audience ladder used when the caller does not restrict
// levels.
var DefaultLevels = []string{"beginner", "intermediate", "advanced"}

type explainerPipeline struct {
	logger         outbound.LoggerPort
	settings       *config.Settings
	levelExplainer inbound.LevelExplainerPort
	outputDir      string
}

func NewExplainerPipeline(
	logger outbound.LoggerPort,
	settings *config.Settings,
	levelExplainer inbound.LevelExplainerPort,
	outputDir string,
) inbound.ExplainerPipelinePort {
	return &explainerPipeline{
		logger:         logger,
		settings:       settings,
		levelExplainer: levelExplainer,
		outputDir:      outputDir,
	}
}

func (p *explainerPipeline) Run(ctx context.Context, req inbound.RunPipelineRequest) (*inbound.BatchResult, error) {
	raw, err := os.ReadFile(req.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", req.DocumentPath, err)
	}
	document := string(raw)

	blocks := domain.ExtractCodeBlocks(document)
	if len(blocks) == 0 {
		// A document without fences is still explainable: treat the whole
		// text as one unlabelled block.
		blocks = []domain.CodeBlock{{Lang: "plain", Code: document}}
	}

	levels := req.Levels
	if len(levels) == 0 {
		levels = DefaultLevels
	}
	levels = p.settings.FilterLevels(levels)

	p.logger.InfoWithFields("starting explanation batch", map[string]interface{}{
		"document": req.DocumentPath,
		"levels":   strings.Join(levels, ","),
		"blocks":   len(blocks),
	})

	var reports []string
	var videoPaths []string
	for _, level := range levels {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		result := p.levelExplainer.Explain(ctx, inbound.ExplainLevelRequest{
			Level:      level,
			Document:   document,
			CodeBlocks: blocks,
		})
		reports = append(reports, result.TextMarkdown)
		if result.VideoPath != "" {
			videoPaths = append(videoPaths, result.VideoPath)
		}
	}

	return &inbound.BatchResult{
		Text:       "# All Explanations\n\n" + strings.Join(reports, "\n\n---\n\n"),
		VideoPaths: videoPaths,
		OutputDir:  p.outputDir,
	}, nil
}
