package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pranavsaji/code-explainer/application/ports/inbound"
	"github.com/pranavsaji/code-explainer/config"
	"github.com/pranavsaji/code-explainer/domain"
	"github.com/pranavsaji/code-explainer/infrastructure/adapters"
)

type fakeLevelExplainer struct {
	levels []string
	blocks []domain.CodeBlock
	video  bool
}

func (f *fakeLevelExplainer) Explain(ctx context.Context, req inbound.ExplainLevelRequest) *domain.ExplainerResult {
	f.levels = append(f.levels, req.Level)
	f.blocks = req.CodeBlocks
	result := &domain.ExplainerResult{
		Level:        req.Level,
		TextMarkdown: "# Code Explainer — " + req.Level,
	}
	if f.video {
		result.VideoPath = "/videos/" + req.Level + ".mp4"
	}
	return result
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPipeline_DefaultLevelsAndCombinedReport(t *testing.T) {
	level := &fakeLevelExplainer{video: true}
	pipeline := NewExplainerPipeline(adapters.NewZerologWrapper(), &config.Settings{}, level, "/outputs")

	doc := writeDoc(t, "Intro.\n\n```go\npackage main\n```\n")
	result, err := pipeline.Run(context.Background(), inbound.RunPipelineRequest{DocumentPath: doc})
	if err != nil {
		t.Fatal("pipeline failed:", err)
	}

	if strings.Join(level.levels, ",") != strings.Join(DefaultLevels, ",") {
		t.Fatal("default levels not used:", level.levels)
	}
	if !strings.HasPrefix(result.Text, "# All Explanations") {
		t.Fatal("combined report should carry the batch heading")
	}
	if strings.Count(result.Text, "\n---\n") != len(DefaultLevels)-1 {
		t.Fatal("per-level reports should be separated by rules")
	}
	if len(result.VideoPaths) != len(DefaultLevels) {
		t.Fatal("expected one video per level, got", result.VideoPaths)
	}
	if result.OutputDir != "/outputs" {
		t.Fatal("output dir missing from result")
	}
	if len(level.blocks) != 1 || level.blocks[0].Lang != "go" {
		t.Fatal("fenced code should be extracted:", level.blocks)
	}
}

func TestPipeline_UnfencedDocumentBecomesOneBlock(t *testing.T) {
	level := &fakeLevelExplainer{}
	pipeline := NewExplainerPipeline(adapters.NewZerologWrapper(), &config.Settings{}, level, "/outputs")

	doc := writeDoc(t, "just prose, nothing fenced")
	if _, err := pipeline.Run(context.Background(), inbound.RunPipelineRequest{
		DocumentPath: doc,
		Levels:       []string{"beginner"},
	}); err != nil {
		t.Fatal(err)
	}
	if len(level.blocks) != 1 || level.blocks[0].Lang != "plain" {
		t.Fatal("unfenced document should become a single plain block:", level.blocks)
	}
}

func TestPipeline_LevelOverride(t *testing.T) {
	level := &fakeLevelExplainer{}
	settings := &config.Settings{Levels: []string{"advanced"}}
	pipeline := NewExplainerPipeline(adapters.NewZerologWrapper(), settings, level, "/outputs")

	doc := writeDoc(t, "```go\npackage main\n```")
	if _, err := pipeline.Run(context.Background(), inbound.RunPipelineRequest{DocumentPath: doc}); err != nil {
		t.Fatal(err)
	}
	if len(level.levels) != 1 || level.levels[0] != "advanced" {
		t.Fatal("EXPLAINER_LEVELS override ignored:", level.levels)
	}
}

func TestPipeline_MissingDocument(t *testing.T) {
	pipeline := NewExplainerPipeline(adapters.NewZerologWrapper(), &config.Settings{}, &fakeLevelExplainer{}, "/outputs")
	if _, err := pipeline.Run(context.Background(), inbound.RunPipelineRequest{DocumentPath: "/does/not/exist.md"}); err == nil {
		t.Fatal("expected an error for a missing document")
	}
}
