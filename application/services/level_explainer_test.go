package services

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/pranavsaji/code-explainer/application/ports/inbound"
	"github.com/pranavsaji/code-explainer/application/ports/outbound"
	"github.com/pranavsaji/code-explainer/config"
	"github.com/pranavsaji/code-explainer/domain"
	"github.com/pranavsaji/code-explainer/infrastructure/adapters"
)

type fakeGenerator struct {
	explanation *domain.Explanation
	err         error
}

func (f *fakeGenerator) Generate(ctx context.Context, req outbound.GenerateExplanationRequest) (*domain.Explanation, error) {
	return f.explanation, f.err
}

type fakeLinkFinder struct {
	links map[string][]string
}

func (f *fakeLinkFinder) Search(ctx context.Context, query string, maxResults int) []string {
	return f.links[query]
}

type fakeAssembler struct {
	request inbound.AssembleVideoRequest
	err     error
	called  bool
}

func (f *fakeAssembler) Assemble(ctx context.Context, req inbound.AssembleVideoRequest) (string, error) {
	f.called = true
	f.request = req
	if f.err != nil {
		return "", f.err
	}
	return req.OutputPath, nil
}

func sampleExplanation() *domain.Explanation {
	return &domain.Explanation{
		Overview:    "This script parses input.",
		KeyConcepts: []string{"parsing", "buffers"},
		Walkthrough: "First it reads, then it writes.",
		Complexity:  "O(n) over the input.",
		Pitfalls:    []string{"unbounded input"},
		Quiz:        []domain.QuizItem{{Question: "What is parsed?", Answer: "The input."}},
		TLDR:        "Reads and writes.",
	}
}

func sampleBlocks() []domain.CodeBlock {
	return []domain.CodeBlock{{Lang: "python", Code: "import os\nclass Reader: pass\n"}}
}

func explainerUnderTest(settings *config.Settings, gen *fakeGenerator, finder *fakeLinkFinder, asm *fakeAssembler, videoDir string) inbound.LevelExplainerPort {
	return NewLevelExplainer(adapters.NewZerologWrapper(), settings, gen, finder, asm, videoDir)
}

func TestLevelExplainer_ReportAndVideo(t *testing.T) {
	videoDir := t.TempDir()
	gen := &fakeGenerator{explanation: sampleExplanation()}
	finder := &fakeLinkFinder{links: map[string][]string{
		"python language overview": {"https://docs.python.org/3/", "http://example.com/py"},
	}}
	asm := &fakeAssembler{}

	explainer := explainerUnderTest(&config.Settings{}, gen, finder, asm, videoDir)
	result := explainer.Explain(context.Background(), inbound.ExplainLevelRequest{
		Level:      "beginner",
		Document:   "```python\nimport os\n```",
		CodeBlocks: sampleBlocks(),
	})

	for _, heading := range []string{
		"# Code Explainer — beginner",
		"## Overview",
		"## Key Concepts",
		"## Walkthrough",
		"## Complexity / Performance",
		"## Pitfalls & Edge Cases",
		"## Quick Quiz",
		"## References",
	} {
		if !strings.Contains(result.TextMarkdown, heading) {
			t.Fatal("report missing section:", heading)
		}
	}
	if len(result.Links) != 2 {
		t.Fatal("expected 2 links, got", result.Links)
	}
	if !strings.HasPrefix(result.Links[0], "https://") {
		t.Fatal("https links should sort first:", result.Links)
	}

	if !asm.called {
		t.Fatal("video assembly should run")
	}
	name := filepath.Base(asm.request.OutputPath)
	if ok, _ := regexp.MatchString(`^\d{8}-\d{6}_beginner\.mp4$`, name); !ok {
		t.Fatal("unexpected video file name:", name)
	}
	if result.VideoPath != asm.request.OutputPath {
		t.Fatal("result should carry the assembled video path")
	}
	if asm.request.Sections[0].Title != "Overview (beginner)" {
		t.Fatal("first narration section should be the overview:", asm.request.Sections[0].Title)
	}
}

func TestLevelExplainer_VideoFailureBecomesWarning(t *testing.T) {
	gen := &fakeGenerator{explanation: sampleExplanation()}
	asm := &fakeAssembler{err: errors.New("encoder exploded")}

	explainer := explainerUnderTest(&config.Settings{SkipWeb: true}, gen, &fakeLinkFinder{}, asm, t.TempDir())
	result := explainer.Explain(context.Background(), inbound.ExplainLevelRequest{
		Level: "expert", CodeBlocks: sampleBlocks(),
	})

	if result.VideoPath != "" {
		t.Fatal("a failed video must not be reported as produced")
	}
	if !strings.Contains(result.TextMarkdown, "Video generation failed") {
		t.Fatal("video failure should be annotated in the report")
	}
}

func TestLevelExplainer_LowDiskHint(t *testing.T) {
	gen := &fakeGenerator{explanation: sampleExplanation()}
	asm := &fakeAssembler{err: outbound.ErrLowDiskSpace}

	explainer := explainerUnderTest(&config.Settings{SkipWeb: true}, gen, &fakeLinkFinder{}, asm, t.TempDir())
	result := explainer.Explain(context.Background(), inbound.ExplainLevelRequest{
		Level: "expert", CodeBlocks: sampleBlocks(),
	})

	if !strings.Contains(result.TextMarkdown, "free disk space") {
		t.Fatal("low disk failures should carry a targeted hint")
	}
}

func TestLevelExplainer_SkipVideo(t *testing.T) {
	gen := &fakeGenerator{explanation: sampleExplanation()}
	asm := &fakeAssembler{}

	explainer := explainerUnderTest(&config.Settings{SkipVideo: true, SkipWeb: true}, gen, &fakeLinkFinder{}, asm, t.TempDir())
	result := explainer.Explain(context.Background(), inbound.ExplainLevelRequest{
		Level: "beginner", CodeBlocks: sampleBlocks(),
	})

	if asm.called {
		t.Fatal("video assembly must not run with EXPLAINER_NO_VIDEO")
	}
	if result.VideoPath != "" {
		t.Fatal("no video path expected")
	}
}

func TestLevelExplainer_GeneratorErrorDegrades(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("api down")}

	explainer := explainerUnderTest(&config.Settings{SkipVideo: true, SkipWeb: true}, gen, &fakeLinkFinder{}, &fakeAssembler{}, t.TempDir())
	result := explainer.Explain(context.Background(), inbound.ExplainLevelRequest{
		Level: "beginner", CodeBlocks: sampleBlocks(),
	})

	if !strings.Contains(result.TextMarkdown, "(Offline)") {
		t.Fatal("generator failure should degrade to the placeholder report")
	}
}

func TestBuildResearchQueries(t *testing.T) {
	queries := buildResearchQueries(sampleBlocks(), sampleExplanation())
	if len(queries) > maxResearchQueries {
		t.Fatal("query list exceeds cap:", queries)
	}
	foundImports := false
	for _, q := range queries {
		if q == "python modules and imports" {
			foundImports = true
		}
	}
	if !foundImports {
		t.Fatal("import heuristic missing from queries:", queries)
	}
	seen := map[string]struct{}{}
	for _, q := range queries {
		if _, dup := seen[q]; dup {
			t.Fatal("duplicate query:", q)
		}
		seen[q] = struct{}{}
	}
}

func TestNarrationSections_Truncation(t *testing.T) {
	explanation := sampleExplanation()
	explanation.Overview = strings.Repeat("long ", 300)

	sections := narrationSections("beginner", explanation, 350)
	body := sections[0].Body
	if len([]rune(body)) != 351 {
		t.Fatal("overview should be truncated to the budget plus ellipsis, got", len([]rune(body)))
	}
	if !strings.HasSuffix(body, "…") {
		t.Fatal("truncated narration should end with an ellipsis")
	}
}
