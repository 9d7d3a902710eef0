package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pranavsaji/code-explainer/application/ports/inbound"
	"github.com/pranavsaji/code-explainer/application/ports/outbound"
	"github.com/pranavsaji/code-explainer/config"
	"github.com/pranavsaji/code-explainer/domain"
)

const (
	maxResearchQueries = 6
	maxReferenceLinks  = 10
	linksPerQuery      = 3
	maxNarratedItems   = 6
)

const videoTimestampLayout = "20060102-150405"

type levelExplainer struct {
	logger     outbound.LoggerPort
	settings   *config.Settings
	generator  outbound.ExplanationGeneratorPort
	linkFinder outbound.LinkFinderPort
	assembler  inbound.VideoAssemblerPort
	videoDir   string
}

func NewLevelExplainer(
	logger outbound.LoggerPort,
	settings *config.Settings,
	generator outbound.ExplanationGeneratorPort,
	linkFinder outbound.LinkFinderPort,
	assembler inbound.VideoAssemblerPort,
	videoDir string,
) inbound.LevelExplainerPort {
	return &levelExplainer{
		logger:     logger,
		settings:   settings,
		generator:  generator,
		linkFinder: linkFinder,
		assembler:  assembler,
		videoDir:   videoDir,
	}
}

func (e *levelExplainer) Explain(ctx context.Context, req inbound.ExplainLevelRequest) *domain.ExplainerResult {
	summary := domain.SummarizeDocument(req.Document, 4000)
	explanation, err := e.generator.Generate(ctx, outbound.GenerateExplanationRequest{
		AudienceLevel:   req.Level,
		CodeBlocks:      req.CodeBlocks,
		DocumentSummary: summary,
	})
	if err != nil || explanation == nil {
		reason := "explanation generator unavailable"
		if err != nil {
			reason = err.Error()
		}
		e.logger.Warn("falling back to placeholder explanation: " + reason)
		explanation = domain.PlaceholderExplanation(req.Level, reason)
	}

	links := e.collectLinks(ctx, req.CodeBlocks, explanation)
	var warnings []string

	videoPath := ""
	if e.settings.SkipVideo {
		warnings = append(warnings, "Video generation disabled (EXPLAINER_NO_VIDEO).")
	} else {
		videoPath, err = e.buildVideo(ctx, req.Level, explanation)
		if err != nil {
			e.logger.ErrorWithFields(err, "video assembly failed", map[string]interface{}{"level": req.Level})
			if errors.Is(err, outbound.ErrLowDiskSpace) {
				warnings = append(warnings, "Video skipped: not enough free disk space. Free some space and retry.")
			} else {
				warnings = append(warnings, "Video generation failed: "+err.Error())
			}
			videoPath = ""
		}
	}

	return &domain.ExplainerResult{
		Level:        req.Level,
		TextMarkdown: renderReport(req.Level, explanation, links, warnings),
		Links:        links,
		VideoPath:    videoPath,
	}
}

// collectLinks turns the explanation and code into search queries and gathers
// up to maxReferenceLinks deduplicated reference URLs, https first.
func (e *levelExplainer) collectLinks(ctx context.Context, blocks []domain.CodeBlock, explanation *domain.Explanation) []string {
	if e.settings.SkipWeb {
		return nil
	}

	var links []string
	seen := make(map[string]struct{})
	for _, q := range buildResearchQueries(blocks, explanation) {
		for _, u := range e.linkFinder.Search(ctx, q, linksPerQuery) {
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			links = append(links, u)
		}
		if len(links) >= maxReferenceLinks {
			break
		}
	}
	if len(links) > maxReferenceLinks {
		links = links[:maxReferenceLinks]
	}
	sort.SliceStable(links, func(i, j int) bool {
		return strings.HasPrefix(links[i], "https://") && !strings.HasPrefix(links[j], "https://")
	})
	return links
}

func buildResearchQueries(blocks []domain.CodeBlock, explanation *domain.Explanation) []string {
	lang := dominantLanguage(blocks)

	queries := []string{
		lang + " language overview",
		lang + " best practices",
		lang + " common pitfalls",
		lang + " official documentation",
	}
	joined := joinedCode(blocks)
	if strings.Contains(joined, "async") {
		queries = append(queries, lang+" async await explained")
	}
	if strings.Contains(joined, "class ") {
		queries = append(queries, lang+" classes and objects tutorial")
	}
	if strings.Contains(joined, "import ") || strings.Contains(joined, "require(") {
		queries = append(queries, lang+" modules and imports")
	}
	for _, c := range explanation.KeyConcepts {
		if c = strings.TrimSpace(c); c != "" {
			queries = append(queries, c+" "+lang)
		}
	}

	var out []string
	seen := make(map[string]struct{})
	for _, q := range queries {
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
		if len(out) >= maxResearchQueries {
			break
		}
	}
	return out
}

func dominantLanguage(blocks []domain.CodeBlock) string {
	counts := make(map[string]int)
	for _, b := range blocks {
		if b.Lang != "" {
			counts[strings.ToLower(b.Lang)] += len(b.Code)
		}
	}
	best, bestCount := "code", 0
	for lang, n := range counts {
		if n > bestCount {
			best, bestCount = lang, n
		}
	}
	return best
}

func joinedCode(blocks []domain.CodeBlock) string {
	var b strings.Builder
	for _, block := range blocks {
		b.WriteString(block.Code)
		b.WriteString("\n")
	}
	return b.String()
}

func (e *levelExplainer) buildVideo(ctx context.Context, level string, explanation *domain.Explanation) (string, error) {
	sections := narrationSections(level, explanation, e.settings.NarrationLimit())
	if len(sections) == 0 {
		return "", fmt.Errorf("nothing to narrate")
	}
	name := time.Now().Format(videoTimestampLayout) + "_" + domain.SafeFilename(level) + e.settings.FinalExtension()
	return e.assembler.Assemble(ctx, inbound.AssembleVideoRequest{
		Sections:   sections,
		OutputPath: filepath.Join(e.videoDir, name),
		RateDelta:  e.settings.RateDelta,
	})
}

// narrationSections maps the non-empty explanation fields onto slideshow
// sections, each body truncated to the narration budget.
func narrationSections(level string, explanation *domain.Explanation, limit int) []domain.Section {
	short := func(s string) string {
		s = strings.TrimSpace(s)
		runes := []rune(s)
		if len(runes) <= limit {
			return s
		}
		return string(runes[:limit]) + "…"
	}

	var sections []domain.Section
	add := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		sections = append(sections, domain.Section{Title: title, Body: short(body)})
	}

	add("Overview ("+level+")", explanation.Overview)
	if len(explanation.KeyConcepts) > 0 {
		concepts := explanation.KeyConcepts
		if len(concepts) > maxNarratedItems {
			concepts = concepts[:maxNarratedItems]
		}
		add("Key Concepts", strings.Join(concepts, "; "))
	}
	add("Walkthrough", explanation.Walkthrough)
	add("Complexity", explanation.Complexity)
	if len(explanation.Pitfalls) > 0 {
		pitfalls := explanation.Pitfalls
		if len(pitfalls) > maxNarratedItems {
			pitfalls = pitfalls[:maxNarratedItems]
		}
		add("Pitfalls", strings.Join(pitfalls, "; "))
	}
	add("TL;DR", explanation.TLDR)
	return sections
}

func renderReport(level string, explanation *domain.Explanation, links, warnings []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Code Explainer — %s\n\n", level)

	if explanation.TLDR != "" {
		fmt.Fprintf(&b, "**TL;DR:** %s\n\n", explanation.TLDR)
	}
	if explanation.Overview != "" {
		b.WriteString("## Overview\n\n" + explanation.Overview + "\n\n")
	}
	if len(explanation.KeyConcepts) > 0 {
		b.WriteString("## Key Concepts\n\n")
		for _, c := range explanation.KeyConcepts {
			b.WriteString("- " + c + "\n")
		}
		b.WriteString("\n")
	}
	if explanation.Walkthrough != "" {
		b.WriteString("## Walkthrough\n\n" + explanation.Walkthrough + "\n\n")
	}
	if explanation.Complexity != "" {
		b.WriteString("## Complexity / Performance\n\n" + explanation.Complexity + "\n\n")
	}
	if len(explanation.Pitfalls) > 0 {
		b.WriteString("## Pitfalls & Edge Cases\n\n")
		for _, p := range explanation.Pitfalls {
			b.WriteString("- " + p + "\n")
		}
		b.WriteString("\n")
	}
	if len(explanation.Quiz) > 0 {
		b.WriteString("## Quick Quiz\n\n")
		for i, q := range explanation.Quiz {
			fmt.Fprintf(&b, "%d. **%s**\n\n   %s\n\n", i+1, q.Question, q.Answer)
		}
	}
	if len(links) > 0 {
		b.WriteString("## References\n\n")
		for _, u := range links {
			b.WriteString("- " + u + "\n")
		}
		b.WriteString("\n")
	}
	for _, w := range warnings {
		b.WriteString("> ⚠️ " + w + "\n\n")
	}
	return strings.TrimSpace(b.String()) + "\n"
}
