package adapters

import (
	"context"
	"strings"
	"testing"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
	"github.com/pranavsaji/code-explainer/config"
	"github.com/pranavsaji/code-explainer/domain"
)

func TestParseExplanation_FencedJSON(t *testing.T) {
	content := "```json\n{\"overview\":\"Parses input.\",\"key_concepts\":[\"parsing\"],\"tl_dr\":\"Short.\"}\n```"
	explanation := parseExplanation(content)
	if explanation.Overview != "Parses input." {
		t.Fatal("fenced JSON should be unwrapped, got", explanation.Overview)
	}
	if len(explanation.KeyConcepts) != 1 || explanation.KeyConcepts[0] != "parsing" {
		t.Fatal("key concepts lost:", explanation.KeyConcepts)
	}
	if explanation.TLDR != "Short." {
		t.Fatal("tl_dr key not mapped:", explanation.TLDR)
	}
}

func TestParseExplanation_NonJSONBecomesOverview(t *testing.T) {
	explanation := parseExplanation("The model rambled instead of returning JSON.")
	if explanation.Overview != "The model rambled instead of returning JSON." {
		t.Fatal("non-JSON content should land in the overview verbatim")
	}
}

func TestBuildCodeContext(t *testing.T) {
	blocks := []domain.CodeBlock{
		{Lang: "python", Code: "print('a')"},
		{Lang: "", Code: "anon()"},
	}
	ctx := buildCodeContext(blocks, "summary")
	if !strings.Contains(ctx, "---LANG=python---") {
		t.Fatal("language markers missing:", ctx)
	}
	if !strings.Contains(ctx, "---LANG=plain---") {
		t.Fatal("untagged blocks should be marked plain:", ctx)
	}

	if got := buildCodeContext(nil, "fallback summary"); got != "fallback summary" {
		t.Fatal("no code should fall back to the document summary, got", got)
	}
}

func TestGenerate_MissingKeyYieldsPlaceholder(t *testing.T) {
	generator := NewOpenAIExplainer(&config.OpenAIConfig{}, NewZerologWrapper())
	explanation, err := generator.Generate(context.Background(), outbound.GenerateExplanationRequest{
		AudienceLevel: "beginner",
	})
	if err != nil {
		t.Fatal("a missing key must not be an error:", err)
	}
	if !strings.Contains(explanation.Overview, "(Offline)") {
		t.Fatal("expected the placeholder record, got", explanation.Overview)
	}
}
