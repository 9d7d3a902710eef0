package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/donovanhide/eventsource"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
	"github.com/pranavsaji/code-explainer/config"
	"github.com/pranavsaji/code-explainer/domain"
)

const DoneSignal = "[DONE]"
const MaxStreamRetries = 3

// Prompt context budgets, in characters.
const (
	maxCodeContextChars = 12000
	maxSummaryFallback  = 8000
)

type chatRequest struct {
	Stream      bool          `json:"stream"`
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatChunkBody struct {
	Choices []chatChunkChoice `json:"choices"`
}

type chatChunkChoice struct {
	Index int `json:"index"`
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

// openAIExplainer asks a chat-completions API for the structured explanation
// record, streaming the response over SSE and accumulating it. When no API
// key is configured, or the call fails outright, it returns the degraded
// placeholder record instead of an error: text output must survive an
// unavailable generator.
type openAIExplainer struct {
	logger       outbound.LoggerPort
	openAIConfig *config.OpenAIConfig
}

func NewOpenAIExplainer(openAIConfig *config.OpenAIConfig, logger outbound.LoggerPort) outbound.ExplanationGeneratorPort {
	return &openAIExplainer{
		logger:       logger,
		openAIConfig: openAIConfig,
	}
}

func (g *openAIExplainer) Generate(ctx context.Context, req outbound.GenerateExplanationRequest) (*domain.Explanation, error) {
	if g.openAIConfig.ApiKey == "" {
		g.logger.Warn("OPENAI_API_KEY missing, returning placeholder explanation")
		return domain.PlaceholderExplanation(req.AudienceLevel, "OPENAI_API_KEY missing"), nil
	}

	httpReq, err := g.createRequest(ctx, req)
	if err != nil {
		g.logger.Error(err, "Failed to create explanation request")
		return domain.PlaceholderExplanation(req.AudienceLevel, err.Error()), nil
	}

	content, err := g.streamCompletion(ctx, httpReq)
	if err != nil {
		g.logger.Error(err, "Explanation stream failed")
		return domain.PlaceholderExplanation(req.AudienceLevel, err.Error()), nil
	}

	return parseExplanation(content), nil
}

func (g *openAIExplainer) streamCompletion(ctx context.Context, req *http.Request) (string, error) {
	stream, err := eventsource.SubscribeWithRequest("", req)
	if err != nil {
		return "", fmt.Errorf("failed to subscribe to completion stream: %w", err)
	}
	defer stream.Close()

	var content strings.Builder
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev := <-stream.Events:
			if ev.Data() == DoneSignal {
				return content.String(), nil
			}
			var chunk chatChunkBody
			if err := json.Unmarshal([]byte(ev.Data()), &chunk); err != nil {
				return "", fmt.Errorf("failed to unmarshal stream event: %w", err)
			}
			if len(chunk.Choices) > 0 {
				content.WriteString(chunk.Choices[0].Delta.Content)
			}
			retryCount = 0
		case err := <-stream.Errors:
			if err == io.EOF {
				return content.String(), nil
			}
			if retryCount < MaxStreamRetries {
				g.logger.WarnWithFields("error during completion stream, retrying", map[string]interface{}{
					"retry_count": retryCount,
					"error":       err.Error(),
				})
				retryCount++
				continue
			}
			return "", fmt.Errorf("completion stream failed after %d retries: %w", MaxStreamRetries, err)
		}
	}
}

func (g *openAIExplainer) createRequest(ctx context.Context, req outbound.GenerateExplanationRequest) (*http.Request, error) {
	systemMessage := chatMessage{
		Role: "system",
		Content: "You are a senior software instructor. Produce clear, accurate explanations. " +
			"Use precise, approachable language appropriate to the requested audience level.",
	}
	userMessage := chatMessage{
		Role: "user",
		Content: fmt.Sprintf(`File summary (truncated):
%s

Code context (truncated):
%s

Audience level to tailor for: %s

Please produce a compact JSON with EXACT keys:
overview (string),
key_concepts (array of strings),
walkthrough (string),
complexity (string),
pitfalls (array of strings),
quiz (array of objects with q (string) and a (string)),
tl_dr (string)

Keep it concise but useful. Avoid backticks in values.`,
			req.DocumentSummary, buildCodeContext(req.CodeBlocks, req.DocumentSummary), req.AudienceLevel),
	}

	payload, err := json.Marshal(chatRequest{
		Stream:      true,
		Model:       g.openAIConfig.Model,
		Temperature: 0.3,
		Messages:    []chatMessage{systemMessage, userMessage},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", g.openAIConfig.ApiUrl, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create completion request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.openAIConfig.ApiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	return httpReq, nil
}

// buildCodeContext joins code blocks into the prompt context up to the
// character budget, falling back to the document summary when the document
// had no fenced code at all.
func buildCodeContext(blocks []domain.CodeBlock, summary string) string {
	var joined strings.Builder
	total := 0
	for _, b := range blocks {
		lang := b.Lang
		if lang == "" {
			lang = "plain"
		}
		piece := fmt.Sprintf("\n\n---LANG=%s---\n%s", lang, b.Code)
		total += len(piece)
		if total > maxCodeContextChars {
			break
		}
		joined.WriteString(piece)
	}
	if joined.Len() == 0 {
		return domain.SummarizeDocument(summary, maxSummaryFallback)
	}
	return joined.String()
}

var jsonFence = regexp.MustCompile("(?s)^```(json)?\\s*|\\s*```$")

// parseExplanation decodes the accumulated completion into the explanation
// record. A response that is not valid JSON becomes the overview verbatim so
// the user still sees what came back.
func parseExplanation(content string) *domain.Explanation {
	content = strings.TrimSpace(content)
	content = jsonFence.ReplaceAllString(content, "")

	var data domain.Explanation
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return &domain.Explanation{Overview: content}
	}
	return &data
}
