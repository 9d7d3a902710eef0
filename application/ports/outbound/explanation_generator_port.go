package outbound

import (
	"context"

	"github.com/pranavsaji/code-explainer/domain"
)

type GenerateExplanationRequest struct {
	AudienceLevel   string
	CodeBlocks      []domain.CodeBlock
	DocumentSummary string
}

// ExplanationGeneratorPort produces the structured explanation for one
// audience level. Implementations tolerate unavailability by returning a
// degraded placeholder record rather than failing the pipeline.
type ExplanationGeneratorPort interface {
	Generate(ctx context.Context, req GenerateExplanationRequest) (*domain.Explanation, error)
}
