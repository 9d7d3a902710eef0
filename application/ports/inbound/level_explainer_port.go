package inbound

import (
	"context"

	"github.com/pranavsaji/code-explainer/domain"
)

type ExplainLevelRequest struct {
	Level      string
	Document   string
	CodeBlocks []domain.CodeBlock
}

// LevelExplainerPort produces the full result for one audience level: report
// markdown, reference links, and (best-effort) a narrated video. It never
// raises: degraded collaborators and video failures are folded into the
// report as warnings.
type LevelExplainerPort interface {
	Explain(ctx context.Context, req ExplainLevelRequest) *domain.ExplainerResult
}
