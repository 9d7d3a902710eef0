package inbound

import (
	"context"

	"github.com/pranavsaji/code-explainer/domain"
)

type AssembleVideoRequest struct {
	Sections   []domain.Section
	OutputPath string
	// RateDelta is the narration-speed adjustment passed through to the
	// speech synthesizer.
	RateDelta int
}

// VideoAssemblerPort turns an ordered sequence of narration sections into one
// final video at OutputPath, or raises. The run owns a unique temporary
// workspace that is deleted on every exit path.
type VideoAssemblerPort interface {
	Assemble(ctx context.Context, req AssembleVideoRequest) (string, error)
}
