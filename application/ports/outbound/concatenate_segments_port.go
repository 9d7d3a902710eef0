package outbound

import (
	"context"

	"github.com/pranavsaji/code-explainer/domain"
)

// ConcatenateSegmentsPort joins video segments back-to-back in ordinal order
// into outputPath via stream copy, without re-encoding.
type ConcatenateSegmentsPort interface {
	Concatenate(ctx context.Context, segments []domain.VideoSegment, outputPath string) error
}
