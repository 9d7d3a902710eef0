package inbound

import "context"

type RunPipelineRequest struct {
	// DocumentPath is the combined markdown document to explain.
	DocumentPath string
	// Levels are the requested audience levels, in output order.
	Levels []string
}

type BatchResult struct {
	// Text is the combined markdown report across all levels.
	Text string
	// VideoPaths holds one entry per level whose video was produced.
	VideoPaths []string
	OutputDir  string
}

// ExplainerPipelinePort runs the whole multi-level batch for one document.
// A single level's video failure does not abort the batch.
type ExplainerPipelinePort interface {
	Run(ctx context.Context, req RunPipelineRequest) (*BatchResult, error)
}
