package outbound

import "context"

type IngestRepoRequest struct {
	RepoURL string
	// Ref is an optional branch, tag, or commit.
	Ref string
	// Token authenticates access to private repositories.
	Token      string
	OutputPath string
}

// RepoIngestorPort fetches a remote repository and writes a single combined
// markdown document at OutputPath. It returns a descriptive error on any
// failure, never partial output.
type RepoIngestorPort interface {
	IngestRepo(ctx context.Context, req IngestRepoRequest) (string, error)
}

// DirIngestorPort does the same for a local project directory.
type DirIngestorPort interface {
	IngestDir(ctx context.Context, projectRoot, outputPath string) (string, error)
}
