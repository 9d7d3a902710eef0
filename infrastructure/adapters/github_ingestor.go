package adapters

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

const (
	cloneTimeout    = 120 * time.Second
	zipballTimeout  = 120 * time.Second
	ingestUserAgent = "repo-ingest/1.0"
)

// gitHubIngestor fetches a GitHub repository (shallow clone first, zipball
// from the API as fallback) and flattens it into one combined markdown
// document. The clone scratch dir lives under the project-local scratch root
// and is removed on every exit path.
type gitHubIngestor struct {
	logger     outbound.LoggerPort
	fetcher    ContentFetcher
	scratchDir string
}

func NewGitHubIngestor(logger outbound.LoggerPort, fetcher ContentFetcher, scratchDir string) outbound.RepoIngestorPort {
	return &gitHubIngestor{
		logger:     logger,
		fetcher:    fetcher,
		scratchDir: scratchDir,
	}
}

func (g *gitHubIngestor) IngestRepo(ctx context.Context, req outbound.IngestRepoRequest) (string, error) {
	httpsURL, parsedRef := normalizeGitHubURL(strings.TrimSpace(req.RepoURL))
	ref := req.Ref
	if ref == "" {
		ref = parsedRef
	}

	tmpRoot, err := os.MkdirTemp(g.scratchDir, "tmp_repo_")
	if err != nil {
		return "", fmt.Errorf("failed to create ingest scratch dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpRoot); rmErr != nil {
			g.logger.Warn("failed to remove ingest scratch dir: " + rmErr.Error())
		}
	}()

	repoRoot, err := g.fetchRepo(ctx, httpsURL, ref, req.Token, tmpRoot)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", httpsURL, err)
	}
	return writeCombinedMarkdown(repoRoot, req.OutputPath)
}

func (g *gitHubIngestor) fetchRepo(ctx context.Context, httpsURL, ref, token, tmpRoot string) (string, error) {
	cloneDir := filepath.Join(tmpRoot, "clone")
	if err := g.clone(ctx, httpsURL, ref, token, cloneDir); err == nil {
		return cloneDir, nil
	} else {
		g.logger.WarnWithFields("shallow clone failed, falling back to zipball", map[string]interface{}{
			"url":   httpsURL,
			"error": err.Error(),
		})
	}
	return g.downloadZipball(ctx, httpsURL, ref, token, filepath.Join(tmpRoot, "zip"))
}

func (g *gitHubIngestor) clone(ctx context.Context, httpsURL, ref, token, cloneDir string) error {
	cloneCtx, cancel := context.WithTimeout(ctx, cloneTimeout)
	defer cancel()

	var auth *githttp.BasicAuth
	if token != "" {
		// Username can be anything but not empty.
		auth = &githttp.BasicAuth{Username: "git", Password: token}
	}

	opts := &git.CloneOptions{
		URL:          httpsURL,
		Depth:        1,
		SingleBranch: true,
		Auth:         auth,
	}
	if ref == "" {
		_, err := git.PlainCloneContext(cloneCtx, cloneDir, false, opts)
		return err
	}

	// A ref can be a branch or a tag; a bare commit SHA is not cloneable
	// shallowly and falls through to the zipball path.
	branchOpts := *opts
	branchOpts.ReferenceName = plumbing.NewBranchReferenceName(ref)
	if _, err := git.PlainCloneContext(cloneCtx, cloneDir, false, &branchOpts); err == nil {
		return nil
	}
	if rmErr := os.RemoveAll(cloneDir); rmErr != nil {
		return rmErr
	}
	tagOpts := *opts
	tagOpts.ReferenceName = plumbing.NewTagReferenceName(ref)
	_, err := git.PlainCloneContext(cloneCtx, cloneDir, false, &tagOpts)
	return err
}

func (g *gitHubIngestor) downloadZipball(ctx context.Context, httpsURL, ref, token, destDir string) (string, error) {
	apiURL, err := zipballURL(httpsURL, ref)
	if err != nil {
		return "", err
	}

	zipCtx, cancel := context.WithTimeout(ctx, zipballTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(zipCtx, "GET", apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build zipball request: %w", err)
	}
	req.Header.Set("User-Agent", ingestUserAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	payload, err := g.fetcher.FetchContent(req)
	if err != nil {
		return "", fmt.Errorf("zipball download failed: %w", err)
	}
	if err := extractZip(payload, destDir); err != nil {
		return "", err
	}

	// GitHub zipballs wrap everything in a single top-level directory.
	entries, err := os.ReadDir(destDir)
	if err != nil {
		return "", err
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(destDir, entries[0].Name()), nil
	}
	return destDir, nil
}

func extractZip(payload []byte, destDir string) error {
	reader, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return fmt.Errorf("failed to open zipball: %w", err)
	}
	for _, f := range reader.File {
		target := filepath.Join(destDir, filepath.Clean(f.Name))
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("zip entry escapes destination: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		src, err := f.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

var (
	treeRefPattern   = regexp.MustCompile(`/tree/([^/]+)`)
	commitRefPattern = regexp.MustCompile(`/commit/([0-9a-fA-F]{6,})`)
	tagRefPattern    = regexp.MustCompile(`/releases/tag/([^/]+)`)
)

// normalizeGitHubURL accepts ssh or https forms and returns the bare https
// repository URL plus any ref embedded in the original URL.
func normalizeGitHubURL(rawURL string) (string, string) {
	if strings.HasPrefix(rawURL, "git@github.com:") {
		core := strings.TrimSuffix(strings.TrimPrefix(rawURL, "git@github.com:"), ".git")
		return "https://github.com/" + core, ""
	}
	if !strings.HasPrefix(rawURL, "https://github.com/") {
		return rawURL, ""
	}
	if m := treeRefPattern.FindStringSubmatch(rawURL); m != nil {
		return strings.SplitN(rawURL, "/tree/", 2)[0], m[1]
	}
	if m := commitRefPattern.FindStringSubmatch(rawURL); m != nil {
		return strings.SplitN(rawURL, "/commit/", 2)[0], m[1]
	}
	if m := tagRefPattern.FindStringSubmatch(rawURL); m != nil {
		return strings.SplitN(rawURL, "/releases/tag/", 2)[0], m[1]
	}
	return strings.TrimSuffix(rawURL, ".git"), ""
}

func zipballURL(httpsURL, ref string) (string, error) {
	parts := strings.Split(strings.TrimSuffix(httpsURL, "/"), "/")
	if len(parts) < 2 {
		return "", fmt.Errorf("unrecognized GitHub URL: %s", httpsURL)
	}
	user, repo := parts[len(parts)-2], parts[len(parts)-1]
	if user == "" || repo == "" {
		return "", fmt.Errorf("unrecognized GitHub URL: %s", httpsURL)
	}
	u := fmt.Sprintf("https://api.github.com/repos/%s/%s/zipball", user, repo)
	if ref != "" {
		u += "/" + ref
	}
	return u, nil
}
