package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// OutputLayout is the on-disk layout for one explainer installation. Scratch
// files are forced under ScratchDir, a project-local directory, instead of
// the system temp dir; every component that writes scratch files receives
// this value explicitly.
type OutputLayout struct {
	Root       string
	VideoDir   string
	AudioDir   string
	FrameDir   string
	IngestDir  string
	ScratchDir string
}

func NewOutputLayout(root string) *OutputLayout {
	return &OutputLayout{
		Root:       root,
		VideoDir:   filepath.Join(root, "videos"),
		AudioDir:   filepath.Join(root, "audio"),
		FrameDir:   filepath.Join(root, "frames"),
		IngestDir:  filepath.Join(root, "ingest"),
		ScratchDir: filepath.Join(root, "tmp"),
	}
}

// DefaultOutputLayout places outputs under ./outputs in the working
// directory, matching the persisted layout contract.
func DefaultOutputLayout() (*OutputLayout, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return NewOutputLayout(filepath.Join(wd, "outputs")), nil
}

func (l *OutputLayout) EnsureDirs() error {
	for _, d := range []string{l.Root, l.VideoDir, l.AudioDir, l.FrameDir, l.IngestDir, l.ScratchDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", d, err)
		}
	}
	// Point child processes at the project-local scratch dir as well.
	return os.Setenv("TMPDIR", l.ScratchDir)
}

var scratchPrefixes = []string{"cx_", "cxconcat_", "tmp_cx_", "tmp_repo_"}

// PurgeStaleScratch removes leftover scratch directories from crashed runs
// once they exceed maxAge. Errors are swallowed: a purge failure must never
// block a run.
func (l *OutputLayout) PurgeStaleScratch(maxAge time.Duration) {
	entries, err := os.ReadDir(l.ScratchDir)
	if err != nil {
		return
	}
	now := time.Now()
	for _, e := range entries {
		matched := false
		for _, p := range scratchPrefixes {
			if strings.HasPrefix(e.Name(), p) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > maxAge {
			_ = os.RemoveAll(filepath.Join(l.ScratchDir, e.Name()))
		}
	}
}
