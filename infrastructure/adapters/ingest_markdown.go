package adapters

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	maxIngestFiles     = 300
	maxIngestFileBytes = 500_000
)

// includeExts maps the file extensions worth ingesting to their fence
// language tag. Prose formats map to an empty tag and are inlined unfenced
// to avoid nested fences.
var includeExts = map[string]string{
	".py": "python", ".ipynb": "json",
	".js": "javascript", ".jsx": "jsx",
	".ts": "typescript", ".tsx": "tsx",
	".java": "java", ".kt": "kotlin",
	".go": "go", ".rs": "rust", ".rb": "ruby",
	".php": "php", ".c": "c", ".h": "c",
	".cpp": "cpp", ".hpp": "cpp", ".cs": "csharp",
	".swift": "swift", ".sql": "sql", ".scala": "scala",
	".hs": "haskell", ".lua": "lua", ".r": "r",
	".m": "objectivec", ".mm": "objectivec",
	".sh": "bash", ".bash": "bash", ".zsh": "bash", ".ps1": "powershell",
	".json": "json", ".yaml": "yaml", ".yml": "yaml",
	".toml": "toml", ".ini": "ini", ".cfg": "ini",
	".md": "", ".rst": "", ".txt": "",
}

var excludeDirs = map[string]struct{}{
	".git": {}, ".hg": {}, ".svn": {}, ".idea": {}, ".vscode": {},
	"node_modules": {}, "dist": {}, "build": {}, "out": {}, "target": {},
	".venv": {}, "venv": {}, "__pycache__": {}, ".ruff_cache": {}, ".mypy_cache": {},
	".pytest_cache": {}, ".next": {}, ".parcel-cache": {}, ".turbo": {},
}

func shouldSkipDir(name string) bool {
	low := strings.ToLower(name)
	if strings.HasPrefix(low, "._") {
		return true
	}
	_, skip := excludeDirs[low]
	return skip
}

type ingestedFile struct {
	rel   string
	chunk string
}

// writeCombinedMarkdown walks root and writes one combined markdown document
// at outputPath: README files first, then the rest sorted by path, each file
// in a language-tagged fence.
func writeCombinedMarkdown(root, outputPath string) (string, error) {
	var readmes []ingestedFile
	var others []ingestedFile
	count := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if count >= maxIngestFiles {
			return filepath.SkipAll
		}
		lang, ok := includeExts[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.Size() > maxIngestFileBytes {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		var b strings.Builder
		fmt.Fprintf(&b, "\n\n<!-- file: %s -->\n", rel)
		if lang == "" {
			b.WriteString(strings.TrimSpace(string(content)))
		} else {
			b.WriteString("```" + lang + "\n" + strings.TrimSpace(string(content)) + "\n```")
		}

		file := ingestedFile{rel: rel, chunk: b.String()}
		if strings.HasPrefix(strings.ToLower(d.Name()), "readme") {
			readmes = append(readmes, file)
		} else {
			others = append(others, file)
		}
		count++
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Slice(others, func(i, j int) bool { return others[i].rel < others[j].rel })

	var parts []string
	for _, f := range append(readmes, others...) {
		parts = append(parts, f.chunk)
	}
	combined := strings.TrimSpace(strings.Join(parts, "\n"))
	if combined == "" {
		combined = "# (empty)"
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create ingest output dir: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(combined), 0o644); err != nil {
		return "", fmt.Errorf("failed to write combined document: %w", err)
	}
	return outputPath, nil
}
