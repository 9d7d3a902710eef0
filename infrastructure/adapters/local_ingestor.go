package adapters

import (
	"context"
	"fmt"
	"os"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

type localDirIngestor struct {
	logger outbound.LoggerPort
}

func NewLocalDirIngestor(logger outbound.LoggerPort) outbound.DirIngestorPort {
	return &localDirIngestor{logger: logger}
}

func (l *localDirIngestor) IngestDir(ctx context.Context, projectRoot, outputPath string) (string, error) {
	info, err := os.Stat(projectRoot)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", projectRoot)
	}
	l.logger.InfoWithFields("ingesting local project", map[string]interface{}{"path": projectRoot})
	return writeCombinedMarkdown(projectRoot, outputPath)
}
