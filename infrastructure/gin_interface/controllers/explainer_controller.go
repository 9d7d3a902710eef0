package controllers

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pranavsaji/code-explainer/application/ports/inbound"
	"github.com/pranavsaji/code-explainer/application/ports/outbound"
	"github.com/pranavsaji/code-explainer/infrastructure/gin_interface/dto"
)

type ExplainerController interface {
	ExplainMarkdown(c *gin.Context)
	ExplainGitHub(c *gin.Context)
	ExplainLocal(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

// explainerController exposes the three entry points over HTTP. Every run is
// funneled through the single-worker dispatcher so at most one pipeline is
// active at a time, matching the heavyweight ffmpeg work underneath.
type explainerController struct {
	logger     outbound.LoggerPort
	pipeline   inbound.ExplainerPipelinePort
	repoIngest outbound.RepoIngestorPort
	dirIngest  outbound.DirIngestorPort
	dispatcher outbound.TaskDispatcher
	ingestDir  string
}

func NewExplainerController(
	logger outbound.LoggerPort,
	pipeline inbound.ExplainerPipelinePort,
	repoIngest outbound.RepoIngestorPort,
	dirIngest outbound.DirIngestorPort,
	dispatcher outbound.TaskDispatcher,
	ingestDir string,
) ExplainerController {
	return &explainerController{
		logger:     logger,
		pipeline:   pipeline,
		repoIngest: repoIngest,
		dirIngest:  dirIngest,
		dispatcher: dispatcher,
		ingestDir:  ingestDir,
	}
}

func (e *explainerController) ExplainMarkdown(c *gin.Context) {
	var req dto.ExplainMarkdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(400, gin.H{"error": err.Error()})
		return
	}

	docPath := filepath.Join(e.ingestDir, "doc_"+uuid.NewString()+".md")
	if err := os.WriteFile(docPath, []byte(req.Markdown), 0o644); err != nil {
		e.logger.Error(err, "failed to persist request document")
		c.AbortWithStatusJSON(500, gin.H{"error": "failed to persist document"})
		return
	}

	e.run(c, docPath, req.Levels)
}

func (e *explainerController) ExplainGitHub(c *gin.Context) {
	var req dto.ExplainGitHubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(400, gin.H{"error": err.Error()})
		return
	}

	token := req.Token
	if token == "" {
		token = os.Getenv("GH_TOKEN")
	}

	docPath := filepath.Join(e.ingestDir, "repo_"+uuid.NewString()+".md")
	if _, err := e.repoIngest.IngestRepo(c.Request.Context(), outbound.IngestRepoRequest{
		RepoURL:    req.RepoURL,
		Ref:        req.Ref,
		Token:      token,
		OutputPath: docPath,
	}); err != nil {
		e.logger.Error(err, "repository ingestion failed")
		c.AbortWithStatusJSON(502, gin.H{"error": err.Error()})
		return
	}

	e.run(c, docPath, req.Levels)
}

func (e *explainerController) ExplainLocal(c *gin.Context) {
	var req dto.ExplainLocalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(400, gin.H{"error": err.Error()})
		return
	}

	docPath := filepath.Join(e.ingestDir, "local_"+uuid.NewString()+".md")
	if _, err := e.dirIngest.IngestDir(c.Request.Context(), req.Path, docPath); err != nil {
		e.logger.Error(err, "local ingestion failed")
		c.AbortWithStatusJSON(400, gin.H{"error": err.Error()})
		return
	}

	e.run(c, docPath, req.Levels)
}

// run executes one pipeline batch on the dispatcher and waits for it,
// honoring client disconnect.
func (e *explainerController) run(c *gin.Context, docPath string, levels []string) {
	newCtx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	type outcome struct {
		result *inbound.BatchResult
		err    error
	}
	done := make(chan outcome, 1)
	if err := e.dispatcher.Submit(func() {
		result, err := e.pipeline.Run(newCtx, inbound.RunPipelineRequest{
			DocumentPath: docPath,
			Levels:       levels,
		})
		done <- outcome{result: result, err: err}
	}); err != nil {
		e.logger.Error(err, "failed to enqueue explanation run")
		c.AbortWithStatusJSON(503, gin.H{"error": "explainer busy"})
		return
	}

	select {
	case <-newCtx.Done():
		return
	case out := <-done:
		if out.err != nil {
			e.logger.Error(out.err, "explanation run failed")
			c.AbortWithStatusJSON(500, gin.H{"error": out.err.Error()})
			return
		}
		c.JSON(200, dto.ExplainResponse{
			Text:      out.result.Text,
			Videos:    out.result.VideoPaths,
			OutputDir: out.result.OutputDir,
		})
	}
}

func (e *explainerController) RegisterRoutes(g *gin.Engine) {
	g.POST("/explain", e.ExplainMarkdown)
	g.POST("/explain/github", e.ExplainGitHub)
	g.POST("/explain/local", e.ExplainLocal)
}
