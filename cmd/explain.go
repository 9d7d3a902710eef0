package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pranavsaji/code-explainer/application/ports/inbound"
	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

var (
	explainRepo   string
	explainRef    string
	explainLevels []string
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var explainCmd = &cobra.Command{
	Use:   "explain [path]",
	Short: "Explain a markdown file, a local project directory or a GitHub repository",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if explainRepo == "" && len(args) == 0 {
			return fmt.Errorf("pass a markdown file or project directory, or use --repo")
		}

		application, err := buildApp()
		if err != nil {
			return err
		}
		defer application.shutdown()

		docPath, err := resolveDocument(cmd.Context(), application, args)
		if err != nil {
			return err
		}

		result, err := application.pipeline.Run(cmd.Context(), inbound.RunPipelineRequest{
			DocumentPath: docPath,
			Levels:       explainLevels,
		})
		if err != nil {
			return err
		}

		reportPath := filepath.Join(result.OutputDir, "report_"+time.Now().Format("20060102-150405")+".md")
		if err := os.WriteFile(reportPath, []byte(result.Text), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		fmt.Println(titleStyle.Render("Code Explainer"))
		fmt.Println(labelStyle.Render("Report:  ") + pathStyle.Render(reportPath))
		for _, v := range result.VideoPaths {
			fmt.Println(labelStyle.Render("Video:   ") + pathStyle.Render(v))
		}
		if len(result.VideoPaths) == 0 {
			fmt.Println(subtleStyle.Render("No videos were produced, see the report for details."))
		}
		fmt.Println(labelStyle.Render("Outputs: ") + pathStyle.Render(result.OutputDir))
		return nil
	},
}

// resolveDocument turns the command input into one combined markdown file:
// a repo URL is cloned and flattened, a directory is flattened, a markdown
// file is used as-is.
func resolveDocument(ctx context.Context, application *app, args []string) (string, error) {
	if explainRepo != "" {
		docPath := filepath.Join(application.layout.IngestDir, "repo_"+uuid.NewString()+".md")
		return application.repoIngest.IngestRepo(ctx, outbound.IngestRepoRequest{
			RepoURL:    explainRepo,
			Ref:        explainRef,
			Token:      os.Getenv("GH_TOKEN"),
			OutputPath: docPath,
		})
	}

	target := args[0]
	info, err := os.Stat(target)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", target, err)
	}
	if info.IsDir() {
		docPath := filepath.Join(application.layout.IngestDir, "local_"+uuid.NewString()+".md")
		return application.dirIngest.IngestDir(ctx, target, docPath)
	}
	return target, nil
}

func init() {
	explainCmd.Flags().StringVar(&explainRepo, "repo", "", "GitHub repository URL to explain")
	explainCmd.Flags().StringVar(&explainRef, "ref", "", "branch, tag or commit to check out")
	explainCmd.Flags().StringSliceVar(&explainLevels, "levels", nil, "audience levels to produce (default beginner,intermediate,advanced)")
}
