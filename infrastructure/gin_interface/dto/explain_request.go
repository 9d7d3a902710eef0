package dto

type ExplainMarkdownRequest struct {
	Markdown string   `json:"markdown" binding:"required"`
	Levels   []string `json:"levels"`
}

type ExplainGitHubRequest struct {
	RepoURL string   `json:"repo_url" binding:"required"`
	Ref     string   `json:"ref"`
	Token   string   `json:"token"`
	Levels  []string `json:"levels"`
}

type ExplainLocalRequest struct {
	Path   string   `json:"path" binding:"required"`
	Levels []string `json:"levels"`
}

type ExplainResponse struct {
	Text      string   `json:"text"`
	Videos    []string `json:"videos"`
	OutputDir string   `json:"output_dir"`
}
