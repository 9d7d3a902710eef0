package domain

// ExplainerResult is everything produced for one audience level: the markdown
// report, the reference links folded into it, and the narrated video when one
// could be built. VideoPath is empty when video generation was skipped or
// failed; the report carries an inline warning in the failure case.
type ExplainerResult struct {
	Level        string
	TextMarkdown string
	Links        []string
	VideoPath    string
}
