package domain

import (
	"regexp"
	"strings"
)

// CodeBlock is one fenced block lifted from the source markdown document.
type CodeBlock struct {
	Lang string
	Code string
}

var fencePattern = regexp.MustCompile("(?s)```(\\w+)?[ \\t]*\\r?\\n(.*?)```")

// ExtractCodeBlocks pulls every fenced code block out of a markdown document,
// preserving order. Language tags are lowercased; an untagged fence yields an
// empty Lang.
func ExtractCodeBlocks(mdText string) []CodeBlock {
	var blocks []CodeBlock
	for _, m := range fencePattern.FindAllStringSubmatch(mdText, -1) {
		blocks = append(blocks, CodeBlock{
			Lang: strings.ToLower(strings.TrimSpace(m[1])),
			Code: m[2],
		})
	}
	return blocks
}

// SummarizeDocument truncates a document to maxChars for use as prompt
// context.
func SummarizeDocument(mdText string, maxChars int) string {
	r := []rune(mdText)
	if len(r) <= maxChars {
		return mdText
	}
	return string(r[:maxChars])
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9_\-\.]+`)

// SafeFilename replaces path-hostile characters so a level name can be used
// in an output filename.
func SafeFilename(name string) string {
	return unsafeFilename.ReplaceAllString(name, "_")
}
