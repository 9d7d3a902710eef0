package adapters

import (
	"regexp"
	"strings"
)

// Sentence boundary: terminal punctuation, an optional closing quote or
// bracket, then whitespace.
var sentenceBoundary = regexp.MustCompile(`[.!?]+["')\]]?\s+`)

// SplitChunks breaks narration text into pieces of at most maxLen characters,
// preferring breaks after sentence-ending punctuation. A single sentence
// longer than maxLen is hard-wrapped at word boundaries.
func SplitChunks(text string, maxLen int) []string {
	sentences := splitSentences(strings.TrimSpace(text))
	var chunks []string
	cur := ""
	for _, sentence := range sentences {
		if len(cur)+1+len(sentence) <= maxLen {
			cur = strings.TrimSpace(cur + " " + sentence)
			continue
		}
		if cur != "" {
			chunks = append(chunks, cur)
		}
		if len(sentence) <= maxLen {
			cur = sentence
		} else {
			chunks = append(chunks, hardWrap(sentence, maxLen)...)
			cur = ""
		}
	}
	if cur != "" {
		chunks = append(chunks, cur)
	}
	filtered := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func splitSentences(s string) []string {
	if s == "" {
		return nil
	}
	var sentences []string
	prev := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(s, -1) {
		// Keep the punctuation, drop the trailing whitespace.
		end := loc[0] + len(strings.TrimRight(s[loc[0]:loc[1]], " \t\r\n"))
		if end > prev {
			sentences = append(sentences, s[prev:end])
		}
		prev = loc[1]
	}
	if prev < len(s) {
		sentences = append(sentences, s[prev:])
	}
	return sentences
}

// hardWrap splits an oversized sentence at word boundaries; a single word
// longer than maxLen is cut mid-word.
func hardWrap(s string, maxLen int) []string {
	var lines []string
	cur := ""
	for _, word := range strings.Fields(s) {
		for len(word) > maxLen {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			lines = append(lines, word[:maxLen])
			word = word[maxLen:]
		}
		switch {
		case cur == "":
			cur = word
		case len(cur)+1+len(word) <= maxLen:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
