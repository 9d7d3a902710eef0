package adapters

import (
	"strings"
	"testing"
)

func TestSplitChunks_ShortText(t *testing.T) {
	chunks := SplitChunks("One sentence. Another one.", 800)
	if len(chunks) != 1 {
		t.Fatal("expected a single chunk, got", len(chunks))
	}
	if chunks[0] != "One sentence. Another one." {
		t.Fatal("chunk content changed:", chunks[0])
	}
}

func TestSplitChunks_LongText(t *testing.T) {
	sentence := "This sentence pads the narration with plenty of ordinary words. "
	text := strings.TrimSpace(strings.Repeat(sentence, 40))

	chunks := SplitChunks(text, 800)
	if len(chunks) < 2 {
		t.Fatal("expected multiple chunks for", len(text), "characters")
	}
	for i, c := range chunks {
		if len(c) > 800 {
			t.Fatal("chunk", i, "exceeds limit:", len(c))
		}
		if strings.TrimSpace(c) == "" {
			t.Fatal("chunk", i, "is empty")
		}
	}

	rejoined := strings.Join(chunks, " ")
	if strings.Join(strings.Fields(rejoined), " ") != strings.Join(strings.Fields(text), " ") {
		t.Fatal("chunking lost or reordered words")
	}
}

func TestSplitChunks_PrefersSentenceBoundaries(t *testing.T) {
	text := "First sentence here. Second sentence follows! Third one asks? Fourth closes."
	chunks := SplitChunks(text, 30)
	for i, c := range chunks {
		if len(c) > 30 {
			t.Fatal("chunk", i, "exceeds limit:", c)
		}
	}
	if !strings.HasSuffix(chunks[0], ".") && !strings.HasSuffix(chunks[0], "!") && !strings.HasSuffix(chunks[0], "?") {
		t.Fatal("first chunk does not end at a sentence boundary:", chunks[0])
	}
}

func TestSplitChunks_OversizedWord(t *testing.T) {
	word := strings.Repeat("x", 50)
	chunks := SplitChunks(word, 20)
	if len(chunks) != 3 {
		t.Fatal("expected 3 hard-wrapped pieces, got", len(chunks))
	}
	if strings.Join(chunks, "") != word {
		t.Fatal("hard wrap lost characters")
	}
}
