package adapters

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSlideRenderer_CanvasSizes(t *testing.T) {
	logger := NewZerologWrapper()

	normal := NewSlideRenderer(false, logger).Render("Title\nBody text")
	if b := normal.Bounds(); b.Dx() != 640 || b.Dy() != 360 {
		t.Fatal("normal canvas should be 640x360, got", b.Dx(), b.Dy())
	}

	fast := NewSlideRenderer(true, logger).Render("Title\nBody text")
	if b := fast.Bounds(); b.Dx() != 480 || b.Dy() != 270 {
		t.Fatal("fast canvas should be 480x270, got", b.Dx(), b.Dy())
	}
}

func TestSlideRenderer_WritesDecodablePNG(t *testing.T) {
	renderer := NewSlideRenderer(false, NewZerologWrapper())
	out := filepath.Join(t.TempDir(), "frame_0.png")

	if err := renderer.RenderToFile("Overview\nThis module parses input and emits events.", out); err != nil {
		t.Fatal("render failed:", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal("output file missing:", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal("output is not a valid png:", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 360 {
		t.Fatal("decoded image has wrong size")
	}
}

func TestSplitTitleBody(t *testing.T) {
	title, body := splitTitleBody("Heading\nrest of the text")
	if title != "Heading" || body != "rest of the text" {
		t.Fatal("explicit first line should become the title")
	}

	long := "this single line keeps going and going without any break at all, well past the hundred character budget for untitled slides"
	title, body = splitTitleBody(long)
	if len([]rune(title)) != titleRuneBudget+1 {
		t.Fatal("synthesized title should be the 60-rune prefix plus ellipsis, got", title)
	}
	if body == "" {
		t.Fatal("the remainder should land in the body")
	}

	title, body = splitTitleBody("short text")
	if title != "" || body != "short text" {
		t.Fatal("short single-line text has no title")
	}
}
