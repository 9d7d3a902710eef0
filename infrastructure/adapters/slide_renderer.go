package adapters

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

const slideCaption = "Generated by Code Explainer"

const titleRuneBudget = 60

// SlideRenderer rasterizes a title+body text block onto a fixed canvas.
// Rendering is deterministic for a given text; the only side effect is the
// best-effort font load at construction.
type SlideRenderer struct {
	width       int
	height      int
	margin      int
	lineSpacing int
	fontSize    int
	bodyFace    font.Face
	titleFace   font.Face
}

// NewSlideRenderer builds a renderer for the normal 640x360 canvas, or the
// smaller 480x270 one in fast mode.
func NewSlideRenderer(fast bool, logger outbound.LoggerPort) *SlideRenderer {
	r := &SlideRenderer{width: 640, height: 360, margin: 64, lineSpacing: 8, fontSize: 28}
	if fast {
		r = &SlideRenderer{width: 480, height: 270, margin: 48, lineSpacing: 6, fontSize: 24}
	}
	r.bodyFace, r.titleFace = loadFaces(r.fontSize, logger)
	return r
}

func loadFaces(size int, logger outbound.LoggerPort) (font.Face, font.Face) {
	body, err := newFace(goregular.TTF, size)
	if err != nil {
		logger.Warn("falling back to built-in font: " + err.Error())
		return basicfont.Face7x13, basicfont.Face7x13
	}
	title, err := newFace(gobold.TTF, size+4)
	if err != nil {
		logger.Warn("falling back to built-in font for titles: " + err.Error())
		return body, body
	}
	return body, title
}

func newFace(ttf []byte, size int) (font.Face, error) {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Render lays the text out on the canvas: optional title line, word-wrapped
// body top to bottom with silent truncation once vertical space runs out,
// and the fixed caption bottom-right.
func (r *SlideRenderer) Render(text string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{248, 249, 251, 255}}, image.Point{}, draw.Src)

	title, body := splitTitleBody(text)
	maxWidth := r.width - 2*r.margin

	y := r.margin
	if title != "" {
		r.drawString(img, strings.TrimSpace(title), r.titleFace, r.margin, y, color.RGBA{20, 20, 20, 255})
		y += (r.fontSize + 4) * 3 / 2
	}
	for _, line := range breakLines(strings.TrimSpace(body), r.bodyFace, maxWidth) {
		r.drawString(img, line, r.bodyFace, r.margin, y, color.RGBA{30, 30, 30, 255})
		y += r.fontSize + r.lineSpacing
		if y > r.height-r.margin {
			break
		}
	}

	captionWidth := font.MeasureString(r.bodyFace, slideCaption).Ceil()
	r.drawString(img, slideCaption,
		r.bodyFace,
		r.width-captionWidth-r.margin,
		r.height-r.margin-r.fontSize,
		color.RGBA{90, 90, 90, 255})
	return img
}

func (r *SlideRenderer) RenderToFile(text string, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create slide image: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, r.Render(text)); err != nil {
		return fmt.Errorf("failed to encode slide image: %w", err)
	}
	return nil
}

// drawString draws with (x, y) as the glyph box's top-left corner.
func (r *SlideRenderer) drawString(dst draw.Image, s string, face font.Face, x, y int, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// splitTitleBody applies the layout rule: an explicit first line is the
// title; failing that, long text gets a synthesized title from its first 60
// characters; short text has no title.
func splitTitleBody(text string) (string, string) {
	if i := strings.Index(text, "\n"); i >= 0 {
		return text[:i], text[i+1:]
	}
	runes := []rune(text)
	if len(runes) > 100 {
		return string(runes[:titleRuneBudget]) + "…", string(runes[titleRuneBudget:])
	}
	return "", text
}

func breakLines(s string, face font.Face, maxWidth int) []string {
	var lines []string
	cur := ""
	for _, word := range strings.Fields(s) {
		candidate := strings.TrimSpace(cur + " " + word)
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			cur = candidate
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		cur = word
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
