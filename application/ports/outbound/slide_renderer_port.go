package outbound

// SlideRendererPort renders a title+body text block into a fixed-size slide
// image on disk. Rendering is deterministic for a given text and canvas.
type SlideRendererPort interface {
	RenderToFile(text string, outputPath string) error
}
