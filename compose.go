package main

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"math"
)

// Layout constants for the side-by-side display. The margin is a 2-column
// indent plus 8 reserved columns on the text-only path.
const (
	imageHeightCells = 15
	textGapCells     = 6
	textMarginCells  = 10
)

// Painter rasterizes an image into the terminal at the current cursor
// position, sized to a target height in character rows.
type Painter interface {
	Paint(img []byte, heightCells int) error
}

// LineBuilder produces the text block for a given usable width. The
// compositor calls it after computing layout geometry, so wrapping is
// width-aware rather than a post-hoc truncation.
type LineBuilder func(textWidth int) []string

// Compositor places an avatar image and a text block next to each other
// using cursor-motion escapes, falling back to a stacked text-only rendering
// when no paint capability is available or the image path fails.
type Compositor struct {
	out     io.Writer
	errOut  io.Writer
	painter Painter // nil when images cannot be painted
	width   int     // terminal width in columns
	pal     Palette
}

func NewCompositor(out, errOut io.Writer, width int, painter Painter, pal Palette) *Compositor {
	return &Compositor{out: out, errOut: errOut, painter: painter, width: width, pal: pal}
}

// layoutColumns computes the image width in cells and the column where text
// starts. The *2.0 compensates for terminal cells being roughly twice as
// tall as they are wide.
func layoutColumns(aspect float64) (imageCells, textStart int) {
	imageCells = int(math.Round(imageHeightCells * aspect * 2.0))
	textStart = imageCells + textGapCells
	return
}

// Render emits the combined display. Image-path failures are reported on the
// error stream and never abort the render.
func (c *Compositor) Render(avatar []byte, build LineBuilder) {
	if c.painter != nil && len(avatar) > 0 {
		err := c.renderWithImage(avatar, build)
		if err == nil {
			return
		}
		fmt.Fprintln(c.errOut, c.pal.Error.Render(fmt.Sprintf("Error displaying avatar: %v", err)))
	}
	c.renderTextOnly(build)
}

func (c *Compositor) renderWithImage(avatar []byte, build LineBuilder) error {
	aspect, err := imageAspect(avatar)
	if err != nil {
		return err
	}
	_, textStart := layoutColumns(aspect)
	textWidth := c.width - textStart

	if err := c.painter.Paint(avatar, imageHeightCells); err != nil {
		return err
	}

	lines := build(textWidth)

	// The painter leaves the cursor below the image. Climb back to its top
	// row and print each line at the text column; printing a line drops the
	// cursor to column 0 of the next row, so the rightward move is re-issued
	// before every line except the last.
	fmt.Fprintf(c.out, "\x1b[%dA", imageHeightCells)
	fmt.Fprintf(c.out, "\x1b[%dC", textStart)
	for i, line := range lines {
		fmt.Fprintln(c.out, line)
		if i < len(lines)-1 {
			fmt.Fprintf(c.out, "\x1b[%dC", textStart)
		}
	}

	// If the text block is shorter than the image, drop below the image so
	// whatever prints next does not land on top of it.
	if down := imageHeightCells - len(lines); down > 0 {
		fmt.Fprintf(c.out, "\x1b[%dB", down)
	}
	fmt.Fprintln(c.out)
	return nil
}

func (c *Compositor) renderTextOnly(build LineBuilder) {
	lines := build(c.width - textMarginCells)

	fmt.Fprintln(c.out)
	for _, line := range lines {
		fmt.Fprintln(c.out, "  "+line)
	}
	fmt.Fprintln(c.out)
}

// imageAspect decodes just the image header to get its pixel aspect ratio.
func imageAspect(data []byte) (float64, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("decoding avatar: %w", err)
	}
	if cfg.Height == 0 {
		return 0, fmt.Errorf("avatar has zero height")
	}
	return float64(cfg.Width) / float64(cfg.Height), nil
}
