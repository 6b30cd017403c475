package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kevin-cantwell/dotmatrix"
)

// FetchAvatar downloads the raw avatar bytes. Avatars are public, so this
// goes out unauthenticated.
func FetchAvatar(avatarURL string) ([]byte, error) {
	resp, err := http.Get(avatarURL)
	if err != nil {
		return nil, fmt.Errorf("fetching avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching avatar: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// imgcatPainter shells out to an installed imgcat to paint the image at the
// cursor position.
type imgcatPainter struct {
	path string
	out  io.Writer
}

// findImgcat returns an imgcat-backed painter if the command is on PATH.
func findImgcat(out io.Writer) (Painter, bool) {
	path, err := exec.LookPath("imgcat")
	if err != nil {
		return nil, false
	}
	return &imgcatPainter{path: path, out: out}, true
}

func (p *imgcatPainter) Paint(img []byte, heightCells int) error {
	tmp, err := os.CreateTemp("", "ghfetch-avatar-*.png")
	if err != nil {
		return fmt.Errorf("writing avatar temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(img); err != nil {
		tmp.Close()
		return fmt.Errorf("writing avatar temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// The pip-installed imgcat takes --height; the iTerm2 script takes -H.
	height := strconv.Itoa(heightCells)
	args := []string{"-H", height, tmp.Name()}
	if help, err := exec.Command(p.path, "--help").CombinedOutput(); err == nil &&
		strings.Contains(strings.ToLower(string(help)), "--height") {
		args = []string{"--height", height, tmp.Name()}
	}

	cmd := exec.Command(p.path, args...)
	cmd.Stdout = p.out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running imgcat: %w", err)
	}
	return nil
}

// braillePainter renders the avatar as dithered braille, used when imgcat is
// not installed but stdout is still a terminal. A braille cell covers a 2x4
// pixel block, so the image is resized to heightCells*4 pixels tall and the
// painted block comes out exactly heightCells rows.
type braillePainter struct {
	out io.Writer
}

func (p *braillePainter) Paint(img []byte, heightCells int) error {
	src, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return fmt.Errorf("decoding avatar: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Dy() == 0 {
		return fmt.Errorf("avatar has zero height")
	}
	aspect := float64(bounds.Dx()) / float64(bounds.Dy())

	height := heightCells * 4
	width := int(math.Round(float64(height) * aspect))
	if width < 2 {
		width = 2
	}
	resized := resizeImage(src, width, height)

	printer := dotmatrix.NewPrinter(p.out, &dotmatrix.Config{
		Filter: &contrastFilter{factor: 1.4},
		Drawer: draw.FloydSteinberg,
	})
	if err := printer.Print(resized); err != nil {
		return fmt.Errorf("rendering braille avatar: %w", err)
	}
	return nil
}

// resizeImage scales an image to the exact target size with nearest-neighbor
// sampling. Plenty for avatars that end up a few dozen cells wide.
func resizeImage(img image.Image, width, height int) image.Image {
	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	resized := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			srcX := bounds.Min.X + (x*srcW)/width
			srcY := bounds.Min.Y + (y*srcH)/height
			resized.Set(x, y, img.At(srcX, srcY))
		}
	}
	return resized
}

// contrastFilter stretches tones around middle gray before dithering so
// avatar features survive the braille conversion.
type contrastFilter struct {
	factor float64
}

func (f *contrastFilter) Filter(img image.Image) image.Image {
	var lut [256]uint8
	for i := range lut {
		v := (float64(i)-128.0)*f.factor + 128.0
		lut[i] = uint8(math.Min(255, math.Max(0, v)))
	}

	bounds := img.Bounds()
	adjusted := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			adjusted.SetRGBA(x, y, color.RGBA{
				R: lut[r>>8],
				G: lut[g>>8],
				B: lut[b>>8],
				A: uint8(a >> 8),
			})
		}
	}
	return adjusted
}
