package media

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// Fit scales img to width pixels, keeping the aspect ratio, with an even
// pixel height so rows pair up into half-block cells.
func Fit(img image.Image, width int) *image.RGBA {
	b := img.Bounds()
	if width <= 0 || b.Dx() == 0 || b.Dy() == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	height := width * b.Dy() / b.Dx()
	if height%2 == 1 {
		height++
	}
	height = max(height, 2)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// HalfBlock renders img as rows of '▀' cells, width cells wide. Each cell
// shows two pixels: the upper one as foreground, the lower one as background.
func HalfBlock(img image.Image, width int) string {
	px := Fit(img, width)
	b := px.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			top := hex(px.At(x, y))
			bottom := hex(px.At(x, y+1))
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
	}
	return sb.String()
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
