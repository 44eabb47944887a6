// Package compositor paints sprites onto the canvas.
package compositor

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// NewCanvas copies a background into a fresh RGBA canvas owned by the caller
func NewCanvas(background image.Image) *image.RGBA {
	b := background.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), background, b.Min, draw.Src)
	return canvas
}

// Composite blends sprite over canvas with its top-left corner at pos, using
// the sprite's alpha channel. The sprite must already lie fully inside the
// canvas; anything else is a caller bug and panics.
func Composite(canvas *image.RGBA, sprite image.Image, pos image.Point) {
	sb := sprite.Bounds()
	dst := image.Rectangle{Min: pos, Max: pos.Add(sb.Size())}
	if !dst.In(canvas.Bounds()) {
		panic(fmt.Sprintf("compositor: sprite rect %v outside canvas %v", dst, canvas.Bounds()))
	}
	draw.Draw(canvas, dst, sprite, sb.Min, draw.Over)
}
