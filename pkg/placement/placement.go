// Package placement picks sprite positions on the canvas and converts the
// final sprite geometry into normalized bounding boxes.
package placement

import (
	"fmt"
	"image"
	"math/rand/v2"

	"github.com/menta2k/spritegen/pkg/types"
)

// Place picks the top-left corner of a sprite.
//
// Without overflow the sprite lies fully on the canvas: x in [0, W-w] and
// y in [0, H-h]. With overflow x is drawn from [-w, W) and y from [-h, H), and
// the second result reports whether the sprite crosses any canvas edge.
func Place(rng *rand.Rand, canvas, sprite types.Dim, allowOverflow bool) (image.Point, bool, error) {
	if sprite.W <= 0 || sprite.H <= 0 {
		return image.Point{}, false, fmt.Errorf("invalid sprite size %s", sprite)
	}

	if !allowOverflow {
		if !sprite.Fits(canvas) {
			return image.Point{}, false, fmt.Errorf("%w: sprite %s, canvas %s", types.ErrSpriteExceedsCanvas, sprite, canvas)
		}
		return image.Pt(rng.IntN(canvas.W-sprite.W+1), rng.IntN(canvas.H-sprite.H+1)), false, nil
	}

	pos := image.Pt(
		rng.IntN(canvas.W+sprite.W)-sprite.W,
		rng.IntN(canvas.H+sprite.H)-sprite.H,
	)
	return pos, Overflows(canvas, sprite, pos), nil
}

// Overflows reports whether a sprite at pos extends past a canvas edge
func Overflows(canvas, sprite types.Dim, pos image.Point) bool {
	return pos.X < 0 || pos.Y < 0 || pos.X+sprite.W > canvas.W || pos.Y+sprite.H > canvas.H
}

// BBox converts the final sprite rectangle into a canvas-relative box
func BBox(canvas, sprite types.Dim, pos image.Point) types.Box {
	cw, ch := float64(canvas.W), float64(canvas.H)
	return types.Box{
		CX: (float64(pos.X) + float64(sprite.W)/2) / cw,
		CY: (float64(pos.Y) + float64(sprite.H)/2) / ch,
		W:  float64(sprite.W) / cw,
		H:  float64(sprite.H) / ch,
	}
}
