// Package transform applies the random geometric variations to a sprite.
package transform

import (
	"image"
	"math/rand/v2"

	"github.com/disintegration/imaging"

	"github.com/menta2k/spritegen/pkg/types"
)

// Rotation is a counter-clockwise rotation in degrees
type Rotation int

// Supported rotations
const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

var rotations = [...]Rotation{Rotate0, Rotate90, Rotate180, Rotate270}

// Ops is one set of transform decisions
type Ops struct {
	Mirror  bool
	Rotate  Rotation
	Upscale bool
}

// Draw makes the three independent decisions: mirror, rotation, upscale
func Draw(rng *rand.Rand) Ops {
	return Ops{
		Mirror:  rng.IntN(2) == 1,
		Rotate:  rotations[rng.IntN(len(rotations))],
		Upscale: rng.IntN(2) == 1,
	}
}

// Apply mirrors, then rotates, then doubles the sprite with nearest-neighbour
// sampling when it is still smaller than half the canvas on both axes. Each
// step returns a new image; src is not modified.
func Apply(src image.Image, ops Ops, canvas types.Dim) *image.NRGBA {
	img := imaging.Clone(src)

	if ops.Mirror {
		img = imaging.FlipH(img)
	}

	switch ops.Rotate {
	case Rotate90:
		img = imaging.Rotate90(img)
	case Rotate180:
		img = imaging.Rotate180(img)
	case Rotate270:
		img = imaging.Rotate270(img)
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if ops.Upscale && w < canvas.W/2 && h < canvas.H/2 {
		img = imaging.Resize(img, w*2, h*2, imaging.NearestNeighbor)
	}

	return img
}

// Transform draws a set of decisions and applies them
func Transform(rng *rand.Rand, src image.Image, canvas types.Dim) *image.NRGBA {
	return Apply(src, Draw(rng), canvas)
}
