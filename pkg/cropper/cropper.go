// Package cropper trims sprites that were placed across a canvas edge.
package cropper

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/menta2k/spritegen/pkg/types"
	"github.com/menta2k/spritegen/pkg/vision"
)

// EdgeClipper crops overflowing sprites to the canvas, using the sprite's
// opaque corners to decide where to cut
type EdgeClipper struct {
	detector *vision.SilhouetteDetector
}

// New creates a new EdgeClipper with the default silhouette detector
func New() *EdgeClipper {
	return &EdgeClipper{detector: vision.New()}
}

// SetDetector allows setting a custom silhouette detector
func (c *EdgeClipper) SetDetector(detector *vision.SilhouetteDetector) {
	c.detector = detector
}

// ClipResult contains the result of a clipping operation
type ClipResult struct {
	Image    *image.NRGBA
	Size     types.Dim
	Position image.Point
	Corners  vision.Corners
}

// Clip crops a sprite placed at pos so that it lies on the canvas.
//
// The x axis is resolved first, then the y axis on the already cropped size.
// For each side the cut is made either exactly at the canvas edge or, when the
// sprite's opaque margin on the far side already reaches that far, at the
// average coordinate of the four silhouette corners. Corners are measured once
// on the unclipped sprite.
func (c *EdgeClipper) Clip(canvas types.Dim, sprite *image.NRGBA, pos image.Point) (ClipResult, error) {
	s, err := c.detector.Detect(sprite)
	if err != nil {
		return ClipResult{}, err
	}
	k := s.Corners

	b := sprite.Bounds()
	w, h := b.Dx(), b.Dy()
	x, y := pos.X, pos.Y
	crop := image.Rect(0, 0, w, h)

	// left edge
	if x < 0 {
		cut := -x
		if max(w-k.UpperRight.X, w-k.LowerRight.X) >= x+w {
			cut = k.AverageX()
		}
		crop.Min.X = cut
		w = crop.Dx()
		x = 0
	} else if x >= canvas.W-w {
		// right edge
		keep := canvas.W - x
		if max(k.UpperLeft.X, k.LowerLeft.X) >= canvas.W-x {
			keep = k.AverageX()
		}
		crop.Max.X = keep
		w = crop.Dx()
		x = canvas.W - w
	}

	// top edge
	if y < 0 {
		cut := -y
		if max(h-k.LowerLeft.Y, h-k.LowerRight.Y) >= y+h {
			cut = k.AverageY()
		}
		crop.Min.Y = cut
		h = crop.Dy()
		y = 0
	} else if y >= canvas.H-h {
		// bottom edge
		keep := canvas.H - y
		if max(k.UpperLeft.Y, k.UpperRight.Y) >= canvas.H-y {
			keep = k.AverageY()
		}
		crop.Max.Y = keep
		h = crop.Dy()
		y = canvas.H - h
	}

	if w <= 0 || h <= 0 {
		return ClipResult{}, fmt.Errorf("%w: crop %v of %s sprite", types.ErrSpriteClippedAway, crop, types.Dim{W: b.Dx(), H: b.Dy()})
	}

	size := types.Dim{W: w, H: h}
	final := image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+w, y+h)}
	if !final.In(image.Rect(0, 0, canvas.W, canvas.H)) {
		return ClipResult{}, fmt.Errorf("%w: clipped sprite %s at %v, canvas %s", types.ErrSpriteExceedsCanvas, size, final.Min, canvas)
	}

	return ClipResult{
		Image:    imaging.Crop(sprite, crop.Add(b.Min)),
		Size:     size,
		Position: final.Min,
		Corners:  k,
	}, nil
}
