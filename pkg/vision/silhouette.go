// Package vision analyzes sprite transparency.
package vision

import (
	"image"

	"github.com/menta2k/spritegen/pkg/types"
)

// DefaultAlphaThreshold is the alpha a pixel must exceed to count as opaque
const DefaultAlphaThreshold = 128

// SilhouetteDetector finds the opaque region of a sprite
type SilhouetteDetector struct {
	config DetectionConfig
}

// DetectionConfig holds configuration for silhouette detection
type DetectionConfig struct {
	AlphaThreshold uint8
}

// New creates a new SilhouetteDetector with default configuration
func New() *SilhouetteDetector {
	return &SilhouetteDetector{
		config: DetectionConfig{
			AlphaThreshold: DefaultAlphaThreshold,
		},
	}
}

// NewWithConfig creates a new SilhouetteDetector with custom configuration
func NewWithConfig(config DetectionConfig) *SilhouetteDetector {
	return &SilhouetteDetector{config: config}
}

// Point is a pixel coordinate relative to the sprite's top-left corner
type Point struct {
	X int
	Y int
}

// Corners are the four extreme points of a silhouette.
//
// The X of UpperLeft/UpperRight is the leftmost/rightmost opaque column of the
// top opaque row, and the X of LowerLeft/LowerRight the same for the bottom
// row. The Y of UpperLeft/LowerLeft is the topmost/bottommost opaque row of the
// leftmost opaque column, and the Y of UpperRight/LowerRight the same for the
// rightmost column.
type Corners struct {
	UpperLeft  Point
	UpperRight Point
	LowerLeft  Point
	LowerRight Point
}

// AverageX returns the truncated mean X of the four corners
func (c Corners) AverageX() int {
	return (c.UpperLeft.X + c.UpperRight.X + c.LowerLeft.X + c.LowerRight.X) / 4
}

// AverageY returns the truncated mean Y of the four corners
func (c Corners) AverageY() int {
	return (c.UpperLeft.Y + c.UpperRight.Y + c.LowerLeft.Y + c.LowerRight.Y) / 4
}

// Silhouette is the opaque region of a sprite
type Silhouette struct {
	Bounds  image.Rectangle
	Corners Corners
	Opaque  int
}

// Detect scans img and returns its silhouette. A sprite without any pixel
// above the alpha threshold fails with types.ErrDegenerateTransparency.
func (d *SilhouetteDetector) Detect(img *image.NRGBA) (Silhouette, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	threshold := d.config.AlphaThreshold

	opaque := func(x, y int) bool {
		return img.Pix[y*img.Stride+x*4+3] > threshold
	}

	minRow, maxRow, minCol, maxCol := height, -1, width, -1
	count := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !opaque(x, y) {
				continue
			}
			count++
			minRow = min(minRow, y)
			maxRow = max(maxRow, y)
			minCol = min(minCol, x)
			maxCol = max(maxCol, x)
		}
	}
	if count == 0 {
		return Silhouette{}, types.ErrDegenerateTransparency
	}

	topL, topR := rowExtent(opaque, minRow, minCol, maxCol)
	botL, botR := rowExtent(opaque, maxRow, minCol, maxCol)
	leftT, leftB := colExtent(opaque, minCol, minRow, maxRow)
	rightT, rightB := colExtent(opaque, maxCol, minRow, maxRow)

	return Silhouette{
		Bounds: image.Rect(minCol, minRow, maxCol+1, maxRow+1),
		Corners: Corners{
			UpperLeft:  Point{X: topL, Y: leftT},
			UpperRight: Point{X: topR, Y: rightT},
			LowerLeft:  Point{X: botL, Y: leftB},
			LowerRight: Point{X: botR, Y: rightB},
		},
		Opaque: count,
	}, nil
}

// rowExtent returns the first and last opaque column of row y
func rowExtent(opaque func(x, y int) bool, y, from, to int) (int, int) {
	first, last := to, from
	for x := from; x <= to; x++ {
		if opaque(x, y) {
			first = min(first, x)
			last = max(last, x)
		}
	}
	return first, last
}

// colExtent returns the first and last opaque row of column x
func colExtent(opaque func(x, y int) bool, x, from, to int) (int, int) {
	first, last := to, from
	for y := from; y <= to; y++ {
		if opaque(x, y) {
			first = min(first, y)
			last = max(last, y)
		}
	}
	return first, last
}
