package processing

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/spritegen/pkg/dataset"
	"github.com/menta2k/spritegen/pkg/types"
)

// Processor handles image file operations
type Processor struct{}

// NewProcessor creates a new image processor
func NewProcessor() *Processor {
	return &Processor{}
}

// LoadImage loads an image from a file path with WebP support
func (p *Processor) LoadImage(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := p.decodeImageFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// LoadNRGBA loads an image and converts it to non-premultiplied RGBA, so
// that images without an alpha channel become fully opaque sprites
func (p *Processor) LoadNRGBA(path string) (*image.NRGBA, error) {
	img, err := p.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return imaging.Clone(img), nil
}

// decodeImageFromBytes decodes an image from byte data with WebP support
func (p *Processor) decodeImageFromBytes(data []byte) (image.Image, error) {
	// Try standard image.Decode first
	reader := bytes.NewReader(data)
	if img, _, err := image.Decode(reader); err == nil {
		return img, nil
	}

	// Try WebP decode
	reader = bytes.NewReader(data)
	if img, err := webp.Decode(reader); err == nil {
		return img, nil
	}

	return nil, fmt.Errorf("image: unknown or unsupported format")
}

// SaveImage saves an image to a file with the specified format and quality
func (p *Processor) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		if err := webp.Encode(f, img, opts); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case "png":
		return imaging.Save(img, path)
	case "jpg", "jpeg":
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatExtension returns the file extension used for an output format
func FormatExtension(format string) string {
	switch strings.ToLower(format) {
	case "jpeg":
		return "jpg"
	case "":
		return "png"
	default:
		return strings.ToLower(format)
	}
}

// palette holds the rectangle colors, indexed by label
var palette = []color.NRGBA{
	{0, 255, 0, 255},
	{255, 204, 0, 255},
	{255, 0, 0, 255},
	{0, 170, 255, 255},
	{255, 0, 255, 255},
	{0, 255, 255, 255},
	{255, 128, 0, 255},
	{128, 0, 255, 255},
}

// LabelColor returns the overlay color for a label
func LabelColor(label int) color.NRGBA {
	if label < 0 {
		label = -label
	}
	return palette[label%len(palette)]
}

// DrawBoxes returns a copy of img with one outlined rectangle per box
func (p *Processor) DrawBoxes(img image.Image, boxes []types.BoundingBox) *image.NRGBA {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()
	stroke := int(math.Max(1, 0.004*float64(min(w, h))))

	for _, b := range boxes {
		drawBox(nrgba, b.Box, w, h, LabelColor(b.Label), stroke)
	}
	return nrgba
}

func boxToPixels(box types.Box, w, h int) (int, int, int, int) {
	x0, y0, x1, y1 := dataset.Denormalize(box, types.Dim{W: w, H: h})
	x0, x1 = clampInt(x0, 0, w), clampInt(x1, 0, w)
	y0, y1 = clampInt(y0, 0, h), clampInt(y1, 0, h)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return x0, y0, x1, y1
}

func drawBox(img *image.NRGBA, box types.Box, w, h int, color color.NRGBA, stroke int) {
	x0, y0, x1, y1 := boxToPixels(box, w, h)
	for s := 0; s < stroke; s++ {
		drawHLine(img, y0+s, x0, x1, color)
		drawHLine(img, y1-1-s, x0, x1, color)
		drawVLine(img, x0+s, y0, y1, color)
		drawVLine(img, x1-1-s, y0, y1, color)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	x0, x1 = clampInt(x0, 0, img.Bounds().Dx()), clampInt(x1, 0, img.Bounds().Dx())
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	y0, y1 = clampInt(y0, 0, img.Bounds().Dy()), clampInt(y1, 0, img.Bounds().Dy())
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Annotate draws the boxes of labelPath onto the image at imagePath and saves
// the overlay to outPath as PNG. It returns the number of boxes drawn.
func (p *Processor) Annotate(imagePath, labelPath, outPath string) (int, error) {
	img, err := p.LoadImage(imagePath)
	if err != nil {
		return 0, fmt.Errorf("failed to load image: %w", err)
	}
	boxes, err := dataset.ReadLabelFile(labelPath)
	if err != nil {
		return 0, err
	}
	if err := p.SaveImage(p.DrawBoxes(img, boxes), outPath, "png", 0, false); err != nil {
		return 0, fmt.Errorf("failed to save overlay: %w", err)
	}
	return len(boxes), nil
}
