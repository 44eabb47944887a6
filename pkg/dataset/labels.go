// Package dataset handles the files around synthesis: asset pools, label
// files and the output directory layout.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/menta2k/spritegen/pkg/types"
)

// LabelExt is the extension of label files
const LabelExt = ".txt"

// FormatLabelLine renders one bounding box as "<label> <cx> <cy> <w> <h>"
func FormatLabelLine(b types.BoundingBox) string {
	return fmt.Sprintf("%d %s %s %s %s", b.Label,
		formatFloat(b.CX), formatFloat(b.CY), formatFloat(b.W), formatFloat(b.H))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteLabels writes one line per box
func WriteLabels(w io.Writer, boxes []types.BoundingBox) error {
	bw := bufio.NewWriter(w)
	for _, b := range boxes {
		if _, err := bw.WriteString(FormatLabelLine(b) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteLabelFile creates path and writes the boxes to it
func WriteLabelFile(path string, boxes []types.BoundingBox) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create label file: %w", err)
	}
	if err := WriteLabels(f, boxes); err != nil {
		f.Close()
		return fmt.Errorf("failed to write label file: %w", err)
	}
	return f.Close()
}

// ReadLabels parses label lines. The first token is read as a float and
// truncated to the class id; missing box fields are left at zero.
func ReadLabels(r io.Reader) ([]types.BoundingBox, error) {
	var boxes []types.BoundingBox
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		vals := make([]float64, 5)
		for i := 0; i < len(fields) && i < len(vals); i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid number %q: %w", line, fields[i], err)
			}
			vals[i] = v
		}
		boxes = append(boxes, types.BoundingBox{
			Label: int(math.Trunc(vals[0])),
			Box:   types.Box{CX: vals[1], CY: vals[2], W: vals[3], H: vals[4]},
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return boxes, nil
}

// ReadLabelFile opens and parses a label file
func ReadLabelFile(path string) ([]types.BoundingBox, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open label file: %w", err)
	}
	defer f.Close()

	boxes, err := ReadLabels(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return boxes, nil
}

// ListLabelFiles returns the label files directly inside dir, sorted
func ListLabelFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+LabelExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// Denormalize converts a box back to a pixel rectangle (x0, y0, x1, y1) on a
// canvas of the given size
func Denormalize(b types.Box, canvas types.Dim) (int, int, int, int) {
	w, h := float64(canvas.W), float64(canvas.H)
	x0 := int(math.Round(b.CX*w - b.W*w/2))
	y0 := int(math.Round(b.CY*h - b.H*h/2))
	x1 := int(math.Round(b.CX*w + b.W*w/2))
	y1 := int(math.Round(b.CY*h + b.H*h/2))
	return x0, y0, x1, y1
}
