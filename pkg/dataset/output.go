package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/menta2k/spritegen/internal/utils"
)

// Split names a dataset partition
type Split string

// Dataset partitions
const (
	Train Split = "train"
	Val   Split = "val"
)

// Layout is the directory structure of a generated dataset:
//
//	<root>/images/{train,val}
//	<root>/labels/{train,val}
type Layout struct {
	Root string
}

// ImageDir returns the image directory of a split
func (l Layout) ImageDir(s Split) string {
	return filepath.Join(l.Root, "images", string(s))
}

// LabelDir returns the label directory of a split
func (l Layout) LabelDir(s Split) string {
	return filepath.Join(l.Root, "labels", string(s))
}

// ExamplesDir returns the directory for annotated previews
func (l Layout) ExamplesDir() string {
	return filepath.Join(l.Root, "examples")
}

// SummaryPath returns the path of the dataset summary file
func (l Layout) SummaryPath() string {
	return filepath.Join(l.Root, "dataset.json")
}

// PrepareOutput creates the dataset directories. With clean set, an existing
// root is removed first.
func PrepareOutput(root string, clean bool) (Layout, error) {
	layout := Layout{Root: root}
	if clean && utils.DirExists(root) {
		if err := os.RemoveAll(root); err != nil {
			return layout, fmt.Errorf("failed to clean output directory: %w", err)
		}
	}
	for _, s := range []Split{Train, Val} {
		for _, dir := range []string{layout.ImageDir(s), layout.LabelDir(s)} {
			if err := utils.EnsureDir(dir); err != nil {
				return layout, fmt.Errorf("failed to create %s: %w", dir, err)
			}
		}
	}
	return layout, nil
}

// Summary records what a generation run produced
type Summary struct {
	RunID     string         `json:"run_id"`
	Title     string         `json:"title"`
	Scheme    string         `json:"scheme"`
	Seed      uint64         `json:"seed"`
	Images    int            `json:"images"`
	Train     int            `json:"train"`
	Val       int            `json:"val"`
	Boxes     int            `json:"boxes"`
	Skipped   int            `json:"skipped_sprites"`
	Classes   []string       `json:"classes"`
	Labels    map[string]int `json:"labels"`
	CreatedAt time.Time      `json:"created_at"`
}

// WriteSummary saves the summary as indented JSON
func WriteSummary(path string, s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
