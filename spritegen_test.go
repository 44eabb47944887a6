package spritegen

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/menta2k/spritegen/internal/config"
	"github.com/menta2k/spritegen/pkg/dataset"
	"github.com/menta2k/spritegen/pkg/processing"
	"github.com/menta2k/spritegen/pkg/types"
)

// createTestImage creates a filled test image
func createTestImage(width, height int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// writeAssets lays out one background and one sprite per class under root
func writeAssets(t *testing.T, root string, classes ...string) {
	t.Helper()
	p := processing.NewProcessor()
	bgDir := filepath.Join(root, "backgrounds")
	if err := os.MkdirAll(bgDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := p.SaveImage(createTestImage(64, 48, color.NRGBA{0, 0, 128, 255}), filepath.Join(bgDir, "level.png"), "png", 0, false); err != nil {
		t.Fatal(err)
	}
	for _, c := range classes {
		dir := filepath.Join(root, "sprites", c)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := p.SaveImage(createTestImage(6, 6, color.NRGBA{255, 255, 0, 255}), filepath.Join(dir, c+".png"), "png", 0, false); err != nil {
			t.Fatal(err)
		}
	}
}

func testConfig(root string) *Config {
	cfg := DefaultConfig()
	cfg.Directories = config.DirectoriesConfig{
		Backgrounds: filepath.Join(root, "backgrounds"),
		Sprites:     filepath.Join(root, "sprites"),
		Output:      filepath.Join(root, "out"),
	}
	cfg.Parameters.Title = "arcade"
	cfg.Parameters.NumImages = 5
	cfg.Parameters.Workers = 2
	cfg.Classes = []config.ClassConfig{{Name: "coin", Count: 2}, {Name: "ghost", Count: 2}}
	return cfg
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestGetVersion(t *testing.T) {
	if GetVersion() != Version {
		t.Errorf("Expected %s, got %s", Version, GetVersion())
	}
}

func TestRunAndVisualize(t *testing.T) {
	root := t.TempDir()
	writeAssets(t, root, "coin", "ghost")
	cfg := testConfig(root)

	summary, err := Run(context.Background(), cfg, quietLogger())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Images != 5 || summary.Train != 4 || summary.Val != 1 {
		t.Errorf("Unexpected summary: %+v", summary)
	}

	out := cfg.Directories.Output
	if _, err := os.Stat(filepath.Join(out, "images", "train", "arcade-1.png")); err != nil {
		t.Errorf("Expected first train image: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "labels", "val", "arcade-5.txt")); err != nil {
		t.Errorf("Expected val label file: %v", err)
	}

	written, err := Visualize(out, dataset.Train, 3, quietLogger())
	if err != nil {
		t.Fatalf("Visualize failed: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("Expected 3 annotated images, got %d", len(written))
	}
	if filepath.Base(written[0]) != "annotated-arcade-1.png" {
		t.Errorf("Unexpected annotated name %s", written[0])
	}
}

func TestBuildMissingBackgrounds(t *testing.T) {
	root := t.TempDir()
	writeAssets(t, root, "coin")
	cfg := testConfig(root)
	if err := os.Remove(filepath.Join(root, "backgrounds", "level.png")); err != nil {
		t.Fatal(err)
	}

	_, err := Build(cfg, quietLogger())
	if !errors.Is(err, types.ErrEmptyBackgroundPool) {
		t.Errorf("Expected ErrEmptyBackgroundPool, got %v", err)
	}
}

func TestRunFailsForSampledClassWithoutSprites(t *testing.T) {
	root := t.TempDir()
	writeAssets(t, root, "coin")
	cfg := testConfig(root)
	cfg.Parameters.ClassificationScheme = string(types.SchemeDiscrete)
	cfg.Classes = []config.ClassConfig{{Name: "ghost", Count: 2}}

	_, err := Run(context.Background(), cfg, quietLogger())
	if !errors.Is(err, types.ErrEmptyAssetPool) {
		t.Errorf("Expected ErrEmptyAssetPool, got %v", err)
	}
}

func TestLoadConfigValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"parameters": {"title": "x", "classification_scheme": "gaussian"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected a validation error")
	}
}
