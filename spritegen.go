// Package spritegen generates synthetic object-detection datasets.
//
// Sprites are sampled per class, optionally mirrored, rotated and upscaled,
// placed on a background (optionally overhanging its edges, in which case
// they are clipped along their silhouette) and alpha-composited. Every
// labeled sprite yields one normalized bounding box line
// "<label> <cx> <cy> <w> <h>" in a label file next to the image.
//
// Basic usage:
//
//	cfg, err := spritegen.LoadConfig("dataset.toml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	summary, err := spritegen.Run(context.Background(), cfg, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("wrote %d images with %d boxes\n", summary.Images, summary.Boxes)
//
// The pipeline consists of these packages:
//
//  1. Sampler (pkg/sampler): how many sprites of each class an image gets
//  2. Selector (pkg/selector): which sprite files are drawn
//  3. Transform (pkg/transform): mirror, rotation and upscaling
//  4. Placement (pkg/placement): positions and bounding boxes
//  5. Cropper (pkg/cropper) and Vision (pkg/vision): silhouette-aware edge clipping
//  6. Compositor (pkg/compositor): alpha blending onto the canvas
//  7. Synth (pkg/synth): per-image synthesis and batch generation
package spritegen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/menta2k/spritegen/internal/config"
	"github.com/menta2k/spritegen/internal/utils"
	"github.com/menta2k/spritegen/pkg/dataset"
	"github.com/menta2k/spritegen/pkg/processing"
	"github.com/menta2k/spritegen/pkg/sampler"
	"github.com/menta2k/spritegen/pkg/synth"
)

// Version of the generator
const Version = "1.0.0"

// Config is the generator configuration
type Config = config.Config

// DefaultConfig returns a configuration with default values and no classes
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig reads and validates a JSON or TOML configuration file
func LoadConfig(path string) (*Config, error) {
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// NewSynthesizer builds the single-image synthesizer described by cfg. It
// reads the asset directories and, for mimic-real, the real sample labels.
func NewSynthesizer(cfg *Config, logger *log.Logger) (*synth.Synthesizer, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	scheme, err := cfg.Scheme()
	if err != nil {
		return nil, err
	}
	specs, err := cfg.ClassSpecs()
	if err != nil {
		return nil, fmt.Errorf("failed to build class specs: %w", err)
	}
	s, err := sampler.New(scheme, specs, cfg.Parameters.MaxSpritesPerClass)
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}

	pools, err := dataset.LoadPools(cfg.Directories.Backgrounds, cfg.Directories.Sprites, cfg.ClassNames())
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded asset pools", "backgrounds", len(pools.Backgrounds))
	for _, name := range cfg.ClassNames() {
		if pools.Size(name) == 0 {
			logger.Warn("class has no sprites", "class", name, "dir", filepath.Join(cfg.Directories.Sprites, name))
			continue
		}
		logger.Debug("class sprites", "class", name, "count", pools.Size(name))
	}

	return synth.New(synth.SynthesisConfig{
		Pools:     pools,
		Sampler:   s,
		Labels:    cfg.LabelMap(),
		Transform: cfg.Parameters.TransformSprites,
		Overflow:  cfg.Parameters.ClipSprites,
	}, processing.NewProcessor(), logger)
}

// Build prepares the output directories and returns a generator for cfg
func Build(cfg *Config, logger *log.Logger) (*synth.Generator, error) {
	if logger == nil {
		logger = log.Default()
	}
	s, err := NewSynthesizer(cfg, logger)
	if err != nil {
		return nil, err
	}

	layout, err := dataset.PrepareOutput(cfg.Directories.Output, cfg.Output.Clean)
	if err != nil {
		return nil, err
	}

	return synth.NewGenerator(s, processing.NewProcessor(), layout, synth.GeneratorConfig{
		Title:     cfg.Parameters.Title,
		NumImages: cfg.Parameters.NumImages,
		TrainSize: cfg.Parameters.TrainSize,
		Seed:      cfg.Parameters.Seed,
		Workers:   cfg.Parameters.Workers,
		Format:    cfg.Output.Format,
		Extension: processing.FormatExtension(cfg.Output.Format),
		Quality:   cfg.Output.Quality,
		Lossless:  cfg.Output.Lossless,
		Classes:   cfg.ClassNames(),
	}, logger), nil
}

// Run generates the dataset described by cfg
func Run(ctx context.Context, cfg *Config, logger *log.Logger) (dataset.Summary, error) {
	g, err := Build(cfg, logger)
	if err != nil {
		return dataset.Summary{}, err
	}
	return g.Run(ctx)
}

// Visualize draws the boxes of up to n images of a split of the dataset at
// root into root/examples/annotated-<name>.png. The examples directory is
// recreated on every call. It returns the written files.
func Visualize(root string, split dataset.Split, n int, logger *log.Logger) ([]string, error) {
	if logger == nil {
		logger = log.Default()
	}
	layout := dataset.Layout{Root: root}

	images, err := utils.ListImageFiles(layout.ImageDir(split))
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	if n >= 0 && n < len(images) {
		images = images[:n]
	}

	examples := layout.ExamplesDir()
	if err := os.RemoveAll(examples); err != nil {
		return nil, fmt.Errorf("failed to clean examples directory: %w", err)
	}
	if err := utils.EnsureDir(examples); err != nil {
		return nil, fmt.Errorf("failed to create examples directory: %w", err)
	}

	p := processing.NewProcessor()
	written := make([]string, 0, len(images))
	for _, img := range images {
		name := utils.BaseName(img)
		label := filepath.Join(layout.LabelDir(split), name+dataset.LabelExt)
		out := filepath.Join(examples, "annotated-"+name+".png")

		boxes, err := p.Annotate(img, label, out)
		if err != nil {
			return written, fmt.Errorf("failed to annotate %s: %w", img, err)
		}
		logger.Debug("annotated image", "image", img, "boxes", boxes)
		written = append(written, out)
	}
	return written, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
