package synth

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/menta2k/spritegen/internal/utils"
	"github.com/menta2k/spritegen/pkg/dataset"
)

// ImageSaver writes rasters to disk
type ImageSaver interface {
	SaveImage(img image.Image, path, format string, quality int, lossless bool) error
}

// GeneratorConfig controls a batch run
type GeneratorConfig struct {
	Title     string
	NumImages int
	TrainSize float64
	Seed      uint64
	Workers   int
	Format    string
	Extension string
	Quality   int
	Lossless  bool
	Classes   []string
}

// Generator writes a dataset of synthesized images and label files
type Generator struct {
	synth  *Synthesizer
	saver  ImageSaver
	layout dataset.Layout
	cfg    GeneratorConfig
	logger *log.Logger
}

// NewGenerator creates a Generator writing into layout
func NewGenerator(s *Synthesizer, saver ImageSaver, layout dataset.Layout, cfg GeneratorConfig, logger *log.Logger) *Generator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Format == "" {
		cfg.Format = "png"
	}
	if cfg.Extension == "" {
		cfg.Extension = cfg.Format
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{synth: s, saver: saver, layout: layout, cfg: cfg, logger: logger}
}

// ImageRNG returns the random source for image index of a run. Every image
// has its own stream, so results do not depend on scheduling.
func ImageRNG(seed uint64, index int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(index)))
}

// NumTrain returns how many of the first images go to the train split
func (g *Generator) NumTrain() int {
	return int(g.cfg.TrainSize * float64(g.cfg.NumImages))
}

// Split returns the partition of image index (1-based)
func (g *Generator) Split(index int) dataset.Split {
	if index <= g.NumTrain() {
		return dataset.Train
	}
	return dataset.Val
}

// Paths returns the image and label file of image index
func (g *Generator) Paths(index int) (string, string) {
	split := g.Split(index)
	img := utils.OutputFilename(g.layout.ImageDir(split), g.cfg.Title, index, g.cfg.Extension)
	lbl := utils.OutputFilename(g.layout.LabelDir(split), g.cfg.Title, index, dataset.LabelExt[1:])
	return img, lbl
}

// Run generates images 1..NumImages. Any image failure stops the run.
func (g *Generator) Run(ctx context.Context) (dataset.Summary, error) {
	runID := uuid.NewString()
	logger := g.logger.With("run", runID)
	start := time.Now()

	logger.Info("writing images", "count", g.cfg.NumImages, "train", g.NumTrain(), "workers", g.cfg.Workers)

	var boxes, skipped, done atomic.Int64
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)

	for i := 1; i <= g.cfg.NumImages; i++ {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			n, s, err := g.generateOne(i)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			boxes.Add(int64(n))
			skipped.Add(int64(s))
			if d := done.Add(1); d%100 == 0 {
				logger.Info("progress", "done", d, "of", g.cfg.NumImages)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return dataset.Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return dataset.Summary{}, err
	}

	summary := dataset.Summary{
		RunID:     runID,
		Title:     g.cfg.Title,
		Scheme:    string(g.synth.cfg.Sampler.Scheme()),
		Seed:      g.cfg.Seed,
		Images:    g.cfg.NumImages,
		Train:     min(g.NumTrain(), g.cfg.NumImages),
		Val:       g.cfg.NumImages - min(g.NumTrain(), g.cfg.NumImages),
		Boxes:     int(boxes.Load()),
		Skipped:   int(skipped.Load()),
		Classes:   g.cfg.Classes,
		Labels:    g.synth.cfg.Labels,
		CreatedAt: time.Now().UTC(),
	}
	if err := dataset.WriteSummary(g.layout.SummaryPath(), summary); err != nil {
		return summary, err
	}

	logger.Info("finished writing images", "count", g.cfg.NumImages, "boxes", summary.Boxes,
		"skipped", summary.Skipped, "elapsed", time.Since(start).Round(time.Millisecond))
	return summary, nil
}

func (g *Generator) generateOne(index int) (int, int, error) {
	res, err := g.synth.Synthesize(ImageRNG(g.cfg.Seed, index), index)
	if err != nil {
		return 0, 0, err
	}

	imgPath, lblPath := g.Paths(index)
	if err := g.saver.SaveImage(res.Canvas, imgPath, g.cfg.Format, g.cfg.Quality, g.cfg.Lossless); err != nil {
		return 0, 0, fmt.Errorf("failed to save image: %w", err)
	}
	if err := dataset.WriteLabelFile(lblPath, res.Boxes); err != nil {
		return 0, 0, err
	}
	return len(res.Boxes), res.Skipped, nil
}
