// Package synth builds labeled images: it runs the sampling, selection,
// transform, placement, clipping, compositing and labeling steps for one image
// and drives batches of images into a dataset on disk.
package synth

import (
	"errors"
	"fmt"
	"image"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/menta2k/spritegen/pkg/compositor"
	"github.com/menta2k/spritegen/pkg/cropper"
	"github.com/menta2k/spritegen/pkg/dataset"
	"github.com/menta2k/spritegen/pkg/placement"
	"github.com/menta2k/spritegen/pkg/sampler"
	"github.com/menta2k/spritegen/pkg/selector"
	"github.com/menta2k/spritegen/pkg/transform"
	"github.com/menta2k/spritegen/pkg/types"
)

// ImageSource loads rasters by path
type ImageSource interface {
	LoadNRGBA(path string) (*image.NRGBA, error)
}

// SynthesisConfig is everything a Synthesizer needs. It is checked once by
// New and not changed afterwards.
type SynthesisConfig struct {
	Pools     *dataset.Pools
	Sampler   sampler.Sampler
	Labels    types.LabelMap
	Transform bool
	Overflow  bool
}

// Validate checks that the configuration can produce images
func (c SynthesisConfig) Validate() error {
	if c.Pools == nil || len(c.Pools.Backgrounds) == 0 {
		return types.ErrEmptyBackgroundPool
	}
	if c.Sampler == nil {
		return errors.New("no class sampler configured")
	}
	return nil
}

// Synthesizer composes single images. It only reads its configuration, so
// one Synthesizer may serve several goroutines as long as each uses its own
// random source.
type Synthesizer struct {
	cfg     SynthesisConfig
	source  ImageSource
	clipper *cropper.EdgeClipper
	logger  *log.Logger
}

// New creates a Synthesizer
func New(cfg SynthesisConfig, source ImageSource, logger *log.Logger) (*Synthesizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid synthesis config: %w", err)
	}
	if source == nil {
		return nil, errors.New("no image source configured")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Synthesizer{
		cfg:     cfg,
		source:  source,
		clipper: cropper.New(),
		logger:  logger,
	}, nil
}

// Result is one synthesized image
type Result struct {
	Canvas     *image.RGBA
	Background string
	Boxes      []types.BoundingBox
	Placements []types.PlacementRecord
	Skipped    int
}

// Synthesize builds one image. index only identifies the image in logs.
//
// Sprites are painted in manifest order, so later sprites cover earlier ones.
// A sprite that cannot be loaded, placed or clipped is logged and skipped;
// failures before the first sprite abort the image.
func (s *Synthesizer) Synthesize(rng *rand.Rand, index int) (*Result, error) {
	backgrounds := s.cfg.Pools.Backgrounds
	bgPath := backgrounds[rng.IntN(len(backgrounds))]
	bg, err := s.source.LoadNRGBA(bgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load background %s: %w", bgPath, err)
	}
	canvas := compositor.NewCanvas(bg)
	canvasDim := types.Dim{W: canvas.Bounds().Dx(), H: canvas.Bounds().Dy()}

	counts := s.cfg.Sampler.Sample(rng)
	manifest, err := selector.Select(rng, counts, s.cfg.Pools.Sprites, s.cfg.Labels)
	if err != nil {
		return nil, fmt.Errorf("failed to select sprites: %w", err)
	}

	res := &Result{Canvas: canvas, Background: bgPath}
	for _, entry := range manifest {
		rec, err := s.drawSprite(rng, canvas, canvasDim, entry)
		if err != nil {
			res.Skipped++
			s.logger.Warn("skipping sprite", "image", index, "sprite", entry.Path, "err", err)
			continue
		}
		res.Placements = append(res.Placements, rec)
		if entry.Label == types.Unlabeled {
			continue
		}
		res.Boxes = append(res.Boxes, types.BoundingBox{
			Label: entry.Label,
			Box:   placement.BBox(canvasDim, types.Dim{W: rec.W, H: rec.H}, image.Pt(rec.X, rec.Y)),
		})
	}

	s.logger.Debug("synthesized image", "image", index, "background", bgPath,
		"sprites", len(res.Placements), "boxes", len(res.Boxes), "skipped", res.Skipped)
	return res, nil
}

func (s *Synthesizer) drawSprite(rng *rand.Rand, canvas *image.RGBA, canvasDim types.Dim, entry types.ManifestEntry) (types.PlacementRecord, error) {
	sprite, err := s.source.LoadNRGBA(entry.Path)
	if err != nil {
		return types.PlacementRecord{}, fmt.Errorf("failed to load sprite: %w", err)
	}
	if s.cfg.Transform {
		sprite = transform.Transform(rng, sprite, canvasDim)
	}
	size := types.Dim{W: sprite.Bounds().Dx(), H: sprite.Bounds().Dy()}

	pos, overflowed, err := placement.Place(rng, canvasDim, size, s.cfg.Overflow)
	if err != nil {
		return types.PlacementRecord{}, err
	}
	if overflowed {
		clipped, err := s.clipper.Clip(canvasDim, sprite, pos)
		if err != nil {
			return types.PlacementRecord{}, err
		}
		sprite, size, pos = clipped.Image, clipped.Size, clipped.Position
	}

	compositor.Composite(canvas, sprite, pos)

	return types.PlacementRecord{
		Sprite:     entry.Path,
		X:          pos.X,
		Y:          pos.Y,
		W:          size.W,
		H:          size.H,
		Overflowed: overflowed,
	}, nil
}
