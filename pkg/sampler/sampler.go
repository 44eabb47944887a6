// Package sampler decides how many sprite instances of each class go into an
// image. Each classification scheme is a separate Sampler implementation.
package sampler

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/menta2k/spritegen/pkg/types"
)

// Sampler draws per-class instance counts for one image
type Sampler interface {
	Scheme() types.Scheme
	Sample(rng *rand.Rand) []types.ClassCount
}

// New builds the sampler for a scheme. The class specs are validated here so
// that Sample never fails.
func New(scheme types.Scheme, classes []types.ClassSpec, spriteCap int) (Sampler, error) {
	if len(classes) == 0 {
		return nil, types.ErrEmptyClassSet
	}
	if spriteCap < types.NoCap {
		return nil, fmt.Errorf("sprite cap must be -1 or non-negative, got %d", spriteCap)
	}

	specs := make([]types.ClassSpec, len(classes))
	copy(specs, classes)

	switch scheme {
	case types.SchemeRandom:
		for _, c := range specs {
			if c.Max < 0 {
				return nil, fmt.Errorf("class %s: max count must be non-negative, got %d", c.Name, c.Max)
			}
		}
		return &Random{classes: specs, cap: spriteCap}, nil
	case types.SchemeDistribution:
		cum, err := cumulate(specs)
		if err != nil {
			return nil, err
		}
		return &Distribution{classes: specs, cumulative: cum, cap: spriteCap}, nil
	case types.SchemeDiscrete:
		total := specs[0].Total
		for _, c := range specs {
			if c.Total != total {
				return nil, fmt.Errorf("class %s: discrete totals must match (%d != %d)", c.Name, c.Total, total)
			}
		}
		if total < 0 {
			return nil, fmt.Errorf("discrete total must be non-negative, got %d", total)
		}
		return &Discrete{classes: specs, total: total}, nil
	case types.SchemeMimicReal:
		for _, c := range specs {
			if len(c.Values) != len(c.Probabilities) {
				return nil, fmt.Errorf("class %s: histogram has %d values and %d frequencies",
					c.Name, len(c.Values), len(c.Probabilities))
			}
		}
		cum, err := cumulate(specs)
		if err != nil {
			return nil, err
		}
		return &MimicReal{Distribution{classes: specs, cumulative: cum, cap: spriteCap}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidScheme, scheme)
	}
}

// Random draws each class count uniformly from [0, max]
type Random struct {
	classes []types.ClassSpec
	cap     int
}

// Scheme returns types.SchemeRandom
func (s *Random) Scheme() types.Scheme { return types.SchemeRandom }

// Sample draws one count per class
func (s *Random) Sample(rng *rand.Rand) []types.ClassCount {
	counts := make([]types.ClassCount, len(s.classes))
	for i, c := range s.classes {
		counts[i] = types.ClassCount{Class: c.Name, Count: clampCap(rng.IntN(c.Max+1), s.cap)}
	}
	return counts
}

// Distribution draws each class count from an explicit probability vector
// over the counts 0..k-1
type Distribution struct {
	classes    []types.ClassSpec
	cumulative [][]float64
	cap        int
}

// Scheme returns types.SchemeDistribution
func (s *Distribution) Scheme() types.Scheme { return types.SchemeDistribution }

// Sample draws one count per class
func (s *Distribution) Sample(rng *rand.Rand) []types.ClassCount {
	counts := make([]types.ClassCount, len(s.classes))
	for i, c := range s.classes {
		counts[i] = types.ClassCount{Class: c.Name, Count: clampCap(pick(rng, s.cumulative[i]), s.cap)}
	}
	return counts
}

// Discrete makes a fixed number of draws, each choosing one class uniformly
// with replacement. The cap does not apply.
type Discrete struct {
	classes []types.ClassSpec
	total   int
}

// Scheme returns types.SchemeDiscrete
func (s *Discrete) Scheme() types.Scheme { return types.SchemeDiscrete }

// Sample tallies total class draws
func (s *Discrete) Sample(rng *rand.Rand) []types.ClassCount {
	counts := make([]types.ClassCount, len(s.classes))
	for i, c := range s.classes {
		counts[i].Class = c.Name
	}
	for range s.total {
		counts[rng.IntN(len(counts))].Count++
	}
	return counts
}

// MimicReal draws like Distribution, but over histograms estimated from a
// real dataset; the drawn index selects one of the observed count values.
type MimicReal struct {
	Distribution
}

// Scheme returns types.SchemeMimicReal
func (s *MimicReal) Scheme() types.Scheme { return types.SchemeMimicReal }

// Sample draws one count per class
func (s *MimicReal) Sample(rng *rand.Rand) []types.ClassCount {
	counts := make([]types.ClassCount, len(s.classes))
	for i, c := range s.classes {
		idx := pick(rng, s.cumulative[i])
		counts[i] = types.ClassCount{Class: c.Name, Count: clampCap(c.Values[idx], s.cap)}
	}
	return counts
}

// cumulate validates and normalizes every class's probability vector into
// cumulative form
func cumulate(classes []types.ClassSpec) ([][]float64, error) {
	out := make([][]float64, len(classes))
	for i, c := range classes {
		if len(c.Probabilities) == 0 {
			return nil, fmt.Errorf("class %s: empty probability vector", c.Name)
		}
		var sum float64
		for _, p := range c.Probabilities {
			if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
				return nil, fmt.Errorf("class %s: invalid probability %v", c.Name, p)
			}
			sum += p
		}
		if sum <= 0 {
			return nil, fmt.Errorf("class %s: probabilities sum to zero", c.Name)
		}
		cum := make([]float64, len(c.Probabilities))
		var acc float64
		for j, p := range c.Probabilities {
			acc += p / sum
			cum[j] = acc
		}
		out[i] = cum
	}
	return out, nil
}

// pick returns an index drawn from a cumulative distribution; the result is
// always below len(cum)
func pick(rng *rand.Rand, cum []float64) int {
	u := rng.Float64()
	for i, c := range cum {
		if u < c {
			return i
		}
	}
	// rounding left the last bucket short of 1
	last := len(cum) - 1
	for last > 0 && cum[last] == cum[last-1] {
		last--
	}
	return last
}

func clampCap(n, limit int) int {
	if limit != types.NoCap && n > limit {
		return limit
	}
	return n
}
