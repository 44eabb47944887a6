// Package selector turns sampled class counts into concrete sprite files.
package selector

import (
	"fmt"
	"math/rand/v2"

	"github.com/menta2k/spritegen/pkg/types"
)

// Select draws count sprite paths per class, uniformly and with replacement
// from that class's pool. The manifest keeps class order and draw order, which
// is also the order sprites are painted in; repeated paths are separate
// instances.
func Select(rng *rand.Rand, counts []types.ClassCount, pools map[string][]string, labels types.LabelMap) ([]types.ManifestEntry, error) {
	total := 0
	for _, c := range counts {
		total += c.Count
	}

	manifest := make([]types.ManifestEntry, 0, total)
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		pool := pools[c.Class]
		if len(pool) == 0 {
			return nil, fmt.Errorf("%w: class %s", types.ErrEmptyAssetPool, c.Class)
		}
		label := labels.Label(c.Class)
		for range c.Count {
			manifest = append(manifest, types.ManifestEntry{
				Path:  pool[rng.IntN(len(pool))],
				Class: c.Class,
				Label: label,
			})
		}
	}
	return manifest, nil
}
