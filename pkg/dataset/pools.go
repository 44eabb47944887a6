package dataset

import (
	"fmt"
	"path/filepath"

	"github.com/menta2k/spritegen/internal/utils"
	"github.com/menta2k/spritegen/pkg/types"
)

// Pools caches the background and sprite file paths for a run. It is built
// once and only read afterwards, so it can be shared between workers.
type Pools struct {
	Backgrounds []string
	Sprites     map[string][]string
}

// LoadPools lists backgroundDir and one sprite directory per class under
// spriteRoot. An empty background pool is an error; an empty class pool is
// only an error once that class is sampled.
func LoadPools(backgroundDir, spriteRoot string, classes []string) (*Pools, error) {
	backgrounds, err := utils.ListImageFiles(backgroundDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list backgrounds: %w", err)
	}
	if len(backgrounds) == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrEmptyBackgroundPool, backgroundDir)
	}

	sprites := make(map[string][]string, len(classes))
	for _, c := range classes {
		dir := filepath.Join(spriteRoot, c)
		if !utils.DirExists(dir) {
			sprites[c] = nil
			continue
		}
		files, err := utils.ListImageFiles(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to list sprites for class %s: %w", c, err)
		}
		sprites[c] = files
	}

	return &Pools{Backgrounds: backgrounds, Sprites: sprites}, nil
}

// Size returns the number of sprite files for a class
func (p *Pools) Size(class string) int {
	return len(p.Sprites[class])
}
