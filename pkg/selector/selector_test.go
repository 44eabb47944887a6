package selector

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/menta2k/spritegen/pkg/types"
)

func TestSelectDrawsFromClassPools(t *testing.T) {
	pools := map[string][]string{
		"player": {"player/a.png", "player/b.png"},
		"coin":   {"coin/c.png"},
	}
	labels := types.NewLabelMap([]string{"player", "coin"}, []string{"player"})
	counts := []types.ClassCount{{Class: "player", Count: 3}, {Class: "coin", Count: 2}}

	manifest, err := Select(rand.New(rand.NewPCG(1, 2)), counts, pools, labels)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(manifest) != 5 {
		t.Fatalf("Expected 5 entries, got %d", len(manifest))
	}

	for i, e := range manifest {
		wantClass := "player"
		if i >= 3 {
			wantClass = "coin"
		}
		if e.Class != wantClass {
			t.Errorf("entry %d: expected class %s, got %s", i, wantClass, e.Class)
		}
		found := false
		for _, p := range pools[e.Class] {
			if p == e.Path {
				found = true
			}
		}
		if !found {
			t.Errorf("entry %d: path %s not in %s pool", i, e.Path, e.Class)
		}
	}

	if manifest[0].Label != 0 {
		t.Errorf("Expected player label 0, got %d", manifest[0].Label)
	}
	if manifest[4].Label != types.Unlabeled {
		t.Errorf("Expected coin to be unlabeled, got %d", manifest[4].Label)
	}
}

func TestSelectKeepsDuplicates(t *testing.T) {
	pools := map[string][]string{"coin": {"coin/only.png"}}
	counts := []types.ClassCount{{Class: "coin", Count: 4}}

	manifest, err := Select(rand.New(rand.NewPCG(3, 4)), counts, pools, types.NewLabelMap([]string{"coin"}, nil))
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(manifest) != 4 {
		t.Errorf("Expected 4 instances of the same sprite, got %d", len(manifest))
	}
}

func TestSelectEmptyPool(t *testing.T) {
	pools := map[string][]string{"enemy": nil}

	_, err := Select(rand.New(rand.NewPCG(1, 1)), []types.ClassCount{{Class: "enemy", Count: 1}}, pools, nil)
	if !errors.Is(err, types.ErrEmptyAssetPool) {
		t.Errorf("Expected ErrEmptyAssetPool, got %v", err)
	}

	// zero count never touches the pool
	manifest, err := Select(rand.New(rand.NewPCG(1, 1)), []types.ClassCount{{Class: "enemy", Count: 0}}, pools, nil)
	if err != nil {
		t.Errorf("Expected no error for zero count, got %v", err)
	}
	if len(manifest) != 0 {
		t.Errorf("Expected empty manifest, got %d entries", len(manifest))
	}
}
