package sampler

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/spritegen/pkg/types"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestNewRejectsUnknownScheme(t *testing.T) {
	_, err := New("gaussian", []types.ClassSpec{{Name: "a", Max: 1}}, types.NoCap)
	if !errors.Is(err, types.ErrInvalidScheme) {
		t.Errorf("Expected ErrInvalidScheme, got %v", err)
	}
}

func TestNewRejectsEmptyClassSet(t *testing.T) {
	for _, s := range types.Schemes() {
		_, err := New(s, nil, types.NoCap)
		if !errors.Is(err, types.ErrEmptyClassSet) {
			t.Errorf("%s: expected ErrEmptyClassSet, got %v", s, err)
		}
	}
}

func TestNewValidatesSpecs(t *testing.T) {
	tests := []struct {
		name    string
		scheme  types.Scheme
		classes []types.ClassSpec
		cap     int
	}{
		{"negative max", types.SchemeRandom, []types.ClassSpec{{Name: "a", Max: -1}}, types.NoCap},
		{"cap below -1", types.SchemeRandom, []types.ClassSpec{{Name: "a", Max: 1}}, -2},
		{"empty vector", types.SchemeDistribution, []types.ClassSpec{{Name: "a"}}, types.NoCap},
		{"negative probability", types.SchemeDistribution, []types.ClassSpec{{Name: "a", Probabilities: []float64{0.5, -0.1}}}, types.NoCap},
		{"zero sum", types.SchemeDistribution, []types.ClassSpec{{Name: "a", Probabilities: []float64{0, 0}}}, types.NoCap},
		{"unequal totals", types.SchemeDiscrete, []types.ClassSpec{{Name: "a", Total: 3}, {Name: "b", Total: 4}}, types.NoCap},
		{"histogram mismatch", types.SchemeMimicReal, []types.ClassSpec{{Name: "a", Values: []int{0}, Probabilities: []float64{0.5, 0.5}}}, types.NoCap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.scheme, tt.classes, tt.cap); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestRandomRespectsMaxAndCap(t *testing.T) {
	classes := []types.ClassSpec{{Name: "player", Max: 6}, {Name: "coin", Max: 2}}
	s, err := New(types.SchemeRandom, classes, 3)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rng := newRNG(1)
	seenCap := false
	for range 2000 {
		counts := s.Sample(rng)
		if len(counts) != 2 {
			t.Fatalf("Expected 2 counts, got %d", len(counts))
		}
		if counts[0].Class != "player" || counts[1].Class != "coin" {
			t.Fatalf("Expected class order to be preserved, got %+v", counts)
		}
		if counts[0].Count < 0 || counts[0].Count > 3 {
			t.Errorf("player count %d outside [0,3]", counts[0].Count)
		}
		if counts[1].Count < 0 || counts[1].Count > 2 {
			t.Errorf("coin count %d outside [0,2]", counts[1].Count)
		}
		if counts[0].Count == 3 {
			seenCap = true
		}
	}
	if !seenCap {
		t.Error("Expected the capped value to be drawn at least once")
	}
}

func TestDistributionStaysInsideVectorAndCap(t *testing.T) {
	classes := []types.ClassSpec{
		{Name: "a", Probabilities: []float64{0.1, 0.2, 0.3, 0.4}},
		{Name: "b", Probabilities: []float64{0, 0, 1}},
	}

	for _, limit := range []int{types.NoCap, 1} {
		s, err := New(types.SchemeDistribution, classes, limit)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		rng := newRNG(7)
		for range 5000 {
			for i, c := range s.Sample(rng) {
				if c.Count < 0 || c.Count >= len(classes[i].Probabilities) {
					t.Fatalf("count %d outside vector of length %d", c.Count, len(classes[i].Probabilities))
				}
				if limit != types.NoCap && c.Count > limit {
					t.Fatalf("count %d exceeds cap %d", c.Count, limit)
				}
			}
		}
	}
}

func TestDistributionDegenerateVector(t *testing.T) {
	s, err := New(types.SchemeDistribution, []types.ClassSpec{{Name: "a", Probabilities: []float64{0, 0, 1, 0}}}, types.NoCap)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rng := newRNG(3)
	for range 500 {
		if got := s.Sample(rng)[0].Count; got != 2 {
			t.Fatalf("Expected count 2, got %d", got)
		}
	}
}

func TestDiscreteSumsToTotal(t *testing.T) {
	classes := []types.ClassSpec{{Name: "a", Total: 10}, {Name: "b", Total: 10}, {Name: "c", Total: 10}}
	// the cap is ignored by the discrete scheme
	s, err := New(types.SchemeDiscrete, classes, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rng := newRNG(11)
	for range 1000 {
		counts := s.Sample(rng)
		if len(counts) != 3 {
			t.Fatalf("Expected 3 counts, got %d", len(counts))
		}
		sum := 0
		for _, c := range counts {
			sum += c.Count
		}
		if sum != 10 {
			t.Fatalf("Expected counts to sum to 10, got %d (%+v)", sum, counts)
		}
	}
}

func TestMimicRealDrawsHistogramValues(t *testing.T) {
	classes := []types.ClassSpec{{Name: "a", Values: []int{0, 3, 7}, Probabilities: []float64{0.2, 0.3, 0.5}}}
	s, err := New(types.SchemeMimicReal, classes, 5)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.Scheme() != types.SchemeMimicReal {
		t.Errorf("Expected mimic-real scheme, got %s", s.Scheme())
	}

	rng := newRNG(5)
	seen := map[int]bool{}
	for range 2000 {
		n := s.Sample(rng)[0].Count
		if n != 0 && n != 3 && n != 5 {
			t.Fatalf("Unexpected count %d", n)
		}
		seen[n] = true
	}
	if len(seen) != 3 {
		t.Errorf("Expected all three values to appear, got %v", seen)
	}
}

func TestSamplingIsDeterministic(t *testing.T) {
	classes := []types.ClassSpec{{Name: "a", Max: 9}, {Name: "b", Max: 9}}
	s, _ := New(types.SchemeRandom, classes, types.NoCap)

	r1, r2 := newRNG(42), newRNG(42)
	for range 100 {
		a, b := s.Sample(r1), s.Sample(r2)
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("Expected identical draws, got %+v and %+v", a, b)
			}
		}
	}
}

func TestEstimateFrequencies(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.txt": "0 0.5 0.5 0.1 0.1\n0 0.2 0.2 0.1 0.1\n1 0.3 0.3 0.1 0.1\n",
		"b.txt": "1.0 0.5 0.5 0.1 0.1\n",
		"c.txt": "",
		"d.txt": "0 0.1 0.1 0.1 0.1\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	// not a label file
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("0 0 0 0 0"), 0644); err != nil {
		t.Fatal(err)
	}

	specs, err := EstimateFrequencies(dir, []RealClass{{Name: "player", ID: 0}, {Name: "enemy", ID: 1}, {Name: "boss", ID: 4}})
	if err != nil {
		t.Fatalf("EstimateFrequencies failed: %v", err)
	}

	// player per file: a=2 b=0 c=0 d=1
	assertHistogram(t, specs[0], []int{0, 1, 2}, []float64{0.5, 0.25, 0.25})
	// enemy per file: a=1 b=1 c=0 d=0
	assertHistogram(t, specs[1], []int{0, 1}, []float64{0.5, 0.5})
	// boss never appears
	assertHistogram(t, specs[2], []int{0}, []float64{1})

	if _, err := New(types.SchemeMimicReal, specs, types.NoCap); err != nil {
		t.Errorf("Expected estimated specs to build a sampler, got %v", err)
	}
}

func TestEstimateFrequenciesEmptyDir(t *testing.T) {
	_, err := EstimateFrequencies(t.TempDir(), []RealClass{{Name: "a", ID: 0}})
	if !errors.Is(err, types.ErrEmptyRealSampleSet) {
		t.Errorf("Expected ErrEmptyRealSampleSet, got %v", err)
	}
}

func assertHistogram(t *testing.T, spec types.ClassSpec, values []int, freqs []float64) {
	t.Helper()
	if len(spec.Values) != len(values) || len(spec.Probabilities) != len(freqs) {
		t.Fatalf("%s: expected %v/%v, got %v/%v", spec.Name, values, freqs, spec.Values, spec.Probabilities)
	}
	for i := range values {
		if spec.Values[i] != values[i] {
			t.Errorf("%s: value[%d] = %d, want %d", spec.Name, i, spec.Values[i], values[i])
		}
		if diff := spec.Probabilities[i] - freqs[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s: freq[%d] = %f, want %f", spec.Name, i, spec.Probabilities[i], freqs[i])
		}
	}
}
