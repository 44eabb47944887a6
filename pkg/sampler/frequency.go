package sampler

import (
	"fmt"
	"sort"

	"github.com/menta2k/spritegen/pkg/dataset"
	"github.com/menta2k/spritegen/pkg/types"
)

// RealClass ties a class name to its id in an existing labeled dataset
type RealClass struct {
	Name string
	ID   int
}

// EstimateFrequencies builds mimic-real class specs from the label files in
// labelDir. For every class it counts the occurrences of the class id in each
// file and turns the per-file counts into a histogram of observed values
// (ascending) with normalized frequencies.
func EstimateFrequencies(labelDir string, classes []RealClass) ([]types.ClassSpec, error) {
	files, err := dataset.ListLabelFiles(labelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list real sample labels: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrEmptyRealSampleSet, labelDir)
	}

	perFile := make([][]int, len(classes))
	index := make(map[int][]int)
	for i, c := range classes {
		perFile[i] = make([]int, len(files))
		index[c.ID] = append(index[c.ID], i)
	}

	for f, path := range files {
		boxes, err := dataset.ReadLabelFile(path)
		if err != nil {
			return nil, err
		}
		for _, b := range boxes {
			for _, i := range index[b.Label] {
				perFile[i][f]++
			}
		}
	}

	specs := make([]types.ClassSpec, len(classes))
	for i, c := range classes {
		values, freqs := histogram(perFile[i])
		specs[i] = types.ClassSpec{Name: c.Name, Values: values, Probabilities: freqs}
	}
	return specs, nil
}

// histogram returns the unique values of counts in ascending order with their
// relative frequencies
func histogram(counts []int) ([]int, []float64) {
	tally := make(map[int]int)
	for _, n := range counts {
		tally[n]++
	}
	values := make([]int, 0, len(tally))
	for v := range tally {
		values = append(values, v)
	}
	sort.Ints(values)

	freqs := make([]float64, len(values))
	for i, v := range values {
		freqs[i] = float64(tally[v]) / float64(len(counts))
	}
	return values, freqs
}
