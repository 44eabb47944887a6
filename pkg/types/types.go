package types

import "fmt"

// Box represents a normalized bounding box with center and size in [0,1] range
type Box struct {
	CX float64 `json:"cx"`
	CY float64 `json:"cy"`
	W  float64 `json:"w"`
	H  float64 `json:"h"`
}

// BoundingBox is a labeled box as written to a label file
type BoundingBox struct {
	Label int `json:"label"`
	Box
}

// Dim is a pixel width/height pair
type Dim struct {
	W int `json:"w"`
	H int `json:"h"`
}

// String returns the dimensions as WxH
func (d Dim) String() string {
	return fmt.Sprintf("%dx%d", d.W, d.H)
}

// Fits reports whether d fits inside outer on both axes
func (d Dim) Fits(outer Dim) bool {
	return d.W <= outer.W && d.H <= outer.H
}

// Scheme names a classification scheme
type Scheme string

// Supported classification schemes
const (
	SchemeRandom       Scheme = "random"
	SchemeDistribution Scheme = "distribution"
	SchemeDiscrete     Scheme = "discrete"
	SchemeMimicReal    Scheme = "mimic-real"
)

// Schemes returns every supported classification scheme
func Schemes() []Scheme {
	return []Scheme{SchemeRandom, SchemeDistribution, SchemeDiscrete, SchemeMimicReal}
}

// ParseScheme converts a scheme name, failing with ErrInvalidScheme for unknown names
func ParseScheme(name string) (Scheme, error) {
	for _, s := range Schemes() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidScheme, name)
}

// NoCap disables the per-class sprite cap
const NoCap = -1

// Unlabeled marks a class that is rendered but never annotated
const Unlabeled = -1

// ClassSpec holds the sampling weights of one class. Which fields are used
// depends on the scheme:
//   - random: Max
//   - distribution: Probabilities (index is the count)
//   - discrete: Total
//   - mimic-real: Probabilities with Values (Values[i] is the count for index i)
type ClassSpec struct {
	Name          string    `json:"name"`
	Max           int       `json:"max,omitempty"`
	Probabilities []float64 `json:"probabilities,omitempty"`
	Values        []int     `json:"values,omitempty"`
	Total         int       `json:"total,omitempty"`
}

// ClassCount is the sampled number of instances of a class
type ClassCount struct {
	Class string
	Count int
}

// LabelMap maps class names to integer labels; Unlabeled means render only
type LabelMap map[string]int

// NewLabelMap assigns labels in class order. When labeled is empty every class
// is annotated; otherwise classes in labeled get their index in that list and
// the rest are Unlabeled.
func NewLabelMap(classes []string, labeled []string) LabelMap {
	m := make(LabelMap, len(classes))
	if len(labeled) == 0 {
		for i, c := range classes {
			m[c] = i
		}
		return m
	}
	for _, c := range classes {
		m[c] = Unlabeled
	}
	for i, c := range labeled {
		m[c] = i
	}
	return m
}

// Label returns the label for a class, Unlabeled for unknown classes
func (m LabelMap) Label(class string) int {
	if l, ok := m[class]; ok {
		return l
	}
	return Unlabeled
}

// ManifestEntry is one sprite instance chosen for an image
type ManifestEntry struct {
	Path  string
	Class string
	Label int
}

// PlacementRecord describes where a sprite ended up on the canvas
type PlacementRecord struct {
	Sprite     string `json:"sprite"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	W          int    `json:"w"`
	H          int    `json:"h"`
	Overflowed bool   `json:"overflowed"`
}
