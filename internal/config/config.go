package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/menta2k/spritegen/pkg/sampler"
	"github.com/menta2k/spritegen/pkg/types"
)

// Config holds the application configuration
type Config struct {
	Directories DirectoriesConfig `json:"directories" toml:"directories"`
	Parameters  ParametersConfig  `json:"parameters" toml:"parameters"`
	Classes     []ClassConfig     `json:"classes" toml:"classes"`
	Output      OutputConfig      `json:"output" toml:"output"`
}

// DirectoriesConfig holds the input and output locations
type DirectoriesConfig struct {
	Backgrounds string `json:"backgrounds" toml:"backgrounds"`
	Sprites     string `json:"sprites" toml:"sprites"`
	RealSamples string `json:"real_samples,omitempty" toml:"real_samples,omitempty"`
	Output      string `json:"output" toml:"output"`
}

// ParametersConfig holds the generation parameters
type ParametersConfig struct {
	Title                string   `json:"title" toml:"title"`
	NumImages            int      `json:"num_images" toml:"num_images"`
	TrainSize            float64  `json:"train_size" toml:"train_size"`
	LabelAllClasses      bool     `json:"label_all_classes" toml:"label_all_classes"`
	LabeledClasses       []string `json:"labeled_classes,omitempty" toml:"labeled_classes,omitempty"`
	MaxSpritesPerClass   int      `json:"max_sprites_per_class" toml:"max_sprites_per_class"`
	TransformSprites     bool     `json:"transform_sprites" toml:"transform_sprites"`
	ClipSprites          bool     `json:"clip_sprites" toml:"clip_sprites"`
	ClassificationScheme string   `json:"classification_scheme" toml:"classification_scheme"`
	Seed                 uint64   `json:"seed" toml:"seed"`
	Workers              int      `json:"workers" toml:"workers"`
}

// ClassConfig describes one sprite class. Count is the maximum per image for
// the random scheme and the number of draws for the discrete scheme;
// Distribution is used by the distribution scheme and RealID by mimic-real.
type ClassConfig struct {
	Name         string    `json:"name" toml:"name"`
	Count        int       `json:"count,omitempty" toml:"count,omitempty"`
	Distribution []float64 `json:"distribution,omitempty" toml:"distribution,omitempty"`
	RealID       *int      `json:"real_id,omitempty" toml:"real_id,omitempty"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Format   string `json:"format" toml:"format"`
	Quality  int    `json:"quality" toml:"quality"`
	Lossless bool   `json:"lossless" toml:"lossless"`
	Clean    bool   `json:"clean" toml:"clean"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Directories: DirectoriesConfig{
			Backgrounds: "./assets/backgrounds",
			Sprites:     "./assets/sprites",
			RealSamples: "./assets/real",
			Output:      "./output",
		},
		Parameters: ParametersConfig{
			Title:                "dataset",
			NumImages:            100,
			TrainSize:            0.8,
			LabelAllClasses:      true,
			MaxSpritesPerClass:   types.NoCap,
			TransformSprites:     true,
			ClipSprites:          true,
			ClassificationScheme: string(types.SchemeRandom),
			Seed:                 1,
			Workers:              1,
		},
		Output: OutputConfig{
			Format:  "png",
			Quality: 90,
		},
	}
}

// LoadFromFile loads configuration from a JSON or TOML file. Keys missing from
// the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if isTOML(filename) {
		err = toml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON or TOML file, chosen by extension
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	if isTOML(filename) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func isTOML(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".toml")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	p := c.Parameters

	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("parameters.title cannot be empty")
	}

	if p.NumImages < 0 {
		return fmt.Errorf("parameters.num_images cannot be negative")
	}

	if p.TrainSize < 0 || p.TrainSize > 1 {
		return fmt.Errorf("parameters.train_size must be between 0 and 1")
	}

	if p.MaxSpritesPerClass < types.NoCap {
		return fmt.Errorf("parameters.max_sprites_per_class must be -1 or greater")
	}

	if p.Workers < 0 {
		return fmt.Errorf("parameters.workers cannot be negative")
	}

	if c.Directories.Backgrounds == "" || c.Directories.Sprites == "" || c.Directories.Output == "" {
		return fmt.Errorf("directories.backgrounds, directories.sprites and directories.output are required")
	}

	scheme, err := types.ParseScheme(p.ClassificationScheme)
	if err != nil {
		return fmt.Errorf("parameters.classification_scheme: %w", err)
	}

	if err := c.validateClasses(scheme); err != nil {
		return err
	}

	if !p.LabelAllClasses {
		if len(p.LabeledClasses) == 0 {
			return fmt.Errorf("parameters.labeled_classes cannot be empty when label_all_classes is false")
		}
		known := make(map[string]bool, len(c.Classes))
		for _, cl := range c.Classes {
			known[cl.Name] = true
		}
		for _, name := range p.LabeledClasses {
			if !known[name] {
				return fmt.Errorf("parameters.labeled_classes: unknown class %q", name)
			}
		}
	}

	switch strings.ToLower(c.Output.Format) {
	case "png":
	case "jpg", "jpeg", "webp":
		if c.Output.Quality < 1 || c.Output.Quality > 100 {
			return fmt.Errorf("output.quality must be between 1 and 100")
		}
	default:
		return fmt.Errorf("output.format must be one of png, jpg, webp")
	}

	return nil
}

func (c *Config) validateClasses(scheme types.Scheme) error {
	if len(c.Classes) == 0 {
		return fmt.Errorf("classes: %w", types.ErrEmptyClassSet)
	}

	seen := make(map[string]bool, len(c.Classes))
	for _, cl := range c.Classes {
		if strings.TrimSpace(cl.Name) == "" {
			return errors.New("classes: name cannot be empty")
		}
		if seen[cl.Name] {
			return fmt.Errorf("classes: duplicate class %q", cl.Name)
		}
		seen[cl.Name] = true

		switch scheme {
		case types.SchemeRandom:
			if cl.Count < 0 {
				return fmt.Errorf("classes.%s: count cannot be negative", cl.Name)
			}
		case types.SchemeDiscrete:
			if cl.Count != c.Classes[0].Count {
				return fmt.Errorf("classes.%s: discrete counts must be equal for every class", cl.Name)
			}
			if cl.Count < 0 {
				return fmt.Errorf("classes.%s: count cannot be negative", cl.Name)
			}
		case types.SchemeDistribution:
			if len(cl.Distribution) == 0 {
				return fmt.Errorf("classes.%s: distribution cannot be empty", cl.Name)
			}
			for _, v := range cl.Distribution {
				if v < 0 {
					return fmt.Errorf("classes.%s: distribution entries cannot be negative", cl.Name)
				}
			}
		case types.SchemeMimicReal:
			if cl.RealID == nil || *cl.RealID < 0 {
				return fmt.Errorf("classes.%s: real_id is required for mimic-real", cl.Name)
			}
		}
	}

	if scheme == types.SchemeMimicReal && c.Directories.RealSamples == "" {
		return errors.New("directories.real_samples is required for mimic-real")
	}
	return nil
}

// Scheme returns the configured classification scheme
func (c *Config) Scheme() (types.Scheme, error) {
	return types.ParseScheme(c.Parameters.ClassificationScheme)
}

// ClassNames returns the class names in configured order
func (c *Config) ClassNames() []string {
	names := make([]string, len(c.Classes))
	for i, cl := range c.Classes {
		names[i] = cl.Name
	}
	return names
}

// LabelMap returns the integer label of every class
func (c *Config) LabelMap() types.LabelMap {
	if c.Parameters.LabelAllClasses {
		return types.NewLabelMap(c.ClassNames(), nil)
	}
	return types.NewLabelMap(c.ClassNames(), c.Parameters.LabeledClasses)
}

// RealSampleLabels returns the label directory of the real sample set
func (c *Config) RealSampleLabels() string {
	return filepath.Join(c.Directories.RealSamples, "labels")
}

// RealClasses returns the real-sample ids of the configured classes
func (c *Config) RealClasses() []sampler.RealClass {
	out := make([]sampler.RealClass, 0, len(c.Classes))
	for _, cl := range c.Classes {
		if cl.RealID == nil {
			continue
		}
		out = append(out, sampler.RealClass{Name: cl.Name, ID: *cl.RealID})
	}
	return out
}

// ClassSpecs converts the class table into sampler input. For mimic-real the
// frequencies are estimated from the real sample labels.
func (c *Config) ClassSpecs() ([]types.ClassSpec, error) {
	scheme, err := c.Scheme()
	if err != nil {
		return nil, err
	}

	if scheme == types.SchemeMimicReal {
		return sampler.EstimateFrequencies(c.RealSampleLabels(), c.RealClasses())
	}

	specs := make([]types.ClassSpec, len(c.Classes))
	for i, cl := range c.Classes {
		spec := types.ClassSpec{Name: cl.Name}
		switch scheme {
		case types.SchemeRandom:
			spec.Max = cl.Count
		case types.SchemeDiscrete:
			spec.Total = cl.Count
		case types.SchemeDistribution:
			spec.Probabilities = append([]float64(nil), cl.Distribution...)
		}
		specs[i] = spec
	}
	return specs, nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./spritegen.toml"
	}
	return filepath.Join(home, ".config", "spritegen", "config.toml")
}
