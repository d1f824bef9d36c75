package motplot

//Rendering configuration, loadable from a YAML file so plotting scripts can
//share one setup.

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the recognized rendering options for trajectory plots.
type Config struct {
	//FrameStep is the sample stride between drawn orientation frames.
	FrameStep int `yaml:"frame_step"`
	//ShowFrames toggles drawing of orientation frames along the path.
	ShowFrames bool `yaml:"show_frames"`
	//FrameScale is the axis length of a drawn frame, in the trajectory's
	//length unit. Zero means auto: a fraction of the trajectory's spatial
	//extent.
	FrameScale float64 `yaml:"frame_scale"`
}

// DefaultConfig returns reasonable options for typical capture sessions.
func DefaultConfig() *Config {
	return &Config{
		FrameStep:  100,
		ShowFrames: true,
		FrameScale: 0, //auto
	}
}

// ConfigFromFile reads a YAML rendering configuration. Options absent from
// the file keep their defaults; unknown keys are rejected so typos do not
// silently fall back to defaults.
func ConfigFromFile(name string) (*Config, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("motplot: can't parse config %s: %w", name, err)
	}
	if cfg.FrameStep < 1 {
		return nil, fmt.Errorf("motplot: config %s: frame_step must be at least 1", name)
	}
	return cfg, nil
}
