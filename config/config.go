package config

import (
	"encoding/json"
	"os"
)

// Config holds runtime configuration for the detection pipeline.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Rooms is the fixed set of room names the classifier distinguishes,
	// in match-priority order. BaseDir holds one directory per room with
	// a template.png reference frame and a group_templates/ crop directory.
	Rooms   []string `json:"rooms"`
	BaseDir string   `json:"base_dir"`

	// Display is the index of the monitor to capture.
	Display int `json:"display"`

	// Detection parameters
	MatchThreshold      float64 `json:"match_threshold"`       // template-match confidence
	BinaryThreshold     int     `json:"binary_threshold"`      // absdiff intensity cutoff
	PixelCountThreshold int     `json:"pixel_count_threshold"` // anomaly trigger
	Stride              int     `json:"stride"`
	Refine              bool    `json:"refine"`

	// Dynamic mask rectangle: bottom MaskBottomFrac of height by left
	// MaskLeftFrac of width, zeroed before every comparison.
	MaskBottomFrac float64 `json:"mask_bottom_frac"`
	MaskLeftFrac   float64 `json:"mask_left_frac"`

	// OCR
	OCRLanguage string `json:"ocr_language"`

	// Loop behavior
	CaptureDelayMS int `json:"capture_delay_ms"`
	IntervalMS     int `json:"interval_ms"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:               false,
		Rooms:               []string{"Living", "Kitchen", "Bedroom", "Bathroom", "Entryway", "Yard"},
		BaseDir:             "LogCabin",
		Display:             0,
		MatchThreshold:      0.80,
		BinaryThreshold:     30,
		PixelCountThreshold: 1000,
		Stride:              1,
		Refine:              true,
		MaskBottomFrac:      0.20,
		MaskLeftFrac:        0.30,
		OCRLanguage:         "eng",
		CaptureDelayMS:      200,
		IntervalMS:          2000,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if len(c.Rooms) == 0 {
		c.Rooms = DefaultConfig().Rooms
	}
	if c.Display < 0 {
		c.Display = 0
	}
	if c.MatchThreshold <= 0 || c.MatchThreshold > 1 {
		c.MatchThreshold = 0.80
	}
	if c.BinaryThreshold <= 0 || c.BinaryThreshold > 255 {
		c.BinaryThreshold = 30
	}
	if c.PixelCountThreshold <= 0 {
		c.PixelCountThreshold = 1000
	}
	if c.Stride <= 0 {
		c.Stride = 1
	}
	if c.MaskBottomFrac <= 0 || c.MaskBottomFrac >= 1 {
		c.MaskBottomFrac = 0.20
	}
	if c.MaskLeftFrac <= 0 || c.MaskLeftFrac >= 1 {
		c.MaskLeftFrac = 0.30
	}
	if c.OCRLanguage == "" {
		c.OCRLanguage = "eng"
	}
	if c.CaptureDelayMS < 0 {
		c.CaptureDelayMS = 0
	}
	if c.IntervalMS <= 0 {
		c.IntervalMS = 2000
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return cfg, err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
