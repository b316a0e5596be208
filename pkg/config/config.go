package config

import (
	"fmt"
	"os"
	"time"

	"github.com/itohio/gotakt/pkg/sim"
	"github.com/itohio/gotakt/pkg/staircase"
	"github.com/itohio/gotakt/pkg/track"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial    SerialConfig    `yaml:"serial"`
	Staircase StaircaseConfig `yaml:"staircase"`
	Sim       SimConfig       `yaml:"sim"`
	Track     TrackConfig     `yaml:"track"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// StaircaseConfig contains the test procedure parameters.
type StaircaseConfig struct {
	Beeps             int           `yaml:"beeps"`              // Beeps per round, Beeps-1 pairs are played
	BeepDuration      time.Duration `yaml:"beep_duration"`      // Click duration
	EndToneFactor     int           `yaml:"end_tone_factor"`    // End tone length in beep durations
	ReferenceInterval time.Duration `yaml:"reference_interval"` // Nominal gap between clicks
	MaxRounds         int           `yaml:"max_rounds"`         // Rounds 1..max_rounds-1 are played
	InitialStep       float32       `yaml:"initial_step"`       // Initial deviation half-range (ms)
	StepFloor         float32       `yaml:"step_floor"`         // Minimum step after a detection (ms)
	ShrinkFactor      float32       `yaml:"shrink_factor"`
	GrowFactor        float32       `yaml:"grow_factor"`
	PollInterval      time.Duration `yaml:"poll_interval"`    // Button polling period
	StableSamples     int           `yaml:"stable_samples"`   // Debounce depth
	ResponseTimeout   time.Duration `yaml:"response_timeout"` // 0 waits forever
	Seed              uint64        `yaml:"seed"`
}

// SimConfig contains simulated subject configuration.
type SimConfig struct {
	Threshold time.Duration `yaml:"threshold"` // Smallest perceived deviation
	Reaction  time.Duration `yaml:"reaction"`  // Delay before pressing
	Hold      time.Duration `yaml:"hold"`      // Press duration
}

// TrackConfig contains session summary configuration.
type TrackConfig struct {
	Window int `yaml:"window"` // Reversals averaged into the estimate
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	p := staircase.DefaultParams()
	s := sim.DefaultConfig()

	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0", // "COM3" on Windows
			BaudRate: 115200,
		},
		Staircase: StaircaseConfig{
			Beeps:             p.Beeps,
			BeepDuration:      p.BeepDuration,
			EndToneFactor:     p.EndToneFactor,
			ReferenceInterval: p.ReferenceInterval,
			MaxRounds:         p.MaxRounds,
			InitialStep:       p.InitialStep,
			StepFloor:         p.StepFloor,
			ShrinkFactor:      p.ShrinkFactor,
			GrowFactor:        p.GrowFactor,
			PollInterval:      p.PollInterval,
			StableSamples:     p.StableSamples,
			ResponseTimeout:   p.ResponseTimeout,
			Seed:              p.Seed,
		},
		Sim: SimConfig{
			Threshold: s.Threshold,
			Reaction:  s.Reaction,
			Hold:      s.Hold,
		},
		Track: TrackConfig{
			Window: track.DefaultWindow,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Params().Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Params converts the staircase section into engine parameters.
func (c *Config) Params() staircase.Params {
	s := c.Staircase
	return staircase.Params{
		Beeps:             s.Beeps,
		BeepDuration:      s.BeepDuration,
		EndToneFactor:     s.EndToneFactor,
		ReferenceInterval: s.ReferenceInterval,
		MaxRounds:         s.MaxRounds,
		InitialStep:       s.InitialStep,
		StepFloor:         s.StepFloor,
		ShrinkFactor:      s.ShrinkFactor,
		GrowFactor:        s.GrowFactor,
		PollInterval:      s.PollInterval,
		StableSamples:     s.StableSamples,
		ResponseTimeout:   s.ResponseTimeout,
		Seed:              s.Seed,
	}
}

// Subject converts the sim section into a simulated subject configuration.
func (c *Config) Subject() sim.Config {
	return sim.Config{
		Threshold: c.Sim.Threshold,
		Reaction:  c.Sim.Reaction,
		Hold:      c.Sim.Hold,
	}
}

// ensureDefaults ensures that all required fields have default values if missing.
// Zero is a meaningful step floor, response timeout and seed, so those are kept.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	s, d := &c.Staircase, def.Staircase
	if s.Beeps == 0 {
		s.Beeps = d.Beeps
	}
	if s.BeepDuration == 0 {
		s.BeepDuration = d.BeepDuration
	}
	if s.EndToneFactor == 0 {
		s.EndToneFactor = d.EndToneFactor
	}
	if s.ReferenceInterval == 0 {
		s.ReferenceInterval = d.ReferenceInterval
	}
	if s.MaxRounds == 0 {
		s.MaxRounds = d.MaxRounds
	}
	if s.InitialStep == 0 {
		s.InitialStep = d.InitialStep
	}
	if s.ShrinkFactor == 0 {
		s.ShrinkFactor = d.ShrinkFactor
	}
	if s.GrowFactor == 0 {
		s.GrowFactor = d.GrowFactor
	}
	if s.PollInterval == 0 {
		s.PollInterval = d.PollInterval
	}
	if s.StableSamples == 0 {
		s.StableSamples = d.StableSamples
	}

	if c.Sim.Threshold == 0 {
		c.Sim.Threshold = def.Sim.Threshold
	}
	if c.Sim.Reaction == 0 {
		c.Sim.Reaction = def.Sim.Reaction
	}
	if c.Sim.Hold == 0 {
		c.Sim.Hold = def.Sim.Hold
	}

	if c.Track.Window == 0 {
		c.Track.Window = def.Track.Window
	}
}
