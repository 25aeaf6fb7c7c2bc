// File: internal/config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Sim    SimConfig    `mapstructure:"sim" yaml:"sim"`
	Report ReportConfig `mapstructure:"report" yaml:"report"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// SimConfig is the run-scoped parameter set consumed by the simulation
// engine. All fields are validated as numeric ranges before a model is
// constructed; an out-of-range value is fatal to the run.
type SimConfig struct {
	AgentCount int `mapstructure:"agent_count" yaml:"agent_count"`
	Width      int `mapstructure:"width" yaml:"width"`
	Height     int `mapstructure:"height" yaml:"height"`

	// InitialOutbreakFraction is the fraction of the population seeded as
	// infected at tick 0. Values above 1.0 are clamped, not rejected.
	InitialOutbreakFraction float64 `mapstructure:"initial_outbreak_fraction" yaml:"initial_outbreak_fraction"`

	SpreadChance         float64 `mapstructure:"spread_chance" yaml:"spread_chance"`
	CheckFrequency       float64 `mapstructure:"check_frequency" yaml:"check_frequency"`
	RecoveryChance       float64 `mapstructure:"recovery_chance" yaml:"recovery_chance"`
	GainResistanceChance float64 `mapstructure:"gain_resistance_chance" yaml:"gain_resistance_chance"`
	DeathChance          float64 `mapstructure:"death_chance" yaml:"death_chance"`
	MoversFraction       float64 `mapstructure:"movers_fraction" yaml:"movers_fraction"`

	MinInfectionDuration int `mapstructure:"min_infection_duration" yaml:"min_infection_duration"`

	// ResistanceDuration is reserved: it is accepted and validated (-1 means
	// forever) but the current state machine never expires resistance.
	ResistanceDuration int `mapstructure:"resistance_duration" yaml:"resistance_duration"`

	// Seed selects the random stream. 0 means derive a seed from the clock.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

// ReportConfig tunes the chart and animation renderers.
type ReportConfig struct {
	CellSize  int `mapstructure:"cell_size" yaml:"cell_size"`
	FrameRate int `mapstructure:"frame_rate" yaml:"frame_rate"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "pabsim")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Simulation --
	v.SetDefault("sim.agent_count", 1000)
	v.SetDefault("sim.width", 70)
	v.SetDefault("sim.height", 70)
	v.SetDefault("sim.initial_outbreak_fraction", 0.01)
	v.SetDefault("sim.spread_chance", 0.85)
	v.SetDefault("sim.check_frequency", 0.4)
	v.SetDefault("sim.recovery_chance", 0.3)
	v.SetDefault("sim.gain_resistance_chance", 0.5)
	v.SetDefault("sim.death_chance", 0.02)
	v.SetDefault("sim.movers_fraction", 1.0)
	v.SetDefault("sim.min_infection_duration", 5)
	v.SetDefault("sim.resistance_duration", -1)
	v.SetDefault("sim.seed", 0)

	// -- Report --
	v.SetDefault("report.cell_size", 8)
	v.SetDefault("report.frame_rate", 10)
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with defaults alone, but fail loudly if it does.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a validated configuration from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if err := c.Sim.Validate(); err != nil {
		return err
	}
	return c.Report.Validate()
}

// Validate checks every simulation parameter against its valid domain.
func (s *SimConfig) Validate() error {
	if s.AgentCount <= 0 {
		return fmt.Errorf("sim.agent_count must be a positive integer")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("sim.width and sim.height must be positive integers")
	}
	if s.InitialOutbreakFraction < 0 {
		return fmt.Errorf("sim.initial_outbreak_fraction must not be negative")
	}
	probabilities := []struct {
		name  string
		value float64
	}{
		{"sim.spread_chance", s.SpreadChance},
		{"sim.check_frequency", s.CheckFrequency},
		{"sim.recovery_chance", s.RecoveryChance},
		{"sim.gain_resistance_chance", s.GainResistanceChance},
		{"sim.death_chance", s.DeathChance},
		{"sim.movers_fraction", s.MoversFraction},
	}
	for _, p := range probabilities {
		if p.value < 0 || p.value > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", p.name, p.value)
		}
	}
	if s.MinInfectionDuration < 0 {
		return fmt.Errorf("sim.min_infection_duration must not be negative")
	}
	if s.ResistanceDuration < -1 {
		return fmt.Errorf("sim.resistance_duration must be -1 (forever) or a non-negative tick count")
	}
	return nil
}

// Validate checks the report renderer settings.
func (r *ReportConfig) Validate() error {
	if r.CellSize <= 0 {
		return fmt.Errorf("report.cell_size must be a positive integer")
	}
	if r.FrameRate <= 0 {
		return fmt.Errorf("report.frame_rate must be a positive integer")
	}
	return nil
}
