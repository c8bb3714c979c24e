package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all trajdraw configuration.
type Config struct {
	// Robot tuning constants
	Robot RobotConfig `yaml:"robot"`

	// Field geometry
	Field FieldConfig `yaml:"field"`

	// Interactive input loop
	Drive DriveConfig `yaml:"drive"`

	// Emitted source identifiers
	Export ExportConfig `yaml:"export"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// RobotConfig holds the robot's dimensions and speeds.
type RobotConfig struct {
	Width          float64 `yaml:"width"`           // meters
	Length         float64 `yaml:"length"`          // meters
	Speed          float64 `yaml:"speed"`           // meters per second
	TurnSpeed      float64 `yaml:"turn_speed"`      // degrees per second
	PrecisionScale float64 `yaml:"precision_scale"` // linear multiplier in precision mode
}

// FieldConfig describes the simulated field.
type FieldConfig struct {
	Tiles    int     `yaml:"tiles"`     // tiles per side
	TileSize float64 `yaml:"tile_size"` // meters
	StartX   float64 `yaml:"start_x"`   // meters from centre
	StartY   float64 `yaml:"start_y"`
	StartH   float64 `yaml:"start_heading"` // degrees clockwise from up
}

// DriveConfig configures the interactive input loop.
type DriveConfig struct {
	// TickInterval is how often held controls are integrated.
	TickInterval string `yaml:"tick_interval"`
	// ReleaseTimeout ends a gesture when no key repeat arrives in time.
	// Terminals report presses only, so this stands in for key-release.
	ReleaseTimeout string `yaml:"release_timeout"`
	// WaitStep and LongWaitStep are the pause lengths for r and R, seconds.
	WaitStep     float64 `yaml:"wait_step"`
	LongWaitStep float64 `yaml:"long_wait_step"`
	// LogFile receives logs while the TUI owns the terminal.
	LogFile string `yaml:"log_file"`
}

// ExportConfig names the identifiers used in the emitted source.
type ExportConfig struct {
	DriveClass  string `yaml:"drive_class"`
	DriveVar    string `yaml:"drive_var"`
	SequenceVar string `yaml:"sequence_var"`
	Indent      string `yaml:"indent"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Robot: RobotConfig{
			Width:          0.4572,
			Length:         0.4572,
			Speed:          0.75,
			TurnSpeed:      90,
			PrecisionScale: 0.25,
		},

		Field: FieldConfig{
			Tiles:    6,
			TileSize: 0.6096,
		},

		Drive: DriveConfig{
			TickInterval:   "50ms",
			ReleaseTimeout: "600ms",
			WaitStep:       0.1,
			LongWaitStep:   1,
			LogFile:        filepath.Join(".trajdraw", "logs", "trajdraw.log"),
		},

		Export: ExportConfig{
			DriveClass:  "SampleMecanumDrive",
			DriveVar:    "drive",
			SequenceVar: "trajectory",
			Indent:      "\t",
		},

		UI: *DefaultUIConfig(),

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultConfigPath returns the default path to .trajdraw/config.yaml.
func DefaultConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".trajdraw", "config.yaml")
	}
	return filepath.Join(cwd, ".trajdraw", "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
// Unparseable numbers are ignored.
func (c *Config) applyEnvOverrides() {
	if v, ok := envFloat("TRAJDRAW_ROBOT_SPEED"); ok {
		c.Robot.Speed = v
	}
	if v, ok := envFloat("TRAJDRAW_TURN_SPEED"); ok {
		c.Robot.TurnSpeed = v
	}
	if level := os.Getenv("TRAJDRAW_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if path := os.Getenv("TRAJDRAW_LOG_FILE"); path != "" {
		c.Drive.LogFile = path
	}
}

func envFloat(key string) (float64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// GetTickInterval returns the tick interval as a duration.
func (c *Config) GetTickInterval() time.Duration {
	d, err := time.ParseDuration(c.Drive.TickInterval)
	if err != nil || d <= 0 {
		return 50 * time.Millisecond
	}
	return d
}

// GetReleaseTimeout returns the key-release window as a duration.
func (c *Config) GetReleaseTimeout() time.Duration {
	d, err := time.ParseDuration(c.Drive.ReleaseTimeout)
	if err != nil || d <= 0 {
		return 600 * time.Millisecond
	}
	return d
}

// FieldSize returns the field side length in meters.
func (c *Config) FieldSize() float64 {
	return float64(c.Field.Tiles) * c.Field.TileSize
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Robot.Speed <= 0 {
		return fmt.Errorf("robot.speed must be positive, got %v", c.Robot.Speed)
	}
	if c.Robot.TurnSpeed <= 0 {
		return fmt.Errorf("robot.turn_speed must be positive, got %v", c.Robot.TurnSpeed)
	}
	if c.Robot.PrecisionScale <= 0 || c.Robot.PrecisionScale > 1 {
		return fmt.Errorf("robot.precision_scale must be in (0, 1], got %v", c.Robot.PrecisionScale)
	}
	if c.Robot.Width <= 0 || c.Robot.Length <= 0 {
		return fmt.Errorf("robot dimensions must be positive")
	}
	if c.Field.Tiles <= 0 || c.Field.TileSize <= 0 {
		return fmt.Errorf("field must have a positive size")
	}
	half := c.FieldSize() / 2
	if abs(c.Field.StartX) > half || abs(c.Field.StartY) > half {
		return fmt.Errorf("start pose (%v, %v) is off the field", c.Field.StartX, c.Field.StartY)
	}
	if _, err := time.ParseDuration(c.Drive.TickInterval); err != nil {
		return fmt.Errorf("invalid drive.tick_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Drive.ReleaseTimeout); err != nil {
		return fmt.Errorf("invalid drive.release_timeout: %w", err)
	}
	if c.Export.DriveClass == "" || c.Export.DriveVar == "" || c.Export.SequenceVar == "" {
		return fmt.Errorf("export identifiers must not be empty")
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
