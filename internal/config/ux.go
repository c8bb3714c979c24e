package config

// UIConfig holds user interface configuration.
type UIConfig struct {
	// ConsoleRatio is the share of the width given to the record listing
	// (0.0-1.0). The rest shows the field.
	ConsoleRatio float64 `json:"console_ratio" yaml:"console_ratio"`

	// Theme forces "dark" or "light"; empty auto-detects.
	Theme string `json:"theme,omitempty" yaml:"theme,omitempty"`

	// GridCells is the number of character cells per field side in the
	// field pane.
	GridCells int `json:"grid_cells" yaml:"grid_cells"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		ConsoleRatio: 0.4,
		GridCells:    24,
	}
}
