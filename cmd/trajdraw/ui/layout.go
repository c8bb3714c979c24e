// Package ui layout constants for consistent spacing and dimensions
package ui

// Layout constants for panel sizing
const (
	// Split pane dimensions
	DefaultConsoleRatio = 0.4
	SplitPaneDivider    = 1

	// Panel borders and spacing
	PanelBorderWidth = 1
	PanelPaddingH    = 1

	// Control areas
	HeaderHeight = 1
	FooterHeight = 2

	// Responsive breakpoints
	MinimumTerminalWidth  = 60
	MinimumTerminalHeight = 16
	CompactModeWidth      = 100
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	ConsoleRatio   float64
	IsCompact      bool
	TooSmall       bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size.
// ratio is the console's share of the width; values outside (0, 1) fall
// back to DefaultConsoleRatio.
func NewLayoutConfig(width, height int, ratio float64) LayoutConfig {
	if ratio <= 0 || ratio >= 1 {
		ratio = DefaultConsoleRatio
	}
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		ConsoleRatio:   ratio,
		IsCompact:      width < CompactModeWidth,
		TooSmall:       width < MinimumTerminalWidth || height < MinimumTerminalHeight,
	}
}

// BodyHeight is the height left for the panes between header and footer.
func (l LayoutConfig) BodyHeight() int {
	return max(0, l.TerminalHeight-HeaderHeight-FooterHeight)
}

// SplitPaneWidths returns the field (left) and console (right) pane widths.
func (l LayoutConfig) SplitPaneWidths() (fieldWidth, consoleWidth int) {
	consoleWidth = int(float64(l.TerminalWidth) * l.ConsoleRatio)
	fieldWidth = l.TerminalWidth - consoleWidth - SplitPaneDivider
	return max(0, fieldWidth), max(0, consoleWidth)
}

// PanelContentWidth returns the content width inside a bordered panel
func PanelContentWidth(panelWidth int) int {
	return max(0, panelWidth-(PanelBorderWidth*2)-(PanelPaddingH*2))
}

// PanelContentHeight returns the content height inside a bordered panel
func PanelContentHeight(panelHeight int) int {
	return max(0, panelHeight-(PanelBorderWidth*2))
}
