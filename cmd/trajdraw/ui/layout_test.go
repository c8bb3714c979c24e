package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLayoutConfig(t *testing.T) {
	l := NewLayoutConfig(120, 40, 0.4)
	assert.False(t, l.IsCompact)
	assert.False(t, l.TooSmall)
	assert.Equal(t, 37, l.BodyHeight())

	field, console := l.SplitPaneWidths()
	assert.Equal(t, 48, console)
	assert.Equal(t, 71, field)
	assert.Equal(t, 120, field+console+SplitPaneDivider)
}

func TestNewLayoutConfig_RatioFallback(t *testing.T) {
	for _, r := range []float64{0, -1, 1, 2} {
		assert.Equal(t, DefaultConsoleRatio, NewLayoutConfig(100, 30, r).ConsoleRatio)
	}
}

func TestLayout_Degenerate(t *testing.T) {
	l := NewLayoutConfig(0, 0, 0.5)
	assert.True(t, l.TooSmall)
	assert.Equal(t, 0, l.BodyHeight())
	f, c := l.SplitPaneWidths()
	assert.Equal(t, 0, f)
	assert.Equal(t, 0, c)
	assert.Equal(t, 0, PanelContentWidth(1))
	assert.Equal(t, 0, PanelContentHeight(-5))
}

func TestPanelContent(t *testing.T) {
	assert.Equal(t, 16, PanelContentWidth(20))
	assert.Equal(t, 8, PanelContentHeight(10))
}
