package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides_Robot(t *testing.T) {
	t.Run("speed overrides", func(t *testing.T) {
		t.Setenv("TRAJDRAW_ROBOT_SPEED", "1.25")
		t.Setenv("TRAJDRAW_TURN_SPEED", "180")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 1.25, cfg.Robot.Speed)
		assert.Equal(t, 180.0, cfg.Robot.TurnSpeed)
	})

	t.Run("unparseable values are ignored", func(t *testing.T) {
		t.Setenv("TRAJDRAW_ROBOT_SPEED", "fast")
		t.Setenv("TRAJDRAW_TURN_SPEED", "")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 0.75, cfg.Robot.Speed)
		assert.Equal(t, 90.0, cfg.Robot.TurnSpeed)
	})
}

func TestEnvOverrides_Logging(t *testing.T) {
	t.Setenv("TRAJDRAW_LOG_LEVEL", "debug")
	t.Setenv("TRAJDRAW_LOG_FILE", "/tmp/trajdraw-test.log")

	cfg := &Config{}
	cfg.applyEnvOverrides()

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/trajdraw-test.log", cfg.Drive.LogFile)
}
