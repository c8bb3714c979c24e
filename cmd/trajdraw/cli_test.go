package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trajdraw/internal/config"
	"trajdraw/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// executeCommand runs the root command with args and returns stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	verbose, configPath, pngPath, pngSize, forceInit = false, "", "", 800, false
	t.Cleanup(logging.Reset)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

const drivingScript = `
- arm: true
- {control: forward, seconds: 0.8}
- barrier: true
- {control: forward, seconds: 0.8}
- snap: right
- wait: 0.5
- call: {name: open claw, args: "1"}
- undo: true
- jump: "24, 24, 90"
`

func TestRunScript_PrintsListingAndCode(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "drive.yaml", drivingScript)
	cfgPath := filepath.Join(dir, "config.yaml")

	out, _, err := executeCommand(t, "run", script, "--config", cfgPath)
	require.NoError(t, err)

	// 0.8 s at 0.75 m/s is 0.6 m, 23.6220 inches.
	assert.Contains(t, out, "1: move forwards 23.6220")
	assert.Contains(t, out, "2: move forwards 23.6220")
	assert.Contains(t, out, "3: turn right 45.0000")
	assert.Contains(t, out, "4: wait 0.5000")
	assert.NotContains(t, out, "openclaw")
	assert.Contains(t, out, "SampleMecanumDrive drive = new SampleMecanumDrive(hardwareMap);")
	assert.Equal(t, 2, strings.Count(out, ".forward(23.622)"))
	assert.True(t, strings.HasSuffix(out, "drive.followTrajectorySequence(trajectory);\n"))
}

func TestRunScript_WarningsGoToStderr(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "drive.yaml", "- undo: true\n- arm: true\n- wait: 1\n")

	out, errOut, err := executeCommand(t, "run", script, "--config", filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, errOut, "warning: step 1")
	assert.Contains(t, out, "1: wait 1.0000")
}

func TestRunScript_UsesConfigDialect(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "export:\n  drive_class: MyDrive\n  drive_var: bot\n")
	script := writeFile(t, dir, "drive.yaml", "- arm: true\n- wait: 1\n")

	out, _, err := executeCommand(t, "run", script, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "MyDrive bot = new MyDrive(hardwareMap);")
	assert.Contains(t, out, "bot.followTrajectorySequence(trajectory);")
}

func TestRunScript_WritesPreview(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "drive.yaml", drivingScript)
	pngOut := filepath.Join(dir, "path.png")

	_, errOut, err := executeCommand(t, "run", script,
		"--config", filepath.Join(dir, "config.yaml"),
		"--png", pngOut, "--png-size", "240")
	require.NoError(t, err)
	assert.Contains(t, errOut, "preview written to")

	f, err := os.Open(pngOut)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 240, img.Width)
}

func TestRunScript_Errors(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	_, _, err := executeCommand(t, "run", filepath.Join(dir, "missing.yaml"), "--config", cfgPath)
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.yaml", "- {control: fly, seconds: 1}\n")
	_, _, err = executeCommand(t, "run", bad, "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown control")

	_, _, err = executeCommand(t, "run", "--config", cfgPath)
	assert.Error(t, err)
}

func TestRootRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "robot:\n  speed: -1\n")
	script := writeFile(t, dir, "drive.yaml", "- wait: 1\n")

	_, _, err := executeCommand(t, "run", script, "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ".trajdraw", "config.yaml")

	out, _, err := executeCommand(t, "config", "init", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	loaded, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Robot, loaded.Robot)

	_, _, err = executeCommand(t, "config", "init", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = executeCommand(t, "config", "init", "--force", "--config", cfgPath)
	assert.NoError(t, err)
}

// readRaw decodes a config file without defaults or environment overrides.
func readRaw(t *testing.T, path string) config.Config {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var c config.Config
	require.NoError(t, yaml.Unmarshal(data, &c))
	return c
}

func TestConfigInit_IgnoresEnvironment(t *testing.T) {
	t.Setenv("TRAJDRAW_ROBOT_SPEED", "9.5")
	t.Setenv("TRAJDRAW_LOG_LEVEL", "debug")
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	_, _, err := executeCommand(t, "config", "init", "--config", cfgPath)
	require.NoError(t, err)

	written := readRaw(t, cfgPath)
	assert.Equal(t, config.DefaultConfig().Robot.Speed, written.Robot.Speed)
	assert.Equal(t, "info", written.Logging.Level)
}

func TestConfigInit_ForceRepairsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "robot:\n  speed: -1\n")

	_, _, err := executeCommand(t, "config", "show", "--config", cfgPath)
	require.Error(t, err)

	_, _, err = executeCommand(t, "config", "init", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = executeCommand(t, "config", "init", "--force", "--config", cfgPath)
	require.NoError(t, err)

	loaded, err := config.Load(cfgPath)
	require.NoError(t, err)
	require.NoError(t, loaded.Validate())
	assert.Equal(t, config.DefaultConfig().Robot.Speed, readRaw(t, cfgPath).Robot.Speed)
}

func TestWritesConfig(t *testing.T) {
	assert.True(t, writesConfig(configInitCmd))
	assert.False(t, writesConfig(configShowCmd))
	assert.False(t, writesConfig(runCmd))
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "robot:\n  speed: 1.5\n")

	out, _, err := executeCommand(t, "config", "show", "--config", cfgPath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "# "+cfgPath))

	var shown config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &shown))
	assert.Equal(t, 1.5, shown.Robot.Speed)
	assert.Equal(t, config.DefaultConfig().Export, shown.Export)
}

func TestIsInteractive(t *testing.T) {
	assert.True(t, isInteractive(rootCmd))
	assert.True(t, isInteractive(driveCmd))
	assert.False(t, isInteractive(runCmd))
	assert.False(t, isInteractive(configShowCmd))
}

func TestNewSession_UsesConfiguredStart(t *testing.T) {
	c := config.DefaultConfig()
	c.Field.StartX = 0.5
	c.Field.StartH = 90

	s := newSession(c)
	assert.Equal(t, 0.5, s.Pose().X)
	assert.Equal(t, 90.0, s.Pose().Heading)
	assert.Equal(t, 0.75, s.Speeds().Linear)
}
