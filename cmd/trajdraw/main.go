// Command trajdraw records robot trajectories by driving a simulated robot
// and emits them as TrajectorySequence builder code.
package main

import (
	"fmt"
	"os"

	"trajdraw/internal/config"
	"trajdraw/internal/logging"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "trajdraw",
	Short: "Draw robot trajectories with the keyboard and export them as code",
	Long: `trajdraw records how you drive a simulated robot around a field and
turns the recording into RoadRunner TrajectorySequence builder code.

Consecutive motions in the same direction merge into one call; opposite
motions cancel. Run without arguments to start the interactive driver.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultConfigPath()
		}
		// config init replaces the file, so it must not depend on it.
		loaded := config.DefaultConfig()
		if !writesConfig(cmd) {
			var err error
			if loaded, err = config.Load(path); err != nil {
				return err
			}
			if err := loaded.Validate(); err != nil {
				return fmt.Errorf("invalid config %s: %w", path, err)
			}
		}
		cfg = loaded
		configPath = path

		// The TUI owns the terminal, so its logs go to a file.
		file := ""
		if isInteractive(cmd) {
			file = cfg.Drive.LogFile
		}
		opts := cfg.Logging.Options(file)
		if verbose {
			opts.Level = "debug"
		}
		if err := logging.Initialize(opts); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.Get(logging.CategoryBoot).Debugw("config loaded", "path", path, "command", cmd.Name())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
	RunE: runDrive,
}

// isInteractive reports whether cmd starts the TUI: the bare root or drive.
func isInteractive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "drive"
}

// writesConfig reports whether cmd is config init.
func writesConfig(cmd *cobra.Command) bool {
	return cmd.Name() == "init" && cmd.HasParent() && cmd.Parent().Name() == "config"
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .trajdraw/config.yaml)")

	// Run flags
	runCmd.Flags().StringVar(&pngPath, "png", "", "Write a PNG preview of the path to this file")
	runCmd.Flags().IntVar(&pngSize, "png-size", 800, "Preview size in pixels")

	// Config flags
	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(driveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
