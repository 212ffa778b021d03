package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

// NewRootCommand builds the `agent` CLI: plan/run/build/serve/status
// subcommands over the shared Core, grounded on acdtunes-spacetraders's
// cobra root command shape.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "agent",
		Short: "Goal-driven crafting agent",
		Long: `agent resolves crafting goals into Plans, executes them against
the world, builds blueprinted structures, and serves the same
capabilities over MCP.

Examples:
  agent plan --item diamond_pickaxe --count 1
  agent run --item iron_ingot --count 8
  agent build --blueprint house.yaml --x 100 --y 64 --z -20
  agent serve
  agent status`,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newStatusCommand())

	return rootCmd
}

// Execute runs the root command, matching the teacher's
// exit-on-error convention.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func loadConfig() (*Config, error) {
	return LoadConfig(configPath)
}
