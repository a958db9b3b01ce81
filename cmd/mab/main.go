package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fystack/mab-simulator/pkg/common/config"
	"github.com/fystack/mab-simulator/pkg/common/logger"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Error("Command failed", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mab",
		Short: "Multi-armed bandit simulator",
		Long: `mab simulates Bernoulli multi-armed bandits and compares exploration
policies: random, epsilon-greedy with decay, optimistic initial values
and UCB1.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (built-in defaults when empty)")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logs")

	rootCmd.AddCommand(
		newRunCmd(),
		newCompareCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig reads --config, or falls back to the built-in defaults, and
// initialises logging from the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	level := logger.ParseLevel(cfg.Logging.Level)
	if debug {
		level = slog.LevelDebug
	}
	logger.Init(&logger.Options{
		Level:      level,
		Writer:     cmd.ErrOrStderr(),
		TimeFormat: time.RFC3339,
	})
	if path != "" {
		logger.Debug("Config loaded", "path", path, "algorithms", len(cfg.Algorithms))
	}
	return cfg, nil
}
