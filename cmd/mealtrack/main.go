// Command mealtrack runs the meal tracking service and its maintenance tasks.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mealtrack/internal/adapter/notify"
	"mealtrack/internal/app"
	"mealtrack/internal/config"
)

var (
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "mealtrack",
	Short:         "Meal catalog, daily macro totals and history",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if err := os.Setenv("CONFIG_PATH", configPath); err != nil {
				return err
			}
		}
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if logger, err = app.NewLogger(cfg.Log); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (or set CONFIG_PATH)")

	seedCmd.AddCommand(seedMealsCmd, seedHistoryCmd)
	rootCmd.AddCommand(serveCmd, closeDayCmd, totalsCmd, seedCmd, storageSizeCmd, resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withServices opens the configured store, builds the services and runs fn.
func withServices(ctx context.Context, broker *notify.Broker, fn func(*app.Services) error) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("store close failed", zap.Error(err))
		}
	}()

	kv := store
	if broker != nil {
		kv = notify.Wrap(store, broker)
	}
	return fn(app.NewServices(kv, cfg, logger))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
