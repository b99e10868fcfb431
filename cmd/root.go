package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vflor92/REanalyzer/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "reanalyzer",
	Short: "Land site intake and underwriting backend",
	Long:  "Parses offering memorandums via Claude, tracks land sites with derived metrics, enriches them with geocoding, demographics, and federal program flags.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
