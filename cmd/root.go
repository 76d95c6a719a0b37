package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/district-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "district-cli",
	Short: "Roster geocoding and district enrichment pipeline",
	Long:  "Geocodes a spreadsheet of participant addresses via Nominatim, resolves supervisorial, census, and political districts for each coordinate, and writes the enriched roster back out with periodic checkpoints.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
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
