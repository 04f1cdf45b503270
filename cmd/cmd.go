package cmd

import (
	"context"
	"log/slog"

	"github.com/assetdeal/registry-network/internal/config"
	"github.com/assetdeal/registry-network/pkg/logger"
	"github.com/assetdeal/registry-network/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

var cmd = &cobra.Command{
	Use:  "assetdeal",
	Long: `Asset class registry, token ledgers and escrow deal engine`,
}

func init() {
	var configFile string

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g. `./config.yaml`")

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		config := config.Parse(configFile)

		if err := logger.Init(config.Logger); err != nil {
			logger.Panic("Failed to initialize logger", slogx.Error(err), slog.Any("config", config.Logger))
		}
	})
}

func Execute(ctx context.Context) {
	cmd.AddCommand(
		NewRunCommand(),
		NewVersionCommand(),
		NewMigrateCommand(),
	)

	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Fatal("Failed to execute root command", slogx.Error(err))
	}
}
