package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/LeJamon/goMarketd/internal/di"
	"github.com/LeJamon/goMarketd/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var listenAddr string

// serverCmd represents the server command (default action)
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the marketd daemon",
	Long: `Start the marketd daemon which provides:
- HTTP JSON-RPC API on /
- WebSocket event stream on /ws
- Prometheus metrics on /metrics

This is the default command when no subcommand is specified.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Set server as the default command
	rootCmd.RunE = runServer

	serverCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address, overrides server.addr")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.Server.Addr = listenAddr
	}
	log, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting marketd",
		zap.String("version", Version),
		zap.String("config", cfg.GetConfigPath()),
		zap.String("backend", cfg.Database.Backend),
		zap.String("journal", cfg.Journal.Driver),
	)
	return di.NewApp(ctx, cfg, log, Version).Run(ctx)
}
