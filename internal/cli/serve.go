package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/refi-calculator/internal/config"
	"github.com/iwvelando/refi-calculator/internal/market"
	"github.com/iwvelando/refi-calculator/internal/server"
	"github.com/iwvelando/refi-calculator/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	serverConfig  string
	address       string
	maxUploadSize string
}

func newServeCmd(opts *rootOptions, version string) *cobra.Command {
	serveOpts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, serveOpts, version)
		},
	}
	cmd.Flags().StringVar(&serveOpts.serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&serveOpts.address, "address", "", "listen address override")
	cmd.Flags().StringVar(&serveOpts.maxUploadSize, "max-upload-size", "", "request body limit override, e.g. 512K")
	return cmd
}

func runServe(cmd *cobra.Command, opts *rootOptions, serveOpts *serveOptions, version string) error {
	if err := config.LoadDotenv(opts.envFile); err != nil {
		return err
	}

	serverConfig, err := server.LoadConfig(serveOpts.serverConfig)
	if err != nil {
		return err
	}
	if serveOpts.address != "" {
		serverConfig.Address = serveOpts.address
	}
	if serveOpts.maxUploadSize != "" {
		size, err := server.ParseSize(serveOpts.maxUploadSize)
		if err != nil {
			return err
		}
		serverConfig.SetUploadSizeBytes(size)
	}

	logger, err := initializeLogger(serverConfig.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, release := newMarketService(ctx, serverConfig.Market, logger)
	defer release()

	if serverConfig.Market.APIKey != "" {
		timeout := time.Duration(serverConfig.Market.TimeoutSeconds) * time.Second * time.Duration(len(svc.Series()))
		refresher, err := market.NewRefresher(svc, serverConfig.Market.RefreshSchedule, timeout, logger)
		if err != nil {
			return err
		}
		refresher.Start()
		defer refresher.Stop()
	} else {
		logger.Warn("no FRED API key configured; market rates will report errors",
			zap.String("op", "cli.serve"),
		)
	}

	httpServer := &http.Server{
		Addr:              serverConfig.Address,
		Handler:           server.NewHandler(logger, serverConfig.UploadSizeBytes(), version, svc),
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("op", "cli.serve"),
			zap.String("address", serverConfig.Address),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down", zap.String("op", "cli.serve"))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}
	return nil
}
