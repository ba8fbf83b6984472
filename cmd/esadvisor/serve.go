package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dm/esadvisor/internal/config"
	"github.com/dm/esadvisor/internal/metrics"
	"github.com/dm/esadvisor/internal/monitor"
	"github.com/dm/esadvisor/internal/notify"
	"github.com/dm/esadvisor/internal/server"
)

const (
	serveShort = `Monitor the configured clusters and serve the JSON API`
	serveLong  = `
	Poll every cluster in the config file on its cron schedule, keep the latest
	report and a rolling history per cluster, post new critical findings to
	Slack and serve the results over HTTP together with Prometheus metrics.`

	shutdownTimeout = 10 * time.Second
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "serve",
		DisableFlagsInUseLine: true,
		Short:                 serveShort,
		Long:                  strings.ReplaceAll(serveLong, "\t", ""),
		Args:                  cobra.NoArgs,
		RunE:                  runServe,
	}

	cmd.Flags().String("config", "esadvisor.yaml", "Path to the YAML config file")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	cfg, err := config.ReadFile(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	exporter := metrics.NewExporter()
	registry := metrics.NewRegistry(exporter)

	mon, err := monitor.New(cfg, monitor.DefaultFactory,
		monitor.WithNotifier(notify.New(cfg.Notifications.Slack.WebhookURL, cfg.Notifications.Slack.Channel)),
		monitor.WithExporter(exporter),
		monitor.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create monitor: %w", err)
	}
	if err := mon.Start(); err != nil {
		return fmt.Errorf("start monitor: %w", err)
	}
	defer mon.Stop()

	srv := server.New(cfg.Server.Listen, mon, metrics.Handler(registry))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// newLogger configures the standard logrus logger from the config's log
// section.
func newLogger(level, format string) (*logrus.Entry, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logger := logrus.StandardLogger()
	logger.SetLevel(lvl)
	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logrus.NewEntry(logger).WithField("component", "esadvisor"), nil
}
