package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/spf13/cobra"

	"github.com/pixpod/pixpod/internal/config"
	"github.com/pixpod/pixpod/internal/logger"
	"github.com/pixpod/pixpod/internal/metrics"
	"github.com/pixpod/pixpod/internal/web"
	"github.com/pixpod/pixpod/pkg/agent"
	"github.com/pixpod/pixpod/pkg/credentials"
	"github.com/pixpod/pixpod/pkg/secrets"
	"github.com/pixpod/pixpod/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the PixPod web server",
	Long: `Start the chat front-end server. The server stays up until it
receives SIGINT or SIGTERM, then shuts down gracefully.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   cfg.Logging.Console,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return err
	}
	defer log.Close()
	zl := log.GetZerolog()

	m := metrics.New()

	// Secret store, hot-reloaded so new credentials apply on retry
	// without a restart.
	store := secrets.Open(cfg.Secrets.Path, zl)
	defer store.Close()
	if cfg.Secrets.Watch {
		if err := store.Watch(); err != nil {
			zl.Warn().Err(err).Msg("Secrets watch unavailable, continuing without hot reload")
		}
	}

	resolver := credentials.NewResolver(zl,
		credentials.DefaultSources(store, cfg.AWS.Region)...)
	resolver.Observe = func(source, status string) {
		m.CredentialResolutionsTotal.WithLabelValues(source, status).Inc()
	}

	sessions := session.NewStore(zl)
	sessions.OnCreate = func() {
		m.SessionsActive.Inc()
		m.SessionsTotal.Inc()
	}
	sessions.OnRemove = func() {
		m.SessionsActive.Dec()
	}

	reaper := session.NewReaper(sessions, cfg.Sessions.IdleTTL(), cfg.Sessions.ReapSchedule, zl)
	if err := reaper.Start(); err != nil {
		return err
	}
	defer reaper.Stop()

	server, err := web.NewServer(
		web.ServerOptions{
			Host:               cfg.Server.Host,
			Port:               cfg.Server.Port,
			RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		},
		sessions,
		resolver,
		agent.NewConfigProvider(store, zl),
		func(awsCfg aws.Config) agent.Caller { return agent.NewBedrockCaller(awsCfg) },
		m,
		zl,
	)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zl.Info().Str("signal", sig.String()).Msg("Shutting down")
		if err := server.Stop(); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server exited: %w", err)
		}
		return nil
	}
}
