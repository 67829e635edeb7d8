package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/foadjalali/tcmindai/internal/config"
	"github.com/foadjalali/tcmindai/internal/content"
	"github.com/foadjalali/tcmindai/internal/observability"
	"github.com/foadjalali/tcmindai/internal/seo"
)

const shutdownTimeout = 10 * time.Second

var (
	// cfgFile is the optional YAML configuration file.
	cfgFile string
	// envFile is the optional dotenv file.
	envFile string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "web",
		Short:        "Serve the TechnomindAI marketing site",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "site.yml", "YAML config file (optional)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file (optional)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate content documents and the SEO document",
		Long: `Validates every content document against its schema, checks that each
has a base locale entry, and parses the SEO document. Exits non-zero when
anything is wrong.`,
		RunE: runCheck,
	})
	return root
}

func loadConfig() (config.Config, error) {
	return config.Load(config.WithConfigFile(cfgFile), config.WithEnvFile(envFile))
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	a, err := newApp(cfg, logger, nil)
	if err != nil {
		logger.Error("init app", zap.Error(err))
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           a.routes(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web listening",
			zap.String("addr", srv.Addr),
			zap.Bool("dev", cfg.Dev),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("listen", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
		return err
	}
	return nil
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return check(cmd, cfg)
}

// check reports content and SEO problems on the command's output.
func check(cmd *cobra.Command, cfg config.Config) error {
	out := cmd.OutOrStdout()
	issues, err := content.NewLoader(cfg.ContentDir).Check()
	if err != nil {
		return err
	}
	for _, is := range issues {
		fmt.Fprintln(out, is.String())
	}
	synth := seo.NewSynthesizer(cfg.SEOPath(), cfg.SiteURL, cfg.SiteName)
	if _, err := synth.Document(); err != nil {
		fmt.Fprintln(out, err.Error())
		return fmt.Errorf("check: seo document invalid")
	}
	if len(issues) > 0 {
		return fmt.Errorf("check: %d content issue(s)", len(issues))
	}
	fmt.Fprintln(out, "ok")
	return nil
}
