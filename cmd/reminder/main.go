// Command reminder posts Formula 1 session reminders to a Discord webhook.
//
// Usage:
//
//	reminder                        # schedule reminders and wait for them
//	reminder --test-next-event      # send the next upcoming session now
//	reminder --test-previous-event  # send the most recent past session now
//	reminder sessions               # dry run: what would be scheduled
//	reminder grid --season 2024 --round 10 --circuit catalunya

// @title F1 Reminder Status API
// @version 1.0.0
// @description Read-only view of the pending Discord race-weekend reminders. Enabled with STATUS_ADDR.
// @host localhost:8080
// @BasePath /
// @schemes http
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	_ "github.com/fenneh/discord-f1-reminder/docs" // swagger docs
	"github.com/fenneh/discord-f1-reminder/internal/api"
	"github.com/fenneh/discord-f1-reminder/internal/config"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// root command
// --------------------------------------------------------------------------

func rootCmd() *cobra.Command {
	var testNext, testPrevious bool
	cmd := &cobra.Command{
		Use:          "reminder",
		Short:        "F1 race weekend reminders for Discord",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				switch {
				case testNext:
					if _, err := a.service.ProbeNext(ctx); err != nil {
						logger.Error("Test notification for next session failed", "error", err)
					}
					return nil
				case testPrevious:
					if _, err := a.service.ProbePrevious(ctx); err != nil {
						logger.Error("Test notification for previous session failed", "error", err)
					}
					return nil
				default:
					return runScheduler(ctx, a)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&testNext, "test-next-event", false, "Send a test notification for the next upcoming session immediately")
	cmd.Flags().BoolVar(&testPrevious, "test-previous-event", false, "Send a test notification for the most recently completed session immediately")
	cmd.MarkFlagsMutuallyExclusive("test-next-event", "test-previous-event")

	cmd.AddCommand(sessionsCmd())
	cmd.AddCommand(gridCmd())
	return cmd
}

// runScheduler runs the scheduling loop and, when STATUS_ADDR is set, the
// status API. Both stop when the loop has nothing left to send or on
// interrupt.
func runScheduler(ctx context.Context, a *app) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return a.service.Run(gctx)
	})
	if a.cfg.StatusAddr != "" {
		router := api.NewRouter(a.scheduler, a.cache, a.cfg)
		g.Go(func() error {
			return api.Serve(gctx, a.cfg.StatusAddr, router, logger)
		})
	}
	return g.Wait()
}

// withApp loads configuration, wires dependencies and runs fn with a
// context cancelled on SIGINT/SIGTERM.
func withApp(fn func(ctx context.Context, a *app) error) error {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		return err
	}

	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}
	if !cfg.HasWebhook() {
		logger.Error("DISCORD_WEBHOOK_URL not set in environment, notifications will not be delivered")
	}
	logger.Info("Configuration loaded",
		"lead_minutes", cfg.LeadMinutes(),
		"bot_name", cfg.BotName,
		"weather", cfg.WeatherAPIKey != "",
		"refresh", cfg.RefreshCron)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := newApp(cfg)
	defer a.Close()

	if err := fn(ctx, a); err != nil {
		return fmt.Errorf("reminder: %w", err)
	}
	return nil
}
