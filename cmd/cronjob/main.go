package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"clubhub-backend/internal/app"
	"clubhub-backend/internal/config"
	"clubhub-backend/internal/jobs"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/scheduler"
	"clubhub-backend/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "cronjob",
		Short:         "Run ClubHub background jobs",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "Path to configuration file")

	root.AddCommand(
		&cobra.Command{
			Use:       "run <job>",
			Short:     "Run a single job once and exit",
			Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
			ValidArgs: jobs.Names(),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withRunner(cmd.Context(), configPath, func(ctx context.Context, runner *jobs.JobRunner) error {
					logger.Info("Running job once", "job", args[0])
					return runner.Run(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "all",
			Short: "Run every job once and exit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withRunner(cmd.Context(), configPath, func(ctx context.Context, runner *jobs.JobRunner) error {
					return runner.RunAll()
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the available jobs",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				for _, name := range jobs.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
			},
		},
		&cobra.Command{
			Use:   "schedule",
			Short: "Run jobs on their configured cron schedules until interrupted",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withRunner(cmd.Context(), configPath, func(ctx context.Context, runner *jobs.JobRunner) error {
					sched, err := scheduler.NewScheduler(runner)
					if err != nil {
						return err
					}
					logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")
					return sched.Run(ctx)
				})
			},
		},
	)
	return root
}

// withRunner loads configuration, opens the store and hands fn a job runner.
// The context is cancelled on SIGINT or SIGTERM.
func withRunner(parent context.Context, configPath string, fn func(ctx context.Context, runner *jobs.JobRunner) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	if err := requireSharedStore(cfg); err != nil {
		return err
	}
	logger.Info("Starting ClubHub cronjob runner...", "log_level", cfg.Log.Level, "store", cfg.Store.Type)

	store, release, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	// Jobs write inboxes only; live channels belong to the server process.
	notes := service.NewNotificationService(store, nil)
	email := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	runner := jobs.NewJobRunner(store, &jobs.Services{Email: email, Notifications: notes}, nil, cfg.Scheduler)

	return fn(ctx, runner)
}

// requireSharedStore refuses the in-process store: a fresh memory store holds
// no data, so every job would succeed without doing anything. The server runs
// the same jobs itself when scheduler.enabled is set.
func requireSharedStore(cfg *config.Config) error {
	if cfg.Store.Type != "postgres" {
		return fmt.Errorf("store type %q is private to one process; jobs need the shared postgres store (or enable the scheduler in the server)", cfg.Store.Type)
	}
	return nil
}
