package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	api "clubhub-backend/internal/api/grpc"
	httpapi "clubhub-backend/internal/api/http"
	"clubhub-backend/internal/app"
	"clubhub-backend/internal/config"
	"clubhub-backend/internal/jobs"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/metrics"
	"clubhub-backend/internal/push"
	"clubhub-backend/internal/realtime"
	"clubhub-backend/internal/scheduler"
	"clubhub-backend/internal/security"
	"clubhub-backend/internal/service"
	"clubhub-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ClubHub backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "grpc_address", cfg.GetServerAddress(), "http_address", cfg.GetHTTPAddress(), "store", cfg.Store.Type)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	store, release, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New()
	m.Register(registry)

	// Live delivery channels
	hub := realtime.NewHub(m, cfg.Server.AllowedOrigins)
	deliverers := []service.Deliverer{hub}

	var fcm *push.FCMDeliverer
	if cfg.Push.Enabled {
		fcm, err = push.NewFCMDeliverer(ctx, push.Config{
			CredentialsFile: cfg.Push.CredentialsFile,
			ProjectID:       cfg.Push.ProjectID,
			QueueSize:       cfg.Push.QueueSize,
			SendTimeout:     cfg.Push.SendTimeout,
		}, store.Users())
		if err != nil {
			return err
		}
		deliverers = append(deliverers, fcm)
		logger.Info("Push notifications enabled", "project_id", cfg.Push.ProjectID)
	}

	blobs, err := app.OpenStorage(cfg)
	if err != nil {
		return err
	}
	logger.Info("Logo storage ready", "type", cfg.Storage.Type)

	// Services
	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	notes := service.NewNotificationService(store, m, deliverers...)
	users := service.NewUserService(store.Users())
	email := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)

	if err := app.BootstrapUsers(ctx, users, cfg.Bootstrap.Users); err != nil {
		return err
	}

	svcs := api.Services{
		Auth:          service.NewAuthService(store, notes, tokens),
		Users:         users,
		Clubs:         service.NewClubService(store, notes, m),
		Memberships:   service.NewMembershipService(store, notes),
		JoinRequests:  service.NewJoinRequestService(store, notes),
		Logos:         service.NewLogoService(store, notes, blobs, cfg.Storage.UploadURLExpiry, cfg.Storage.DownloadURLExpiry),
		Events:        service.NewEventService(store, notes, m),
		Registrations: service.NewRegistrationService(store, notes, cfg.Registration.EnforceCapacity),
		Notifications: notes,
		Reports:       service.NewReportService(store),
	}

	grpcServer, healthSrv := api.NewServer(svcs, api.ServerOptions{
		Tokens:            tokens,
		Metrics:           m,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})

	// HTTP side-surface: health, metrics, notification stream and mock storage
	routerCfg := httpapi.RouterConfig{Stream: hub, Tokens: tokens, Gatherer: registry}
	if mock, ok := blobs.(*storage.MockStorageService); ok {
		routerCfg.Blobs = mock
	}
	httpServer := &http.Server{
		Addr:              cfg.GetHTTPAddress(),
		Handler:           httpapi.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.GetServerAddress())
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if fcm != nil {
		g.Go(func() error {
			fcm.Run(gctx)
			return nil
		})
	}

	if cfg.Scheduler.Enabled {
		runner := jobs.NewJobRunner(store, &jobs.Services{Email: email, Notifications: notes}, m, cfg.Scheduler)
		sched, err := scheduler.NewScheduler(runner)
		if err != nil {
			lis.Close()
			return err
		}
		g.Go(func() error { return sched.Run(gctx) })
	}

	g.Go(func() error {
		logger.Info("gRPC server listening", "address", cfg.GetServerAddress())
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		logger.Info("HTTP server listening", "address", cfg.GetHTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")
		healthSrv.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP shutdown incomplete", "error", err)
		}

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			logger.Warn("Forcing gRPC shutdown")
			grpcServer.Stop()
		}
		return nil
	})

	return g.Wait()
}
