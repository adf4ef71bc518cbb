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

	"gig-marketplace/internal/auth"
	"gig-marketplace/internal/config"
	"gig-marketplace/internal/db"
	"gig-marketplace/internal/events"
	"gig-marketplace/internal/hiring"
	"gig-marketplace/internal/marketplace"
	model "gig-marketplace/internal/models"
	"gig-marketplace/internal/notification"
	"gig-marketplace/internal/realtime"
	"gig-marketplace/internal/registry"
	"gig-marketplace/internal/repository"
	"gig-marketplace/internal/repository/postgres"
	"gig-marketplace/internal/repository/sqlite"
	"gig-marketplace/internal/server"
	"gig-marketplace/utils"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		utils.Warn("invalid log level, keeping default", map[string]any{"level": cfg.LogLevel, "error": err.Error()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		utils.Fatal("server stopped with error", map[string]any{"error": err.Error()})
	}
	utils.Info("server stopped", nil)
}

func run(ctx context.Context, cfg config.Config) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			utils.Warn("failed to close store", map[string]any{"error": err.Error()})
		}
	}()

	connections := registry.NewConnectionRegistry()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	hub := realtime.NewHub(connections, tokens, cfg.WSSendBuffer, cfg.AllowedOrigins())
	fanout := notification.NewFanout(store, connections, hub, cfg.NotificationListLimit)

	dispatcher := events.NewDispatcher(fanout, cfg.DispatchWorkers, cfg.DispatchBuffer)
	dispatcher.Start()

	router := server.SetupRouter(server.Services{
		Gigs:          marketplace.NewGigService(store),
		Bids:          marketplace.NewBidService(store, dispatcher),
		Hiring:        hiring.NewCoordinator(store, dispatcher),
		Notifications: fanout,
		Verifier:      tokens,
		Realtime:      hub.ServeWS,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.Info("starting marketplace server", map[string]any{"addr": cfg.ServerAddress, "store": cfg.StoreDriver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		utils.Info("shutting down", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		// websocket connections are hijacked, Shutdown does not wait for them
		hub.Close()
		// queued notifications are persisted before the store closes
		dispatcher.Close()

		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// openStore connects the configured backend
func openStore(ctx context.Context, cfg config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		if err := db.RunMigrations(cfg.PostgresConn); err != nil {
			return nil, err
		}
		pool, err := db.InitPool(ctx, cfg.PostgresConn)
		if err != nil {
			return nil, err
		}
		return postgres.NewRepo(pool), nil
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.SQLitePath, cfg.SQLitePoolSize)
	default:
		repo := repository.NewMemoryRepo()
		prepopulateGigs(repo)
		return repo, nil
	}
}

// prepopulateGigs adds sample gigs to the in-memory repo
func prepopulateGigs(repo *repository.MemoryRepo) {
	now := time.Now().UTC()
	gigs := []model.Gig{
		{ID: "gig1", OwnerID: "client1", Title: "Landing page redesign", Description: "Modernize our marketing site", Budget: 5000},
		{ID: "gig2", OwnerID: "client1", Title: "Logo design", Description: "Vector logo and brand colors", Budget: 800},
		{ID: "gig3", OwnerID: "client2", Title: "REST API integration", Description: "Connect billing to our backend", Budget: 2500},
	}

	for i, gig := range gigs {
		gig.Status = model.GigStatusOpen
		gig.CreatedAt = now.Add(time.Duration(i) * time.Second)
		gig.UpdatedAt = gig.CreatedAt
		repo.AddGig(gig)
	}
}
