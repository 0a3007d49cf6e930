// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"hackdir/internal/adapter/storage"
	"hackdir/internal/config"
	"hackdir/internal/domain/event"
	geodomain "hackdir/internal/domain/geo"
	"hackdir/internal/server"
	"hackdir/internal/service/directory"
	geoService "hackdir/internal/service/geo"
)

func main() {
	// Load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Load the event snapshot exactly once
	source, db, err := initSnapshotSource(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize snapshot source: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	events, err := source.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load event snapshot: %v", err)
	}

	snapshot := directory.BuildSnapshot(events, time.Now())
	log.Printf("Loaded %d events: %d upcoming, %d past, %d malformed",
		snapshot.Stats.Total,
		len(snapshot.Buckets[directory.BucketFuture]),
		len(snapshot.Buckets[directory.BucketPast]),
		snapshot.Stats.Malformed,
	)

	// Push channel for resolution notices
	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		if cfg.Environment != "development" {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		log.Printf("NATS unavailable, resolution notices disabled: %v", err)
		natsConn = nil
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	// Geocoding collaborator with a Redis response cache
	geocoder := initGeocoder(cfg)
	resolver := geoService.NewResolver(geocoder)

	// Session registry over the shared snapshot
	sessions := directory.NewSessionManager(snapshot, resolver, natsConn, directory.SessionManagerConfig{
		IdleExpiry:    cfg.Session.IdleExpiry,
		SweepSchedule: cfg.Session.SweepSchedule,
	})
	if err := sessions.StartSweeper(); err != nil {
		log.Fatalf("Failed to start session sweeper: %v", err)
	}

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, natsConn, sessions)

	// Start HTTP server
	go func() {
		log.Printf("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Println("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	log.Println("Shutting down services...")

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	sessions.Stop()

	log.Println("Shutdown complete")
}

// initSnapshotSource selects the configured snapshot collaborator. The
// returned pool is non-nil only for the postgres source.
func initSnapshotSource(ctx context.Context, cfg config.Config) (event.SnapshotSource, *pgxpool.Pool, error) {
	switch cfg.Snapshot.Source {
	case "postgres":
		db, err := initDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewEventStore(db), db, nil
	default:
		return storage.NewFileStore(cfg.Snapshot.File), nil, nil
	}
}

// initGeocoder builds the geocoding collaborator. Without an API key in
// development every resolution fails soft and the directory stays on
// chronological ordering.
func initGeocoder(cfg config.Config) geodomain.Geocoder {
	mapsGeocoder, err := geoService.NewMapsGeocoder(cfg.Geocoder.APIKey)
	if err != nil {
		log.Printf("Geocoding disabled: %v", err)
		return geoService.DisabledGeocoder{}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	return geoService.NewCachedGeocoder(mapsGeocoder, rdb, cfg.Geocoder.CacheTTL)
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
