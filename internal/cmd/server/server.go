// Package server parses command-service flags and launches its runtime: the
// command engine, the read views, an embedded outbox drain loop, and a gRPC
// health server for orchestration probes.
package server

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/louisbranch/trackspace/internal/app"
	entrypoint "github.com/louisbranch/trackspace/internal/platform/cmd"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Config holds command-service configuration.
type Config struct {
	Port            int           `env:"TRACKSPACE_SERVER_PORT" envDefault:"8082"`
	EventsDBPath    string        `env:"TRACKSPACE_SERVER_EVENTS_DB_PATH" envDefault:"data/events.db"`
	ProjectionsPath string        `env:"TRACKSPACE_SERVER_PROJECTIONS_DB_PATH" envDefault:"data/projections.db"`
	// InlineApply applies projections synchronously after each accepted
	// command so callers read their own writes.
	InlineApply  bool          `env:"TRACKSPACE_SERVER_INLINE_APPLY" envDefault:"false"`
	PollInterval time.Duration `env:"TRACKSPACE_SERVER_POLL_INTERVAL" envDefault:"2s"`
	BatchSize    int           `env:"TRACKSPACE_SERVER_BATCH_SIZE" envDefault:"50"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The server health gRPC port")
	fs.StringVar(&cfg.EventsDBPath, "events-db-path", cfg.EventsDBPath, "The event journal SQLite database path")
	fs.StringVar(&cfg.ProjectionsPath, "projections-db-path", cfg.ProjectionsPath, "The read view SQLite database path")
	fs.BoolVar(&cfg.InlineApply, "inline-apply", cfg.InlineApply, "Apply projections synchronously after each command")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "Projection outbox poll interval")
	fs.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "Maximum outbox rows claimed per pass")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the command-service runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		return runRuntime(ctx, cfg)
	})
}

func runRuntime(ctx context.Context, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for _, path := range []string{cfg.EventsDBPath, cfg.ProjectionsPath} {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create storage dir: %w", err)
			}
		}
	}

	application, err := app.New(app.Options{
		EventsPath:      cfg.EventsDBPath,
		ProjectionsPath: cfg.ProjectionsPath,
		InlineApply:     cfg.InlineApply,
		PollInterval:    cfg.PollInterval,
		BatchSize:       cfg.BatchSize,
		Logf:            log.Printf,
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := application.Close(); closeErr != nil {
			log.Printf("close stores: %v", closeErr)
		}
	}()

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on server port %d: %w", cfg.Port, err)
	}
	defer listener.Close()

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("server.runtime", grpc_health_v1.HealthCheckResponse_SERVING)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	defer func() {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		<-serveErr
	}()

	log.Printf("server listening at %v", listener.Addr())
	// The server keeps projections current even when nothing external runs
	// the standalone worker.
	return application.Worker.Run(ctx)
}
