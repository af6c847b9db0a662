package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RowanDark/monocrack/internal/api"
	"github.com/RowanDark/monocrack/internal/config"
	"github.com/RowanDark/monocrack/internal/logging"
	obsmetrics "github.com/RowanDark/monocrack/internal/observability/metrics"
	"github.com/RowanDark/monocrack/internal/rpc"
)

var version = "dev"

// listeners are the sockets the daemon serves on. A nil listener disables
// that surface.
type listeners struct {
	api     net.Listener
	grpc    net.Listener
	metrics net.Listener
}

func main() {
	apiAddr := flag.String("api-addr", "", "address for the REST API (overrides api.addr)")
	grpcAddr := flag.String("grpc-addr", "", "address for the gRPC service (overrides grpc.addr)")
	metricsAddr := flag.String("metrics-addr", "", "address for the Prometheus metrics endpoint (overrides metrics_addr)")
	journalPath := flag.String("journal", "", "path of the crack journal (overrides journal_path)")
	crackTimeout := flag.Duration("crack-timeout", 2*time.Minute, "maximum duration of a single crack")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("monocrackd " + version)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	if *apiAddr != "" {
		cfg.API.Addr = *apiAddr
	}
	if *grpcAddr != "" {
		cfg.GRPC.Addr = *grpcAddr
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if *journalPath != "" {
		cfg.JournalPath = *journalPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runDaemon(ctx, cfg, *crackTimeout, logger); err != nil {
		logger.Error("monocrackd exited", "error", err)
		os.Exit(1)
	}
}

// runDaemon opens the configured listeners and serves until ctx ends.
func runDaemon(ctx context.Context, cfg config.Config, crackTimeout time.Duration, logger *slog.Logger) error {
	var (
		ls  listeners
		err error
	)
	closeAll := func() {
		for _, l := range []net.Listener{ls.api, ls.grpc, ls.metrics} {
			if l != nil {
				_ = l.Close()
			}
		}
	}
	if cfg.API.Addr != "" {
		if ls.api, err = net.Listen("tcp", cfg.API.Addr); err != nil {
			return fmt.Errorf("listen api: %w", err)
		}
	}
	if cfg.GRPC.Addr != "" {
		if ls.grpc, err = net.Listen("tcp", cfg.GRPC.Addr); err != nil {
			closeAll()
			return fmt.Errorf("listen grpc: %w", err)
		}
	}
	if cfg.MetricsAddr != "" {
		if ls.metrics, err = net.Listen("tcp", cfg.MetricsAddr); err != nil {
			closeAll()
			return fmt.Errorf("listen metrics: %w", err)
		}
	}
	return serve(ctx, cfg, crackTimeout, ls, logger)
}

// serve runs every surface with a listener until ctx is cancelled or one of
// them fails.
func serve(ctx context.Context, cfg config.Config, crackTimeout time.Duration, ls listeners, logger *slog.Logger) error {
	model, err := cfg.ApplyLanguage()
	if err != nil {
		return err
	}

	journalOpts := []logging.Option{}
	if cfg.JournalPath != "" {
		journalOpts = append(journalOpts, logging.WithoutStdout(), logging.WithFile(cfg.JournalPath))
	}
	journal, err := logging.NewEventLogger("monocrackd", journalOpts...)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer journal.Close()
	_ = journal.Emit(logging.Event{
		EventType: logging.EventServiceLifecycle,
		Metadata:  map[string]any{"phase": "starting", "version": version, "language": model.Name()},
	})

	defaults := cfg.Request("", "")
	group, gctx := errgroup.WithContext(ctx)

	if ls.api != nil {
		apiServer, err := api.NewServer(api.Config{
			Addr:         ls.api.Addr().String(),
			Defaults:     defaults,
			CrackTimeout: crackTimeout,
			Logger:       journal.WithComponent("api"),
		})
		if err != nil {
			return err
		}
		logger.Info("rest api listening", "addr", ls.api.Addr().String())
		group.Go(func() error { return apiServer.Serve(gctx, ls.api) })
	}

	if ls.grpc != nil {
		crackerServer := rpc.NewServer(
			rpc.WithEventLogger(journal.WithComponent("rpc")),
			rpc.WithDefaults(defaults),
			rpc.WithCrackTimeout(crackTimeout),
		)
		logger.Info("grpc listening", "addr", ls.grpc.Addr().String(), "max_conns", cfg.GRPC.MaxConns)
		group.Go(func() error { return rpc.Serve(gctx, ls.grpc, crackerServer, cfg.GRPC.MaxConns) })
	}

	if ls.metrics != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", obsmetrics.Handler())
		metricsSrv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		logger.Info("metrics listening", "addr", ls.metrics.Addr().String())
		group.Go(func() error {
			if err := metricsSrv.Serve(ls.metrics); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		group.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metricsSrv.Shutdown(shutdownCtx)
		})
	}

	err = group.Wait()
	_ = journal.Emit(logging.Event{
		EventType: logging.EventServiceLifecycle,
		Metadata:  map[string]any{"phase": "stopped"},
	})
	logger.Info("monocrackd stopped")
	return err
}
