package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/goodnatureofminers/otsproof-backend/internal/calendar"
	"github.com/goodnatureofminers/otsproof-backend/internal/confirmation"
	"github.com/goodnatureofminers/otsproof-backend/internal/explorer"
	"github.com/goodnatureofminers/otsproof-backend/internal/metrics"
	rpcclient2 "github.com/goodnatureofminers/otsproof-backend/internal/pkg/btcd/rpcclient"
	"github.com/goodnatureofminers/otsproof-backend/internal/proof/service"
	"github.com/goodnatureofminers/otsproof-backend/internal/store/clickhouse"
	"github.com/goodnatureofminers/otsproof-backend/internal/store/file"
	"github.com/goodnatureofminers/otsproof-backend/internal/store/sqlite"
	"github.com/goodnatureofminers/otsproof-backend/internal/transport"
)

type config struct {
	Addr     string `long:"addr" env:"OTSPROOF_GRPC_ADDR" description:"gRPC health addr" default:":8000"`
	RestAddr string `long:"rest-addr" env:"OTSPROOF_REST_ADDR" description:"REST API addr" default:":8080"`

	Store         string `long:"store" env:"OTSPROOF_STORE" description:"proof store backend" choice:"file" choice:"sqlite" choice:"clickhouse" default:"file"`
	StoragePath   string `long:"storage-path" env:"STORAGE_PATH" description:"root directory of the file store" default:"./local_storage"`
	SQLiteDSN     string `long:"sqlite-dsn" env:"OTSPROOF_SQLITE_DSN" description:"SQLite DSN" default:"file:otsproof.db?_pragma=busy_timeout(5000)"`
	ClickhouseDSN string `long:"clickhouse-dsn" env:"OTSPROOF_CLICKHOUSE_DSN" description:"ClickHouse DSN"`

	Explorer      string        `long:"explorer" env:"OTSPROOF_EXPLORER" description:"block time source" choice:"esplora" choice:"node" choice:"none" default:"esplora"`
	EsploraURL    string        `long:"esplora-url" env:"OTSPROOF_ESPLORA_URL" description:"Esplora API base URL" default:"https://mempool.space/api"`
	EsploraRate   int           `long:"esplora-rate" env:"OTSPROOF_ESPLORA_RATE" description:"Esplora requests per second, 0 for unlimited" default:"5"`
	RPCURL        string        `long:"rpc-url" env:"OTSPROOF_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser       string        `long:"rpc-user" env:"OTSPROOF_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword   string        `long:"rpc-password" env:"OTSPROOF_RPC_PASSWORD" description:"Bitcoin RPC password"`
	HTTPTimeout   time.Duration `long:"http-timeout" env:"OTSPROOF_HTTP_TIMEOUT" description:"timeout for a single explorer request" default:"10s"`
	LookupTimeout time.Duration `long:"lookup-timeout" env:"OTSPROOF_LOOKUP_TIMEOUT" description:"timeout for a whole block time lookup" default:"20s"`

	Calendars       []string      `long:"calendar" env:"OTSPROOF_CALENDARS" env-delim:"," description:"trusted calendar URL (repeatable)"`
	CalendarTimeout time.Duration `long:"calendar-timeout" env:"OTSPROOF_CALENDAR_TIMEOUT" description:"timeout for a calendar request" default:"10s"`
	CalendarRate    int           `long:"calendar-rate" env:"OTSPROOF_CALENDAR_RATE" description:"calendar requests per second, 0 for unlimited" default:"10"`

	InitialDelay  time.Duration `long:"initial-delay" env:"OTSPROOF_INITIAL_DELAY" description:"delay before the first sweep" default:"5s"`
	SweepInterval time.Duration `long:"sweep-interval" env:"OTSPROOF_SWEEP_INTERVAL" description:"pause between sweeps" default:"60s"`

	AuthTokens      string   `long:"auth-tokens" env:"AUTH_TOKENS" description:"JSON object mapping API tokens to packer names"`
	AllowedOrigins  []string `long:"allowed-origin" env:"OTSPROOF_ALLOWED_ORIGINS" env-delim:"," description:"CORS origin (repeatable)"`
	Timezone        string   `long:"timezone" env:"OTSPROOF_TIMEZONE" description:"IANA zone of confirmation display strings" default:"UTC"`
	LegacyWallClock bool     `long:"legacy-wall-clock" env:"OTSPROOF_LEGACY_WALL_CLOCK" description:"stamp the lookup time when a block time is unknown"`
}

type proofStore interface {
	service.ProofStore
	Close() error
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("proof server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	tokens, err := transport.ParseTokens(cfg.AuthTokens)
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("init %s store: %w", cfg.Store, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("close proof store", zap.Error(err))
		}
	}()

	blockExplorer, shutdownExplorer, err := newBlockExplorer(cfg)
	if err != nil {
		return fmt.Errorf("init block explorer: %w", err)
	}
	defer shutdownExplorer()

	resolver := confirmation.NewResolver(blockExplorer, logger,
		confirmation.WithLocation(loc),
		confirmation.WithLookupTimeout(cfg.LookupTimeout),
		confirmation.WithLegacyWallClockFallback(cfg.LegacyWallClock),
	)
	calendarOpts := []calendar.Option{
		calendar.WithTimeout(cfg.CalendarTimeout),
		calendar.WithRateLimit(cfg.CalendarRate),
	}
	if len(cfg.Calendars) > 0 {
		calendarOpts = append(calendarOpts, calendar.WithCalendars(cfg.Calendars))
	}
	upgrader := calendar.NewClient(logger, metrics.NewCalendar(), calendarOpts...)

	healthServer := health.NewServer()
	healthReporter := transport.NewHealthReporter(healthServer, logger)

	reconciler := service.NewReconciler(store, upgrader, resolver, metrics.NewReconciler(), healthReporter, logger)
	proofs := service.NewProofService(store, logger)
	scheduler := service.NewSchedulerService(reconciler, logger, cfg.InitialDelay, cfg.SweepInterval)

	if err := startGRPCServer(ctx, cfg.Addr, healthServer, healthReporter, logger); err != nil {
		return err
	}

	gw := gwruntime.NewServeMux()
	handler := transport.NewProofHandler(proofs, reconciler, transport.NewAuthenticator(tokens, logger), logger)
	if err := handler.Register(gw); err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/", gw)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Handler:           transport.NewCORS(cfg.AllowedOrigins).Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	socket, err := net.Listen("tcp", cfg.RestAddr)
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	httpStopped := startHTTPServer(ctx, srv, socket, logger)

	err = scheduler.Run(ctx)
	cancel()
	// the store is closed on return, wait for in-flight requests first
	<-httpStopped
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// startHTTPServer serves on socket until ctx ends. The returned channel is
// closed once the server has shut down and in-flight requests are done.
func startHTTPServer(ctx context.Context, srv *http.Server, socket net.Listener, logger *zap.Logger) <-chan struct{} {
	stopped := make(chan struct{})
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", socket.Addr().String()))
		if err := srv.Serve(socket); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to listen and serve", zap.Error(err))
		}
	}()
	go func() {
		defer close(stopped)
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()
	return stopped
}

func startGRPCServer(ctx context.Context, addr string, healthServer *health.Server, reporter *transport.HealthReporter, logger *zap.Logger) error {
	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(grpcServer)

	socket, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}
	go func() {
		if serveErr := grpcServer.Serve(socket); serveErr != nil {
			logger.Error("GRPC server stopped", zap.Error(serveErr))
		}
	}()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server")
		reporter.Shutdown()
		grpcServer.GracefulStop()
	}()
	return nil
}

func newStore(cfg config) (proofStore, error) {
	switch cfg.Store {
	case "sqlite":
		return sqlite.Open(cfg.SQLiteDSN, metrics.NewStore("sqlite"))
	case "clickhouse":
		if cfg.ClickhouseDSN == "" {
			return nil, errors.New("ClickHouse DSN is required")
		}
		return clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewStore("clickhouse"))
	default:
		s, err := file.NewStore(filepath.Join(cfg.StoragePath, "data", "proofs.json"), metrics.NewStore("file"))
		if err != nil {
			return nil, err
		}
		return nopCloser{s}, nil
	}
}

type nopCloser struct {
	*file.Store
}

func (nopCloser) Close() error { return nil }

func newBlockExplorer(cfg config) (confirmation.BlockExplorer, func(), error) {
	switch cfg.Explorer {
	case "none":
		return nil, func() {}, nil
	case "node":
		client, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
		if err != nil {
			return nil, nil, err
		}
		observed := rpcclient2.NewObservedClient(client, metrics.NewExplorer("node"))
		return explorer.NewNodeRPC(observed, cfg.HTTPTimeout), func() {
			client.Shutdown()
			client.WaitForShutdown()
		}, nil
	default:
		return explorer.NewEsplora(cfg.EsploraURL, metrics.NewExplorer("esplora"),
			explorer.WithRateLimit(cfg.EsploraRate),
			explorer.WithTimeout(cfg.HTTPTimeout),
		), func() {}, nil
	}
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}
