// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/quixsi/seating/internal/config"
	"github.com/quixsi/seating/internal/db/csvdb"
	"github.com/quixsi/seating/internal/model"
	"github.com/quixsi/seating/internal/server"
	"github.com/quixsi/seating/internal/server/templates"
	"github.com/quixsi/seating/internal/session"
)

func main() {
	var (
		configPath  = flag.String("config", "seating.yaml", "path to the YAML config file")
		addr        = flag.String("addr", "", "server address, overrides the config file")
		source      = flag.String("source", "", "seating chart CSV path or URL, overrides the config file")
		otlpAddr    = flag.String("otlp-grpc", "", "default otlp/gRPC address, by default disabled. Example value: localhost:4317")
		logLevelArg = flag.String("log-level", "INFO", "log level")
		staticDir   = flag.String("static-dir", "", "path to static directory")
	)
	flag.Parse()

	var logLevel slog.Level
	err := logLevel.UnmarshalText([]byte(*logLevelArg))
	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(jsonHandler)
	if err != nil {
		logger.Error("unable to parse log level", "level-input", *logLevelArg, "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("unable to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *source != "" {
		cfg.Source = *source
	}
	if *staticDir != "" {
		cfg.StaticDir = *staticDir
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger.Info("start and listen", "address", cfg.Addr)
	logger.Info("otlp/gRPC", "address", *otlpAddr, "service", cfg.ServiceName)
	logger.Info("seating chart", "source", cfg.Source, "schema", cfg.Schema)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *otlpAddr != "" {
		shutdown := setupOTLP(ctx, logger, *otlpAddr)
		defer shutdown()
	}

	schema, _ := model.ParseSchema(cfg.Schema)
	guestsStore, err := csvdb.NewGuestStore(cfg.Source, schema, csvdb.WithCacheBust(cfg.CacheBust))
	if err != nil {
		logger.Error("could not initialize guest store", "error", err)
		os.Exit(1)
	}

	opts, err := cfg.DirectoryOptions()
	if err != nil {
		logger.Error("could not build directory options", "error", err)
		os.Exit(1)
	}
	logger.Info("seating map", "tables", len(opts.Tables))

	sessions := session.NewStore(guestsStore, opts, cfg.SessionTTL, cfg.MaxSessions)
	if cfg.SessionTTL > 0 {
		go sessions.Run(ctx, cfg.SessionTTL/2)
	}

	widget, err := templates.NewWidgetHandler(sessions, cfg.Title, cfg.Welcome)
	if err != nil {
		logger.Error("could not initialize templates", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewServer(cfg.ServiceName, cfg.StaticDir, sessions, widget),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("error during shutdown", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("error during listen and serve", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown")
}

func setupOTLP(ctx context.Context, logger *slog.Logger, otlpAddr string) func() {
	conn, err := grpc.NewClient(otlpAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Error("failed to create gRPC connection to collector", "error", err)
		os.Exit(1)
	}

	// Set up a trace exporter
	otelExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		logger.Error("failed to create trace exporter", "error", err)
		os.Exit(1)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(otelExporter))
	otel.SetTracerProvider(tp)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down tracer provider", "error", err)
		}
		conn.Close()
	}
}
