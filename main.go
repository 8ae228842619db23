package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mirola777/idempotent-charges/internal/application/use_cases"
	gormdb "github.com/mirola777/idempotent-charges/internal/infrastructure/gorm"
	"github.com/mirola777/idempotent-charges/internal/infrastructure/logging"
	"github.com/mirola777/idempotent-charges/internal/infrastructure/metrics"
	echoserver "github.com/mirola777/idempotent-charges/internal/presentation/echo"
	"github.com/mirola777/idempotent-charges/internal/utils/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	db, err := gormdb.NewConnection(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := gormdb.RunMigrations(db, logger.Named("migrations")); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container := use_cases.NewContainer(ctx, db, cfg, logger, metrics.New(reg))

	server := echoserver.NewServer(cfg, container, reg, logger.Named("http"))

	errC := server.Start()
	if err := <-errC; err != nil {
		logger.Error("server error", zap.Error(err))
		cancel()
		_ = logger.Sync()
		os.Exit(1)
	}
}
