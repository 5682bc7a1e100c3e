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

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	blobstore "whohub/internal/adapters/blob"
	httpadapter "whohub/internal/adapters/http"
	"whohub/internal/adapters/locks"
	openaiadapter "whohub/internal/adapters/openai"
	pg "whohub/internal/adapters/postgres"
	"whohub/internal/adapters/providers"
	"whohub/internal/collectors"
	"whohub/internal/config"
	"whohub/internal/logging"
	"whohub/internal/ports"
	investigationsvc "whohub/internal/services/investigations"
	paymentsvc "whohub/internal/services/payments"
	reportsvc "whohub/internal/services/reports"
	"whohub/internal/services/scoring"
	uploadsvc "whohub/internal/services/uploads"
	"whohub/internal/workers/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	blobs, err := blobstore.NewFilesystemStore(cfg.BlobDir)
	if err != nil {
		logger.Fatal("blob store", zap.Error(err))
	}

	var locker ports.Locker
	if cfg.RedisAddr != "" {
		redisLocker, err := locks.NewRedisLocker(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Fatal("redis connect", zap.Error(err))
		}
		defer func() { _ = redisLocker.Close() }()
		locker = redisLocker
	} else {
		logger.Warn("REDIS_ADDR not set, using process-local pipeline lock")
		locker = locks.NewLocalLocker()
	}

	// Live integrations are licensed separately; without an API key the
	// simulated sources keep the pipeline exercisable end to end.
	var assessor ports.ImageAssessor = providers.SimulatedImageAssessor{}
	var text ports.TextGenerator
	if cfg.OpenAIKey != "" {
		ai := openaiadapter.New(cfg.OpenAIKey, cfg.OpenAIModel, blobs)
		assessor = ai
		text = ai
	}

	runner := pipeline.NewRunner(
		db,
		pipeline.Collectors{
			Image:    collectors.NewImageCollector(providers.SimulatedReverseImage{}, assessor, db, logger),
			Breach:   collectors.NewBreachCollector(providers.SimulatedBreaches{}, db, logger),
			Social:   collectors.NewSocialCollector(providers.SimulatedSocialSearch{}, db, logger),
			Criminal: collectors.NewCriminalCollector(providers.SimulatedCriminalRecords{}, db, logger),
		},
		scoring.NewAggregator(db, db, logger),
		locker,
		cfg.CollectorTimeout,
		logger,
	)

	srv := httpadapter.New(
		investigationsvc.New(db, db, db, db, db, logger),
		reportsvc.New(db, db, db, blobs, text, logger),
		paymentsvc.New(db, db, logger),
		uploadsvc.New(db, blobs, logger),
		db,
		runner,
		cfg.PaymentWebhookSecret,
		logger,
	)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	if cfg.PipelineWorkers > 0 {
		pipeline.Run(ctx, db, runner, logger, cfg.PipelineWorkers, 500*time.Millisecond)
		logger.Info("pipeline workers started", zap.Int("count", cfg.PipelineWorkers))
	}

	errCh := make(chan error, 1)
	go func() { errCh <- http.ListenAndServe(cfg.ListenAddr, r) }()
	logger.Info("listening", zap.String("addr", cfg.ListenAddr), zap.String("env", cfg.Env))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		cancel()
		time.Sleep(300 * time.Millisecond)
	case err := <-errCh:
		logger.Fatal("server error", zap.Error(fmt.Errorf("listen: %w", err)))
	}
}
