package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/api"
	"github.com/huntsmart/client-engine/internal/api/handler"
	"github.com/huntsmart/client-engine/internal/core/ports"
	"github.com/huntsmart/client-engine/internal/core/service"
	"github.com/huntsmart/client-engine/internal/infrastructure/config"
	mongodb "github.com/huntsmart/client-engine/internal/infrastructure/db/mongo"
	redisdb "github.com/huntsmart/client-engine/internal/infrastructure/db/redis"
	"github.com/huntsmart/client-engine/internal/infrastructure/queue"
	"github.com/huntsmart/client-engine/internal/infrastructure/storage/memory"
	"github.com/huntsmart/client-engine/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           HuntSmart Client Engine API
// @version         1.0
// @description     Session, HuntSmart Pass and booking verification engine.
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the profile token.

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:    cfg.LogLevel,
		Pretty:   cfg.IsDevelopment(),
		Service:  "huntsmart-client-engine",
		Instance: uuid.NewString(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	probes := map[string]handler.Pinger{}

	// --- Profile storage ---
	var (
		opener ports.StorageOpener = memory.NewStore()
		dedup  service.ClaimDedup  = memory.NewClaimDedup()
	)
	if cfg.UsesRedis() {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		opener = redisdb.NewProfileStore(rdb, logger.Component("profile_storage"))
		dedup = redisdb.NewClaimDedup(rdb)
		probes["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("profile storage: redis")
	} else {
		log.Warn().Msg("profile storage: memory, state is lost on restart")
	}

	// --- Claim ledger ---
	var repo ports.ClaimRepository = memory.NewClaimRepository()
	if cfg.Mongo.Enabled {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			if err := mongodb.Disconnect(client); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}()

		claims := mongodb.NewClaimRepository(db)
		if err := claims.EnsureIndexes(ctx); err != nil {
			return err
		}
		repo = claims
		probes["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	}

	var pub ports.ClaimPublisher = queue.NopPublisher{}
	if cfg.AMQP.Enabled {
		amqpPub := queue.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, logger.Component("claim_publisher"))
		defer func() {
			if err := amqpPub.Close(); err != nil {
				log.Warn().Err(err).Msg("amqp close")
			}
		}()
		pub = amqpPub
	}

	claimService := service.NewClaimService(repo, dedup, pub, logger.Component("claims"))

	dispatcher := queue.NewDispatcher(cfg.Engine.DispatchWorkers, claimService, logger.Component("dispatcher"))
	// Not tied to ctx: Stop drains queued claims after the engine closes.
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	// --- Engine ---
	registry := service.NewRegistry(opener, service.NewScheduler(), dispatcher, service.EngineConfig{
		VerifyDelay: cfg.Engine.VerifyDelay,
		Checkout: service.CheckoutConfig{
			ProcessingDelay: cfg.Engine.PaymentProcessingDelay,
			SuccessDelay:    cfg.Engine.PaymentSuccessDelay,
		},
	}, logger.Component("engine"))
	defer registry.Close()

	sweeper, err := service.NewSweeper(registry, cfg.Engine.SweepSchedule, cfg.Engine.SurfaceIdleTTL, logger.Component("sweeper"))
	if err != nil {
		return err
	}
	sweeper.Start()

	e := api.NewRouter(api.Deps{
		Profiles:        registry,
		Claims:          claimService,
		Tokens:          service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		JWTSecret:       cfg.JWTSecret,
		Probes:          probes,
		StreamKeepAlive: cfg.Engine.StreamKeepAlive,
		Log:             logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	sweeper.Stop(shutdownCtx)
	log.Info().Msg("server stopped gracefully")
	return nil
}
