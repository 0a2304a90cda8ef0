package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightclaim/internal/auth"
	"github.com/Domenick1991/flightclaim/internal/bootstrap"
	"github.com/Domenick1991/flightclaim/internal/cache"
	"github.com/Domenick1991/flightclaim/internal/kafka"
	"github.com/Domenick1991/flightclaim/internal/repository"
	"github.com/Domenick1991/flightclaim/internal/service/claims"
	"github.com/Domenick1991/flightclaim/internal/service/wizard"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the gRPC health server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, done, err := setup()
	if err != nil {
		return err
	}
	defer done()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Wizard.DraftTTL(), cfg.Wizard.ClaimsCacheTTL())
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := producer.CheckConnection(checkCtx); err != nil {
		zap.S().Warnw("kafka is not reachable, claim events will be lost until it is", "error", err)
	}
	cancel()

	claimService := claims.NewClaimService(
		repository.NewClaimRepository(pool),
		cfg.Payment.CardPepper,
		claims.WithCache(redisCache),
		claims.WithProducer(producer, cfg.Kafka.ClaimEventsTopic),
	)
	wizardService := wizard.NewWizardService(redisCache, claimService)

	return bootstrap.Run(ctx, cfg, bootstrap.Dependencies{
		Wizard:   wizardService,
		Claims:   claimService,
		Verifier: auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Checks: map[string]bootstrap.HealthCheck{
			"postgres": pool.Ping,
			"redis":    redisCache.Ping,
		},
	})
}
