package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightclaim/config"
	"github.com/Domenick1991/flightclaim/internal/audit"
	"github.com/Domenick1991/flightclaim/internal/kafka"
	"github.com/Domenick1991/flightclaim/internal/logger"
	"github.com/Domenick1991/flightclaim/internal/repository"
	"github.com/Domenick1991/flightclaim/internal/service/claims"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	recordRetries     = 3
	recordBaseBackoff = 200 * time.Millisecond
)

var configFile string

var rootCmd = &cobra.Command{
	Use:          "worker",
	Short:        "Record claim events and report claims whose submission stopped partway",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (default $CONFIG_PATH or config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	l, err := logger.InitLog(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()
	undo := zap.ReplaceGlobals(l)
	defer undo()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	claimService := claims.NewClaimService(repository.NewClaimRepository(pool), cfg.Payment.CardPepper)
	recorder := audit.NewRecorder(repository.NewEventRepository(pool))

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.ClaimEventsTopic)
	defer consumer.Close()

	go func() {
		if err := consumer.Consume(ctx, recordWithRetry(recorder.Record, recordRetries, recordBaseBackoff)); err != nil {
			zap.S().Errorw("consumer stopped", "error", err)
			stop()
		}
	}()

	sweep(ctx, claimService, cfg.Worker)
	return nil
}

// recordWithRetry retries a failed audit insert with exponential backoff. An event that still
// cannot be recorded is logged and skipped; the consumer keeps running.
func recordWithRetry(record func(context.Context, kafka.ClaimEvent) error, retries uint64, base time.Duration) func(context.Context, kafka.ClaimEvent) error {
	return func(ctx context.Context, event kafka.ClaimEvent) error {
		backoff := retry.WithMaxRetries(retries, retry.NewExponential(base))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			return retry.RetryableError(record(ctx, event))
		})
		if err != nil && ctx.Err() == nil {
			zap.S().Errorw("dropping claim event", "type", event.Type, "claim_id", event.ClaimID, "stage", event.Stage, "error", err)
		}
		return nil
	}
}

// sweep reports incomplete claims on every tick until ctx is done.
func sweep(ctx context.Context, svc claims.ClaimUseCase, cfg config.WorkerConfig) {
	ticker := time.NewTicker(cfg.SweepInterval())
	defer ticker.Stop()

	zap.S().Infow("worker started", "sweep_interval", cfg.SweepInterval(), "grace", cfg.Grace())
	for {
		select {
		case <-ticker.C:
			incomplete, err := svc.FindIncompleteClaims(ctx, cfg.Grace())
			if err != nil {
				zap.S().Errorw("incomplete claims sweep failed", "error", err)
				continue
			}
			if len(incomplete) > 0 {
				zap.S().Warnf("%d claims have no payment details", len(incomplete))
			}
		case <-ctx.Done():
			zap.S().Info("shutting down")
			return
		}
	}
}
