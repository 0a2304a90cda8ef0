package claims

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightclaim/internal/domain"
	"github.com/Domenick1991/flightclaim/internal/kafka"
	"github.com/Domenick1991/flightclaim/internal/metrics"
	"github.com/Domenick1991/flightclaim/internal/repository"
	"github.com/Domenick1991/flightclaim/internal/service/compensation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ClaimUseCase interface {
	SubmitClaim(ctx context.Context, userID string, submission domain.ClaimSubmission) domain.SubmitResult
	GetUserClaims(ctx context.Context, userID string) ([]domain.ClaimSummary, error)
	GetClaimByID(ctx context.Context, userID, id string) (*domain.ClaimRecord, error)
	FindIncompleteClaims(ctx context.Context, grace time.Duration) ([]domain.Claim, error)
}

// Cache keeps a per-user copy of the claim list. A nil slice from GetUserClaims is a miss.
type Cache interface {
	GetUserClaims(ctx context.Context, userID string) ([]domain.ClaimSummary, error)
	SetUserClaims(ctx context.Context, userID string, claims []domain.ClaimSummary) error
	InvalidateUserClaims(ctx context.Context, userID string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type ClaimService struct {
	claims      repository.ClaimRepository
	cache       Cache
	producer    Producer
	eventsTopic string
	pepper      string
	now         func() time.Time
	newID       func() string
}

type ClaimServiceOption func(*ClaimService)

func WithCache(cache Cache) ClaimServiceOption {
	return func(s *ClaimService) {
		s.cache = cache
	}
}

func WithProducer(producer Producer, topic string) ClaimServiceOption {
	return func(s *ClaimService) {
		s.producer = producer
		s.eventsTopic = topic
	}
}

func WithClock(now func() time.Time) ClaimServiceOption {
	return func(s *ClaimService) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) ClaimServiceOption {
	return func(s *ClaimService) {
		s.newID = newID
	}
}

func NewClaimService(claims repository.ClaimRepository, pepper string, opts ...ClaimServiceOption) *ClaimService {
	s := &ClaimService{
		claims: claims,
		pepper: pepper,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitClaim writes the claim header, flight, personal and payment rows in that order.
// Each insert is its own statement; a failure stops the sequence and is reported in the
// result together with the stage that failed.
func (s *ClaimService) SubmitClaim(ctx context.Context, userID string, sub domain.ClaimSubmission) domain.SubmitResult {
	if userID == "" {
		return s.fail(ctx, sub, "", domain.StageAuth, ErrUnauthenticated)
	}

	estimate := compensation.Estimate(sub.Flight.Origin, sub.Flight.Destination, sub.Flight.Passengers)
	fees := compensation.SplitFees(estimate.Total)

	claim := &domain.Claim{
		ID:                     s.newID(),
		UserID:                 userID,
		Type:                   sub.ClaimType,
		Status:                 domain.ClaimStatusSubmitted,
		TotalCompensationCents: fees.TotalCents,
		CommissionFeeCents:     fees.CommissionCents,
		NetCompensationCents:   fees.NetCents,
	}
	if err := s.claims.CreateClaim(ctx, claim); err != nil {
		return s.fail(ctx, sub, userID, domain.StageClaim, &StageError{Stage: domain.StageClaim, Err: err})
	}

	flight, err := newFlightDetails(claim.ID, sub.Flight, estimate.DistanceKm)
	if err == nil {
		err = s.claims.CreateFlightDetails(ctx, flight)
	}
	if err != nil {
		return s.failAfter(ctx, sub, claim, domain.StageFlightDetails, err)
	}

	personal := newPersonalDetails(claim.ID, sub.Personal)
	if err := s.claims.CreatePersonalDetails(ctx, personal); err != nil {
		return s.failAfter(ctx, sub, claim, domain.StagePersonalDetails, err)
	}

	pay := newPaymentDetails(claim.ID, sub.Personal, s.pepper)
	if err := s.claims.CreatePaymentDetails(ctx, pay); err != nil {
		return s.failAfter(ctx, sub, claim, domain.StagePaymentDetails, err)
	}

	metrics.IncreaseSubmissionsMetric(metrics.OutcomeSuccess, "")
	zap.S().Named("claims").Infow("claim submitted", "claim_id", claim.ID, "reference", claim.Reference, "user_id", userID)

	if s.cache != nil {
		if err := s.cache.InvalidateUserClaims(ctx, userID); err != nil {
			zap.S().Named("claims").Warnw("failed to invalidate claims cache", "user_id", userID, "error", err)
		}
	}
	s.publish(ctx, kafka.ClaimEvent{
		Type:           kafka.EventClaimSubmitted,
		ClaimID:        claim.ID,
		ClaimReference: claim.Reference,
		UserID:         userID,
		ClaimType:      string(sub.ClaimType),
		Compensation:   estimate.Total,
	})

	return domain.SubmitResult{
		Success:        true,
		ClaimID:        claim.ID,
		ClaimReference: claim.Reference,
		Compensation:   estimate.Total,
	}
}

func (s *ClaimService) failAfter(ctx context.Context, sub domain.ClaimSubmission, claim *domain.Claim, stage domain.SubmissionStage, err error) domain.SubmitResult {
	// The header row stays behind; the listing cache must see it.
	if s.cache != nil {
		if err := s.cache.InvalidateUserClaims(ctx, claim.UserID); err != nil {
			zap.S().Named("claims").Warnw("failed to invalidate claims cache", "user_id", claim.UserID, "error", err)
		}
	}
	result := s.fail(ctx, sub, claim.UserID, stage, &StageError{Stage: stage, ClaimID: claim.ID, Err: err})
	result.ClaimID = claim.ID
	result.ClaimReference = claim.Reference
	return result
}

func (s *ClaimService) fail(ctx context.Context, sub domain.ClaimSubmission, userID string, stage domain.SubmissionStage, err error) domain.SubmitResult {
	metrics.IncreaseSubmissionsMetric(metrics.OutcomeFailure, string(stage))
	zap.S().Named("claims").Errorw("claim submission failed", "stage", stage, "user_id", userID, "error", err)

	event := kafka.ClaimEvent{
		Type:      kafka.EventClaimSubmissionFailed,
		UserID:    userID,
		ClaimType: string(sub.ClaimType),
		Stage:     string(stage),
		Error:     err.Error(),
	}
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		event.ClaimID = stageErr.ClaimID
	}
	s.publish(ctx, event)

	return domain.SubmitResult{
		Success: false,
		Error:   err.Error(),
		Stage:   stage,
		Err:     err,
	}
}

func (s *ClaimService) publish(ctx context.Context, event kafka.ClaimEvent) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event.OccurredAt = s.now().UTC()
	key := event.ClaimID
	if key == "" {
		key = event.UserID
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, key, event); err != nil {
		zap.S().Named("claims").Warnw("failed to publish claim event", "type", event.Type, "claim_id", event.ClaimID, "error", err)
	}
}

func (s *ClaimService) GetUserClaims(ctx context.Context, userID string) ([]domain.ClaimSummary, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	if s.cache != nil {
		cached, err := s.cache.GetUserClaims(ctx, userID)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			zap.S().Named("claims").Warnw("claims cache read failed", "user_id", userID, "error", err)
		}
	}

	list, err := s.claims.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetUserClaims(ctx, userID, list); err != nil {
			zap.S().Named("claims").Warnw("claims cache write failed", "user_id", userID, "error", err)
		}
	}
	return list, nil
}

func (s *ClaimService) GetClaimByID(ctx context.Context, userID, id string) (*domain.ClaimRecord, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrClaimNotFound
	}
	return s.claims.GetByID(ctx, userID, id)
}

// FindIncompleteClaims lists claims older than grace that have no payment row.
func (s *ClaimService) FindIncompleteClaims(ctx context.Context, grace time.Duration) ([]domain.Claim, error) {
	incomplete, err := s.claims.ListIncomplete(ctx, s.now().Add(-grace))
	if err != nil {
		return nil, fmt.Errorf("list incomplete claims: %w", err)
	}
	metrics.UpdateIncompleteClaimsMetric(len(incomplete))
	for _, c := range incomplete {
		zap.S().Named("claims").Warnw("claim has no payment details", "claim_id", c.ID, "user_id", c.UserID, "created_at", c.CreatedAt)
	}
	return incomplete, nil
}

var _ ClaimUseCase = (*ClaimService)(nil)
