package audit

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightclaim/internal/domain"
	"github.com/Domenick1991/flightclaim/internal/kafka"
	"github.com/Domenick1991/flightclaim/internal/metrics"
	"github.com/Domenick1991/flightclaim/internal/repository"
	"go.uber.org/zap"
)

// Recorder persists consumed claim events so failed submissions can be traced afterwards.
type Recorder struct {
	events repository.EventRepository
}

func NewRecorder(events repository.EventRepository) *Recorder {
	return &Recorder{events: events}
}

func (r *Recorder) Record(ctx context.Context, event kafka.ClaimEvent) error {
	record := &domain.ClaimEventRecord{
		Type:           event.Type,
		ClaimID:        event.ClaimID,
		ClaimReference: event.ClaimReference,
		UserID:         event.UserID,
		Stage:          event.Stage,
		Error:          event.Error,
		OccurredAt:     event.OccurredAt,
	}
	if err := r.events.Insert(ctx, record); err != nil {
		return fmt.Errorf("record %s event: %w", event.Type, err)
	}

	metrics.IncreaseEventsRecordedMetric(event.Type)
	if event.Type == kafka.EventClaimSubmissionFailed {
		zap.S().Named("audit").Warnw("recorded failed submission", "claim_id", event.ClaimID, "stage", event.Stage, "error", event.Error)
	} else {
		zap.S().Named("audit").Debugw("recorded claim event", "type", event.Type, "claim_id", event.ClaimID)
	}
	return nil
}
