package claims

import (
	"errors"
	"fmt"

	"github.com/Domenick1991/flightclaim/internal/domain"
	"github.com/Domenick1991/flightclaim/internal/repository"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrClaimNotFound   = repository.ErrClaimNotFound
)

// StageError names the insert that failed. ClaimID is set when the claim header had already
// been written, in which case the rows written before the failure remain in place.
type StageError struct {
	Stage   domain.SubmissionStage
	ClaimID string
	Err     error
}

func (e *StageError) Error() string {
	if e.ClaimID != "" {
		return fmt.Sprintf("submission failed at %s (claim %s): %v", e.Stage, e.ClaimID, e.Err)
	}
	return fmt.Sprintf("submission failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
