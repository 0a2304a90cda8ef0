package wizard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/flightclaim/internal/domain"
	"github.com/Domenick1991/flightclaim/internal/metrics"
	"github.com/Domenick1991/flightclaim/internal/payment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WizardUseCase interface {
	Start(ctx context.Context) (*Draft, error)
	Get(ctx context.Context, id string) (*View, error)
	Advance(ctx context.Context, id string, in Input) (*Draft, error)
	Back(ctx context.Context, id string) (*Draft, error)
	Review(ctx context.Context, id string) (*ReviewView, error)
	Submit(ctx context.Context, id, userID string) (*SubmitOutcome, error)
}

// DraftStore keeps drafts for the lifetime of a visitor session. GetDraft returns nil, nil
// for unknown or expired drafts.
type DraftStore interface {
	SaveDraft(ctx context.Context, draft *Draft) error
	GetDraft(ctx context.Context, id string) (*Draft, error)
	DeleteDraft(ctx context.Context, id string) error
}

type ClaimSubmitter interface {
	SubmitClaim(ctx context.Context, userID string, submission domain.ClaimSubmission) domain.SubmitResult
}

// View is what the presentation layer reads for a draft. The card number is masked and the
// CVV is never returned.
type View struct {
	ID         string               `json:"id"`
	Step       Step                 `json:"step"`
	ClaimType  domain.ClaimType     `json:"claim_type,omitempty"`
	Flight     *domain.FlightInfo   `json:"flight,omitempty"`
	Personal   *domain.PersonalInfo `json:"personal,omitempty"`
	ClaimID    string               `json:"claim_id,omitempty"`
	CanAdvance bool                 `json:"can_advance"`
	CanGoBack  bool                 `json:"can_go_back"`
	Review     *ReviewView          `json:"review,omitempty"`
}

type SubmitOutcome struct {
	Result domain.SubmitResult `json:"result"`
	// Draft is set, at the success step, only when the submission succeeded.
	Draft *Draft `json:"draft,omitempty"`
}

type WizardService struct {
	drafts    DraftStore
	submitter ClaimSubmitter
	now       func() time.Time
	newID     func() string
}

type WizardServiceOption func(*WizardService)

func WithClock(now func() time.Time) WizardServiceOption {
	return func(s *WizardService) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) WizardServiceOption {
	return func(s *WizardService) {
		s.newID = newID
	}
}

func NewWizardService(drafts DraftStore, submitter ClaimSubmitter, opts ...WizardServiceOption) *WizardService {
	s := &WizardService{
		drafts:    drafts,
		submitter: submitter,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *WizardService) Start(ctx context.Context) (*Draft, error) {
	draft := NewDraft(s.newID(), s.now())
	if err := s.drafts.SaveDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

func (s *WizardService) Get(ctx context.Context, id string) (*View, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewView(draft), nil
}

func (s *WizardService) Advance(ctx context.Context, id string, in Input) (*Draft, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	from := draft.Step
	if err := draft.Advance(in, s.now()); err != nil {
		return nil, err
	}
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	metrics.IncreaseTransitionsMetric(from.String(), draft.Step.String())
	return draft, nil
}

func (s *WizardService) Back(ctx context.Context, id string) (*Draft, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	from := draft.Step
	if err := draft.Back(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	metrics.IncreaseTransitionsMetric(from.String(), draft.Step.String())
	return draft, nil
}

func (s *WizardService) Review(ctx context.Context, id string) (*ReviewView, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return draft.Review()
}

// Submit hands a reviewed draft to the submission collaborator. Once the collaborator has been
// called the draft is discarded, whatever the outcome.
func (s *WizardService) Submit(ctx context.Context, id, userID string) (*SubmitOutcome, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	submission, err := draft.Submission()
	if err != nil {
		return nil, err
	}

	result := s.submitter.SubmitClaim(ctx, userID, submission)

	if err := s.drafts.DeleteDraft(ctx, draft.ID); err != nil {
		zap.S().Named("wizard").Warnw("failed to discard submitted draft", "draft_id", draft.ID, "error", err)
	}

	outcome := &SubmitOutcome{Result: result}
	if !result.Success {
		zap.S().Named("wizard").Infow("claim submission failed", "draft_id", draft.ID, "stage", result.Stage, "error", result.Error)
		return outcome, nil
	}

	if err := draft.Complete(s.displayReference()); err != nil {
		return nil, err
	}
	draft.UpdatedAt = s.now()
	metrics.IncreaseTransitionsMetric(StepReview.String(), draft.Step.String())
	outcome.Draft = draft
	return outcome, nil
}

// displayReference is the short reference shown on the success screen. The stored claim
// reference is assigned by the database.
func (s *WizardService) displayReference() string {
	millis := strconv.FormatInt(s.now().UnixMilli(), 10)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return "AH" + millis
}

func (s *WizardService) load(ctx context.Context, id string) (*Draft, error) {
	draft, err := s.drafts.GetDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", id, err)
	}
	if draft == nil {
		return nil, ErrDraftNotFound
	}
	return draft, nil
}

func (s *WizardService) save(ctx context.Context, draft *Draft) error {
	draft.UpdatedAt = s.now()
	if err := s.drafts.SaveDraft(ctx, draft); err != nil {
		return fmt.Errorf("save draft %s: %w", draft.ID, err)
	}
	return nil
}

func NewView(d *Draft) *View {
	v := &View{
		ID:         d.ID,
		Step:       d.Step,
		ClaimType:  d.ClaimType,
		Flight:     d.Flight,
		ClaimID:    d.ClaimID,
		CanAdvance: d.CanAdvance(),
		CanGoBack:  d.CanGoBack(),
	}
	if d.Personal != nil {
		p := *d.Personal
		p.Card.Number = payment.Mask(p.Card.Number)
		p.Card.CVV = ""
		p.Billing = p.EffectiveBilling()
		v.Personal = &p
	}
	if d.Step == StepReview {
		if review, err := d.Review(); err == nil {
			v.Review = review
		}
	}
	return v
}

var _ WizardUseCase = (*WizardService)(nil)
