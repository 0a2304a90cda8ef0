// Package wizard drives a claim draft through the linear claim form: claim type, flight
// details, personal and payment details, review and the terminal success step.
package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightclaim/internal/domain"
	"github.com/Domenick1991/flightclaim/internal/payment"
	"github.com/Domenick1991/flightclaim/internal/service/compensation"
)

// Draft is one visitor's claim in progress. It is mutated only by the step it is on.
type Draft struct {
	ID        string               `json:"id"`
	Step      Step                 `json:"step"`
	ClaimType domain.ClaimType     `json:"claim_type,omitempty"`
	Flight    *domain.FlightInfo   `json:"flight,omitempty"`
	Personal  *domain.PersonalInfo `json:"personal,omitempty"`
	ClaimID   string               `json:"claim_id,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Input is the payload of a forward transition. Each variant belongs to exactly one step.
type Input interface {
	step() Step
}

type SelectTypeInput struct {
	ClaimType domain.ClaimType
}

type FlightInput struct {
	Flight domain.FlightInfo
}

type PersonalInput struct {
	Personal domain.PersonalInfo
}

func (SelectTypeInput) step() Step { return StepSelectType }
func (FlightInput) step() Step     { return StepFlightDetails }
func (PersonalInput) step() Step   { return StepPersonalDetails }

type ReviewView struct {
	Estimate      compensation.Result   `json:"estimate"`
	Fees          compensation.FeeSplit `json:"fees"`
	FlightNumber  string                `json:"flight_number"`
	Route         string                `json:"route"`
	DepartureDate string                `json:"departure_date"`
	Passenger     string                `json:"passenger"`
}

func NewDraft(id string, now time.Time) *Draft {
	return &Draft{
		ID:        id,
		Step:      StepSelectType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Advance applies the form of the current step and moves one step forward. now is the time the
// form is checked against, e.g. for card expiry. On a validation error the draft is left
// untouched. Review is only left through Complete.
func (d *Draft) Advance(in Input, now time.Time) error {
	if in == nil {
		return fmt.Errorf("%w: empty input", ErrInvalidTransition)
	}

	switch d.Step {
	case StepSelectType:
		if sel, ok := in.(SelectTypeInput); ok {
			return d.selectType(sel)
		}
	case StepFlightDetails:
		if f, ok := in.(FlightInput); ok {
			return d.acceptFlight(f)
		}
	case StepPersonalDetails:
		if p, ok := in.(PersonalInput); ok {
			return d.acceptPersonal(p, now)
		}
	case StepReview:
		return fmt.Errorf("%w: review is left by submitting the claim", ErrInvalidTransition)
	case StepSuccess:
		return ErrTerminal
	default:
		return fmt.Errorf("%w: unknown step %s", ErrInvalidTransition, d.Step)
	}
	return fmt.Errorf("%w: %s form submitted at %s", ErrInvalidTransition, in.step(), d.Step)
}

// Back returns to the previous step and keeps everything entered so far.
func (d *Draft) Back() error {
	if d.Step.Terminal() {
		return ErrTerminal
	}
	prev, ok := d.Step.Previous()
	if !ok {
		return fmt.Errorf("%w: no step before %s", ErrInvalidTransition, d.Step)
	}
	d.Step = prev
	return nil
}

func (d *Draft) Review() (*ReviewView, error) {
	if d.Step != StepReview {
		return nil, fmt.Errorf("%w: review requested at %s", ErrInvalidTransition, d.Step)
	}
	if err := d.requireComplete(); err != nil {
		return nil, err
	}

	estimate := compensation.Estimate(d.Flight.Origin, d.Flight.Destination, d.Flight.Passengers)
	return &ReviewView{
		Estimate:      estimate,
		Fees:          compensation.SplitFees(estimate.Total),
		FlightNumber:  d.Flight.FlightNumber,
		Route:         d.Flight.Origin + " → " + d.Flight.Destination,
		DepartureDate: d.Flight.DepartureDate,
		Passenger:     strings.TrimSpace(d.Personal.FirstName + " " + d.Personal.LastName),
	}, nil
}

// Submission builds the payload for the submission collaborator. Only valid at review.
func (d *Draft) Submission() (domain.ClaimSubmission, error) {
	if d.Step != StepReview {
		return domain.ClaimSubmission{}, fmt.Errorf("%w: submit requested at %s", ErrInvalidTransition, d.Step)
	}
	if err := d.requireComplete(); err != nil {
		return domain.ClaimSubmission{}, err
	}
	return domain.ClaimSubmission{
		ClaimType: d.ClaimType,
		Flight:    *d.Flight,
		Personal:  *d.Personal,
	}, nil
}

// Complete moves review to success and records the display reference.
func (d *Draft) Complete(reference string) error {
	if d.Step != StepReview {
		return fmt.Errorf("%w: complete requested at %s", ErrInvalidTransition, d.Step)
	}
	if err := d.requireComplete(); err != nil {
		return err
	}
	d.ClaimID = reference
	d.Step = StepSuccess
	return nil
}

func (d *Draft) CanAdvance() bool {
	return d.Step < StepReview
}

func (d *Draft) CanGoBack() bool {
	_, ok := d.Step.Previous()
	return ok
}

func (d *Draft) selectType(in SelectTypeInput) error {
	if !in.ClaimType.Valid() {
		return &ValidationError{Fields: []FieldError{{Field: "claim_type", Rule: "oneof"}}}
	}
	d.ClaimType = in.ClaimType
	d.Step = StepFlightDetails
	return nil
}

func (d *Draft) acceptFlight(in FlightInput) error {
	if !d.ClaimType.Valid() {
		return fmt.Errorf("%w: claim type not selected", ErrInvalidTransition)
	}

	f := in.Flight
	f.FlightNumber = strings.ToUpper(strings.TrimSpace(f.FlightNumber))
	f.Airline = strings.TrimSpace(f.Airline)
	f.Origin = strings.TrimSpace(f.Origin)
	f.Destination = strings.TrimSpace(f.Destination)
	if !d.ClaimType.SolicitsTimes() {
		f.ScheduledDeparture, f.ActualDeparture = nil, nil
		f.ScheduledArrival, f.ActualArrival = nil, nil
	}
	if err := validateFlight(f); err != nil {
		return err
	}

	d.Flight = &f
	d.Step = StepPersonalDetails
	return nil
}

func (d *Draft) acceptPersonal(in PersonalInput, now time.Time) error {
	if !d.ClaimType.Valid() || d.Flight == nil {
		return fmt.Errorf("%w: flight details missing", ErrInvalidTransition)
	}

	p := in.Personal
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Card.Number = payment.Format(p.Card.Number)
	p.Card.CVV = payment.SanitizeCVV(p.Card.CVV)
	if err := validatePersonal(p, now); err != nil {
		return err
	}
	if p.SameAsPersonal {
		p.Billing = p.Address
	}
	// The CVV is checked but never kept; drafts are stored outside the process.
	p.Card.CVV = ""

	d.Personal = &p
	d.Step = StepReview
	return nil
}

func (d *Draft) requireComplete() error {
	if !d.ClaimType.Valid() || d.Flight == nil || d.Personal == nil {
		return fmt.Errorf("%w: draft incomplete", ErrInvalidTransition)
	}
	return nil
}
