package domain

import "time"

type Address struct {
	Street     string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	Country    string `json:"country" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
}

type FlightInfo struct {
	FlightNumber       string     `json:"flight_number" validate:"required"`
	Airline            string     `json:"airline,omitempty"`
	DepartureDate      string     `json:"departure_date" validate:"required,datetime=2006-01-02"`
	Origin             string     `json:"departure_airport" validate:"required"`
	Destination        string     `json:"arrival_airport" validate:"required"`
	Passengers         int        `json:"passengers" validate:"required,min=1,max=9"`
	ScheduledDeparture *time.Time `json:"scheduled_departure,omitempty"`
	ActualDeparture    *time.Time `json:"actual_departure,omitempty"`
	ScheduledArrival   *time.Time `json:"scheduled_arrival,omitempty"`
	ActualArrival      *time.Time `json:"actual_arrival,omitempty"`
}

type CardInfo struct {
	Number      string `json:"card_number" validate:"required,cardnumber"`
	ExpiryMonth string `json:"expiry_month" validate:"required,oneof=01 02 03 04 05 06 07 08 09 10 11 12"`
	ExpiryYear  string `json:"expiry_year" validate:"required,numeric,len=4"`
	CVV         string `json:"cvv" validate:"required,numeric,min=3,max=4"`
	HolderName  string `json:"cardholder_name" validate:"required"`
}

// PersonalInfo is the contact and payment step of a claim. Billing is only meaningful when
// SameAsPersonal is false; validation of Billing is driven by the wizard.
type PersonalInfo struct {
	FirstName        string   `json:"first_name" validate:"required"`
	LastName         string   `json:"last_name" validate:"required"`
	Email            string   `json:"email" validate:"required,email"`
	Phone            string   `json:"phone" validate:"required"`
	Address          Address  `json:"personal_address"`
	BookingReference string   `json:"booking_reference,omitempty"`
	TicketNumber     string   `json:"ticket_number,omitempty"`
	Card             CardInfo `json:"card"`
	SameAsPersonal   bool     `json:"same_as_personal"`
	Billing          Address  `json:"billing_address" validate:"-"`
}

func (p PersonalInfo) EffectiveBilling() Address {
	if p.SameAsPersonal {
		return p.Address
	}
	return p.Billing
}

// ClaimSubmission is the payload handed to the submission collaborator once a draft reaches review.
type ClaimSubmission struct {
	ClaimType ClaimType
	Flight    FlightInfo
	Personal  PersonalInfo
}

type SubmissionStage string

const (
	StageAuth            SubmissionStage = "auth"
	StageClaim           SubmissionStage = "claim"
	StageFlightDetails   SubmissionStage = "flight_details"
	StagePersonalDetails SubmissionStage = "personal_details"
	StagePaymentDetails  SubmissionStage = "payment_details"
)

// SubmitResult reports a submission as data. On failure ClaimID is set when the claim header
// was already written before a later stage failed.
type SubmitResult struct {
	Success        bool            `json:"success"`
	ClaimID        string          `json:"claim_id,omitempty"`
	ClaimReference string          `json:"claim_reference,omitempty"`
	Compensation   int64           `json:"compensation,omitempty"`
	Error          string          `json:"error,omitempty"`
	Stage          SubmissionStage `json:"failed_stage,omitempty"`
	Err            error           `json:"-"`
}
