package domain

import "time"

type ClaimType string

const (
	ClaimTypeDelay        ClaimType = "delay"
	ClaimTypeCancellation ClaimType = "cancellation"
	ClaimTypeOverbooking  ClaimType = "overbooking"
	ClaimTypeBaggage      ClaimType = "baggage"
)

func (t ClaimType) Valid() bool {
	switch t {
	case ClaimTypeDelay, ClaimTypeCancellation, ClaimTypeOverbooking, ClaimTypeBaggage:
		return true
	default:
		return false
	}
}

// SolicitsTimes reports whether flight times are collected for this claim type.
func (t ClaimType) SolicitsTimes() bool {
	return t == ClaimTypeDelay || t == ClaimTypeCancellation
}

// ClaimStatus values past submitted belong to back-office handling and are never set here.
type ClaimStatus string

const (
	ClaimStatusSubmitted        ClaimStatus = "submitted"
	ClaimStatusUnderReview      ClaimStatus = "under_review"
	ClaimStatusInProgress       ClaimStatus = "in_progress"
	ClaimStatusAirlineContacted ClaimStatus = "airline_contacted"
	ClaimStatusNegotiating      ClaimStatus = "negotiating"
	ClaimStatusApproved         ClaimStatus = "approved"
	ClaimStatusPaid             ClaimStatus = "paid"
	ClaimStatusRejected         ClaimStatus = "rejected"
	ClaimStatusClosed           ClaimStatus = "closed"
)

type Claim struct {
	ID                     string
	Reference              string
	UserID                 string
	Type                   ClaimType
	Status                 ClaimStatus
	TotalCompensationCents int64
	CommissionFeeCents     int64
	NetCompensationCents   int64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

type FlightDetails struct {
	ID                 string
	ClaimID            string
	FlightNumber       string
	Airline            string
	DepartureDate      time.Time
	DepartureAirport   string
	ArrivalAirport     string
	Passengers         int
	ScheduledDeparture *time.Time
	ActualDeparture    *time.Time
	ScheduledArrival   *time.Time
	ActualArrival      *time.Time
	DistanceKm         int
	CreatedAt          time.Time
}

type PersonalDetails struct {
	ID               string
	ClaimID          string
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	Address          Address
	BookingReference string
	TicketNumber     string
	CreatedAt        time.Time
}

// PaymentDetails never carries the raw card number or CVV.
type PaymentDetails struct {
	ID             string
	ClaimID        string
	CardNumberHash string
	CardLastFour   string
	CardBrand      string
	ExpiryMonth    string
	ExpiryYear     string
	CardholderName string
	Billing        Address
	SameAsPersonal bool
	CreatedAt      time.Time
}

type ClaimSummary struct {
	ID                     string      `json:"id"`
	Reference              string      `json:"claim_reference"`
	Type                   ClaimType   `json:"claim_type"`
	Status                 ClaimStatus `json:"status"`
	FlightNumber           string      `json:"flight_number"`
	DepartureAirport       string      `json:"departure_airport"`
	ArrivalAirport         string      `json:"arrival_airport"`
	DepartureDate          string      `json:"departure_date"`
	TotalCompensationCents int64       `json:"total_compensation_cents"`
	NetCompensationCents   int64       `json:"net_compensation_cents"`
	CreatedAt              time.Time   `json:"created_at"`
}

// ClaimRecord is the caller-facing view of a stored claim. Only the card's last four digits,
// brand and holder name leave the payment table.
type ClaimRecord struct {
	Claim    Claim
	Flight   *FlightDetails
	Personal *PersonalDetails
	Payment  *PaymentSummary
}

type PaymentSummary struct {
	CardLastFour   string
	CardBrand      string
	CardholderName string
}

// ClaimEventRecord is an audit row written by the worker for every consumed claim event.
type ClaimEventRecord struct {
	ID             int64
	Type           string
	ClaimID        string
	ClaimReference string
	UserID         string
	Stage          string
	Error          string
	OccurredAt     time.Time
	RecordedAt     time.Time
}
