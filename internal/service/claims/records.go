package claims

import (
	"fmt"
	"time"

	"github.com/Domenick1991/flightclaim/internal/domain"
	"github.com/Domenick1991/flightclaim/internal/payment"
)

func newFlightDetails(claimID string, f domain.FlightInfo, distanceKm int) (*domain.FlightDetails, error) {
	date, err := time.Parse(time.DateOnly, f.DepartureDate)
	if err != nil {
		return nil, fmt.Errorf("departure date: %w", err)
	}
	return &domain.FlightDetails{
		ClaimID:            claimID,
		FlightNumber:       f.FlightNumber,
		Airline:            f.Airline,
		DepartureDate:      date,
		DepartureAirport:   f.Origin,
		ArrivalAirport:     f.Destination,
		Passengers:         f.Passengers,
		ScheduledDeparture: f.ScheduledDeparture,
		ActualDeparture:    f.ActualDeparture,
		ScheduledArrival:   f.ScheduledArrival,
		ActualArrival:      f.ActualArrival,
		DistanceKm:         distanceKm,
	}, nil
}

func newPersonalDetails(claimID string, p domain.PersonalInfo) *domain.PersonalDetails {
	return &domain.PersonalDetails{
		ClaimID:          claimID,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Email:            p.Email,
		Phone:            p.Phone,
		Address:          p.Address,
		BookingReference: p.BookingReference,
		TicketNumber:     p.TicketNumber,
	}
}

// newPaymentDetails keeps only a keyed digest of the card number. The CVV is dropped here.
func newPaymentDetails(claimID string, p domain.PersonalInfo, pepper string) *domain.PaymentDetails {
	return &domain.PaymentDetails{
		ClaimID:        claimID,
		CardNumberHash: payment.Digest(p.Card.Number, pepper),
		CardLastFour:   payment.LastFour(p.Card.Number),
		CardBrand:      payment.DetectBrand(p.Card.Number),
		ExpiryMonth:    p.Card.ExpiryMonth,
		ExpiryYear:     p.Card.ExpiryYear,
		CardholderName: p.Card.HolderName,
		Billing:        p.EffectiveBilling(),
		SameAsPersonal: p.SameAsPersonal,
	}
}
