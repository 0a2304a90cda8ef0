package wizard

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Domenick1991/flightclaim/internal/domain"
	"github.com/Domenick1991/flightclaim/internal/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func validFlight() domain.FlightInfo {
	scheduled := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	actual := scheduled.Add(4 * time.Hour)
	return domain.FlightInfo{
		FlightNumber:       "ba 304",
		Airline:            "British Airways",
		DepartureDate:      "2025-03-14",
		Origin:             "London",
		Destination:        "Paris",
		Passengers:         2,
		ScheduledDeparture: &scheduled,
		ActualDeparture:    &actual,
	}
}

func validPersonal() domain.PersonalInfo {
	return domain.PersonalInfo{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Phone:     "+44 20 7946 0000",
		Address: domain.Address{
			Street:     "1 High Street",
			City:       "London",
			Country:    "United Kingdom",
			PostalCode: "SW1A 1AA",
		},
		Card: domain.CardInfo{
			Number:      "4242424242424242",
			ExpiryMonth: "09",
			ExpiryYear:  "2030",
			CVV:         "123",
			HolderName:  "JANE DOE",
		},
		SameAsPersonal: true,
	}
}

func draftAtReview(t *testing.T) *Draft {
	t.Helper()
	d := NewDraft("draft-1", testNow)
	require.NoError(t, d.Advance(SelectTypeInput{ClaimType: domain.ClaimTypeDelay}, testNow))
	require.NoError(t, d.Advance(FlightInput{Flight: validFlight()}, testNow))
	require.NoError(t, d.Advance(PersonalInput{Personal: validPersonal()}, testNow))
	require.Equal(t, StepReview, d.Step)
	return d
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	names := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestDraft_HappyPathReachesReview(t *testing.T) {
	d := draftAtReview(t)

	assert.Equal(t, domain.ClaimTypeDelay, d.ClaimType)
	require.NotNil(t, d.Flight)
	require.NotNil(t, d.Personal)
	assert.Equal(t, "BA 304", d.Flight.FlightNumber)
	assert.Equal(t, "4242 4242 4242 4242", d.Personal.Card.Number)
	assert.Empty(t, d.Personal.Card.CVV)

	review, err := d.Review()
	require.NoError(t, err)
	assert.Equal(t, 344, review.Estimate.DistanceKm)
	assert.Equal(t, int64(250), review.Estimate.PerPassenger)
	assert.Equal(t, int64(500), review.Estimate.Total)
	assert.Equal(t, int64(50000), review.Fees.TotalCents)
	assert.Equal(t, int64(12500), review.Fees.CommissionCents)
	assert.Equal(t, int64(37500), review.Fees.NetCents)
	assert.Equal(t, "Jane Doe", review.Passenger)
}

func TestDraft_FormsOutOfOrderAreRejected(t *testing.T) {
	d := NewDraft("draft-1", testNow)

	err := d.Advance(FlightInput{Flight: validFlight()}, testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StepSelectType, d.Step)
	assert.Nil(t, d.Flight)

	err = d.Advance(PersonalInput{Personal: validPersonal()}, testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Nil(t, d.Personal)

	assert.ErrorIs(t, d.Advance(nil, testNow), ErrInvalidTransition)
	assert.ErrorIs(t, d.Advance(&SelectTypeInput{ClaimType: domain.ClaimTypeDelay}, testNow), ErrInvalidTransition)
}

func TestDraft_UnknownClaimTypeStaysOnStep(t *testing.T) {
	d := NewDraft("draft-1", testNow)

	err := d.Advance(SelectTypeInput{ClaimType: "lost_passport"}, testNow)

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, []string{"claim_type"}, fieldNames(t, err))
	assert.Equal(t, StepSelectType, d.Step)
	assert.Empty(t, d.ClaimType)
}

func TestDraft_FlightValidation(t *testing.T) {
	d := NewDraft("draft-1", testNow)
	require.NoError(t, d.Advance(SelectTypeInput{ClaimType: domain.ClaimTypeCancellation}, testNow))

	flight := validFlight()
	flight.FlightNumber = "  "
	flight.DepartureDate = "14/03/2025"
	flight.Passengers = 0
	flight.Destination = ""

	err := d.Advance(FlightInput{Flight: flight}, testNow)

	assert.ErrorIs(t, err, ErrValidation)
	assert.ElementsMatch(t, []string{"flight_number", "departure_date", "arrival_airport", "passengers"}, fieldNames(t, err))
	assert.Equal(t, StepFlightDetails, d.Step)
	assert.Nil(t, d.Flight)
}

func TestDraft_TimesOnlyKeptForDelayAndCancellation(t *testing.T) {
	testCases := []struct {
		claimType domain.ClaimType
		keepTimes bool
	}{
		{domain.ClaimTypeDelay, true},
		{domain.ClaimTypeCancellation, true},
		{domain.ClaimTypeOverbooking, false},
		{domain.ClaimTypeBaggage, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.claimType), func(t *testing.T) {
			d := NewDraft("draft-1", testNow)
			require.NoError(t, d.Advance(SelectTypeInput{ClaimType: tc.claimType}, testNow))
			require.NoError(t, d.Advance(FlightInput{Flight: validFlight()}, testNow))

			if tc.keepTimes {
				assert.NotNil(t, d.Flight.ScheduledDeparture)
				assert.NotNil(t, d.Flight.ActualDeparture)
			} else {
				assert.Nil(t, d.Flight.ScheduledDeparture)
				assert.Nil(t, d.Flight.ActualDeparture)
			}
		})
	}
}

func TestDraft_PersonalValidation(t *testing.T) {
	d := NewDraft("draft-1", testNow)
	require.NoError(t, d.Advance(SelectTypeInput{ClaimType: domain.ClaimTypeDelay}, testNow))
	require.NoError(t, d.Advance(FlightInput{Flight: validFlight()}, testNow))

	personal := validPersonal()
	personal.Email = "not-an-email"
	personal.Address.City = ""
	personal.Card.Number = "4242"
	personal.Card.ExpiryMonth = "13"
	personal.Card.CVV = "x"

	err := d.Advance(PersonalInput{Personal: personal}, testNow)

	assert.ErrorIs(t, err, ErrValidation)
	assert.ElementsMatch(t,
		[]string{"email", "personal_address.city", "card.card_number", "card.expiry_month", "card.cvv"},
		fieldNames(t, err))
	assert.Equal(t, StepPersonalDetails, d.Step)
}

func TestDraft_LongCardNumbers(t *testing.T) {
	d := NewDraft("draft-1", testNow)
	require.NoError(t, d.Advance(SelectTypeInput{ClaimType: domain.ClaimTypeDelay}, testNow))
	require.NoError(t, d.Advance(FlightInput{Flight: validFlight()}, testNow))

	personal := validPersonal()
	personal.Card.Number = "40001234123412345678"
	err := d.Advance(PersonalInput{Personal: personal}, testNow)
	assert.Equal(t, []string{"card.card_number"}, fieldNames(t, err))
	assert.Equal(t, StepPersonalDetails, d.Step)
	assert.Nil(t, d.Personal)

	personal.Card.Number = "4000123412341234567"
	require.NoError(t, d.Advance(PersonalInput{Personal: personal}, testNow))
	assert.Equal(t, "4000 1234 1234 1234 567", d.Personal.Card.Number)

	sub, err := d.Submission()
	require.NoError(t, err)
	assert.Equal(t, "4567", payment.LastFour(sub.Personal.Card.Number))
}

func TestDraft_CardExpiry(t *testing.T) {
	tests := []struct {
		name    string
		month   string
		year    string
		expired bool
	}{
		{name: "past year", month: "12", year: "1999", expired: true},
		{name: "earlier month this year", month: "02", year: "2026", expired: true},
		{name: "current month", month: "03", year: "2026"},
		{name: "later this year", month: "11", year: "2026"},
		{name: "future year", month: "01", year: "2040"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDraft("draft-1", testNow)
			require.NoError(t, d.Advance(SelectTypeInput{ClaimType: domain.ClaimTypeDelay}, testNow))
			require.NoError(t, d.Advance(FlightInput{Flight: validFlight()}, testNow))

			personal := validPersonal()
			personal.Card.ExpiryMonth = tc.month
			personal.Card.ExpiryYear = tc.year
			err := d.Advance(PersonalInput{Personal: personal}, testNow)

			if tc.expired {
				assert.ErrorIs(t, err, ErrValidation)
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, []FieldError{{Field: "card.expiry_year", Rule: "expired"}}, verr.Fields)
				assert.Equal(t, StepPersonalDetails, d.Step)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StepReview, d.Step)
		})
	}
}

func TestDraft_BillingRequiredOnlyWhenNotSameAsPersonal(t *testing.T) {
	d := NewDraft("draft-1", testNow)
	require.NoError(t, d.Advance(SelectTypeInput{ClaimType: domain.ClaimTypeDelay}, testNow))
	require.NoError(t, d.Advance(FlightInput{Flight: validFlight()}, testNow))

	personal := validPersonal()
	personal.SameAsPersonal = false

	err := d.Advance(PersonalInput{Personal: personal}, testNow)
	assert.ElementsMatch(t,
		[]string{"billing_address.address", "billing_address.city", "billing_address.country", "billing_address.postal_code"},
		fieldNames(t, err))

	personal.Billing = domain.Address{Street: "9 Rue de Rivoli", City: "Paris", Country: "France", PostalCode: "75001"}
	require.NoError(t, d.Advance(PersonalInput{Personal: personal}, testNow))
	assert.Equal(t, "Paris", d.Personal.EffectiveBilling().City)
}

func TestDraft_SameAsPersonalMirrorsAddress(t *testing.T) {
	d := NewDraft("draft-1", testNow)
	require.NoError(t, d.Advance(SelectTypeInput{ClaimType: domain.ClaimTypeDelay}, testNow))
	require.NoError(t, d.Advance(FlightInput{Flight: validFlight()}, testNow))

	personal := validPersonal()
	personal.Billing = domain.Address{Street: "9 Rue de Rivoli", City: "Paris", Country: "France", PostalCode: "75001"}
	require.NoError(t, d.Advance(PersonalInput{Personal: personal}, testNow))

	assert.Equal(t, personal.Address, d.Personal.Billing)
	assert.Equal(t, personal.Address, d.Personal.EffectiveBilling())
}

func TestPersonalInfo_EffectiveBillingFollowsToggle(t *testing.T) {
	p := validPersonal()
	billing := domain.Address{Street: "9 Rue de Rivoli", City: "Paris", Country: "France", PostalCode: "75001"}
	p.Billing = billing

	p.SameAsPersonal = false
	assert.Equal(t, billing, p.EffectiveBilling())

	p.SameAsPersonal = true
	assert.Equal(t, p.Address, p.EffectiveBilling())
}

func TestDraft_BackKeepsEnteredData(t *testing.T) {
	d := draftAtReview(t)
	flight := *d.Flight
	personal := *d.Personal

	require.NoError(t, d.Back())
	assert.Equal(t, StepPersonalDetails, d.Step)
	assert.Equal(t, personal, *d.Personal)

	require.NoError(t, d.Back())
	assert.Equal(t, StepFlightDetails, d.Step)
	assert.Equal(t, flight, *d.Flight)
	assert.Equal(t, personal, *d.Personal)

	require.NoError(t, d.Back())
	assert.Equal(t, StepSelectType, d.Step)
	assert.Equal(t, domain.ClaimTypeDelay, d.ClaimType)

	assert.ErrorIs(t, d.Back(), ErrInvalidTransition)
	assert.Equal(t, StepSelectType, d.Step)
}

func TestDraft_ReviewOnlyLeftBySubmission(t *testing.T) {
	d := draftAtReview(t)

	err := d.Advance(PersonalInput{Personal: validPersonal()}, testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StepReview, d.Step)
}

func TestDraft_SuccessIsTerminal(t *testing.T) {
	d := draftAtReview(t)

	require.NoError(t, d.Complete("AH123456"))
	assert.Equal(t, StepSuccess, d.Step)
	assert.Equal(t, "AH123456", d.ClaimID)

	assert.ErrorIs(t, d.Advance(SelectTypeInput{ClaimType: domain.ClaimTypeDelay}, testNow), ErrTerminal)
	assert.ErrorIs(t, d.Back(), ErrTerminal)
	assert.ErrorIs(t, d.Complete("AH000000"), ErrInvalidTransition)
	assert.False(t, d.CanAdvance())
	assert.False(t, d.CanGoBack())
}

func TestDraft_ReviewAndSubmissionRequireReviewStep(t *testing.T) {
	d := NewDraft("draft-1", testNow)

	_, err := d.Review()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = d.Submission()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.ErrorIs(t, d.Complete("AH123456"), ErrInvalidTransition)
}

func TestDraft_IncompleteDraftNeverReviews(t *testing.T) {
	d := &Draft{ID: "draft-1", Step: StepReview, ClaimType: domain.ClaimTypeDelay}

	_, err := d.Review()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	d = &Draft{ID: "draft-1", Step: StepFlightDetails}
	assert.ErrorIs(t, d.Advance(FlightInput{Flight: validFlight()}, testNow), ErrInvalidTransition)
}

func TestDraft_JSONKeepsStepNames(t *testing.T) {
	d := draftAtReview(t)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"step":"review"`)

	var decoded Draft
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, StepReview, decoded.Step)
	assert.Equal(t, d.Personal.Card.Number, decoded.Personal.Card.Number)

	_, err = ParseStep("checkout")
	assert.Error(t, err)
}
