package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/flightclaim/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrClaimNotFound = errors.New("claim not found")

// ClaimRepository writes a claim as four separate rows. The inserts are independent
// statements; callers decide what to do when a later one fails.
type ClaimRepository interface {
	CreateClaim(ctx context.Context, claim *domain.Claim) error
	CreateFlightDetails(ctx context.Context, flight *domain.FlightDetails) error
	CreatePersonalDetails(ctx context.Context, personal *domain.PersonalDetails) error
	CreatePaymentDetails(ctx context.Context, payment *domain.PaymentDetails) error
	ListByUser(ctx context.Context, userID string) ([]domain.ClaimSummary, error)
	GetByID(ctx context.Context, userID, id string) (*domain.ClaimRecord, error)
	ListIncomplete(ctx context.Context, createdBefore time.Time) ([]domain.Claim, error)
}

type PGClaimRepository struct {
	db *pgxpool.Pool
}

func NewClaimRepository(db *pgxpool.Pool) ClaimRepository {
	return &PGClaimRepository{db: db}
}

const claimColumns = `id, claim_reference, user_id, claim_type, status, total_compensation_cents, commission_fee_cents, net_compensation_cents, created_at, updated_at`

func (r *PGClaimRepository) CreateClaim(ctx context.Context, claim *domain.Claim) error {
	return r.db.QueryRow(ctx, `INSERT INTO claims (id, user_id, claim_type, status, total_compensation_cents, commission_fee_cents, net_compensation_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING claim_reference, created_at, updated_at`,
		claim.ID, claim.UserID, claim.Type, claim.Status, claim.TotalCompensationCents, claim.CommissionFeeCents, claim.NetCompensationCents).
		Scan(&claim.Reference, &claim.CreatedAt, &claim.UpdatedAt)
}

func (r *PGClaimRepository) CreateFlightDetails(ctx context.Context, f *domain.FlightDetails) error {
	return r.db.QueryRow(ctx, `INSERT INTO flight_details (claim_id, flight_number, airline, departure_date, departure_airport, arrival_airport, passengers,
			scheduled_departure, actual_departure, scheduled_arrival, actual_arrival, flight_distance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`,
		f.ClaimID, f.FlightNumber, f.Airline, f.DepartureDate, f.DepartureAirport, f.ArrivalAirport, f.Passengers,
		f.ScheduledDeparture, f.ActualDeparture, f.ScheduledArrival, f.ActualArrival, f.DistanceKm).
		Scan(&f.ID, &f.CreatedAt)
}

func (r *PGClaimRepository) CreatePersonalDetails(ctx context.Context, p *domain.PersonalDetails) error {
	return r.db.QueryRow(ctx, `INSERT INTO personal_details (claim_id, first_name, last_name, email, phone, address, city, country, postal_code, booking_reference, ticket_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`,
		p.ClaimID, p.FirstName, p.LastName, p.Email, p.Phone, p.Address.Street, p.Address.City, p.Address.Country, p.Address.PostalCode,
		p.BookingReference, p.TicketNumber).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *PGClaimRepository) CreatePaymentDetails(ctx context.Context, p *domain.PaymentDetails) error {
	return r.db.QueryRow(ctx, `INSERT INTO payment_details (claim_id, card_number_hash, card_last_four, card_brand, expiry_month, expiry_year, cardholder_name,
			billing_address, billing_city, billing_country, billing_postal_code, same_as_personal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`,
		p.ClaimID, p.CardNumberHash, p.CardLastFour, p.CardBrand, p.ExpiryMonth, p.ExpiryYear, p.CardholderName,
		p.Billing.Street, p.Billing.City, p.Billing.Country, p.Billing.PostalCode, p.SameAsPersonal).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *PGClaimRepository) ListByUser(ctx context.Context, userID string) ([]domain.ClaimSummary, error) {
	rows, err := r.db.Query(ctx, `SELECT c.id, c.claim_reference, c.claim_type, c.status,
			COALESCE(f.flight_number, ''), COALESCE(f.departure_airport, ''), COALESCE(f.arrival_airport, ''),
			COALESCE(to_char(f.departure_date, 'YYYY-MM-DD'), ''),
			c.total_compensation_cents, c.net_compensation_cents, c.created_at
		FROM claims c
		LEFT JOIN flight_details f ON f.claim_id = c.id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claims := make([]domain.ClaimSummary, 0)
	for rows.Next() {
		var s domain.ClaimSummary
		if err := rows.Scan(&s.ID, &s.Reference, &s.Type, &s.Status, &s.FlightNumber, &s.DepartureAirport, &s.ArrivalAirport,
			&s.DepartureDate, &s.TotalCompensationCents, &s.NetCompensationCents, &s.CreatedAt); err != nil {
			return nil, err
		}
		claims = append(claims, s)
	}
	return claims, rows.Err()
}

func (r *PGClaimRepository) GetByID(ctx context.Context, userID, id string) (*domain.ClaimRecord, error) {
	var record domain.ClaimRecord
	c := &record.Claim
	err := r.db.QueryRow(ctx, `SELECT `+claimColumns+` FROM claims WHERE id=$1 AND user_id=$2`, id, userID).
		Scan(&c.ID, &c.Reference, &c.UserID, &c.Type, &c.Status, &c.TotalCompensationCents, &c.CommissionFeeCents, &c.NetCompensationCents, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrClaimNotFound
	}
	if err != nil {
		return nil, err
	}

	var f domain.FlightDetails
	err = r.db.QueryRow(ctx, `SELECT id, claim_id, flight_number, airline, departure_date, departure_airport, arrival_airport, passengers,
			scheduled_departure, actual_departure, scheduled_arrival, actual_arrival, flight_distance, created_at
		FROM flight_details WHERE claim_id=$1`, id).
		Scan(&f.ID, &f.ClaimID, &f.FlightNumber, &f.Airline, &f.DepartureDate, &f.DepartureAirport, &f.ArrivalAirport, &f.Passengers,
			&f.ScheduledDeparture, &f.ActualDeparture, &f.ScheduledArrival, &f.ActualArrival, &f.DistanceKm, &f.CreatedAt)
	switch {
	case err == nil:
		record.Flight = &f
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, err
	}

	var p domain.PersonalDetails
	err = r.db.QueryRow(ctx, `SELECT id, claim_id, first_name, last_name, email, phone, address, city, country, postal_code,
			booking_reference, ticket_number, created_at
		FROM personal_details WHERE claim_id=$1`, id).
		Scan(&p.ID, &p.ClaimID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Address.Street, &p.Address.City, &p.Address.Country,
			&p.Address.PostalCode, &p.BookingReference, &p.TicketNumber, &p.CreatedAt)
	switch {
	case err == nil:
		record.Personal = &p
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, err
	}

	var pay domain.PaymentSummary
	err = r.db.QueryRow(ctx, `SELECT card_last_four, card_brand, cardholder_name FROM payment_details WHERE claim_id=$1`, id).
		Scan(&pay.CardLastFour, &pay.CardBrand, &pay.CardholderName)
	switch {
	case err == nil:
		record.Payment = &pay
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, err
	}

	return &record, nil
}

// ListIncomplete returns claims created before the deadline that never got payment details,
// i.e. submissions that stopped partway.
func (r *PGClaimRepository) ListIncomplete(ctx context.Context, createdBefore time.Time) ([]domain.Claim, error) {
	rows, err := r.db.Query(ctx, `SELECT `+claimColumns+` FROM claims c
		WHERE c.created_at <= $1
		AND NOT EXISTS (SELECT 1 FROM payment_details p WHERE p.claim_id = c.id)
		ORDER BY c.created_at`, createdBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []domain.Claim
	for rows.Next() {
		var c domain.Claim
		if err := rows.Scan(&c.ID, &c.Reference, &c.UserID, &c.Type, &c.Status, &c.TotalCompensationCents, &c.CommissionFeeCents,
			&c.NetCompensationCents, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

var _ ClaimRepository = (*PGClaimRepository)(nil)
