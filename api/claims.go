package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/flightclaim/internal/auth"
	"github.com/Domenick1991/flightclaim/internal/domain"
	"github.com/Domenick1991/flightclaim/internal/service/claims"
	"github.com/gin-gonic/gin"
)

type ClaimHandler struct {
	service claims.ClaimUseCase
}

type claimResponse struct {
	ID                     string                   `json:"id"`
	Reference              string                   `json:"claim_reference"`
	Type                   domain.ClaimType         `json:"claim_type"`
	Status                 domain.ClaimStatus       `json:"status"`
	TotalCompensationCents int64                    `json:"total_compensation_cents"`
	CommissionFeeCents     int64                    `json:"commission_fee_cents"`
	NetCompensationCents   int64                    `json:"net_compensation_cents"`
	CreatedAt              string                   `json:"created_at"`
	Flight                 *flightDetailsResponse   `json:"flight_details,omitempty"`
	Personal               *personalDetailsResponse `json:"personal_details,omitempty"`
	Payment                *paymentResponse         `json:"payment_details,omitempty"`
}

type flightDetailsResponse struct {
	FlightNumber       string     `json:"flight_number"`
	Airline            string     `json:"airline,omitempty"`
	DepartureDate      string     `json:"departure_date"`
	DepartureAirport   string     `json:"departure_airport"`
	ArrivalAirport     string     `json:"arrival_airport"`
	Passengers         int        `json:"passengers"`
	DistanceKm         int        `json:"flight_distance"`
	ScheduledDeparture *time.Time `json:"scheduled_departure,omitempty"`
	ActualDeparture    *time.Time `json:"actual_departure,omitempty"`
	ScheduledArrival   *time.Time `json:"scheduled_arrival,omitempty"`
	ActualArrival      *time.Time `json:"actual_arrival,omitempty"`
}

type personalDetailsResponse struct {
	FirstName        string         `json:"first_name"`
	LastName         string         `json:"last_name"`
	Email            string         `json:"email"`
	Phone            string         `json:"phone"`
	Address          domain.Address `json:"personal_address"`
	BookingReference string         `json:"booking_reference,omitempty"`
	TicketNumber     string         `json:"ticket_number,omitempty"`
}

type paymentResponse struct {
	CardLastFour   string `json:"card_last_four"`
	CardBrand      string `json:"card_brand"`
	CardholderName string `json:"cardholder_name"`
}

func NewClaimHandler(service claims.ClaimUseCase) *ClaimHandler {
	return &ClaimHandler{service: service}
}

func (h *ClaimHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *ClaimHandler) list(c *gin.Context) {
	list, err := h.service.GetUserClaims(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ClaimHandler) get(c *gin.Context) {
	record, err := h.service.GetClaimByID(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toClaimResponse(record))
}

func toClaimResponse(r *domain.ClaimRecord) claimResponse {
	resp := claimResponse{
		ID:                     r.Claim.ID,
		Reference:              r.Claim.Reference,
		Type:                   r.Claim.Type,
		Status:                 r.Claim.Status,
		TotalCompensationCents: r.Claim.TotalCompensationCents,
		CommissionFeeCents:     r.Claim.CommissionFeeCents,
		NetCompensationCents:   r.Claim.NetCompensationCents,
		CreatedAt:              r.Claim.CreatedAt.Format(time.RFC3339),
	}
	if f := r.Flight; f != nil {
		resp.Flight = &flightDetailsResponse{
			FlightNumber:       f.FlightNumber,
			Airline:            f.Airline,
			DepartureDate:      f.DepartureDate.Format(time.DateOnly),
			DepartureAirport:   f.DepartureAirport,
			ArrivalAirport:     f.ArrivalAirport,
			Passengers:         f.Passengers,
			DistanceKm:         f.DistanceKm,
			ScheduledDeparture: f.ScheduledDeparture,
			ActualDeparture:    f.ActualDeparture,
			ScheduledArrival:   f.ScheduledArrival,
			ActualArrival:      f.ActualArrival,
		}
	}
	if p := r.Personal; p != nil {
		resp.Personal = &personalDetailsResponse{
			FirstName:        p.FirstName,
			LastName:         p.LastName,
			Email:            p.Email,
			Phone:            p.Phone,
			Address:          p.Address,
			BookingReference: p.BookingReference,
			TicketNumber:     p.TicketNumber,
		}
	}
	if p := r.Payment; p != nil {
		resp.Payment = &paymentResponse{
			CardLastFour:   p.CardLastFour,
			CardBrand:      p.CardBrand,
			CardholderName: p.CardholderName,
		}
	}
	return resp
}
