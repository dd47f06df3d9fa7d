package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sndrush/booking-api/internal/app"
	"github.com/sndrush/booking-api/internal/domain"
)

// BookingCreator is the minimal interface needed to create a booking.
type BookingCreator interface {
	CreateBooking(ctx context.Context, in app.CreateBookingInput) (app.CreateBookingResult, error)
}

// HandleCreateBooking returns an HTTP handler for the booking endpoint. The
// response carries the plaintext management token exactly once.
func HandleCreateBooking(svc BookingCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookingRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		in, err := req.toInput()
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidEventDate, err.Error())
			return
		}

		result, err := svc.CreateBooking(r.Context(), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := createBookingResponse{
			Reservation: toReservationResponse(result.Reservation),
			Quote:       result.Quote,
			PublicToken: result.PublicToken,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type createBookingRequest struct {
	Email        string `json:"email"`
	Address      string `json:"address,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	EventStart   string `json:"event_start"`
	EventEnd     string `json:"event_end,omitempty"`
	DurationDays int    `json:"duration_days,omitempty"`
	GuestCount   int    `json:"guest_count,omitempty"`
	// Indoor defaults to true when omitted; only an explicit false plans for
	// an outdoor event.
	Indoor           *bool  `json:"indoor,omitempty"`
	Mics             string `json:"mics,omitempty"`
	Console          string `json:"console,omitempty"`
	Lighting         bool   `json:"lighting,omitempty"`
	WithInstallation bool   `json:"with_installation,omitempty"`
}

func (r createBookingRequest) toInput() (app.CreateBookingInput, error) {
	var eventStart, eventEnd time.Time
	var err error
	if r.EventStart != "" {
		if eventStart, err = time.Parse(time.RFC3339, r.EventStart); err != nil {
			return app.CreateBookingInput{}, err
		}
	}
	if r.EventEnd != "" {
		if eventEnd, err = time.Parse(time.RFC3339, r.EventEnd); err != nil {
			return app.CreateBookingInput{}, err
		}
	}

	indoor := true
	if r.Indoor != nil {
		indoor = *r.Indoor
	}

	return app.CreateBookingInput{
		Email:   r.Email,
		Address: r.Address,
		Requirements: domain.EventRequirements{
			GuestCount: r.GuestCount,
			Indoor:     indoor,
			PostalCode: r.PostalCode,
			EventStart: eventStart,
			Mics:       domain.MicPreference(r.Mics),
			Console:    domain.ConsolePreference(r.Console),
			Lighting:   r.Lighting,
		},
		EventEnd:         eventEnd,
		DurationDays:     r.DurationDays,
		WithInstallation: r.WithInstallation,
	}, nil
}

type createBookingResponse struct {
	Reservation reservationResponse `json:"reservation"`
	Quote       domain.QuoteResult  `json:"quote"`
	PublicToken string              `json:"public_token"`
}
