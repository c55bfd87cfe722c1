package handlers

import (
	"context"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/auth"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/booking"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/models"
	"go.uber.org/zap"
)

type BookingHandler struct {
	engine      *booking.Engine
	authHandler *auth.AuthHandler
	log         *zap.Logger
}

func NewBookingHandler(engine *booking.Engine, authHandler *auth.AuthHandler, log *zap.Logger) *BookingHandler {
	return &BookingHandler{engine: engine, authHandler: authHandler, log: log}
}

type CreateBookingRequest struct {
	auth.AuthInput
	IdempotencyKey string `header:"Idempotency-Key" doc:"Repeating a key returns the first response without booking again"`
	Body           struct {
		DestinationID   string              `json:"destinationId" minLength:"1"`
		PackageType     models.PackageType  `json:"packageType,omitempty" enum:"Standard,Deluxe,Premium" doc:"Defaults to Standard"`
		Travelers       []models.Traveler   `json:"travelers" minItems:"1"`
		TravelDate      string              `json:"travelDate" format:"date" doc:"YYYY-MM-DD"`
		PersonalInfo    models.PersonalInfo `json:"personalInfo"`
		UPIID           string              `json:"upiId" minLength:"1"`
		SpecialRequests string              `json:"specialRequests,omitempty" maxLength:"1000"`
	}
}

type BookingResponse struct {
	Body models.Booking
}

func (h *BookingHandler) HandleCreate(ctx context.Context, input *CreateBookingRequest) (*BookingResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	b := input.Body
	created, err := h.engine.Create(ctx, user.ID, booking.CreateParams{
		DestinationID:   b.DestinationID,
		PackageType:     b.PackageType,
		Travelers:       b.Travelers,
		TravelDate:      b.TravelDate,
		PersonalInfo:    b.PersonalInfo,
		UPIID:           b.UPIID,
		SpecialRequests: b.SpecialRequests,
	})
	if err != nil {
		return nil, toHTTP(h.log, err)
	}
	return &BookingResponse{Body: *created}, nil
}

type ListBookingsResponse struct {
	Body []models.Booking
}

func (h *BookingHandler) HandleListOwn(ctx context.Context, input *auth.AuthInput) (*ListBookingsResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	list, err := h.engine.ListOwn(ctx, user.ID)
	if err != nil {
		return nil, toHTTP(h.log, err)
	}
	return &ListBookingsResponse{Body: list}, nil
}

func (h *BookingHandler) HandleListAll(ctx context.Context, input *auth.AuthInput) (*ListBookingsResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}
	list, err := h.engine.ListAll(ctx)
	if err != nil {
		return nil, toHTTP(h.log, err)
	}
	return &ListBookingsResponse{Body: list}, nil
}

type BookingIDRequest struct {
	auth.AuthInput
	ID string `path:"id"`
}

func (h *BookingHandler) HandleCancel(ctx context.Context, input *BookingIDRequest) (*MessageResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := h.engine.Cancel(ctx, user.ID, input.ID); err != nil {
		return nil, toHTTP(h.log, err)
	}
	return message("Booking cancelled successfully"), nil
}

type AmendBookingRequest struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		SpecialRequests string `json:"specialRequests" maxLength:"1000"`
	}
}

type AmendBookingResponse struct {
	Body struct {
		Message string         `json:"message"`
		Booking models.Booking `json:"booking"`
	}
}

func (h *BookingHandler) HandleAmend(ctx context.Context, input *AmendBookingRequest) (*AmendBookingResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	updated, err := h.engine.AmendSpecialRequests(ctx, user.ID, input.ID, input.Body.SpecialRequests)
	if err != nil {
		return nil, toHTTP(h.log, err)
	}
	res := &AmendBookingResponse{}
	res.Body.Message = "Booking updated successfully"
	res.Body.Booking = *updated
	return res, nil
}
