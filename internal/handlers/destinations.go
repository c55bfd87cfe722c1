package handlers

import (
	"context"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/auth"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/catalog"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/models"
	"go.uber.org/zap"
)

type DestinationHandler struct {
	catalog     *catalog.Service
	authHandler *auth.AuthHandler
	log         *zap.Logger
}

func NewDestinationHandler(catalog *catalog.Service, authHandler *auth.AuthHandler, log *zap.Logger) *DestinationHandler {
	return &DestinationHandler{catalog: catalog, authHandler: authHandler, log: log}
}

type DestinationResponse struct {
	Body models.Destination
}

type ListDestinationsResponse struct {
	Body []models.Destination
}

func (h *DestinationHandler) HandleListVisible(ctx context.Context, _ *struct{}) (*ListDestinationsResponse, error) {
	list, err := h.catalog.ListVisible(ctx)
	if err != nil {
		return nil, toHTTP(h.log, err)
	}
	return &ListDestinationsResponse{Body: list}, nil
}

func (h *DestinationHandler) HandleListAll(ctx context.Context, input *auth.AuthInput) (*ListDestinationsResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}
	list, err := h.catalog.ListAll(ctx)
	if err != nil {
		return nil, toHTTP(h.log, err)
	}
	return &ListDestinationsResponse{Body: list}, nil
}

type DestinationIDRequest struct {
	ID string `path:"id"`
}

func (h *DestinationHandler) HandleGet(ctx context.Context, input *DestinationIDRequest) (*DestinationResponse, error) {
	d, err := h.catalog.Get(ctx, input.ID)
	if err != nil {
		return nil, toHTTP(h.log, err)
	}
	return &DestinationResponse{Body: *d}, nil
}

type CreateDestinationRequest struct {
	auth.AuthInput
	Body struct {
		Title           string  `json:"title" minLength:"1" maxLength:"200"`
		Description     string  `json:"description,omitempty"`
		Price           float64 `json:"price" minimum:"0" doc:"Price per person"`
		Duration        string  `json:"duration" minLength:"1" doc:"Free text, e.g. \"5 Days / 4 Nights\""`
		ImagePath       string  `json:"imagePath,omitempty"`
		BrochurePath    string  `json:"brochurePath,omitempty"`
		IsHidden        bool    `json:"isHidden,omitempty"`
		MoreDestination bool    `json:"moreDestination,omitempty"`
	}
}

func (h *DestinationHandler) HandleCreate(ctx context.Context, input *CreateDestinationRequest) (*DestinationResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}
	b := input.Body
	d, err := h.catalog.Create(ctx, catalog.Fields{
		Title:           &b.Title,
		Description:     &b.Description,
		Price:           &b.Price,
		Duration:        &b.Duration,
		ImagePath:       &b.ImagePath,
		BrochurePath:    &b.BrochurePath,
		IsHidden:        &b.IsHidden,
		MoreDestination: &b.MoreDestination,
	})
	if err != nil {
		return nil, toHTTP(h.log, err)
	}
	return &DestinationResponse{Body: *d}, nil
}

type UpdateDestinationRequest struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		Title           *string  `json:"title,omitempty" minLength:"1" maxLength:"200"`
		Description     *string  `json:"description,omitempty"`
		Price           *float64 `json:"price,omitempty" minimum:"0"`
		Duration        *string  `json:"duration,omitempty" minLength:"1"`
		ImagePath       *string  `json:"imagePath,omitempty"`
		BrochurePath    *string  `json:"brochurePath,omitempty"`
		IsHidden        *bool    `json:"isHidden,omitempty"`
		MoreDestination *bool    `json:"moreDestination,omitempty"`
	}
}

func (h *DestinationHandler) HandleUpdate(ctx context.Context, input *UpdateDestinationRequest) (*DestinationResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}
	b := input.Body
	d, err := h.catalog.Update(ctx, input.ID, catalog.Fields{
		Title:           b.Title,
		Description:     b.Description,
		Price:           b.Price,
		Duration:        b.Duration,
		ImagePath:       b.ImagePath,
		BrochurePath:    b.BrochurePath,
		IsHidden:        b.IsHidden,
		MoreDestination: b.MoreDestination,
	})
	if err != nil {
		return nil, toHTTP(h.log, err)
	}
	return &DestinationResponse{Body: *d}, nil
}

type DeleteDestinationRequest struct {
	auth.AuthInput
	ID string `path:"id"`
}

func (h *DestinationHandler) HandleDelete(ctx context.Context, input *DeleteDestinationRequest) (*MessageResponse, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}
	if err := h.catalog.Delete(ctx, input.ID); err != nil {
		return nil, toHTTP(h.log, err)
	}
	return message("Destination removed"), nil
}
