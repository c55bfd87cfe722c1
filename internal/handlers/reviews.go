package handlers

import (
	"context"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/auth"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/models"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/review"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	reviews     *review.Service
	authHandler *auth.AuthHandler
	log         *zap.Logger
}

func NewReviewHandler(reviews *review.Service, authHandler *auth.AuthHandler, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, authHandler: authHandler, log: log}
}

type CreateReviewRequest struct {
	auth.AuthInput
	Body struct {
		DestinationID  string   `json:"destinationId" minLength:"1"`
		Rating         *float64 `json:"rating,omitempty" minimum:"1" maximum:"5" doc:"Used when no category rating is given"`
		Food           *float64 `json:"food,omitempty" minimum:"1" maximum:"5"`
		Lodging        *float64 `json:"lodging,omitempty" minimum:"1" maximum:"5"`
		Transportation *float64 `json:"transportation,omitempty" minimum:"1" maximum:"5"`
		Hotels         *float64 `json:"hotels,omitempty" minimum:"1" maximum:"5"`
		Comment        string   `json:"comment" minLength:"1"`
	}
}

type ReviewResponse struct {
	Body models.Review
}

func (h *ReviewHandler) HandleCreate(ctx context.Context, input *CreateReviewRequest) (*ReviewResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	b := input.Body
	r, err := h.reviews.Create(ctx, user.ID, review.CreateParams{
		DestinationID: b.DestinationID,
		Rating:        b.Rating,
		Categories: review.Categories{
			Food:           b.Food,
			Lodging:        b.Lodging,
			Transportation: b.Transportation,
			Hotels:         b.Hotels,
		},
		Comment: b.Comment,
	})
	if err != nil {
		return nil, toHTTP(h.log, err)
	}
	return &ReviewResponse{Body: *r}, nil
}

type ListReviewsRequest struct {
	DestinationID string `path:"destinationId"`
}

type ListReviewsResponse struct {
	Body []models.Review
}

func (h *ReviewHandler) HandleList(ctx context.Context, input *ListReviewsRequest) (*ListReviewsResponse, error) {
	list, err := h.reviews.List(ctx, input.DestinationID)
	if err != nil {
		return nil, toHTTP(h.log, err)
	}
	return &ListReviewsResponse{Body: list}, nil
}
