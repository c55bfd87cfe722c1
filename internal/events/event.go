// Package events carries booking and review domain events to the message broker.
// Publishing is best effort: callers log a failed Publish and carry on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingCancelled Type = "booking.cancelled"
	BookingAmended   Type = "booking.amended"
	ReviewCreated    Type = "review.created"
)

// Event is a flat payload so consumers can format it without a database lookup.
type Event struct {
	Type             Type      `json:"type"`
	OccurredAt       time.Time `json:"occurredAt"`
	UserID           string    `json:"userId"`
	DestinationID    string    `json:"destinationId"`
	DestinationTitle string    `json:"destinationTitle,omitempty"`
	BookingID        string    `json:"bookingId,omitempty"`
	BookingRef       string    `json:"bookingRef,omitempty"`
	PackageType      string    `json:"packageType,omitempty"`
	Travelers        int       `json:"travelers,omitempty"`
	TravelDate       string    `json:"travelDate,omitempty"`
	TotalPrice       float64   `json:"totalPrice,omitempty"`
	SpecialRequests  string    `json:"specialRequests,omitempty"`
	ReviewID         string    `json:"reviewId,omitempty"`
	ReviewerName     string    `json:"reviewerName,omitempty"`
	Rating           float64   `json:"rating,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

func Decode(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	switch ev.Type {
	case BookingCreated, BookingCancelled, BookingAmended, ReviewCreated:
		return ev, nil
	default:
		return Event{}, fmt.Errorf("unknown event type %q", ev.Type)
	}
}
