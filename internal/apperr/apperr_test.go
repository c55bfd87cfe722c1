package apperr

import (
	"errors"
	"testing"
)

func TestKinds(t *testing.T) {
	t.Run("Validation", func(t *testing.T) {
		err := Validation("travelers", "at least one traveler is required")
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
		if got := Message(err); got != "travelers: at least one traveler is required" {
			t.Errorf("unexpected message %q", got)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound("Booking not found")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if got := Message(err); got != "Booking not found" {
			t.Errorf("expected 'Booking not found', got %q", got)
		}
	})

	t.Run("Storage", func(t *testing.T) {
		cause := errors.New("disk full")
		err := Storage("create booking", cause)
		if !errors.Is(err, ErrStorage) {
			t.Error("expected ErrStorage")
		}
		if !errors.Is(err, cause) {
			t.Error("expected cause to stay reachable")
		}
	})
}
