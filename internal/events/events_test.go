package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDecode(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		body, _ := json.Marshal(Event{Type: BookingCreated, BookingRef: "BYABC121234", Travelers: 2})
		ev, err := Decode(body)
		if err != nil {
			t.Fatalf("Decode returned error: %v", err)
		}
		if ev.BookingRef != "BYABC121234" {
			t.Errorf("expected ref BYABC121234, got %s", ev.BookingRef)
		}
		if ev.Travelers != 2 {
			t.Errorf("expected 2 travelers, got %d", ev.Travelers)
		}
	})

	t.Run("UnknownType", func(t *testing.T) {
		if _, err := Decode([]byte(`{"type":"booking.paid"}`)); err == nil {
			t.Error("expected error for unknown type, got nil")
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		if _, err := Decode([]byte(`{not json`)); err == nil {
			t.Error("expected error for malformed body, got nil")
		}
	})
}

func TestDispatch(t *testing.T) {
	var got Event
	handle := func(_ context.Context, ev Event) error {
		got = ev
		return nil
	}

	if err := dispatch(context.Background(), []byte(`{"type":"review.created","rating":4.5}`), handle); err != nil {
		t.Fatalf("dispatch returned error: %v", err)
	}
	if got.Rating != 4.5 {
		t.Errorf("expected rating 4.5, got %v", got.Rating)
	}

	failing := func(context.Context, Event) error { return errors.New("discord down") }
	if err := dispatch(context.Background(), []byte(`{"type":"review.created"}`), failing); err == nil {
		t.Error("expected handler error to propagate, got nil")
	}
}

func TestNextBackoff(t *testing.T) {
	cases := []struct {
		in, want time.Duration
	}{
		{0, time.Second},
		{time.Second, 2 * time.Second},
		{8 * time.Second, 16 * time.Second},
		{20 * time.Second, maxBackoff},
		{maxBackoff, maxBackoff},
	}
	for _, c := range cases {
		if got := nextBackoff(c.in); got != c.want {
			t.Errorf("nextBackoff(%v): expected %v, got %v", c.in, c.want, got)
		}
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), Event{Type: BookingCancelled}); err != nil {
		t.Errorf("expected nil from Nop, got %v", err)
	}
}
