package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/auth"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/booking"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/catalog"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/config"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/database"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/review"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

func setupHandlers(t *testing.T) (*config.Config, Handlers) {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	log := zaptest.NewLogger(t)
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		BcryptCost:         bcrypt.MinCost,
		AdminEmails:        []string{"admin@bharatyatra.in"},
		RateLimitPerMinute: 20,
		EnableCORS:         true,
		CORSOrigins:        []string{"http://127.0.0.1:5500"},
	}

	authHandler := auth.NewAuthHandler(cfg, db, log)
	return cfg, Handlers{
		Auth:         authHandler,
		Bookings:     NewBookingHandler(booking.NewEngine(db, nil, log), authHandler, log),
		Reviews:      NewReviewHandler(review.NewService(db, nil, log), authHandler, log),
		Destinations: NewDestinationHandler(catalog.NewService(db, log), authHandler, log),
	}
}

func setupAPI(t *testing.T) humatest.TestAPI {
	t.Helper()
	cfg, h := setupHandlers(t)
	_, api := humatest.New(t, NewConfig())
	Register(api, cfg, h, nil, zaptest.NewLogger(t))
	return api
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(resp.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", resp.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, resp *httptest.ResponseRecorder, want int) {
	t.Helper()
	if resp.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, resp.Code, resp.Body.String())
	}
}

func signUp(t *testing.T, api humatest.TestAPI, name, email string) string {
	t.Helper()
	resp := api.Post("/api/auth/register", map[string]any{
		"name":     name,
		"email":    email,
		"password": "secret1",
	})
	expectStatus(t, resp, http.StatusCreated)
	return "Authorization: Bearer " + decode[struct {
		Token string `json:"token"`
	}](t, resp).Token
}

type idBody struct {
	ID string `json:"id"`
}

func createDestination(t *testing.T, api humatest.TestAPI, admin string, price float64) string {
	t.Helper()
	resp := api.Post("/api/destinations", admin, map[string]any{
		"title":    "Rann of Kutch",
		"price":    price,
		"duration": "3 Days / 2 Nights",
	})
	expectStatus(t, resp, http.StatusCreated)
	return decode[idBody](t, resp).ID
}

func bookingBody(destID string, travelers ...map[string]any) map[string]any {
	return map[string]any{
		"destinationId": destID,
		"packageType":   "Deluxe",
		"travelers":     travelers,
		"travelDate":    "2026-12-20",
		"personalInfo": map[string]any{
			"phone": "9876543210",
			"state": "Gujarat",
			"city":  "Bhuj",
			"email": "guest@example.com",
			"pin":   "370001",
		},
		"upiId": "guest@upi",
	}
}

func traveler(name string) map[string]any {
	return map[string]any{"name": name, "age": 28, "gender": "Male"}
}

func TestAuthRoutes(t *testing.T) {
	api := setupAPI(t)
	user := signUp(t, api, "Dev", "dev@example.com")

	t.Run("Profile", func(t *testing.T) {
		resp := api.Get("/api/auth/profile", user)
		expectStatus(t, resp, http.StatusOK)
		body := resp.Body.String()
		if decode[struct {
			Email string `json:"email"`
		}](t, resp).Email != "dev@example.com" {
			t.Errorf("unexpected profile %s", body)
		}
		var raw map[string]any
		json.Unmarshal(resp.Body.Bytes(), &raw)
		if _, ok := raw["passwordHash"]; ok {
			t.Error("expected credential to be omitted from profile")
		}
	})

	t.Run("NoToken", func(t *testing.T) {
		resp := api.Get("/api/auth/profile")
		expectStatus(t, resp, http.StatusUnauthorized)
		if decode[ErrorBody](t, resp).Message == "" {
			t.Error("expected an error message")
		}
	})

	t.Run("ShortPassword", func(t *testing.T) {
		resp := api.Post("/api/auth/register", map[string]any{
			"name": "X", "email": "x@example.com", "password": "123",
		})
		expectStatus(t, resp, http.StatusBadRequest)
		if len(decode[ErrorBody](t, resp).Errors) == 0 {
			t.Error("expected validation details")
		}
	})

	t.Run("UsersAdminOnly", func(t *testing.T) {
		expectStatus(t, api.Get("/api/auth/users", user), http.StatusForbidden)
		admin := signUp(t, api, "Admin", "admin@bharatyatra.in")
		expectStatus(t, api.Get("/api/auth/users", admin), http.StatusOK)
	})
}

func TestBookingRoutes(t *testing.T) {
	api := setupAPI(t)
	admin := signUp(t, api, "Admin", "admin@bharatyatra.in")
	user := signUp(t, api, "Guest", "guest@example.com")
	other := signUp(t, api, "Other", "other@example.com")

	expectStatus(t, api.Post("/api/destinations", user, map[string]any{
		"title": "Nope", "price": 1, "duration": "1 Day",
	}), http.StatusForbidden)

	destID := createDestination(t, api, admin, 1000)

	t.Run("Unauthenticated", func(t *testing.T) {
		resp := api.Post("/api/bookings", bookingBody(destID, traveler("A")))
		expectStatus(t, resp, http.StatusUnauthorized)
	})

	t.Run("EmptyTravelers", func(t *testing.T) {
		resp := api.Post("/api/bookings", user, bookingBody(destID))
		expectStatus(t, resp, http.StatusBadRequest)
	})

	t.Run("UnknownField", func(t *testing.T) {
		body := bookingBody(destID, traveler("A"))
		body["discount"] = 50
		expectStatus(t, api.Post("/api/bookings", user, body), http.StatusBadRequest)
	})

	t.Run("BadGender", func(t *testing.T) {
		body := bookingBody(destID, map[string]any{"name": "A", "age": 3, "gender": "Robot"})
		expectStatus(t, api.Post("/api/bookings", user, body), http.StatusBadRequest)
	})

	t.Run("UnknownDestination", func(t *testing.T) {
		resp := api.Post("/api/bookings", user, bookingBody("missing", traveler("A")))
		expectStatus(t, resp, http.StatusNotFound)
		if msg := decode[ErrorBody](t, resp).Message; msg != "Destination not found" {
			t.Errorf("expected 'Destination not found', got %q", msg)
		}
	})

	resp := api.Post("/api/bookings", user, bookingBody(destID, traveler("A"), traveler("B"), traveler("C")))
	expectStatus(t, resp, http.StatusCreated)
	created := decode[struct {
		ID         string  `json:"id"`
		BookingRef string  `json:"bookingRef"`
		TotalPrice float64 `json:"totalPrice"`
	}](t, resp)
	if created.TotalPrice != 4500 {
		t.Errorf("expected total 4500, got %v", created.TotalPrice)
	}
	if created.BookingRef == "" {
		t.Error("expected a booking reference")
	}

	t.Run("ListOwn", func(t *testing.T) {
		resp := api.Get("/api/bookings/me", user)
		expectStatus(t, resp, http.StatusOK)
		if n := len(decode[[]idBody](t, resp)); n != 1 {
			t.Errorf("expected 1 booking, got %d", n)
		}
		resp = api.Get("/api/bookings/me", other)
		if n := len(decode[[]idBody](t, resp)); n != 0 {
			t.Errorf("expected 0 bookings for other user, got %d", n)
		}
	})

	t.Run("ListAllAdminOnly", func(t *testing.T) {
		expectStatus(t, api.Get("/api/bookings", user), http.StatusForbidden)
		resp := api.Get("/api/bookings", admin)
		expectStatus(t, resp, http.StatusOK)
		if n := len(decode[[]idBody](t, resp)); n != 1 {
			t.Errorf("expected 1 booking, got %d", n)
		}
	})

	t.Run("Amend", func(t *testing.T) {
		resp := api.Patch("/api/bookings/"+created.ID, user, map[string]any{"specialRequests": "Camel safari"})
		expectStatus(t, resp, http.StatusOK)
		out := decode[struct {
			Message string `json:"message"`
			Booking struct {
				SpecialRequests string  `json:"specialRequests"`
				TotalPrice      float64 `json:"totalPrice"`
			} `json:"booking"`
		}](t, resp)
		if out.Booking.SpecialRequests != "Camel safari" || out.Booking.TotalPrice != 4500 {
			t.Errorf("unexpected amend result %+v", out)
		}
		expectStatus(t, api.Patch("/api/bookings/"+created.ID, other, map[string]any{"specialRequests": "x"}), http.StatusNotFound)
	})

	t.Run("DestinationDeleteBlocked", func(t *testing.T) {
		expectStatus(t, api.Delete("/api/destinations/"+destID, admin), http.StatusConflict)
	})

	t.Run("Cancel", func(t *testing.T) {
		expectStatus(t, api.Delete("/api/bookings/"+created.ID, other), http.StatusNotFound)
		expectStatus(t, api.Delete("/api/bookings/"+created.ID, user), http.StatusOK)
		expectStatus(t, api.Delete("/api/bookings/"+created.ID, user), http.StatusNotFound)
	})
}

func TestReviewRoutes(t *testing.T) {
	api := setupAPI(t)
	admin := signUp(t, api, "Admin", "admin@bharatyatra.in")
	user := signUp(t, api, "Sana", "sana@example.com")
	destID := createDestination(t, api, admin, 2500)

	resp := api.Post("/api/reviews", user, map[string]any{
		"destinationId": destID,
		"food":          4,
		"lodging":       2,
		"comment":       "White desert at night",
	})
	expectStatus(t, resp, http.StatusCreated)
	if r := decode[struct {
		Rating float64 `json:"rating"`
	}](t, resp); r.Rating != 3 {
		t.Errorf("expected rating 3, got %v", r.Rating)
	}

	resp = api.Post("/api/reviews", user, map[string]any{
		"destinationId": destID,
		"rating":        5,
		"comment":       "Second try",
	})
	expectStatus(t, resp, http.StatusConflict)

	expectStatus(t, api.Post("/api/reviews", user, map[string]any{
		"destinationId": destID,
		"rating":        7,
		"comment":       "Too high",
	}), http.StatusBadRequest)

	resp = api.Get("/api/reviews/" + destID)
	expectStatus(t, resp, http.StatusOK)
	list := decode[[]struct {
		Name   string `json:"name"`
		Author struct {
			Name string `json:"name"`
		} `json:"author"`
	}](t, resp)
	if len(list) != 1 || list[0].Author.Name != "Sana" {
		t.Errorf("unexpected review list %+v", list)
	}
}

func TestDestinationRoutes(t *testing.T) {
	api := setupAPI(t)
	admin := signUp(t, api, "Admin", "admin@bharatyatra.in")
	id := createDestination(t, api, admin, 3000)

	expectStatus(t, api.Put("/api/destinations/"+id, admin, map[string]any{"isHidden": true}), http.StatusOK)

	resp := api.Get("/api/destinations")
	expectStatus(t, resp, http.StatusOK)
	if n := len(decode[[]idBody](t, resp)); n != 0 {
		t.Errorf("expected hidden destination to be unlisted, got %d", n)
	}

	resp = api.Get("/api/destinations/all", admin)
	expectStatus(t, resp, http.StatusOK)
	if n := len(decode[[]idBody](t, resp)); n != 1 {
		t.Errorf("expected 1 destination for admin, got %d", n)
	}

	expectStatus(t, api.Get("/api/destinations/"+id), http.StatusOK)
	expectStatus(t, api.Put("/api/destinations/"+id, admin, map[string]any{"price": -1}), http.StatusBadRequest)
	expectStatus(t, api.Delete("/api/destinations/"+id, admin), http.StatusOK)
	expectStatus(t, api.Get("/api/destinations/"+id), http.StatusNotFound)
}

func TestRegisterRoutes(t *testing.T) {
	cfg, h := setupHandlers(t)
	r := chi.NewRouter()
	RegisterRoutes(r, cfg, h, nil, zaptest.NewLogger(t))

	t.Run("Health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rr.Code != http.StatusOK || rr.Body.String() != "OK" {
			t.Errorf("expected 200 OK, got %d %q", rr.Code, rr.Body.String())
		}
	})

	t.Run("Metrics", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if rr.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("Destinations", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/destinations", nil))
		if rr.Code != http.StatusOK {
			t.Errorf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("CORSPreflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
		req.Header.Set("Origin", "http://127.0.0.1:5500")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://127.0.0.1:5500" {
			t.Errorf("expected allowed origin header, got %q", got)
		}
	})
}
