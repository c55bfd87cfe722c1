package auth

import (
	"context"
	"testing"
	"time"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

func TestAuthorize(t *testing.T) {
	h, db := setupHandler(t)

	user := models.User{Name: "Tara", Email: "tara@example.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	sign := func(claims jwt.MapClaims, secret string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		s, _ := token.SignedString([]byte(secret))
		return s
	}

	t.Run("Valid", func(t *testing.T) {
		token, _ := h.GenerateToken(user.ID)
		got, err := h.Authorize(context.Background(), "Bearer "+token)
		if err != nil {
			t.Fatalf("Authorize returned error: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, got.ID)
		}
	})

	cases := map[string]string{
		"MissingHeader": "",
		"NoBearer":      "Token abc",
		"Garbage":       "Bearer not-a-jwt",
		"WrongSecret": "Bearer " + sign(jwt.MapClaims{
			"user_id": user.ID,
			"exp":     time.Now().Add(time.Hour).Unix(),
		}, "other-secret"),
		"Expired": "Bearer " + sign(jwt.MapClaims{
			"user_id": user.ID,
			"exp":     time.Now().Add(-time.Minute).Unix(),
		}, "test-secret"),
		"NoExpiry": "Bearer " + sign(jwt.MapClaims{
			"user_id": user.ID,
		}, "test-secret"),
		"UnknownUser": "Bearer " + sign(jwt.MapClaims{
			"user_id": "00000000-0000-0000-0000-000000000000",
			"exp":     time.Now().Add(time.Hour).Unix(),
		}, "test-secret"),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.Authorize(context.Background(), header)
			if statusOf(err) != 401 {
				t.Errorf("expected 401, got %v", err)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	h, db := setupHandler(t)

	admin := models.User{Name: "Root", Email: "root@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	guest := models.User{Name: "Guest", Email: "guest@example.com", PasswordHash: "x", Role: models.RoleStandard}
	db.Create(&admin)
	db.Create(&guest)

	adminToken, _ := h.GenerateToken(admin.ID)
	guestToken, _ := h.GenerateToken(guest.ID)

	if _, err := h.RequireAdmin(context.Background(), "Bearer "+adminToken); err != nil {
		t.Errorf("expected admin to pass, got %v", err)
	}
	if _, err := h.RequireAdmin(context.Background(), "Bearer "+guestToken); statusOf(err) != 403 {
		t.Errorf("expected 403 for standard user, got %v", err)
	}
	if _, err := h.RequireAdmin(context.Background(), ""); statusOf(err) != 401 {
		t.Errorf("expected 401 without token, got %v", err)
	}
}
