package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthInput is embedded in the input of every protected operation.
type AuthInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token returned by login or register"`
}

func (h *AuthHandler) GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(h.tokenTTL()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

func (h *AuthHandler) tokenTTL() time.Duration {
	if h.cfg.TokenTTL > 0 {
		return h.cfg.TokenTTL
	}
	return TokenDuration
}

// ParseToken validates an HS256 token and returns its user_id claim.
func (h *AuthHandler) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("invalid token claims")
	}
	return userID, nil
}

// Authorize resolves the caller from a bearer header to a live user.
func (h *AuthHandler) Authorize(ctx context.Context, header string) (*models.User, error) {
	raw, ok := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil, huma.Error401Unauthorized("Not authorized, no token")
	}

	userID, err := h.ParseToken(raw)
	if err != nil {
		return nil, huma.Error401Unauthorized("Not authorized, token failed")
	}

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error401Unauthorized("Not authorized, user not found")
		}
		h.log.Error("load caller", zap.String("user_id", userID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Server error")
	}
	return &user, nil
}

// RequireAdmin is Authorize plus the admin role check.
func (h *AuthHandler) RequireAdmin(ctx context.Context, header string) (*models.User, error) {
	user, err := h.Authorize(ctx, header)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, huma.Error403Forbidden("Not authorized as admin")
	}
	return user, nil
}
