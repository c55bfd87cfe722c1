package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/config"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/database"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const TokenDuration = 7 * 24 * time.Hour

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
	log *zap.Logger
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{db: db, cfg: cfg, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (h *AuthHandler) bcryptCost() int {
	if h.cfg.BcryptCost > 0 {
		return h.cfg.BcryptCost
	}
	return 10
}

type TokenResponse struct {
	Body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
}

type RegisterRequest struct {
	Body struct {
		Name         string `json:"name" minLength:"1" maxLength:"120" doc:"Display name"`
		Email        string `json:"email" format:"email" maxLength:"255"`
		Password     string `json:"password" minLength:"6" maxLength:"72"`
		ProfileImage string `json:"profileImage,omitempty" doc:"Avatar reference"`
	}
}

func (h *AuthHandler) HandleRegister(ctx context.Context, input *RegisterRequest) (*TokenResponse, error) {
	name := strings.TrimSpace(input.Body.Name)
	if name == "" {
		return nil, huma.Error400BadRequest("name: is required")
	}
	email := normalizeEmail(input.Body.Email)

	var count int64
	if err := h.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		h.log.Error("check user email", zap.Error(err))
		return nil, huma.Error500InternalServerError("Server error")
	}
	if count > 0 {
		return nil, huma.Error409Conflict("User already exists")
	}

	hash, err := HashPassword(input.Body.Password, h.bcryptCost())
	if err != nil {
		h.log.Error("hash password", zap.Error(err))
		return nil, huma.Error500InternalServerError("Server error")
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleStandard,
		ProfileImage: input.Body.ProfileImage,
	}
	if h.cfg.IsAdminEmail(email) {
		user.Role = models.RoleAdmin
	}

	if err := h.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, huma.Error409Conflict("User already exists")
		}
		h.log.Error("create user", zap.Error(err))
		return nil, huma.Error500InternalServerError("Server error")
	}

	return h.tokenResponse(user)
}

type LoginRequest struct {
	Body struct {
		Email    string `json:"email" minLength:"1"`
		Password string `json:"password" minLength:"1"`
	}
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*TokenResponse, error) {
	var user models.User
	err := h.db.WithContext(ctx).Where("email = ?", normalizeEmail(input.Body.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}
	if err != nil {
		h.log.Error("load user for login", zap.Error(err))
		return nil, huma.Error500InternalServerError("Server error")
	}
	if !VerifyPassword(user.PasswordHash, input.Body.Password) {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}
	return h.tokenResponse(user)
}

func (h *AuthHandler) tokenResponse(user models.User) (*TokenResponse, error) {
	token, err := h.GenerateToken(user.ID)
	if err != nil {
		h.log.Error("sign token", zap.Error(err))
		return nil, huma.Error500InternalServerError("Server error")
	}
	res := &TokenResponse{}
	res.Body.Token = token
	res.Body.User = user
	return res, nil
}

type ProfileResponse struct {
	Body models.User
}

func (h *AuthHandler) HandleProfile(ctx context.Context, input *AuthInput) (*ProfileResponse, error) {
	user, err := h.Authorize(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{Body: *user}, nil
}

type UpdateProfileRequest struct {
	AuthInput
	Body struct {
		Name         *string `json:"name,omitempty" minLength:"1" maxLength:"120"`
		Email        *string `json:"email,omitempty" format:"email" maxLength:"255"`
		Phone        *string `json:"phone,omitempty" maxLength:"32"`
		State        *string `json:"state,omitempty" maxLength:"120"`
		City         *string `json:"city,omitempty" maxLength:"120"`
		Pin          *string `json:"pin,omitempty" maxLength:"16"`
		ProfileImage *string `json:"profileImage,omitempty" doc:"Empty string removes the avatar"`
	}
}

type UpdateProfileResponse struct {
	Body struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}
}

func (h *AuthHandler) HandleUpdateProfile(ctx context.Context, input *UpdateProfileRequest) (*UpdateProfileResponse, error) {
	user, err := h.Authorize(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	b := input.Body
	if b.Email != nil {
		email := normalizeEmail(*b.Email)
		if email != user.Email {
			var count int64
			if err := h.db.WithContext(ctx).Model(&models.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&count).Error; err != nil {
				h.log.Error("check user email", zap.Error(err))
				return nil, huma.Error500InternalServerError("Server error")
			}
			if count > 0 {
				return nil, huma.Error409Conflict("Email already in use")
			}
			user.Email = email
		}
	}
	if b.Name != nil {
		name := strings.TrimSpace(*b.Name)
		if name == "" {
			return nil, huma.Error400BadRequest("name: must not be empty")
		}
		user.Name = name
	}
	if b.Phone != nil {
		user.Phone = *b.Phone
	}
	if b.State != nil {
		user.State = *b.State
	}
	if b.City != nil {
		user.City = *b.City
	}
	if b.Pin != nil {
		user.Pin = *b.Pin
	}
	if b.ProfileImage != nil {
		user.ProfileImage = *b.ProfileImage
	}

	if err := h.db.WithContext(ctx).Save(user).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, huma.Error409Conflict("Email already in use")
		}
		h.log.Error("update profile", zap.String("user_id", user.ID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Server error")
	}

	res := &UpdateProfileResponse{}
	res.Body.Message = "Profile updated successfully"
	res.Body.User = *user
	return res, nil
}

type ChangePasswordRequest struct {
	AuthInput
	Body struct {
		OldPassword string `json:"oldPassword" minLength:"1"`
		NewPassword string `json:"newPassword" minLength:"6" maxLength:"72"`
	}
}

type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *AuthHandler) HandleChangePassword(ctx context.Context, input *ChangePasswordRequest) (*MessageResponse, error) {
	user, err := h.Authorize(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(user.PasswordHash, input.Body.OldPassword) {
		return nil, huma.Error400BadRequest("Current password is incorrect")
	}

	hash, err := HashPassword(input.Body.NewPassword, h.bcryptCost())
	if err != nil {
		h.log.Error("hash password", zap.Error(err))
		return nil, huma.Error500InternalServerError("Server error")
	}
	if err := h.db.WithContext(ctx).Model(user).Update("password_hash", hash).Error; err != nil {
		h.log.Error("change password", zap.String("user_id", user.ID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Server error")
	}

	res := &MessageResponse{}
	res.Body.Message = "Password updated successfully"
	return res, nil
}

type ListUsersResponse struct {
	Body []models.User
}

func (h *AuthHandler) HandleListUsers(ctx context.Context, input *AuthInput) (*ListUsersResponse, error) {
	if _, err := h.RequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	users := []models.User{}
	if err := h.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		h.log.Error("list users", zap.Error(err))
		return nil, huma.Error500InternalServerError("Server error")
	}
	return &ListUsersResponse{Body: users}, nil
}
