package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/princeprakhar/reviewhub-backend/internal/models"
	"github.com/princeprakhar/reviewhub-backend/internal/types"
	"github.com/princeprakhar/reviewhub-backend/internal/utils"
	"gorm.io/gorm"
)

type AuthService struct {
	db         *gorm.DB
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(db *gorm.DB, jwtSecret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		db:         db,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register creates a regular user. The unique index on email decides races
// between concurrent registrations.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*types.AuthResponse, error) {
	name := utils.SanitizeString(req.Name)
	email := normalizeEmail(req.Email)

	if name == "" {
		return nil, types.NewInvalidInput("name is required")
	}
	if !utils.IsValidEmail(email) {
		return nil, types.NewInvalidInput("invalid email format")
	}
	if !utils.IsValidPassword(req.Password) {
		return nil, types.NewInvalidInput("password must be at least 8 characters")
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: req.Password, // Will be hashed in BeforeCreate hook
		Role:     models.RoleUser,
	}

	var resp *types.AuthResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return types.NewConflict("email already registered")
			}
			return types.NewUnavailable("failed to create user", err)
		}

		var err error
		resp, err = s.issueTokens(tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*types.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if !utils.IsValidEmail(email) {
		return nil, types.NewInvalidInput("invalid email format")
	}

	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewUnauthenticated("invalid credentials")
		}
		return nil, types.NewUnavailable("failed to find user", err)
	}

	if !user.CheckPassword(req.Password) {
		return nil, types.NewUnauthenticated("invalid credentials")
	}

	return s.issueTokens(db, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued in the same transaction.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*types.AuthResponse, error) {
	claims, err := utils.ValidateToken(req.RefreshToken, s.jwtSecret)
	if err != nil || claims.Type != string(utils.RefreshToken) {
		return nil, types.NewUnauthenticated("invalid refresh token")
	}

	var resp *types.AuthResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RefreshToken{}).
			Where("token = ? AND is_revoked = ? AND expires_at > ?", req.RefreshToken, false, time.Now()).
			Update("is_revoked", true)
		if res.Error != nil {
			return types.NewUnavailable("failed to revoke refresh token", res.Error)
		}
		if res.RowsAffected == 0 {
			return types.NewUnauthenticated("refresh token not found or expired")
		}

		var user models.User
		if err := tx.First(&user, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewUnauthenticated("user not found")
			}
			return types.NewUnavailable("failed to find user", err)
		}

		var err error
		resp, err = s.issueTokens(tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", refreshToken).
		Update("is_revoked", true).Error
	if err != nil {
		return types.NewUnavailable("failed to revoke refresh token", err)
	}
	return nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFound("user not found")
		}
		return nil, types.NewUnavailable("failed to find user", err)
	}
	return &user, nil
}

func (s *AuthService) issueTokens(db *gorm.DB, user models.User) (*types.AuthResponse, error) {
	tokenPair, err := utils.GenerateTokenPair(user.ID, string(user.Role), s.jwtSecret, s.accessTTL, s.refreshTTL)
	if err != nil {
		return nil, types.NewUnavailable("failed to generate tokens", err)
	}

	refreshToken := models.RefreshToken{
		UserID:    user.ID,
		Token:     tokenPair.RefreshToken,
		ExpiresAt: time.Unix(tokenPair.RefreshTokenExpiresAt, 0),
	}
	if err := db.Create(&refreshToken).Error; err != nil {
		return nil, types.NewUnavailable("failed to store refresh token", err)
	}

	return &types.AuthResponse{Token: *tokenPair, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
