package service

import (
	"context"
	"errors"
	"strings"

	"github.com/foxerka/enterprise-assets/internal/auth"
	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/logger"
	"github.com/foxerka/enterprise-assets/internal/mapper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService handles login and the current user profile
type AuthService struct {
	db     *gorm.DB
	tokens *auth.TokenService
	logger *zap.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(db *gorm.DB, tokens *auth.TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{db: db, tokens: tokens, logger: logger}
}

// Login checks the credentials and issues an access token. Unknown users
// and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Preload("Role").
		Where("LOWER(username) = LOWER(?)", strings.TrimSpace(req.Username)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Info("login rejected", zap.String("username", req.Username), zap.String("reason", "unknown user"))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, domain.NewStoreError("load user", err)
	}

	if !auth.ComparePassword(user.PasswordHash, req.Password) {
		logger.WithUser(s.logger, user.ID, user.Username).Info("login rejected", zap.String("reason", "wrong password"))
		return nil, ErrInvalidCredentials
	}

	uc := &auth.UserContext{UserID: user.ID, Username: user.Username, FullName: user.FullName}
	if user.Role != nil {
		uc.Role = user.Role.Name
	}
	token, expiresAt, err := s.tokens.Issue(uc)
	if err != nil {
		return nil, err
	}

	logger.WithUser(s.logger, user.ID, user.Username).Info("user logged in", zap.String("role", uc.Role))
	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format("2006-01-02T15:04:05Z"),
		User:      mapper.ToUserDTO(&user),
	}, nil
}

// Me returns the profile of the authenticated user
func (s *AuthService) Me(ctx context.Context) (*domain.UserDTO, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	var user domain.User
	err := s.db.WithContext(ctx).Preload("Role").First(&user, uc.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewStoreError("load user", err)
	}
	dto := mapper.ToUserDTO(&user)
	return &dto, nil
}
