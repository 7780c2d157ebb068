package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/foxerka/enterprise-assets/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims are the JWT claims issued on login
type Claims struct {
	Username string `json:"username"`
	FullName string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 access tokens
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service from auth config
func NewTokenService(cfg *config.AuthConfig) *TokenService {
	return &TokenService{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTLDuration(),
		now:    time.Now,
	}
}

// Issue signs a token for the user and returns it with its expiry
func (s *TokenService) Issue(user *UserContext) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.UserID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// ValidateToken validates a JWT token and returns user context
func (s *TokenService) ValidateToken(tokenString string) (*UserContext, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: invalid subject", ErrInvalidToken)
	}

	return &UserContext{
		UserID:   userID,
		Username: claims.Username,
		FullName: claims.FullName,
		Role:     claims.Role,
	}, nil
}
