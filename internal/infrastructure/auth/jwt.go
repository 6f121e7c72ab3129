// Package auth verifies the bearer tokens issued by the identity service.
package auth

import (
	"errors"
	"time"

	"github.com/bookstore/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role is the coarse permission level carried in an access token
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
	RoleAdmin    Role = "ADMIN"
)

// IsStaff reports whether the role may operate the back office
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrMissingSecret    = errors.New("jwt secret is not configured")
)

// Claims are the custom claims of a bookstore access token
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// UserUUID parses the user id claim
func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// JWTService signs and verifies HS256 access tokens
type JWTService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewJWTService creates a JWT service from configuration
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		now:    time.Now,
	}
}

// IssueAccessToken signs a token for userID. The identity service owns
// issuance in production; this exists for operators and tests.
func (s *JWTService) IssueAccessToken(userID uuid.UUID, role Role, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMissingSecret
	}
	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID.String(),
		Role:   role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateAccessToken verifies the signature, issuer and time claims of a token
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrMissingSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	if _, err := claims.UserUUID(); err != nil {
		return nil, ErrInvalidClaims
	}
	if claims.Role == "" {
		claims.Role = RoleCustomer
	}
	return claims, nil
}
