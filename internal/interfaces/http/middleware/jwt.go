package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bookstore/backend/internal/infrastructure/auth"
	"github.com/bookstore/backend/internal/infrastructure/logger"
	"github.com/bookstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	JWTRoleKey    = "jwt_role"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenValidator verifies a bearer token
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	Validator TokenValidator
	// SkipPaths are matched exactly against the request path
	SkipPaths []string
	Logger    *zap.Logger
}

// JWTAuth rejects requests without a valid bearer token and stores the
// acting user's id and role for handlers
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		header := c.GetHeader(AuthHeaderKey)
		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || token == "" {
			abortUnauthorized(c, cfg.Logger, auth.ErrInvalidToken, "Missing or malformed authorization header")
			return
		}

		claims, err := cfg.Validator.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, cfg.Logger, err, "Token validation failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTRoleKey, claims.Role)

		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error, message string) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	code, msg := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, msg = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrMissingUserID), errors.Is(err, auth.ErrTokenNotYetValid):
		code, msg = dto.ErrCodeInvalidToken, "Invalid token"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail(code, msg, GetRequestID(c)))
}

// RequireStaff lets only staff and admin roles through
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetJWTRole(c).IsStaff() {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Fail(
				dto.ErrCodeForbidden,
				"Staff role required",
				GetRequestID(c),
			))
			return
		}
		c.Next()
	}
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(JWTUserIDKey))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetJWTRole retrieves the role from JWT claims in context
func GetJWTRole(c *gin.Context) auth.Role {
	if v, ok := c.Get(JWTRoleKey); ok {
		if role, ok := v.(auth.Role); ok {
			return role
		}
	}
	return ""
}
