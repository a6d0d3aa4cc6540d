package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"assembly-directory.backend/internal/domain/entities"
	domainerrors "assembly-directory.backend/internal/domain/errors"
	"assembly-directory.backend/internal/interfaces/http/response"
	"assembly-directory.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// AdminIDKey is the context key for the admin ID
	AdminIDKey = "adminId"
	// AdminEmailKey is the context key for the admin email
	AdminEmailKey = "adminEmail"
	// AdminIdentityKey holds the full verified identity
	AdminIdentityKey = "adminIdentity"
)

// TokenVerifier checks a bearer token without touching the store
type TokenVerifier interface {
	Verify(token string) (*entities.AdminIdentity, error)
}

// AuthMiddleware rejects requests without a valid admin token before any handler runs
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Warn(c.Request.Context(), "Authorization header is missing", zap.String("path", c.Request.URL.Path))
			response.AbortWithError(c, domainerrors.Unauthorized("Authorization header is required"))
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			logger.Warn(c.Request.Context(), "Invalid authorization format", zap.String("path", c.Request.URL.Path))
			response.AbortWithError(c, domainerrors.Unauthorized("Invalid authorization format. Use: Bearer <token>"))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		identity, err := verifier.Verify(token)
		if err != nil {
			logger.Warn(c.Request.Context(), "Token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			if errors.Is(err, domainerrors.ErrTokenExpired) {
				response.AbortWithError(c, domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeTokenExpired, "Token has expired", err))
				return
			}
			response.AbortWithError(c, domainerrors.Unauthorized("Invalid token"))
			return
		}

		c.Set(AdminIDKey, identity.ID)
		c.Set(AdminEmailKey, identity.Email)
		c.Set(AdminIdentityKey, identity)

		c.Next()
	}
}

// GetAdminIdentity returns the identity set by AuthMiddleware
func GetAdminIdentity(c *gin.Context) (*entities.AdminIdentity, bool) {
	v, exists := c.Get(AdminIdentityKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*entities.AdminIdentity)
	return identity, ok
}
