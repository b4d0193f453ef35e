package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"payledger.backend/internal/domain/entities"
	domainerrors "payledger.backend/internal/domain/errors"
	"payledger.backend/internal/interfaces/http/response"
	"payledger.backend/pkg/jwt"
	"payledger.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// ActorKey is the context key for the authenticated actor
	ActorKey = "actor"
	// EmailKey is the context key for the caller's email
	EmailKey = "email"
)

// AuthMiddleware validates the bearer token and stores the caller as an Actor
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			abort(c, domainerrors.Unauthorized("Authorization header is required"))
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abort(c, domainerrors.Unauthorized("Invalid authorization format. Use: Bearer <token>"))
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			logger.Warn(c.Request.Context(), "Token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			if errors.Is(err, jwt.ErrExpiredToken) {
				abort(c, domainerrors.Unauthorized("Token has expired"))
				return
			}
			abort(c, domainerrors.Unauthorized("Invalid token"))
			return
		}

		owner := entities.Owner{Type: entities.OwnerType(claims.OwnerType), ID: claims.SubjectID}
		if !owner.Type.Valid() {
			abort(c, domainerrors.Unauthorized("Invalid token"))
			return
		}

		c.Set(ActorKey, entities.NewActor(claims.SubjectID, owner, claims.Role, claims.Capabilities))
		c.Set(EmailKey, claims.Email)
		ctx := context.WithValue(c.Request.Context(), logger.OwnerIDKey, owner.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetActor returns the authenticated caller
func GetActor(c *gin.Context) (entities.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return entities.Actor{}, false
	}
	actor, ok := v.(entities.Actor)
	return actor, ok
}

// GetEmail returns the caller's email claim
func GetEmail(c *gin.Context) string {
	return c.GetString(EmailKey)
}

// RequireCapability rejects callers that were not granted every listed capability
func RequireCapability(caps ...entities.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			abort(c, domainerrors.Unauthorized("User not authenticated"))
			return
		}
		for _, capability := range caps {
			if !actor.Can(capability) {
				abort(c, domainerrors.Forbidden("Insufficient permissions"))
				return
			}
		}
		c.Next()
	}
}

func abort(c *gin.Context, err *domainerrors.AppError) {
	response.ErrorWithError(c, err.Status, err.Code, err.Message)
	c.Abort()
}
