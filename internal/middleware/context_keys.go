package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// actorIDKey is the key used to store the acting party's ID.
const actorIDKey = contextKey("actorID")

const (
	// ActorHeader names the caller on whose behalf a write is made.
	ActorHeader = "X-Actor-ID"
	// DefaultActor is recorded when no actor header is supplied.
	DefaultActor = "system"

	maxActorLength = 128
)

// ActorMiddleware reads the actor header into the Gin and request contexts.
// There is no authentication; the actor is recorded only for audit fields.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := strings.TrimSpace(c.GetHeader(ActorHeader))
		if actorID == "" {
			actorID = DefaultActor
		}
		if len(actorID) > maxActorLength {
			GetLoggerFromCtx(c.Request.Context()).Warn("Actor header too long", slog.Int("length", len(actorID)))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ActorHeader + " header is too long", "code": "VALIDATION_ERROR"})
			return
		}

		c.Set(string(actorIDKey), actorID)
		ctx := context.WithValue(c.Request.Context(), actorIDKey, actorID)
		ctx = WithLogger(ctx, GetLoggerFromCtx(ctx).With(slog.String("actor_id", actorID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetActorIDFromContext retrieves the actor ID from the Gin context.
// It returns the actor ID and a boolean indicating if it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorIDVal, exists := c.Get(string(actorIDKey))
	if !exists {
		// check in the request context as well
		return ActorIDFromCtx(c.Request.Context())
	}

	actorID, ok := actorIDVal.(string)
	if !ok {
		return "", false
	}
	return actorID, true
}

// ActorIDFromCtx retrieves the actor ID from a standard context.
func ActorIDFromCtx(ctx context.Context) (string, bool) {
	actorID, ok := ctx.Value(actorIDKey).(string)
	return actorID, ok && actorID != ""
}
