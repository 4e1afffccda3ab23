package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulsefeed/pulse/internal/api/params"
	"github.com/pulsefeed/pulse/internal/auth"
	"github.com/pulsefeed/pulse/pkg/logging"
)

// ActorMiddleware resolves the Authorization bearer token to an actor id and
// stores it on the request context. Resolution is permissive: missing or dead
// tokens resolve to 0 and the individual methods decide whether that is
// acceptable.
func ActorMiddleware(resolver auth.Resolver) gin.HandlerFunc {
	logger := logging.GetLogger().With(zap.String("component", "actor-middleware"))
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		actorID, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			// Resolution failure degrades to unauthenticated rather than
			// failing the whole request.
			logger.Warn("actor resolution failed", zap.Error(err))
			actorID = 0
		}
		params.SetActor(c, actorID)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
