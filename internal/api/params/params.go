// Package params holds the request plumbing shared by the API method
// packages: parameter decoding with validation, and the actor id carried on
// the request context by the auth middleware.
package params

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/pulsefeed/pulse/internal/engine"
)

// actorKey is the gin context key the auth middleware writes the resolved
// actor id under.
const actorKey = "pulse.actor_id"

var validate = validator.New()

// Decode unmarshals JSON-RPC params into dst and runs struct validation.
// Failures come back as invalid-argument errors.
func Decode(raw json.RawMessage, dst interface{}) error {
	const op = "api.decode_params"
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return engine.E(engine.KindInvalidArgument, op, "invalid parameters format").WithCause(err)
	}
	if err := validate.Struct(dst); err != nil {
		return engine.E(engine.KindInvalidArgument, op, "invalid parameters").WithCause(err)
	}
	return nil
}

// SetActor records the resolved actor id on the request context. 0 means
// unauthenticated.
func SetActor(c *gin.Context, actorID int64) {
	c.Set(actorKey, actorID)
}

// Actor returns the resolved actor id, 0 when the request carried no live
// session.
func Actor(c *gin.Context) int64 {
	if v, ok := c.Get(actorKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
