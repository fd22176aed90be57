package role

import (
	"github.com/gin-gonic/gin"

	"leavedesk/internal/shared/apperror"
	"leavedesk/internal/shared/response"
)

// Gin context keys populated by the auth middleware.
const (
	ContextUserID = "user_id"
	ContextRoles  = "roles"
)

// ActorFrom rebuilds the authenticated actor from the gin context.
// Services never read the context themselves; handlers pass this in.
func ActorFrom(c *gin.Context) Actor {
	return Actor{
		ID:    c.GetString(ContextUserID),
		Roles: ParseList(c.GetStringSlice(ContextRoles)),
	}
}

// Authorize gates a route on the actor holding any of the required roles.
func Authorize(required ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if actor.ID == "" {
			e := apperror.ErrUnauthorized
			response.Error(c, e.HTTPStatus, e.Code, e.Message, nil)
			c.Abort()
			return
		}
		if !actor.HasAny(required...) {
			e := apperror.ErrForbidden
			response.Error(c, e.HTTPStatus, e.Code, e.Message, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
