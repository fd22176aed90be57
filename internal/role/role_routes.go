package role

import (
	"github.com/gin-gonic/gin"

	"leavedesk/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	roles := r.Group("/roles")
	roles.Use(middleware.AuthMiddleware())
	{
		roles.GET("/:userID", Authorize(Admin), h.GetForUser)
		roles.POST("/grant", Authorize(Admin), h.Grant)
		roles.POST("/revoke", Authorize(Admin), h.Revoke)
	}
}
