package blockperiod

import (
	"github.com/gin-gonic/gin"

	"leavedesk/internal/middleware"
	"leavedesk/internal/role"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	periods := r.Group("/block-periods")
	periods.Use(middleware.AuthMiddleware())
	{
		// Everyone sees active periods; only admins declare or remove them
		periods.GET("", h.GetAll)
		periods.POST("", role.Authorize(role.Admin), h.Create)
		periods.DELETE("/:id", role.Authorize(role.Admin), h.Delete)
	}
}
