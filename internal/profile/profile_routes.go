package profile

import (
	"github.com/gin-gonic/gin"

	"leavedesk/internal/middleware"
	"leavedesk/internal/role"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	profiles := r.Group("/profiles")
	profiles.Use(middleware.AuthMiddleware())
	{
		profiles.GET("", h.GetAll)
		profiles.GET("/with-roles", role.Authorize(role.Admin), h.GetAllWithRoles)
		profiles.GET("/:id", h.GetByID)
	}
}
