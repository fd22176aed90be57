package auth

import (
	"github.com/gin-gonic/gin"

	"leavedesk/internal/middleware"
	"leavedesk/internal/role"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", middleware.RateLimitByIP(1, 5), h.Login)
		authGroup.POST("/refresh", h.RefreshToken)
		authGroup.POST("/reset-password", middleware.RateLimitByIP(1, 5), h.ResetPassword)

		authGroup.GET("/me", middleware.AuthMiddleware(), h.Me)
		authGroup.POST("/reset-link", middleware.AuthMiddleware(), role.Authorize(role.Admin), h.GenerateResetLink)
	}
}
