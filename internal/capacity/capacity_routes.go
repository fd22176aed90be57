package capacity

import (
	"github.com/gin-gonic/gin"

	"leavedesk/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	strength := r.Group("/team-strength")
	strength.Use(middleware.AuthMiddleware())
	{
		strength.GET("", h.GetRange)
		strength.GET("/today", h.GetToday)
	}
}
