package leave

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"leavedesk/internal/middleware"
	"leavedesk/internal/role"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", h.GetAll)
		leaves.GET("/pending", role.Authorize(role.Approver, role.Admin), h.GetPending)
		leaves.GET("/:id", h.GetByID)
		leaves.POST("",
			middleware.RateLimitByUser(rate.Limit(1), 3),
			middleware.Idempotency(rdb),
			h.Submit,
		)
		leaves.POST("/:id/approve", role.Authorize(role.Approver, role.Admin), h.Approve)
		leaves.POST("/:id/reject", role.Authorize(role.Approver, role.Admin), h.Reject)
		leaves.POST("/:id/cancel", h.Cancel)
	}

	// Static metadata, no auth needed
	r.GET("/leave-types", h.GetLeaveTypes)
}
