package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"leavedesk/internal/auth"
	"leavedesk/internal/blockperiod"
	"leavedesk/internal/capacity"
	"leavedesk/internal/config"
	"leavedesk/internal/leave"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/middleware"
	"leavedesk/internal/profile"
	"leavedesk/internal/role"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	router.Use(middleware.RequestID())

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	blockPeriodRepo := blockperiod.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	profileRepo := profile.NewRepository(gormDB)
	roleRepo := role.NewRepository(gormDB)

	// --- Services ---
	authService := auth.NewService(authRepo, roleRepo, rdb, cfg)
	blockPeriodService := blockperiod.NewService(blockPeriodRepo)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, blockPeriodService, outboxRepo)
	capacityService := capacity.NewService(leaveRepo, rdb, cfg)
	profileService := profile.NewService(profileRepo)
	roleService := role.NewService(db, roleRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	blockPeriodHandler := blockperiod.NewHandler(blockPeriodService)
	capacityHandler := capacity.NewHandler(capacityService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)
	profileHandler := profile.NewHandler(profileService)
	roleHandler := role.NewHandler(roleService)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		blockperiod.RegisterRoutes(api, blockPeriodHandler)
		capacity.RegisterRoutes(api, capacityHandler)
		leave.RegisterRoutes(api, leaveHandler, rdb)
		profile.RegisterRoutes(api, profileHandler)
		role.RegisterRoutes(api, roleHandler)
	}

	return nil
}
