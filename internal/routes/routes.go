package routes

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-tracker/internal/repositories"
	"repair-tracker/internal/services"
	"repair-tracker/pkg/config"
)

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, logger *zap.Logger, cfg *config.Config) {
	logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")

	api.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	statusRepo := repositories.NewStatusRepository(dbConn)
	assigneeRepo := repositories.NewAssigneeRepository(dbConn)
	orderRepo := repositories.NewRepairOrderRepository(dbConn)
	unitRepo := repositories.NewRepairUnitRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	statusService := services.NewStatusService(statusRepo, logger)
	assigneeService := services.NewAssigneeService(assigneeRepo, logger)
	orderService := services.NewRepairOrderService(orderRepo, unitRepo, statusRepo, logger)
	unitService := services.NewRepairUnitService(dbConn, unitRepo, orderRepo, statusRepo, assigneeRepo, cacheRepo, logger)
	timelineService := services.NewTimelineService(orderRepo, unitRepo, cacheRepo, cfg.Timeline.CacheTTL, logger)

	runStatusRouter(api, statusService, logger)
	runAssigneeRouter(api, assigneeService, logger)
	runRepairOrderRouter(api, orderService, timelineService, logger)
	runRepairUnitRouter(api, unitService, logger)

	logger.Info("InitRouter: Создание маршрутов завершено")
}
