package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-tracker/internal/controllers"
	"repair-tracker/internal/services"
)

func runStatusRouter(api *echo.Group, statusService services.StatusServiceInterface, logger *zap.Logger) {
	statusCtrl := controllers.NewStatusController(statusService, logger)

	api.GET("/statuses", statusCtrl.GetStatuses)
	api.GET("/statuses/:key", statusCtrl.FindStatus)
	api.POST("/statuses", statusCtrl.CreateStatus)
	api.PUT("/statuses/:key", statusCtrl.UpdateStatus)
	api.DELETE("/statuses/:key", statusCtrl.DeleteStatus)
}
