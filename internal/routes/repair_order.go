package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-tracker/internal/controllers"
	"repair-tracker/internal/services"
)

func runRepairOrderRouter(
	api *echo.Group,
	orderService services.RepairOrderServiceInterface,
	timelineService services.TimelineServiceInterface,
	logger *zap.Logger,
) {
	orderCtrl := controllers.NewRepairOrderController(orderService, logger)
	timelineCtrl := controllers.NewTimelineController(timelineService, logger)

	api.GET("/repair-orders", orderCtrl.GetOrders)
	api.GET("/repair-orders/:key", orderCtrl.FindOrder)
	api.POST("/repair-orders", orderCtrl.CreateOrder)
	api.PUT("/repair-orders/:key", orderCtrl.UpdateOrder)
	api.DELETE("/repair-orders/:key", orderCtrl.DeleteOrder)
	api.GET("/repair-orders/:key/units", orderCtrl.GetOrderUnits)

	api.GET("/repair-orders/:key/timeline", timelineCtrl.GetTimeline)
	api.GET("/repair-orders/:key/status-events", timelineCtrl.GetStatusEvents)
}
