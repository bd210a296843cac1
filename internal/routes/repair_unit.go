package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-tracker/internal/controllers"
	"repair-tracker/internal/services"
)

func runRepairUnitRouter(api *echo.Group, unitService services.RepairUnitServiceInterface, logger *zap.Logger) {
	unitCtrl := controllers.NewRepairUnitController(unitService, logger)

	api.GET("/repair-units/:key", unitCtrl.FindUnit)
	api.POST("/repair-units", unitCtrl.CreateUnit)
	api.PUT("/repair-units/:key", unitCtrl.UpdateUnit)
	api.DELETE("/repair-units/:key", unitCtrl.DeleteUnit)

	api.GET("/repair-units/:key/events", unitCtrl.GetEvents)
	api.POST("/repair-units/:key/events", unitCtrl.AddEvent)
	api.DELETE("/repair-units/:key/events/:eventId", unitCtrl.RemoveEvent)
}
