package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-tracker/internal/controllers"
	"repair-tracker/internal/services"
)

func runAssigneeRouter(api *echo.Group, assigneeService services.AssigneeServiceInterface, logger *zap.Logger) {
	assigneeCtrl := controllers.NewAssigneeController(assigneeService, logger)

	api.GET("/assignees", assigneeCtrl.GetAssignees)
	api.GET("/assignees/:key", assigneeCtrl.FindAssignee)
	api.POST("/assignees", assigneeCtrl.CreateAssignee)
	api.PUT("/assignees/:key", assigneeCtrl.UpdateAssignee)
	api.DELETE("/assignees/:key", assigneeCtrl.DeleteAssignee)
}
