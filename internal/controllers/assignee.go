package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/services"
	apperrors "repair-tracker/pkg/errors"
	"repair-tracker/pkg/utils"
)

type AssigneeController struct {
	assigneeService services.AssigneeServiceInterface
	logger          *zap.Logger
}

func NewAssigneeController(assigneeService services.AssigneeServiceInterface, logger *zap.Logger) *AssigneeController {
	return &AssigneeController{assigneeService: assigneeService, logger: logger}
}

func (c *AssigneeController) GetAssignees(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	assignees, total, err := c.assigneeService.GetAssignees(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, assignees, "Список исполнителей успешно получен", http.StatusOK, total)
}

func (c *AssigneeController) FindAssignee(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	assignee, err := c.assigneeService.FindAssignee(reqCtx, ctx.Param("key"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, assignee, "Исполнитель успешно найден", http.StatusOK)
}

func (c *AssigneeController) CreateAssignee(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateAssigneeDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверное тело запроса", err),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	assignee, err := c.assigneeService.CreateAssignee(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, assignee, "Исполнитель успешно создан", http.StatusCreated)
}

func (c *AssigneeController) UpdateAssignee(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.UpdateAssigneeDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверное тело запроса", err),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	assignee, err := c.assigneeService.UpdateAssignee(reqCtx, ctx.Param("key"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, assignee, "Исполнитель успешно обновлён", http.StatusOK)
}

func (c *AssigneeController) DeleteAssignee(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if err := c.assigneeService.DeleteAssignee(reqCtx, ctx.Param("key")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Исполнитель успешно удалён", http.StatusOK)
}
