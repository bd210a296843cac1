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

type RepairUnitController struct {
	unitService services.RepairUnitServiceInterface
	logger      *zap.Logger
}

func NewRepairUnitController(unitService services.RepairUnitServiceInterface, logger *zap.Logger) *RepairUnitController {
	return &RepairUnitController{unitService: unitService, logger: logger}
}

func (c *RepairUnitController) FindUnit(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	unit, err := c.unitService.FindUnit(reqCtx, ctx.Param("key"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, unit, "Устройство успешно найдено", http.StatusOK)
}

func (c *RepairUnitController) CreateUnit(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateRepairUnitDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверное тело запроса", err),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	unit, err := c.unitService.CreateUnit(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, unit, "Устройство успешно создано", http.StatusCreated)
}

func (c *RepairUnitController) UpdateUnit(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.UpdateRepairUnitDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверное тело запроса", err),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	unit, err := c.unitService.UpdateUnit(reqCtx, ctx.Param("key"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, unit, "Устройство успешно обновлено", http.StatusOK)
}

func (c *RepairUnitController) DeleteUnit(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if err := c.unitService.DeleteUnit(reqCtx, ctx.Param("key")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Устройство успешно удалено", http.StatusOK)
}

func (c *RepairUnitController) GetEvents(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	events, err := c.unitService.GetEvents(reqCtx, ctx.Param("key"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, events, "Журнал устройства успешно получен", http.StatusOK)
}

func (c *RepairUnitController) AddEvent(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateEventDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверное тело запроса", err),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	event, err := c.unitService.AddEvent(reqCtx, ctx.Param("key"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, event, "Событие успешно добавлено", http.StatusCreated)
}

func (c *RepairUnitController) RemoveEvent(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if err := c.unitService.RemoveEvent(reqCtx, ctx.Param("key"), ctx.Param("eventId")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Событие успешно удалено", http.StatusOK)
}
