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

type RepairOrderController struct {
	orderService services.RepairOrderServiceInterface
	logger       *zap.Logger
}

func NewRepairOrderController(orderService services.RepairOrderServiceInterface, logger *zap.Logger) *RepairOrderController {
	return &RepairOrderController{orderService: orderService, logger: logger}
}

func (c *RepairOrderController) GetOrders(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	orders, total, err := c.orderService.GetOrders(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, orders, "Список заказов успешно получен", http.StatusOK, total)
}

func (c *RepairOrderController) FindOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	order, err := c.orderService.FindOrder(reqCtx, ctx.Param("key"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, order, "Заказ успешно найден", http.StatusOK)
}

func (c *RepairOrderController) CreateOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateRepairOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверное тело запроса", err),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	order, err := c.orderService.CreateOrder(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, order, "Заказ успешно создан", http.StatusCreated)
}

func (c *RepairOrderController) UpdateOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.UpdateRepairOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверное тело запроса", err),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	order, err := c.orderService.UpdateOrder(reqCtx, ctx.Param("key"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, order, "Заказ успешно обновлён", http.StatusOK)
}

func (c *RepairOrderController) DeleteOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if err := c.orderService.DeleteOrder(reqCtx, ctx.Param("key")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Заказ успешно удалён", http.StatusOK)
}

func (c *RepairOrderController) GetOrderUnits(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	units, err := c.orderService.GetOrderUnits(reqCtx, ctx.Param("key"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, units, "Устройства заказа успешно получены", http.StatusOK)
}
