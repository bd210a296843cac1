package controllers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/services"
	"repair-tracker/pkg/utils"
)

type TimelineController struct {
	timelineService services.TimelineServiceInterface
	logger          *zap.Logger
}

func NewTimelineController(timelineService services.TimelineServiceInterface, logger *zap.Logger) *TimelineController {
	return &TimelineController{timelineService: timelineService, logger: logger}
}

func (c *TimelineController) GetTimeline(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	orderKey := ctx.Param("key")

	timeline, err := c.timelineService.BuildTimeline(reqCtx, orderKey)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if strings.ToLower(ctx.QueryParam("format")) == "xlsx" {
		return c.respondWithXLSX(ctx, orderKey, timeline)
	}
	return utils.SuccessResponse(ctx, timeline, "Таймлайн успешно сформирован", http.StatusOK)
}

func (c *TimelineController) GetStatusEvents(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	events, err := c.timelineService.GetStatusEvents(reqCtx, ctx.Param("key"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, events, "История смен статуса успешно получена", http.StatusOK)
}

// respondWithXLSX выгружает таймлайн сеткой: строки — даты, колонки — серии,
// в ячейках — ключи устройств серии за день.
func (c *TimelineController) respondWithXLSX(ctx echo.Context, orderKey string, timeline dto.TimelineDTO) error {
	f := excelize.NewFile()
	sheet := "Таймлайн"
	f.SetSheetName("Sheet1", sheet)

	dates := make([]string, 0, len(timeline))
	seriesSet := make(map[string]struct{})
	for date, bucket := range timeline {
		dates = append(dates, date)
		for name := range bucket {
			seriesSet[name] = struct{}{}
		}
	}
	sort.Strings(dates)

	seriesNames := make([]string, 0, len(seriesSet))
	for name := range seriesSet {
		seriesNames = append(seriesNames, name)
	}
	sort.Strings(seriesNames)

	headers := append([]string{"Дата"}, seriesNames...)
	f.SetSheetRow(sheet, "A1", &headers)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", lastCol, style)

	for i, date := range dates {
		row := make([]interface{}, 0, len(headers))
		row = append(row, date)
		for _, name := range seriesNames {
			unitKeys := make([]string, 0)
			for _, u := range timeline[date][name] {
				unitKeys = append(unitKeys, u.UnitKey)
			}
			row = append(row, strings.Join(unitKeys, ", "))
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow(sheet, cell, &row)
	}

	f.SetColWidth(sheet, "A", "A", 14)
	if len(headers) > 1 {
		secondCol, _ := excelize.ColumnNumberToName(2)
		lastColName, _ := excelize.ColumnNumberToName(len(headers))
		f.SetColWidth(sheet, secondCol, lastColName, 28)
	}

	fileName := fmt.Sprintf("timeline_%s_%s.xlsx", orderKey, time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
