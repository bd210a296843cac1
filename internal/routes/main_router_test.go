package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"repair-tracker/pkg/config"
	"repair-tracker/pkg/customvalidator"
	"repair-tracker/pkg/utils"
)

// RepairWorkflowSuite проверяет полный жизненный цикл через HTTP API:
// статус -> исполнитель -> заказ -> устройство -> журнал -> таймлайн.
type RepairWorkflowSuite struct {
	suite.Suite
	Echo  *echo.Echo
	DB    *pgxpool.Pool
	Redis *redis.Client

	StatusBacklogKey string
	StatusDoneKey    string
	AssigneeKey      string
	OrderKey         string
	UnitKey          string
}

func (s *RepairWorkflowSuite) SetupSuite() {
	e := echo.New()
	cfg := config.New()

	v := validator.New()
	s.Require().NoError(customvalidator.RegisterCustomValidations(v))
	e.Validator = utils.NewValidator(v)

	dbConn, err := pgxpool.New(context.Background(), os.Getenv("TEST_DATABASE_URL"))
	s.Require().NoError(err, "Не удалось подключиться к тестовой БД")

	path, _ := filepath.Abs("../../testdata/schema.sql")
	schema, err := os.ReadFile(path)
	s.Require().NoError(err, "Не удалось прочитать schema.sql")
	_, err = dbConn.Exec(context.Background(), string(schema))
	s.Require().NoError(err, "Не удалось применить схему БД")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, DB: 1})

	InitRouter(e, dbConn, redisClient, zap.NewNop(), cfg)

	s.Echo = e
	s.DB = dbConn
	s.Redis = redisClient
}

func (s *RepairWorkflowSuite) TearDownSuite() {
	if s.DB != nil {
		s.DB.Close()
	}
	if s.Redis != nil {
		s.Redis.Close()
	}
}

// doJSON выполняет запрос к тестовому серверу и разбирает конверт ответа.
func (s *RepairWorkflowSuite) doJSON(method, target string, payload any) (int, map[string]interface{}) {
	var reqBody *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		s.Require().NoError(err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, target, reqBody)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	var responseBody map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &responseBody); err != nil {
		log.Printf("Ответ не является JSON: %s", rec.Body.String())
	}
	return rec.Code, responseBody
}

func bodyOf(response map[string]interface{}) map[string]interface{} {
	body, _ := response["body"].(map[string]interface{})
	return body
}

func (s *RepairWorkflowSuite) TestFullRepairWorkflow() {
	s.Run("1_CreateStatuses", func() {
		code, resp := s.doJSON(http.MethodPost, "/api/statuses", map[string]string{"name": "Backlog"})
		s.Require().Equal(http.StatusCreated, code, "Body: %v", resp)
		s.StatusBacklogKey = bodyOf(resp)["key"].(string)

		code, resp = s.doJSON(http.MethodPost, "/api/statuses", map[string]string{"name": "Done"})
		s.Require().Equal(http.StatusCreated, code)
		s.StatusDoneKey = bodyOf(resp)["key"].(string)

		// Повторное имя должно дать конфликт.
		code, _ = s.doJSON(http.MethodPost, "/api/statuses", map[string]string{"name": "Backlog"})
		assert.Equal(s.T(), http.StatusConflict, code)
	})

	s.Run("2_CreateAssignee", func() {
		code, resp := s.doJSON(http.MethodPost, "/api/assignees", map[string]string{"name": "Анвар"})
		s.Require().Equal(http.StatusCreated, code, "Body: %v", resp)
		s.AssigneeKey = bodyOf(resp)["key"].(string)
	})

	s.Run("3_CreateOrderWithDefaultStatus", func() {
		code, resp := s.doJSON(http.MethodPost, "/api/repair-orders", map[string]string{"name": "Партия-2024-03"})
		s.Require().Equal(http.StatusCreated, code, "Body: %v", resp)
		body := bodyOf(resp)
		s.OrderKey = body["key"].(string)
		assert.Equal(s.T(), "Backlog", body["status"], "Без явного статуса заказ получает статус по умолчанию")
	})

	s.Run("4_CreateUnitLogsInitialStatus", func() {
		code, resp := s.doJSON(http.MethodPost, "/api/repair-units", map[string]interface{}{
			"serial":       "SN-E2E-001",
			"type":         "machine",
			"order_key":    s.OrderKey,
			"assignee_key": s.AssigneeKey,
		})
		s.Require().Equal(http.StatusCreated, code, "Body: %v", resp)
		body := bodyOf(resp)
		s.UnitKey = body["key"].(string)
		assert.Equal(s.T(), "Backlog", body["current_status"])
		assert.Equal(s.T(), "Анвар", body["current_assignee"])

		code, resp = s.doJSON(http.MethodGet, fmt.Sprintf("/api/repair-units/%s/events", s.UnitKey), nil)
		s.Require().Equal(http.StatusOK, code)
		events := resp["body"].([]interface{})
		s.Require().Len(events, 1, "Создание устройства должно записать начальное событие статуса")
		first := events[0].(map[string]interface{})
		assert.Equal(s.T(), "status", first["type"])
		assert.Equal(s.T(), "Backlog", first["status"])
	})

	s.Run("5_StatusChangeAppendsEvent", func() {
		code, resp := s.doJSON(http.MethodPut, "/api/repair-units/"+s.UnitKey, map[string]string{
			"status_key": s.StatusDoneKey,
		})
		s.Require().Equal(http.StatusOK, code, "Body: %v", resp)
		assert.Equal(s.T(), "Done", bodyOf(resp)["current_status"])

		code, resp = s.doJSON(http.MethodGet, fmt.Sprintf("/api/repair-units/%s/events", s.UnitKey), nil)
		s.Require().Equal(http.StatusOK, code)
		events := resp["body"].([]interface{})
		s.Require().Len(events, 2)
		last := events[1].(map[string]interface{})
		assert.Equal(s.T(), "status", last["type"])
		assert.Equal(s.T(), "Done", last["status"])
		assert.Equal(s.T(), "Анвар", last["assignee"])
	})

	s.Run("6_CommentEventAndRemoval", func() {
		code, resp := s.doJSON(http.MethodPost, fmt.Sprintf("/api/repair-units/%s/events", s.UnitKey), map[string]interface{}{
			"type":         "comment",
			"assignee_key": s.AssigneeKey,
			"comment":      "проверено после ремонта",
		})
		s.Require().Equal(http.StatusCreated, code, "Body: %v", resp)
		eventID := bodyOf(resp)["id"].(string)

		// Событие типа status добавить напрямую нельзя.
		code, _ = s.doJSON(http.MethodPost, fmt.Sprintf("/api/repair-units/%s/events", s.UnitKey), map[string]interface{}{
			"type":         "status",
			"assignee_key": s.AssigneeKey,
			"comment":      "...",
		})
		assert.Equal(s.T(), http.StatusBadRequest, code)

		code, _ = s.doJSON(http.MethodDelete, fmt.Sprintf("/api/repair-units/%s/events/%s", s.UnitKey, eventID), nil)
		s.Require().Equal(http.StatusOK, code)

		code, _ = s.doJSON(http.MethodDelete, fmt.Sprintf("/api/repair-units/%s/events/%s", s.UnitKey, eventID), nil)
		assert.Equal(s.T(), http.StatusNotFound, code, "Повторное удаление события должно вернуть 404")
	})

	s.Run("7_Timeline", func() {
		code, resp := s.doJSON(http.MethodGet, fmt.Sprintf("/api/repair-orders/%s/timeline", s.OrderKey), nil)
		s.Require().Equal(http.StatusOK, code, "Body: %v", resp)
		timeline := bodyOf(resp)
		s.Require().NotEmpty(timeline, "Таймлайн заказа с устройством не должен быть пустым")

		for _, bucket := range timeline {
			day := bucket.(map[string]interface{})
			_, hasTotal := day["Total Units"]
			assert.True(s.T(), hasTotal, "Каждый день должен содержать агрегатную серию")
		}

		code, _ = s.doJSON(http.MethodGet, "/api/repair-orders/RO-99999/timeline", nil)
		assert.Equal(s.T(), http.StatusNotFound, code)

		code, _ = s.doJSON(http.MethodGet, fmt.Sprintf("/api/repair-orders/%s/timeline", s.UnitKey), nil)
		assert.Equal(s.T(), http.StatusBadRequest, code, "Ключ другого вида должен быть отвергнут")
	})

	s.Run("8_DeleteGuards", func() {
		code, _ := s.doJSON(http.MethodDelete, "/api/repair-orders/"+s.OrderKey, nil)
		assert.Equal(s.T(), http.StatusConflict, code, "Заказ с устройствами удалять нельзя")

		code, _ = s.doJSON(http.MethodDelete, "/api/repair-units/"+s.UnitKey, nil)
		s.Require().Equal(http.StatusOK, code)

		code, _ = s.doJSON(http.MethodDelete, "/api/repair-orders/"+s.OrderKey, nil)
		s.Require().Equal(http.StatusOK, code)

		code, _ = s.doJSON(http.MethodGet, "/api/repair-orders/"+s.OrderKey, nil)
		assert.Equal(s.T(), http.StatusNotFound, code)
	})
}

func TestRepairWorkflowSuite(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL не задан, интеграционный тест API пропущен")
	}
	suite.Run(t, new(RepairWorkflowSuite))
}
