package repositories

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/entities"
	"repair-tracker/internal/journal"
	apperrors "repair-tracker/pkg/errors"
)

var testPool *pgxpool.Pool

// TestMain подключается к тестовой БД и применяет схему. Без переменной
// TEST_DATABASE_URL интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	testDbUrl := os.Getenv("TEST_DATABASE_URL")
	if testDbUrl == "" {
		log.Println("TEST_DATABASE_URL не задан, интеграционные тесты репозиториев пропущены")
		os.Exit(m.Run())
	}

	var err error
	testPool, err = pgxpool.New(context.Background(), testDbUrl)
	if err != nil {
		log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
	}
	defer testPool.Close()

	applySchema(testPool)

	os.Exit(m.Run())
}

func applySchema(pool *pgxpool.Pool) {
	path, _ := filepath.Abs("../../testdata/schema.sql")
	schema, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Не удалось прочитать schema.sql: %v", err)
	}
	if _, err := pool.Exec(context.Background(), string(schema)); err != nil {
		log.Fatalf("Не удалось применить схему БД: %v", err)
	}
}

func requireTestPool(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL не задан")
	}
}

func cleanupTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE TABLE repair_units, repair_orders, assignees, statuses RESTART IDENTITY CASCADE;`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

// seedData создаёт статус, исполнителя и заказ, необходимые для тестов устройств.
func seedData(t *testing.T, pool *pgxpool.Pool) (statusID, assigneeID, orderID uint64) {
	t.Helper()
	ctx := context.Background()

	err := pool.QueryRow(ctx, `INSERT INTO statuses (name) VALUES ('Backlog') RETURNING id`).Scan(&statusID)
	require.NoError(t, err)

	err = pool.QueryRow(ctx, `INSERT INTO assignees (name) VALUES ('Тестовый Исполнитель') RETURNING id`).Scan(&assigneeID)
	require.NoError(t, err)

	err = pool.QueryRow(ctx, `INSERT INTO repair_orders (name, status_id) VALUES ('Тестовый заказ', $1) RETURNING id`, statusID).Scan(&orderID)
	require.NoError(t, err)

	return
}

func TestRepairUnitRepository_Integration_CreateAndFind(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t, testPool)
	statusID, assigneeID, orderID := seedData(t, testPool)
	repo := NewRepairUnitRepository(testPool)
	ctx := context.Background()

	j := journal.Journal{}
	event := journal.NewEvent(journal.EventStatus, "Тестовый Исполнитель")
	event.Status = "Backlog"
	j.Append(event)
	eventsJSON, err := j.Encode()
	require.NoError(t, err)

	newID, err := repo.CreateUnit(ctx, entities.RepairUnit{
		Serial:            "SN-INT-001",
		Type:              entities.UnitTypeMachine,
		CurrentStatusID:   statusID,
		CurrentAssigneeID: &assigneeID,
		RepairOrderID:     orderID,
		EventsJSON:        eventsJSON,
	})
	require.NoError(t, err)
	require.True(t, newID > 0)

	t.Run("find DTO", func(t *testing.T) {
		found, err := repo.FindUnit(ctx, newID)
		require.NoError(t, err)
		assert.Equal(t, "SN-INT-001", found.Serial)
		assert.Equal(t, "Backlog", found.CurrentStatus)
		assert.Equal(t, "Тестовый Исполнитель", found.CurrentAssignee)
	})

	t.Run("find entity keeps journal", func(t *testing.T) {
		unit, err := repo.FindUnitEntity(ctx, newID)
		require.NoError(t, err)
		decoded := journal.Decode(unit.EventsJSON)
		require.Len(t, decoded.Events, 1)
		assert.Equal(t, journal.EventStatus, decoded.Events[0].Type)
		assert.Equal(t, "Backlog", decoded.Events[0].Status)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindUnit(ctx, 99999)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("create with missing order fails", func(t *testing.T) {
		_, err := repo.CreateUnit(ctx, entities.RepairUnit{
			Serial:          "SN-INT-002",
			Type:            entities.UnitTypeHashboard,
			CurrentStatusID: statusID,
			RepairOrderID:   99999,
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestRepairUnitRepository_Integration_UpdateJournalTx(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t, testPool)
	statusID, _, orderID := seedData(t, testPool)
	repo := NewRepairUnitRepository(testPool)
	ctx := context.Background()

	newID, err := repo.CreateUnit(ctx, entities.RepairUnit{
		Serial:          "SN-TX-001",
		Type:            entities.UnitTypeMachine,
		CurrentStatusID: statusID,
		RepairOrderID:   orderID,
		EventsJSON:      "",
	})
	require.NoError(t, err)

	err = WithTx(ctx, testPool, func(tx pgx.Tx) error {
		unit, err := repo.FindUnitForUpdate(ctx, tx, newID)
		if err != nil {
			return err
		}
		j := journal.Decode(unit.EventsJSON)
		comment := journal.NewEvent(journal.EventComment, "Тестовый Исполнитель")
		comment.Comment = "диагностика проведена"
		j.Append(comment)
		unit.EventsJSON, err = j.Encode()
		if err != nil {
			return err
		}
		return repo.UpdateUnitTx(ctx, tx, *unit)
	})
	require.NoError(t, err)

	unit, err := repo.FindUnitEntity(ctx, newID)
	require.NoError(t, err)
	decoded := journal.Decode(unit.EventsJSON)
	require.Len(t, decoded.Events, 1)
	assert.Equal(t, journal.EventComment, decoded.Events[0].Type)
	assert.Equal(t, "диагностика проведена", decoded.Events[0].Comment)
}

func TestStatusRepository_Integration_Constraints(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t, testPool)
	statusID, _, _ := seedData(t, testPool)
	repo := NewStatusRepository(testPool)
	ctx := context.Background()

	t.Run("duplicate name", func(t *testing.T) {
		_, err := repo.CreateStatus(ctx, dto.CreateStatusDTO{Name: "Backlog"})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateName)
	})

	t.Run("delete referenced status", func(t *testing.T) {
		err := repo.DeleteStatus(ctx, statusID)
		assert.ErrorIs(t, err, apperrors.ErrStatusInUse)
	})

	t.Run("default status is earliest", func(t *testing.T) {
		_, err := repo.CreateStatus(ctx, dto.CreateStatusDTO{Name: "In Progress"})
		require.NoError(t, err)
		defaultStatus, err := repo.FindDefaultStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Backlog", defaultStatus.Name)
	})
}
