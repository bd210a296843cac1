package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/entities"
	apperrors "repair-tracker/pkg/errors"
	"repair-tracker/pkg/keys"
)

const repairUnitFields = "id, serial, type, current_status_id, current_assignee_id, repair_order_id, created, updated_at, events_json"

type dbRepairUnit struct {
	ID                uint64
	Serial            string
	Type              string
	CurrentStatusID   uint64
	CurrentAssigneeID sql.NullInt64
	RepairOrderID     uint64
	Created           time.Time
	UpdatedAt         time.Time
	EventsJSON        sql.NullString
	StatusName        string
	AssigneeName      sql.NullString
}

func (db *dbRepairUnit) toEntity() entities.RepairUnit {
	unit := entities.RepairUnit{
		ID:              db.ID,
		Serial:          db.Serial,
		Type:            entities.UnitType(db.Type),
		CurrentStatusID: db.CurrentStatusID,
		RepairOrderID:   db.RepairOrderID,
		Created:         db.Created,
		UpdatedAt:       db.UpdatedAt,
	}
	if db.CurrentAssigneeID.Valid {
		assigneeID := uint64(db.CurrentAssigneeID.Int64)
		unit.CurrentAssigneeID = &assigneeID
	}
	if db.EventsJSON.Valid {
		unit.EventsJSON = db.EventsJSON.String
	}
	return unit
}

func (db *dbRepairUnit) ToDTO() dto.RepairUnitDTO {
	unitDTO := dto.RepairUnitDTO{
		Key:            keys.Format(keys.RepairUnitPrefix, db.ID),
		Serial:         db.Serial,
		Type:           db.Type,
		CurrentStatus:  db.StatusName,
		RepairOrderKey: keys.Format(keys.RepairOrderPrefix, db.RepairOrderID),
		Created:        db.Created.UTC().Format(time.RFC3339),
		UpdatedAt:      db.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if db.AssigneeName.Valid {
		unitDTO.CurrentAssignee = db.AssigneeName.String
	}
	return unitDTO
}

type RepairUnitRepositoryInterface interface {
	ListByOrder(ctx context.Context, orderID uint64) ([]dto.RepairUnitDTO, error)
	FindUnit(ctx context.Context, id uint64) (*dto.RepairUnitDTO, error)
	FindUnitEntity(ctx context.Context, id uint64) (*entities.RepairUnit, error)
	FindUnitForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.RepairUnit, error)
	FindUnitsByOrderID(ctx context.Context, orderID uint64) ([]entities.RepairUnit, error)
	CreateUnit(ctx context.Context, unit entities.RepairUnit) (uint64, error)
	UpdateUnitTx(ctx context.Context, tx pgx.Tx, unit entities.RepairUnit) error
	DeleteUnit(ctx context.Context, id uint64) error
}

type repairUnitRepository struct{ storage *pgxpool.Pool }

func NewRepairUnitRepository(storage *pgxpool.Pool) RepairUnitRepositoryInterface {
	return &repairUnitRepository{storage: storage}
}

func (r *repairUnitRepository) ListByOrder(ctx context.Context, orderID uint64) ([]dto.RepairUnitDTO, error) {
	query := `
		SELECT ru.id, ru.serial, ru.type, ru.current_status_id, ru.current_assignee_id,
		       ru.repair_order_id, ru.created, ru.updated_at, ru.events_json,
		       s.name, a.name
		FROM repair_units ru
		JOIN statuses s ON s.id = ru.current_status_id
		LEFT JOIN assignees a ON a.id = ru.current_assignee_id
		WHERE ru.repair_order_id = $1
		ORDER BY ru.serial`
	rows, err := r.storage.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := make([]dto.RepairUnitDTO, 0)
	for rows.Next() {
		var dbRow dbRepairUnit
		if err := rows.Scan(&dbRow.ID, &dbRow.Serial, &dbRow.Type, &dbRow.CurrentStatusID, &dbRow.CurrentAssigneeID,
			&dbRow.RepairOrderID, &dbRow.Created, &dbRow.UpdatedAt, &dbRow.EventsJSON,
			&dbRow.StatusName, &dbRow.AssigneeName); err != nil {
			return nil, err
		}
		units = append(units, dbRow.ToDTO())
	}
	return units, rows.Err()
}

func (r *repairUnitRepository) FindUnit(ctx context.Context, id uint64) (*dto.RepairUnitDTO, error) {
	query := `
		SELECT ru.id, ru.serial, ru.type, ru.current_status_id, ru.current_assignee_id,
		       ru.repair_order_id, ru.created, ru.updated_at, ru.events_json,
		       s.name, a.name
		FROM repair_units ru
		JOIN statuses s ON s.id = ru.current_status_id
		LEFT JOIN assignees a ON a.id = ru.current_assignee_id
		WHERE ru.id = $1`
	var dbRow dbRepairUnit
	err := r.storage.QueryRow(ctx, query, id).Scan(&dbRow.ID, &dbRow.Serial, &dbRow.Type, &dbRow.CurrentStatusID, &dbRow.CurrentAssigneeID,
		&dbRow.RepairOrderID, &dbRow.Created, &dbRow.UpdatedAt, &dbRow.EventsJSON,
		&dbRow.StatusName, &dbRow.AssigneeName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	unitDTO := dbRow.ToDTO()
	return &unitDTO, nil
}

func (r *repairUnitRepository) FindUnitEntity(ctx context.Context, id uint64) (*entities.RepairUnit, error) {
	var dbRow dbRepairUnit
	err := r.storage.QueryRow(ctx, "SELECT "+repairUnitFields+" FROM repair_units WHERE id = $1", id).
		Scan(&dbRow.ID, &dbRow.Serial, &dbRow.Type, &dbRow.CurrentStatusID, &dbRow.CurrentAssigneeID,
			&dbRow.RepairOrderID, &dbRow.Created, &dbRow.UpdatedAt, &dbRow.EventsJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	unit := dbRow.toEntity()
	return &unit, nil
}

// FindUnitForUpdate читает устройство в транзакции с блокировкой строки,
// чтобы чтение-изменение-запись журнала не теряло события при гонке.
func (r *repairUnitRepository) FindUnitForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.RepairUnit, error) {
	var dbRow dbRepairUnit
	err := tx.QueryRow(ctx, "SELECT "+repairUnitFields+" FROM repair_units WHERE id = $1 FOR UPDATE", id).
		Scan(&dbRow.ID, &dbRow.Serial, &dbRow.Type, &dbRow.CurrentStatusID, &dbRow.CurrentAssigneeID,
			&dbRow.RepairOrderID, &dbRow.Created, &dbRow.UpdatedAt, &dbRow.EventsJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	unit := dbRow.toEntity()
	return &unit, nil
}

// FindUnitsByOrderID отдаёт все устройства заказа одним запросом —
// входные данные для построения таймлайна.
func (r *repairUnitRepository) FindUnitsByOrderID(ctx context.Context, orderID uint64) ([]entities.RepairUnit, error) {
	rows, err := r.storage.Query(ctx,
		"SELECT "+repairUnitFields+" FROM repair_units WHERE repair_order_id = $1 ORDER BY serial", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := make([]entities.RepairUnit, 0)
	for rows.Next() {
		var dbRow dbRepairUnit
		if err := rows.Scan(&dbRow.ID, &dbRow.Serial, &dbRow.Type, &dbRow.CurrentStatusID, &dbRow.CurrentAssigneeID,
			&dbRow.RepairOrderID, &dbRow.Created, &dbRow.UpdatedAt, &dbRow.EventsJSON); err != nil {
			return nil, err
		}
		units = append(units, dbRow.toEntity())
	}
	return units, rows.Err()
}

func (r *repairUnitRepository) CreateUnit(ctx context.Context, unit entities.RepairUnit) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		`INSERT INTO repair_units (serial, type, current_status_id, current_assignee_id, repair_order_id, events_json)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		unit.Serial, string(unit.Type), unit.CurrentStatusID, unit.CurrentAssigneeID, unit.RepairOrderID, unit.EventsJSON).
		Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return 0, apperrors.ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// UpdateUnitTx записывает скалярные поля и журнал одним UPDATE:
// изменение статуса и запись события фиксируются атомарно.
func (r *repairUnitRepository) UpdateUnitTx(ctx context.Context, tx pgx.Tx, unit entities.RepairUnit) error {
	result, err := tx.Exec(ctx,
		`UPDATE repair_units
		 SET serial = $1, type = $2, current_status_id = $3, current_assignee_id = $4, events_json = $5, updated_at = NOW()
		 WHERE id = $6`,
		unit.Serial, string(unit.Type), unit.CurrentStatusID, unit.CurrentAssigneeID, unit.EventsJSON, unit.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.ErrNotFound
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *repairUnitRepository) DeleteUnit(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM repair_units WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
