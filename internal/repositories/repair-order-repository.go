package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/entities"
	apperrors "repair-tracker/pkg/errors"
	"repair-tracker/pkg/keys"
	"repair-tracker/pkg/types"
)

const (
	repairOrderTable  = "repair_orders"
	repairOrderFields = "ro.id, ro.name, ro.status_id, s.name, ro.summary, ro.created, ro.received, ro.finished, (SELECT COUNT(*) FROM repair_units ru WHERE ru.repair_order_id = ro.id)"
)

var repairOrderAllowedFields = map[string]string{
	"id":        "ro.id",
	"name":      "ro.name",
	"status_id": "ro.status_id",
	"created":   "ro.created",
}

type dbRepairOrder struct {
	ID         uint64
	Name       string
	StatusID   uint64
	StatusName string
	Summary    sql.NullString
	Created    time.Time
	Received   null.Time
	Finished   null.Time
	UnitCount  uint64
}

func (db *dbRepairOrder) scanFields() []interface{} {
	return []interface{}{&db.ID, &db.Name, &db.StatusID, &db.StatusName, &db.Summary, &db.Created, &db.Received, &db.Finished, &db.UnitCount}
}

func (db *dbRepairOrder) ToDTO() dto.RepairOrderDTO {
	orderDTO := dto.RepairOrderDTO{
		Key:       keys.Format(keys.RepairOrderPrefix, db.ID),
		Name:      db.Name,
		Status:    db.StatusName,
		StatusKey: keys.Format(keys.StatusPrefix, db.StatusID),
		Created:   db.Created.UTC().Format(time.RFC3339),
		UnitCount: db.UnitCount,
	}
	if db.Summary.Valid {
		orderDTO.Summary = db.Summary.String
	}
	if db.Received.Valid {
		orderDTO.Received = db.Received.Time.UTC().Format(time.RFC3339)
	}
	if db.Finished.Valid {
		orderDTO.Finished = db.Finished.Time.UTC().Format(time.RFC3339)
	}
	return orderDTO
}

type RepairOrderRepositoryInterface interface {
	GetOrders(ctx context.Context, filter types.Filter) ([]dto.RepairOrderDTO, uint64, error)
	FindOrder(ctx context.Context, id uint64) (*dto.RepairOrderDTO, error)
	FindOrderEntity(ctx context.Context, id uint64) (*entities.RepairOrder, error)
	CreateOrder(ctx context.Context, name string, statusID uint64, summary *string, received null.Time) (*dto.RepairOrderDTO, error)
	UpdateOrder(ctx context.Context, id uint64, name *string, statusID *uint64, summary *string, received, finished null.Time) (*dto.RepairOrderDTO, error)
	DeleteOrder(ctx context.Context, id uint64) error
}

type repairOrderRepository struct{ storage *pgxpool.Pool }

func NewRepairOrderRepository(storage *pgxpool.Pool) RepairOrderRepositoryInterface {
	return &repairOrderRepository{storage: storage}
}

func (r *repairOrderRepository) GetOrders(ctx context.Context, filter types.Filter) ([]dto.RepairOrderDTO, uint64, error) {
	countBuilder := psql.Select("COUNT(*)").From(repairOrderTable + " ro")
	listBuilder := psql.Select(repairOrderFields).
		From(repairOrderTable + " ro").
		Join("statuses s ON s.id = ro.status_id").
		OrderBy("ro.id")

	if filter.Search != "" {
		searchCond := sq.ILike{"ro.name": "%" + filter.Search + "%"}
		countBuilder = countBuilder.Where(searchCond)
		listBuilder = listBuilder.Where(searchCond)
	}
	listBuilder = ApplyListParams(listBuilder, filter, repairOrderAllowedFields)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.RepairOrderDTO{}, 0, nil
	}

	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]dto.RepairOrderDTO, 0)
	for rows.Next() {
		var dbRow dbRepairOrder
		if err := rows.Scan(dbRow.scanFields()...); err != nil {
			return nil, 0, err
		}
		orders = append(orders, dbRow.ToDTO())
	}
	return orders, total, rows.Err()
}

func (r *repairOrderRepository) FindOrder(ctx context.Context, id uint64) (*dto.RepairOrderDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ro JOIN statuses s ON s.id = ro.status_id WHERE ro.id = $1", repairOrderFields, repairOrderTable)
	var dbRow dbRepairOrder
	err := r.storage.QueryRow(ctx, query, id).Scan(dbRow.scanFields()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	orderDTO := dbRow.ToDTO()
	return &orderDTO, nil
}

func (r *repairOrderRepository) FindOrderEntity(ctx context.Context, id uint64) (*entities.RepairOrder, error) {
	var order entities.RepairOrder
	err := r.storage.QueryRow(ctx,
		"SELECT id, name, status_id, summary, created, received, finished FROM repair_orders WHERE id = $1", id).
		Scan(&order.ID, &order.Name, &order.StatusID, &order.Summary, &order.Created, &order.Received, &order.Finished)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *repairOrderRepository) CreateOrder(ctx context.Context, name string, statusID uint64, summary *string, received null.Time) (*dto.RepairOrderDTO, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		"INSERT INTO repair_orders (name, status_id, summary, received) VALUES ($1, $2, $3, $4) RETURNING id",
		name, statusID, summary, received).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return r.FindOrder(ctx, id)
}

func (r *repairOrderRepository) UpdateOrder(ctx context.Context, id uint64, name *string, statusID *uint64, summary *string, received, finished null.Time) (*dto.RepairOrderDTO, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	if name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argID))
		args = append(args, *name)
		argID++
	}
	if statusID != nil {
		setClauses = append(setClauses, fmt.Sprintf("status_id = $%d", argID))
		args = append(args, *statusID)
		argID++
	}
	if summary != nil {
		setClauses = append(setClauses, fmt.Sprintf("summary = $%d", argID))
		args = append(args, *summary)
		argID++
	}
	if received.Valid {
		setClauses = append(setClauses, fmt.Sprintf("received = $%d", argID))
		args = append(args, received)
		argID++
	}
	if finished.Valid {
		setClauses = append(setClauses, fmt.Sprintf("finished = $%d", argID))
		args = append(args, finished)
		argID++
	}
	if len(setClauses) == 0 {
		return r.FindOrder(ctx, id)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING id", repairOrderTable, strings.Join(setClauses, ", "), argID)
	args = append(args, id)

	var updatedID uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return r.FindOrder(ctx, updatedID)
}

func (r *repairOrderRepository) DeleteOrder(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM repair_orders WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.ErrOrderHasUnits
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
