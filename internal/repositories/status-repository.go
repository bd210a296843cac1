package repositories

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/entities"
	apperrors "repair-tracker/pkg/errors"
	"repair-tracker/pkg/keys"
	"repair-tracker/pkg/types"
)

const statusTable = "statuses"

var statusAllowedFields = map[string]string{
	"id":   "id",
	"name": "name",
}

type dbStatus struct {
	ID   uint64
	Name string
}

func (db *dbStatus) ToDTO() dto.StatusDTO {
	return dto.StatusDTO{
		ID:   db.ID,
		Key:  keys.Format(keys.StatusPrefix, db.ID),
		Name: db.Name,
	}
}

type StatusRepositoryInterface interface {
	GetStatuses(ctx context.Context, filter types.Filter) ([]dto.StatusDTO, uint64, error)
	FindStatus(ctx context.Context, id uint64) (*dto.StatusDTO, error)
	FindDefaultStatus(ctx context.Context) (*entities.Status, error)
	CreateStatus(ctx context.Context, payload dto.CreateStatusDTO) (*dto.StatusDTO, error)
	UpdateStatus(ctx context.Context, id uint64, name string) (*dto.StatusDTO, error)
	DeleteStatus(ctx context.Context, id uint64) error
}

type statusRepository struct{ storage *pgxpool.Pool }

func NewStatusRepository(storage *pgxpool.Pool) StatusRepositoryInterface {
	return &statusRepository{storage: storage}
}

func (r *statusRepository) GetStatuses(ctx context.Context, filter types.Filter) ([]dto.StatusDTO, uint64, error) {
	countBuilder := psql.Select("COUNT(*)").From(statusTable)
	listBuilder := psql.Select("id", "name").From(statusTable).OrderBy("id")

	if filter.Search != "" {
		searchCond := sq.ILike{"name": "%" + filter.Search + "%"}
		countBuilder = countBuilder.Where(searchCond)
		listBuilder = listBuilder.Where(searchCond)
	}
	listBuilder = ApplyListParams(listBuilder, filter, statusAllowedFields)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.StatusDTO{}, 0, nil
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

	statuses := make([]dto.StatusDTO, 0)
	for rows.Next() {
		var dbRow dbStatus
		if err := rows.Scan(&dbRow.ID, &dbRow.Name); err != nil {
			return nil, 0, err
		}
		statuses = append(statuses, dbRow.ToDTO())
	}
	return statuses, total, rows.Err()
}

func (r *statusRepository) FindStatus(ctx context.Context, id uint64) (*dto.StatusDTO, error) {
	var dbRow dbStatus
	err := r.storage.QueryRow(ctx, "SELECT id, name FROM statuses WHERE id = $1", id).
		Scan(&dbRow.ID, &dbRow.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	statusDTO := dbRow.ToDTO()
	return &statusDTO, nil
}

// FindDefaultStatus возвращает статус по умолчанию (самый ранний по ID).
// Без единого статуса нельзя создать ни заказ, ни устройство.
func (r *statusRepository) FindDefaultStatus(ctx context.Context) (*entities.Status, error) {
	var status entities.Status
	err := r.storage.QueryRow(ctx, "SELECT id, name FROM statuses ORDER BY id LIMIT 1").
		Scan(&status.ID, &status.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoStatusExists
		}
		return nil, err
	}
	return &status, nil
}

func (r *statusRepository) CreateStatus(ctx context.Context, payload dto.CreateStatusDTO) (*dto.StatusDTO, error) {
	var dbRow dbStatus
	err := r.storage.QueryRow(ctx, "INSERT INTO statuses (name) VALUES ($1) RETURNING id, name", payload.Name).
		Scan(&dbRow.ID, &dbRow.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrDuplicateName
		}
		return nil, err
	}
	statusDTO := dbRow.ToDTO()
	return &statusDTO, nil
}

func (r *statusRepository) UpdateStatus(ctx context.Context, id uint64, name string) (*dto.StatusDTO, error) {
	var dbRow dbStatus
	err := r.storage.QueryRow(ctx, "UPDATE statuses SET name = $1 WHERE id = $2 RETURNING id, name", name, id).
		Scan(&dbRow.ID, &dbRow.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrDuplicateName
		}
		return nil, err
	}
	statusDTO := dbRow.ToDTO()
	return &statusDTO, nil
}

func (r *statusRepository) DeleteStatus(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM statuses WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.ErrStatusInUse
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
