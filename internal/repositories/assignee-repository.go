package repositories

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"repair-tracker/internal/dto"
	apperrors "repair-tracker/pkg/errors"
	"repair-tracker/pkg/keys"
	"repair-tracker/pkg/types"
)

const assigneeTable = "assignees"

var assigneeAllowedFields = map[string]string{
	"id":   "id",
	"name": "name",
}

type dbAssignee struct {
	ID   uint64
	Name string
}

func (db *dbAssignee) ToDTO() dto.AssigneeDTO {
	return dto.AssigneeDTO{
		ID:   db.ID,
		Key:  keys.Format(keys.AssigneePrefix, db.ID),
		Name: db.Name,
	}
}

type AssigneeRepositoryInterface interface {
	GetAssignees(ctx context.Context, filter types.Filter) ([]dto.AssigneeDTO, uint64, error)
	FindAssignee(ctx context.Context, id uint64) (*dto.AssigneeDTO, error)
	CreateAssignee(ctx context.Context, payload dto.CreateAssigneeDTO) (*dto.AssigneeDTO, error)
	UpdateAssignee(ctx context.Context, id uint64, name string) (*dto.AssigneeDTO, error)
	DeleteAssignee(ctx context.Context, id uint64) error
}

type assigneeRepository struct{ storage *pgxpool.Pool }

func NewAssigneeRepository(storage *pgxpool.Pool) AssigneeRepositoryInterface {
	return &assigneeRepository{storage: storage}
}

func (r *assigneeRepository) GetAssignees(ctx context.Context, filter types.Filter) ([]dto.AssigneeDTO, uint64, error) {
	countBuilder := psql.Select("COUNT(*)").From(assigneeTable)
	listBuilder := psql.Select("id", "name").From(assigneeTable).OrderBy("id")

	if filter.Search != "" {
		searchCond := sq.ILike{"name": "%" + filter.Search + "%"}
		countBuilder = countBuilder.Where(searchCond)
		listBuilder = listBuilder.Where(searchCond)
	}
	listBuilder = ApplyListParams(listBuilder, filter, assigneeAllowedFields)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.AssigneeDTO{}, 0, nil
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

	assignees := make([]dto.AssigneeDTO, 0)
	for rows.Next() {
		var dbRow dbAssignee
		if err := rows.Scan(&dbRow.ID, &dbRow.Name); err != nil {
			return nil, 0, err
		}
		assignees = append(assignees, dbRow.ToDTO())
	}
	return assignees, total, rows.Err()
}

func (r *assigneeRepository) FindAssignee(ctx context.Context, id uint64) (*dto.AssigneeDTO, error) {
	var dbRow dbAssignee
	err := r.storage.QueryRow(ctx, "SELECT id, name FROM assignees WHERE id = $1", id).
		Scan(&dbRow.ID, &dbRow.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	assigneeDTO := dbRow.ToDTO()
	return &assigneeDTO, nil
}

func (r *assigneeRepository) CreateAssignee(ctx context.Context, payload dto.CreateAssigneeDTO) (*dto.AssigneeDTO, error) {
	var dbRow dbAssignee
	err := r.storage.QueryRow(ctx, "INSERT INTO assignees (name) VALUES ($1) RETURNING id, name", payload.Name).
		Scan(&dbRow.ID, &dbRow.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrDuplicateName
		}
		return nil, err
	}
	assigneeDTO := dbRow.ToDTO()
	return &assigneeDTO, nil
}

func (r *assigneeRepository) UpdateAssignee(ctx context.Context, id uint64, name string) (*dto.AssigneeDTO, error) {
	var dbRow dbAssignee
	err := r.storage.QueryRow(ctx, "UPDATE assignees SET name = $1 WHERE id = $2 RETURNING id, name", name, id).
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
	assigneeDTO := dbRow.ToDTO()
	return &assigneeDTO, nil
}

func (r *assigneeRepository) DeleteAssignee(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM assignees WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.ErrAssigneeInUse
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
