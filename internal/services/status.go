package services

import (
	"context"

	"go.uber.org/zap"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/repositories"
	"repair-tracker/pkg/keys"
	"repair-tracker/pkg/types"
)

type StatusServiceInterface interface {
	GetStatuses(ctx context.Context, filter types.Filter) ([]dto.StatusDTO, uint64, error)
	FindStatus(ctx context.Context, key string) (*dto.StatusDTO, error)
	CreateStatus(ctx context.Context, payload dto.CreateStatusDTO) (*dto.StatusDTO, error)
	UpdateStatus(ctx context.Context, key string, payload dto.UpdateStatusDTO) (*dto.StatusDTO, error)
	DeleteStatus(ctx context.Context, key string) error
}

type StatusService struct {
	statusRepository repositories.StatusRepositoryInterface
	logger           *zap.Logger
}

func NewStatusService(statusRepository repositories.StatusRepositoryInterface, logger *zap.Logger) StatusServiceInterface {
	return &StatusService{statusRepository: statusRepository, logger: logger}
}

func (s *StatusService) GetStatuses(ctx context.Context, filter types.Filter) ([]dto.StatusDTO, uint64, error) {
	return s.statusRepository.GetStatuses(ctx, filter)
}

func (s *StatusService) FindStatus(ctx context.Context, key string) (*dto.StatusDTO, error) {
	id, err := keys.ParseAs(key, keys.StatusPrefix)
	if err != nil {
		return nil, err
	}
	return s.statusRepository.FindStatus(ctx, id)
}

func (s *StatusService) CreateStatus(ctx context.Context, payload dto.CreateStatusDTO) (*dto.StatusDTO, error) {
	statusDTO, err := s.statusRepository.CreateStatus(ctx, payload)
	if err != nil {
		s.logger.Error("ошибка при создании статуса", zap.Error(err), zap.String("name", payload.Name))
		return nil, err
	}
	s.logger.Info("Статус успешно создан", zap.String("key", statusDTO.Key), zap.String("name", statusDTO.Name))
	return statusDTO, nil
}

func (s *StatusService) UpdateStatus(ctx context.Context, key string, payload dto.UpdateStatusDTO) (*dto.StatusDTO, error) {
	id, err := keys.ParseAs(key, keys.StatusPrefix)
	if err != nil {
		return nil, err
	}
	if payload.Name == nil {
		return s.statusRepository.FindStatus(ctx, id)
	}
	statusDTO, err := s.statusRepository.UpdateStatus(ctx, id, *payload.Name)
	if err != nil {
		s.logger.Error("ошибка при обновлении статуса", zap.Error(err), zap.String("key", key))
		return nil, err
	}
	s.logger.Info("Статус обновлён", zap.String("key", key), zap.String("name", statusDTO.Name))
	return statusDTO, nil
}

func (s *StatusService) DeleteStatus(ctx context.Context, key string) error {
	id, err := keys.ParseAs(key, keys.StatusPrefix)
	if err != nil {
		return err
	}
	if err := s.statusRepository.DeleteStatus(ctx, id); err != nil {
		s.logger.Error("ошибка при удалении статуса", zap.Error(err), zap.String("key", key))
		return err
	}
	s.logger.Info("Статус удалён", zap.String("key", key))
	return nil
}
